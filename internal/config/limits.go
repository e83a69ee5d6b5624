package config

// MaxUploadBytes is the upload size ceiling (10 MiB). Larger payloads are
// rejected before any record is created or file stored.
const MaxUploadBytes int64 = 10 << 20

// MaxFolderNameLength is the maximum length for folder names.
const MaxFolderNameLength = 255

// AllowedMediaTypes is the complete allow-list of upload media types.
// Anything else is rejected at intake.
var AllowedMediaTypes = map[string]struct{}{
	"application/pdf":    {},
	"application/msword": {},
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": {},
	"text/plain":    {},
	"text/markdown": {},
}
