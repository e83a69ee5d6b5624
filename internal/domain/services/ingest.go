package services

import (
	"context"
	"io"

	"vault/internal/domain/models"
)

// IngestService validates an upload, persists it in processing state and
// enriches it in a detached background task.
type IngestService interface {
	// Ingest stores the upload and returns the new document immediately
	// with status processing. The caller never blocks on extraction or
	// enrichment; it observes completion by re-fetching the document.
	Ingest(ctx context.Context, up *Upload) (*models.Document, error)
}

// Upload is one file received from a client, with its declared metadata.
type Upload struct {
	Content      io.Reader
	OriginalName string
	MediaType    string
	SizeBytes    int64
	FolderID     *string // nil = root level
}

// Enrichment is the AI-generated representation of a document.
type Enrichment struct {
	Summary  string
	Markdown string
}

// TextExtractor turns a stored file and its declared media type into
// plain text. Types outside the accepted set fail with a validation error.
type TextExtractor interface {
	Extract(ctx context.Context, path, mediaType string) (string, error)
}

// Enricher turns extracted text into a summary and reformatted markdown.
// A malformed upstream reply degrades to defaults instead of failing; a
// transport-level upstream failure is a hard error.
type Enricher interface {
	Enrich(ctx context.Context, text, displayName string) (*Enrichment, error)
}
