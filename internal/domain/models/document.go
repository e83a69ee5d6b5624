package models

import (
	"time"
)

// DocumentStatus is the processing state of an uploaded document.
// A document is created as processing and transitions exactly once to
// either completed or failed.
type DocumentStatus string

const (
	StatusProcessing DocumentStatus = "processing"
	StatusCompleted  DocumentStatus = "completed"
	StatusFailed     DocumentStatus = "failed"
)

// Terminal reports whether no further transition can occur.
func (s DocumentStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

type Document struct {
	ID           string         `json:"id" db:"id"`
	OriginalName string         `json:"original_name" db:"original_name"`
	StoredName   string         `json:"stored_name" db:"stored_name"`
	StoredPath   string         `json:"-" db:"stored_path"` // server-local, never serialized
	SizeBytes    int64          `json:"size_bytes" db:"size_bytes"`
	MediaType    string         `json:"media_type" db:"media_type"`
	FolderID     *string        `json:"folder_id" db:"folder_id"` // NULL = root level
	Status       DocumentStatus `json:"status" db:"status"`
	Summary      *string        `json:"summary" db:"summary"`   // set iff completed
	Markdown     *string        `json:"markdown" db:"markdown"` // set iff completed
	Error        *string        `json:"error" db:"error"`       // set iff failed
	UploadedAt   time.Time      `json:"uploaded_at" db:"uploaded_at"`
	ProcessedAt  *time.Time     `json:"processed_at" db:"processed_at"` // set iff completed
}
