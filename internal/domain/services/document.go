package services

import (
	"context"

	"vault/internal/domain/models"
	"vault/internal/httputil"
)

// DocumentService handles retrieval, relocation and deletion of uploaded
// documents. Creation goes through IngestService only.
type DocumentService interface {
	// Get retrieves a document by ID
	Get(ctx context.Context, id string) (*models.Document, error)

	// List retrieves all documents
	List(ctx context.Context) ([]models.Document, error)

	// Move relocates a document to another folder (or the root)
	Move(ctx context.Context, id string, req *MoveDocumentRequest) (*models.Document, error)

	// Delete removes the backing file (tolerating its absence) and the record
	Delete(ctx context.Context, id string) error

	// ResolveFile resolves the stored bytes of a document for streaming
	ResolveFile(ctx context.Context, id string) (*FileRef, error)
}

// MoveDocumentRequest moves a document. FolderID is tri-state: absent
// keeps the location, null moves to root.
type MoveDocumentRequest struct {
	FolderID httputil.OptionalString `json:"folder_id,omitempty"`
}

// FileRef points a caller at a document's original bytes.
type FileRef struct {
	Path         string // server-local path of the stored file
	MediaType    string // declared media type captured at upload
	OriginalName string // filename for Content-Disposition
}
