package repositories

import (
	"context"

	"vault/internal/domain/models"
)

// DocumentRepository defines data access operations for documents.
// Implementations persist exactly the fields the caller supplies and
// overwrite all mutable columns on Update (last write wins).
type DocumentRepository interface {
	// Create persists a new document
	Create(ctx context.Context, doc *models.Document) error

	// GetByID retrieves a document by ID
	GetByID(ctx context.Context, id string) (*models.Document, error)

	// Update overwrites an existing document record
	Update(ctx context.Context, doc *models.Document) error

	// Delete removes a document record
	Delete(ctx context.Context, id string) error

	// List retrieves all documents, newest upload first
	List(ctx context.Context) ([]models.Document, error)

	// ListByFolder lists documents directly inside a folder (nil = root)
	ListByFolder(ctx context.Context, folderID *string) ([]models.Document, error)
}
