package repositories

import (
	"context"

	"vault/internal/domain/models"
)

// FolderRepository defines data access operations for folders
type FolderRepository interface {
	// Create persists a new folder
	Create(ctx context.Context, folder *models.Folder) error

	// GetByID retrieves a folder by ID
	GetByID(ctx context.Context, id string) (*models.Folder, error)

	// Update overwrites an existing folder record
	Update(ctx context.Context, folder *models.Folder) error

	// Delete removes a folder record
	Delete(ctx context.Context, id string) error

	// List retrieves all folders, oldest first
	List(ctx context.Context) ([]models.Folder, error)

	// ListChildren lists immediate child folders (nil = root)
	ListChildren(ctx context.Context, parentID *string) ([]models.Folder, error)
}
