package services

import (
	"context"

	"vault/internal/domain/models"
	"vault/internal/httputil"
)

// FolderService handles folder hierarchy operations. Every mutation
// enforces the structural invariants (resolvable parent, acyclic graph,
// empty-before-delete) against the repositories.
type FolderService interface {
	// Create creates a new folder, optionally under a parent
	Create(ctx context.Context, req *CreateFolderRequest) (*models.Folder, error)

	// Get retrieves a folder by ID
	Get(ctx context.Context, id string) (*models.Folder, error)

	// List retrieves all folders
	List(ctx context.Context) ([]models.Folder, error)

	// Update renames and/or moves a folder
	Update(ctx context.Context, id string, req *UpdateFolderRequest) (*models.Folder, error)

	// Delete deletes a folder; rejected while anything references it
	Delete(ctx context.Context, id string) error
}

// CreateFolderRequest represents a folder creation request
type CreateFolderRequest struct {
	Name     string  `json:"name"`
	ParentID *string `json:"parent_id,omitempty"` // nil for root
}

// UpdateFolderRequest represents a rename and/or move. ParentID is
// tri-state: absent keeps the location, null moves to root.
type UpdateFolderRequest struct {
	Name     *string                 `json:"name,omitempty"`
	ParentID httputil.OptionalString `json:"parent_id,omitempty"`
}
