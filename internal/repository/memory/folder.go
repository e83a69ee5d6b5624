// Package memory provides map-backed repository implementations used by
// tests. They mirror the semantics of the postgres repositories: inserts
// persist what the caller supplies, updates overwrite whole records and
// report ErrNotFound for absent ids, and reads return copies so callers
// never alias stored state.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"vault/internal/domain"
	"vault/internal/domain/models"
	"vault/internal/domain/repositories"
)

// FolderRepository is an in-memory FolderRepository implementation.
type FolderRepository struct {
	mu      sync.RWMutex
	folders map[string]models.Folder
}

// NewFolderRepository creates an empty in-memory folder repository
func NewFolderRepository() *FolderRepository {
	return &FolderRepository{
		folders: make(map[string]models.Folder),
	}
}

var _ repositories.FolderRepository = (*FolderRepository)(nil)

func (r *FolderRepository) Create(ctx context.Context, folder *models.Folder) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.folders[folder.ID] = *folder
	return nil
}

func (r *FolderRepository) GetByID(ctx context.Context, id string) (*models.Folder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	folder, ok := r.folders[id]
	if !ok {
		return nil, fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
	}
	return &folder, nil
}

func (r *FolderRepository) Update(ctx context.Context, folder *models.Folder) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.folders[folder.ID]; !ok {
		return fmt.Errorf("folder %s: %w", folder.ID, domain.ErrNotFound)
	}
	r.folders[folder.ID] = *folder
	return nil
}

func (r *FolderRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.folders[id]; !ok {
		return fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
	}
	delete(r.folders, id)
	return nil
}

func (r *FolderRepository) List(ctx context.Context) ([]models.Folder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	folders := make([]models.Folder, 0, len(r.folders))
	for _, folder := range r.folders {
		folders = append(folders, folder)
	}
	sort.Slice(folders, func(i, j int) bool {
		return folders[i].CreatedAt.Before(folders[j].CreatedAt)
	})
	return folders, nil
}

func (r *FolderRepository) ListChildren(ctx context.Context, parentID *string) ([]models.Folder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var children []models.Folder
	for _, folder := range r.folders {
		if sameRef(folder.ParentID, parentID) {
			children = append(children, folder)
		}
	}
	sort.Slice(children, func(i, j int) bool {
		return children[i].Name < children[j].Name
	})
	return children, nil
}

func sameRef(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
