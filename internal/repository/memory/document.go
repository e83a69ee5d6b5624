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

// DocumentRepository is an in-memory DocumentRepository implementation.
type DocumentRepository struct {
	mu   sync.RWMutex
	docs map[string]models.Document
}

// NewDocumentRepository creates an empty in-memory document repository
func NewDocumentRepository() *DocumentRepository {
	return &DocumentRepository{
		docs: make(map[string]models.Document),
	}
}

var _ repositories.DocumentRepository = (*DocumentRepository)(nil)

func (r *DocumentRepository) Create(ctx context.Context, doc *models.Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.docs[doc.ID] = *doc
	return nil
}

func (r *DocumentRepository) GetByID(ctx context.Context, id string) (*models.Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	doc, ok := r.docs[id]
	if !ok {
		return nil, fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
	}
	return &doc, nil
}

func (r *DocumentRepository) Update(ctx context.Context, doc *models.Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.docs[doc.ID]; !ok {
		return fmt.Errorf("document %s: %w", doc.ID, domain.ErrNotFound)
	}
	r.docs[doc.ID] = *doc
	return nil
}

func (r *DocumentRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.docs[id]; !ok {
		return fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
	}
	delete(r.docs, id)
	return nil
}

func (r *DocumentRepository) List(ctx context.Context) ([]models.Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	docs := make([]models.Document, 0, len(r.docs))
	for _, doc := range r.docs {
		docs = append(docs, doc)
	}
	sort.Slice(docs, func(i, j int) bool {
		return docs[i].UploadedAt.After(docs[j].UploadedAt)
	})
	return docs, nil
}

func (r *DocumentRepository) ListByFolder(ctx context.Context, folderID *string) ([]models.Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var docs []models.Document
	for _, doc := range r.docs {
		if sameRef(doc.FolderID, folderID) {
			docs = append(docs, doc)
		}
	}
	sort.Slice(docs, func(i, j int) bool {
		return docs[i].UploadedAt.After(docs[j].UploadedAt)
	})
	return docs, nil
}
