package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"vault/internal/domain"
	"vault/internal/domain/models"
	"vault/internal/domain/repositories"
	"vault/internal/domain/services"
)

type documentService struct {
	docRepo    repositories.DocumentRepository
	folderRepo repositories.FolderRepository
	blobs      services.BlobStore
	logger     *slog.Logger
}

// NewDocumentService creates a new document service
func NewDocumentService(
	docRepo repositories.DocumentRepository,
	folderRepo repositories.FolderRepository,
	blobs services.BlobStore,
	logger *slog.Logger,
) services.DocumentService {
	return &documentService{
		docRepo:    docRepo,
		folderRepo: folderRepo,
		blobs:      blobs,
		logger:     logger,
	}
}

// Get retrieves a document by ID
func (s *documentService) Get(ctx context.Context, id string) (*models.Document, error) {
	return s.docRepo.GetByID(ctx, id)
}

// List retrieves all documents
func (s *documentService) List(ctx context.Context) ([]models.Document, error) {
	return s.docRepo.List(ctx)
}

// Move relocates a document to another folder (or the root)
func (s *documentService) Move(ctx context.Context, id string, req *services.MoveDocumentRequest) (*models.Document, error) {
	if !req.FolderID.Present {
		return nil, fmt.Errorf("%w: folder_id must be provided", domain.ErrValidation)
	}

	doc, err := s.docRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.FolderID.Value != nil && *req.FolderID.Value != "" {
		folderID := *req.FolderID.Value
		if _, err := s.folderRepo.GetByID(ctx, folderID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, fmt.Errorf("%w: target folder %q not found", domain.ErrValidation, folderID)
			}
			return nil, err
		}
		doc.FolderID = &folderID
	} else {
		// null = move to root
		doc.FolderID = nil
	}

	if err := s.docRepo.Update(ctx, doc); err != nil {
		return nil, err
	}

	s.logger.Info("document moved", "id", doc.ID, "folder_id", doc.FolderID)

	return doc, nil
}

// Delete removes the backing file and the record. A backing file that is
// already gone does not block record deletion.
func (s *documentService) Delete(ctx context.Context, id string) error {
	doc, err := s.docRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.blobs.Remove(doc.StoredPath); err != nil {
		s.logger.Warn("failed to remove stored file, deleting record anyway",
			"id", id,
			"path", doc.StoredPath,
			"error", err,
		)
	}

	if err := s.docRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("document deleted", "id", id, "name", doc.OriginalName)

	return nil
}

// ResolveFile resolves the stored bytes of a document for streaming
func (s *documentService) ResolveFile(ctx context.Context, id string) (*services.FileRef, error) {
	doc, err := s.docRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !s.blobs.Exists(doc.StoredPath) {
		return nil, fmt.Errorf("file for document %s: %w", id, domain.ErrNotFound)
	}

	return &services.FileRef{
		Path:         doc.StoredPath,
		MediaType:    doc.MediaType,
		OriginalName: doc.OriginalName,
	}, nil
}
