package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"vault/internal/config"
	"vault/internal/domain"
	"vault/internal/domain/models"
	"vault/internal/domain/repositories"
	"vault/internal/domain/services"
)

type ingestService struct {
	docRepo    repositories.DocumentRepository
	folderRepo repositories.FolderRepository
	blobs      services.BlobStore
	extractor  services.TextExtractor
	enricher   services.Enricher
	logger     *slog.Logger

	// inflight guards against a background task being spawned twice for
	// the same document id; finishTask additionally re-checks the stored
	// status, so the terminal transition happens exactly once.
	inflight sync.Map
}

// NewIngestService creates the ingestion pipeline
func NewIngestService(
	docRepo repositories.DocumentRepository,
	folderRepo repositories.FolderRepository,
	blobs services.BlobStore,
	extractor services.TextExtractor,
	enricher services.Enricher,
	logger *slog.Logger,
) services.IngestService {
	return &ingestService{
		docRepo:    docRepo,
		folderRepo: folderRepo,
		blobs:      blobs,
		extractor:  extractor,
		enricher:   enricher,
		logger:     logger,
	}
}

// Ingest validates the upload, stores its bytes, persists the document in
// processing state and returns it. Extraction and enrichment run in a
// detached background task; the caller polls the document for the
// terminal status.
func (s *ingestService) Ingest(ctx context.Context, up *services.Upload) (*models.Document, error) {
	if err := validateUpload(up); err != nil {
		return nil, err
	}

	// Normalize empty string to nil for root-level uploads
	if up.FolderID != nil && *up.FolderID == "" {
		up.FolderID = nil
	}
	if up.FolderID != nil {
		if _, err := s.folderRepo.GetByID(ctx, *up.FolderID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, fmt.Errorf("%w: folder %q not found", domain.ErrValidation, *up.FolderID)
			}
			return nil, err
		}
	}

	blob, err := s.blobs.Save(up.OriginalName, up.Content)
	if err != nil {
		return nil, fmt.Errorf("store upload: %w", err)
	}

	doc := &models.Document{
		ID:           uuid.NewString(),
		OriginalName: up.OriginalName,
		StoredName:   blob.Name,
		StoredPath:   blob.Path,
		SizeBytes:    blob.Size,
		MediaType:    up.MediaType,
		FolderID:     up.FolderID,
		Status:       models.StatusProcessing,
		UploadedAt:   time.Now().UTC(),
	}

	if err := s.docRepo.Create(ctx, doc); err != nil {
		// The record never existed; don't leave the bytes orphaned.
		if removeErr := s.blobs.Remove(blob.Path); removeErr != nil {
			s.logger.Warn("failed to remove orphaned upload", "path", blob.Path, "error", removeErr)
		}
		return nil, err
	}

	s.logger.Info("document ingested",
		"id", doc.ID,
		"name", doc.OriginalName,
		"media_type", doc.MediaType,
		"size_bytes", doc.SizeBytes,
		"folder_id", doc.FolderID,
	)

	go s.processDocument(doc.ID, doc.StoredPath, doc.MediaType, doc.OriginalName)

	return doc, nil
}

// processDocument is the detached background task: extract text, enrich
// it, write exactly one terminal update. It deliberately ignores the
// request context; once started it runs to a terminal state.
func (s *ingestService) processDocument(docID, path, mediaType, displayName string) {
	if _, loaded := s.inflight.LoadOrStore(docID, struct{}{}); loaded {
		return
	}
	defer s.inflight.Delete(docID)

	ctx := context.Background()

	text, err := s.extractor.Extract(ctx, path, mediaType)
	if err != nil {
		s.finishTask(ctx, docID, nil, fmt.Errorf("text extraction failed: %v", err))
		return
	}

	enrichment, err := s.enricher.Enrich(ctx, text, displayName)
	if err != nil {
		s.finishTask(ctx, docID, nil, fmt.Errorf("enrichment failed: %v", err))
		return
	}

	s.finishTask(ctx, docID, enrichment, nil)
}

// finishTask writes the terminal transition for one document. Only a
// document still in processing state is touched, which makes a duplicate
// completion attempt a no-op.
func (s *ingestService) finishTask(ctx context.Context, docID string, enrichment *services.Enrichment, taskErr error) {
	doc, err := s.docRepo.GetByID(ctx, docID)
	if err != nil {
		s.logger.Error("background task lost its document", "id", docID, "error", err)
		return
	}
	if doc.Status != models.StatusProcessing {
		s.logger.Debug("document already in terminal state, skipping update",
			"id", docID,
			"status", doc.Status,
		)
		return
	}

	if taskErr != nil {
		doc.Status = models.StatusFailed
		msg := taskErr.Error()
		doc.Error = &msg
	} else {
		now := time.Now().UTC()
		doc.Status = models.StatusCompleted
		doc.Summary = &enrichment.Summary
		doc.Markdown = &enrichment.Markdown
		doc.ProcessedAt = &now
	}

	if err := s.docRepo.Update(ctx, doc); err != nil {
		s.logger.Error("failed to write terminal document update", "id", docID, "error", err)
		return
	}

	s.logger.Info("document processed", "id", docID, "status", doc.Status)
}

// validateUpload enforces the media type allow-list and size ceiling
// before any side effect.
func validateUpload(up *services.Upload) error {
	if up.OriginalName == "" {
		return fmt.Errorf("%w: no file provided", domain.ErrValidation)
	}
	if _, ok := config.AllowedMediaTypes[up.MediaType]; !ok {
		return fmt.Errorf("%w: media type %q is not allowed (accepted: PDF, DOC, DOCX, TXT, MD)",
			domain.ErrValidation, up.MediaType)
	}
	if up.SizeBytes > config.MaxUploadBytes {
		return fmt.Errorf("%w: file exceeds the %d MiB upload limit",
			domain.ErrValidation, config.MaxUploadBytes>>20)
	}
	return nil
}
