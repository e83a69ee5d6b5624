package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"vault/internal/config"
	"vault/internal/domain"
	"vault/internal/domain/models"
	"vault/internal/domain/repositories"
	"vault/internal/domain/services"
)

var folderNameRe = regexp.MustCompile(`^[^/]+$`)

type folderService struct {
	folderRepo repositories.FolderRepository
	docRepo    repositories.DocumentRepository
	logger     *slog.Logger
}

// NewFolderService creates a new folder service
func NewFolderService(
	folderRepo repositories.FolderRepository,
	docRepo repositories.DocumentRepository,
	logger *slog.Logger,
) services.FolderService {
	return &folderService{
		folderRepo: folderRepo,
		docRepo:    docRepo,
		logger:     logger,
	}
}

// Create creates a new folder, optionally under a parent
func (s *folderService) Create(ctx context.Context, req *services.CreateFolderRequest) (*models.Folder, error) {
	// Normalize empty string to nil for root-level folders
	if req.ParentID != nil && *req.ParentID == "" {
		req.ParentID = nil
	}
	req.Name = strings.TrimSpace(req.Name)

	if err := validateFolderName(req.Name); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	if req.ParentID != nil {
		if err := s.resolveParent(ctx, *req.ParentID); err != nil {
			return nil, err
		}
	}

	folder := &models.Folder{
		ID:        uuid.NewString(),
		Name:      req.Name,
		ParentID:  req.ParentID,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.folderRepo.Create(ctx, folder); err != nil {
		return nil, err
	}

	s.logger.Info("folder created",
		"id", folder.ID,
		"name", folder.Name,
		"parent_id", folder.ParentID,
	)

	return folder, nil
}

// Get retrieves a folder by ID
func (s *folderService) Get(ctx context.Context, id string) (*models.Folder, error) {
	return s.folderRepo.GetByID(ctx, id)
}

// List retrieves all folders
func (s *folderService) List(ctx context.Context) ([]models.Folder, error) {
	return s.folderRepo.List(ctx)
}

// Update renames and/or moves a folder. All checks run before the single
// repository write, so a rejected update leaves the store unchanged.
func (s *folderService) Update(ctx context.Context, id string, req *services.UpdateFolderRequest) (*models.Folder, error) {
	if req.Name == nil && !req.ParentID.Present {
		return nil, fmt.Errorf("%w: at least one field must be provided", domain.ErrValidation)
	}

	folder, err := s.folderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if err := validateFolderName(name); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
		}
		folder.Name = name
	}

	// Tri-state: only touch the location if the field was present
	if req.ParentID.Present {
		if req.ParentID.Value != nil && *req.ParentID.Value != "" {
			newParentID := *req.ParentID.Value
			if newParentID == id {
				return nil, domain.SelfParent(id)
			}
			if err := s.resolveParent(ctx, newParentID); err != nil {
				return nil, err
			}
			if err := s.ensureNoCycle(ctx, id, newParentID); err != nil {
				return nil, err
			}
			folder.ParentID = &newParentID
		} else {
			// null = move to root
			folder.ParentID = nil
		}
	}

	if err := s.folderRepo.Update(ctx, folder); err != nil {
		return nil, err
	}

	s.logger.Info("folder updated",
		"id", folder.ID,
		"name", folder.Name,
		"parent_id", folder.ParentID,
	)

	return folder, nil
}

// Delete deletes a folder. Deletion is manual-cascade-free: the caller
// must empty the folder first.
func (s *folderService) Delete(ctx context.Context, id string) error {
	if _, err := s.folderRepo.GetByID(ctx, id); err != nil {
		return err
	}

	children, err := s.folderRepo.ListChildren(ctx, &id)
	if err != nil {
		return fmt.Errorf("list child folders: %w", err)
	}
	if len(children) > 0 {
		return domain.FolderNotEmpty(id)
	}

	docs, err := s.docRepo.ListByFolder(ctx, &id)
	if err != nil {
		return fmt.Errorf("list folder documents: %w", err)
	}
	if len(docs) > 0 {
		return domain.FolderNotEmpty(id)
	}

	if err := s.folderRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("folder deleted", "id", id)

	return nil
}

// resolveParent verifies the referenced parent folder exists. A missing
// parent is the caller's mistake, so it surfaces as a validation error
// rather than a 404 on the folder being operated on.
func (s *folderService) resolveParent(ctx context.Context, parentID string) error {
	if _, err := s.folderRepo.GetByID(ctx, parentID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("%w: parent folder %q not found", domain.ErrValidation, parentID)
		}
		return err
	}
	return nil
}

// ensureNoCycle walks from the proposed parent up to the root and rejects
// the move if the folder being moved appears on that path. The walk is
// bounded by the folder count so a corrupted graph cannot loop it.
func (s *folderService) ensureNoCycle(ctx context.Context, folderID, newParentID string) error {
	folders, err := s.folderRepo.List(ctx)
	if err != nil {
		return fmt.Errorf("list folders: %w", err)
	}

	byID := make(map[string]*models.Folder, len(folders))
	for i := range folders {
		byID[folders[i].ID] = &folders[i]
	}

	current := newParentID
	for steps := 0; steps <= len(folders); steps++ {
		if current == folderID {
			return domain.CyclicParent(folderID)
		}
		ancestor, ok := byID[current]
		if !ok || ancestor.ParentID == nil {
			return nil
		}
		current = *ancestor.ParentID
	}

	return nil
}

func validateFolderName(name string) error {
	return validation.Validate(name,
		validation.Required.Error("folder name is required"),
		validation.Length(1, config.MaxFolderNameLength),
		validation.Match(folderNameRe).Error("folder name cannot contain slashes"),
	)
}
