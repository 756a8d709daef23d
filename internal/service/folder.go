package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"inkwell/internal/config"
	"inkwell/internal/domain"
	"inkwell/internal/domain/models"
	"inkwell/internal/domain/repositories"
	"inkwell/internal/domain/services"
)

type folderService struct {
	folderRepo repositories.FolderRepository
	docRepo    repositories.DocumentRepository
	docService services.DocumentService
	txManager  repositories.TransactionManager
	logger     *slog.Logger
}

// NewFolderService creates a new folder service
func NewFolderService(
	folderRepo repositories.FolderRepository,
	docRepo repositories.DocumentRepository,
	docService services.DocumentService,
	txManager repositories.TransactionManager,
	logger *slog.Logger,
) services.FolderService {
	return &folderService{
		folderRepo: folderRepo,
		docRepo:    docRepo,
		docService: docService,
		txManager:  txManager,
		logger:     logger,
	}
}

// CreateFolder creates a new folder at the end of its parent level
func (s *folderService) CreateFolder(ctx context.Context, req *models.CreateFolderRequest) (*models.Folder, error) {
	// Normalize empty string to nil for root-level folders
	if req.ParentFolderID != nil && *req.ParentFolderID == "" {
		req.ParentFolderID = nil
	}

	if err := s.validateCreateRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	if req.ParentFolderID != nil {
		if _, err := s.folderRepo.GetByID(ctx, *req.ParentFolderID, req.DatabaseID); err != nil {
			return nil, err
		}
	}

	siblings, err := s.folderRepo.ListChildren(ctx, req.ParentFolderID, req.DatabaseID)
	if err != nil {
		return nil, fmt.Errorf("failed to check for duplicate names: %w", err)
	}
	name := strings.TrimSpace(req.Name)
	for _, sibling := range siblings {
		if sibling.Name == name {
			return nil, &domain.ConflictError{
				Message:      fmt.Sprintf("a folder named %q already exists in this location", name),
				ResourceType: "folder",
				ResourceID:   sibling.ID,
			}
		}
	}

	now := time.Now()
	folder := &models.Folder{
		ID:             uuid.NewString(),
		DatabaseID:     req.DatabaseID,
		ParentFolderID: req.ParentFolderID,
		Name:           name,
		Icon:           req.Icon,
		Position:       len(siblings),
		CreatedBy:      req.UserID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.folderRepo.Create(ctx, folder); err != nil {
		return nil, err
	}

	s.logger.Info("folder created",
		"id", folder.ID,
		"name", folder.Name,
		"database_id", req.DatabaseID,
		"parent_folder_id", folder.ParentFolderID,
	)

	return folder, nil
}

// GetFolder retrieves a folder by ID
func (s *folderService) GetFolder(ctx context.Context, id, databaseID string) (*models.Folder, error) {
	return s.folderRepo.GetByID(ctx, id, databaseID)
}

// UpdateFolder renames or moves a folder
func (s *folderService) UpdateFolder(ctx context.Context, id, databaseID string, req *models.UpdateFolderRequest) (*models.Folder, error) {
	if err := s.validateUpdateRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	folder, err := s.folderRepo.GetByID(ctx, id, databaseID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		folder.Name = strings.TrimSpace(*req.Name)
	}
	if req.Icon.Present {
		folder.Icon = req.Icon.Value
	}
	if req.Position != nil {
		folder.Position = *req.Position
	}

	// Tri-state: only move if the field was present in the request
	if req.ParentFolderID.Present {
		if req.ParentFolderID.Value != nil && *req.ParentFolderID.Value != "" {
			parent, err := s.folderRepo.GetByID(ctx, *req.ParentFolderID.Value, databaseID)
			if err != nil {
				return nil, fmt.Errorf("parent folder not found: %w", err)
			}

			if err := s.validateNoCircularReference(ctx, id, parent.ID, databaseID); err != nil {
				return nil, err
			}

			folder.ParentFolderID = &parent.ID
		} else {
			// null = move to root
			folder.ParentFolderID = nil
		}
	}

	// Check for duplicate name in target location
	if req.Name != nil || req.ParentFolderID.Present {
		siblings, err := s.folderRepo.ListChildren(ctx, folder.ParentFolderID, databaseID)
		if err != nil {
			return nil, fmt.Errorf("failed to check for duplicate names: %w", err)
		}
		for _, sibling := range siblings {
			if sibling.ID != folder.ID && sibling.Name == folder.Name {
				return nil, &domain.ConflictError{
					Message:      fmt.Sprintf("a folder named %q already exists in this location", folder.Name),
					ResourceType: "folder",
					ResourceID:   sibling.ID,
				}
			}
		}
	}

	folder.UpdatedAt = time.Now()

	if err := s.folderRepo.Update(ctx, folder); err != nil {
		return nil, err
	}

	s.logger.Info("folder updated",
		"id", folder.ID,
		"name", folder.Name,
		"parent_folder_id", folder.ParentFolderID,
	)

	return folder, nil
}

// DeleteFolder deletes a folder. With deleteContents, everything inside is
// deleted recursively; without it, the folder's direct children (documents
// and subfolders) move to root level and only the folder itself goes.
// Either way the whole operation runs in one transaction.
func (s *folderService) DeleteFolder(ctx context.Context, id, databaseID string, deleteContents bool) error {
	folder, err := s.folderRepo.GetByID(ctx, id, databaseID)
	if err != nil {
		return err
	}

	err = s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		if deleteContents {
			if err := s.deleteDescendants(txCtx, id, databaseID); err != nil {
				return err
			}
		} else {
			if err := s.reparentChildrenToRoot(txCtx, id, databaseID); err != nil {
				return err
			}
		}
		return s.folderRepo.Delete(txCtx, id, databaseID)
	})
	if err != nil {
		return err
	}

	s.logger.Info("folder deleted",
		"id", id,
		"name", folder.Name,
		"database_id", databaseID,
		"delete_contents", deleteContents,
	)

	return nil
}

// deleteDescendants recursively deletes all child folders and documents
func (s *folderService) deleteDescendants(ctx context.Context, folderID, databaseID string) error {
	children, err := s.folderRepo.ListChildren(ctx, &folderID, databaseID)
	if err != nil {
		return fmt.Errorf("failed to list child folders: %w", err)
	}

	for _, child := range children {
		if err := s.deleteDescendants(ctx, child.ID, databaseID); err != nil {
			return err
		}
		if err := s.folderRepo.Delete(ctx, child.ID, databaseID); err != nil {
			return fmt.Errorf("failed to delete child folder %q: %w", child.Name, err)
		}
	}

	docs, err := s.docRepo.ListByFolder(ctx, &folderID, databaseID)
	if err != nil {
		return fmt.Errorf("failed to list documents: %w", err)
	}

	for _, doc := range docs {
		if err := s.docService.DeleteDocument(ctx, doc.ID, databaseID); err != nil {
			return fmt.Errorf("failed to delete document %q: %w", doc.Title, err)
		}
	}

	return nil
}

// reparentChildrenToRoot moves a folder's direct children to root level
func (s *folderService) reparentChildrenToRoot(ctx context.Context, folderID, databaseID string) error {
	children, err := s.folderRepo.ListChildren(ctx, &folderID, databaseID)
	if err != nil {
		return fmt.Errorf("failed to list child folders: %w", err)
	}

	for i := range children {
		children[i].ParentFolderID = nil
		children[i].UpdatedAt = time.Now()
		if err := s.folderRepo.Update(ctx, &children[i]); err != nil {
			return fmt.Errorf("failed to move child folder %q to root: %w", children[i].Name, err)
		}
	}

	docs, err := s.docRepo.ListByFolder(ctx, &folderID, databaseID)
	if err != nil {
		return fmt.Errorf("failed to list documents: %w", err)
	}

	for _, doc := range docs {
		if err := s.docRepo.SetFolder(ctx, doc.ID, databaseID, nil); err != nil {
			return fmt.Errorf("failed to move document %q to root: %w", doc.Title, err)
		}
	}

	return nil
}

// DuplicateFolder copies a folder with a "(Copy)" name. When includeContents
// is set the contained documents and subfolders are copied one at a time; a
// failed copy is recorded and skipped rather than aborting the rest.
// Already-copied items stay.
func (s *folderService) DuplicateFolder(ctx context.Context, id, databaseID, userID string, includeContents bool) (*models.DuplicateFolderResult, error) {
	src, err := s.folderRepo.GetByID(ctx, id, databaseID)
	if err != nil {
		return nil, err
	}

	siblings, err := s.folderRepo.ListChildren(ctx, src.ParentFolderID, databaseID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sibling folders: %w", err)
	}

	now := time.Now()
	dup := &models.Folder{
		ID:             uuid.NewString(),
		DatabaseID:     src.DatabaseID,
		ParentFolderID: src.ParentFolderID,
		Name:           src.Name + " (Copy)",
		Icon:           src.Icon,
		Position:       len(siblings),
		CreatedBy:      userID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.folderRepo.Create(ctx, dup); err != nil {
		return nil, err
	}

	result := &models.DuplicateFolderResult{Folder: dup}
	if includeContents {
		s.copyContents(ctx, src.ID, dup.ID, databaseID, userID, result)
	}

	s.logger.Info("folder duplicated",
		"source_id", src.ID,
		"copy_id", dup.ID,
		"include_contents", includeContents,
		"copied", result.CopiedCount,
		"skipped", result.SkippedCount,
	)

	return result, nil
}

// copyContents copies the documents and subfolders of src into dst,
// best-effort. Copies keep their original names; only the top-level folder
// carries the "(Copy)" suffix.
func (s *folderService) copyContents(ctx context.Context, srcID, dstID, databaseID, userID string, result *models.DuplicateFolderResult) {
	docs, err := s.docRepo.ListByFolder(ctx, &srcID, databaseID)
	if err != nil {
		s.logger.Warn("failed to list documents for folder copy",
			"folder_id", srcID, "error", err)
		result.Failures = append(result.Failures, fmt.Sprintf("list documents: %v", err))
		return
	}

	for _, doc := range docs {
		docCopy := doc
		docCopy.ID = uuid.NewString()
		docCopy.FolderID = &dstID
		docCopy.CreatedBy = userID
		docCopy.LastEditedBy = userID
		docCopy.CreatedAt = time.Now()
		docCopy.UpdatedAt = docCopy.CreatedAt
		docCopy.Archived = false
		docCopy.ArchivedAt = nil

		if err := s.docRepo.Create(ctx, &docCopy); err != nil {
			s.logger.Warn("failed to copy document, skipping",
				"doc_id", doc.ID, "title", doc.Title, "error", err)
			result.SkippedCount++
			result.Failures = append(result.Failures, fmt.Sprintf("document %q: %v", doc.Title, err))
			continue
		}
		result.CopiedCount++
	}

	children, err := s.folderRepo.ListChildren(ctx, &srcID, databaseID)
	if err != nil {
		s.logger.Warn("failed to list subfolders for folder copy",
			"folder_id", srcID, "error", err)
		result.Failures = append(result.Failures, fmt.Sprintf("list subfolders: %v", err))
		return
	}

	for _, child := range children {
		now := time.Now()
		childCopy := &models.Folder{
			ID:             uuid.NewString(),
			DatabaseID:     databaseID,
			ParentFolderID: &dstID,
			Name:           child.Name,
			Icon:           child.Icon,
			Position:       child.Position,
			CreatedBy:      userID,
			CreatedAt:      now,
			UpdatedAt:      now,
		}

		if err := s.folderRepo.Create(ctx, childCopy); err != nil {
			s.logger.Warn("failed to copy subfolder, skipping",
				"folder_id", child.ID, "name", child.Name, "error", err)
			result.SkippedCount++
			result.Failures = append(result.Failures, fmt.Sprintf("folder %q: %v", child.Name, err))
			continue
		}
		result.CopiedCount++
		s.copyContents(ctx, child.ID, childCopy.ID, databaseID, userID, result)
	}
}

// ListFolders lists folders directly under a parent, nil meaning root
func (s *folderService) ListFolders(ctx context.Context, databaseID string, parentFolderID *string) ([]models.Folder, error) {
	if parentFolderID != nil && *parentFolderID == "" {
		parentFolderID = nil
	}
	return s.folderRepo.ListChildren(ctx, parentFolderID, databaseID)
}

// validateCreateRequest validates a folder creation request
func (s *folderService) validateCreateRequest(req *models.CreateFolderRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.DatabaseID, validation.Required),
		validation.Field(&req.Name,
			validation.Required,
			validation.Length(1, config.MaxFolderNameLength),
		),
	)
}

// validateUpdateRequest validates a folder update request
func (s *folderService) validateUpdateRequest(req *models.UpdateFolderRequest) error {
	if req.Name == nil && !req.Icon.Present && !req.ParentFolderID.Present && req.Position == nil {
		return fmt.Errorf("at least one field must be provided")
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" || len(name) > config.MaxFolderNameLength {
			return fmt.Errorf("folder name must be 1-%d characters", config.MaxFolderNameLength)
		}
	}

	return nil
}

// validateNoCircularReference ensures moving a folder won't create circular references
func (s *folderService) validateNoCircularReference(ctx context.Context, folderID, newParentID, databaseID string) error {
	// Can't move folder to be its own parent
	if folderID == newParentID {
		return fmt.Errorf("%w: cannot move folder into itself", domain.ErrValidation)
	}

	// Walk up from the new parent; hitting the folder means the target is
	// one of its own descendants.
	currentID := newParentID
	for {
		parent, err := s.folderRepo.GetByID(ctx, currentID, databaseID)
		if err != nil {
			return err
		}

		if parent.ParentFolderID == nil {
			break
		}

		if *parent.ParentFolderID == folderID {
			return fmt.Errorf("%w: cannot move folder into one of its descendants", domain.ErrValidation)
		}

		currentID = *parent.ParentFolderID
	}

	return nil
}
