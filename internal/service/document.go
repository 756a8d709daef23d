package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"inkwell/internal/config"
	"inkwell/internal/content"
	"inkwell/internal/domain"
	"inkwell/internal/domain/models"
	"inkwell/internal/domain/repositories"
	"inkwell/internal/domain/services"
)

// documentService implements the DocumentService interface
type documentService struct {
	docRepo    repositories.DocumentRepository
	folderRepo repositories.FolderRepository
	txManager  repositories.TransactionManager
	logger     *slog.Logger
}

// NewDocumentService creates a new document service
func NewDocumentService(
	docRepo repositories.DocumentRepository,
	folderRepo repositories.FolderRepository,
	txManager repositories.TransactionManager,
	logger *slog.Logger,
) services.DocumentService {
	return &documentService{
		docRepo:    docRepo,
		folderRepo: folderRepo,
		txManager:  txManager,
		logger:     logger,
	}
}

// CreateDocument creates a new document at the end of its folder level
func (s *documentService) CreateDocument(ctx context.Context, req *models.CreateDocumentRequest) (*models.Document, error) {
	// Normalize empty string folder_id to nil for root-level documents
	if req.FolderID != nil && *req.FolderID == "" {
		req.FolderID = nil
	}

	if err := s.validateCreateRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	if req.FolderID != nil {
		if _, err := s.folderRepo.GetByID(ctx, *req.FolderID, req.DatabaseID); err != nil {
			return nil, err
		}
	}

	// Sanitize incoming content; an absent or malformed payload becomes an
	// empty tree rather than an error.
	body, err := normalizeContent(req.Content)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	position, err := s.docRepo.NextPosition(ctx, req.DatabaseID, req.FolderID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	doc := &models.Document{
		ID:           uuid.NewString(),
		DatabaseID:   req.DatabaseID,
		FolderID:     req.FolderID,
		Title:        strings.TrimSpace(req.Title),
		Content:      body,
		WidthMode:    models.WidthModeNarrow,
		PageSize:     models.PageSizeA4,
		Position:     position,
		CreatedBy:    req.UserID,
		LastEditedBy: req.UserID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if doc.Title == "" {
		doc.Title = "Untitled"
	}

	if err := s.docRepo.Create(ctx, doc); err != nil {
		return nil, err
	}

	s.logger.Info("document created",
		"id", doc.ID,
		"title", doc.Title,
		"database_id", req.DatabaseID,
		"folder_id", req.FolderID,
	)

	return doc, nil
}

// GetDocument retrieves a document with sanitized content
func (s *documentService) GetDocument(ctx context.Context, id, databaseID string) (*models.Document, error) {
	doc, err := s.docRepo.GetByID(ctx, id, databaseID)
	if err != nil {
		return nil, err
	}

	// Stored content may predate the current schema; sanitize on every read
	// so callers only ever see well-formed trees.
	body, err := normalizeContent(doc.Content)
	if err != nil {
		s.logger.Warn("stored content failed sanitation, serving empty tree",
			"doc_id", doc.ID, "error", err)
		body, _ = content.Serialize(content.NewTree())
	}
	doc.Content = body

	return doc, nil
}

// UpdateDocument applies a partial update to a document
func (s *documentService) UpdateDocument(ctx context.Context, id, databaseID string, req *models.UpdateDocumentRequest) (*models.Document, error) {
	if req.IsEmpty() {
		return nil, fmt.Errorf("%w: at least one field must be provided", domain.ErrValidation)
	}

	doc, err := s.docRepo.GetByID(ctx, id, databaseID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" || len(title) > config.MaxDocumentTitleLength {
			return nil, fmt.Errorf("%w: title must be 1-%d characters", domain.ErrValidation, config.MaxDocumentTitleLength)
		}
		doc.Title = title
	}

	if req.Content != nil {
		if len(req.Content) > config.MaxContentBytes {
			return nil, fmt.Errorf("%w: content exceeds %d bytes", domain.ErrValidation, config.MaxContentBytes)
		}
		body, err := normalizeContent(req.Content)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
		}
		doc.Content = body
	}

	if req.WidthMode != nil {
		if *req.WidthMode != models.WidthModeNarrow && *req.WidthMode != models.WidthModeFull {
			return nil, fmt.Errorf("%w: unknown width mode %q", domain.ErrValidation, *req.WidthMode)
		}
		doc.WidthMode = *req.WidthMode
	}

	if req.PageSize != nil {
		if !models.ValidPageSize(*req.PageSize) {
			return nil, fmt.Errorf("%w: unknown page size %q", domain.ErrValidation, *req.PageSize)
		}
		doc.PageSize = *req.PageSize
	}

	// Tri-state fields: absent means keep, null means clear
	if req.Icon.Present {
		doc.Icon = req.Icon.Value
	}
	if req.Logo.Present {
		doc.Logo = req.Logo.Value
	}
	if req.CoverImage.Present {
		doc.CoverImage = req.CoverImage.Value
	}
	if req.HeaderContent.Present {
		doc.HeaderContent = req.HeaderContent.Value
	}
	if req.FooterContent.Present {
		doc.FooterContent = req.FooterContent.Value
	}

	if req.FolderID.Present {
		if req.FolderID.Value != nil && *req.FolderID.Value != "" {
			if _, err := s.folderRepo.GetByID(ctx, *req.FolderID.Value, databaseID); err != nil {
				return nil, err
			}
			doc.FolderID = req.FolderID.Value
		} else {
			// null or empty = move to root
			doc.FolderID = nil
		}
	}

	if req.Position != nil {
		doc.Position = *req.Position
	}

	if req.UserID != "" {
		doc.LastEditedBy = req.UserID
	}
	doc.UpdatedAt = time.Now()

	if err := s.docRepo.Update(ctx, doc); err != nil {
		return nil, err
	}

	s.logger.Info("document updated",
		"id", doc.ID,
		"title", doc.Title,
		"database_id", databaseID,
	)

	return doc, nil
}

// SaveContent applies a coalesced autosave patch. Content in the patch is
// sanitized before it reaches the row.
func (s *documentService) SaveContent(ctx context.Context, id string, patch map[string]interface{}) error {
	if len(patch) == 0 {
		return nil
	}

	if raw, ok := patch["content"]; ok {
		body, err := contentFromPatch(raw)
		if err != nil {
			return fmt.Errorf("%w: %v", domain.ErrValidation, err)
		}
		patch["content"] = body
	}

	if err := s.docRepo.Patch(ctx, id, patch); err != nil {
		return err
	}

	s.logger.Debug("document autosaved",
		"id", id,
		"fields", len(patch),
	)

	return nil
}

// ArchiveDocument soft-deletes a document
func (s *documentService) ArchiveDocument(ctx context.Context, id, databaseID string) error {
	if err := s.docRepo.Archive(ctx, id, databaseID); err != nil {
		return err
	}

	s.logger.Info("document archived", "id", id, "database_id", databaseID)
	return nil
}

// UnarchiveDocument restores an archived document
func (s *documentService) UnarchiveDocument(ctx context.Context, id, databaseID string) error {
	if err := s.docRepo.Unarchive(ctx, id, databaseID); err != nil {
		return err
	}

	s.logger.Info("document restored", "id", id, "database_id", databaseID)
	return nil
}

// DeleteDocument permanently removes a document
func (s *documentService) DeleteDocument(ctx context.Context, id, databaseID string) error {
	if err := s.docRepo.Delete(ctx, id, databaseID); err != nil {
		return err
	}

	s.logger.Info("document deleted", "id", id, "database_id", databaseID)
	return nil
}

// MoveDocument moves a document to a folder, nil meaning root level
func (s *documentService) MoveDocument(ctx context.Context, id, databaseID string, folderID *string) (*models.Document, error) {
	if folderID != nil && *folderID == "" {
		folderID = nil
	}

	if folderID != nil {
		if _, err := s.folderRepo.GetByID(ctx, *folderID, databaseID); err != nil {
			return nil, err
		}
	}

	if err := s.docRepo.SetFolder(ctx, id, databaseID, folderID); err != nil {
		return nil, err
	}

	s.logger.Info("document moved",
		"id", id,
		"database_id", databaseID,
		"folder_id", folderID,
	)

	return s.docRepo.GetByID(ctx, id, databaseID)
}

// DuplicateDocument copies a document in place. The copy gets a fresh ID,
// a "(Copy)" title, the next position at its level, and the duplicating
// user as both creator and last editor.
func (s *documentService) DuplicateDocument(ctx context.Context, id, databaseID, userID string) (*models.Document, error) {
	src, err := s.docRepo.GetByID(ctx, id, databaseID)
	if err != nil {
		return nil, err
	}

	position, err := s.docRepo.NextPosition(ctx, databaseID, src.FolderID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	dup := &models.Document{
		ID:            uuid.NewString(),
		DatabaseID:    src.DatabaseID,
		FolderID:      src.FolderID,
		Title:         src.Title + " (Copy)",
		Content:       src.Content,
		WidthMode:     src.WidthMode,
		PageSize:      src.PageSize,
		Icon:          src.Icon,
		Logo:          src.Logo,
		CoverImage:    src.CoverImage,
		HeaderContent: src.HeaderContent,
		FooterContent: src.FooterContent,
		Position:      position,
		CreatedBy:     userID,
		LastEditedBy:  userID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.docRepo.Create(ctx, dup); err != nil {
		return nil, err
	}

	s.logger.Info("document duplicated",
		"source_id", src.ID,
		"copy_id", dup.ID,
		"title", dup.Title,
	)

	return dup, nil
}

// ListDocuments lists unarchived documents at one folder level
func (s *documentService) ListDocuments(ctx context.Context, databaseID string, folderID *string) ([]models.Document, error) {
	if folderID != nil && *folderID == "" {
		folderID = nil
	}
	return s.docRepo.ListByFolder(ctx, folderID, databaseID)
}

// ListArchived lists archived documents in a database
func (s *documentService) ListArchived(ctx context.Context, databaseID string) ([]models.Document, error) {
	return s.docRepo.ListArchived(ctx, databaseID)
}

// validateCreateRequest validates a document creation request
func (s *documentService) validateCreateRequest(req *models.CreateDocumentRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.DatabaseID, validation.Required),
		validation.Field(&req.Title,
			validation.Length(0, config.MaxDocumentTitleLength),
		),
	)
}

// normalizeContent runs raw content through a load/serialize cycle so the
// stored form is always the sanitized canonical tree. Empty input becomes
// an empty root.
func normalizeContent(raw json.RawMessage) (json.RawMessage, error) {
	tree := content.Load(raw)
	if tree == nil {
		tree = content.NewTree()
	}
	return content.Serialize(tree)
}

// contentFromPatch coerces the autosave content value, which may arrive as a
// string, raw JSON, or an already-decoded map, into sanitized content bytes.
func contentFromPatch(value interface{}) (json.RawMessage, error) {
	var raw json.RawMessage
	switch v := value.(type) {
	case json.RawMessage:
		raw = v
	case []byte:
		raw = v
	case string:
		raw = json.RawMessage(v)
	default:
		encoded, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("encode content: %w", err)
		}
		raw = encoded
	}
	return normalizeContent(raw)
}
