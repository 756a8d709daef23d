package services

import (
	"context"

	"inkwell/internal/domain/models"
)

// DocumentService handles document business logic
type DocumentService interface {
	// CreateDocument creates a new document at the end of its folder
	CreateDocument(ctx context.Context, req *models.CreateDocumentRequest) (*models.Document, error)

	// GetDocument retrieves a document with sanitized content
	GetDocument(ctx context.Context, id, databaseID string) (*models.Document, error)

	// UpdateDocument applies a partial update to a document
	UpdateDocument(ctx context.Context, id, databaseID string, req *models.UpdateDocumentRequest) (*models.Document, error)

	// SaveContent applies a coalesced autosave patch to a document
	SaveContent(ctx context.Context, id string, patch map[string]interface{}) error

	// ArchiveDocument soft-deletes a document
	ArchiveDocument(ctx context.Context, id, databaseID string) error

	// UnarchiveDocument restores an archived document
	UnarchiveDocument(ctx context.Context, id, databaseID string) error

	// DeleteDocument permanently removes a document
	DeleteDocument(ctx context.Context, id, databaseID string) error

	// MoveDocument moves a document to a folder, nil meaning root
	MoveDocument(ctx context.Context, id, databaseID string, folderID *string) (*models.Document, error)

	// DuplicateDocument copies a document in place with a "(Copy)" title
	DuplicateDocument(ctx context.Context, id, databaseID, userID string) (*models.Document, error)

	// ListDocuments lists unarchived documents at one folder level
	ListDocuments(ctx context.Context, databaseID string, folderID *string) ([]models.Document, error)

	// ListArchived lists archived documents in a database
	ListArchived(ctx context.Context, databaseID string) ([]models.Document, error)
}
