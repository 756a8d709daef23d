package repositories

import (
	"context"

	"inkwell/internal/autosave"
	"inkwell/internal/domain/models"
)

// DocumentRepository defines data access operations for documents
type DocumentRepository interface {
	// Create inserts a new document row
	Create(ctx context.Context, doc *models.Document) error

	// GetByID retrieves a document by ID within a database (collection).
	// Archived documents are excluded.
	GetByID(ctx context.Context, id, databaseID string) (*models.Document, error)

	// Update rewrites the mutable document fields
	Update(ctx context.Context, doc *models.Document) error

	// Patch applies a coalesced autosave patch to one document row.
	// Only the fields present in the patch are written.
	Patch(ctx context.Context, id string, patch autosave.Patch) error

	// Archive soft-deletes a document (sets archived and archived_at)
	Archive(ctx context.Context, id, databaseID string) error

	// Unarchive restores an archived document
	Unarchive(ctx context.Context, id, databaseID string) error

	// Delete permanently removes a document row
	Delete(ctx context.Context, id, databaseID string) error

	// SetFolder moves a document to a folder, nil meaning root level
	SetFolder(ctx context.Context, id, databaseID string, folderID *string) error

	// ListByFolder lists unarchived documents in a folder, position order
	ListByFolder(ctx context.Context, folderID *string, databaseID string) ([]models.Document, error)

	// ListByDatabase lists unarchived document metadata (no content) in a
	// database, position order
	ListByDatabase(ctx context.Context, databaseID string) ([]models.Document, error)

	// ListArchived lists archived documents in a database
	ListArchived(ctx context.Context, databaseID string) ([]models.Document, error)

	// NextPosition returns the next free position at the given folder level
	NextPosition(ctx context.Context, databaseID string, folderID *string) (int, error)
}
