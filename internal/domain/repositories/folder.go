package repositories

import (
	"context"

	"inkwell/internal/domain/models"
)

// FolderRepository defines data access operations for document folders
type FolderRepository interface {
	// Create inserts a new folder row
	Create(ctx context.Context, folder *models.Folder) error

	// GetByID retrieves a folder by ID within a database
	GetByID(ctx context.Context, id, databaseID string) (*models.Folder, error)

	// Update rewrites a folder's mutable fields
	Update(ctx context.Context, folder *models.Folder) error

	// Delete removes a folder row. Contained documents are handled by the
	// service layer per the chosen deletion policy.
	Delete(ctx context.Context, id, databaseID string) error

	// ListChildren lists immediate child folders, position order
	ListChildren(ctx context.Context, parentFolderID *string, databaseID string) ([]models.Folder, error)

	// ListByDatabase retrieves all folders in a database (flat list)
	ListByDatabase(ctx context.Context, databaseID string) ([]models.Folder, error)
}
