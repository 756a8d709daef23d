package services

import (
	"context"

	"inkwell/internal/domain/models"
)

// FolderService handles folder business logic
type FolderService interface {
	// CreateFolder creates a new folder at the end of its parent level
	CreateFolder(ctx context.Context, req *models.CreateFolderRequest) (*models.Folder, error)

	// GetFolder retrieves a folder by ID
	GetFolder(ctx context.Context, id, databaseID string) (*models.Folder, error)

	// UpdateFolder renames or moves a folder
	UpdateFolder(ctx context.Context, id, databaseID string, req *models.UpdateFolderRequest) (*models.Folder, error)

	// DeleteFolder deletes a folder. With deleteContents the folder's
	// documents and subfolders are deleted recursively; without it the
	// direct children are moved to root level first.
	DeleteFolder(ctx context.Context, id, databaseID string, deleteContents bool) error

	// DuplicateFolder copies a folder with a "(Copy)" name. With
	// includeContents the contained documents and subfolders are copied
	// best-effort, one at a time; without it only the folder itself.
	DuplicateFolder(ctx context.Context, id, databaseID, userID string, includeContents bool) (*models.DuplicateFolderResult, error)

	// ListFolders lists folders directly under a parent, nil meaning root
	ListFolders(ctx context.Context, databaseID string, parentFolderID *string) ([]models.Folder, error)
}
