package services

import (
	"context"

	"inkwell/internal/domain/models"
)

// TreeService assembles the sidebar tree for a database
type TreeService interface {
	// GetTree returns the nested folder/document tree for a database
	GetTree(ctx context.Context, databaseID string) (*models.TreeNode, error)
}

// SearchService finds documents and folders by name
type SearchService interface {
	// Search matches query case-insensitively against document titles and
	// folder names in a database
	Search(ctx context.Context, databaseID, query string) (*models.SearchResults, error)
}
