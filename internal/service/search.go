package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"inkwell/internal/domain"
	"inkwell/internal/domain/models"
	"inkwell/internal/domain/repositories"
	"inkwell/internal/domain/services"
)

// searchService implements the SearchService interface
type searchService struct {
	docRepo    repositories.DocumentRepository
	folderRepo repositories.FolderRepository
	logger     *slog.Logger
}

// NewSearchService creates a new search service
func NewSearchService(
	docRepo repositories.DocumentRepository,
	folderRepo repositories.FolderRepository,
	logger *slog.Logger,
) services.SearchService {
	return &searchService{
		docRepo:    docRepo,
		folderRepo: folderRepo,
		logger:     logger,
	}
}

// Search matches query case-insensitively against document titles and folder
// names. Matching happens over the full listing of the database, so results
// stay consistent with the sidebar tree.
func (s *searchService) Search(ctx context.Context, databaseID, query string) (*models.SearchResults, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: search query must not be empty", domain.ErrValidation)
	}

	needle := strings.ToLower(query)

	docs, err := s.docRepo.ListByDatabase(ctx, databaseID)
	if err != nil {
		return nil, err
	}

	folders, err := s.folderRepo.ListByDatabase(ctx, databaseID)
	if err != nil {
		return nil, err
	}

	matchedDocs := make([]models.Document, 0)
	for _, doc := range docs {
		if strings.Contains(strings.ToLower(doc.Title), needle) {
			// Metadata only; search results never carry content
			doc.Content = nil
			matchedDocs = append(matchedDocs, doc)
		}
	}

	matchedFolders := make([]models.Folder, 0)
	for _, folder := range folders {
		if strings.Contains(strings.ToLower(folder.Name), needle) {
			matchedFolders = append(matchedFolders, folder)
		}
	}

	s.logger.Debug("workspace search",
		"database_id", databaseID,
		"query", query,
		"documents", len(matchedDocs),
		"folders", len(matchedFolders),
	)

	return &models.SearchResults{
		Query:     query,
		Documents: matchedDocs,
		Folders:   matchedFolders,
		Total:     len(matchedDocs) + len(matchedFolders),
	}, nil
}
