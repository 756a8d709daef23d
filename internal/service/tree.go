package service

import (
	"context"
	"log/slog"

	"inkwell/internal/domain/models"
	"inkwell/internal/domain/repositories"
	"inkwell/internal/domain/services"
)

// treeService implements the TreeService interface
type treeService struct {
	folderRepo repositories.FolderRepository
	docRepo    repositories.DocumentRepository
	logger     *slog.Logger
}

// NewTreeService creates a new tree service
func NewTreeService(
	folderRepo repositories.FolderRepository,
	docRepo repositories.DocumentRepository,
	logger *slog.Logger,
) services.TreeService {
	return &treeService{
		folderRepo: folderRepo,
		docRepo:    docRepo,
		logger:     logger,
	}
}

// GetTree builds and returns the nested folder/document tree for a database
func (s *treeService) GetTree(ctx context.Context, databaseID string) (*models.TreeNode, error) {
	allFolders, err := s.folderRepo.ListByDatabase(ctx, databaseID)
	if err != nil {
		return nil, err
	}

	allDocuments, err := s.docRepo.ListByDatabase(ctx, databaseID)
	if err != nil {
		return nil, err
	}

	// Build folder hierarchy using 3-pass algorithm
	folderMap := make(map[string]*models.FolderTreeNode)
	var rootFolderIDs []string

	// First pass: create all folder nodes
	for _, folder := range allFolders {
		folderMap[folder.ID] = &models.FolderTreeNode{
			ID:             folder.ID,
			Name:           folder.Name,
			Icon:           folder.Icon,
			ParentFolderID: folder.ParentFolderID,
			Position:       folder.Position,
			CreatedAt:      folder.CreatedAt,
			Folders:        []*models.FolderTreeNode{},
			Documents:      []models.DocumentTreeNode{},
		}
	}

	// Second pass: nest folders by connecting children to parents
	for _, folder := range allFolders {
		node := folderMap[folder.ID]
		if folder.ParentFolderID == nil {
			rootFolderIDs = append(rootFolderIDs, folder.ID)
		} else {
			if parent, exists := folderMap[*folder.ParentFolderID]; exists {
				parent.Folders = append(parent.Folders, node)
			}
		}
	}

	// Third pass: add documents to their folders
	rootDocuments := make([]models.DocumentTreeNode, 0)
	for _, doc := range allDocuments {
		docNode := models.DocumentTreeNode{
			ID:        doc.ID,
			Title:     doc.Title,
			Icon:      doc.Icon,
			FolderID:  doc.FolderID,
			Position:  doc.Position,
			UpdatedAt: doc.UpdatedAt,
		}

		if doc.FolderID == nil {
			rootDocuments = append(rootDocuments, docNode)
		} else {
			if parent, exists := folderMap[*doc.FolderID]; exists {
				parent.Documents = append(parent.Documents, docNode)
			}
		}
	}

	// Build final tree using root folder pointers
	rootFolders := make([]*models.FolderTreeNode, 0)
	for _, folderID := range rootFolderIDs {
		if node, exists := folderMap[folderID]; exists {
			rootFolders = append(rootFolders, node)
		}
	}

	tree := &models.TreeNode{
		Folders:   rootFolders,
		Documents: rootDocuments,
	}

	s.logger.Debug("database tree built",
		"database_id", databaseID,
		"folder_count", len(allFolders),
		"document_count", len(allDocuments),
	)

	return tree, nil
}
