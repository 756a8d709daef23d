package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"inkwell/internal/domain"
	"inkwell/internal/domain/models"
	"inkwell/internal/domain/repositories"
)

const folderColumns = `id, database_id, parent_folder_id, name, icon, position,
	created_by, created_at, updated_at`

// PostgresFolderRepository implements the FolderRepository interface
type PostgresFolderRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
	logger *slog.Logger
}

// NewFolderRepository creates a new folder repository
func NewFolderRepository(config *RepositoryConfig) repositories.FolderRepository {
	return &PostgresFolderRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// Create inserts a new folder row
func (r *PostgresFolderRepository) Create(ctx context.Context, folder *models.Folder) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, database_id, parent_folder_id, name, icon, position,
			created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at
	`, r.tables.Folders)

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		folder.ID,
		folder.DatabaseID,
		folder.ParentFolderID,
		folder.Name,
		folder.Icon,
		folder.Position,
		folder.CreatedBy,
		folder.CreatedAt,
		folder.UpdatedAt,
	).Scan(&folder.CreatedAt, &folder.UpdatedAt)

	if err != nil {
		if IsPgForeignKeyError(err) {
			return fmt.Errorf("parent folder missing: %w", domain.ErrValidation)
		}
		if IsPgDuplicateError(err) {
			return &domain.ConflictError{
				Message:      "folder already exists",
				ResourceType: "folder",
				ResourceID:   folder.ID,
			}
		}
		return fmt.Errorf("create folder: %w", err)
	}

	return nil
}

// GetByID retrieves a folder by ID
func (r *PostgresFolderRepository) GetByID(ctx context.Context, id, databaseID string) (*models.Folder, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE id = $1 AND database_id = $2
	`, folderColumns, r.tables.Folders)

	executor := GetExecutor(ctx, r.pool)
	var folder models.Folder
	err := executor.QueryRow(ctx, query, id, databaseID).Scan(
		&folder.ID,
		&folder.DatabaseID,
		&folder.ParentFolderID,
		&folder.Name,
		&folder.Icon,
		&folder.Position,
		&folder.CreatedBy,
		&folder.CreatedAt,
		&folder.UpdatedAt,
	)
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get folder: %w", err)
	}

	return &folder, nil
}

// Update rewrites the mutable folder fields
func (r *PostgresFolderRepository) Update(ctx context.Context, folder *models.Folder) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET parent_folder_id = $1, name = $2, icon = $3, position = $4, updated_at = NOW()
		WHERE id = $5 AND database_id = $6
	`, r.tables.Folders)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query,
		folder.ParentFolderID,
		folder.Name,
		folder.Icon,
		folder.Position,
		folder.ID,
		folder.DatabaseID,
	)
	if err != nil {
		if IsPgForeignKeyError(err) {
			return fmt.Errorf("parent folder missing: %w", domain.ErrValidation)
		}
		return fmt.Errorf("update folder: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("folder %s: %w", folder.ID, domain.ErrNotFound)
	}

	return nil
}

// Delete permanently removes a folder row. Contained documents and
// subfolders are handled by the service layer before this is called.
func (r *PostgresFolderRepository) Delete(ctx context.Context, id, databaseID string) error {
	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE id = $1 AND database_id = $2
	`, r.tables.Folders)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, id, databaseID)
	if err != nil {
		if IsPgForeignKeyError(err) {
			return &domain.ConflictError{
				Message:      "folder still has contents",
				ResourceType: "folder",
				ResourceID:   id,
			}
		}
		return fmt.Errorf("delete folder: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// ListChildren lists folders directly under a parent, nil meaning root level
func (r *PostgresFolderRepository) ListChildren(ctx context.Context, parentFolderID *string, databaseID string) ([]models.Folder, error) {
	var query string
	var args []interface{}

	if parentFolderID == nil {
		query = fmt.Sprintf(`
			SELECT %s
			FROM %s
			WHERE database_id = $1 AND parent_folder_id IS NULL
			ORDER BY position ASC, created_at ASC
		`, folderColumns, r.tables.Folders)
		args = append(args, databaseID)
	} else {
		query = fmt.Sprintf(`
			SELECT %s
			FROM %s
			WHERE database_id = $1 AND parent_folder_id = $2
			ORDER BY position ASC, created_at ASC
		`, folderColumns, r.tables.Folders)
		args = append(args, databaseID, *parentFolderID)
	}

	return r.queryFolders(ctx, query, args...)
}

// ListByDatabase lists every folder in a database
func (r *PostgresFolderRepository) ListByDatabase(ctx context.Context, databaseID string) ([]models.Folder, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE database_id = $1
		ORDER BY position ASC, created_at ASC
	`, folderColumns, r.tables.Folders)

	return r.queryFolders(ctx, query, databaseID)
}

func (r *PostgresFolderRepository) queryFolders(ctx context.Context, query string, args ...interface{}) ([]models.Folder, error) {
	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list folders: %w", err)
	}
	defer rows.Close()

	var folders []models.Folder
	for rows.Next() {
		var folder models.Folder
		err := rows.Scan(
			&folder.ID,
			&folder.DatabaseID,
			&folder.ParentFolderID,
			&folder.Name,
			&folder.Icon,
			&folder.Position,
			&folder.CreatedBy,
			&folder.CreatedAt,
			&folder.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan folder: %w", err)
		}
		folders = append(folders, folder)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate folders: %w", err)
	}

	// Return empty slice instead of nil
	if folders == nil {
		folders = []models.Folder{}
	}

	return folders, nil
}
