package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"inkwell/internal/autosave"
	"inkwell/internal/domain"
	"inkwell/internal/domain/models"
	"inkwell/internal/domain/repositories"
)

const documentColumns = `id, database_id, folder_id, title, content, width_mode, page_size,
	icon, logo, cover_image, header_content, footer_content, position,
	created_by, last_edited_by, archived, archived_at, created_at, updated_at`

// patchableColumns whitelists the document fields autosave may write.
var patchableColumns = map[string]bool{
	"title":          true,
	"content":        true,
	"width_mode":     true,
	"page_size":      true,
	"icon":           true,
	"logo":           true,
	"cover_image":    true,
	"header_content": true,
	"footer_content": true,
	"folder_id":      true,
	"position":       true,
	"last_edited_by": true,
}

// PostgresDocumentRepository implements the DocumentRepository interface
type PostgresDocumentRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
	logger *slog.Logger
}

// NewDocumentRepository creates a new document repository
func NewDocumentRepository(config *RepositoryConfig) repositories.DocumentRepository {
	return &PostgresDocumentRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// Create inserts a new document row
func (r *PostgresDocumentRepository) Create(ctx context.Context, doc *models.Document) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, database_id, folder_id, title, content, width_mode, page_size,
			icon, logo, cover_image, header_content, footer_content, position,
			created_by, last_edited_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		RETURNING created_at, updated_at
	`, r.tables.Documents)

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		doc.ID,
		doc.DatabaseID,
		doc.FolderID,
		doc.Title,
		doc.Content,
		doc.WidthMode,
		doc.PageSize,
		doc.Icon,
		doc.Logo,
		doc.CoverImage,
		doc.HeaderContent,
		doc.FooterContent,
		doc.Position,
		doc.CreatedBy,
		doc.LastEditedBy,
		doc.CreatedAt,
		doc.UpdatedAt,
	).Scan(&doc.CreatedAt, &doc.UpdatedAt)

	if err != nil {
		if IsPgForeignKeyError(err) {
			return fmt.Errorf("document folder or database missing: %w", domain.ErrValidation)
		}
		return fmt.Errorf("create document: %w", err)
	}

	return nil
}

// GetByID retrieves an unarchived document by ID
func (r *PostgresDocumentRepository) GetByID(ctx context.Context, id, databaseID string) (*models.Document, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE id = $1 AND database_id = $2 AND archived = FALSE
	`, documentColumns, r.tables.Documents)

	executor := GetExecutor(ctx, r.pool)
	doc, err := scanDocument(executor.QueryRow(ctx, query, id, databaseID))
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get document: %w", err)
	}

	return doc, nil
}

// Update rewrites the mutable document fields
func (r *PostgresDocumentRepository) Update(ctx context.Context, doc *models.Document) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET folder_id = $1, title = $2, content = $3, width_mode = $4, page_size = $5,
			icon = $6, logo = $7, cover_image = $8, header_content = $9,
			footer_content = $10, position = $11, last_edited_by = $12, updated_at = $13
		WHERE id = $14 AND database_id = $15
	`, r.tables.Documents)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query,
		doc.FolderID,
		doc.Title,
		doc.Content,
		doc.WidthMode,
		doc.PageSize,
		doc.Icon,
		doc.Logo,
		doc.CoverImage,
		doc.HeaderContent,
		doc.FooterContent,
		doc.Position,
		doc.LastEditedBy,
		doc.UpdatedAt,
		doc.ID,
		doc.DatabaseID,
	)
	if err != nil {
		return fmt.Errorf("update document: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("document %s: %w", doc.ID, domain.ErrNotFound)
	}

	return nil
}

// Patch applies a coalesced autosave patch to one document row. The SET
// clause is built from the whitelisted fields present in the patch; unknown
// fields are rejected rather than silently dropped.
func (r *PostgresDocumentRepository) Patch(ctx context.Context, id string, patch autosave.Patch) error {
	if len(patch) == 0 {
		return nil
	}

	sets := make([]string, 0, len(patch)+1)
	args := make([]interface{}, 0, len(patch)+1)
	for field, value := range patch {
		if !patchableColumns[field] {
			return fmt.Errorf("%w: field %q is not autosavable", domain.ErrValidation, field)
		}
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", field, len(args)))
	}
	sets = append(sets, "updated_at = NOW()")

	args = append(args, id)
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s
		WHERE id = $%d AND archived = FALSE
	`, r.tables.Documents, strings.Join(sets, ", "), len(args))

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("patch document: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// Archive soft-deletes a document
func (r *PostgresDocumentRepository) Archive(ctx context.Context, id, databaseID string) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET archived = TRUE, archived_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND database_id = $2 AND archived = FALSE
	`, r.tables.Documents)

	return r.execExpectingRow(ctx, query, id, databaseID)
}

// Unarchive restores an archived document
func (r *PostgresDocumentRepository) Unarchive(ctx context.Context, id, databaseID string) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET archived = FALSE, archived_at = NULL, updated_at = NOW()
		WHERE id = $1 AND database_id = $2 AND archived = TRUE
	`, r.tables.Documents)

	return r.execExpectingRow(ctx, query, id, databaseID)
}

// Delete permanently removes a document row
func (r *PostgresDocumentRepository) Delete(ctx context.Context, id, databaseID string) error {
	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE id = $1 AND database_id = $2
	`, r.tables.Documents)

	return r.execExpectingRow(ctx, query, id, databaseID)
}

// SetFolder moves a document to a folder, nil meaning root level
func (r *PostgresDocumentRepository) SetFolder(ctx context.Context, id, databaseID string, folderID *string) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET folder_id = $1, updated_at = NOW()
		WHERE id = $2 AND database_id = $3 AND archived = FALSE
	`, r.tables.Documents)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, folderID, id, databaseID)
	if err != nil {
		if IsPgForeignKeyError(err) {
			return fmt.Errorf("target folder missing: %w", domain.ErrValidation)
		}
		return fmt.Errorf("move document: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// ListByFolder lists unarchived documents in a folder
func (r *PostgresDocumentRepository) ListByFolder(ctx context.Context, folderID *string, databaseID string) ([]models.Document, error) {
	var query string
	var args []interface{}

	if folderID == nil {
		query = fmt.Sprintf(`
			SELECT %s
			FROM %s
			WHERE database_id = $1 AND folder_id IS NULL AND archived = FALSE
			ORDER BY position ASC, created_at ASC
		`, documentColumns, r.tables.Documents)
		args = append(args, databaseID)
	} else {
		query = fmt.Sprintf(`
			SELECT %s
			FROM %s
			WHERE database_id = $1 AND folder_id = $2 AND archived = FALSE
			ORDER BY position ASC, created_at ASC
		`, documentColumns, r.tables.Documents)
		args = append(args, databaseID, *folderID)
	}

	return r.queryDocuments(ctx, query, args...)
}

// ListByDatabase lists unarchived document metadata in a database
func (r *PostgresDocumentRepository) ListByDatabase(ctx context.Context, databaseID string) ([]models.Document, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE database_id = $1 AND archived = FALSE
		ORDER BY position ASC, created_at ASC
	`, documentColumns, r.tables.Documents)

	return r.queryDocuments(ctx, query, databaseID)
}

// ListArchived lists archived documents in a database
func (r *PostgresDocumentRepository) ListArchived(ctx context.Context, databaseID string) ([]models.Document, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE database_id = $1 AND archived = TRUE
		ORDER BY archived_at DESC
	`, documentColumns, r.tables.Documents)

	return r.queryDocuments(ctx, query, databaseID)
}

// NextPosition returns the next free position at the given folder level
func (r *PostgresDocumentRepository) NextPosition(ctx context.Context, databaseID string, folderID *string) (int, error) {
	var query string
	var args []interface{}

	if folderID == nil {
		query = fmt.Sprintf(`
			SELECT COALESCE(MAX(position), -1) + 1
			FROM %s
			WHERE database_id = $1 AND folder_id IS NULL AND archived = FALSE
		`, r.tables.Documents)
		args = append(args, databaseID)
	} else {
		query = fmt.Sprintf(`
			SELECT COALESCE(MAX(position), -1) + 1
			FROM %s
			WHERE database_id = $1 AND folder_id = $2 AND archived = FALSE
		`, r.tables.Documents)
		args = append(args, databaseID, *folderID)
	}

	var position int
	executor := GetExecutor(ctx, r.pool)
	if err := executor.QueryRow(ctx, query, args...).Scan(&position); err != nil {
		return 0, fmt.Errorf("next document position: %w", err)
	}

	return position, nil
}

func (r *PostgresDocumentRepository) execExpectingRow(ctx context.Context, query string, args ...interface{}) error {
	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("exec document update: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("document: %w", domain.ErrNotFound)
	}
	return nil
}

func (r *PostgresDocumentRepository) queryDocuments(ctx context.Context, query string, args ...interface{}) ([]models.Document, error) {
	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	var documents []models.Document
	for rows.Next() {
		var doc models.Document
		err := rows.Scan(
			&doc.ID,
			&doc.DatabaseID,
			&doc.FolderID,
			&doc.Title,
			&doc.Content,
			&doc.WidthMode,
			&doc.PageSize,
			&doc.Icon,
			&doc.Logo,
			&doc.CoverImage,
			&doc.HeaderContent,
			&doc.FooterContent,
			&doc.Position,
			&doc.CreatedBy,
			&doc.LastEditedBy,
			&doc.Archived,
			&doc.ArchivedAt,
			&doc.CreatedAt,
			&doc.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		documents = append(documents, doc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate documents: %w", err)
	}

	// Return empty slice instead of nil
	if documents == nil {
		documents = []models.Document{}
	}

	return documents, nil
}

// scanDocument scans one full document row
func scanDocument(row interface{ Scan(dest ...interface{}) error }) (*models.Document, error) {
	var doc models.Document
	err := row.Scan(
		&doc.ID,
		&doc.DatabaseID,
		&doc.FolderID,
		&doc.Title,
		&doc.Content,
		&doc.WidthMode,
		&doc.PageSize,
		&doc.Icon,
		&doc.Logo,
		&doc.CoverImage,
		&doc.HeaderContent,
		&doc.FooterContent,
		&doc.Position,
		&doc.CreatedBy,
		&doc.LastEditedBy,
		&doc.Archived,
		&doc.ArchivedAt,
		&doc.CreatedAt,
		&doc.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &doc, nil
}
