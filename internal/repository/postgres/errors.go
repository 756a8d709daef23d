package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Postgres error codes the repositories translate into domain errors.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
)

func pgErrorCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// IsPgDuplicateError reports whether err is a unique constraint violation
func IsPgDuplicateError(err error) bool {
	return pgErrorCode(err) == codeUniqueViolation
}

// IsPgForeignKeyError reports whether err is a foreign key violation
func IsPgForeignKeyError(err error) bool {
	return pgErrorCode(err) == codeForeignKeyViolation
}

// IsPgNoRowsError reports whether err means the query matched no rows
func IsPgNoRowsError(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
