package repositories

import (
	"errors"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/ypropel/backend/internal/db"
	"github.com/ypropel/backend/internal/pkg/apperrors"
	"github.com/ypropel/backend/internal/pkg/dberrors"
)

// psql builds every statement with PostgreSQL placeholders
var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

type baseRepository struct {
	db *db.PostgresDB
	sb squirrel.StatementBuilderType
}

func newBase(database *db.PostgresDB) baseRepository {
	return baseRepository{db: database, sb: psql}
}

// notFound converts pgx.ErrNoRows into a client facing 404
func notFound(err error, message string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NewResourceNotFoundError(message)
	}
	return err
}

// writeFailed classifies the error of an INSERT or UPDATE built from client
// fields: missing rows become 404, values the column rejects become 400.
func writeFailed(err error, message string) error {
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return apperrors.NewResourceNotFoundError(message)
	case dberrors.IsInvalidInputError(err):
		if col := dberrors.InvalidColumn(err); col != "" {
			return apperrors.NewBadRequestError("Invalid value for " + col)
		}
		return apperrors.NewBadRequestError(MsgInvalidFieldValue)
	case dberrors.IsForeignKeyError(err):
		return apperrors.NewCustomError(apperrors.ErrInvalidReference, "Invalid reference")
	}
	return err
}

func idsOf[T any](items []T, id func(T) int64) []int64 {
	ids := make([]int64, 0, len(items))
	for _, item := range items {
		ids = append(ids, id(item))
	}
	return ids
}

func joinColumns(cols []string) string {
	return strings.Join(cols, ", ")
}

// prefixed qualifies every column with a table alias
func prefixed(alias string, cols []string) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = alias + "." + c
	}
	return out
}
