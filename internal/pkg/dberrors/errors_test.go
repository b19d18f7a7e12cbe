package dberrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestIsDuplicateConstraintError(t *testing.T) {
	dup := &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"}
	wrapped := fmt.Errorf("insert user: %w", dup)

	assert.True(t, IsDuplicateConstraintError(wrapped, "users_email_key"))
	assert.True(t, IsDuplicateConstraintError(wrapped, ""))
	assert.False(t, IsDuplicateConstraintError(wrapped, "other_key"))
	assert.False(t, IsDuplicateConstraintError(errors.New("boom"), ""))
}

func TestIsForeignKeyError(t *testing.T) {
	assert.True(t, IsForeignKeyError(&pgconn.PgError{Code: "23503"}))
	assert.False(t, IsForeignKeyError(&pgconn.PgError{Code: "23505"}))
}

func TestIsInvalidInputError(t *testing.T) {
	for _, code := range []string{"22P02", "22007", "22008", "22003", "22001", "23502"} {
		err := fmt.Errorf("update: %w", &pgconn.PgError{Code: code})
		assert.True(t, IsInvalidInputError(err), code)
	}
	assert.False(t, IsInvalidInputError(&pgconn.PgError{Code: "23505"}))
	assert.False(t, IsInvalidInputError(errors.New("boom")))
}

func TestInvalidColumn(t *testing.T) {
	assert.Equal(t, "title", InvalidColumn(&pgconn.PgError{Code: "23502", ColumnName: "title"}))
	assert.Empty(t, InvalidColumn(errors.New("boom")))
}
