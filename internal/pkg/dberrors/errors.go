package dberrors

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

// Codes raised when a value does not fit its column
var invalidInputCodes = map[string]bool{
	"22P02": true, // invalid_text_representation
	"22007": true, // invalid_datetime_format
	"22008": true, // datetime_field_overflow
	"22003": true, // numeric_value_out_of_range
	"22001": true, // string_data_right_truncation
	"23502": true, // not_null_violation
}

// IsDuplicateConstraintError reports a unique violation on the named
// constraint. An empty constraint name matches any unique violation.
func IsDuplicateConstraintError(err error, constraintName string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != uniqueViolation {
		return false
	}
	return constraintName == "" || pgErr.ConstraintName == constraintName
}

// IsForeignKeyError reports a foreign key violation
func IsForeignKeyError(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation
}

// IsInvalidInputError reports a value rejected by its column type or
// constraints, e.g. text written to an integer column or a null in a NOT NULL
// column.
func IsInvalidInputError(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && invalidInputCodes[pgErr.Code]
}

// InvalidColumn names the column of an invalid input error when Postgres
// reports it.
func InvalidColumn(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.ColumnName
	}
	return ""
}
