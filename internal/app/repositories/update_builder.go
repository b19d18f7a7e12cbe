package repositories

import (
	"math"
	"reflect"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/ypropel/backend/internal/pkg/apperrors"
)

// UpdateSpec describes a partial update restricted to an allow-list of columns
type UpdateSpec struct {
	Table    string
	Allowed  []string
	IDColumn string
	// Touch also sets updated_at = NOW()
	Touch     bool
	Returning []string
}

// MsgInvalidFieldValue is returned when a submitted value cannot be stored
const MsgInvalidFieldValue = "Invalid field value"

// BuildUpdate renders `UPDATE table SET col = $n, ... WHERE id = $last`.
// SET columns follow the allow-list order, not the order of the request
// body, so the same body always renders the same SQL. Only allow-listed keys
// present in fields are set and client supplied keys never reach the SQL
// text. It returns ErrNoFieldsToUpdate, without SQL, when no allow-listed key
// is present, and a bad request error when a value is an object or array.
func BuildUpdate(spec UpdateSpec, fields map[string]any, id int64) (string, []any, error) {
	idColumn := spec.IDColumn
	if idColumn == "" {
		idColumn = "id"
	}

	builder := psql.Update(spec.Table)
	set := 0
	for _, col := range spec.Allowed {
		value, ok := fields[col]
		if !ok {
			continue
		}
		v, err := normalizeValue(col, value)
		if err != nil {
			return "", nil, err
		}
		builder = builder.Set(col, v)
		set++
	}
	if set == 0 {
		return "", nil, apperrors.ErrNoFieldsToUpdate
	}

	if spec.Touch {
		builder = builder.Set("updated_at", squirrel.Expr("NOW()"))
	}
	builder = builder.Where(squirrel.Eq{idColumn: id})
	if len(spec.Returning) > 0 {
		builder = builder.Suffix("RETURNING " + strings.Join(spec.Returning, ", "))
	}

	return builder.ToSql()
}

// Filter returns the allow-listed subset of fields
func (s UpdateSpec) Filter(fields map[string]any) map[string]any {
	out := make(map[string]any, len(fields))
	for _, col := range s.Allowed {
		if v, ok := fields[col]; ok {
			out[col] = v
		}
	}
	return out
}

// normalizeValue turns whole JSON numbers into integers so they encode into
// integer columns. Columns hold scalars only, so objects and arrays are
// rejected before they reach the database.
func normalizeValue(col string, v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	switch reflect.TypeOf(v).Kind() {
	case reflect.Map, reflect.Slice, reflect.Array:
		return nil, apperrors.NewBadRequestError(col + " must be a single value")
	}
	if f, ok := v.(float64); ok && f == math.Trunc(f) && math.Abs(f) < 1<<53 {
		return int64(f), nil
	}
	return v, nil
}
