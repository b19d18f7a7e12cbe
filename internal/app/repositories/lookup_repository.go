package repositories

import (
	"context"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/ypropel/backend/internal/app/models"
	"github.com/ypropel/backend/internal/db"
	"github.com/ypropel/backend/internal/pkg/apperrors"
	"github.com/ypropel/backend/internal/pkg/dberrors"
)

// Reference table kinds
const (
	LookupMajors           = "majors"
	LookupExperienceLevels = "experience_levels"
	LookupUSStates         = "us_states"
	LookupCities           = "cities"
	LookupCountries        = "countries"
	LookupProgramTypes     = "program_types"
	LookupServiceTypes     = "service_types"
	LookupJobCategories    = "job_categories"
)

type lookupTable struct {
	table string
	// filters maps accepted query keys to columns
	filters map[string]string
}

var lookupTables = map[string]lookupTable{
	LookupMajors:           {table: "majors"},
	LookupExperienceLevels: {table: "experience_levels"},
	LookupUSStates:         {table: "us_states"},
	LookupCities:           {table: "cities", filters: map[string]string{"state": "state"}},
	LookupCountries:        {table: "countries"},
	LookupProgramTypes:     {table: "program_types"},
	LookupServiceTypes:     {table: "service_types"},
	LookupJobCategories:    {table: "job_categories"},
}

// LookupKinds lists every registered reference table
func LookupKinds() []string {
	return []string{
		LookupMajors, LookupExperienceLevels, LookupUSStates, LookupCities,
		LookupCountries, LookupProgramTypes, LookupServiceTypes, LookupJobCategories,
	}
}

func lookupFor(kind string) (lookupTable, error) {
	t, ok := lookupTables[kind]
	if !ok {
		return lookupTable{}, fmt.Errorf("%w: %s", apperrors.ErrUnknownContentKind, kind)
	}
	return t, nil
}

type lookupRepository struct {
	baseRepository
}

// NewLookupRepository creates a new LookupRepository
func NewLookupRepository(database *db.PostgresDB) LookupRepository {
	return &lookupRepository{baseRepository: newBase(database)}
}

func (r *lookupRepository) List(ctx context.Context, kind string, filters map[string]string) ([]*models.LookupItem, error) {
	t, err := lookupFor(kind)
	if err != nil {
		return nil, err
	}

	where := squirrel.And{}
	for key, col := range t.filters {
		if v := strings.TrimSpace(filters[key]); v != "" {
			where = append(where, squirrel.ILike{col: v})
		}
	}

	query, args, err := r.sb.Select("id", "name").From(t.table).Where(where).OrderBy("name ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build %s query: %w", t.table, err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying %s: %w", t.table, err)
	}
	defer rows.Close()

	items := []*models.LookupItem{}
	for rows.Next() {
		item := &models.LookupItem{}
		if err := rows.Scan(&item.ID, &item.Name); err != nil {
			return nil, fmt.Errorf("error scanning %s: %w", t.table, err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// Create adds a row to a single-column reference table
func (r *lookupRepository) Create(ctx context.Context, kind, name string) (*models.LookupItem, error) {
	t, err := lookupFor(kind)
	if err != nil {
		return nil, err
	}
	if len(t.filters) > 0 || kind == LookupUSStates {
		return nil, apperrors.NewBadRequestError("This list cannot be extended")
	}

	item := &models.LookupItem{Name: strings.TrimSpace(name)}
	err = r.db.QueryRow(ctx, "INSERT INTO "+t.table+" (name) VALUES ($1) RETURNING id", item.Name).Scan(&item.ID)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "") {
			return nil, apperrors.NewConflictError(item.Name + " already exists")
		}
		return nil, fmt.Errorf("error creating %s row: %w", t.table, err)
	}
	return item, nil
}

func (r *lookupRepository) Exists(ctx context.Context, kind string, id int64) (bool, error) {
	t, err := lookupFor(kind)
	if err != nil {
		return false, err
	}
	var exists bool
	if err := r.db.QueryRow(ctx, "SELECT EXISTS (SELECT 1 FROM "+t.table+" WHERE id = $1)", id).Scan(&exists); err != nil {
		return false, fmt.Errorf("error checking %s: %w", t.table, err)
	}
	return exists, nil
}
