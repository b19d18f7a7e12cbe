package repositories

import (
	"context"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/ypropel/backend/internal/app/models"
	"github.com/ypropel/backend/internal/db"
	"github.com/ypropel/backend/internal/pkg/apperrors"
	"github.com/ypropel/backend/internal/pkg/dberrors"
	"github.com/ypropel/backend/internal/pkg/helpers"
)

// Curated content kinds
const (
	KindNews           = "news"
	KindMiniCourses    = "mini_courses"
	KindSummerPrograms = "summer_programs"
	KindJobFairs       = "job_fairs"
)

// ContentKind describes one curated table: its writable columns, the
// query filters it accepts and its list order.
type ContentKind struct {
	Table    string
	Label    string
	Columns  []string
	Required []string
	Filters  []string
	OrderBy  []string
}

var contentKinds = map[string]ContentKind{
	KindNews: {
		Table:    "news",
		Label:    "News item",
		Columns:  []string{"title", "summary", "content", "image_url", "source_url", "published_at"},
		Required: []string{"title"},
		OrderBy:  []string{"published_at DESC NULLS LAST", "id DESC"},
	},
	KindMiniCourses: {
		Table:    "mini_courses",
		Label:    "Mini course",
		Columns:  []string{"title", "description", "provider", "url", "image_url", "duration", "price"},
		Required: []string{"title"},
		OrderBy:  []string{"created_at DESC", "id DESC"},
	},
	KindSummerPrograms: {
		Table: "summer_programs",
		Label: "Summer program",
		Columns: []string{
			"title", "description", "organization", "program_type_id", "location", "url", "deadline", "cost", "image_url",
		},
		Required: []string{"title"},
		Filters:  []string{"program_type_id"},
		OrderBy:  []string{"deadline ASC NULLS LAST", "id DESC"},
	},
	KindJobFairs: {
		Table:    "job_fairs",
		Label:    "Job fair",
		Columns:  []string{"title", "description", "location", "start_date", "end_date", "website", "image_url"},
		Required: []string{"title"},
		OrderBy:  []string{"start_date ASC NULLS LAST", "id DESC"},
	},
}

// LookupContentKind returns the registry entry of kind
func LookupContentKind(kind string) (ContentKind, error) {
	k, ok := contentKinds[kind]
	if !ok {
		return ContentKind{}, fmt.Errorf("%w: %s", apperrors.ErrUnknownContentKind, kind)
	}
	return k, nil
}

func (k ContentKind) updateSpec() UpdateSpec {
	return UpdateSpec{Table: k.Table, Allowed: k.Columns, Touch: true, Returning: []string{"*"}}
}

func (k ContentKind) notFound() string {
	return k.Label + " not found"
}

// BuildContentInsert renders the INSERT for kind from the allow-listed
// fields. Required columns must be present and not blank.
func BuildContentInsert(kind string, fields map[string]any) (string, []any, error) {
	k, err := LookupContentKind(kind)
	if err != nil {
		return "", nil, err
	}
	for _, col := range k.Required {
		if s, ok := fields[col].(string); !ok || strings.TrimSpace(s) == "" {
			return "", nil, apperrors.NewBadRequestError(col + " is required")
		}
	}

	cols := make([]string, 0, len(k.Columns))
	vals := make([]any, 0, len(k.Columns))
	for _, col := range k.Columns {
		if v, ok := fields[col]; ok {
			nv, err := normalizeValue(col, v)
			if err != nil {
				return "", nil, err
			}
			cols = append(cols, col)
			vals = append(vals, nv)
		}
	}
	return psql.Insert(k.Table).Columns(cols...).Values(vals...).Suffix("RETURNING *").ToSql()
}

type contentRepository struct {
	baseRepository
}

// NewContentRepository creates a new ContentRepository
func NewContentRepository(database *db.PostgresDB) ContentRepository {
	return &contentRepository{baseRepository: newBase(database)}
}

func collectContent(rows pgx.Rows) ([]models.ContentRow, error) {
	maps, err := pgx.CollectRows(rows, pgx.RowToMap)
	if err != nil {
		return nil, err
	}
	out := make([]models.ContentRow, len(maps))
	for i, m := range maps {
		out[i] = models.ContentRow(m)
	}
	return out, nil
}

func (r *contentRepository) queryOne(ctx context.Context, k ContentKind, query string, args ...any) (models.ContentRow, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	row, err := pgx.CollectExactlyOneRow(rows, pgx.RowToMap)
	if err != nil {
		if dberrors.IsForeignKeyError(err) {
			return nil, apperrors.NewCustomError(apperrors.ErrInvalidReference, "Invalid reference in "+k.Table)
		}
		return nil, writeFailed(err, k.notFound())
	}
	return models.ContentRow(row), nil
}

func (r *contentRepository) List(ctx context.Context, kind string, filters map[string]any, page Page) ([]models.ContentRow, int64, error) {
	k, err := LookupContentKind(kind)
	if err != nil {
		return nil, 0, err
	}

	where := squirrel.And{}
	for _, col := range k.Filters {
		if v, ok := filters[col]; ok && v != nil {
			where = append(where, squirrel.Eq{col: v})
		}
	}
	if s, ok := filters["search"].(string); ok && strings.TrimSpace(s) != "" {
		where = append(where, squirrel.ILike{"title": helpers.LikePattern(s)})
	}

	countQuery, countArgs, err := r.sb.Select("COUNT(*)").From(k.Table).Where(where).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count %s query: %w", k.Table, err)
	}
	var total int64
	if err := r.db.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error counting %s: %w", k.Table, err)
	}

	query, args, err := r.sb.Select("*").From(k.Table).Where(where).
		OrderBy(k.OrderBy...).
		Offset(page.Offset).Limit(page.Limit).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build list %s query: %w", k.Table, err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("error querying %s: %w", k.Table, err)
	}
	items, err := collectContent(rows)
	if err != nil {
		return nil, 0, fmt.Errorf("error scanning %s: %w", k.Table, err)
	}
	return items, total, nil
}

func (r *contentRepository) GetByID(ctx context.Context, kind string, id int64) (models.ContentRow, error) {
	k, err := LookupContentKind(kind)
	if err != nil {
		return nil, err
	}
	query, args, err := r.sb.Select("*").From(k.Table).Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get %s query: %w", k.Table, err)
	}
	return r.queryOne(ctx, k, query, args...)
}

func (r *contentRepository) Create(ctx context.Context, kind string, fields map[string]any) (models.ContentRow, error) {
	k, err := LookupContentKind(kind)
	if err != nil {
		return nil, err
	}
	query, args, err := BuildContentInsert(kind, fields)
	if err != nil {
		return nil, err
	}
	return r.queryOne(ctx, k, query, args...)
}

func (r *contentRepository) Update(ctx context.Context, kind string, id int64, fields map[string]any) (models.ContentRow, error) {
	k, err := LookupContentKind(kind)
	if err != nil {
		return nil, err
	}
	query, args, err := BuildUpdate(k.updateSpec(), fields, id)
	if err != nil {
		return nil, err
	}
	return r.queryOne(ctx, k, query, args...)
}

func (r *contentRepository) Delete(ctx context.Context, kind string, id int64) error {
	k, err := LookupContentKind(kind)
	if err != nil {
		return err
	}
	tag, err := r.db.Exec(ctx, "DELETE FROM "+k.Table+" WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("error deleting %s: %w", k.Table, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewResourceNotFoundError(k.notFound())
	}
	return nil
}
