package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/ypropel/backend/internal/app/models"
	"github.com/ypropel/backend/internal/db"
	"github.com/ypropel/backend/internal/pkg/apperrors"
	"github.com/ypropel/backend/internal/pkg/dberrors"
	"github.com/ypropel/backend/internal/pkg/helpers"
)

// JobUpdate lists the columns an admin may change on a posting
var JobUpdate = UpdateSpec{
	Table: "jobs",
	Allowed: []string{
		"title", "company", "description", "category_id", "job_type",
		"city", "state", "country", "salary", "apply_url", "is_active", "expires_at",
	},
	Touch:     true,
	Returning: []string{"id"},
}

var jobColumns = []string{
	"id", "title", "company", "description", "category_id", "job_type", "city", "state",
	"country", "salary", "apply_url", "is_active", "expires_at", "posted_by", "created_at", "updated_at",
}

type jobRepository struct {
	baseRepository
}

// NewJobRepository creates a new JobRepository
func NewJobRepository(database *db.PostgresDB) JobRepository {
	return &jobRepository{baseRepository: newBase(database)}
}

func scanJob(row pgx.Row) (*models.Job, error) {
	j := &models.Job{}
	if err := row.Scan(&j.ID, &j.Title, &j.Company, &j.Description, &j.CategoryID, &j.JobType, &j.City, &j.State,
		&j.Country, &j.Salary, &j.ApplyURL, &j.IsActive, &j.ExpiresAt, &j.PostedBy, &j.CreatedAt, &j.UpdatedAt); err != nil {
		return nil, err
	}
	return j, nil
}

// JobConditions translates a filter into WHERE conditions. ActiveOnly hides
// inactive and expired postings.
func JobConditions(filter models.JobFilter) squirrel.And {
	where := squirrel.And{}
	if filter.ActiveOnly {
		where = append(where,
			squirrel.Eq{"is_active": true},
			squirrel.Or{squirrel.Eq{"expires_at": nil}, squirrel.Expr("expires_at > NOW()")},
		)
	}
	if filter.CategoryID != nil {
		where = append(where, squirrel.Eq{"category_id": *filter.CategoryID})
	}
	if filter.JobType != "" {
		where = append(where, squirrel.Eq{"job_type": filter.JobType})
	}
	if filter.City != "" {
		where = append(where, squirrel.ILike{"city": filter.City})
	}
	if filter.State != "" {
		where = append(where, squirrel.ILike{"state": filter.State})
	}
	if filter.Country != "" {
		where = append(where, squirrel.ILike{"country": filter.Country})
	}
	if filter.Search != "" {
		pattern := helpers.LikePattern(filter.Search)
		where = append(where, squirrel.Or{
			squirrel.ILike{"title": pattern},
			squirrel.ILike{"company": pattern},
			squirrel.ILike{"description": pattern},
		})
	}
	return where
}

func (r *jobRepository) Create(ctx context.Context, job *models.Job) error {
	query, args, err := r.sb.Insert("jobs").
		Columns("title", "company", "description", "category_id", "job_type", "city", "state",
			"country", "salary", "apply_url", "is_active", "expires_at", "posted_by").
		Values(job.Title, job.Company, job.Description, job.CategoryID, job.JobType, job.City, job.State,
			job.Country, job.Salary, job.ApplyURL, job.IsActive, job.ExpiresAt, job.PostedBy).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create job query: %w", err)
	}

	if err := r.db.QueryRow(ctx, query, args...).Scan(&job.ID, &job.CreatedAt, &job.UpdatedAt); err != nil {
		if dberrors.IsForeignKeyError(err) {
			return apperrors.NewCustomError(apperrors.ErrInvalidReference, "Invalid category_id")
		}
		return fmt.Errorf("error creating job: %w", err)
	}
	return nil
}

func (r *jobRepository) GetByID(ctx context.Context, id int64) (*models.Job, error) {
	query, args, err := r.sb.Select(jobColumns...).From("jobs").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get job query: %w", err)
	}
	job, err := scanJob(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, notFound(err, "Job not found")
	}
	return job, nil
}

func (r *jobRepository) List(ctx context.Context, filter models.JobFilter) ([]*models.Job, int64, error) {
	where := JobConditions(filter)

	countQuery, countArgs, err := r.sb.Select("COUNT(*)").From("jobs").Where(where).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count jobs query: %w", err)
	}
	var total int64
	if err := r.db.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error counting jobs: %w", err)
	}

	builder := r.sb.Select(jobColumns...).From("jobs").Where(where).OrderBy("created_at DESC", "id DESC")
	if filter.Limit > 0 {
		builder = builder.Offset(filter.Offset).Limit(uint64(filter.Limit))
	}
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build list jobs query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("error querying jobs: %w", err)
	}
	defer rows.Close()

	jobs := []*models.Job{}
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("error scanning job: %w", err)
		}
		jobs = append(jobs, job)
	}
	return jobs, total, rows.Err()
}

func (r *jobRepository) Update(ctx context.Context, id int64, fields map[string]any) (*models.Job, error) {
	query, args, err := BuildUpdate(JobUpdate, fields, id)
	if err != nil {
		return nil, err
	}
	var updatedID int64
	if err := r.db.QueryRow(ctx, query, args...).Scan(&updatedID); err != nil {
		if dberrors.IsForeignKeyError(err) {
			return nil, apperrors.NewCustomError(apperrors.ErrInvalidReference, "Invalid category_id")
		}
		return nil, writeFailed(err, "Job not found")
	}
	return r.GetByID(ctx, updatedID)
}

func (r *jobRepository) SetActive(ctx context.Context, id int64, active bool) (*models.Job, error) {
	job, err := scanJob(r.db.QueryRow(ctx, `
		UPDATE jobs SET is_active = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING `+joinColumns(jobColumns), active, id))
	if err != nil {
		return nil, notFound(err, "Job not found")
	}
	return job, nil
}

func (r *jobRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM jobs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting job: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewResourceNotFoundError("Job not found")
	}
	return nil
}
