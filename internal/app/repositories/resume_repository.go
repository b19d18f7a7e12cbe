package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/ypropel/backend/internal/app/models"
	"github.com/ypropel/backend/internal/db"
	"github.com/ypropel/backend/internal/pkg/apperrors"
)

type resumeRepository struct {
	baseRepository
}

// NewResumeRepository creates a new ResumeRepository
func NewResumeRepository(database *db.PostgresDB) ResumeRepository {
	return &resumeRepository{baseRepository: newBase(database)}
}

// Create stores the resume row and points users.resume_url at it
func (r *resumeRepository) Create(ctx context.Context, resume *models.Resume) error {
	return r.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `
			INSERT INTO resumes (user_id, file_url, file_name)
			VALUES ($1, $2, $3)
			RETURNING id, created_at`,
			resume.UserID, resume.FileURL, resume.FileName,
		).Scan(&resume.ID, &resume.CreatedAt)
		if err != nil {
			return fmt.Errorf("error creating resume: %w", err)
		}

		tag, err := tx.Exec(ctx, `UPDATE users SET resume_url = $1, updated_at = NOW() WHERE id = $2`,
			resume.FileURL, resume.UserID)
		if err != nil {
			return fmt.Errorf("error updating resume url: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return apperrors.ErrUserNotFound
		}
		return nil
	})
}

func (r *resumeRepository) GetByID(ctx context.Context, id int64) (*models.Resume, error) {
	res := &models.Resume{}
	err := r.db.QueryRow(ctx, `
		SELECT id, user_id, file_url, file_name, created_at
		FROM resumes WHERE id = $1`, id,
	).Scan(&res.ID, &res.UserID, &res.FileURL, &res.FileName, &res.CreatedAt)
	if err != nil {
		return nil, notFound(err, "Resume not found")
	}
	return res, nil
}

func (r *resumeRepository) ListByUser(ctx context.Context, userID int64) ([]*models.Resume, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, user_id, file_url, file_name, created_at
		FROM resumes WHERE user_id = $1
		ORDER BY created_at DESC, id DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("error querying resumes: %w", err)
	}
	defer rows.Close()

	resumes := []*models.Resume{}
	for rows.Next() {
		res := &models.Resume{}
		if err := rows.Scan(&res.ID, &res.UserID, &res.FileURL, &res.FileName, &res.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning resume: %w", err)
		}
		resumes = append(resumes, res)
	}
	return resumes, rows.Err()
}

// Delete removes the resume and clears users.resume_url when it pointed to it
func (r *resumeRepository) Delete(ctx context.Context, resume *models.Resume) error {
	return r.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `DELETE FROM resumes WHERE id = $1`, resume.ID)
		if err != nil {
			return fmt.Errorf("error deleting resume: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return apperrors.NewResourceNotFoundError("Resume not found")
		}

		_, err = tx.Exec(ctx, `
			UPDATE users SET resume_url = NULL, updated_at = NOW()
			WHERE id = $1 AND resume_url = $2`,
			resume.UserID, resume.FileURL)
		if err != nil {
			return fmt.Errorf("error clearing resume url: %w", err)
		}
		return nil
	})
}
