package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/ypropel/backend/internal/app/models"
	"github.com/ypropel/backend/internal/db"
	"github.com/ypropel/backend/internal/pkg/apperrors"
	"github.com/ypropel/backend/internal/pkg/dberrors"
	"github.com/ypropel/backend/internal/pkg/helpers"
	"github.com/ypropel/backend/internal/pkg/logger"
)

// ProfileUpdate lists the columns a member may change through PUT /users/me
var ProfileUpdate = UpdateSpec{
	Table: "users",
	Allowed: []string{
		"name", "title", "university", "major_id", "experience_level_id",
		"graduation_year", "city", "state", "country", "bio", "linkedin_url",
		"phone", "is_student", "photo_url",
	},
	Touch:     true,
	Returning: userColumns,
}

var userColumns = []string{
	"id", "name", "email", "password_hash", "google_id", "is_admin", "title",
	"university", "major_id", "experience_level_id", "graduation_year", "city",
	"state", "country", "bio", "linkedin_url", "phone", "is_student", "photo_url",
	"resume_url", "email_unsubscribed", "password_changed_at", "created_at", "updated_at",
}

func scanUser(row pgx.Row) (*models.User, error) {
	u := &models.User{}
	err := row.Scan(
		&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.GoogleID, &u.IsAdmin, &u.Title,
		&u.University, &u.MajorID, &u.ExperienceLevelID, &u.GraduationYear, &u.City,
		&u.State, &u.Country, &u.Bio, &u.LinkedInURL, &u.Phone, &u.IsStudent, &u.PhotoURL,
		&u.ResumeURL, &u.EmailUnsubscribed, &u.PasswordChangedAt, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return u, nil
}

type userRepository struct {
	baseRepository
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(database *db.PostgresDB) UserRepository {
	return &userRepository{baseRepository: newBase(database)}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	query, args, err := r.sb.Insert("users").
		Columns("name", "email", "password_hash", "google_id", "is_admin", "photo_url").
		Values(user.Name, user.Email, user.PasswordHash, user.GoogleID, user.IsAdmin, user.PhotoURL).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create user query: %w", err)
	}

	err = r.db.QueryRow(ctx, query, args...).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "") {
			return apperrors.ErrEmailAlreadyExists
		}
		logger.Error().Err(err).Str("email", user.Email).Msg("Error creating user")
		return fmt.Errorf("error creating user: %w", err)
	}
	return nil
}

func (r *userRepository) getBy(ctx context.Context, where squirrel.Sqlizer) (*models.User, error) {
	query, args, err := r.sb.Select(userColumns...).From("users").Where(where).Limit(1).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get user query: %w", err)
	}

	user, err := scanUser(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("error getting user: %w", err)
	}
	return user, nil
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return r.getBy(ctx, squirrel.Eq{"id": id})
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getBy(ctx, squirrel.Expr("LOWER(email) = LOWER(?)", email))
}

func (r *userRepository) GetByGoogleID(ctx context.Context, googleID string) (*models.User, error) {
	return r.getBy(ctx, squirrel.Eq{"google_id": googleID})
}

func (r *userRepository) LinkGoogleID(ctx context.Context, userID int64, googleID string) error {
	_, err := r.db.Exec(ctx, `UPDATE users SET google_id = $1, updated_at = NOW() WHERE id = $2`, googleID, userID)
	if err != nil {
		return fmt.Errorf("failed to link google account: %w", err)
	}
	return nil
}

func (r *userRepository) UpdateFields(ctx context.Context, id int64, fields map[string]any) (*models.User, error) {
	query, args, err := BuildUpdate(ProfileUpdate, fields, id)
	if err != nil {
		return nil, err
	}

	user, err := scanUser(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		if dberrors.IsForeignKeyError(err) {
			return nil, apperrors.NewCustomError(apperrors.ErrInvalidReference, "Invalid reference in profile update")
		}
		if dberrors.IsInvalidInputError(err) {
			return nil, writeFailed(err, "")
		}
		return nil, fmt.Errorf("error updating profile: %w", err)
	}
	return user, nil
}

func (r *userRepository) exec(ctx context.Context, query string, args ...any) error {
	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

func (r *userRepository) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	return r.exec(ctx, `UPDATE users SET password_hash = $1, password_changed_at = NOW(), updated_at = NOW() WHERE id = $2`, passwordHash, id)
}

func (r *userRepository) SetPhotoURL(ctx context.Context, id int64, photoURL string) error {
	return r.exec(ctx, `UPDATE users SET photo_url = $1, updated_at = NOW() WHERE id = $2`, photoURL, id)
}

func (r *userRepository) SetAdmin(ctx context.Context, id int64, isAdmin bool) error {
	return r.exec(ctx, `UPDATE users SET is_admin = $1, updated_at = NOW() WHERE id = $2`, isAdmin, id)
}

func (r *userRepository) Delete(ctx context.Context, id int64) error {
	return r.exec(ctx, `DELETE FROM users WHERE id = $1`, id)
}

func (r *userRepository) Unsubscribe(ctx context.Context, email string) (*models.User, error) {
	query, args, err := r.sb.Update("users").
		Set("email_unsubscribed", true).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Expr("LOWER(email) = LOWER(?)", email)).
		Suffix("RETURNING " + joinColumns(userColumns)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build unsubscribe query: %w", err)
	}

	user, err := scanUser(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("error unsubscribing user: %w", err)
	}
	return user, nil
}

func (r *userRepository) List(ctx context.Context, search string, page Page) ([]*models.User, int64, error) {
	where := squirrel.And{}
	if search != "" {
		pattern := helpers.LikePattern(search)
		where = append(where, squirrel.Or{
			squirrel.ILike{"name": pattern},
			squirrel.ILike{"email": pattern},
			squirrel.ILike{"university": pattern},
		})
	}

	countQuery, countArgs, err := r.sb.Select("COUNT(*)").From("users").Where(where).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count users query: %w", err)
	}
	var total int64
	if err := r.db.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error counting users: %w", err)
	}

	query, args, err := r.sb.Select(userColumns...).From("users").Where(where).
		OrderBy("created_at DESC", "id DESC").
		Offset(page.Offset).Limit(page.Limit).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build list users query: %w", err)
	}

	users, err := r.collect(ctx, query, args...)
	return users, total, err
}

func (r *userRepository) ListAll(ctx context.Context) ([]*models.User, error) {
	query, args, err := r.sb.Select(userColumns...).From("users").OrderBy("id ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build export query: %w", err)
	}
	return r.collect(ctx, query, args...)
}

func (r *userRepository) collect(ctx context.Context, query string, args ...any) ([]*models.User, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying users: %w", err)
	}
	defer rows.Close()

	users := []*models.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning user row: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *userRepository) Authors(ctx context.Context, ids []int64) (map[int64]*models.Author, error) {
	return loadAuthors(ctx, r.db, ids)
}

// loadAuthors fetches the compact author records for a set of user ids
func loadAuthors(ctx context.Context, q db.Querier, ids []int64) (map[int64]*models.Author, error) {
	authors := make(map[int64]*models.Author, len(ids))
	if len(ids) == 0 {
		return authors, nil
	}

	query, args, err := psql.Select("id", "name", "photo_url").From("users").
		Where(squirrel.Eq{"id": ids}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build authors query: %w", err)
	}

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying authors: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		a := &models.Author{}
		if err := rows.Scan(&a.ID, &a.Name, &a.PhotoURL); err != nil {
			return nil, fmt.Errorf("error scanning author: %w", err)
		}
		authors[a.ID] = a
	}
	return authors, rows.Err()
}
