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
)

// CircleUpdate lists the columns a circle creator may change
var CircleUpdate = UpdateSpec{
	Table:     "study_circles",
	Allowed:   []string{"name", "description", "is_public"},
	Touch:     true,
	Returning: []string{"id"},
}

var circleColumns = []string{"id", "name", "description", "is_public", "created_by", "created_at", "updated_at"}

type studyCircleRepository struct {
	baseRepository
}

// NewStudyCircleRepository creates a new StudyCircleRepository
func NewStudyCircleRepository(database *db.PostgresDB) StudyCircleRepository {
	return &studyCircleRepository{baseRepository: newBase(database)}
}

func scanCircle(row pgx.Row) (*models.StudyCircle, error) {
	c := &models.StudyCircle{}
	if err := row.Scan(&c.ID, &c.Name, &c.Description, &c.IsPublic, &c.CreatedBy, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	return c, nil
}

// Create inserts the circle, the creator's membership and the invited members
// as one unit. Unknown member ids abort the whole creation.
func (r *studyCircleRepository) Create(ctx context.Context, circle *models.StudyCircle, memberIDs []int64) error {
	return r.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `
			INSERT INTO study_circles (name, description, is_public, created_by)
			VALUES ($1, $2, $3, $4)
			RETURNING id, created_at, updated_at`,
			circle.Name, circle.Description, circle.IsPublic, circle.CreatedBy,
		).Scan(&circle.ID, &circle.CreatedAt, &circle.UpdatedAt)
		if err != nil {
			return fmt.Errorf("error creating study circle: %w", err)
		}

		members := append([]int64{circle.CreatedBy}, memberIDs...)
		for _, userID := range members {
			_, err := tx.Exec(ctx, `
				INSERT INTO study_circle_members (user_id, circle_id) VALUES ($1, $2)
				ON CONFLICT (user_id, circle_id) DO NOTHING`,
				userID, circle.ID)
			if err != nil {
				if dberrors.IsForeignKeyError(err) {
					return apperrors.NewCustomError(apperrors.ErrInvalidReference, fmt.Sprintf("User %d does not exist", userID))
				}
				return fmt.Errorf("error adding circle member: %w", err)
			}
		}

		circle.MemberCount = len(uniqueIDs(members))
		circle.IsMember = true
		return nil
	})
}

func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]bool, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

func (r *studyCircleRepository) GetByID(ctx context.Context, id int64) (*models.StudyCircle, error) {
	query, args, err := r.sb.Select(circleColumns...).From("study_circles").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get circle query: %w", err)
	}
	circle, err := scanCircle(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, notFound(err, "Study circle not found")
	}

	counts, err := countByResource(ctx, r.db, TableCircleMembers, []int64{id})
	if err != nil {
		return nil, err
	}
	circle.MemberCount = counts[id]
	return circle, nil
}

// List returns public circles plus the private ones the viewer belongs to
func (r *studyCircleRepository) List(ctx context.Context, viewerID int64) ([]*models.StudyCircle, error) {
	visible := squirrel.Or{squirrel.Eq{"is_public": true}}
	if viewerID > 0 {
		visible = append(visible, squirrel.Expr("id IN (SELECT circle_id FROM study_circle_members WHERE user_id = ?)", viewerID))
	}

	query, args, err := r.sb.Select(circleColumns...).From("study_circles").
		Where(visible).
		OrderBy("created_at DESC", "id DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list circles query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying circles: %w", err)
	}
	defer rows.Close()

	circles := []*models.StudyCircle{}
	for rows.Next() {
		c, err := scanCircle(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning circle: %w", err)
		}
		circles = append(circles, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	ids := idsOf(circles, func(c *models.StudyCircle) int64 { return c.ID })
	counts, err := countByResource(ctx, r.db, TableCircleMembers, ids)
	if err != nil {
		return nil, err
	}
	membership, err := flaggedByUser(ctx, r.db, TableCircleMembers, viewerID, ids)
	if err != nil {
		return nil, err
	}
	for _, c := range circles {
		c.MemberCount = counts[c.ID]
		c.IsMember = membership[c.ID]
	}
	return circles, nil
}

func (r *studyCircleRepository) Members(ctx context.Context, circleID int64) ([]*models.Author, error) {
	rows, err := r.db.Query(ctx, `
		SELECT u.id, u.name, u.photo_url
		FROM study_circle_members m
		JOIN users u ON u.id = m.user_id
		WHERE m.circle_id = $1
		ORDER BY m.created_at ASC, u.id ASC`, circleID)
	if err != nil {
		return nil, fmt.Errorf("error querying circle members: %w", err)
	}
	defer rows.Close()

	members := []*models.Author{}
	for rows.Next() {
		a := &models.Author{}
		if err := rows.Scan(&a.ID, &a.Name, &a.PhotoURL); err != nil {
			return nil, fmt.Errorf("error scanning circle member: %w", err)
		}
		members = append(members, a)
	}
	return members, rows.Err()
}

func (r *studyCircleRepository) Update(ctx context.Context, id int64, fields map[string]any) (*models.StudyCircle, error) {
	query, args, err := BuildUpdate(CircleUpdate, fields, id)
	if err != nil {
		return nil, err
	}
	var updatedID int64
	if err := r.db.QueryRow(ctx, query, args...).Scan(&updatedID); err != nil {
		return nil, writeFailed(err, "Study circle not found")
	}
	return r.GetByID(ctx, updatedID)
}

// Delete removes chat history, memberships and the circle together
func (r *studyCircleRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM study_circle_messages WHERE circle_id = $1`, id); err != nil {
			return fmt.Errorf("error deleting circle messages: %w", err)
		}
		if _, err := tx.Exec(ctx, `DELETE FROM study_circle_members WHERE circle_id = $1`, id); err != nil {
			return fmt.Errorf("error deleting circle members: %w", err)
		}
		tag, err := tx.Exec(ctx, `DELETE FROM study_circles WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("error deleting study circle: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return apperrors.NewResourceNotFoundError("Study circle not found")
		}
		return nil
	})
}

func (r *studyCircleRepository) IsMember(ctx context.Context, circleID, userID int64) (bool, error) {
	var circleExists, member bool
	err := r.db.QueryRow(ctx, `
		SELECT
			EXISTS (SELECT 1 FROM study_circles WHERE id = $1),
			EXISTS (SELECT 1 FROM study_circle_members WHERE circle_id = $1 AND user_id = $2)`,
		circleID, userID,
	).Scan(&circleExists, &member)
	if err != nil {
		return false, fmt.Errorf("error checking circle membership: %w", err)
	}
	if !circleExists {
		return false, apperrors.NewResourceNotFoundError("Study circle not found")
	}
	return member, nil
}

func (r *studyCircleRepository) CreateMessage(ctx context.Context, circleID, userID int64, content string) (*models.CircleMessage, error) {
	msg := &models.CircleMessage{CircleID: circleID, UserID: userID, Content: content, Author: &models.Author{ID: userID}}
	err := r.db.QueryRow(ctx, `
		WITH ins AS (
			INSERT INTO study_circle_messages (circle_id, user_id, content)
			VALUES ($1, $2, $3)
			RETURNING id, created_at, user_id
		)
		SELECT ins.id, ins.created_at, u.name, u.photo_url
		FROM ins JOIN users u ON u.id = ins.user_id`,
		circleID, userID, content,
	).Scan(&msg.ID, &msg.CreatedAt, &msg.Author.Name, &msg.Author.PhotoURL)
	if err != nil {
		if dberrors.IsForeignKeyError(err) {
			return nil, apperrors.NewResourceNotFoundError("Study circle not found")
		}
		return nil, fmt.Errorf("error creating circle message: %w", err)
	}
	return msg, nil
}

func (r *studyCircleRepository) ListMessages(ctx context.Context, circleID int64, page Page) ([]*models.CircleMessage, error) {
	query, args, err := r.sb.Select("m.id", "m.circle_id", "m.user_id", "m.content", "m.created_at", "u.name", "u.photo_url").
		From("study_circle_messages m").
		Join("users u ON u.id = m.user_id").
		Where(squirrel.Eq{"m.circle_id": circleID}).
		OrderBy("m.created_at ASC", "m.id ASC").
		Offset(page.Offset).Limit(page.Limit).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build circle messages query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying circle messages: %w", err)
	}
	defer rows.Close()

	messages := []*models.CircleMessage{}
	for rows.Next() {
		m := &models.CircleMessage{Author: &models.Author{}}
		if err := rows.Scan(&m.ID, &m.CircleID, &m.UserID, &m.Content, &m.CreatedAt, &m.Author.Name, &m.Author.PhotoURL); err != nil {
			return nil, fmt.Errorf("error scanning circle message: %w", err)
		}
		m.Author.ID = m.UserID
		messages = append(messages, m)
	}
	return messages, rows.Err()
}
