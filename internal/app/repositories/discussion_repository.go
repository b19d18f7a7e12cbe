package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/ypropel/backend/internal/app/models"
	"github.com/ypropel/backend/internal/db"
	"github.com/ypropel/backend/internal/pkg/apperrors"
)

// DiscussionUpdate lists the columns a topic author may change
var DiscussionUpdate = UpdateSpec{
	Table:     "discussion_topics",
	Allowed:   []string{"title", "content", "category"},
	Touch:     true,
	Returning: []string{"id"},
}

var topicColumns = []string{"id", "user_id", "title", "content", "category", "created_at", "updated_at"}

type discussionRepository struct {
	baseRepository
}

// NewDiscussionRepository creates a new DiscussionRepository
func NewDiscussionRepository(database *db.PostgresDB) DiscussionRepository {
	return &discussionRepository{baseRepository: newBase(database)}
}

func (r *discussionRepository) selectTopics() squirrel.SelectBuilder {
	return r.sb.Select(append(prefixed("t", topicColumns), "u.name", "u.photo_url")...).
		From("discussion_topics t").
		Join("users u ON u.id = t.user_id")
}

func scanTopic(row pgx.Row) (*models.DiscussionTopic, error) {
	t := &models.DiscussionTopic{Author: &models.Author{}}
	if err := row.Scan(&t.ID, &t.UserID, &t.Title, &t.Content, &t.Category, &t.CreatedAt, &t.UpdatedAt,
		&t.Author.Name, &t.Author.PhotoURL); err != nil {
		return nil, err
	}
	t.Author.ID = t.UserID
	return t, nil
}

func (r *discussionRepository) Create(ctx context.Context, topic *models.DiscussionTopic) error {
	query, args, err := r.sb.Insert("discussion_topics").
		Columns("user_id", "title", "content", "category").
		Values(topic.UserID, topic.Title, topic.Content, topic.Category).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create topic query: %w", err)
	}
	if err := r.db.QueryRow(ctx, query, args...).Scan(&topic.ID, &topic.CreatedAt, &topic.UpdatedAt); err != nil {
		return fmt.Errorf("error creating topic: %w", err)
	}
	return nil
}

func (r *discussionRepository) GetByID(ctx context.Context, id int64) (*models.DiscussionTopic, error) {
	query, args, err := r.selectTopics().Where(squirrel.Eq{"t.id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get topic query: %w", err)
	}
	topic, err := scanTopic(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, notFound(err, "Discussion topic not found")
	}
	return topic, nil
}

func (r *discussionRepository) List(ctx context.Context, category string, page Page) ([]*models.DiscussionTopic, int64, error) {
	where := squirrel.And{}
	if category != "" {
		where = append(where, squirrel.Eq{"t.category": category})
	}

	countQuery, countArgs, err := r.sb.Select("COUNT(*)").From("discussion_topics t").Where(where).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count topics query: %w", err)
	}
	var total int64
	if err := r.db.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error counting topics: %w", err)
	}

	query, args, err := r.selectTopics().Where(where).
		OrderBy("t.created_at DESC", "t.id DESC").
		Offset(page.Offset).Limit(page.Limit).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build list topics query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("error querying topics: %w", err)
	}
	defer rows.Close()

	topics := []*models.DiscussionTopic{}
	for rows.Next() {
		t, err := scanTopic(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("error scanning topic: %w", err)
		}
		topics = append(topics, t)
	}
	return topics, total, rows.Err()
}

func (r *discussionRepository) Update(ctx context.Context, id int64, fields map[string]any) (*models.DiscussionTopic, error) {
	query, args, err := BuildUpdate(DiscussionUpdate, fields, id)
	if err != nil {
		return nil, err
	}
	var updatedID int64
	if err := r.db.QueryRow(ctx, query, args...).Scan(&updatedID); err != nil {
		return nil, writeFailed(err, "Discussion topic not found")
	}
	return r.GetByID(ctx, updatedID)
}

func (r *discussionRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		for _, table := range []string{"discussion_comments", TableDiscussionLikes, TableDiscussionFollows, TableDiscussionUpvotes} {
			if _, err := tx.Exec(ctx, "DELETE FROM "+table+" WHERE topic_id = $1", id); err != nil {
				return fmt.Errorf("error deleting %s of topic: %w", table, err)
			}
		}
		tag, err := tx.Exec(ctx, `DELETE FROM discussion_topics WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("error deleting topic: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return apperrors.NewResourceNotFoundError("Discussion topic not found")
		}
		return nil
	})
}

func (r *discussionRepository) Enrich(ctx context.Context, topics []*models.DiscussionTopic, viewerID int64) error {
	if len(topics) == 0 {
		return nil
	}
	ids := idsOf(topics, func(t *models.DiscussionTopic) int64 { return t.ID })

	counts := map[string]map[int64]int{}
	for _, table := range []string{TableDiscussionLikes, TableDiscussionFollows, TableDiscussionUpvotes} {
		c, err := countByResource(ctx, r.db, table, ids)
		if err != nil {
			return err
		}
		counts[table] = c
	}
	comments, err := countGrouped(ctx, r.db, "discussion_comments", "topic_id", ids)
	if err != nil {
		return err
	}

	flags := map[string]map[int64]bool{}
	for _, table := range []string{TableDiscussionLikes, TableDiscussionFollows, TableDiscussionUpvotes} {
		f, err := flaggedByUser(ctx, r.db, table, viewerID, ids)
		if err != nil {
			return err
		}
		flags[table] = f
	}

	for _, t := range topics {
		t.LikeCount = counts[TableDiscussionLikes][t.ID]
		t.FollowCount = counts[TableDiscussionFollows][t.ID]
		t.UpvoteCount = counts[TableDiscussionUpvotes][t.ID]
		t.CommentCount = comments[t.ID]
		t.Liked = flags[TableDiscussionLikes][t.ID]
		t.Followed = flags[TableDiscussionFollows][t.ID]
		t.Upvoted = flags[TableDiscussionUpvotes][t.ID]
	}
	return nil
}

func (r *discussionRepository) CreateComment(ctx context.Context, topicID int64, comment *models.Comment) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO discussion_comments (topic_id, user_id, content)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at`,
		topicID, comment.UserID, comment.Content,
	).Scan(&comment.ID, &comment.CreatedAt, &comment.UpdatedAt)
	if err != nil {
		return fmt.Errorf("error creating discussion comment: %w", err)
	}
	comment.ParentID = topicID
	return nil
}

func (r *discussionRepository) selectComments() squirrel.SelectBuilder {
	return r.sb.Select("c.id", "c.topic_id", "c.user_id", "c.content", "c.created_at", "c.updated_at", "u.name", "u.photo_url").
		From("discussion_comments c").
		Join("users u ON u.id = c.user_id")
}

func (r *discussionRepository) GetComment(ctx context.Context, id int64) (*models.Comment, error) {
	query, args, err := r.selectComments().Where(squirrel.Eq{"c.id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get discussion comment query: %w", err)
	}
	c, err := scanComment(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, notFound(err, "Comment not found")
	}
	return c, nil
}

func (r *discussionRepository) ListComments(ctx context.Context, topicID int64) ([]*models.Comment, error) {
	query, args, err := r.selectComments().
		Where(squirrel.Eq{"c.topic_id": topicID}).
		OrderBy("c.created_at ASC", "c.id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build discussion comments query: %w", err)
	}
	return queryComments(ctx, r.db, query, args...)
}
