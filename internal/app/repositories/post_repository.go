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

// PostUpdate lists the columns an author may change
var PostUpdate = UpdateSpec{
	Table:     "posts",
	Allowed:   []string{"content", "image_url", "video_url"},
	Touch:     true,
	Returning: []string{"id"},
}

var postColumns = []string{"id", "user_id", "content", "image_url", "video_url", "created_at", "updated_at"}

type postRepository struct {
	baseRepository
}

// NewPostRepository creates a new PostRepository
func NewPostRepository(database *db.PostgresDB) PostRepository {
	return &postRepository{baseRepository: newBase(database)}
}

func (r *postRepository) selectPosts() squirrel.SelectBuilder {
	return r.sb.Select(append(prefixed("p", postColumns), "u.name", "u.photo_url")...).
		From("posts p").
		Join("users u ON u.id = p.user_id")
}

func scanPost(row pgx.Row) (*models.Post, error) {
	p := &models.Post{Author: &models.Author{}}
	if err := row.Scan(&p.ID, &p.UserID, &p.Content, &p.ImageURL, &p.VideoURL, &p.CreatedAt, &p.UpdatedAt,
		&p.Author.Name, &p.Author.PhotoURL); err != nil {
		return nil, err
	}
	p.Author.ID = p.UserID
	return p, nil
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	query, args, err := r.sb.Insert("posts").
		Columns("user_id", "content", "image_url", "video_url").
		Values(post.UserID, post.Content, post.ImageURL, post.VideoURL).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create post query: %w", err)
	}
	if err := r.db.QueryRow(ctx, query, args...).Scan(&post.ID, &post.CreatedAt, &post.UpdatedAt); err != nil {
		return fmt.Errorf("error creating post: %w", err)
	}
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id int64) (*models.Post, error) {
	query, args, err := r.selectPosts().Where(squirrel.Eq{"p.id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get post query: %w", err)
	}
	post, err := scanPost(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, notFound(err, "Post not found")
	}
	return post, nil
}

func (r *postRepository) List(ctx context.Context, page Page) ([]*models.Post, int64, error) {
	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM posts`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error counting posts: %w", err)
	}

	query, args, err := r.selectPosts().
		OrderBy("p.created_at DESC", "p.id DESC").
		Offset(page.Offset).Limit(page.Limit).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build list posts query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("error querying posts: %w", err)
	}
	defer rows.Close()

	posts := []*models.Post{}
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("error scanning post: %w", err)
		}
		posts = append(posts, p)
	}
	return posts, total, rows.Err()
}

func (r *postRepository) Update(ctx context.Context, id int64, fields map[string]any) (*models.Post, error) {
	query, args, err := BuildUpdate(PostUpdate, fields, id)
	if err != nil {
		return nil, err
	}

	var updatedID int64
	if err := r.db.QueryRow(ctx, query, args...).Scan(&updatedID); err != nil {
		return nil, writeFailed(err, "Post not found")
	}
	return r.GetByID(ctx, updatedID)
}

// Delete removes the post and every row hanging off it in one transaction
func (r *postRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		for _, table := range []string{"comments", TablePostLikes, TablePostFollows, TablePostShares} {
			if _, err := tx.Exec(ctx, "DELETE FROM "+table+" WHERE post_id = $1", id); err != nil {
				return fmt.Errorf("error deleting %s of post: %w", table, err)
			}
		}

		tag, err := tx.Exec(ctx, `DELETE FROM posts WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("error deleting post: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return apperrors.NewResourceNotFoundError("Post not found")
		}
		return nil
	})
}

// Enrich attaches counts, the viewer's flags and the comment threads
func (r *postRepository) Enrich(ctx context.Context, posts []*models.Post, viewerID int64) error {
	if len(posts) == 0 {
		return nil
	}
	ids := idsOf(posts, func(p *models.Post) int64 { return p.ID })

	likes, err := countByResource(ctx, r.db, TablePostLikes, ids)
	if err != nil {
		return err
	}
	follows, err := countByResource(ctx, r.db, TablePostFollows, ids)
	if err != nil {
		return err
	}
	shares, err := countByResource(ctx, r.db, TablePostShares, ids)
	if err != nil {
		return err
	}
	liked, err := flaggedByUser(ctx, r.db, TablePostLikes, viewerID, ids)
	if err != nil {
		return err
	}
	followed, err := flaggedByUser(ctx, r.db, TablePostFollows, viewerID, ids)
	if err != nil {
		return err
	}
	comments, err := r.commentsFor(ctx, ids)
	if err != nil {
		return err
	}

	for _, p := range posts {
		p.LikeCount = likes[p.ID]
		p.FollowCount = follows[p.ID]
		p.ShareCount = shares[p.ID]
		p.Liked = liked[p.ID]
		p.Followed = followed[p.ID]
		p.Comments = comments[p.ID]
		if p.Comments == nil {
			p.Comments = []*models.Comment{}
		}
		p.CommentCount = len(p.Comments)
	}
	return nil
}

var commentColumns = []string{"c.id", "c.post_id", "c.user_id", "c.content", "c.created_at", "c.updated_at", "u.name", "u.photo_url"}

func scanComment(row pgx.Row) (*models.Comment, error) {
	c := &models.Comment{Author: &models.Author{}}
	if err := row.Scan(&c.ID, &c.ParentID, &c.UserID, &c.Content, &c.CreatedAt, &c.UpdatedAt,
		&c.Author.Name, &c.Author.PhotoURL); err != nil {
		return nil, err
	}
	c.Author.ID = c.UserID
	return c, nil
}

func (r *postRepository) selectComments() squirrel.SelectBuilder {
	return r.sb.Select(commentColumns...).From("comments c").Join("users u ON u.id = c.user_id")
}

func (r *postRepository) commentsFor(ctx context.Context, postIDs []int64) (map[int64][]*models.Comment, error) {
	query, args, err := r.selectComments().
		Where(squirrel.Eq{"c.post_id": postIDs}).
		OrderBy("c.created_at ASC", "c.id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build comments query: %w", err)
	}

	comments, err := queryComments(ctx, r.db, query, args...)
	if err != nil {
		return nil, err
	}
	byPost := make(map[int64][]*models.Comment, len(postIDs))
	for _, c := range comments {
		byPost[c.ParentID] = append(byPost[c.ParentID], c)
	}
	return byPost, nil
}

func queryComments(ctx context.Context, q db.Querier, query string, args ...any) ([]*models.Comment, error) {
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying comments: %w", err)
	}
	defer rows.Close()

	comments := []*models.Comment{}
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning comment: %w", err)
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

func (r *postRepository) CreateComment(ctx context.Context, postID int64, comment *models.Comment) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO comments (post_id, user_id, content)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at`,
		postID, comment.UserID, comment.Content,
	).Scan(&comment.ID, &comment.CreatedAt, &comment.UpdatedAt)
	if err != nil {
		return fmt.Errorf("error creating comment: %w", err)
	}
	comment.ParentID = postID
	return nil
}

func (r *postRepository) GetComment(ctx context.Context, id int64) (*models.Comment, error) {
	query, args, err := r.selectComments().Where(squirrel.Eq{"c.id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get comment query: %w", err)
	}
	c, err := scanComment(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, notFound(err, "Comment not found")
	}
	return c, nil
}

func (r *postRepository) ListComments(ctx context.Context, postID int64) ([]*models.Comment, error) {
	query, args, err := r.selectComments().
		Where(squirrel.Eq{"c.post_id": postID}).
		OrderBy("c.created_at ASC", "c.id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list comments query: %w", err)
	}
	return queryComments(ctx, r.db, query, args...)
}

func (r *postRepository) UpdateComment(ctx context.Context, id int64, content string) (*models.Comment, error) {
	tag, err := r.db.Exec(ctx, `UPDATE comments SET content = $1, updated_at = NOW() WHERE id = $2`, content, id)
	if err != nil {
		return nil, fmt.Errorf("error updating comment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, apperrors.NewResourceNotFoundError("Comment not found")
	}
	return r.GetComment(ctx, id)
}

func (r *postRepository) DeleteComment(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting comment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewResourceNotFoundError("Comment not found")
	}
	return nil
}
