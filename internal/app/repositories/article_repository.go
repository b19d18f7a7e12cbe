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

// ArticleUpdate lists the editable article columns
var ArticleUpdate = UpdateSpec{
	Table:     "articles",
	Allowed:   []string{"title", "subtitle", "content", "cover_image", "published_at"},
	Touch:     true,
	Returning: articleColumns,
}

var articleColumns = []string{
	"id", "title", "subtitle", "content", "cover_image", "author_id", "published_at", "created_at", "updated_at",
}

type articleRepository struct {
	baseRepository
}

// NewArticleRepository creates a new ArticleRepository
func NewArticleRepository(database *db.PostgresDB) ArticleRepository {
	return &articleRepository{baseRepository: newBase(database)}
}

func scanArticle(row pgx.Row) (*models.Article, error) {
	a := &models.Article{}
	if err := row.Scan(&a.ID, &a.Title, &a.Subtitle, &a.Content, &a.CoverImage, &a.AuthorID,
		&a.PublishedAt, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, err
	}
	return a, nil
}

func (r *articleRepository) Create(ctx context.Context, article *models.Article) error {
	query, args, err := r.sb.Insert("articles").
		Columns("title", "subtitle", "content", "cover_image", "author_id", "published_at").
		Values(article.Title, article.Subtitle, article.Content, article.CoverImage, article.AuthorID,
			squirrel.Expr("COALESCE(?, NOW())", article.PublishedAt)).
		Suffix("RETURNING id, published_at, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create article query: %w", err)
	}
	if err := r.db.QueryRow(ctx, query, args...).Scan(&article.ID, &article.PublishedAt, &article.CreatedAt, &article.UpdatedAt); err != nil {
		return fmt.Errorf("error creating article: %w", err)
	}
	return nil
}

func (r *articleRepository) GetByID(ctx context.Context, id int64) (*models.Article, error) {
	query, args, err := r.sb.Select(articleColumns...).From("articles").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get article query: %w", err)
	}
	article, err := scanArticle(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, notFound(err, "Article not found")
	}
	return article, nil
}

func (r *articleRepository) List(ctx context.Context, page Page) ([]*models.Article, int64, error) {
	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM articles`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error counting articles: %w", err)
	}

	query, args, err := r.sb.Select(articleColumns...).From("articles").
		OrderBy("published_at DESC NULLS LAST", "id DESC").
		Offset(page.Offset).Limit(page.Limit).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build list articles query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("error querying articles: %w", err)
	}
	defer rows.Close()

	articles := []*models.Article{}
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("error scanning article: %w", err)
		}
		articles = append(articles, a)
	}
	return articles, total, rows.Err()
}

func (r *articleRepository) Update(ctx context.Context, id int64, fields map[string]any) (*models.Article, error) {
	query, args, err := BuildUpdate(ArticleUpdate, fields, id)
	if err != nil {
		return nil, err
	}
	article, err := scanArticle(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, writeFailed(err, "Article not found")
	}
	return article, nil
}

func (r *articleRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM article_likes WHERE article_id = $1`, id); err != nil {
			return fmt.Errorf("error deleting article likes: %w", err)
		}
		tag, err := tx.Exec(ctx, `DELETE FROM articles WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("error deleting article: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return apperrors.NewResourceNotFoundError("Article not found")
		}
		return nil
	})
}

func (r *articleRepository) Enrich(ctx context.Context, articles []*models.Article, viewerID int64) error {
	if len(articles) == 0 {
		return nil
	}
	ids := idsOf(articles, func(a *models.Article) int64 { return a.ID })

	counts, err := countByResource(ctx, r.db, TableArticleLikes, ids)
	if err != nil {
		return err
	}
	liked, err := flaggedByUser(ctx, r.db, TableArticleLikes, viewerID, ids)
	if err != nil {
		return err
	}
	for _, a := range articles {
		a.LikeCount = counts[a.ID]
		a.Liked = liked[a.ID]
	}
	return nil
}
