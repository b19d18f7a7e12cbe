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

var videoColumns = []string{"id", "user_id", "title", "description", "video_url", "share_count", "created_at"}

type videoRepository struct {
	baseRepository
}

// NewVideoRepository creates a new VideoRepository
func NewVideoRepository(database *db.PostgresDB) VideoRepository {
	return &videoRepository{baseRepository: newBase(database)}
}

func scanVideo(row pgx.Row) (*models.Video, error) {
	v := &models.Video{}
	if err := row.Scan(&v.ID, &v.UserID, &v.Title, &v.Description, &v.VideoURL, &v.ShareCount, &v.CreatedAt); err != nil {
		return nil, err
	}
	return v, nil
}

func (r *videoRepository) Create(ctx context.Context, video *models.Video) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO videos (user_id, title, description, video_url)
		VALUES ($1, $2, $3, $4)
		RETURNING id, share_count, created_at`,
		video.UserID, video.Title, video.Description, video.VideoURL,
	).Scan(&video.ID, &video.ShareCount, &video.CreatedAt)
	if err != nil {
		return fmt.Errorf("error creating video: %w", err)
	}
	return nil
}

func (r *videoRepository) GetByID(ctx context.Context, id int64) (*models.Video, error) {
	query, args, err := r.sb.Select(videoColumns...).From("videos").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get video query: %w", err)
	}
	video, err := scanVideo(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, notFound(err, "Video not found")
	}
	return video, nil
}

func (r *videoRepository) List(ctx context.Context, page Page) ([]*models.Video, int64, error) {
	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM videos`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error counting videos: %w", err)
	}

	query, args, err := r.sb.Select(videoColumns...).From("videos").
		OrderBy("created_at DESC", "id DESC").
		Offset(page.Offset).Limit(page.Limit).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build list videos query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("error querying videos: %w", err)
	}
	defer rows.Close()

	videos := []*models.Video{}
	for rows.Next() {
		v, err := scanVideo(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("error scanning video: %w", err)
		}
		videos = append(videos, v)
	}
	return videos, total, rows.Err()
}

func (r *videoRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM video_likes WHERE video_id = $1`, id); err != nil {
			return fmt.Errorf("error deleting video likes: %w", err)
		}
		tag, err := tx.Exec(ctx, `DELETE FROM videos WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("error deleting video: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return apperrors.NewResourceNotFoundError("Video not found")
		}
		return nil
	})
}

// IncrementShare bumps the stored counter in place and returns the new value
func (r *videoRepository) IncrementShare(ctx context.Context, id int64) (int, error) {
	var shares int
	err := r.db.QueryRow(ctx, `
		UPDATE videos SET share_count = share_count + 1
		WHERE id = $1
		RETURNING share_count`, id).Scan(&shares)
	if err != nil {
		return 0, notFound(err, "Video not found")
	}
	return shares, nil
}

// Enrich attaches authors, like counts and the viewer's like flag
func (r *videoRepository) Enrich(ctx context.Context, videos []*models.Video, viewerID int64) error {
	if len(videos) == 0 {
		return nil
	}
	ids := idsOf(videos, func(v *models.Video) int64 { return v.ID })

	counts, err := countByResource(ctx, r.db, TableVideoLikes, ids)
	if err != nil {
		return err
	}
	liked, err := flaggedByUser(ctx, r.db, TableVideoLikes, viewerID, ids)
	if err != nil {
		return err
	}
	authors, err := loadAuthors(ctx, r.db, idsOf(videos, func(v *models.Video) int64 { return v.UserID }))
	if err != nil {
		return err
	}

	for _, v := range videos {
		v.LikeCount = counts[v.ID]
		v.Liked = liked[v.ID]
		v.Author = authors[v.UserID]
	}
	return nil
}
