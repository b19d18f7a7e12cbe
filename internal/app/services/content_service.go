package services

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/ypropel/backend/internal/app/models"
	"github.com/ypropel/backend/internal/app/models/dto"
	"github.com/ypropel/backend/internal/app/repositories"
)

// ContentService serves the curated content kinds: news, mini courses,
// summer programs and job fairs.
type ContentService interface {
	List(ctx context.Context, kind string, filters map[string]any, page, size int) (*dto.PagedResponse[models.ContentRow], error)
	Get(ctx context.Context, kind string, id int64) (models.ContentRow, error)
	Create(ctx context.Context, kind string, fields map[string]any) (models.ContentRow, error)
	Update(ctx context.Context, kind string, id int64, fields map[string]any) (models.ContentRow, error)
	Delete(ctx context.Context, kind string, id int64) error
}

type contentServiceImpl struct {
	contentRepo repositories.ContentRepository
	logger      zerolog.Logger
}

// NewContentService creates a new ContentService
func NewContentService(contentRepo repositories.ContentRepository, logger zerolog.Logger) ContentService {
	return &contentServiceImpl{contentRepo: contentRepo, logger: logger}
}

func (s *contentServiceImpl) List(ctx context.Context, kind string, filters map[string]any, page, size int) (*dto.PagedResponse[models.ContentRow], error) {
	rows, total, err := s.contentRepo.List(ctx, kind, filters, pageOf(page, size))
	if err != nil {
		return nil, err
	}
	return paged(rows, total, page, size), nil
}

func (s *contentServiceImpl) Get(ctx context.Context, kind string, id int64) (models.ContentRow, error) {
	return s.contentRepo.GetByID(ctx, kind, id)
}

func (s *contentServiceImpl) Create(ctx context.Context, kind string, fields map[string]any) (models.ContentRow, error) {
	row, err := s.contentRepo.Create(ctx, kind, fields)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("kind", kind).Interface("id", row["id"]).Msg("Content created")
	return row, nil
}

func (s *contentServiceImpl) Update(ctx context.Context, kind string, id int64, fields map[string]any) (models.ContentRow, error) {
	return s.contentRepo.Update(ctx, kind, id, fields)
}

func (s *contentServiceImpl) Delete(ctx context.Context, kind string, id int64) error {
	if err := s.contentRepo.Delete(ctx, kind, id); err != nil {
		return err
	}
	s.logger.Info().Str("kind", kind).Int64("id", id).Msg("Content deleted")
	return nil
}
