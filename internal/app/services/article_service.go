package services

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	"github.com/ypropel/backend/internal/app/models"
	"github.com/ypropel/backend/internal/app/models/dto"
	"github.com/ypropel/backend/internal/app/repositories"
	"github.com/ypropel/backend/internal/pkg/helpers"
)

// ArticleService handles articles. Writes are admin only and gated by the router.
type ArticleService interface {
	List(ctx context.Context, viewerID int64, page, size int) (*dto.PagedResponse[*models.Article], error)
	Get(ctx context.Context, id, viewerID int64) (*models.Article, error)
	ToggleLike(ctx context.Context, userID, articleID int64) (bool, error)

	Create(ctx context.Context, adminID int64, req *dto.CreateArticleRequest) (*models.Article, error)
	Update(ctx context.Context, id int64, fields map[string]any) (*models.Article, error)
	Delete(ctx context.Context, id int64) error
}

type articleServiceImpl struct {
	articleRepo repositories.ArticleRepository
	toggleRepo  repositories.ToggleRepository
	logger      zerolog.Logger
}

// NewArticleService creates a new ArticleService
func NewArticleService(articleRepo repositories.ArticleRepository, toggleRepo repositories.ToggleRepository, logger zerolog.Logger) ArticleService {
	return &articleServiceImpl{
		articleRepo: articleRepo,
		toggleRepo:  toggleRepo,
		logger:      logger,
	}
}

func (s *articleServiceImpl) List(ctx context.Context, viewerID int64, page, size int) (*dto.PagedResponse[*models.Article], error) {
	articles, total, err := s.articleRepo.List(ctx, pageOf(page, size))
	if err != nil {
		return nil, err
	}
	if err := s.articleRepo.Enrich(ctx, articles, viewerID); err != nil {
		return nil, err
	}
	return paged(articles, total, page, size), nil
}

func (s *articleServiceImpl) Get(ctx context.Context, id, viewerID int64) (*models.Article, error) {
	article, err := s.articleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.articleRepo.Enrich(ctx, []*models.Article{article}, viewerID); err != nil {
		return nil, err
	}
	return article, nil
}

func (s *articleServiceImpl) ToggleLike(ctx context.Context, userID, articleID int64) (bool, error) {
	if _, err := s.articleRepo.GetByID(ctx, articleID); err != nil {
		return false, err
	}
	return s.toggleRepo.Toggle(ctx, repositories.TableArticleLikes, userID, articleID)
}

func (s *articleServiceImpl) Create(ctx context.Context, adminID int64, req *dto.CreateArticleRequest) (*models.Article, error) {
	article := &models.Article{
		Title:       strings.TrimSpace(req.Title),
		Subtitle:    helpers.NilIfBlank(req.Subtitle),
		Content:     req.Content,
		CoverImage:  helpers.NilIfBlank(req.CoverImage),
		AuthorID:    &adminID,
		PublishedAt: req.PublishedAt,
	}
	if err := s.articleRepo.Create(ctx, article); err != nil {
		return nil, err
	}
	s.logger.Info().Int64("articleID", article.ID).Msg("Article created")
	return article, nil
}

func (s *articleServiceImpl) Update(ctx context.Context, id int64, fields map[string]any) (*models.Article, error) {
	return s.articleRepo.Update(ctx, id, fields)
}

func (s *articleServiceImpl) Delete(ctx context.Context, id int64) error {
	return s.articleRepo.Delete(ctx, id)
}
