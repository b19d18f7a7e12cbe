package services

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	appauth "github.com/ypropel/backend/internal/app/auth"
	"github.com/ypropel/backend/internal/app/models"
	"github.com/ypropel/backend/internal/app/models/dto"
	"github.com/ypropel/backend/internal/app/repositories"
	"github.com/ypropel/backend/internal/pkg/auth"
	"github.com/ypropel/backend/internal/pkg/helpers"
)

// DiscussionService handles discussion topics
type DiscussionService interface {
	List(ctx context.Context, viewerID int64, category string, page, size int) (*dto.PagedResponse[*models.DiscussionTopic], error)
	Get(ctx context.Context, id, viewerID int64) (*models.DiscussionTopic, error)
	Create(ctx context.Context, userID int64, req *dto.CreateTopicRequest) (*models.DiscussionTopic, error)
	Update(ctx context.Context, identity auth.Identity, id int64, fields map[string]any) (*models.DiscussionTopic, error)
	Delete(ctx context.Context, identity auth.Identity, id int64) error

	ToggleLike(ctx context.Context, userID, topicID int64) (bool, error)
	ToggleFollow(ctx context.Context, userID, topicID int64) (bool, error)
	ToggleUpvote(ctx context.Context, userID, topicID int64) (bool, error)

	ListComments(ctx context.Context, topicID int64) ([]*models.Comment, error)
	AddComment(ctx context.Context, userID, topicID int64, content string) (*models.Comment, error)
}

type discussionServiceImpl struct {
	topicRepo  repositories.DiscussionRepository
	toggleRepo repositories.ToggleRepository
	authz      *appauth.AuthorizationService
	logger     zerolog.Logger
}

// NewDiscussionService creates a new DiscussionService
func NewDiscussionService(
	topicRepo repositories.DiscussionRepository,
	toggleRepo repositories.ToggleRepository,
	authz *appauth.AuthorizationService,
	logger zerolog.Logger,
) DiscussionService {
	return &discussionServiceImpl{
		topicRepo:  topicRepo,
		toggleRepo: toggleRepo,
		authz:      authz,
		logger:     logger,
	}
}

func (s *discussionServiceImpl) List(ctx context.Context, viewerID int64, category string, page, size int) (*dto.PagedResponse[*models.DiscussionTopic], error) {
	topics, total, err := s.topicRepo.List(ctx, strings.TrimSpace(category), pageOf(page, size))
	if err != nil {
		return nil, err
	}
	if err := s.topicRepo.Enrich(ctx, topics, viewerID); err != nil {
		return nil, err
	}
	return paged(topics, total, page, size), nil
}

func (s *discussionServiceImpl) Get(ctx context.Context, id, viewerID int64) (*models.DiscussionTopic, error) {
	topic, err := s.topicRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.topicRepo.Enrich(ctx, []*models.DiscussionTopic{topic}, viewerID); err != nil {
		return nil, err
	}
	return topic, nil
}

func (s *discussionServiceImpl) Create(ctx context.Context, userID int64, req *dto.CreateTopicRequest) (*models.DiscussionTopic, error) {
	topic := &models.DiscussionTopic{
		UserID:   userID,
		Title:    strings.TrimSpace(req.Title),
		Content:  strings.TrimSpace(req.Content),
		Category: helpers.NilIfBlank(req.Category),
	}
	if err := s.topicRepo.Create(ctx, topic); err != nil {
		return nil, err
	}
	s.logger.Info().Int64("topicID", topic.ID).Int64("userID", userID).Msg("Discussion topic created")
	return s.Get(ctx, topic.ID, userID)
}

func (s *discussionServiceImpl) Update(ctx context.Context, identity auth.Identity, id int64, fields map[string]any) (*models.DiscussionTopic, error) {
	topic, err := s.topicRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authz.ValidateOwnership(identity, appauth.ResourceTopic, topic.UserID); err != nil {
		return nil, err
	}
	if _, err := s.topicRepo.Update(ctx, id, fields); err != nil {
		return nil, err
	}
	return s.Get(ctx, id, identity.UserID)
}

func (s *discussionServiceImpl) Delete(ctx context.Context, identity auth.Identity, id int64) error {
	topic, err := s.topicRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.authz.ValidateOwnership(identity, appauth.ResourceTopic, topic.UserID); err != nil {
		return err
	}
	return s.topicRepo.Delete(ctx, id)
}

func (s *discussionServiceImpl) toggle(ctx context.Context, table string, userID, topicID int64) (bool, error) {
	if _, err := s.topicRepo.GetByID(ctx, topicID); err != nil {
		return false, err
	}
	return s.toggleRepo.Toggle(ctx, table, userID, topicID)
}

func (s *discussionServiceImpl) ToggleLike(ctx context.Context, userID, topicID int64) (bool, error) {
	return s.toggle(ctx, repositories.TableDiscussionLikes, userID, topicID)
}

func (s *discussionServiceImpl) ToggleFollow(ctx context.Context, userID, topicID int64) (bool, error) {
	return s.toggle(ctx, repositories.TableDiscussionFollows, userID, topicID)
}

func (s *discussionServiceImpl) ToggleUpvote(ctx context.Context, userID, topicID int64) (bool, error) {
	return s.toggle(ctx, repositories.TableDiscussionUpvotes, userID, topicID)
}

func (s *discussionServiceImpl) ListComments(ctx context.Context, topicID int64) ([]*models.Comment, error) {
	if _, err := s.topicRepo.GetByID(ctx, topicID); err != nil {
		return nil, err
	}
	return s.topicRepo.ListComments(ctx, topicID)
}

func (s *discussionServiceImpl) AddComment(ctx context.Context, userID, topicID int64, content string) (*models.Comment, error) {
	if _, err := s.topicRepo.GetByID(ctx, topicID); err != nil {
		return nil, err
	}
	comment := &models.Comment{UserID: userID, Content: strings.TrimSpace(content)}
	if err := s.topicRepo.CreateComment(ctx, topicID, comment); err != nil {
		return nil, err
	}
	return s.topicRepo.GetComment(ctx, comment.ID)
}
