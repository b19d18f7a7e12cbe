package services

import (
	"context"
	"mime/multipart"
	"strings"

	"github.com/rs/zerolog"
	appauth "github.com/ypropel/backend/internal/app/auth"
	"github.com/ypropel/backend/internal/app/models"
	"github.com/ypropel/backend/internal/app/models/dto"
	"github.com/ypropel/backend/internal/app/repositories"
	"github.com/ypropel/backend/internal/pkg/apperrors"
	"github.com/ypropel/backend/internal/pkg/auth"
	"github.com/ypropel/backend/internal/pkg/filestorage"
)

// MsgAlreadyShared is returned when a member shares the same post twice
const MsgAlreadyShared = "Post already shared"

// PostMedia carries the optional files of a multipart post
type PostMedia struct {
	Image *multipart.FileHeader
	Video *multipart.FileHeader
}

// PostService handles the feed, its interactions and comments
type PostService interface {
	List(ctx context.Context, viewerID int64, page, size int) (*dto.PagedResponse[*models.Post], error)
	Get(ctx context.Context, id, viewerID int64) (*models.Post, error)
	Create(ctx context.Context, userID int64, req *dto.CreatePostRequest, media PostMedia) (*models.Post, error)
	Update(ctx context.Context, identity auth.Identity, id int64, fields map[string]any) (*models.Post, error)
	Delete(ctx context.Context, identity auth.Identity, id int64) error

	ToggleLike(ctx context.Context, userID, postID int64) (bool, error)
	ToggleFollow(ctx context.Context, userID, postID int64) (bool, error)
	Share(ctx context.Context, userID, postID int64) (int, error)

	ListComments(ctx context.Context, postID int64) ([]*models.Comment, error)
	AddComment(ctx context.Context, userID, postID int64, content string) (*models.Comment, error)
	UpdateComment(ctx context.Context, identity auth.Identity, commentID int64, content string) (*models.Comment, error)
	DeleteComment(ctx context.Context, identity auth.Identity, commentID int64) error
}

type postServiceImpl struct {
	postRepo   repositories.PostRepository
	toggleRepo repositories.ToggleRepository
	media      filestorage.MediaStore
	authz      *appauth.AuthorizationService
	logger     zerolog.Logger
}

// NewPostService creates a new PostService
func NewPostService(
	postRepo repositories.PostRepository,
	toggleRepo repositories.ToggleRepository,
	media filestorage.MediaStore,
	authz *appauth.AuthorizationService,
	logger zerolog.Logger,
) PostService {
	return &postServiceImpl{
		postRepo:   postRepo,
		toggleRepo: toggleRepo,
		media:      media,
		authz:      authz,
		logger:     logger,
	}
}

func (s *postServiceImpl) List(ctx context.Context, viewerID int64, page, size int) (*dto.PagedResponse[*models.Post], error) {
	posts, total, err := s.postRepo.List(ctx, pageOf(page, size))
	if err != nil {
		return nil, err
	}
	if err := s.postRepo.Enrich(ctx, posts, viewerID); err != nil {
		return nil, err
	}
	return paged(posts, total, page, size), nil
}

func (s *postServiceImpl) Get(ctx context.Context, id, viewerID int64) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.postRepo.Enrich(ctx, []*models.Post{post}, viewerID); err != nil {
		return nil, err
	}
	return post, nil
}

// Create stores uploaded media first. Files are removed again when the
// insert fails.
func (s *postServiceImpl) Create(ctx context.Context, userID int64, req *dto.CreatePostRequest, media PostMedia) (*models.Post, error) {
	post := &models.Post{
		UserID:   userID,
		Content:  strings.TrimSpace(req.Content),
		ImageURL: req.ImageURL,
		VideoURL: req.VideoURL,
	}

	imageURL, err := uploadMedia(ctx, s.media, media.Image, filestorage.KindImage, "posts/images")
	if err != nil {
		return nil, err
	}
	videoURL, err := uploadMedia(ctx, s.media, media.Video, filestorage.KindVideo, "posts/videos")
	if err != nil {
		discardMedia(ctx, s.media, imageURL, s.logger)
		return nil, err
	}
	if imageURL != nil {
		post.ImageURL = imageURL
	}
	if videoURL != nil {
		post.VideoURL = videoURL
	}

	if err := s.postRepo.Create(ctx, post); err != nil {
		discardMedia(ctx, s.media, imageURL, s.logger)
		discardMedia(ctx, s.media, videoURL, s.logger)
		return nil, err
	}

	s.logger.Info().Int64("postID", post.ID).Int64("userID", userID).Msg("Post created")
	return s.Get(ctx, post.ID, userID)
}

func (s *postServiceImpl) Update(ctx context.Context, identity auth.Identity, id int64, fields map[string]any) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authz.ValidateOwnership(identity, appauth.ResourcePost, post.UserID); err != nil {
		return nil, err
	}
	if content, ok := fields["content"].(string); ok && strings.TrimSpace(content) == "" {
		return nil, apperrors.NewBadRequestError("content cannot be empty")
	}

	if _, err := s.postRepo.Update(ctx, id, fields); err != nil {
		return nil, err
	}
	return s.Get(ctx, id, identity.UserID)
}

// Delete removes the post with its comments, likes, follows and shares
func (s *postServiceImpl) Delete(ctx context.Context, identity auth.Identity, id int64) error {
	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.authz.ValidateOwnership(identity, appauth.ResourcePost, post.UserID); err != nil {
		return err
	}
	if err := s.postRepo.Delete(ctx, id); err != nil {
		return err
	}

	discardMedia(ctx, s.media, post.ImageURL, s.logger)
	discardMedia(ctx, s.media, post.VideoURL, s.logger)
	s.logger.Info().Int64("postID", id).Msg("Post deleted")
	return nil
}

func (s *postServiceImpl) toggle(ctx context.Context, table string, userID, postID int64) (bool, error) {
	if _, err := s.postRepo.GetByID(ctx, postID); err != nil {
		return false, err
	}
	return s.toggleRepo.Toggle(ctx, table, userID, postID)
}

func (s *postServiceImpl) ToggleLike(ctx context.Context, userID, postID int64) (bool, error) {
	return s.toggle(ctx, repositories.TablePostLikes, userID, postID)
}

func (s *postServiceImpl) ToggleFollow(ctx context.Context, userID, postID int64) (bool, error) {
	return s.toggle(ctx, repositories.TablePostFollows, userID, postID)
}

// Share records the share once per member and returns the share count
func (s *postServiceImpl) Share(ctx context.Context, userID, postID int64) (int, error) {
	if _, err := s.postRepo.GetByID(ctx, postID); err != nil {
		return 0, err
	}
	inserted, err := s.toggleRepo.InsertOnce(ctx, repositories.TablePostShares, userID, postID)
	if err != nil {
		return 0, err
	}
	if !inserted {
		return 0, apperrors.NewCustomError(apperrors.ErrAlreadyShared, MsgAlreadyShared)
	}
	return s.toggleRepo.Count(ctx, repositories.TablePostShares, postID)
}

func (s *postServiceImpl) ListComments(ctx context.Context, postID int64) ([]*models.Comment, error) {
	if _, err := s.postRepo.GetByID(ctx, postID); err != nil {
		return nil, err
	}
	return s.postRepo.ListComments(ctx, postID)
}

func (s *postServiceImpl) AddComment(ctx context.Context, userID, postID int64, content string) (*models.Comment, error) {
	if _, err := s.postRepo.GetByID(ctx, postID); err != nil {
		return nil, err
	}
	comment := &models.Comment{UserID: userID, Content: strings.TrimSpace(content)}
	if err := s.postRepo.CreateComment(ctx, postID, comment); err != nil {
		return nil, err
	}
	return s.postRepo.GetComment(ctx, comment.ID)
}

func (s *postServiceImpl) UpdateComment(ctx context.Context, identity auth.Identity, commentID int64, content string) (*models.Comment, error) {
	comment, err := s.postRepo.GetComment(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if err := s.authz.ValidateOwnership(identity, appauth.ResourceComment, comment.UserID); err != nil {
		return nil, err
	}
	return s.postRepo.UpdateComment(ctx, commentID, strings.TrimSpace(content))
}

func (s *postServiceImpl) DeleteComment(ctx context.Context, identity auth.Identity, commentID int64) error {
	comment, err := s.postRepo.GetComment(ctx, commentID)
	if err != nil {
		return err
	}
	if err := s.authz.ValidateOwnership(identity, appauth.ResourceComment, comment.UserID); err != nil {
		return err
	}
	return s.postRepo.DeleteComment(ctx, commentID)
}
