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
	"github.com/ypropel/backend/internal/pkg/helpers"
)

// VideoService handles member uploaded videos
type VideoService interface {
	List(ctx context.Context, viewerID int64, page, size int) (*dto.PagedResponse[*models.Video], error)
	Create(ctx context.Context, userID int64, req *dto.CreateVideoRequest, file *multipart.FileHeader) (*models.Video, error)
	Delete(ctx context.Context, identity auth.Identity, id int64) error
	ToggleLike(ctx context.Context, userID, videoID int64) (bool, error)
	Share(ctx context.Context, videoID int64) (int, error)
}

type videoServiceImpl struct {
	videoRepo  repositories.VideoRepository
	toggleRepo repositories.ToggleRepository
	media      filestorage.MediaStore
	authz      *appauth.AuthorizationService
	logger     zerolog.Logger
}

// NewVideoService creates a new VideoService
func NewVideoService(
	videoRepo repositories.VideoRepository,
	toggleRepo repositories.ToggleRepository,
	media filestorage.MediaStore,
	authz *appauth.AuthorizationService,
	logger zerolog.Logger,
) VideoService {
	return &videoServiceImpl{
		videoRepo:  videoRepo,
		toggleRepo: toggleRepo,
		media:      media,
		authz:      authz,
		logger:     logger,
	}
}

func (s *videoServiceImpl) List(ctx context.Context, viewerID int64, page, size int) (*dto.PagedResponse[*models.Video], error) {
	videos, total, err := s.videoRepo.List(ctx, pageOf(page, size))
	if err != nil {
		return nil, err
	}
	if err := s.videoRepo.Enrich(ctx, videos, viewerID); err != nil {
		return nil, err
	}
	return paged(videos, total, page, size), nil
}

func (s *videoServiceImpl) Create(ctx context.Context, userID int64, req *dto.CreateVideoRequest, file *multipart.FileHeader) (*models.Video, error) {
	if file == nil {
		return nil, apperrors.NewBadRequestError("video file is required")
	}
	url, err := uploadMedia(ctx, s.media, file, filestorage.KindVideo, "videos")
	if err != nil {
		return nil, err
	}

	video := &models.Video{
		UserID:      userID,
		Title:       strings.TrimSpace(req.Title),
		Description: helpers.NilIfBlank(req.Description),
		VideoURL:    *url,
	}
	if err := s.videoRepo.Create(ctx, video); err != nil {
		discardMedia(ctx, s.media, url, s.logger)
		return nil, err
	}

	s.logger.Info().Int64("videoID", video.ID).Int64("userID", userID).Msg("Video uploaded")
	return video, nil
}

func (s *videoServiceImpl) Delete(ctx context.Context, identity auth.Identity, id int64) error {
	video, err := s.videoRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.authz.ValidateOwnership(identity, appauth.ResourceVideo, video.UserID); err != nil {
		return err
	}
	if err := s.videoRepo.Delete(ctx, id); err != nil {
		return err
	}
	discardMedia(ctx, s.media, &video.VideoURL, s.logger)
	return nil
}

func (s *videoServiceImpl) ToggleLike(ctx context.Context, userID, videoID int64) (bool, error) {
	if _, err := s.videoRepo.GetByID(ctx, videoID); err != nil {
		return false, err
	}
	return s.toggleRepo.Toggle(ctx, repositories.TableVideoLikes, userID, videoID)
}

// Share bumps the stored share counter. Every call counts.
func (s *videoServiceImpl) Share(ctx context.Context, videoID int64) (int, error) {
	return s.videoRepo.IncrementShare(ctx, videoID)
}
