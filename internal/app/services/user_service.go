package services

import (
	"context"
	"mime/multipart"
	"strings"

	"github.com/rs/zerolog"
	"github.com/ypropel/backend/internal/app/models"
	"github.com/ypropel/backend/internal/app/models/dto"
	"github.com/ypropel/backend/internal/app/repositories"
	"github.com/ypropel/backend/internal/pkg/apperrors"
	"github.com/ypropel/backend/internal/pkg/auth"
	"github.com/ypropel/backend/internal/pkg/filestorage"
)

// UserService handles member profiles
type UserService interface {
	GetMe(ctx context.Context, userID int64) (*models.User, error)
	GetPublicProfile(ctx context.Context, userID int64) (*models.PublicUser, error)
	Directory(ctx context.Context, filter dto.UserFilter) (*dto.PagedResponse[models.PublicUser], error)
	UpdateProfile(ctx context.Context, userID int64, fields map[string]any) (*models.User, error)
	UpdatePhoto(ctx context.Context, userID int64, photo *multipart.FileHeader) (*models.User, error)
	ChangePassword(ctx context.Context, userID int64, req *dto.ChangePasswordRequest) error
}

type userServiceImpl struct {
	userRepo   repositories.UserRepository
	lookupRepo repositories.LookupRepository
	media      filestorage.MediaStore
	logger     zerolog.Logger
}

// NewUserService creates a new UserService
func NewUserService(
	userRepo repositories.UserRepository,
	lookupRepo repositories.LookupRepository,
	media filestorage.MediaStore,
	logger zerolog.Logger,
) UserService {
	return &userServiceImpl{
		userRepo:   userRepo,
		lookupRepo: lookupRepo,
		media:      media,
		logger:     logger,
	}
}

func (s *userServiceImpl) GetMe(ctx context.Context, userID int64) (*models.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}

func (s *userServiceImpl) GetPublicProfile(ctx context.Context, userID int64) (*models.PublicUser, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	public := user.Public()
	return &public, nil
}

func (s *userServiceImpl) Directory(ctx context.Context, filter dto.UserFilter) (*dto.PagedResponse[models.PublicUser], error) {
	users, total, err := s.userRepo.List(ctx, strings.TrimSpace(filter.Search), pageOf(filter.Page, filter.Size))
	if err != nil {
		return nil, err
	}
	items := make([]models.PublicUser, 0, len(users))
	for _, u := range users {
		items = append(items, u.Public())
	}
	return paged(items, total, filter.Page, filter.Size), nil
}

// UpdateProfile applies the allow-listed fields. A major_id must name an
// existing major; the check runs before the UPDATE is issued.
func (s *userServiceImpl) UpdateProfile(ctx context.Context, userID int64, fields map[string]any) (*models.User, error) {
	fields = repositories.ProfileUpdate.Filter(fields)
	if len(fields) == 0 {
		return nil, apperrors.ErrNoFieldsToUpdate
	}

	if raw, ok := fields["major_id"]; ok && raw != nil {
		majorID, ok := idValue(raw)
		if !ok {
			return nil, apperrors.NewBadRequestError("Invalid major_id")
		}
		exists, err := s.lookupRepo.Exists(ctx, repositories.LookupMajors, majorID)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, apperrors.NewBadRequestError("Invalid major_id")
		}
		fields["major_id"] = majorID
	}

	if name, ok := fields["name"].(string); ok && strings.TrimSpace(name) == "" {
		return nil, apperrors.NewBadRequestError("name cannot be empty")
	}

	user, err := s.userRepo.UpdateFields(ctx, userID, fields)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Int64("userID", userID).Int("fields", len(fields)).Msg("Profile updated")
	return user, nil
}

func (s *userServiceImpl) UpdatePhoto(ctx context.Context, userID int64, photo *multipart.FileHeader) (*models.User, error) {
	if photo == nil {
		return nil, apperrors.NewBadRequestError("photo is required")
	}
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	url, err := uploadMedia(ctx, s.media, photo, filestorage.KindImage, "profile-photos")
	if err != nil {
		return nil, err
	}
	if err := s.userRepo.SetPhotoURL(ctx, userID, *url); err != nil {
		discardMedia(ctx, s.media, url, s.logger)
		return nil, err
	}

	discardMedia(ctx, s.media, user.PhotoURL, s.logger)
	user.PhotoURL = url
	return user, nil
}

func (s *userServiceImpl) ChangePassword(ctx context.Context, userID int64, req *dto.ChangePasswordRequest) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if !auth.CheckPassword(user.PasswordHash, req.CurrentPassword) {
		return apperrors.NewBadRequestError("Current password is incorrect")
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		return err
	}
	return s.userRepo.UpdatePassword(ctx, userID, hash)
}
