package services

import (
	"context"
	"mime/multipart"
	"path/filepath"

	"github.com/rs/zerolog"
	appauth "github.com/ypropel/backend/internal/app/auth"
	"github.com/ypropel/backend/internal/app/models"
	"github.com/ypropel/backend/internal/app/repositories"
	"github.com/ypropel/backend/internal/pkg/apperrors"
	"github.com/ypropel/backend/internal/pkg/auth"
	"github.com/ypropel/backend/internal/pkg/filestorage"
)

// ResumeService handles member CV uploads
type ResumeService interface {
	Upload(ctx context.Context, userID int64, file *multipart.FileHeader) (*models.Resume, error)
	List(ctx context.Context, userID int64) ([]*models.Resume, error)
	Delete(ctx context.Context, identity auth.Identity, id int64) error
}

type resumeServiceImpl struct {
	resumeRepo repositories.ResumeRepository
	media      filestorage.MediaStore
	authz      *appauth.AuthorizationService
	logger     zerolog.Logger
}

// NewResumeService creates a new ResumeService
func NewResumeService(
	resumeRepo repositories.ResumeRepository,
	media filestorage.MediaStore,
	authz *appauth.AuthorizationService,
	logger zerolog.Logger,
) ResumeService {
	return &resumeServiceImpl{
		resumeRepo: resumeRepo,
		media:      media,
		authz:      authz,
		logger:     logger,
	}
}

func (s *resumeServiceImpl) Upload(ctx context.Context, userID int64, file *multipart.FileHeader) (*models.Resume, error) {
	if file == nil {
		return nil, apperrors.NewBadRequestError("resume file is required")
	}
	url, err := uploadMedia(ctx, s.media, file, filestorage.KindResume, "resumes")
	if err != nil {
		return nil, err
	}

	resume := &models.Resume{
		UserID:   userID,
		FileURL:  *url,
		FileName: filepath.Base(file.Filename),
	}
	if err := s.resumeRepo.Create(ctx, resume); err != nil {
		discardMedia(ctx, s.media, url, s.logger)
		return nil, err
	}

	s.logger.Info().Int64("resumeID", resume.ID).Int64("userID", userID).Msg("Resume uploaded")
	return resume, nil
}

func (s *resumeServiceImpl) List(ctx context.Context, userID int64) ([]*models.Resume, error) {
	return s.resumeRepo.ListByUser(ctx, userID)
}

func (s *resumeServiceImpl) Delete(ctx context.Context, identity auth.Identity, id int64) error {
	resume, err := s.resumeRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.authz.ValidateOwnership(identity, appauth.ResourceResume, resume.UserID); err != nil {
		return err
	}
	if err := s.resumeRepo.Delete(ctx, resume); err != nil {
		return err
	}
	discardMedia(ctx, s.media, &resume.FileURL, s.logger)
	return nil
}
