package services

import (
	"context"
	"io"
	"strings"

	"github.com/rs/zerolog"
	"github.com/ypropel/backend/internal/app/models"
	"github.com/ypropel/backend/internal/app/models/dto"
	"github.com/ypropel/backend/internal/app/repositories"
	"github.com/ypropel/backend/internal/pkg/apperrors"
	"github.com/ypropel/backend/internal/pkg/export"
)

// AdminService covers user management and the dashboard
type AdminService interface {
	ListUsers(ctx context.Context, filter dto.UserFilter) (*dto.PagedResponse[*models.User], error)
	ExportUsers(ctx context.Context, w io.Writer) error
	SetAdmin(ctx context.Context, actorID, userID int64, isAdmin bool) error
	DeleteUser(ctx context.Context, actorID, userID int64) error
	Stats(ctx context.Context) (models.Stats, error)
}

type adminServiceImpl struct {
	userRepo  repositories.UserRepository
	statsRepo repositories.StatsRepository
	logger    zerolog.Logger
}

// NewAdminService creates a new AdminService
func NewAdminService(userRepo repositories.UserRepository, statsRepo repositories.StatsRepository, logger zerolog.Logger) AdminService {
	return &adminServiceImpl{
		userRepo:  userRepo,
		statsRepo: statsRepo,
		logger:    logger,
	}
}

func (s *adminServiceImpl) ListUsers(ctx context.Context, filter dto.UserFilter) (*dto.PagedResponse[*models.User], error) {
	users, total, err := s.userRepo.List(ctx, strings.TrimSpace(filter.Search), pageOf(filter.Page, filter.Size))
	if err != nil {
		return nil, err
	}
	return paged(users, total, filter.Page, filter.Size), nil
}

// ExportUsers writes every member to w as an XLSX workbook
func (s *adminServiceImpl) ExportUsers(ctx context.Context, w io.Writer) error {
	users, err := s.userRepo.ListAll(ctx)
	if err != nil {
		return err
	}
	s.logger.Info().Int("users", len(users)).Msg("Exporting users")
	return export.WriteUsers(w, users)
}

func (s *adminServiceImpl) SetAdmin(ctx context.Context, actorID, userID int64, isAdmin bool) error {
	if actorID == userID {
		return apperrors.NewBadRequestError("You cannot change your own admin rights")
	}
	if err := s.userRepo.SetAdmin(ctx, userID, isAdmin); err != nil {
		return err
	}
	s.logger.Info().Int64("actorID", actorID).Int64("userID", userID).Bool("isAdmin", isAdmin).Msg("Admin rights changed")
	return nil
}

func (s *adminServiceImpl) DeleteUser(ctx context.Context, actorID, userID int64) error {
	if actorID == userID {
		return apperrors.NewBadRequestError("You cannot delete your own account")
	}
	if err := s.userRepo.Delete(ctx, userID); err != nil {
		return err
	}
	s.logger.Warn().Int64("actorID", actorID).Int64("userID", userID).Msg("User deleted")
	return nil
}

func (s *adminServiceImpl) Stats(ctx context.Context) (models.Stats, error) {
	return s.statsRepo.Counts(ctx)
}
