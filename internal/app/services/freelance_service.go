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
)

// FreelanceService handles freelance listings. Owners and admins may edit them.
type FreelanceService interface {
	List(ctx context.Context, filter repositories.FreelanceFilter) ([]*models.FreelanceService, error)
	Get(ctx context.Context, id int64) (*models.FreelanceService, error)
	Mine(ctx context.Context, userID int64) ([]*models.FreelanceService, error)
	Create(ctx context.Context, userID int64, req *dto.CreateFreelanceRequest) (*models.FreelanceService, error)
	Update(ctx context.Context, identity auth.Identity, id int64, fields map[string]any) (*models.FreelanceService, error)
	Delete(ctx context.Context, identity auth.Identity, id int64) error
}

type freelanceServiceImpl struct {
	freelanceRepo repositories.FreelanceRepository
	authz         *appauth.AuthorizationService
	logger        zerolog.Logger
}

// NewFreelanceService creates a new FreelanceService
func NewFreelanceService(freelanceRepo repositories.FreelanceRepository, authz *appauth.AuthorizationService, logger zerolog.Logger) FreelanceService {
	return &freelanceServiceImpl{
		freelanceRepo: freelanceRepo,
		authz:         authz,
		logger:        logger,
	}
}

func (s *freelanceServiceImpl) List(ctx context.Context, filter repositories.FreelanceFilter) ([]*models.FreelanceService, error) {
	filter.Search = strings.TrimSpace(filter.Search)
	return s.freelanceRepo.List(ctx, filter)
}

func (s *freelanceServiceImpl) Get(ctx context.Context, id int64) (*models.FreelanceService, error) {
	return s.freelanceRepo.GetByID(ctx, id)
}

func (s *freelanceServiceImpl) Mine(ctx context.Context, userID int64) ([]*models.FreelanceService, error) {
	return s.freelanceRepo.List(ctx, repositories.FreelanceFilter{UserID: &userID})
}

func (s *freelanceServiceImpl) Create(ctx context.Context, userID int64, req *dto.CreateFreelanceRequest) (*models.FreelanceService, error) {
	gallery := req.Gallery
	if gallery == nil {
		gallery = []string{}
	}
	svc := &models.FreelanceService{
		UserID:        userID,
		Title:         strings.TrimSpace(req.Title),
		Description:   strings.TrimSpace(req.Description),
		ServiceTypeID: req.ServiceTypeID,
		Price:         req.Price,
		Location:      req.Location,
		ContactEmail:  req.ContactEmail,
		Gallery:       gallery,
	}
	if err := s.freelanceRepo.Create(ctx, svc); err != nil {
		return nil, err
	}
	s.logger.Info().Int64("serviceID", svc.ID).Int64("userID", userID).Msg("Freelance service created")
	return s.freelanceRepo.GetByID(ctx, svc.ID)
}

func (s *freelanceServiceImpl) Update(ctx context.Context, identity auth.Identity, id int64, fields map[string]any) (*models.FreelanceService, error) {
	svc, err := s.freelanceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authz.ValidateOwnership(identity, appauth.ResourceFreelance, svc.UserID); err != nil {
		return nil, err
	}
	if _, err := s.freelanceRepo.Update(ctx, id, fields); err != nil {
		return nil, err
	}
	return s.freelanceRepo.GetByID(ctx, id)
}

func (s *freelanceServiceImpl) Delete(ctx context.Context, identity auth.Identity, id int64) error {
	svc, err := s.freelanceRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.authz.ValidateOwnership(identity, appauth.ResourceFreelance, svc.UserID); err != nil {
		return err
	}
	if err := s.freelanceRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Int64("serviceID", id).Int64("by", identity.UserID).Bool("admin", identity.IsAdmin).Msg("Freelance service deleted")
	return nil
}
