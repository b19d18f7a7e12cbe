package services

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/ypropel/backend/internal/app/models"
	"github.com/ypropel/backend/internal/app/models/dto"
	"github.com/ypropel/backend/internal/app/repositories"
	"github.com/ypropel/backend/internal/pkg/apperrors"
	"github.com/ypropel/backend/internal/pkg/helpers"
)

// MsgJobNotFound is returned for missing, inactive and expired postings alike
const MsgJobNotFound = "Job not found"

// JobService handles the job board and its admin management
type JobService interface {
	ListPublic(ctx context.Context, filter models.JobFilter, page, size int) (*dto.PagedResponse[*models.Job], error)
	GetPublic(ctx context.Context, id int64) (*models.Job, error)

	ListAll(ctx context.Context, filter models.JobFilter, page, size int) (*dto.PagedResponse[*models.Job], error)
	Create(ctx context.Context, adminID int64, req *dto.CreateJobRequest) (*models.Job, error)
	Update(ctx context.Context, id int64, fields map[string]any) (*models.Job, error)
	SetActive(ctx context.Context, id int64, active bool) (*models.Job, error)
	Delete(ctx context.Context, id int64) error
}

type jobServiceImpl struct {
	jobRepo repositories.JobRepository
	logger  zerolog.Logger
	now     func() time.Time
}

// NewJobService creates a new JobService
func NewJobService(jobRepo repositories.JobRepository, logger zerolog.Logger) JobService {
	return &jobServiceImpl{
		jobRepo: jobRepo,
		logger:  logger,
		now:     time.Now,
	}
}

func (s *jobServiceImpl) list(ctx context.Context, filter models.JobFilter, page, size int) (*dto.PagedResponse[*models.Job], error) {
	filter.Offset, filter.Limit = helpers.CalculateOffsetLimit(page, size)
	filter.Search = strings.TrimSpace(filter.Search)
	jobs, total, err := s.jobRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return paged(jobs, total, page, size), nil
}

// ListPublic only returns active postings that have not expired
func (s *jobServiceImpl) ListPublic(ctx context.Context, filter models.JobFilter, page, size int) (*dto.PagedResponse[*models.Job], error) {
	filter.ActiveOnly = true
	return s.list(ctx, filter, page, size)
}

func (s *jobServiceImpl) GetPublic(ctx context.Context, id int64) (*models.Job, error) {
	job, err := s.jobRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !job.IsActive || (job.ExpiresAt != nil && !job.ExpiresAt.After(s.now())) {
		return nil, apperrors.NewResourceNotFoundError(MsgJobNotFound)
	}
	return job, nil
}

func (s *jobServiceImpl) ListAll(ctx context.Context, filter models.JobFilter, page, size int) (*dto.PagedResponse[*models.Job], error) {
	filter.ActiveOnly = false
	return s.list(ctx, filter, page, size)
}

func (s *jobServiceImpl) Create(ctx context.Context, adminID int64, req *dto.CreateJobRequest) (*models.Job, error) {
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	job := &models.Job{
		Title:       strings.TrimSpace(req.Title),
		Company:     strings.TrimSpace(req.Company),
		Description: req.Description,
		CategoryID:  req.CategoryID,
		JobType:     helpers.NilIfBlank(req.JobType),
		City:        helpers.NilIfBlank(req.City),
		State:       helpers.NilIfBlank(req.State),
		Country:     helpers.NilIfBlank(req.Country),
		Salary:      req.Salary,
		ApplyURL:    req.ApplyURL,
		IsActive:    active,
		ExpiresAt:   req.ExpiresAt,
		PostedBy:    &adminID,
	}
	if err := s.jobRepo.Create(ctx, job); err != nil {
		return nil, err
	}
	s.logger.Info().Int64("jobID", job.ID).Int64("adminID", adminID).Msg("Job created")
	return job, nil
}

func (s *jobServiceImpl) Update(ctx context.Context, id int64, fields map[string]any) (*models.Job, error) {
	return s.jobRepo.Update(ctx, id, fields)
}

func (s *jobServiceImpl) SetActive(ctx context.Context, id int64, active bool) (*models.Job, error) {
	job, err := s.jobRepo.SetActive(ctx, id, active)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Int64("jobID", id).Bool("active", active).Msg("Job visibility changed")
	return job, nil
}

func (s *jobServiceImpl) Delete(ctx context.Context, id int64) error {
	return s.jobRepo.Delete(ctx, id)
}
