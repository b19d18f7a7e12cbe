package services

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	appauth "github.com/ypropel/backend/internal/app/auth"
	"github.com/ypropel/backend/internal/app/models"
	"github.com/ypropel/backend/internal/app/models/dto"
	"github.com/ypropel/backend/internal/app/repositories"
	"github.com/ypropel/backend/internal/pkg/apperrors"
	"github.com/ypropel/backend/internal/pkg/auth"
	"github.com/ypropel/backend/internal/pkg/helpers"
	"github.com/ypropel/backend/internal/pkg/websocket"
)

// Circle access messages
const (
	MsgPrivateCircle      = "This study circle is private"
	MsgMembersOnly        = "Only members can access the circle chat"
	MsgCreatorCannotLeave = "The creator cannot leave the study circle"
)

// StudyCircleService handles study circles, membership and circle chat
type StudyCircleService interface {
	List(ctx context.Context, viewerID int64) ([]*models.StudyCircle, error)
	Get(ctx context.Context, id, viewerID int64) (*models.StudyCircle, error)
	Create(ctx context.Context, userID int64, req *dto.CreateCircleRequest) (*models.StudyCircle, error)
	Update(ctx context.Context, identity auth.Identity, id int64, fields map[string]any) (*models.StudyCircle, error)
	Delete(ctx context.Context, identity auth.Identity, id int64) error
	ToggleJoin(ctx context.Context, userID, circleID int64) (bool, error)
	IsMember(ctx context.Context, circleID, userID int64) (bool, error)

	ListMessages(ctx context.Context, userID, circleID int64, page, size int) ([]*models.CircleMessage, error)
	PostMessage(ctx context.Context, userID, circleID int64, content string) (*models.CircleMessage, error)
}

type studyCircleServiceImpl struct {
	circleRepo repositories.StudyCircleRepository
	toggleRepo repositories.ToggleRepository
	hub        Broadcaster
	authz      *appauth.AuthorizationService
	logger     zerolog.Logger
}

// NewStudyCircleService creates a new StudyCircleService
func NewStudyCircleService(
	circleRepo repositories.StudyCircleRepository,
	toggleRepo repositories.ToggleRepository,
	hub Broadcaster,
	authz *appauth.AuthorizationService,
	logger zerolog.Logger,
) StudyCircleService {
	return &studyCircleServiceImpl{
		circleRepo: circleRepo,
		toggleRepo: toggleRepo,
		hub:        hub,
		authz:      authz,
		logger:     logger,
	}
}

func (s *studyCircleServiceImpl) List(ctx context.Context, viewerID int64) ([]*models.StudyCircle, error) {
	return s.circleRepo.List(ctx, viewerID)
}

// Get returns the circle with its members. Private circles are only visible
// to their members.
func (s *studyCircleServiceImpl) Get(ctx context.Context, id, viewerID int64) (*models.StudyCircle, error) {
	circle, err := s.circleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	member, err := s.circleRepo.IsMember(ctx, id, viewerID)
	if err != nil {
		return nil, err
	}
	if !circle.IsPublic && !member {
		return nil, apperrors.NewForbiddenError(MsgPrivateCircle)
	}

	members, err := s.circleRepo.Members(ctx, id)
	if err != nil {
		return nil, err
	}
	circle.Members = members
	circle.IsMember = member
	return circle, nil
}

func (s *studyCircleServiceImpl) Create(ctx context.Context, userID int64, req *dto.CreateCircleRequest) (*models.StudyCircle, error) {
	isPublic := true
	if req.IsPublic != nil {
		isPublic = *req.IsPublic
	}
	circle := &models.StudyCircle{
		Name:        strings.TrimSpace(req.Name),
		Description: helpers.NilIfBlank(req.Description),
		IsPublic:    isPublic,
		CreatedBy:   userID,
	}
	if err := s.circleRepo.Create(ctx, circle, req.MemberIDs); err != nil {
		return nil, err
	}

	s.logger.Info().
		Int64("circleID", circle.ID).
		Int64("userID", userID).
		Int("members", circle.MemberCount).
		Msg("Study circle created")
	return circle, nil
}

func (s *studyCircleServiceImpl) Update(ctx context.Context, identity auth.Identity, id int64, fields map[string]any) (*models.StudyCircle, error) {
	circle, err := s.circleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authz.ValidateOwnership(identity, appauth.ResourceCircle, circle.CreatedBy); err != nil {
		return nil, err
	}
	return s.circleRepo.Update(ctx, id, fields)
}

func (s *studyCircleServiceImpl) Delete(ctx context.Context, identity auth.Identity, id int64) error {
	circle, err := s.circleRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.authz.ValidateOwnership(identity, appauth.ResourceCircle, circle.CreatedBy); err != nil {
		return err
	}
	if err := s.circleRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Int64("circleID", id).Msg("Study circle deleted")
	return nil
}

// ToggleJoin joins or leaves a circle. Non-members cannot join private circles.
func (s *studyCircleServiceImpl) ToggleJoin(ctx context.Context, userID, circleID int64) (bool, error) {
	circle, err := s.circleRepo.GetByID(ctx, circleID)
	if err != nil {
		return false, err
	}
	member, err := s.circleRepo.IsMember(ctx, circleID, userID)
	if err != nil {
		return false, err
	}
	if !member && !circle.IsPublic {
		return false, apperrors.NewForbiddenError(MsgPrivateCircle)
	}
	if member && circle.CreatedBy == userID {
		return false, apperrors.NewBadRequestError(MsgCreatorCannotLeave)
	}
	return s.toggleRepo.Toggle(ctx, repositories.TableCircleMembers, userID, circleID)
}

func (s *studyCircleServiceImpl) IsMember(ctx context.Context, circleID, userID int64) (bool, error) {
	return s.circleRepo.IsMember(ctx, circleID, userID)
}

func (s *studyCircleServiceImpl) requireMember(ctx context.Context, userID, circleID int64) error {
	member, err := s.circleRepo.IsMember(ctx, circleID, userID)
	if err != nil {
		return err
	}
	if !member {
		return apperrors.NewForbiddenError(MsgMembersOnly)
	}
	return nil
}

func (s *studyCircleServiceImpl) ListMessages(ctx context.Context, userID, circleID int64, page, size int) ([]*models.CircleMessage, error) {
	if err := s.requireMember(ctx, userID, circleID); err != nil {
		return nil, err
	}
	return s.circleRepo.ListMessages(ctx, circleID, pageOf(page, size))
}

// PostMessage stores the line and pushes it to connected members
func (s *studyCircleServiceImpl) PostMessage(ctx context.Context, userID, circleID int64, content string) (*models.CircleMessage, error) {
	if err := s.requireMember(ctx, userID, circleID); err != nil {
		return nil, err
	}
	msg, err := s.circleRepo.CreateMessage(ctx, circleID, userID, strings.TrimSpace(content))
	if err != nil {
		return nil, err
	}
	if s.hub != nil {
		s.hub.Broadcast(websocket.FromCircleMessage(msg))
	}
	return msg, nil
}
