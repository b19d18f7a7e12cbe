package services

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"
	"github.com/ypropel/backend/internal/app/models"
	"github.com/ypropel/backend/internal/app/repositories"
	"github.com/ypropel/backend/internal/pkg/apperrors"
)

// MessageService handles direct messages between members
type MessageService interface {
	Send(ctx context.Context, senderID, receiverID int64, content string) (*models.Message, error)
	Conversations(ctx context.Context, userID int64) ([]*models.Conversation, error)
	Thread(ctx context.Context, userID, peerID int64, markRead bool, page, size int) ([]*models.Message, error)
	MarkRead(ctx context.Context, userID, messageID int64) (*models.Message, error)
	UnreadCount(ctx context.Context, userID int64) (int, error)
}

type messageServiceImpl struct {
	msgRepo  repositories.MessageRepository
	userRepo repositories.UserRepository
	logger   zerolog.Logger
}

// NewMessageService creates a new MessageService
func NewMessageService(msgRepo repositories.MessageRepository, userRepo repositories.UserRepository, logger zerolog.Logger) MessageService {
	return &messageServiceImpl{
		msgRepo:  msgRepo,
		userRepo: userRepo,
		logger:   logger,
	}
}

func (s *messageServiceImpl) Send(ctx context.Context, senderID, receiverID int64, content string) (*models.Message, error) {
	if senderID == receiverID {
		return nil, apperrors.NewBadRequestError("You cannot message yourself")
	}
	if _, err := s.userRepo.GetByID(ctx, receiverID); err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) || errors.Is(err, apperrors.ErrResourceNotFound) {
			return nil, apperrors.NewResourceNotFoundError("Receiver not found")
		}
		return nil, err
	}

	msg := &models.Message{
		SenderID:   senderID,
		ReceiverID: receiverID,
		Content:    strings.TrimSpace(content),
	}
	if err := s.msgRepo.Create(ctx, msg); err != nil {
		return nil, err
	}
	s.logger.Debug().Int64("messageID", msg.ID).Int64("senderID", senderID).Msg("Message sent")
	return msg, nil
}

func (s *messageServiceImpl) Conversations(ctx context.Context, userID int64) ([]*models.Conversation, error) {
	return s.msgRepo.Conversations(ctx, userID)
}

// Thread returns the messages exchanged with peer, oldest first. With
// markRead the incoming ones are marked read before they are loaded.
func (s *messageServiceImpl) Thread(ctx context.Context, userID, peerID int64, markRead bool, page, size int) ([]*models.Message, error) {
	if markRead {
		n, err := s.msgRepo.MarkThreadRead(ctx, userID, peerID)
		if err != nil {
			return nil, err
		}
		if n > 0 {
			s.logger.Debug().Int64("userID", userID).Int64("peerID", peerID).Int64("count", n).Msg("Thread marked read")
		}
	}
	return s.msgRepo.Thread(ctx, userID, peerID, pageOf(page, size))
}

func (s *messageServiceImpl) MarkRead(ctx context.Context, userID, messageID int64) (*models.Message, error) {
	msg, err := s.msgRepo.GetByID(ctx, messageID)
	if err != nil {
		return nil, err
	}
	if msg.ReceiverID != userID {
		return nil, apperrors.NewForbiddenError("Only the receiver can mark a message as read")
	}
	return s.msgRepo.MarkRead(ctx, messageID)
}

func (s *messageServiceImpl) UnreadCount(ctx context.Context, userID int64) (int, error) {
	return s.msgRepo.UnreadCount(ctx, userID)
}
