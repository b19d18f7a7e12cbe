package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/ypropel/backend/internal/app/models"
	"github.com/ypropel/backend/internal/db"
	"github.com/ypropel/backend/internal/pkg/apperrors"
	"github.com/ypropel/backend/internal/pkg/dberrors"
)

var messageColumns = []string{"id", "sender_id", "receiver_id", "content", "created_at", "read_at"}

type messageRepository struct {
	baseRepository
}

// NewMessageRepository creates a new MessageRepository
func NewMessageRepository(database *db.PostgresDB) MessageRepository {
	return &messageRepository{baseRepository: newBase(database)}
}

func scanMessage(row pgx.Row) (*models.Message, error) {
	m := &models.Message{}
	if err := row.Scan(&m.ID, &m.SenderID, &m.ReceiverID, &m.Content, &m.CreatedAt, &m.ReadAt); err != nil {
		return nil, err
	}
	return m, nil
}

func (r *messageRepository) Create(ctx context.Context, msg *models.Message) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO messages (sender_id, receiver_id, content)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`,
		msg.SenderID, msg.ReceiverID, msg.Content,
	).Scan(&msg.ID, &msg.CreatedAt)
	if err != nil {
		if dberrors.IsForeignKeyError(err) {
			return apperrors.NewResourceNotFoundError("Receiver not found")
		}
		return fmt.Errorf("error creating message: %w", err)
	}
	return nil
}

func (r *messageRepository) GetByID(ctx context.Context, id int64) (*models.Message, error) {
	query, args, err := r.sb.Select(messageColumns...).From("messages").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get message query: %w", err)
	}
	msg, err := scanMessage(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, notFound(err, "Message not found")
	}
	return msg, nil
}

// Conversations returns one entry per peer with the latest message and the
// number of unread messages from that peer, most recent first.
func (r *messageRepository) Conversations(ctx context.Context, userID int64) ([]*models.Conversation, error) {
	rows, err := r.db.Query(ctx, `
		WITH thread AS (
			SELECT m.*, CASE WHEN m.sender_id = $1 THEN m.receiver_id ELSE m.sender_id END AS peer_id
			FROM messages m
			WHERE m.sender_id = $1 OR m.receiver_id = $1
		), latest AS (
			SELECT DISTINCT ON (peer_id) peer_id, id, sender_id, receiver_id, content, created_at, read_at
			FROM thread
			ORDER BY peer_id, created_at DESC, id DESC
		)
		SELECT l.peer_id, u.name, u.photo_url,
			l.id, l.sender_id, l.receiver_id, l.content, l.created_at, l.read_at,
			(SELECT COUNT(*) FROM messages x
				WHERE x.sender_id = l.peer_id AND x.receiver_id = $1 AND x.read_at IS NULL) AS unread
		FROM latest l
		JOIN users u ON u.id = l.peer_id
		ORDER BY l.created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("error querying conversations: %w", err)
	}
	defer rows.Close()

	conversations := []*models.Conversation{}
	for rows.Next() {
		c := &models.Conversation{LastMessage: &models.Message{}}
		m := c.LastMessage
		if err := rows.Scan(&c.Peer.ID, &c.Peer.Name, &c.Peer.PhotoURL,
			&m.ID, &m.SenderID, &m.ReceiverID, &m.Content, &m.CreatedAt, &m.ReadAt,
			&c.UnreadCount); err != nil {
			return nil, fmt.Errorf("error scanning conversation: %w", err)
		}
		conversations = append(conversations, c)
	}
	return conversations, rows.Err()
}

func (r *messageRepository) Thread(ctx context.Context, userID, peerID int64, page Page) ([]*models.Message, error) {
	query, args, err := r.sb.Select(messageColumns...).From("messages").
		Where(squirrel.Or{
			squirrel.Eq{"sender_id": userID, "receiver_id": peerID},
			squirrel.Eq{"sender_id": peerID, "receiver_id": userID},
		}).
		OrderBy("created_at ASC", "id ASC").
		Offset(page.Offset).Limit(page.Limit).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build thread query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying thread: %w", err)
	}
	defer rows.Close()

	messages := []*models.Message{}
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning message: %w", err)
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

// MarkThreadRead marks every unread message from peerID to userID as read
func (r *messageRepository) MarkThreadRead(ctx context.Context, userID, peerID int64) (int64, error) {
	tag, err := r.db.Exec(ctx, `
		UPDATE messages SET read_at = NOW()
		WHERE sender_id = $1 AND receiver_id = $2 AND read_at IS NULL`,
		peerID, userID)
	if err != nil {
		return 0, fmt.Errorf("error marking thread read: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *messageRepository) MarkRead(ctx context.Context, id int64) (*models.Message, error) {
	msg, err := scanMessage(r.db.QueryRow(ctx, `
		UPDATE messages SET read_at = COALESCE(read_at, NOW())
		WHERE id = $1
		RETURNING `+joinColumns(messageColumns), id))
	if err != nil {
		return nil, notFound(err, "Message not found")
	}
	return msg, nil
}

func (r *messageRepository) UnreadCount(ctx context.Context, userID int64) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM messages WHERE receiver_id = $1 AND read_at IS NULL`, userID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("error counting unread messages: %w", err)
	}
	return n, nil
}
