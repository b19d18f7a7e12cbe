package models

import "time"

// Message is a direct message between two members. ReadAt is the only field
// that changes after creation.
type Message struct {
	ID         int64      `json:"id" db:"id"`
	SenderID   int64      `json:"sender_id" db:"sender_id"`
	ReceiverID int64      `json:"receiver_id" db:"receiver_id"`
	Content    string     `json:"content" db:"content"`
	CreatedAt  time.Time  `json:"created_at" db:"created_at"`
	ReadAt     *time.Time `json:"read_at" db:"read_at"`
}

// Conversation summarises the thread with one peer
type Conversation struct {
	Peer        Author   `json:"peer"`
	LastMessage *Message `json:"last_message"`
	UnreadCount int      `json:"unread_count"`
}
