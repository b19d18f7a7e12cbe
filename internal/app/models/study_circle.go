package models

import "time"

// StudyCircle is a member created group with its own chat
type StudyCircle struct {
	ID          int64     `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description *string   `json:"description" db:"description"`
	IsPublic    bool      `json:"is_public" db:"is_public"`
	CreatedBy   int64     `json:"created_by" db:"created_by"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`

	MemberCount int       `json:"member_count"`
	IsMember    bool      `json:"is_member"`
	Members     []*Author `json:"members,omitempty"`
}

// CircleMessage is a chat line posted inside a study circle
type CircleMessage struct {
	ID        int64     `json:"id" db:"id"`
	CircleID  int64     `json:"circle_id" db:"circle_id"`
	UserID    int64     `json:"user_id" db:"user_id"`
	Content   string    `json:"content" db:"content"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	Author    *Author   `json:"author,omitempty"`
}
