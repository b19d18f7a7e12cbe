package models

import "time"

// Post is a feed entry authored by a member
type Post struct {
	ID        int64     `json:"id" db:"id"`
	UserID    int64     `json:"user_id" db:"user_id"`
	Content   string    `json:"content" db:"content"`
	ImageURL  *string   `json:"image_url" db:"image_url"`
	VideoURL  *string   `json:"video_url" db:"video_url"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`

	Author       *Author    `json:"author,omitempty"`
	LikeCount    int        `json:"like_count"`
	FollowCount  int        `json:"follow_count"`
	ShareCount   int        `json:"share_count"`
	CommentCount int        `json:"comment_count"`
	Liked        bool       `json:"liked"`
	Followed     bool       `json:"followed"`
	Comments     []*Comment `json:"comments,omitempty"`
}

// Comment belongs to a post or a discussion topic
type Comment struct {
	ID        int64     `json:"id" db:"id"`
	ParentID  int64     `json:"parent_id" db:"parent_id"`
	UserID    int64     `json:"user_id" db:"user_id"`
	Content   string    `json:"content" db:"content"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
	Author    *Author   `json:"author,omitempty"`
}
