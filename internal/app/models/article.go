package models

import "time"

// Article is admin curated long form content members can like
type Article struct {
	ID          int64      `json:"id" db:"id"`
	Title       string     `json:"title" db:"title"`
	Subtitle    *string    `json:"subtitle" db:"subtitle"`
	Content     string     `json:"content" db:"content"`
	CoverImage  *string    `json:"cover_image" db:"cover_image"`
	AuthorID    *int64     `json:"author_id" db:"author_id"`
	PublishedAt *time.Time `json:"published_at" db:"published_at"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`

	LikeCount int  `json:"like_count"`
	Liked     bool `json:"liked"`
}

// Video is a member uploaded clip. ShareCount is a stored counter.
type Video struct {
	ID          int64     `json:"id" db:"id"`
	UserID      int64     `json:"user_id" db:"user_id"`
	Title       string    `json:"title" db:"title"`
	Description *string   `json:"description" db:"description"`
	VideoURL    string    `json:"video_url" db:"video_url"`
	ShareCount  int       `json:"share_count" db:"share_count"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`

	Author    *Author `json:"author,omitempty"`
	LikeCount int     `json:"like_count"`
	Liked     bool    `json:"liked"`
}
