package models

import "time"

// DiscussionTopic is a member started discussion thread
type DiscussionTopic struct {
	ID        int64     `json:"id" db:"id"`
	UserID    int64     `json:"user_id" db:"user_id"`
	Title     string    `json:"title" db:"title"`
	Content   string    `json:"content" db:"content"`
	Category  *string   `json:"category" db:"category"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`

	Author       *Author `json:"author,omitempty"`
	LikeCount    int     `json:"like_count"`
	FollowCount  int     `json:"follow_count"`
	UpvoteCount  int     `json:"upvote_count"`
	CommentCount int     `json:"comment_count"`
	Liked        bool    `json:"liked"`
	Followed     bool    `json:"followed"`
	Upvoted      bool    `json:"upvoted"`
}
