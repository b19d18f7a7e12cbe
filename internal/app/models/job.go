package models

import "time"

// Job is an admin or import authored posting
type Job struct {
	ID          int64      `json:"id" db:"id"`
	Title       string     `json:"title" db:"title"`
	Company     string     `json:"company" db:"company"`
	Description *string    `json:"description" db:"description"`
	CategoryID  *int64     `json:"category_id" db:"category_id"`
	JobType     *string    `json:"job_type" db:"job_type"`
	City        *string    `json:"city" db:"city"`
	State       *string    `json:"state" db:"state"`
	Country     *string    `json:"country" db:"country"`
	Salary      *string    `json:"salary" db:"salary"`
	ApplyURL    *string    `json:"apply_url" db:"apply_url"`
	IsActive    bool       `json:"is_active" db:"is_active"`
	ExpiresAt   *time.Time `json:"expires_at" db:"expires_at"`
	PostedBy    *int64     `json:"posted_by" db:"posted_by"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
}

// JobFilter narrows the public job board
type JobFilter struct {
	CategoryID *int64
	JobType    string
	City       string
	State      string
	Country    string
	Search     string
	ActiveOnly bool
	Offset     uint64
	Limit      int
}
