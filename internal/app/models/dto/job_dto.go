package dto

import "time"

// CreateJobRequest creates a job posting
type CreateJobRequest struct {
	Title       string     `json:"title" binding:"required,notblank"`
	Company     string     `json:"company" binding:"required,notblank"`
	Description *string    `json:"description"`
	CategoryID  *int64     `json:"category_id"`
	JobType     *string    `json:"job_type"`
	City        *string    `json:"city"`
	State       *string    `json:"state"`
	Country     *string    `json:"country"`
	Salary      *string    `json:"salary"`
	ApplyURL    *string    `json:"apply_url" binding:"omitempty,url"`
	IsActive    *bool      `json:"is_active"`
	ExpiresAt   *time.Time `json:"expires_at"`
}

// SetActiveRequest toggles a job's visibility
type SetActiveRequest struct {
	IsActive *bool `json:"isActive" binding:"required"`
}

// CreateLookupRequest adds a reference table row
type CreateLookupRequest struct {
	Name string `json:"name" binding:"required,notblank,max=120"`
}

// CreateArticleRequest creates an article
type CreateArticleRequest struct {
	Title       string     `json:"title" binding:"required,notblank"`
	Subtitle    *string    `json:"subtitle"`
	Content     string     `json:"content" binding:"required,notblank"`
	CoverImage  *string    `json:"cover_image"`
	PublishedAt *time.Time `json:"published_at"`
}

// CreateVideoRequest carries the text fields of a video upload
type CreateVideoRequest struct {
	Title       string  `form:"title" json:"title" binding:"required,notblank"`
	Description *string `form:"description" json:"description"`
}
