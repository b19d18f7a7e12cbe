package models

import "time"

// FreelanceService is a member's service listing. Gallery is persisted as a
// JSON array of image URLs.
type FreelanceService struct {
	ID            int64     `json:"id" db:"id"`
	UserID        int64     `json:"user_id" db:"user_id"`
	Title         string    `json:"title" db:"title"`
	Description   string    `json:"description" db:"description"`
	ServiceTypeID *int64    `json:"service_type_id" db:"service_type_id"`
	Price         *string   `json:"price" db:"price"`
	Location      *string   `json:"location" db:"location"`
	ContactEmail  *string   `json:"contact_email" db:"contact_email"`
	Gallery       []string  `json:"gallery" db:"gallery"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
	Author        *Author   `json:"author,omitempty"`
}

// Resume is an uploaded CV file
type Resume struct {
	ID        int64     `json:"id" db:"id"`
	UserID    int64     `json:"user_id" db:"user_id"`
	FileURL   string    `json:"file_url" db:"file_url"`
	FileName  string    `json:"file_name" db:"file_name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
