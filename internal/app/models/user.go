package models

import (
	"time"
)

// User defines the user model based on the 'users' table
type User struct {
	ID                int64      `json:"id" db:"id" example:"1"`
	Name              string     `json:"name" db:"name" example:"Ada Lovelace"`
	Email             string     `json:"email" db:"email" example:"ada@example.com"`
	PasswordHash      string     `json:"-" db:"password_hash"`
	GoogleID          *string    `json:"-" db:"google_id"`
	IsAdmin           bool       `json:"is_admin" db:"is_admin"`
	Title             *string    `json:"title" db:"title"`
	University        *string    `json:"university" db:"university"`
	MajorID           *int64     `json:"major_id" db:"major_id"`
	ExperienceLevelID *int64     `json:"experience_level_id" db:"experience_level_id"`
	GraduationYear    *int32     `json:"graduation_year" db:"graduation_year"`
	City              *string    `json:"city" db:"city"`
	State             *string    `json:"state" db:"state"`
	Country           *string    `json:"country" db:"country"`
	Bio               *string    `json:"bio" db:"bio"`
	LinkedInURL       *string    `json:"linkedin_url" db:"linkedin_url"`
	Phone             *string    `json:"phone" db:"phone"`
	IsStudent         bool       `json:"is_student" db:"is_student"`
	PhotoURL          *string    `json:"photo_url" db:"photo_url"`
	ResumeURL         *string    `json:"resume_url" db:"resume_url"`
	EmailUnsubscribed bool       `json:"email_unsubscribed" db:"email_unsubscribed"`
	PasswordChangedAt *time.Time `json:"-" db:"password_changed_at"`
	CreatedAt         time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at" db:"updated_at"`
}

// PublicUser is the profile shown to other members
type PublicUser struct {
	ID         int64   `json:"id"`
	Name       string  `json:"name"`
	Title      *string `json:"title"`
	University *string `json:"university"`
	City       *string `json:"city"`
	State      *string `json:"state"`
	Country    *string `json:"country"`
	Bio        *string `json:"bio"`
	PhotoURL   *string `json:"photo_url"`
	IsStudent  bool    `json:"is_student"`
}

// Public strips private fields from the profile
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:         u.ID,
		Name:       u.Name,
		Title:      u.Title,
		University: u.University,
		City:       u.City,
		State:      u.State,
		Country:    u.Country,
		Bio:        u.Bio,
		PhotoURL:   u.PhotoURL,
		IsStudent:  u.IsStudent,
	}
}

// Author is the compact user reference embedded in feeds
type Author struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	PhotoURL *string `json:"photo_url"`
}
