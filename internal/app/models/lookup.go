package models

// LookupItem is a row of a reference table
type LookupItem struct {
	ID   int64  `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}

// ContentRow is a curated content row. Columns vary per content kind.
type ContentRow map[string]any

// Stats is the admin dashboard summary
type Stats map[string]int64
