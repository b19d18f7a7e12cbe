package dto

// UpdateFields is a partial update body. Only allow-listed keys are used.
type UpdateFields map[string]any

// ContentRequest is a post, comment or chat line body
type ContentRequest struct {
	Content string `json:"content" form:"content" binding:"required,notblank"`
}
