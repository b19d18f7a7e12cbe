package dto

// CreateFreelanceRequest creates a freelance listing
type CreateFreelanceRequest struct {
	Title         string   `json:"title" binding:"required,notblank,max=200"`
	Description   string   `json:"description" binding:"required,notblank"`
	ServiceTypeID *int64   `json:"service_type_id"`
	Price         *string  `json:"price"`
	Location      *string  `json:"location"`
	ContactEmail  *string  `json:"contact_email" binding:"omitempty,email"`
	Gallery       []string `json:"gallery"`
}
