package dto

// UserFilter narrows the member directory and the admin user list
type UserFilter struct {
	Search string
	Page   int
	Size   int
}

// SetAdminRequest grants or revokes admin rights
type SetAdminRequest struct {
	IsAdmin *bool `json:"isAdmin" binding:"required"`
}
