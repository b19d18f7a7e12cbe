package dto

// CreateCircleRequest creates a study circle with its initial members
type CreateCircleRequest struct {
	Name        string  `json:"name" binding:"required,notblank,max=120"`
	Description *string `json:"description"`
	IsPublic    *bool   `json:"isPublic"`
	MemberIDs   []int64 `json:"memberIds"`
}

// SendMessageRequest sends a direct message
type SendMessageRequest struct {
	ReceiverID int64  `json:"receiverId" binding:"required,min=1"`
	Content    string `json:"content" binding:"required,notblank"`
}

// UnreadCountResponse reports unread direct messages
type UnreadCountResponse struct {
	Unread int `json:"unread"`
}
