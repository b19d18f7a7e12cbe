package dto

// MessageResponse acknowledges an operation with a human readable message
type MessageResponse struct {
	Message string `json:"message" example:"Deleted successfully"`
}

// PaginationInfo contains pagination details
type PaginationInfo struct {
	CurrentPage int   `json:"current_page" example:"1"`
	TotalPages  int   `json:"total_pages" example:"5"`
	PageSize    int   `json:"page_size" example:"10"`
	TotalItems  int64 `json:"total_items" example:"48"`
}

// PagedResponse wraps a page of items with its pagination info
type PagedResponse[T any] struct {
	Items      []T            `json:"items"`
	Pagination PaginationInfo `json:"pagination"`
}

// LikeResponse reports the state after a like toggle
type LikeResponse struct {
	Liked bool `json:"liked"`
}

// FollowResponse reports the state after a follow toggle
type FollowResponse struct {
	Followed bool `json:"followed"`
}

// UpvoteResponse reports the state after an upvote toggle
type UpvoteResponse struct {
	Upvoted bool `json:"upvoted"`
}

// JoinResponse reports membership after a join toggle
type JoinResponse struct {
	Joined bool `json:"joined"`
}

// ShareResponse reports a recorded share
type ShareResponse struct {
	Shared     bool `json:"shared"`
	ShareCount int  `json:"shareCount"`
}
