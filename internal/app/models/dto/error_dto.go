package dto

// ErrorResponse is the only error shape clients see
type ErrorResponse struct {
	Error string `json:"error" example:"Resource not found"`
}

// NewErrorResponse creates an ErrorResponse
func NewErrorResponse(message string) ErrorResponse {
	return ErrorResponse{Error: message}
}
