package dto

// CreatePostRequest creates a feed post. Media may instead arrive as
// multipart files named image and video.
type CreatePostRequest struct {
	Content  string  `json:"content" form:"content" binding:"required,notblank"`
	ImageURL *string `json:"image_url" form:"image_url"`
	VideoURL *string `json:"video_url" form:"video_url"`
}

// CreateTopicRequest starts a discussion topic
type CreateTopicRequest struct {
	Title    string  `json:"title" binding:"required,notblank,max=200"`
	Content  string  `json:"content" binding:"required,notblank"`
	Category *string `json:"category"`
}
