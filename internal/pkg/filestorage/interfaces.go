package filestorage

import (
	"context"
	"errors"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"
)

// MediaStore forwards uploaded files to wherever public media lives and
// returns the URL clients should use.
type MediaStore interface {
	// Upload stores the file under folder and returns its public URL
	Upload(ctx context.Context, fileHeader *multipart.FileHeader, folder string) (string, error)
	// Delete removes a previously uploaded file. Unknown URLs are ignored.
	Delete(ctx context.Context, fileURL string) error
}

// Kind groups the upload rules per type of media
type Kind string

const (
	KindImage  Kind = "image"
	KindVideo  Kind = "video"
	KindResume Kind = "resume"
)

// ErrInvalidUpload is returned for files that break the rules of their kind
var ErrInvalidUpload = errors.New("invalid upload")

type rule struct {
	maxBytes   int64
	extensions []string
}

var rules = map[Kind]rule{
	KindImage:  {maxBytes: 5 << 20, extensions: []string{".jpg", ".jpeg", ".png", ".gif", ".webp"}},
	KindVideo:  {maxBytes: 100 << 20, extensions: []string{".mp4", ".mov", ".webm", ".m4v"}},
	KindResume: {maxBytes: 10 << 20, extensions: []string{".pdf", ".doc", ".docx"}},
}

// Validate checks size and extension of fileHeader against the rules of kind
func Validate(fileHeader *multipart.FileHeader, kind Kind) error {
	if fileHeader == nil {
		return errors.Join(ErrInvalidUpload, errors.New("file is required"))
	}
	r, ok := rules[kind]
	if !ok {
		return errors.Join(ErrInvalidUpload, errors.New("unknown upload kind"))
	}
	if fileHeader.Size > r.maxBytes {
		return errors.Join(ErrInvalidUpload, errors.New("file is too large"))
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	for _, allowed := range r.extensions {
		if ext == allowed {
			return nil
		}
	}
	return errors.Join(ErrInvalidUpload, errors.New("file type "+ext+" is not allowed"))
}

// objectName derives a collision free object name keeping the extension
func objectName(original string, id string) string {
	return id + strings.ToLower(filepath.Ext(original))
}

// payload is what gets written to storage after optional image processing
type payload struct {
	body        io.Reader
	size        int64
	contentType string
	ext         string
}
