package filestorage

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/ypropel/backend/internal/pkg/logger"
)

// LocalStorage keeps uploads on the server's disk. The directory is served
// by the router under /uploads.
type LocalStorage struct {
	basePath string
	baseURL  string
	maxWidth int
}

// NewLocalStorage creates the storage root if needed. baseURL is the public
// prefix that maps to basePath, e.g. http://localhost:4000/uploads.
func NewLocalStorage(basePath, baseURL string, maxImageWidth int) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, os.ModePerm); err != nil {
		logger.Error().Err(err).Str("path", basePath).Msg("Failed to create storage directory")
		return nil, fmt.Errorf("failed to create storage directory %s: %w", basePath, err)
	}
	logger.Info().Str("path", basePath).Msg("Local storage directory ensured")

	return &LocalStorage{
		basePath: basePath,
		baseURL:  strings.TrimRight(baseURL, "/"),
		maxWidth: maxImageWidth,
	}, nil
}

// Upload implements MediaStore
func (ls *LocalStorage) Upload(_ context.Context, fileHeader *multipart.FileHeader, folder string) (string, error) {
	if fileHeader == nil {
		return "", fmt.Errorf("%w: no file", ErrInvalidUpload)
	}

	p, closeFn, err := preparePayload(fileHeader, ls.maxWidth)
	if err != nil {
		return "", err
	}
	defer closeFn()

	folder = strings.Trim(filepath.ToSlash(filepath.Clean("/"+folder)), "/")
	dir := filepath.Join(ls.basePath, filepath.FromSlash(folder))
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return "", fmt.Errorf("failed to create subdirectory: %w", err)
	}

	name := objectName(fileHeader.Filename, uuid.New().String())
	dstPath := filepath.Join(dir, name)

	dst, err := os.Create(dstPath)
	if err != nil {
		return "", fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dst.Close()

	if _, err = io.Copy(dst, p.body); err != nil {
		_ = os.Remove(dstPath)
		return "", fmt.Errorf("failed to save file content: %w", err)
	}

	key := name
	if folder != "" {
		key = folder + "/" + name
	}
	url := ls.baseURL + "/" + key
	logger.Info().Str("filename", fileHeader.Filename).Str("url", url).Msg("File saved successfully")
	return url, nil
}

// Delete implements MediaStore. Files outside the storage root are never touched.
func (ls *LocalStorage) Delete(_ context.Context, fileURL string) error {
	physicalPath, ok := ls.resolve(fileURL)
	if !ok {
		return nil
	}

	if err := os.Remove(physicalPath); err != nil {
		if os.IsNotExist(err) {
			logger.Warn().Str("path", physicalPath).Msg("File to delete does not exist")
			return nil
		}
		return fmt.Errorf("failed to delete file: %w", err)
	}

	logger.Info().Str("path", physicalPath).Msg("File deleted successfully")
	return nil
}

// resolve maps a public URL back to its path under basePath
func (ls *LocalStorage) resolve(fileURL string) (string, bool) {
	if !strings.HasPrefix(fileURL, ls.baseURL+"/") {
		return "", false
	}
	rel := filepath.FromSlash(strings.TrimPrefix(fileURL, ls.baseURL+"/"))
	full := filepath.Join(ls.basePath, rel)

	root, err := filepath.Abs(ls.basePath)
	if err != nil {
		return "", false
	}
	abs, err := filepath.Abs(full)
	if err != nil || !strings.HasPrefix(abs, root+string(os.PathSeparator)) {
		return "", false
	}
	return full, true
}
