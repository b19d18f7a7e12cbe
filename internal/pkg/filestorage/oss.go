package filestorage

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"path"
	"strings"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// OSSConfig holds the object storage bucket settings
type OSSConfig struct {
	Endpoint      string
	AccessKey     string
	SecretKey     string
	Bucket        string
	PublicBaseURL string
	Prefix        string
	MaxImageWidth int
}

// objectBucket is the part of *oss.Bucket the store uses
type objectBucket interface {
	PutObject(objectKey string, reader io.Reader, options ...oss.Option) error
	DeleteObject(objectKey string, options ...oss.Option) error
}

// OSSStorage uploads media to an Alibaba Cloud OSS bucket
type OSSStorage struct {
	bucket   objectBucket
	baseURL  string
	prefix   string
	maxWidth int
	logger   zerolog.Logger
}

// NewOSSStorage connects to the bucket described by cfg
func NewOSSStorage(cfg OSSConfig, logger zerolog.Logger) (*OSSStorage, error) {
	client, err := oss.New(cfg.Endpoint, cfg.AccessKey, cfg.SecretKey)
	if err != nil {
		return nil, fmt.Errorf("oss.New: %w", err)
	}
	bucket, err := client.Bucket(cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("client.Bucket: %w", err)
	}

	baseURL := strings.TrimRight(cfg.PublicBaseURL, "/")
	if baseURL == "" {
		host := strings.TrimPrefix(strings.TrimPrefix(cfg.Endpoint, "https://"), "http://")
		baseURL = fmt.Sprintf("https://%s.%s", cfg.Bucket, host)
	}

	return newOSSStorage(bucket, baseURL, cfg.Prefix, cfg.MaxImageWidth, logger), nil
}

func newOSSStorage(bucket objectBucket, baseURL, prefix string, maxWidth int, logger zerolog.Logger) *OSSStorage {
	return &OSSStorage{
		bucket:   bucket,
		baseURL:  strings.TrimRight(baseURL, "/"),
		prefix:   strings.Trim(prefix, "/"),
		maxWidth: maxWidth,
		logger:   logger,
	}
}

// Upload implements MediaStore
func (s *OSSStorage) Upload(ctx context.Context, fileHeader *multipart.FileHeader, folder string) (string, error) {
	if fileHeader == nil {
		return "", fmt.Errorf("%w: no file", ErrInvalidUpload)
	}

	p, closeFn, err := preparePayload(fileHeader, s.maxWidth)
	if err != nil {
		return "", err
	}
	defer closeFn()

	key := s.objectKey(folder, objectName(fileHeader.Filename, uuid.New().String()))
	opts := []oss.Option{
		oss.WithContext(ctx),
		oss.ContentType(p.contentType),
		oss.ContentDisposition("inline"),
		oss.CacheControl("public, max-age=31536000, immutable"),
	}
	if err := s.bucket.PutObject(key, p.body, opts...); err != nil {
		return "", fmt.Errorf("put object %s: %w", key, err)
	}

	s.logger.Info().Str("key", key).Int64("size", p.size).Msg("Uploaded object")
	return s.baseURL + "/" + key, nil
}

// Delete implements MediaStore
func (s *OSSStorage) Delete(ctx context.Context, fileURL string) error {
	if !strings.HasPrefix(fileURL, s.baseURL+"/") {
		return nil
	}
	key := strings.TrimPrefix(fileURL, s.baseURL+"/")
	if err := s.bucket.DeleteObject(key, oss.WithContext(ctx)); err != nil {
		return fmt.Errorf("delete object %s: %w", key, err)
	}
	return nil
}

func (s *OSSStorage) objectKey(folder, name string) string {
	return strings.TrimLeft(path.Join(s.prefix, strings.Trim(folder, "/"), name), "/")
}
