package filestorage

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fileHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&body, w.Boundary()).ReadForm(32 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })
	return form.File["file"][0]
}

func pngBytes(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		img.Set(x, 0, color.RGBA{R: 255, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Validate(fileHeader(t, "cv.PDF", []byte("%PDF")), KindResume))
	assert.ErrorIs(t, Validate(fileHeader(t, "cv.exe", []byte("MZ")), KindResume), ErrInvalidUpload)
	assert.ErrorIs(t, Validate(nil, KindImage), ErrInvalidUpload)

	big := fileHeader(t, "a.png", []byte("x"))
	big.Size = 6 << 20
	assert.ErrorIs(t, Validate(big, KindImage), ErrInvalidUpload)
}

func TestLocalStorage_UploadAndDelete(t *testing.T) {
	root := t.TempDir()
	store, err := NewLocalStorage(root, "http://localhost:4000/uploads/", 0)
	require.NoError(t, err)

	url, err := store.Upload(context.Background(), fileHeader(t, "notes.pdf", []byte("%PDF-1.4")), "resumes")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "http://localhost:4000/uploads/resumes/"))
	assert.True(t, strings.HasSuffix(url, ".pdf"))

	path := filepath.Join(root, "resumes", filepath.Base(url))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4", string(data))

	require.NoError(t, store.Delete(context.Background(), url))
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	// foreign and traversal URLs are ignored
	assert.NoError(t, store.Delete(context.Background(), "https://elsewhere.example/x.pdf"))
	assert.NoError(t, store.Delete(context.Background(), "http://localhost:4000/uploads/../../etc/passwd"))
}

func TestLocalStorage_DownscalesWideImages(t *testing.T) {
	root := t.TempDir()
	store, err := NewLocalStorage(root, "http://localhost/uploads", 100)
	require.NoError(t, err)

	url, err := store.Upload(context.Background(), fileHeader(t, "wide.png", pngBytes(t, 400, 200)), "images")
	require.NoError(t, err)

	f, err := os.Open(filepath.Join(root, "images", filepath.Base(url)))
	require.NoError(t, err)
	defer f.Close()
	cfg, err := png.DecodeConfig(f)
	require.NoError(t, err)
	assert.Equal(t, 100, cfg.Width)
	assert.Equal(t, 50, cfg.Height)
}

type fakeBucket struct {
	objects map[string][]byte
}

func (b *fakeBucket) PutObject(key string, r io.Reader, _ ...oss.Option) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	b.objects[key] = data
	return nil
}

func (b *fakeBucket) DeleteObject(key string, _ ...oss.Option) error {
	delete(b.objects, key)
	return nil
}

func TestOSSStorage_UploadAndDelete(t *testing.T) {
	bucket := &fakeBucket{objects: map[string][]byte{}}
	store := newOSSStorage(bucket, "https://cdn.example.com/", "ypropel", 0, zerolog.Nop())

	url, err := store.Upload(context.Background(), fileHeader(t, "clip.mp4", []byte("video")), "videos")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(url, "https://cdn.example.com/ypropel/videos/"))

	key := strings.TrimPrefix(url, "https://cdn.example.com/")
	assert.Equal(t, []byte("video"), bucket.objects[key])

	require.NoError(t, store.Delete(context.Background(), url))
	assert.Empty(t, bucket.objects)
}

func TestContentType(t *testing.T) {
	assert.Equal(t, "application/pdf", ContentType("a.PDF"))
	assert.Equal(t, "application/octet-stream", ContentType("a.bin"))
}
