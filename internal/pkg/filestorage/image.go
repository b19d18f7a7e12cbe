package filestorage

import (
	"bytes"
	"fmt"
	"image"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
)

var resizableFormats = map[string]imaging.Format{
	".jpg":  imaging.JPEG,
	".jpeg": imaging.JPEG,
	".png":  imaging.PNG,
	".gif":  imaging.GIF,
}

var contentTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
	".mp4":  "video/mp4",
	".mov":  "video/quicktime",
	".webm": "video/webm",
	".m4v":  "video/x-m4v",
	".pdf":  "application/pdf",
	".doc":  "application/msword",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
}

// ContentType maps a file name to the MIME type stored with the object
func ContentType(filename string) string {
	if ct, ok := contentTypes[strings.ToLower(filepath.Ext(filename))]; ok {
		return ct
	}
	return "application/octet-stream"
}

// preparePayload opens the upload and, for raster images wider than maxWidth,
// re-encodes a downscaled copy. Other files pass through untouched.
func preparePayload(fileHeader *multipart.FileHeader, maxWidth int) (*payload, func(), error) {
	src, err := fileHeader.Open()
	if err != nil {
		return nil, nil, fmt.Errorf("open upload: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	p := &payload{body: src, size: fileHeader.Size, contentType: ContentType(fileHeader.Filename), ext: ext}
	closeFn := func() { _ = src.Close() }

	format, resizable := resizableFormats[ext]
	if !resizable || maxWidth <= 0 {
		return p, closeFn, nil
	}

	resized, ok, err := downscale(src, format, maxWidth)
	if err != nil {
		closeFn()
		return nil, nil, err
	}
	if ok {
		p.body = bytes.NewReader(resized)
		p.size = int64(len(resized))
		return p, closeFn, nil
	}

	// image was already small enough; rewind and send the original bytes
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		closeFn()
		return nil, nil, fmt.Errorf("rewind upload: %w", err)
	}
	return p, closeFn, nil
}

// downscale returns the re-encoded image and true when it was resized
func downscale(r io.Reader, format imaging.Format, maxWidth int) ([]byte, bool, error) {
	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return nil, false, fmt.Errorf("%w: cannot decode image: %v", ErrInvalidUpload, err)
	}
	if img.Bounds().Dx() <= maxWidth {
		return nil, false, nil
	}

	var resized image.Image = imaging.Resize(img, maxWidth, 0, imaging.Lanczos)
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, resized, format, imaging.JPEGQuality(85)); err != nil {
		return nil, false, fmt.Errorf("encode resized image: %w", err)
	}
	return buf.Bytes(), true, nil
}
