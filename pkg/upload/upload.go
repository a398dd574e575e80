package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	CoverField   = "coverImage"
	GalleryField = "additionalImages"

	MaxCoverFiles   = 1
	MaxGalleryFiles = 5

	DefaultMaxFileBytes = 5 * 1024 * 1024
)

var (
	ErrTooManyFiles    = errors.New("too many files")
	ErrFileTooLarge    = errors.New("file too large")
	ErrUnsupportedType = errors.New("only image files are allowed")
)

var allowedExtensions = map[string]bool{
	".jpeg": true,
	".jpg":  true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

var allowedContentTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// ValidationError reports why an uploaded file was refused.
type ValidationError struct {
	Field    string
	Filename string
	Err      error
}

func (e *ValidationError) Error() string {
	if e.Filename == "" {
		return fmt.Sprintf("%s: %v", e.Field, e.Err)
	}
	return fmt.Sprintf("%s %q: %v", e.Field, e.Filename, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// File is an upload that passed validation and has been read into memory.
type File struct {
	Field       string
	Filename    string
	ContentType string
	Data        []byte
	ext         string
}

type Object struct {
	Name    string
	ModTime time.Time
}

// Backend stores upload objects by name and maps names to client URLs.
type Backend interface {
	Put(ctx context.Context, name string, data []byte) error
	Delete(ctx context.Context, name string) error
	List(ctx context.Context) ([]Object, error)
	URL(name string) string
	// Name maps a URL produced by URL back to its object name.
	Name(url string) (string, bool)
}

type Uploader struct {
	backend      Backend
	maxFileBytes int64
	now          func() time.Time
}

func NewUploader(backend Backend, maxFileBytes int64) *Uploader {
	if maxFileBytes <= 0 {
		maxFileBytes = DefaultMaxFileBytes
	}
	return &Uploader{
		backend:      backend,
		maxFileBytes: maxFileBytes,
		now:          time.Now,
	}
}

// Prepare validates every file of one form field and reads it. Nothing is
// stored, so a rejected request leaves no files behind.
func (u *Uploader) Prepare(field string, maxCount int, headers []*multipart.FileHeader) ([]File, error) {
	if len(headers) > maxCount {
		return nil, &ValidationError{Field: field, Err: ErrTooManyFiles}
	}

	files := make([]File, 0, len(headers))
	for _, fh := range headers {
		f, err := u.prepareOne(field, fh)
		if err != nil {
			return nil, err
		}
		files = append(files, f)
	}
	return files, nil
}

func (u *Uploader) prepareOne(field string, fh *multipart.FileHeader) (File, error) {
	reject := func(err error) (File, error) {
		return File{}, &ValidationError{Field: field, Filename: fh.Filename, Err: err}
	}

	if fh.Size > u.maxFileBytes {
		return reject(ErrFileTooLarge)
	}

	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if !allowedExtensions[ext] {
		return reject(ErrUnsupportedType)
	}

	declared := strings.ToLower(strings.TrimSpace(strings.Split(fh.Header.Get("Content-Type"), ";")[0]))
	if !allowedContentTypes[declared] {
		return reject(ErrUnsupportedType)
	}

	src, err := fh.Open()
	if err != nil {
		return File{}, fmt.Errorf("opening %s: %w", fh.Filename, err)
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, u.maxFileBytes+1))
	if err != nil {
		return File{}, fmt.Errorf("reading %s: %w", fh.Filename, err)
	}
	if int64(len(data)) > u.maxFileBytes {
		return reject(ErrFileTooLarge)
	}

	detected := mimetype.Detect(data)
	if !allowedContentTypes[detected.String()] {
		return reject(ErrUnsupportedType)
	}

	return File{
		Field:       field,
		Filename:    fh.Filename,
		ContentType: detected.String(),
		Data:        data,
		ext:         ext,
	}, nil
}

// Save stores the files and returns their URLs in order. If any write fails
// the files already stored by this call are removed again.
func (u *Uploader) Save(ctx context.Context, files []File) ([]string, error) {
	urls := make([]string, 0, len(files))
	for _, f := range files {
		name := u.objectName(f)
		if err := u.backend.Put(ctx, name, f.Data); err != nil {
			u.Discard(ctx, urls)
			return nil, fmt.Errorf("storing %s: %w", f.Filename, err)
		}
		urls = append(urls, u.backend.URL(name))
	}
	return urls, nil
}

// Discard deletes previously saved files. Failures are logged only.
func (u *Uploader) Discard(ctx context.Context, urls []string) {
	for _, url := range urls {
		name, ok := u.backend.Name(url)
		if !ok {
			continue
		}
		if err := u.backend.Delete(ctx, name); err != nil {
			zap.L().Warn("Failed to discard upload", zap.String("name", name), zap.Error(err))
		}
	}
}

// objectName follows <field>-<unix millis>-<random>.<ext>.
func (u *Uploader) objectName(f File) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	return fmt.Sprintf("%s-%d-%s%s", f.Field, u.now().UnixMilli(), suffix, f.ext)
}
