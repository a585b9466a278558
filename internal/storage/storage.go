package storage

import (
	"context"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	apperrors "stockroom/internal/errors"
)

// MaxUploadSize is the upload limit for a single image file.
const MaxUploadSize = 5 * 1024 * 1024

// ObjectStorage defines common object operations across backends.
type ObjectStorage interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}

var allowedImageExts = map[string]string{
	".jpeg": "image/jpeg",
	".jpg":  "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
}

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/gif":  true,
}

// ImageStore stores product images behind an ObjectStorage backend.
type ImageStore struct {
	backend ObjectStorage
}

// NewImageStore constructs an ImageStore for the provided backend.
func NewImageStore(backend ObjectStorage) *ImageStore {
	return &ImageStore{backend: backend}
}

// ValidateUpload checks the multer-equivalent constraints: at most 5MB, and
// both the file extension and the declared media type must be an allowed
// image format. Violations surface as a generic upload error.
func ValidateUpload(fh *multipart.FileHeader) error {
	if fh.Size > MaxUploadSize {
		return apperrors.ErrUploadRejected
	}

	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if _, ok := allowedImageExts[ext]; !ok {
		return apperrors.ErrUploadRejected
	}

	declared := fh.Header.Get("Content-Type")
	if mediaType, _, found := strings.Cut(declared, ";"); found {
		declared = mediaType
	}
	if !allowedImageTypes[strings.TrimSpace(strings.ToLower(declared))] {
		return apperrors.ErrUploadRejected
	}

	return nil
}

// Save validates and stores an uploaded image, returning the generated
// object name (unique suffix plus the original extension).
func (s *ImageStore) Save(ctx context.Context, fh *multipart.FileHeader) (string, error) {
	if err := ValidateUpload(fh); err != nil {
		return "", err
	}

	ext := strings.ToLower(filepath.Ext(fh.Filename))
	name := uuid.New().String() + ext

	src, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	if err := s.backend.Put(ctx, name, src, fh.Size, allowedImageExts[ext]); err != nil {
		return "", err
	}
	return name, nil
}

// Open returns a reader for a stored image.
func (s *ImageStore) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	return s.backend.Get(ctx, name)
}

// Remove deletes a stored image.
func (s *ImageStore) Remove(ctx context.Context, name string) error {
	return s.backend.Delete(ctx, name)
}
