package storage

import (
	"context"
	"io"
	"mime/multipart"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	apperrors "stockroom/internal/errors"
)

func header(filename, contentType string, size int64) *multipart.FileHeader {
	h := textproto.MIMEHeader{}
	h.Set("Content-Type", contentType)
	return &multipart.FileHeader{
		Filename: filename,
		Header:   h,
		Size:     size,
	}
}

func TestValidateUpload(t *testing.T) {
	tests := []struct {
		name    string
		fh      *multipart.FileHeader
		wantErr error
	}{
		{"png accepted", header("photo.png", "image/png", 1024), nil},
		{"jpeg accepted", header("photo.JPG", "image/jpeg", 1024), nil},
		{"gif accepted", header("anim.gif", "image/gif", 1024), nil},
		{"content type with params accepted", header("photo.png", "image/png; charset=binary", 1024), nil},
		{"too large", header("photo.png", "image/png", MaxUploadSize + 1), apperrors.ErrUploadRejected},
		{"bad extension", header("notes.pdf", "image/png", 1024), apperrors.ErrUploadRejected},
		{"bad declared type", header("photo.png", "application/octet-stream", 1024), apperrors.ErrUploadRejected},
		{"no extension", header("photo", "image/png", 1024), apperrors.ErrUploadRejected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateUpload(tt.fh)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLocalStorage_PutGetDelete(t *testing.T) {
	dir := t.TempDir()
	local, err := NewLocalStorage(dir)
	assert.NoError(t, err)

	ctx := context.Background()
	err = local.Put(ctx, "pic.png", strings.NewReader("payload"), 7, "image/png")
	assert.NoError(t, err)

	rc, err := local.Get(ctx, "pic.png")
	assert.NoError(t, err)
	data, err := io.ReadAll(rc)
	rc.Close()
	assert.NoError(t, err)
	assert.Equal(t, "payload", string(data))

	assert.NoError(t, local.Delete(ctx, "pic.png"))
	_, err = os.Stat(filepath.Join(dir, "pic.png"))
	assert.True(t, os.IsNotExist(err))
}

func TestLocalStorage_RejectsTraversal(t *testing.T) {
	local, err := NewLocalStorage(t.TempDir())
	assert.NoError(t, err)

	ctx := context.Background()
	err = local.Put(ctx, "../escape.png", strings.NewReader("x"), 1, "image/png")
	assert.Error(t, err)

	_, err = local.Get(ctx, "/etc/passwd")
	assert.Error(t, err)
}
