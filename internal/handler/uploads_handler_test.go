package handler

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"stockroom/internal/storage"
)

// lazyBackend mimics an object store whose Get succeeds for any key and only
// reports a missing object on the first read.
type lazyBackend struct {
	objects map[string][]byte
}

func (b *lazyBackend) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	b.objects[key] = data
	return nil
}

func (b *lazyBackend) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	data, ok := b.objects[key]
	if !ok {
		return io.NopCloser(&failingReader{}), nil
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (b *lazyBackend) Delete(ctx context.Context, key string) error {
	delete(b.objects, key)
	return nil
}

type failingReader struct{}

func (*failingReader) Read([]byte) (int, error) {
	return 0, errors.New("the specified key does not exist")
}

func serveUpload(t *testing.T, h *UploadsHandler, name string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/uploads/"+name, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("name")
	c.SetParamValues(name)

	if err := h.Serve(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec
}

func TestUploadsHandler_Serve(t *testing.T) {
	backend := &lazyBackend{objects: map[string][]byte{
		"lamp.png": []byte("png-bytes"),
	}}
	h := NewUploadsHandler(storage.NewImageStore(backend))

	rec := serveUpload(t, h, "lamp.png")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get(echo.HeaderContentType))
	assert.Equal(t, "png-bytes", rec.Body.String())
}

func TestUploadsHandler_Serve_MissingKeyIs404NotEmpty200(t *testing.T) {
	// Get succeeds for the unknown key; the handler must notice before
	// committing a 200.
	backend := &lazyBackend{objects: map[string][]byte{}}
	h := NewUploadsHandler(storage.NewImageStore(backend))

	rec := serveUpload(t, h, "missing.png")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.NotEmpty(t, rec.Body.String())
}
