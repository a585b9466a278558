package handler

import (
	"bufio"
	"io"
	"mime"
	"net/http"
	"path/filepath"

	"github.com/labstack/echo/v4"

	"stockroom/internal/storage"
)

// UploadsHandler streams stored product images, whichever backend holds them.
type UploadsHandler struct {
	images *storage.ImageStore
}

// NewUploadsHandler creates a new uploads handler.
func NewUploadsHandler(images *storage.ImageStore) *UploadsHandler {
	return &UploadsHandler{images: images}
}

// Serve streams an image by object name.
func (h *UploadsHandler) Serve(c echo.Context) error {
	name := c.Param("name")

	rc, err := h.images.Open(c.Request().Context(), name)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "image not found")
	}
	defer rc.Close()

	// Object stores open lazily and only surface a missing key on the first
	// read, so probe before committing a status code.
	buffered := bufio.NewReader(rc)
	if _, err := buffered.Peek(1); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "image not found")
	}

	contentType := mime.TypeByExtension(filepath.Ext(name))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	c.Response().Header().Set(echo.HeaderContentType, contentType)
	c.Response().WriteHeader(http.StatusOK)
	_, err = io.Copy(c.Response(), buffered)
	return err
}
