package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"stockroom/internal/model"
)

// CategoryHandler serves the static category list.
type CategoryHandler struct{}

// NewCategoryHandler creates a new category handler.
func NewCategoryHandler() *CategoryHandler {
	return &CategoryHandler{}
}

// List godoc
// @Summary List product categories
// @Tags categories
// @Produce json
// @Success 200 {array} model.Category
// @Router /categories [get]
func (h *CategoryHandler) List(c echo.Context) error {
	return c.JSON(http.StatusOK, model.Categories())
}
