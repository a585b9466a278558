package handler

import (
	"mime/multipart"
	"net/http"

	"github.com/labstack/echo/v4"

	"stockroom/internal/config"
	apperrors "stockroom/internal/errors"
	"stockroom/internal/model"
	"stockroom/internal/service"
)

// ProductHandler handles the JSON product endpoints consumed by the storefront.
type ProductHandler struct {
	productService service.ProductService
	cfg            *config.Config
}

// NewProductHandler creates a new product handler.
func NewProductHandler(productService service.ProductService, cfg *config.Config) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		cfg:            cfg,
	}
}

// ProductResponse is a product plus the absolute URL of its image.
type ProductResponse struct {
	model.Product
	ImageURL string `json:"imageUrl"`
}

// DeleteResponse confirms a deletion with a summary of the removed product.
type DeleteResponse struct {
	Message string         `json:"message"`
	Product DeletedProduct `json:"product"`
}

// DeletedProduct is the id/name summary embedded in a delete confirmation.
type DeletedProduct struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func (h *ProductHandler) toResponse(c echo.Context, p *model.Product) ProductResponse {
	return ProductResponse{
		Product:  *p,
		ImageURL: h.imageURL(c, p.Image),
	}
}

// imageURL builds the absolute image URL from the configured public origin,
// falling back to the inbound request's own origin.
func (h *ProductHandler) imageURL(c echo.Context, image string) string {
	base := h.cfg.BackendURL
	if base == "" {
		base = c.Scheme() + "://" + c.Request().Host
	}
	return base + "/uploads/" + image
}

func productInputFrom(c echo.Context) service.ProductInput {
	return service.ProductInput{
		Name:        c.FormValue("name"),
		Price:       c.FormValue("price"),
		Description: c.FormValue("description"),
		CategoryID:  c.FormValue("categoryId"),
		Stock:       c.FormValue("stock"),
	}
}

// imageFileFrom returns the optional uploaded image. A missing file field or
// a non-multipart body both mean "no image".
func imageFileFrom(c echo.Context) *multipart.FileHeader {
	fh, err := c.FormFile("image")
	if err != nil {
		return nil
	}
	return fh
}

func writeError(c echo.Context, err error) error {
	httpErr := apperrors.MapErrorToHTTP(err)
	if httpErr.StatusCode == http.StatusInternalServerError {
		c.Logger().Error(err)
	}
	return c.JSON(httpErr.StatusCode, httpErr.ToErrorResponse())
}

// List godoc
// @Summary List all products, newest first
// @Tags products
// @Produce json
// @Success 200 {array} ProductResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /products [get]
func (h *ProductHandler) List(c echo.Context) error {
	products, err := h.productService.List(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}

	responses := make([]ProductResponse, 0, len(products))
	for i := range products {
		responses = append(responses, h.toResponse(c, &products[i]))
	}
	return c.JSON(http.StatusOK, responses)
}

// Get godoc
// @Summary Get a single product
// @Tags products
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} ProductResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /products/{id} [get]
func (h *ProductHandler) Get(c echo.Context) error {
	product, err := h.productService.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, h.toResponse(c, product))
}

// Create godoc
// @Summary Create a product
// @Tags products
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param name formData string true "Product name"
// @Param price formData number true "Price"
// @Param description formData string true "Description"
// @Param categoryId formData int false "Category ID"
// @Param stock formData int false "Stock"
// @Param image formData file false "Product image"
// @Success 201 {object} ProductResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /products [post]
func (h *ProductHandler) Create(c echo.Context) error {
	product, err := h.productService.Create(c.Request().Context(), productInputFrom(c), imageFileFrom(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, h.toResponse(c, product))
}

// Update godoc
// @Summary Replace a product
// @Tags products
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param id path string true "Product ID"
// @Success 200 {object} ProductResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /products/{id} [put]
func (h *ProductHandler) Update(c echo.Context) error {
	product, err := h.productService.Update(c.Request().Context(), c.Param("id"), productInputFrom(c), imageFileFrom(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, h.toResponse(c, product))
}

// PartialUpdate godoc
// @Summary Update only the provided fields of a product
// @Tags products
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param id path string true "Product ID"
// @Success 200 {object} ProductResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /products/{id} [patch]
func (h *ProductHandler) PartialUpdate(c echo.Context) error {
	product, err := h.productService.PartialUpdate(c.Request().Context(), c.Param("id"), productInputFrom(c), imageFileFrom(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, h.toResponse(c, product))
}

// Delete godoc
// @Summary Delete a product
// @Tags products
// @Produce json
// @Security BearerAuth
// @Param id path string true "Product ID"
// @Success 200 {object} DeleteResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /products/{id} [delete]
func (h *ProductHandler) Delete(c echo.Context) error {
	product, err := h.productService.Delete(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, DeleteResponse{
		Message: "product deleted successfully",
		Product: DeletedProduct{
			ID:   product.ID.String(),
			Name: product.Name,
		},
	})
}
