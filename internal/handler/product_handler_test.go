package handler

import (
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"stockroom/internal/config"
	apperrors "stockroom/internal/errors"
	"stockroom/internal/model"
	"stockroom/internal/service"
)

// MockProductService is a mock implementation of service.ProductService.
type MockProductService struct {
	mock.Mock
}

func (m *MockProductService) List(ctx context.Context) ([]model.Product, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Product), args.Error(1)
}

func (m *MockProductService) Get(ctx context.Context, id string) (*model.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *MockProductService) Create(ctx context.Context, in service.ProductInput, image *multipart.FileHeader) (*model.Product, error) {
	args := m.Called(ctx, in, image)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *MockProductService) Update(ctx context.Context, id string, in service.ProductInput, image *multipart.FileHeader) (*model.Product, error) {
	args := m.Called(ctx, id, in, image)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *MockProductService) PartialUpdate(ctx context.Context, id string, in service.ProductInput, image *multipart.FileHeader) (*model.Product, error) {
	args := m.Called(ctx, id, in, image)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *MockProductService) Delete(ctx context.Context, id string) (*model.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func newProductContext(method, target string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func sampleProduct(name string) *model.Product {
	return &model.Product{
		ID:          uuid.New(),
		Name:        name,
		Price:       19.99,
		Description: "A small desk lamp",
		Image:       model.DefaultImage,
		CategoryID:  model.DefaultCategoryID,
		Stock:       5,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
}

func TestProductHandler_List_UsesConfiguredOrigin(t *testing.T) {
	mockService := new(MockProductService)
	h := NewProductHandler(mockService, &config.Config{BackendURL: "https://shop.example.com"})

	mockService.On("List", mock.Anything).Return([]model.Product{*sampleProduct("Lamp")}, nil)

	c, rec := newProductContext(http.MethodGet, "/api/products")
	err := h.List(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"imageUrl":"https://shop.example.com/uploads/default.jpg"`)
	mockService.AssertExpectations(t)
}

func TestProductHandler_Get_FallsBackToRequestOrigin(t *testing.T) {
	mockService := new(MockProductService)
	h := NewProductHandler(mockService, &config.Config{})

	product := sampleProduct("Lamp")
	mockService.On("Get", mock.Anything, product.ID.String()).Return(product, nil)

	c, rec := newProductContext(http.MethodGet, "http://localhost:3000/api/products/"+product.ID.String())
	c.SetParamNames("id")
	c.SetParamValues(product.ID.String())
	err := h.Get(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"imageUrl":"http://localhost:3000/uploads/default.jpg"`)
}

func TestProductHandler_Get_NotFound(t *testing.T) {
	mockService := new(MockProductService)
	h := NewProductHandler(mockService, &config.Config{})

	mockService.On("Get", mock.Anything, "missing").Return(nil, apperrors.ErrProductNotFound)

	c, rec := newProductContext(http.MethodGet, "/api/products/missing")
	c.SetParamNames("id")
	c.SetParamValues("missing")
	err := h.Get(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"product not found"}`, rec.Body.String())
}

func TestProductHandler_Create_ValidationErrors(t *testing.T) {
	mockService := new(MockProductService)
	h := NewProductHandler(mockService, &config.Config{})

	verr := &apperrors.ValidationError{Fields: []apperrors.FieldError{
		{Field: "name", Message: "name must be at least 3 characters"},
	}}
	mockService.On("Create", mock.Anything, mock.Anything, mock.Anything).Return(nil, verr)

	c, rec := newProductContext(http.MethodPost, "/api/products")
	err := h.Create(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"field":"name"`)
}

func TestProductHandler_Delete_ResponseShape(t *testing.T) {
	mockService := new(MockProductService)
	h := NewProductHandler(mockService, &config.Config{})

	product := sampleProduct("Lamp")
	mockService.On("Delete", mock.Anything, product.ID.String()).Return(product, nil)

	c, rec := newProductContext(http.MethodDelete, "/api/products/"+product.ID.String())
	c.SetParamNames("id")
	c.SetParamValues(product.ID.String())
	err := h.Delete(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t,
		`{"message":"product deleted successfully","product":{"id":"`+product.ID.String()+`","name":"Lamp"}}`,
		rec.Body.String())
}
