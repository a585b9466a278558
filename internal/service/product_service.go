package service

import (
	"context"
	"encoding/json"
	"log"
	"mime/multipart"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"stockroom/internal/cache"
	apperrors "stockroom/internal/errors"
	"stockroom/internal/model"
	"stockroom/internal/repository"
	"stockroom/internal/storage"
)

const (
	productListCacheKey = "products:list"
	productListCacheTTL = time.Minute
)

// ProductInput carries raw form values. Empty strings mean "not provided";
// the service performs coercion and validation so the page and API surfaces
// share one set of rules.
type ProductInput struct {
	Name        string
	Price       string
	Description string
	CategoryID  string
	Stock       string
}

// ProductService handles catalog operations.
type ProductService interface {
	List(ctx context.Context) ([]model.Product, error)
	Get(ctx context.Context, id string) (*model.Product, error)
	Create(ctx context.Context, in ProductInput, image *multipart.FileHeader) (*model.Product, error)
	Update(ctx context.Context, id string, in ProductInput, image *multipart.FileHeader) (*model.Product, error)
	PartialUpdate(ctx context.Context, id string, in ProductInput, image *multipart.FileHeader) (*model.Product, error)
	Delete(ctx context.Context, id string) (*model.Product, error)
}

type productService struct {
	repo     repository.ProductRepository
	images   *storage.ImageStore
	cache    *cache.Client
	validate *validator.Validate
}

// NewProductService creates a new product service.
func NewProductService(repo repository.ProductRepository, images *storage.ImageStore, cache *cache.Client) ProductService {
	return &productService{
		repo:     repo,
		images:   images,
		cache:    cache,
		validate: validator.New(),
	}
}

// List returns all products, newest first, with a short-lived cache in front.
func (s *productService) List(ctx context.Context) ([]model.Product, error) {
	if data, _ := s.cache.Get(ctx, productListCacheKey); data != nil {
		var cached []model.Product
		if err := json.Unmarshal(data, &cached); err == nil {
			return cached, nil
		}
	}

	products, err := s.repo.ListNewestFirst(ctx)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(products); err == nil {
		_ = s.cache.Set(ctx, productListCacheKey, payload, productListCacheTTL)
	}
	return products, nil
}

// Get returns a single product by ID.
func (s *productService) Get(ctx context.Context, id string) (*model.Product, error) {
	return s.find(ctx, id)
}

// Create validates fields, stores the optional image and persists the product.
func (s *productService) Create(ctx context.Context, in ProductInput, image *multipart.FileHeader) (*model.Product, error) {
	fields, err := s.validateFull(in)
	if err != nil {
		return nil, err
	}

	imageName := model.DefaultImage
	if image != nil {
		imageName, err = s.images.Save(ctx, image)
		if err != nil {
			return nil, err
		}
	}

	product := &model.Product{
		Name:        fields.Name,
		Price:       fields.Price,
		Description: fields.Description,
		Image:       imageName,
		CategoryID:  coerceInt(in.CategoryID, model.DefaultCategoryID),
		Stock:       coerceInt(in.Stock, 0),
	}
	if err := s.repo.Create(ctx, product); err != nil {
		return nil, err
	}

	s.invalidateList(ctx)
	return product, nil
}

// Update replaces all fields of an existing product. A superseded image is
// deleted best-effort; cleanup failure never blocks the update.
func (s *productService) Update(ctx context.Context, id string, in ProductInput, image *multipart.FileHeader) (*model.Product, error) {
	fields, err := s.validateFull(in)
	if err != nil {
		return nil, err
	}

	product, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	if image != nil {
		newName, err := s.images.Save(ctx, image)
		if err != nil {
			return nil, err
		}
		if product.HasCustomImage() {
			s.removeImage(ctx, product.Image)
		}
		product.Image = newName
	}

	product.Name = fields.Name
	product.Price = fields.Price
	product.Description = fields.Description
	product.CategoryID = coerceInt(in.CategoryID, model.DefaultCategoryID)
	product.Stock = coerceInt(in.Stock, 0)

	if err := s.repo.Update(ctx, product); err != nil {
		return nil, err
	}

	s.invalidateList(ctx)
	return product, nil
}

// PartialUpdate changes only the provided fields. Provided fields are held to
// the same rules as a full update; absent fields are untouched.
func (s *productService) PartialUpdate(ctx context.Context, id string, in ProductInput, image *multipart.FileHeader) (*model.Product, error) {
	if err := s.validatePartial(in); err != nil {
		return nil, err
	}

	product, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	if image != nil {
		newName, err := s.images.Save(ctx, image)
		if err != nil {
			return nil, err
		}
		if product.HasCustomImage() {
			s.removeImage(ctx, product.Image)
		}
		product.Image = newName
	}

	if in.Name != "" {
		product.Name = strings.TrimSpace(in.Name)
	}
	if in.Price != "" {
		product.Price, _ = strconv.ParseFloat(strings.TrimSpace(in.Price), 64)
	}
	if in.Description != "" {
		product.Description = strings.TrimSpace(in.Description)
	}
	if in.CategoryID != "" {
		product.CategoryID = coerceInt(in.CategoryID, product.CategoryID)
	}
	if in.Stock != "" {
		product.Stock = coerceInt(in.Stock, product.Stock)
	}

	if err := s.repo.Update(ctx, product); err != nil {
		return nil, err
	}

	s.invalidateList(ctx)
	return product, nil
}

// Delete removes the product and best-effort deletes its uploaded image.
// Deleting an already-deleted product returns not-found.
func (s *productService) Delete(ctx context.Context, id string) (*model.Product, error) {
	product, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Delete(ctx, product.ID); err != nil {
		return nil, err
	}

	if product.HasCustomImage() {
		s.removeImage(ctx, product.Image)
	}

	s.invalidateList(ctx)
	return product, nil
}

func (s *productService) find(ctx context.Context, id string) (*model.Product, error) {
	productID, err := uuid.Parse(id)
	if err != nil {
		// Malformed IDs behave like unknown ones.
		return nil, apperrors.ErrProductNotFound
	}

	product, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.ErrProductNotFound
		}
		return nil, err
	}
	return product, nil
}

func (s *productService) removeImage(ctx context.Context, name string) {
	if err := s.images.Remove(ctx, name); err != nil {
		log.Printf("delete image %s: %v", name, err)
	}
}

func (s *productService) invalidateList(ctx context.Context) {
	_ = s.cache.Delete(ctx, productListCacheKey)
}

// productFields is the validated shape of a full create/update.
type productFields struct {
	Name        string  `validate:"required,min=3"`
	Price       float64 `validate:"min=0"`
	Description string  `validate:"required,min=10"`
}

var productFieldMessages = map[string]string{
	"Name":        "name is required and must be at least 3 characters",
	"Price":       "price is required and must be a non-negative number",
	"Description": "description is required and must be at least 10 characters",
}

var productFieldNames = map[string]string{
	"Name":        "name",
	"Price":       "price",
	"Description": "description",
}

func (s *productService) validateFull(in ProductInput) (*productFields, error) {
	var fieldErrs []apperrors.FieldError

	price, priceErr := strconv.ParseFloat(strings.TrimSpace(in.Price), 64)
	if in.Price == "" || priceErr != nil {
		fieldErrs = append(fieldErrs, apperrors.FieldError{
			Field:   "price",
			Message: productFieldMessages["Price"],
		})
		price = 0
	}

	fields := &productFields{
		Name:        strings.TrimSpace(in.Name),
		Price:       price,
		Description: strings.TrimSpace(in.Description),
	}

	if err := s.validate.Struct(fields); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range verrs {
				fieldErrs = append(fieldErrs, apperrors.FieldError{
					Field:   productFieldNames[fe.StructField()],
					Message: productFieldMessages[fe.StructField()],
				})
			}
		} else {
			return nil, err
		}
	}

	if len(fieldErrs) > 0 {
		return nil, &apperrors.ValidationError{Fields: fieldErrs}
	}
	return fields, nil
}

func (s *productService) validatePartial(in ProductInput) error {
	var fieldErrs []apperrors.FieldError

	if in.Name != "" && len(strings.TrimSpace(in.Name)) < 3 {
		fieldErrs = append(fieldErrs, apperrors.FieldError{
			Field:   "name",
			Message: productFieldMessages["Name"],
		})
	}
	if in.Price != "" {
		if price, err := strconv.ParseFloat(strings.TrimSpace(in.Price), 64); err != nil || price < 0 {
			fieldErrs = append(fieldErrs, apperrors.FieldError{
				Field:   "price",
				Message: productFieldMessages["Price"],
			})
		}
	}
	if in.Description != "" && len(strings.TrimSpace(in.Description)) < 10 {
		fieldErrs = append(fieldErrs, apperrors.FieldError{
			Field:   "description",
			Message: productFieldMessages["Description"],
		})
	}

	if len(fieldErrs) > 0 {
		return &apperrors.ValidationError{Fields: fieldErrs}
	}
	return nil
}

func coerceInt(raw string, def int) int {
	if raw == "" {
		return def
	}
	if v, err := strconv.Atoi(strings.TrimSpace(raw)); err == nil && v >= 0 {
		return v
	}
	return def
}
