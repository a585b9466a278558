package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DefaultImage is the placeholder asset used when no image was uploaded.
const DefaultImage = "default.jpg"

// DefaultCategoryID is the "uncategorized" bucket.
const DefaultCategoryID = 1

// Product is a sellable catalog item.
type Product struct {
	ID          uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	Name        string    `json:"name" gorm:"size:255;not null"`
	Price       float64   `json:"price" gorm:"not null"`
	Description string    `json:"description" gorm:"type:text;not null"`
	Image       string    `json:"image" gorm:"size:255;default:'default.jpg'"`
	CategoryID  int       `json:"categoryId" gorm:"default:1"`
	Stock       int       `json:"stock" gorm:"default:0"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// BeforeCreate sets UUID and field defaults before creating the record.
func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.Image == "" {
		p.Image = DefaultImage
	}
	if p.CategoryID == 0 {
		p.CategoryID = DefaultCategoryID
	}
	return nil
}

// HasCustomImage reports whether the product carries an uploaded image
// rather than the placeholder asset.
func (p *Product) HasCustomImage() bool {
	return p.Image != "" && p.Image != DefaultImage
}
