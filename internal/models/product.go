// internal/models/product.go
package models

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

var (
	ErrInvalidPrice = errors.New("price must be positive")
	ErrInvalidScore = errors.New("score must be between 0 and 100")
)

// Product is a stored search result attached to exactly one SearchQuery.
type Product struct {
	ID            uint               `json:"-" gorm:"primaryKey;autoIncrement"`
	SearchQueryID uint               `json:"-" gorm:"column:search_query_id;not null;index"`
	ProductID     string             `json:"id" gorm:"column:product_id;type:text;not null"`
	Name          string             `json:"name" gorm:"column:name;type:text;not null"`
	Brand         string             `json:"brand" gorm:"column:brand;type:text"`
	Price         float64            `json:"price" gorm:"column:price"`
	Score         float64            `json:"score" gorm:"column:score;index"`
	Available     bool               `json:"available" gorm:"column:available"`
	LinkURL       string             `json:"link_url" gorm:"column:link_url;type:text"`
	ImageURL      string             `json:"image_url" gorm:"column:image_url;type:text"`
	ImageURLs     JSONList[string]   `json:"image_urls" gorm:"column:image_urls"`
	Rating        JSONList[string]   `json:"rating" gorm:"column:rating"`
	VendorCode    JSONList[string]   `json:"vendorcode" gorm:"column:vendorcode"`
	ReviewsCount  JSONList[string]   `json:"reviewscount" gorm:"column:reviewscount"`
	Categories    JSONList[Category] `json:"categories" gorm:"column:categories"`
	CreatedAt     time.Time          `json:"-"`

	SearchQuery *SearchQuery `json:"-" gorm:"foreignKey:SearchQueryID"`
}

func (Product) TableName() string {
	return "products"
}

// BeforeCreate rejects rows that break the stored invariants, which aborts
// the surrounding transaction.
func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if !(p.Price > 0) {
		return fmt.Errorf("product %q: %w", p.ProductID, ErrInvalidPrice)
	}
	if !(p.Score >= 0 && p.Score <= 100) {
		return fmt.Errorf("product %q: %w", p.ProductID, ErrInvalidScore)
	}
	return nil
}

// NewProduct maps a validated result item onto a row of the given query.
func NewProduct(searchQueryID uint, item ResultItem) Product {
	p := Product{
		SearchQueryID: searchQueryID,
		ProductID:     deref(item.ID),
		Name:          deref(item.Name),
		Brand:         deref(item.Brand),
		Price:         deref(item.Price),
		Score:         deref(item.Score),
		Available:     deref(item.Available),
		LinkURL:       deref(item.LinkURL),
		ImageURL:      deref(item.ImageURL),
		ImageURLs:     JSONList[string](item.ImageURLs),
		Categories:    JSONList[Category](item.Categories),
	}
	if item.Attributes != nil {
		p.Rating = item.Attributes.Rating
		p.VendorCode = item.Attributes.VendorCode
		p.ReviewsCount = item.Attributes.ReviewsCount
	}
	return p
}

// ToResultItem renders the row back in the upstream result shape.
func (p Product) ToResultItem() ResultItem {
	return ResultItem{
		ID:         &p.ProductID,
		Available:  &p.Available,
		Name:       &p.Name,
		Brand:      &p.Brand,
		Price:      &p.Price,
		Score:      &p.Score,
		Categories: orEmpty(p.Categories),
		Attributes: &Attributes{
			Rating:       orEmpty(p.Rating),
			VendorCode:   orEmpty(p.VendorCode),
			ReviewsCount: orEmpty(p.ReviewsCount),
		},
		LinkURL:   &p.LinkURL,
		ImageURL:  &p.ImageURL,
		ImageURLs: orEmpty(p.ImageURLs),
	}
}

func deref[T any](v *T) T {
	var zero T
	if v == nil {
		return zero
	}
	return *v
}

func orEmpty[T any](l JSONList[T]) []T {
	if l == nil {
		return []T{}
	}
	return []T(l)
}
