// internal/models/result.go
package models

// ResultItem is one product as returned by the upstream search API.
// Pointer fields distinguish a missing value from a zero value.
type ResultItem struct {
	ID         *string     `json:"id" validate:"required"`
	Available  *bool       `json:"available" validate:"required"`
	Name       *string     `json:"name" validate:"required"`
	Brand      *string     `json:"brand" validate:"required"`
	Price      *float64    `json:"price" validate:"required,gt=0"`
	Score      *float64    `json:"score" validate:"required,gte=0,lte=100"`
	Categories []Category  `json:"categories" validate:"required,dive"`
	Attributes *Attributes `json:"attributes" validate:"required"`
	LinkURL    *string     `json:"link_url" validate:"required"`
	ImageURL   *string     `json:"image_url" validate:"required"`
	ImageURLs  []string    `json:"image_urls" validate:"required"`
}

type Attributes struct {
	Rating       []string `json:"rating" validate:"required,dive,percent"`
	VendorCode   []string `json:"vendorcode" validate:"required"`
	ReviewsCount []string `json:"reviewscount" validate:"required,dive,number"`
}

type Category struct {
	ID       *int    `json:"id" validate:"required"`
	Name     *string `json:"name" validate:"required"`
	Direct   *bool   `json:"direct" validate:"required"`
	LinkURL  *string `json:"link_url" validate:"required"`
	ImageURL *string `json:"image_url" validate:"required"`
}
