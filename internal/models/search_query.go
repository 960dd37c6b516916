// internal/models/search_query.go
package models

import "time"

// SearchQuery is one logged invocation of the search pipeline. Rows are
// append-only.
type SearchQuery struct {
	ID            uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	Query         string    `json:"query" gorm:"column:query;type:text;not null;index"`
	Timestamp     time.Time `json:"timestamp" gorm:"column:timestamp;not null;index"`
	ProductsCount int       `json:"products_count" gorm:"column:products_count;not null;default:0"`

	// Relationships
	Products []Product `json:"-" gorm:"foreignKey:SearchQueryID"`
}

func (SearchQuery) TableName() string {
	return "search_queries"
}

type PopularQuery struct {
	Query string `json:"query"`
	Count int64  `json:"count"`
}

type Statistics struct {
	TotalQueries        int64          `json:"total_queries"`
	TotalProducts       int64          `json:"total_products"`
	AvgProductsPerQuery float64        `json:"avg_products_per_query"`
	PopularQueries      []PopularQuery `json:"popular_queries"`
}
