// internal/services/history_service.go
package services

import (
	"context"
	"database/sql"
	"math"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/javajoker/shopkz-search/internal/database"
	"github.com/javajoker/shopkz-search/internal/models"
)

const (
	DefaultHistoryLimit = 10
	popularQueriesLimit = 5
	saveBatchSize       = 100
)

// HistoryService is the append-only log of search queries and their
// results.
type HistoryService struct {
	db *gorm.DB
}

func NewHistoryService(db *gorm.DB) *HistoryService {
	return &HistoryService{db: db}
}

// Save stores the query and all of its products in one transaction and
// returns the new query id.
func (s *HistoryService) Save(ctx context.Context, query string, items []models.ResultItem) (uint, error) {
	var queryID uint

	err := database.WithTransaction(s.db.WithContext(ctx), func(tx *gorm.DB) error {
		searchQuery := &models.SearchQuery{
			Query:         query,
			Timestamp:     time.Now().UTC(),
			ProductsCount: len(items),
		}
		if err := tx.Omit(clause.Associations).Create(searchQuery).Error; err != nil {
			return err
		}

		if len(items) > 0 {
			products := make([]models.Product, 0, len(items))
			for _, item := range items {
				products = append(products, models.NewProduct(searchQuery.ID, item))
			}
			if err := tx.Omit(clause.Associations).CreateInBatches(products, saveBatchSize).Error; err != nil {
				return err
			}
		}

		queryID = searchQuery.ID
		return nil
	})
	if err != nil {
		return 0, &StorageError{Op: "save search", Err: err}
	}

	return queryID, nil
}

// GetSearchHistory returns the most recent queries first.
func (s *HistoryService) GetSearchHistory(ctx context.Context, limit int) ([]models.SearchQuery, error) {
	if limit < 1 {
		limit = DefaultHistoryLimit
	}

	history := make([]models.SearchQuery, 0, limit)
	err := s.db.WithContext(ctx).
		Order("timestamp DESC").
		Order("id DESC").
		Limit(limit).
		Find(&history).Error
	if err != nil {
		return nil, &StorageError{Op: "get search history", Err: err}
	}

	if history == nil {
		history = []models.SearchQuery{}
	}
	return history, nil
}

// GetProductsByQueryID returns the products of one query, best score first.
func (s *HistoryService) GetProductsByQueryID(ctx context.Context, queryID uint) ([]models.ResultItem, error) {
	var products []models.Product
	err := s.db.WithContext(ctx).
		Where("search_query_id = ?", queryID).
		Order("score DESC").
		Order("id ASC").
		Find(&products).Error
	if err != nil {
		return nil, &StorageError{Op: "get products by query id", Err: err}
	}

	return toResultItems(products), nil
}

// GetProductsByQueryText returns the products of every query whose text
// contains text. The match is literal and case-sensitive.
func (s *HistoryService) GetProductsByQueryText(ctx context.Context, text string) ([]models.ResultItem, error) {
	var products []models.Product
	err := s.db.WithContext(ctx).
		Select("products.*").
		Joins("JOIN search_queries ON search_queries.id = products.search_query_id").
		Where(containsCondition(s.db), text).
		Order("products.score DESC").
		Order("products.id ASC").
		Find(&products).Error
	if err != nil {
		return nil, &StorageError{Op: "get products by query text", Err: err}
	}

	return toResultItems(products), nil
}

// GetStatistics aggregates over the whole query log.
func (s *HistoryService) GetStatistics(ctx context.Context) (*models.Statistics, error) {
	db := s.db.WithContext(ctx)
	stats := &models.Statistics{PopularQueries: []models.PopularQuery{}}

	if err := db.Model(&models.SearchQuery{}).Count(&stats.TotalQueries).Error; err != nil {
		return nil, &StorageError{Op: "count queries", Err: err}
	}

	if err := db.Model(&models.Product{}).Count(&stats.TotalProducts).Error; err != nil {
		return nil, &StorageError{Op: "count products", Err: err}
	}

	var avg sql.NullFloat64
	if err := db.Model(&models.SearchQuery{}).Select("AVG(products_count)").Row().Scan(&avg); err != nil {
		return nil, &StorageError{Op: "average products per query", Err: err}
	}
	if avg.Valid {
		stats.AvgProductsPerQuery = math.Round(avg.Float64*100) / 100
	}

	err := db.Model(&models.SearchQuery{}).
		Select("query, COUNT(*) AS count").
		Group("query").
		Order("count DESC").
		Order("MIN(id) ASC").
		Limit(popularQueriesLimit).
		Scan(&stats.PopularQueries).Error
	if err != nil {
		return nil, &StorageError{Op: "popular queries", Err: err}
	}
	if stats.PopularQueries == nil {
		stats.PopularQueries = []models.PopularQuery{}
	}

	return stats, nil
}

// containsCondition builds a literal substring match, which LIKE is not.
func containsCondition(db *gorm.DB) string {
	if db.Dialector.Name() == "postgres" {
		return "strpos(search_queries.query, ?) > 0"
	}
	return "instr(search_queries.query, ?) > 0"
}

func toResultItems(products []models.Product) []models.ResultItem {
	items := make([]models.ResultItem, 0, len(products))
	for _, p := range products {
		items = append(items, p.ToResultItem())
	}
	return items
}
