// internal/services/search_service.go
package services

import (
	"bytes"
	"context"
	"encoding/json"

	"github.com/javajoker/shopkz-search/internal/models"
	"github.com/javajoker/shopkz-search/internal/utils"
)

// ProductFetcher returns the raw "products" field of an upstream search.
type ProductFetcher interface {
	FetchProducts(ctx context.Context, query string) (json.RawMessage, error)
}

// ResultStore persists a validated result set.
type ResultStore interface {
	Save(ctx context.Context, query string, items []models.ResultItem) (uint, error)
}

// SaveOutcome reports how persisting a result set went. A failed save does
// not fail the search.
type SaveOutcome struct {
	QueryID uint
	Err     error
}

func (o SaveOutcome) OK() bool {
	return o.Err == nil
}

type SearchResult struct {
	// Results are the upstream products exactly as received.
	Results []json.RawMessage
	Saved   SaveOutcome
}

type SearchService struct {
	upstream ProductFetcher
	store    ResultStore
}

func NewSearchService(upstream ProductFetcher, store ResultStore) *SearchService {
	return &SearchService{
		upstream: upstream,
		store:    store,
	}
}

// Search runs one query through fetch, validation and persistence. It fails
// with ErrEmptyQuery, *UpstreamError or *utils.ResultsValidationError.
func (s *SearchService) Search(ctx context.Context, query string) (*SearchResult, error) {
	if query == "" {
		return nil, ErrEmptyQuery
	}

	// The upstream call is bounded by its own timeout and the save must not
	// be cut short by the client going away.
	ctx = context.WithoutCancel(ctx)

	raw, err := s.upstream.FetchProducts(ctx, query)
	if err != nil {
		return nil, err
	}

	products, err := decodeProducts(raw)
	if err != nil {
		return nil, err
	}

	items, err := utils.ValidateResults(products)
	if err != nil {
		return nil, err
	}

	result := &SearchResult{Results: products}
	result.Saved.QueryID, result.Saved.Err = s.store.Save(ctx, query, items)
	return result, nil
}

func decodeProducts(raw json.RawMessage) ([]json.RawMessage, error) {
	products := []json.RawMessage{}
	if len(raw) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return products, nil
	}
	if err := json.Unmarshal(raw, &products); err != nil {
		return nil, utils.NewResultsTypeError()
	}
	return products, nil
}
