package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/javajoker/shopkz-search/internal/models"
	"github.com/javajoker/shopkz-search/internal/utils"
)

type fakeFetcher struct {
	products json.RawMessage
	err      error
	calls    int
}

func (f *fakeFetcher) FetchProducts(ctx context.Context, query string) (json.RawMessage, error) {
	f.calls++
	return f.products, f.err
}

type fakeStore struct {
	saved []models.ResultItem
	query string
	calls int
	err   error
}

func (f *fakeStore) Save(ctx context.Context, query string, items []models.ResultItem) (uint, error) {
	f.calls++
	f.query = query
	f.saved = items
	if f.err != nil {
		return 0, f.err
	}
	return 42, nil
}

const validProductJSON = `{"id":"1","available":true,"name":"X","brand":"B","price":10.5,"score":80,"categories":[],"attributes":{"rating":["50"],"vendorcode":["V1"],"reviewscount":["3"]},"link_url":"u","image_url":"i","image_urls":[]}`

func TestSearchEmptyQuery(t *testing.T) {
	fetcher, store := &fakeFetcher{}, &fakeStore{}
	_, err := NewSearchService(fetcher, store).Search(context.Background(), "")

	assert.ErrorIs(t, err, ErrEmptyQuery)
	assert.Zero(t, fetcher.calls)
	assert.Zero(t, store.calls)
}

func TestSearchSavesValidatedResults(t *testing.T) {
	fetcher := &fakeFetcher{products: json.RawMessage(`[` + validProductJSON + `]`)}
	store := &fakeStore{}

	result, err := NewSearchService(fetcher, store).Search(context.Background(), "phone")
	require.NoError(t, err)

	require.Len(t, result.Results, 1)
	assert.JSONEq(t, validProductJSON, string(result.Results[0]))
	assert.True(t, result.Saved.OK())
	assert.Equal(t, uint(42), result.Saved.QueryID)

	assert.Equal(t, "phone", store.query)
	require.Len(t, store.saved, 1)
	assert.Equal(t, "1", *store.saved[0].ID)
}

func TestSearchMissingProductsIsEmpty(t *testing.T) {
	for _, raw := range []json.RawMessage{nil, json.RawMessage(`null`), json.RawMessage(`[]`)} {
		store := &fakeStore{}
		result, err := NewSearchService(&fakeFetcher{products: raw}, store).Search(context.Background(), "q")
		require.NoError(t, err)

		assert.NotNil(t, result.Results)
		assert.Empty(t, result.Results)
		assert.Equal(t, 1, store.calls)
		assert.Empty(t, store.saved)
	}
}

func TestSearchUpstreamFailure(t *testing.T) {
	store := &fakeStore{}
	upstreamErr := &UpstreamError{Err: errors.New("connection refused")}

	_, err := NewSearchService(&fakeFetcher{err: upstreamErr}, store).Search(context.Background(), "q")
	assert.ErrorIs(t, err, upstreamErr)
	assert.Zero(t, store.calls)
}

func TestSearchValidationFailureIsNotSaved(t *testing.T) {
	bad := `{"id":"1","available":true,"name":"X","brand":"B","price":0,"score":80,"categories":[],"attributes":{"rating":["50"],"vendorcode":["V1"],"reviewscount":["3"]},"link_url":"u","image_url":"i","image_urls":[]}`
	store := &fakeStore{}

	_, err := NewSearchService(&fakeFetcher{products: json.RawMessage(`[` + bad + `]`)}, store).Search(context.Background(), "q")

	var verr *utils.ResultsValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "results[0].price", verr.Errors[0].Field)
	assert.Zero(t, store.calls)
}

func TestSearchProductsNotAList(t *testing.T) {
	_, err := NewSearchService(&fakeFetcher{products: json.RawMessage(`{"id":"1"}`)}, &fakeStore{}).Search(context.Background(), "q")

	var verr *utils.ResultsValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "results", verr.Errors[0].Field)
}

func TestSearchSaveFailureDoesNotFailSearch(t *testing.T) {
	store := &fakeStore{err: &StorageError{Op: "save search", Err: errors.New("disk full")}}
	fetcher := &fakeFetcher{products: json.RawMessage(`[` + validProductJSON + `]`)}

	result, err := NewSearchService(fetcher, store).Search(context.Background(), "phone")
	require.NoError(t, err)

	assert.False(t, result.Saved.OK())
	assert.Len(t, result.Results, 1)

	var storageErr *StorageError
	assert.True(t, errors.As(result.Saved.Err, &storageErr))
}

func TestSearchIgnoresClientCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	store := &fakeStore{}
	_, err := NewSearchService(&fakeFetcher{products: json.RawMessage(`[]`)}, store).Search(ctx, "q")
	require.NoError(t, err)
	assert.Equal(t, 1, store.calls)
}

func TestSearchWithSQLiteStore(t *testing.T) {
	history := NewHistoryService(newTestDB(t))
	fetcher := &fakeFetcher{products: json.RawMessage(`[` + validProductJSON + `]`)}

	result, err := NewSearchService(fetcher, history).Search(context.Background(), "phone")
	require.NoError(t, err)
	require.True(t, result.Saved.OK())

	products, err := history.GetProductsByQueryID(context.Background(), result.Saved.QueryID)
	require.NoError(t, err)
	require.Len(t, products, 1)

	encoded, err := json.Marshal(products[0])
	require.NoError(t, err)
	assert.JSONEq(t, validProductJSON, string(encoded))
}
