package services

import (
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/andybalholm/brotli"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/javajoker/shopkz-search/internal/config"
)

func upstreamConfig(endpoint string) config.UpstreamConfig {
	return config.UpstreamConfig{
		APIURL:       endpoint,
		APIKey:       "key-123",
		Strategy:     "vectors_extended",
		ProductsSize: 20,
		Timeout:      5,
		UserAgent:    "Mozilla/5.0",
		Referer:      "https://shop.kz/",
	}
}

func TestBuildURL(t *testing.T) {
	service := NewUpstreamService(upstreamConfig("https://api.example.com/search?lang=ru"), nil)

	got, err := service.BuildURL("iphone 15 & case")
	require.NoError(t, err)
	assert.Equal(t, "https://api.example.com/search?apiKey=key-123&lang=ru&productsSize=20&st=iphone+15+%26+case&strategy=vectors_extended", got)
}

func TestFetchProductsSendsQueryAndHeaders(t *testing.T) {
	type seen struct {
		query   url.Values
		headers http.Header
	}
	requests := make(chan seen, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests <- seen{query: r.URL.Query(), headers: r.Header.Clone()}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"products": [{"id": "1"}], "total": 1}`))
	}))
	defer srv.Close()

	service := NewUpstreamService(upstreamConfig(srv.URL), nil)
	products, err := service.FetchProducts(context.Background(), "телефон")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id": "1"}]`, string(products))

	got := <-requests
	assert.Equal(t, "телефон", got.query.Get("st"))
	assert.Equal(t, "key-123", got.query.Get("apiKey"))
	assert.Equal(t, "vectors_extended", got.query.Get("strategy"))
	assert.Equal(t, "20", got.query.Get("productsSize"))
	assert.Equal(t, "Mozilla/5.0", got.headers.Get("User-Agent"))
	assert.Equal(t, "https://shop.kz/", got.headers.Get("Referer"))
}

func TestFetchProductsMissingField(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"total": 0}`))
	}))
	defer srv.Close()

	products, err := NewUpstreamService(upstreamConfig(srv.URL), nil).FetchProducts(context.Background(), "q")
	require.NoError(t, err)
	assert.Nil(t, products)
}

func TestFetchProductsDecodesCompressedBodies(t *testing.T) {
	payload := []byte(`{"products": [{"id": "br"}]}`)

	var brBody bytes.Buffer
	bw := brotli.NewWriter(&brBody)
	_, err := bw.Write(payload)
	require.NoError(t, err)
	require.NoError(t, bw.Close())

	var gzBody bytes.Buffer
	gw := gzip.NewWriter(&gzBody)
	_, err = gw.Write(payload)
	require.NoError(t, err)
	require.NoError(t, gw.Close())

	for encoding, body := range map[string][]byte{"br": brBody.Bytes(), "gzip": gzBody.Bytes()} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Encoding", encoding)
			w.Write(body)
		}))

		products, err := NewUpstreamService(upstreamConfig(srv.URL), nil).FetchProducts(context.Background(), "q")
		srv.Close()

		require.NoError(t, err, encoding)
		assert.JSONEq(t, `[{"id": "br"}]`, string(products), encoding)
	}
}

func TestFetchProductsFailures(t *testing.T) {
	cases := map[string]struct {
		status     int
		body       string
		wantStatus int
	}{
		"server error":  {status: http.StatusInternalServerError, body: `{"products": []}`, wantStatus: http.StatusInternalServerError},
		"forbidden":     {status: http.StatusForbidden, body: `{}`, wantStatus: http.StatusForbidden},
		"not json":      {status: http.StatusOK, body: `<html>blocked</html>`},
		"json array":    {status: http.StatusOK, body: `[1, 2]`},
		"json null":     {status: http.StatusOK, body: `null`},
		"truncated obj": {status: http.StatusOK, body: `{"products": [`},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			_, err := NewUpstreamService(upstreamConfig(srv.URL), nil).FetchProducts(context.Background(), "q")

			var upstreamErr *UpstreamError
			require.True(t, errors.As(err, &upstreamErr), "got %v", err)
			assert.Equal(t, tc.wantStatus, upstreamErr.StatusCode)
		})
	}
}

func TestFetchProductsUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	endpoint := srv.URL
	srv.Close()

	_, err := NewUpstreamService(upstreamConfig(endpoint), nil).FetchProducts(context.Background(), "q")

	var upstreamErr *UpstreamError
	require.True(t, errors.As(err, &upstreamErr))
	assert.Zero(t, upstreamErr.StatusCode)
	assert.NotContains(t, err.Error(), "key-123")
	assert.NotContains(t, err.Error(), "apiKey")
}

func TestFetchProductsTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	cfg := upstreamConfig(srv.URL)
	cfg.Timeout = 1

	_, err := NewUpstreamService(cfg, nil).FetchProducts(context.Background(), "q")

	var upstreamErr *UpstreamError
	require.True(t, errors.As(err, &upstreamErr))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.NotContains(t, err.Error(), "key-123")
}
