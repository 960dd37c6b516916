// internal/services/upstream_service.go
package services

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/sirupsen/logrus"

	"github.com/javajoker/shopkz-search/internal/config"
)

// maxUpstreamBody caps how much of an upstream response is read.
const maxUpstreamBody = 32 << 20

type UpstreamService struct {
	client *http.Client
	config config.UpstreamConfig
}

// NewUpstreamService creates the product search API client. A nil client
// gets a default one bounded by the configured timeout.
func NewUpstreamService(cfg config.UpstreamConfig, client *http.Client) *UpstreamService {
	if client == nil {
		client = &http.Client{
			Transport: &http.Transport{
				Proxy:               http.ProxyFromEnvironment,
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		}
	}
	return &UpstreamService{
		client: client,
		config: cfg,
	}
}

func (s *UpstreamService) timeout() time.Duration {
	if s.config.Timeout <= 0 {
		return 5 * time.Second
	}
	return time.Duration(s.config.Timeout) * time.Second
}

// BuildURL returns the upstream search URL for the given query text.
func (s *UpstreamService) BuildURL(query string) (string, error) {
	u, err := url.Parse(s.config.APIURL)
	if err != nil {
		return "", fmt.Errorf("invalid upstream URL: %w", err)
	}

	params := u.Query()
	params.Set("st", query)
	params.Set("apiKey", s.config.APIKey)
	params.Set("strategy", s.config.Strategy)
	params.Set("productsSize", strconv.Itoa(s.config.ProductsSize))
	u.RawQuery = params.Encode()

	return u.String(), nil
}

// FetchProducts queries the upstream API and returns its raw "products"
// field, or nil when the field is absent.
func (s *UpstreamService) FetchProducts(ctx context.Context, query string) (json.RawMessage, error) {
	endpoint, err := s.BuildURL(query)
	if err != nil {
		return nil, &UpstreamError{Err: err}
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout())
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, &UpstreamError{Err: err}
	}
	req.Header.Set("User-Agent", s.config.UserAgent)
	req.Header.Set("Referer", s.config.Referer)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Encoding", "gzip, br")

	start := time.Now()
	resp, err := s.client.Do(req)
	if err != nil {
		// The request URL carries the API key, keep it out of the error.
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			err = urlErr.Err
		}
		return nil, &UpstreamError{Err: err}
	}
	defer resp.Body.Close()

	logrus.WithFields(logrus.Fields{
		"query":    query,
		"status":   resp.StatusCode,
		"duration": time.Since(start).Milliseconds(),
	}).Debug("Upstream search completed")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &UpstreamError{StatusCode: resp.StatusCode, Err: errors.New(http.StatusText(resp.StatusCode))}
	}

	body, err := readBody(resp)
	if err != nil {
		return nil, &UpstreamError{Err: fmt.Errorf("read response: %w", err)}
	}

	var payload map[string]json.RawMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, &UpstreamError{Err: fmt.Errorf("decode response: %w", err)}
	}
	if payload == nil {
		return nil, &UpstreamError{Err: errors.New("decode response: not a JSON object")}
	}

	return payload["products"], nil
}

// readBody reads and decompresses an upstream response body.
func readBody(resp *http.Response) ([]byte, error) {
	var reader io.Reader
	switch resp.Header.Get("Content-Encoding") {
	case "gzip":
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("gzip reader: %w", err)
		}
		defer gz.Close()
		reader = gz
	case "br":
		reader = brotli.NewReader(resp.Body)
	default:
		reader = resp.Body
	}
	return io.ReadAll(io.LimitReader(reader, maxUpstreamBody))
}
