// internal/services/errors.go
package services

import (
	"errors"
	"fmt"
)

// ErrEmptyQuery is returned when the search text is missing.
var ErrEmptyQuery = errors.New("search query is required")

// UpstreamError wraps any failure talking to the product search API.
type UpstreamError struct {
	StatusCode int
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("upstream returned status %d: %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("upstream request failed: %v", e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// StorageError wraps any failure of the persistence layer.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
