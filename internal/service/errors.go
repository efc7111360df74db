package service

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedInput rejects a request body before any work happens
	ErrMalformedInput = errors.New("malformed input")
	// ErrCompletionUnavailable means the completion service failed or timed out
	ErrCompletionUnavailable = errors.New("completion service unavailable")
	// ErrNotFound is returned when a referenced record does not exist
	ErrNotFound = errors.New("not found")
	// ErrForbidden is returned when the caller does not own the record
	ErrForbidden = errors.New("forbidden")
)

// SearchError wraps a storage failure of the search executor
type SearchError struct {
	Err error
}

func (e *SearchError) Error() string {
	return fmt.Sprintf("search failed: %v", e.Err)
}

func (e *SearchError) Unwrap() error {
	return e.Err
}

// CompletionError is a non-2xx answer from the completion API
type CompletionError struct {
	StatusCode int
	Body       string
}

func (e *CompletionError) Error() string {
	return fmt.Sprintf("API request failed with status %d: %s", e.StatusCode, e.Body)
}
