// Package api provides error types for Danbooru API responses.
package api

import (
	"errors"
	"fmt"
	nethttp "net/http"
)

var (
	// ErrNotFound indicates the post does not exist (404/410).
	ErrNotFound = errors.New("post not found")

	// ErrNetwork indicates the lookup failed: transport errors, exhausted
	// retries, or any other non-success status.
	ErrNetwork = errors.New("network error")

	// ErrInvalidID indicates the post ID is not a positive decimal number.
	ErrInvalidID = errors.New("invalid post ID")
)

// HTTPError is returned for non-success responses.
// It unwraps to ErrNotFound or ErrNetwork depending on the status.
type HTTPError struct {
	StatusCode int
	Message    string
}

func (e *HTTPError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("HTTP error! status: %d", e.StatusCode)
	}
	return fmt.Sprintf("HTTP error! status: %d: %s", e.StatusCode, e.Message)
}

func (e *HTTPError) Unwrap() error {
	switch e.StatusCode {
	case nethttp.StatusNotFound, nethttp.StatusGone:
		return ErrNotFound
	default:
		return ErrNetwork
	}
}

// IsNotFound reports whether err means the post does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsNetworkError reports whether err is a failed lookup other than not-found.
func IsNetworkError(err error) bool {
	return errors.Is(err, ErrNetwork)
}
