package eutils

import (
	"errors"
	"fmt"
)

// Common errors returned by the E-utilities client.
var (
	// ErrNetworkError indicates a transport failure after all retries.
	ErrNetworkError = errors.New("network error communicating with E-utilities")

	// ErrRateLimited indicates NCBI rejected the request for overuse.
	ErrRateLimited = errors.New("E-utilities rate limit exceeded")

	// ErrAuthError indicates a rejected API key.
	ErrAuthError = errors.New("E-utilities authentication error")

	// ErrInvalidResponse indicates a response body that could not be parsed.
	ErrInvalidResponse = errors.New("invalid response from E-utilities")

	// ErrBatchTooLarge indicates more IDs than one summary/fetch call allows.
	ErrBatchTooLarge = errors.New("identifier batch exceeds per-call limit")
)

// APIError represents an HTTP-level error from an E-utilities endpoint.
type APIError struct {
	StatusCode int
	Endpoint   string // esearch, esummary, efetch
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("E-utilities %s error (status %d): %s", e.Endpoint, e.StatusCode, e.Message)
}

// IsRateLimited returns true if the error indicates rate limiting.
func IsRateLimited(err error) bool {
	if errors.Is(err, ErrRateLimited) {
		return true
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 429
	}
	return false
}

// IsAuthError returns true if the error indicates an API key problem.
func IsAuthError(err error) bool {
	if errors.Is(err, ErrAuthError) {
		return true
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 401 || apiErr.StatusCode == 403
	}
	return false
}
