package fetch

import (
	"errors"
	"fmt"
)

// Messages carried by APIError.
const (
	msgInvalidData = "Invalid data format received from API"
	msgFailedFetch = "Failed to fetch"
)

// APIError reports a response the catalog API should not have sent: a
// non-success status or a payload that does not match the product schema.
// Transport failures are returned as ordinary wrapped errors instead.
type APIError struct {
	Message string
	Status  int   // HTTP status; 0 when the failure is not status related
	Err     error // underlying decode or validation error, if any
}

func (e *APIError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s (status %d)", e.Message, e.Status)
	}
	return e.Message
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// IsAPIError reports whether err is or wraps an *APIError.
func IsAPIError(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr)
}

// StatusOf returns the HTTP status carried by err, or 0.
func StatusOf(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

// Retryable reports whether repeating the request could succeed: transport
// failures, 429 and 5xx are; other API errors (4xx, bad payloads) are not.
func Retryable(err error) bool {
	if err == nil {
		return false
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return true
	}
	return apiErr.Status == 429 || apiErr.Status >= 500
}
