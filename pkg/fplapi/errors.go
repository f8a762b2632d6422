package fplapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// NetworkError is a transport-level failure: the backend could not be reached.
type NetworkError struct {
	BaseURL string
	Err     error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("Cannot reach the prediction backend at %s. Start the API server and try again.", e.BaseURL)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// APIError is a non-2xx answer from the backend. Detail holds the server's
// detail or message field, or the HTTP status text when the body had neither.
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	if text := http.StatusText(e.StatusCode); text != "" {
		return text
	}
	return "Request failed"
}

// Message reduces any client error to the single string shown in the UI.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var netErr *NetworkError
	if errors.As(err, &netErr) {
		return netErr.Error()
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Error()
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "The request timed out."
	}
	if errors.Is(err, context.Canceled) {
		return "The request was cancelled."
	}
	return err.Error()
}

