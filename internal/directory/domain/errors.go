package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNetwork means the request never reached the backend.
	ErrNetwork = errors.New("network error")
	// ErrServer means the backend answered with a 5xx status.
	ErrServer = errors.New("server error")
	// ErrValidation means the backend rejected the submitted data.
	ErrValidation = errors.New("validation error")
	// ErrNotFound means the targeted identity does not exist.
	ErrNotFound = errors.New("listing not found")
)

// APIError carries the HTTP status and backend detail behind one of the
// sentinel kinds above.
type APIError struct {
	Kind   error
	Status int
	Detail string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%v (status %d): %s", e.Kind, e.Status, e.Detail)
	}
	return fmt.Sprintf("%v (status %d)", e.Kind, e.Status)
}

func (e *APIError) Unwrap() error { return e.Kind }

// KindOf maps a status code onto the error taxonomy.
func KindOf(status int) error {
	switch {
	case status == 404:
		return ErrNotFound
	case status >= 500:
		return ErrServer
	case status >= 400:
		return ErrValidation
	default:
		return nil
	}
}
