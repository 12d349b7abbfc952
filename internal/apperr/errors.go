// Package apperr defines sentinel errors shared across the service layers.
package apperr

import "errors"

var (
	ErrNotFound    = errors.New("not found")
	ErrUnavailable = errors.New("search unavailable")
)
