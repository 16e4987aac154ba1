package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Not found errors
	ErrNotFound        = errors.New("resource not found")
	ErrDatasetNotFound = fmt.Errorf("%w: dataset", ErrNotFound)

	// Ingestion errors
	ErrDecode        = errors.New("no supported encoding could decode the file")
	ErrEmptyInput    = errors.New("file contains no data rows")
	ErrNoColumns     = errors.New("file header contains no columns")
	ErrInvalidUpload = errors.New("invalid upload")

	// Rendering errors
	ErrChartRender = errors.New("chart rendering failed")
)

// Error constructors with context
func NewNotFoundError(resource string, id string) error {
	return fmt.Errorf("%w: %s with id %s", ErrNotFound, resource, id)
}

func NewDecodeError(lastErr error) error {
	if lastErr == nil {
		return ErrDecode
	}
	return fmt.Errorf("%w: last error: %v", ErrDecode, lastErr)
}

func NewInvalidUploadError(reason string) error {
	return fmt.Errorf("%w: %s", ErrInvalidUpload, reason)
}

// Error checking helpers
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsIngestError reports whether err is a terminal decode/validation error.
// These are caller mistakes (bad file), not server faults.
func IsIngestError(err error) bool {
	return errors.Is(err, ErrDecode) ||
		errors.Is(err, ErrEmptyInput) ||
		errors.Is(err, ErrNoColumns) ||
		errors.Is(err, ErrInvalidUpload)
}
