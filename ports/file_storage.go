package ports

import (
	"context"
	"io"
)

// FileStorage defines the interface for uploaded file blob storage
type FileStorage interface {
	// Store persists the stream and returns an opaque path handle
	Store(ctx context.Context, r io.Reader, filename string) (string, error)

	// Open returns a reader for a previously stored file
	Open(ctx context.Context, path string) (io.ReadCloser, error)

	// Delete removes a stored file; deleting a missing file is not an error
	Delete(ctx context.Context, path string) error
}
