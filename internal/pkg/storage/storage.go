package storage

import (
	"context"
	"errors"
	"io"
)

var (
	// ErrNotFound is returned by Get when nothing is stored under the path.
	ErrNotFound = errors.New("file not found")

	// ErrInvalidPath is returned when a path does not name a file inside the storage root.
	ErrInvalidPath = errors.New("invalid storage path")
)

// Storage defines the interface for document storage operations.
type Storage interface {
	// Save replaces the document stored at path with content.
	// Readers never observe a partially written document.
	Save(ctx context.Context, path string, content io.Reader) error

	// Get opens the document stored at path.
	// It returns an error wrapping ErrNotFound if the document does not exist.
	Get(ctx context.Context, path string) (io.ReadCloser, error)
}
