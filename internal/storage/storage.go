package storage

import (
	"context"
	"errors"
	"io"
)

// ErrInvalidKey is returned for keys that would escape the storage root.
var ErrInvalidKey = errors.New("storage: invalid key")

// Storage stores uploaded avatar images and returns the URL they are served at.
type Storage interface {
	// Save writes data under key (e.g. "avatars/<uuid>.png") and returns its
	// public URL.
	Save(ctx context.Context, key string, data io.Reader, contentType string) (url string, err error)

	// Delete removes key. A missing file is not an error.
	Delete(ctx context.Context, key string) error
}
