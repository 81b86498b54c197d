package repository

import "errors"

// ErrStoreNotConfigured is returned by writes when no document store was injected.
var ErrStoreNotConfigured = errors.New("document store not configured")
