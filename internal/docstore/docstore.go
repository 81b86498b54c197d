// Package docstore is a small collection-scoped document store client.
// Backends share one contract: insert a document into a collection and read
// a collection back ordered by a single field.
package docstore

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"
)

// Document is a schemaless document body.
type Document map[string]any

// Snapshot is a document read back from a collection.
type Snapshot struct {
	ID   string
	Data Document
}

// Direction is the sort direction of a Query.
type Direction int

const (
	Ascending Direction = iota
	Descending
)

// Query describes an ordered read of a whole collection.
// Limit <= 0 means no limit.
type Query struct {
	OrderBy   string
	Direction Direction
	Limit     int
}

type serverTimestamp struct{}

// ServerTimestamp may be stored as a field value; the backend replaces it
// with its own clock when the document is written.
var ServerTimestamp any = serverTimestamp{}

// IsServerTimestamp reports whether v is the ServerTimestamp sentinel.
func IsServerTimestamp(v any) bool {
	_, ok := v.(serverTimestamp)
	return ok
}

// ErrUnknownDriver is returned by Open for an unsupported driver name.
var ErrUnknownDriver = errors.New("docstore: unknown driver")

// Store is implemented by every backend.
type Store interface {
	// Insert writes doc as a new document and returns its generated ID.
	Insert(ctx context.Context, collection string, doc Document) (string, error)
	// Query returns the documents of collection in q's order.
	Query(ctx context.Context, collection string, q Query) ([]Snapshot, error)
	Ping(ctx context.Context) error
	Close()
}

// String returns the string stored under key.
func (d Document) String(key string) (string, bool) {
	s, ok := d[key].(string)
	return s, ok
}

// Int returns the integer stored under key. JSON numbers, integer strings
// (as Firestore encodes them) and whole floats are accepted.
func (d Document) Int(key string) (int, bool) {
	switch v := d[key].(type) {
	case int:
		return v, true
	case int32:
		return int(v), true
	case int64:
		return int(v), true
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) || v != math.Trunc(v) {
			return 0, false
		}
		return int(v), true
	case string:
		n, err := strconv.Atoi(v)
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

// Time returns the timestamp stored under key, parsing RFC 3339 strings.
func (d Document) Time(key string) (time.Time, bool) {
	switch v := d[key].(type) {
	case time.Time:
		return v, true
	case string:
		t, err := time.Parse(time.RFC3339Nano, v)
		if err != nil {
			return time.Time{}, false
		}
		return t, true
	default:
		return time.Time{}, false
	}
}

func validate(collection string) error {
	if collection == "" {
		return fmt.Errorf("docstore: empty collection name")
	}
	return nil
}
