package docstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore keeps documents in process memory. Queries are stable, so
// documents with equal sort keys come back in insertion order.
type MemoryStore struct {
	mu          sync.RWMutex
	now         func() time.Time
	collections map[string][]Snapshot
}

// NewMemoryStore creates an empty MemoryStore. now resolves
// ServerTimestamp values; nil means time.Now.
func NewMemoryStore(now func() time.Time) *MemoryStore {
	if now == nil {
		now = time.Now
	}
	return &MemoryStore{now: now, collections: make(map[string][]Snapshot)}
}

var _ Store = (*MemoryStore)(nil)

func (s *MemoryStore) Insert(ctx context.Context, collection string, doc Document) (string, error) {
	if err := validate(collection); err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	data := make(Document, len(doc))
	for k, v := range doc {
		if IsServerTimestamp(v) {
			v = s.now().UTC()
		}
		data[k] = v
	}

	id := uuid.NewString()
	s.mu.Lock()
	s.collections[collection] = append(s.collections[collection], Snapshot{ID: id, Data: data})
	s.mu.Unlock()
	return id, nil
}

func (s *MemoryStore) Query(ctx context.Context, collection string, q Query) ([]Snapshot, error) {
	if err := validate(collection); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	src := s.collections[collection]
	out := make([]Snapshot, len(src))
	for i, snap := range src {
		data := make(Document, len(snap.Data))
		for k, v := range snap.Data {
			data[k] = v
		}
		out[i] = Snapshot{ID: snap.ID, Data: data}
	}
	s.mu.RUnlock()

	if q.OrderBy != "" {
		sort.SliceStable(out, func(i, j int) bool {
			c := compareValues(out[i].Data[q.OrderBy], out[j].Data[q.OrderBy])
			if q.Direction == Descending {
				return c > 0
			}
			return c < 0
		})
	}
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

func (s *MemoryStore) Ping(ctx context.Context) error { return ctx.Err() }

func (s *MemoryStore) Close() {}

// compareValues orders missing values first, then numbers, then strings,
// then timestamps.
func compareValues(a, b any) int {
	ra, rb := rank(a), rank(b)
	if ra != rb {
		return ra - rb
	}
	switch ra {
	case 1:
		fa, fb := toFloat(a), toFloat(b)
		switch {
		case fa < fb:
			return -1
		case fa > fb:
			return 1
		}
	case 2:
		sa, sb := a.(string), b.(string)
		switch {
		case sa < sb:
			return -1
		case sa > sb:
			return 1
		}
	case 3:
		return a.(time.Time).Compare(b.(time.Time))
	}
	return 0
}

func rank(v any) int {
	switch v.(type) {
	case int, int32, int64, float64:
		return 1
	case string:
		return 2
	case time.Time:
		return 3
	default:
		return 0
	}
}

func toFloat(v any) float64 {
	switch n := v.(type) {
	case int:
		return float64(n)
	case int32:
		return float64(n)
	case int64:
		return float64(n)
	case float64:
		return n
	}
	return 0
}
