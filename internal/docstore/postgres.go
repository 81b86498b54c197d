package docstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewPool creates a PostgreSQL connection pool and checks connectivity.
func NewPool(ctx context.Context, connString string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}

// PgStore stores documents as JSONB rows of the documents table, scoped by
// project ID and collection name.
type PgStore struct {
	pool      *pgxpool.Pool
	projectID string
	timeout   time.Duration
}

// NewPgStore creates a PgStore backed by pool. A positive timeout bounds
// every call.
func NewPgStore(pool *pgxpool.Pool, projectID string, timeout time.Duration) *PgStore {
	return &PgStore{pool: pool, projectID: projectID, timeout: timeout}
}

func (s *PgStore) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.timeout)
}

var _ Store = (*PgStore)(nil)

// Insert stores doc. ServerTimestamp fields are filled with NOW() by the
// database.
func (s *PgStore) Insert(ctx context.Context, collection string, doc Document) (string, error) {
	if err := validate(collection); err != nil {
		return "", err
	}

	body := make(Document, len(doc))
	stamped := []string{}
	for k, v := range doc {
		if IsServerTimestamp(v) {
			stamped = append(stamped, k)
			continue
		}
		body[k] = v
	}
	raw, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("docstore: encode document: %w", err)
	}

	ctx, cancel := s.callContext(ctx)
	defer cancel()

	var id string
	err = s.pool.QueryRow(ctx,
		`INSERT INTO documents (id, project_id, collection, data)
		 SELECT $1, $2, $3, $4::jsonb || COALESCE(
		     (SELECT jsonb_object_agg(k, to_jsonb(NOW())) FROM unnest($5::text[]) AS k),
		     '{}'::jsonb)
		 RETURNING id::text`,
		uuid.New(), s.projectID, collection, string(raw), stamped,
	).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("docstore: insert into %s: %w", collection, err)
	}
	return id, nil
}

// Query reads collection ordered by a top-level document field. Documents
// without the field sort last.
func (s *PgStore) Query(ctx context.Context, collection string, q Query) ([]Snapshot, error) {
	if err := validate(collection); err != nil {
		return nil, err
	}

	dir := "ASC"
	if q.Direction == Descending {
		dir = "DESC"
	}
	order := "created_at " + dir
	args := []any{s.projectID, collection}
	if q.OrderBy != "" {
		args = append(args, q.OrderBy)
		order = "data -> $3::text " + dir + " NULLS LAST"
	}
	var limit any
	if q.Limit > 0 {
		limit = q.Limit
	}
	args = append(args, limit)

	query := fmt.Sprintf(`SELECT id::text, data FROM documents
		WHERE project_id = $1 AND collection = $2
		ORDER BY %s
		LIMIT $%d`, order, len(args))

	ctx, cancel := s.callContext(ctx)
	defer cancel()

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("docstore: query %s: %w", collection, err)
	}
	defer rows.Close()

	var out []Snapshot
	for rows.Next() {
		var snap Snapshot
		if err := rows.Scan(&snap.ID, &snap.Data); err != nil {
			return nil, fmt.Errorf("docstore: scan %s: %w", collection, err)
		}
		out = append(out, snap)
	}
	return out, rows.Err()
}

func (s *PgStore) Ping(ctx context.Context) error {
	ctx, cancel := s.callContext(ctx)
	defer cancel()
	return s.pool.Ping(ctx)
}

func (s *PgStore) Close() { s.pool.Close() }
