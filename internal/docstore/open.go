package docstore

import (
	"context"
	"fmt"

	"github.com/sketchfolio/backend/internal/config"
)

// Open connects the backend selected by cfg.Driver. Callers check
// cfg.Configured() first; Open does not fall back to anything.
func Open(ctx context.Context, cfg config.Store) (Store, error) {
	switch cfg.Driver {
	case config.DriverFirestore, "":
		return NewFirestoreStore(FirestoreConfig{
			ProjectID: cfg.ProjectID,
			APIKey:    cfg.APIKey,
			Timeout:   cfg.Timeout,
		}), nil
	case config.DriverPostgres:
		pool, err := NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("docstore: connect postgres: %w", err)
		}
		return NewPgStore(pool, cfg.ProjectID, cfg.Timeout), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Driver)
	}
}
