package repository

import (
	"context"
	"fmt"
	"time"

	"slotbook/pkg/config"
	"slotbook/pkg/model"

	"go.mongodb.org/mongo-driver/mongo"
)

// Store is the durable collection of reservations. Save replaces the whole
// collection at once; there are no incremental writes.
type Store interface {
	// Load returns every stored reservation. A missing or empty store yields
	// an empty slice. A corrupt store is reinitialized to empty.
	Load(ctx context.Context) ([]*model.Reservation, error)
	Save(ctx context.Context, reservations []*model.Reservation) error
	Ping(ctx context.Context) error
}

// NewStore opens the backend selected by cfg.StoreBackend.
func NewStore(cfg *config.Config) (Store, error) {
	switch cfg.StoreBackend {
	case config.StoreMongo:
		if cfg.Client.Mongo == nil {
			cfg.SetMongo()
		}
		return NewMongoStore(cfg), nil
	case config.StoreXlsx:
		return NewXlsxStore(cfg.XlsxPath, cfg.Log.Component("xlsx-store"))
	case config.StoreMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}

// withTimeout wraps the context with a timeout if not already in a transaction.
// A SessionContext cannot be wrapped without breaking transaction semantics, so
// it is returned unchanged with a no-op cancel function.
func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}

	deadline, hasDeadline := ctx.Deadline()
	if !hasDeadline {
		return context.WithTimeout(ctx, timeout)
	}

	remaining := time.Until(deadline)
	if remaining < timeout {
		return context.WithTimeout(ctx, remaining)
	}

	return context.WithTimeout(ctx, timeout)
}
