// Package backend opens the storage driver selected in the configuration
// and exposes it through the repository interfaces.
package backend

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/Clark-Hu/recipebox/internal/config"
	"github.com/Clark-Hu/recipebox/internal/docstore"
	"github.com/Clark-Hu/recipebox/internal/repository"
	"github.com/Clark-Hu/recipebox/internal/store"
)

// Backend is an opened store plus the repositories built on it.
type Backend struct {
	Driver string
	Repo   *repository.Repository

	health func(context.Context) error
	close  func()
}

// Open connects to the configured driver and prepares its schema: Postgres
// migrations or Mongo indexes.
func Open(ctx context.Context, cfg config.Config, logger zerolog.Logger) (*Backend, error) {
	connTimeout := time.Duration(cfg.DBConnTimeoutSecs) * time.Second

	switch cfg.StoreDriver {
	case config.DriverPostgres:
		st, err := store.New(ctx, cfg.DBURL, store.Options{
			MaxConns:               int32(cfg.DBMaxConns),
			MinConns:               int32(cfg.DBMinConns),
			MaxConnIdleTime:        time.Duration(cfg.DBMaxIdleSecs) * time.Second,
			MaxConnLifetime:        time.Duration(cfg.DBMaxLifeSecs) * time.Second,
			ConnTimeout:            connTimeout,
			StatementCacheCapacity: cfg.DBStatementCache,
			Logger:                 logger,
		})
		if err != nil {
			return nil, err
		}
		if err := st.Migrate(ctx); err != nil {
			st.Close()
			return nil, err
		}
		return &Backend{
			Driver: cfg.StoreDriver,
			Repo:   repository.New(st),
			health: st.HealthCheck,
			close:  st.Close,
		}, nil

	case config.DriverMongo:
		ds, err := docstore.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase, docstore.Options{
			ConnTimeout: connTimeout,
			MaxPoolSize: uint64(cfg.DBMaxConns),
			Logger:      logger,
		})
		if err != nil {
			return nil, err
		}
		if err := ds.EnsureIndexes(ctx); err != nil {
			ds.Close()
			return nil, err
		}
		return &Backend{
			Driver: cfg.StoreDriver,
			Repo:   docstore.NewRepository(ds.Database()),
			health: ds.HealthCheck,
			close:  ds.Close,
		}, nil

	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}

// HealthCheck pings the underlying store.
func (b *Backend) HealthCheck(ctx context.Context) error {
	return b.health(ctx)
}

// Close releases the connection pool.
func (b *Backend) Close() {
	if b.close != nil {
		b.close()
	}
}
