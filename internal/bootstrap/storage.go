package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dentnotion/dentnotion/config"
	"github.com/dentnotion/dentnotion/internal/adapters/filestore"
	"github.com/dentnotion/dentnotion/internal/adapters/postgres"
	redisstore "github.com/dentnotion/dentnotion/internal/adapters/redis"
	"github.com/dentnotion/dentnotion/internal/ports"
)

// NewSessionStorage builds the configured session storage driver. The returned
// cleanup closes any underlying connection and is safe to call once.
//
//nolint:ireturn // the driver switch is the point of this function.
func NewSessionStorage(ctx context.Context, cfg config.AppConfig, logger *slog.Logger) (ports.SessionStorage, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Storage.Driver {
	case config.StorageFile:
		store, err := filestore.New(cfg.Session.FilePath)
		if err != nil {
			return nil, nil, fmt.Errorf("file session storage: %w", err)
		}
		return store, noop, nil

	case config.StorageRedis:
		client, err := ConnectRedis(ctx, cfg.Redis, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("redis session storage: %w", err)
		}
		// Zero TTL: the record must outlive the guard cookie, since the
		// refresh token inside it is what revives an expired session.
		return redisstore.NewStorage(client, 0), client.Close, nil

	case config.StoragePostgres:
		pool, err := ConnectPostgres(ctx, cfg.Postgres, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("postgres session storage: %w", err)
		}
		store := postgres.NewStorage(pool)
		if err := store.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("postgres session storage: %w", err)
		}
		cleanup := func() error {
			pool.Close()
			return nil
		}
		return store, cleanup, nil

	default:
		return nil, nil, fmt.Errorf("unknown session storage driver %q", cfg.Storage.Driver)
	}
}
