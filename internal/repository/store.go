// Package repository selects the test-area store backend from configuration.
package repository

import (
	"context"
	"fmt"
	"log/slog"

	"ocrbench/internal/config"
	"ocrbench/internal/port"
	"ocrbench/internal/repository/memory"
	"ocrbench/internal/repository/postgres"
	"ocrbench/internal/repository/redisstore"
)

// Store bundles the test-area repository with its readiness probe and the
// function that releases its connection.
type Store struct {
	TestAreas port.TestAreaRepository
	Pinger    port.Pinger
	Close     func() error
}

// Open connects the store named by cfg.Store.Driver: postgres, redis or memory.
func Open(ctx context.Context, cfg *config.Config) (*Store, error) {
	switch cfg.Store.Driver {
	case "postgres":
		db, err := postgres.NewDB(&cfg.DB)
		if err != nil {
			return nil, err
		}
		slog.Info("repository: using postgres store", "host", cfg.DB.Host, "db", cfg.DB.Name)
		return &Store{
			TestAreas: postgres.NewTestAreaRepo(db),
			Pinger:    postgres.NewPinger(db),
			Close:     db.Close,
		}, nil
	case "redis":
		client, err := redisstore.NewClient(ctx, &cfg.Redis)
		if err != nil {
			return nil, err
		}
		slog.Info("repository: using redis store", "addr", cfg.Redis.Addr, "prefix", cfg.Redis.KeyPrefix)
		return &Store{
			TestAreas: redisstore.NewTestAreaRepo(client, cfg.Redis.KeyPrefix),
			Pinger:    redisstore.NewPinger(client),
			Close:     client.Close,
		}, nil
	case "memory", "":
		slog.Warn("repository: using in-memory store, test areas are lost on restart")
		repo := memory.NewTestAreaRepo()
		pinger, _ := repo.(port.Pinger)
		return &Store{
			TestAreas: repo,
			Pinger:    pinger,
			Close:     func() error { return nil },
		}, nil
	default:
		return nil, fmt.Errorf("unknown store driver: %q", cfg.Store.Driver)
	}
}
