package postgres

import (
	"context"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"

	"ocrbench/internal/config"
	"ocrbench/internal/port"
)

// NewDB creates a new PostgreSQL connection pool.
func NewDB(cfg *config.DBConfig) (*sqlx.DB, error) {
	db, err := sqlx.Connect("pgx", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}
	db.SetMaxOpenConns(cfg.MaxOpen)
	db.SetMaxIdleConns(cfg.MaxIdle)
	return db, nil
}

type pinger struct {
	db *sqlx.DB
}

// NewPinger reports database reachability for readiness checks.
func NewPinger(db *sqlx.DB) port.Pinger {
	return &pinger{db: db}
}

func (p *pinger) Ping(ctx context.Context) error {
	return p.db.PingContext(ctx)
}
