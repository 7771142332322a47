package store

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/lib/pq"

	"sales-dashboard/internal/config"
	apperrors "sales-dashboard/internal/errors"
)

// Provider hands out one database connection per call. Callers close it.
type Provider interface {
	Conn(ctx context.Context) (*sql.Conn, error)
}

// SQLProvider is a Provider backed by a database/sql handle.
type SQLProvider struct {
	db *sql.DB
}

func NewSQLProvider(db *sql.DB) *SQLProvider {
	return &SQLProvider{db: db}
}

// Open prepares a provider for the configured driver ("pgx" or "postgres").
// Idle connections are not kept, so each Conn dials a fresh session and
// closing it hangs up. Open does not contact the server.
func Open(cfg config.StoreConfig) (*SQLProvider, error) {
	db, err := sql.Open(cfg.Driver, cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", cfg.Driver, err)
	}
	db.SetMaxIdleConns(0)
	return NewSQLProvider(db), nil
}

func (p *SQLProvider) Conn(ctx context.Context) (*sql.Conn, error) {
	return p.db.Conn(ctx)
}

func (p *SQLProvider) Ping(ctx context.Context) error {
	if err := p.db.PingContext(ctx); err != nil {
		return apperrors.StoreUnavailable(err)
	}
	return nil
}

func (p *SQLProvider) Close() error {
	return p.db.Close()
}
