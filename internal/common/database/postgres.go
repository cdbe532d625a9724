// internal/common/database/postgres.go
package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"provider-ranking-workers/internal/common/config"
)

const postgresDriver = "postgres"

// PostgresClient wraps the provider database connection
type PostgresClient struct {
	DB *sqlx.DB
}

// NewPostgres opens a pooled connection. It does not dial; call Ping.
func NewPostgres(cfg config.PostgresConfig) (*PostgresClient, error) {
	db, err := sqlx.Open(postgresDriver, cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxConnections)
	db.SetMaxIdleConns(cfg.MaxIdle)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)

	return &PostgresClient{DB: db}, nil
}

// WrapPostgres adapts an existing *sql.DB, e.g. one returned by sqlmock.
func WrapPostgres(db *sql.DB) *PostgresClient {
	return &PostgresClient{DB: sqlx.NewDb(db, postgresDriver)}
}

func (c *PostgresClient) Ping(ctx context.Context) error {
	if err := c.DB.PingContext(ctx); err != nil {
		return fmt.Errorf("postgres ping failed: %w", err)
	}
	return nil
}

func (c *PostgresClient) Close() error {
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}

// SQL returns the underlying *sql.DB for callers that do not need sqlx.
func (c *PostgresClient) SQL() *sql.DB {
	return c.DB.DB
}
