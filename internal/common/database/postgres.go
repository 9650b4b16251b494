package database

import (
	"context"
	"database/sql"
	"fmt"

	"claims-registry/internal/common/config"

	_ "github.com/lib/pq"
)

// ClaimsDB is the pool behind the postgres claim repository.
type ClaimsDB struct {
	DB *sql.DB
}

// OpenClaimsDB sizes the pool from cfg. The server is not contacted until Ping.
func OpenClaimsDB(cfg config.PostgresConfig) (*ClaimsDB, error) {
	db, err := sql.Open("postgres", cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("open claims database: %w", err)
	}

	lifetime := config.GetDuration(cfg.MaxLifetime)
	db.SetMaxOpenConns(cfg.MaxConnections)
	db.SetMaxIdleConns(cfg.MaxIdle)
	db.SetConnMaxLifetime(lifetime)
	db.SetConnMaxIdleTime(lifetime)

	return &ClaimsDB{DB: db}, nil
}

func (c *ClaimsDB) Role() string { return "claimsDb" }

func (c *ClaimsDB) Ping(ctx context.Context) error {
	if err := c.DB.PingContext(ctx); err != nil {
		return fmt.Errorf("claims database ping: %w", err)
	}
	return nil
}

// InUse reports the connections currently checked out of the pool.
func (c *ClaimsDB) InUse() int {
	return c.DB.Stats().InUse
}

func (c *ClaimsDB) Close() error {
	if c.DB == nil {
		return nil
	}
	return c.DB.Close()
}
