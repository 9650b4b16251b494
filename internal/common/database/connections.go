package database

import (
	"context"
	"errors"
	"sync"
	"time"

	"claims-registry/internal/common/config"
	apperrors "claims-registry/internal/common/errors"

	"golang.org/x/sync/errgroup"
)

// PingTimeout bounds each backend check.
const PingTimeout = 5 * time.Second

// Backend is one optional registry dependency.
type Backend interface {
	Role() string
	Ping(ctx context.Context) error
	Close() error
}

// Connections holds the registry backends enabled in configuration. Nil
// fields are disabled and the registry falls back to memory.
type Connections struct {
	Claims *ClaimsDB
	Cache  *ViewCache
	Search *SearchMirror
}

// Open creates clients for every enabled backend and pings them
// concurrently. Any failure closes what was opened.
func Open(ctx context.Context, cfg config.DatabaseConfig) (*Connections, error) {
	conns := &Connections{}

	if cfg.Postgres.Enabled {
		db, err := OpenClaimsDB(cfg.Postgres)
		if err != nil {
			return nil, apperrors.NewDatabaseConnectionFailedError(err)
		}
		conns.Claims = db
	}
	if cfg.Redis.Enabled {
		conns.Cache = OpenViewCache(cfg.Redis)
	}
	if cfg.Elasticsearch.Enabled {
		es, err := OpenSearchMirror(cfg.Elasticsearch)
		if err != nil {
			_ = conns.Close()
			return nil, apperrors.NewDatabaseConnectionFailedError(err)
		}
		conns.Search = es
	}

	if err := conns.Ping(ctx); err != nil {
		_ = conns.Close()
		return nil, apperrors.NewDatabaseConnectionFailedError(err)
	}
	return conns, nil
}

// Backends lists the enabled backends in a fixed order.
func (c *Connections) Backends() []Backend {
	var out []Backend
	if c.Claims != nil {
		out = append(out, c.Claims)
	}
	if c.Cache != nil {
		out = append(out, c.Cache)
	}
	if c.Search != nil {
		out = append(out, c.Search)
	}
	return out
}

// Ping fails on the first backend that does not answer.
func (c *Connections) Ping(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, b := range c.Backends() {
		g.Go(func() error {
			pctx, cancel := context.WithTimeout(ctx, PingTimeout)
			defer cancel()
			return b.Ping(pctx)
		})
	}
	return g.Wait()
}

// Status pings every backend and reports "ok" or the error text per role.
func (c *Connections) Status(ctx context.Context) map[string]string {
	var (
		mu  sync.Mutex
		wg  sync.WaitGroup
		out = make(map[string]string)
	)
	for _, b := range c.Backends() {
		wg.Add(1)
		go func() {
			defer wg.Done()
			pctx, cancel := context.WithTimeout(ctx, PingTimeout)
			defer cancel()

			status := "ok"
			if err := b.Ping(pctx); err != nil {
				status = err.Error()
			}
			mu.Lock()
			out[b.Role()] = status
			mu.Unlock()
		}()
	}
	wg.Wait()
	return out
}

func (c *Connections) Close() error {
	var errs []error
	for _, b := range c.Backends() {
		errs = append(errs, b.Close())
	}
	return errors.Join(errs...)
}
