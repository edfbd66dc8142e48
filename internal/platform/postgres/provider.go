package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	defaultMaxConns        = 10
	defaultMinConns        = 2
	defaultMaxConnLifetime = time.Hour
	defaultMaxConnIdleTime = 30 * time.Minute
	defaultPingTimeout     = 5 * time.Second
)

// Config controls how the shared connection pool is established.
type Config struct {
	URL             string
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// Provider lazily constructs and caches a pgx connection pool. The pool is a
// process-scoped resource; components receive it by injection rather than
// through package-level state.
type Provider struct {
	cfg Config

	mu   sync.Mutex
	pool *pgxpool.Pool
}

// NewProvider returns a provider for the supplied configuration.
func NewProvider(cfg Config) *Provider {
	return &Provider{cfg: cfg}
}

// Pool returns the shared connection pool, creating it on first use.
func (p *Provider) Pool(ctx context.Context) (*pgxpool.Pool, error) {
	if p == nil {
		return nil, errors.New("postgres provider: not initialised")
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.pool != nil {
		return p.pool, nil
	}

	url := strings.TrimSpace(p.cfg.URL)
	if url == "" {
		return nil, errors.New("postgres provider: database url is required")
	}

	poolCfg, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("postgres provider: parse database url: %w", err)
	}

	poolCfg.MaxConns = p.cfg.MaxConns
	if poolCfg.MaxConns <= 0 {
		poolCfg.MaxConns = defaultMaxConns
	}
	poolCfg.MinConns = p.cfg.MinConns
	if poolCfg.MinConns <= 0 {
		poolCfg.MinConns = defaultMinConns
	}
	poolCfg.MaxConnLifetime = p.cfg.MaxConnLifetime
	if poolCfg.MaxConnLifetime <= 0 {
		poolCfg.MaxConnLifetime = defaultMaxConnLifetime
	}
	poolCfg.MaxConnIdleTime = p.cfg.MaxConnIdleTime
	if poolCfg.MaxConnIdleTime <= 0 {
		poolCfg.MaxConnIdleTime = defaultMaxConnIdleTime
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("postgres provider: create pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, defaultPingTimeout)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres provider: ping database: %w", err)
	}

	p.pool = pool
	return p.pool, nil
}

// Close releases the pooled connections.
func (p *Provider) Close(context.Context) error {
	if p == nil {
		return nil
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.pool != nil {
		p.pool.Close()
		p.pool = nil
	}
	return nil
}
