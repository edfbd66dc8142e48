package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"

	platform "github.com/techstore/api/internal/platform/postgres"
	"github.com/techstore/api/internal/repositories"
)

// Registry bundles the Postgres backed repositories around a shared pool.
type Registry struct {
	provider  *platform.Provider
	customers *CustomerRepository
	orders    *OrderRepository
	products  *ProductRepository
	health    *HealthRepository
}

// NewRegistry constructs the repository registry on top of the pool provider.
func NewRegistry(ctx context.Context, provider *platform.Provider) (*Registry, error) {
	if provider == nil {
		return nil, errors.New("postgres registry: provider is required")
	}
	pool, err := provider.Pool(ctx)
	if err != nil {
		return nil, err
	}
	return &Registry{
		provider:  provider,
		customers: NewCustomerRepository(pool),
		orders:    NewOrderRepository(pool),
		products:  NewProductRepository(pool),
		health:    NewHealthRepository(pool),
	}, nil
}

// Close releases the underlying connection pool.
func (r *Registry) Close(ctx context.Context) error {
	if r == nil || r.provider == nil {
		return nil
	}
	return r.provider.Close(ctx)
}

func (r *Registry) Customers() repositories.CustomerRepository { return r.customers }
func (r *Registry) Orders() repositories.OrderRepository       { return r.orders }
func (r *Registry) Products() repositories.ProductRepository   { return r.products }
func (r *Registry) Health() repositories.HealthRepository      { return r.health }

// HealthRepository verifies database connectivity for readiness probes.
type HealthRepository struct {
	pool *pgxpool.Pool
}

// NewHealthRepository constructs a health repository bound to the pool.
func NewHealthRepository(pool *pgxpool.Pool) *HealthRepository {
	return &HealthRepository{pool: pool}
}

// Ping checks that a connection can be acquired and the server responds.
func (r *HealthRepository) Ping(ctx context.Context) error {
	if r == nil || r.pool == nil {
		return errors.New("health repository: not initialised")
	}
	return platform.WrapError("health.ping", r.pool.Ping(ctx))
}
