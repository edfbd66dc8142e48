package repositories

import (
	"context"

	domain "github.com/techstore/api/internal/domain"
)

// Registry exposes typed repository accessors and lifecycle hooks for dependency injection.
type Registry interface {
	Close(ctx context.Context) error

	Customers() CustomerRepository
	Orders() OrderRepository
	Products() ProductRepository
	Health() HealthRepository
}

// RepositoryError wraps low-level persistence failures with categorisation used by services.
type RepositoryError interface {
	error
	IsNotFound() bool
	IsConflict() bool
	IsInvalidReference() bool
	IsUnavailable() bool
}

// CustomerRepository persists customer records keyed by email.
type CustomerRepository interface {
	// FindByEmail performs a case-sensitive exact match on the stored email.
	FindByEmail(ctx context.Context, email string) (domain.Customer, error)
	// Insert creates a new customer row. A concurrent insert for the same
	// email surfaces as a conflict via the unique index on email.
	Insert(ctx context.Context, customer domain.Customer) (domain.Customer, error)
}

// OrderRepository persists order headers and their line items.
type OrderRepository interface {
	// Create inserts the order header and every line item as a single
	// transaction. Either all rows become visible or none do.
	Create(ctx context.Context, order domain.Order, items []domain.OrderItem) (domain.Order, error)
	// FindByNumber returns the order header, the owning customer, and the
	// line items for the given order number.
	FindByNumber(ctx context.Context, orderNumber string) (domain.Order, domain.Customer, []domain.OrderItem, error)
	// UpdateStatus transitions the order status, reporting whether a row matched.
	UpdateStatus(ctx context.Context, orderNumber string, status domain.OrderStatus) (bool, error)
}

// ProductRepository reads the catalog and adjusts stock counters.
type ProductRepository interface {
	ListActive(ctx context.Context) ([]domain.Product, error)
	FindByID(ctx context.Context, productID int64) (domain.Product, error)
	// DecrementStock issues a relative decrement so concurrent adjustments
	// on the same product do not lose updates. Returns false when no row
	// matched the product id. Stock may go negative; the schema does not
	// guard against over-selling.
	DecrementStock(ctx context.Context, productID int64, quantity int) (bool, error)
}

// HealthRepository verifies connectivity to the persistence layer.
type HealthRepository interface {
	Ping(ctx context.Context) error
}
