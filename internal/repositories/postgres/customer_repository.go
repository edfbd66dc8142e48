package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"

	domain "github.com/techstore/api/internal/domain"
	platform "github.com/techstore/api/internal/platform/postgres"
)

// CustomerRepository persists customers in the customers relation.
type CustomerRepository struct {
	pool *pgxpool.Pool
}

// NewCustomerRepository constructs a customer repository bound to the pool.
func NewCustomerRepository(pool *pgxpool.Pool) *CustomerRepository {
	return &CustomerRepository{pool: pool}
}

const customerColumns = `id, full_name, email, phone, address, city, postal_code, created_at, updated_at`

// FindByEmail looks a customer up by exact email match.
func (r *CustomerRepository) FindByEmail(ctx context.Context, email string) (domain.Customer, error) {
	if r == nil || r.pool == nil {
		return domain.Customer{}, errors.New("customer repository: not initialised")
	}

	row := r.pool.QueryRow(ctx,
		`SELECT `+customerColumns+` FROM customers WHERE email = $1`,
		email,
	)

	var c domain.Customer
	if err := row.Scan(&c.ID, &c.FullName, &c.Email, &c.Phone, &c.Address, &c.City, &c.PostalCode, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return domain.Customer{}, platform.WrapError("customers.find_by_email", err)
	}
	return c, nil
}

// Insert creates a new customer row. The unique index on email is the
// backstop for concurrent inserts of the same address; a violation surfaces
// as a conflict error.
func (r *CustomerRepository) Insert(ctx context.Context, customer domain.Customer) (domain.Customer, error) {
	if r == nil || r.pool == nil {
		return domain.Customer{}, errors.New("customer repository: not initialised")
	}

	row := r.pool.QueryRow(ctx,
		`INSERT INTO customers (full_name, email, phone, address, city, postal_code)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at, updated_at`,
		customer.FullName, customer.Email, customer.Phone, customer.Address, customer.City, customer.PostalCode,
	)

	if err := row.Scan(&customer.ID, &customer.CreatedAt, &customer.UpdatedAt); err != nil {
		return domain.Customer{}, platform.WrapError("customers.insert", err)
	}
	return customer, nil
}
