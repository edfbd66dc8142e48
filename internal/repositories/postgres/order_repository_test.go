//go:build integration

package postgres

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	domain "github.com/techstore/api/internal/domain"
	platform "github.com/techstore/api/internal/platform/postgres"
)

// Run with: go test -tags integration ./internal/repositories/postgres
// against a throwaway database named by TEST_DATABASE_URL.
func TestOrderCreateRollsBackWhenItemInsertFails(t *testing.T) {
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	provider := platform.NewProvider(platform.Config{URL: url, MaxConns: 2})
	t.Cleanup(func() { _ = provider.Close(context.Background()) })

	pool, err := provider.Pool(ctx)
	require.NoError(t, err)
	require.NoError(t, ApplySchema(ctx, pool))

	marker := fmt.Sprintf("rollback-%d", time.Now().UnixNano())

	var customerID int64
	require.NoError(t, pool.QueryRow(ctx,
		`INSERT INTO customers (full_name, email, phone, address, city, postal_code)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id`,
		"Ahmed Al-Rashid", marker+"@example.com", "+964 770 123 4567",
		"14 Al-Mansour St", "Baghdad", "10001",
	).Scan(&customerID))

	var productID int64
	require.NoError(t, pool.QueryRow(ctx,
		`INSERT INTO products (name, price, stock_quantity)
		 VALUES ($1, $2::numeric, $3)
		 RETURNING id`,
		marker, "199.99", 10,
	).Scan(&productID))

	repo := NewOrderRepository(pool)
	orderNumber := "ORD" + marker
	order := domain.Order{
		OrderNumber:   orderNumber,
		CustomerID:    customerID,
		TotalAmount:   decimal.RequireFromString("399.98"),
		Status:        domain.OrderStatusPending,
		PaymentMethod: domain.PaymentMethodCOD,
	}
	items := []domain.OrderItem{
		{
			ProductID:    productID,
			ProductName:  marker,
			ProductPrice: decimal.RequireFromString("199.99"),
			Quantity:     1,
			Subtotal:     decimal.RequireFromString("199.99"),
		},
		{
			// References a product row that does not exist, so the second
			// item insert violates the foreign key after the header and the
			// first item have already been written inside the transaction.
			ProductID:    productID + 1_000_000,
			ProductName:  marker,
			ProductPrice: decimal.RequireFromString("199.99"),
			Quantity:     1,
			Subtotal:     decimal.RequireFromString("199.99"),
		},
	}

	_, err = repo.Create(ctx, order, items)
	var repoErr *platform.Error
	require.ErrorAs(t, err, &repoErr)
	require.True(t, repoErr.IsInvalidReference())

	var headers int
	require.NoError(t, pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM orders WHERE order_number = $1`, orderNumber,
	).Scan(&headers))
	require.Zero(t, headers, "order header must not survive a failed item insert")

	var lines int
	require.NoError(t, pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM order_items WHERE product_name = $1`, marker,
	).Scan(&lines))
	require.Zero(t, lines, "no line items must survive a failed item insert")
}
