package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	domain "github.com/techstore/api/internal/domain"
	platform "github.com/techstore/api/internal/platform/postgres"
)

// OrderRepository persists order headers and line items.
type OrderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository constructs an order repository bound to the pool.
func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

// Create inserts the order header and all line items inside one transaction.
// Any failure (duplicate order number, unknown product, connectivity loss)
// rolls the whole unit back; no partial order is ever visible to readers.
func (r *OrderRepository) Create(ctx context.Context, order domain.Order, items []domain.OrderItem) (domain.Order, error) {
	if r == nil || r.pool == nil {
		return domain.Order{}, errors.New("order repository: not initialised")
	}
	if len(items) == 0 {
		return domain.Order{}, errors.New("order repository: at least one line item is required")
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return domain.Order{}, platform.WrapError("orders.begin", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	row := tx.QueryRow(ctx,
		`INSERT INTO orders (order_number, customer_id, total_amount, status, payment_method, delivery_notes)
		 VALUES ($1, $2, $3::numeric, $4, $5, NULLIF($6, ''))
		 RETURNING id, created_at, updated_at`,
		order.OrderNumber, order.CustomerID, order.TotalAmount.StringFixed(2),
		string(order.Status), string(order.PaymentMethod), order.DeliveryNotes,
	)
	if err := row.Scan(&order.ID, &order.CreatedAt, &order.UpdatedAt); err != nil {
		return domain.Order{}, platform.WrapError("orders.insert", err)
	}

	for _, item := range items {
		_, err := tx.Exec(ctx,
			`INSERT INTO order_items (order_id, product_id, product_name, product_price, quantity, subtotal)
			 VALUES ($1, $2, $3, $4::numeric, $5, $6::numeric)`,
			order.ID, item.ProductID, item.ProductName, item.ProductPrice.StringFixed(2),
			item.Quantity, item.Subtotal.StringFixed(2),
		)
		if err != nil {
			return domain.Order{}, platform.WrapError("orders.insert_item", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.Order{}, platform.WrapError("orders.commit", err)
	}
	return order, nil
}

// FindByNumber loads the order header joined with the owning customer, plus
// every line item inserted for it.
func (r *OrderRepository) FindByNumber(ctx context.Context, orderNumber string) (domain.Order, domain.Customer, []domain.OrderItem, error) {
	if r == nil || r.pool == nil {
		return domain.Order{}, domain.Customer{}, nil, errors.New("order repository: not initialised")
	}

	row := r.pool.QueryRow(ctx,
		`SELECT o.id, o.order_number, o.customer_id, o.total_amount::text, o.status, o.payment_method,
		        COALESCE(o.delivery_notes, ''), o.created_at, o.updated_at,
		        c.id, c.full_name, c.email, c.phone, c.address, c.city, c.postal_code, c.created_at, c.updated_at
		 FROM orders o
		 JOIN customers c ON o.customer_id = c.id
		 WHERE o.order_number = $1`,
		orderNumber,
	)

	var (
		order    domain.Order
		customer domain.Customer
		total    string
		status   string
		payment  string
	)
	if err := row.Scan(
		&order.ID, &order.OrderNumber, &order.CustomerID, &total, &status, &payment,
		&order.DeliveryNotes, &order.CreatedAt, &order.UpdatedAt,
		&customer.ID, &customer.FullName, &customer.Email, &customer.Phone,
		&customer.Address, &customer.City, &customer.PostalCode, &customer.CreatedAt, &customer.UpdatedAt,
	); err != nil {
		return domain.Order{}, domain.Customer{}, nil, platform.WrapError("orders.find_by_number", err)
	}

	amount, err := decimal.NewFromString(total)
	if err != nil {
		return domain.Order{}, domain.Customer{}, nil, platform.WrapError("orders.find_by_number", err)
	}
	order.TotalAmount = amount
	order.Status = domain.OrderStatus(status)
	order.PaymentMethod = domain.PaymentMethod(payment)

	items, err := r.itemsByOrderID(ctx, order.ID)
	if err != nil {
		return domain.Order{}, domain.Customer{}, nil, err
	}
	return order, customer, items, nil
}

func (r *OrderRepository) itemsByOrderID(ctx context.Context, orderID int64) ([]domain.OrderItem, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, order_id, product_id, product_name, product_price::text, quantity, subtotal::text, created_at
		 FROM order_items
		 WHERE order_id = $1
		 ORDER BY id`,
		orderID,
	)
	if err != nil {
		return nil, platform.WrapError("orders.list_items", err)
	}
	defer rows.Close()

	var items []domain.OrderItem
	for rows.Next() {
		var (
			item     domain.OrderItem
			price    string
			subtotal string
		)
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.ProductName, &price, &item.Quantity, &subtotal, &item.CreatedAt); err != nil {
			return nil, platform.WrapError("orders.list_items", err)
		}
		if item.ProductPrice, err = decimal.NewFromString(price); err != nil {
			return nil, platform.WrapError("orders.list_items", err)
		}
		if item.Subtotal, err = decimal.NewFromString(subtotal); err != nil {
			return nil, platform.WrapError("orders.list_items", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, platform.WrapError("orders.list_items", err)
	}
	return items, nil
}

// UpdateStatus transitions the order identified by its number to the given
// status, reporting whether any row matched.
func (r *OrderRepository) UpdateStatus(ctx context.Context, orderNumber string, status domain.OrderStatus) (bool, error) {
	if r == nil || r.pool == nil {
		return false, errors.New("order repository: not initialised")
	}

	tag, err := r.pool.Exec(ctx,
		`UPDATE orders SET status = $2, updated_at = now() WHERE order_number = $1`,
		orderNumber, string(status),
	)
	if err != nil {
		return false, platform.WrapError("orders.update_status", err)
	}
	return tag.RowsAffected() > 0, nil
}
