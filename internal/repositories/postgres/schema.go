package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	platform "github.com/techstore/api/internal/platform/postgres"
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS customers (
		id BIGSERIAL PRIMARY KEY,
		full_name TEXT NOT NULL,
		email TEXT NOT NULL,
		phone TEXT NOT NULL,
		address TEXT NOT NULL,
		city TEXT NOT NULL,
		postal_code TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_customers_email ON customers(email)`,
	`CREATE INDEX IF NOT EXISTS idx_customers_phone ON customers(phone)`,

	`CREATE TABLE IF NOT EXISTS products (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		price NUMERIC(10, 2) NOT NULL,
		description TEXT,
		image TEXT,
		stock_quantity INTEGER NOT NULL DEFAULT 0,
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_products_is_active ON products(is_active)`,

	`CREATE TABLE IF NOT EXISTS orders (
		id BIGSERIAL PRIMARY KEY,
		order_number TEXT NOT NULL UNIQUE,
		customer_id BIGINT NOT NULL REFERENCES customers(id) ON DELETE CASCADE,
		total_amount NUMERIC(10, 2) NOT NULL,
		status TEXT NOT NULL DEFAULT 'pending',
		payment_method TEXT NOT NULL DEFAULT 'cod',
		delivery_notes TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_orders_customer_id ON orders(customer_id)`,
	`CREATE INDEX IF NOT EXISTS idx_orders_status ON orders(status)`,
	`CREATE INDEX IF NOT EXISTS idx_orders_created_at ON orders(created_at)`,

	`CREATE TABLE IF NOT EXISTS order_items (
		id BIGSERIAL PRIMARY KEY,
		order_id BIGINT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
		product_id BIGINT NOT NULL REFERENCES products(id),
		product_name TEXT NOT NULL,
		product_price NUMERIC(10, 2) NOT NULL,
		quantity INTEGER NOT NULL,
		subtotal NUMERIC(10, 2) NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_order_items_order_id ON order_items(order_id)`,
	`CREATE INDEX IF NOT EXISTS idx_order_items_product_id ON order_items(product_id)`,
}

type seedProduct struct {
	name        string
	price       string
	description string
	image       string
	stock       int
}

var seedProducts = []seedProduct{
	{"Premium Wireless Headphones", "199.99", "High-quality wireless headphones with noise cancellation and 30-hour battery life.", "Premium_Wireless_Headphones.png", 50},
	{"Smart Fitness Watch", "299.99", "Advanced fitness tracking with heart rate monitor, GPS, and smartphone connectivity.", "Smart_Fitness_Watch.png", 30},
	{"4K Webcam Pro", "149.99", "Ultra HD webcam perfect for streaming, video calls, and content creation.", "4K_Webcam_Pro.png", 25},
	{"Mechanical Gaming Keyboard", "179.99", "RGB backlit mechanical keyboard with premium switches for gaming enthusiasts.", "Mechanical_Gaming_Keyboard.png", 40},
	{"Wireless Charging Pad", "79.99", "Fast wireless charging pad compatible with all Qi-enabled devices.", "Wireless_Charging_Pad.png", 60},
	{"Bluetooth Speaker Pro", "129.99", "Portable Bluetooth speaker with 360° sound and waterproof design.", "Bluetooth_Speaker_Pro.png", 35},
}

// ApplySchema creates the four relations and their indexes when absent.
func ApplySchema(ctx context.Context, pool *pgxpool.Pool) error {
	if pool == nil {
		return errors.New("apply schema: pool is required")
	}
	for _, stmt := range schemaStatements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return platform.WrapError("schema.apply", fmt.Errorf("exec schema statement: %w", err))
		}
	}
	return nil
}

// SeedCatalog inserts the sample products when the catalog is empty.
func SeedCatalog(ctx context.Context, pool *pgxpool.Pool) (int, error) {
	if pool == nil {
		return 0, errors.New("seed catalog: pool is required")
	}

	var count int64
	if err := pool.QueryRow(ctx, `SELECT COUNT(*) FROM products`).Scan(&count); err != nil {
		return 0, platform.WrapError("schema.seed", err)
	}
	if count > 0 {
		return 0, nil
	}

	inserted := 0
	for _, p := range seedProducts {
		_, err := pool.Exec(ctx,
			`INSERT INTO products (name, price, description, image, stock_quantity)
			 VALUES ($1, $2::numeric, $3, $4, $5)`,
			p.name, p.price, p.description, p.image, p.stock,
		)
		if err != nil {
			return inserted, platform.WrapError("schema.seed", err)
		}
		inserted++
	}
	return inserted, nil
}
