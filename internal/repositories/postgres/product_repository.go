package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	domain "github.com/techstore/api/internal/domain"
	platform "github.com/techstore/api/internal/platform/postgres"
)

// ProductRepository reads the catalog and adjusts stock counters.
type ProductRepository struct {
	pool *pgxpool.Pool
}

// NewProductRepository constructs a product repository bound to the pool.
func NewProductRepository(pool *pgxpool.Pool) *ProductRepository {
	return &ProductRepository{pool: pool}
}

const productColumns = `id, name, price::text, COALESCE(description, ''), COALESCE(image, ''), stock_quantity, is_active, created_at, updated_at`

// ListActive returns every active product ordered by id.
func (r *ProductRepository) ListActive(ctx context.Context) ([]domain.Product, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("product repository: not initialised")
	}

	rows, err := r.pool.Query(ctx,
		`SELECT `+productColumns+` FROM products WHERE is_active ORDER BY id`,
	)
	if err != nil {
		return nil, platform.WrapError("products.list_active", err)
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		product, err := scanProduct(rows.Scan)
		if err != nil {
			return nil, platform.WrapError("products.list_active", err)
		}
		products = append(products, product)
	}
	if err := rows.Err(); err != nil {
		return nil, platform.WrapError("products.list_active", err)
	}
	return products, nil
}

// FindByID returns a single active product.
func (r *ProductRepository) FindByID(ctx context.Context, productID int64) (domain.Product, error) {
	if r == nil || r.pool == nil {
		return domain.Product{}, errors.New("product repository: not initialised")
	}

	row := r.pool.QueryRow(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = $1 AND is_active`,
		productID,
	)
	product, err := scanProduct(row.Scan)
	if err != nil {
		return domain.Product{}, platform.WrapError("products.find_by_id", err)
	}
	return product, nil
}

// DecrementStock applies a relative decrement to the stock counter. The
// update is expressed against the stored value rather than read-modify-write
// so concurrent decrements on the same product cannot lose updates. The
// counter is allowed to go negative.
func (r *ProductRepository) DecrementStock(ctx context.Context, productID int64, quantity int) (bool, error) {
	if r == nil || r.pool == nil {
		return false, errors.New("product repository: not initialised")
	}

	tag, err := r.pool.Exec(ctx,
		`UPDATE products SET stock_quantity = stock_quantity - $2, updated_at = now() WHERE id = $1`,
		productID, quantity,
	)
	if err != nil {
		return false, platform.WrapError("products.decrement_stock", err)
	}
	return tag.RowsAffected() > 0, nil
}

func scanProduct(scan func(dest ...any) error) (domain.Product, error) {
	var (
		product domain.Product
		price   string
	)
	if err := scan(&product.ID, &product.Name, &price, &product.Description, &product.Image,
		&product.StockQuantity, &product.IsActive, &product.CreatedAt, &product.UpdatedAt); err != nil {
		return domain.Product{}, err
	}
	amount, err := decimal.NewFromString(price)
	if err != nil {
		return domain.Product{}, err
	}
	product.Price = amount
	return product, nil
}
