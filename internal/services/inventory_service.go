package services

import (
	"context"
	"errors"

	"github.com/techstore/api/internal/repositories"
)

var (
	// ErrInventoryInvalidInput indicates the caller supplied invalid adjustment parameters.
	ErrInventoryInvalidInput = errors.New("inventory: invalid input")
	// ErrInventoryUnavailable indicates the persistence layer is unreachable.
	ErrInventoryUnavailable = errors.New("inventory: unavailable")
)

// InventoryServiceDeps wires the dependencies required by the inventory service.
type InventoryServiceDeps struct {
	Products repositories.ProductRepository
}

type inventoryService struct {
	products repositories.ProductRepository
}

// NewInventoryService constructs an InventoryService validating required dependencies.
func NewInventoryService(deps InventoryServiceDeps) (InventoryService, error) {
	if deps.Products == nil {
		return nil, errors.New("inventory service: product repository is required")
	}
	return &inventoryService{products: deps.Products}, nil
}

// DecrementStock applies a relative decrement to the product's stock counter.
// Returns false when the product id does not exist. Stock is allowed to go
// negative under concurrent over-selling; callers treat failures here as
// non-fatal once the owning order is committed.
func (s *inventoryService) DecrementStock(ctx context.Context, productID int64, quantity int) (bool, error) {
	if s == nil || s.products == nil {
		return false, ErrInventoryUnavailable
	}
	if productID <= 0 || quantity < 1 {
		return false, ErrInventoryInvalidInput
	}

	affected, err := s.products.DecrementStock(ctx, productID, quantity)
	if err != nil {
		return false, ErrInventoryUnavailable
	}
	return affected, nil
}
