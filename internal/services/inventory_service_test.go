package services

import (
	"context"
	"errors"
	"testing"
)

func TestInventoryServiceDecrementStock(t *testing.T) {
	var gotID int64
	var gotQty int
	repo := &stubProductRepository{
		decrementFn: func(_ context.Context, productID int64, quantity int) (bool, error) {
			gotID, gotQty = productID, quantity
			return true, nil
		},
	}
	svc, err := NewInventoryService(InventoryServiceDeps{Products: repo})
	if err != nil {
		t.Fatalf("NewInventoryService: %v", err)
	}

	affected, err := svc.DecrementStock(context.Background(), 5, 3)
	if err != nil {
		t.Fatalf("DecrementStock: %v", err)
	}
	if !affected {
		t.Fatal("expected affected")
	}
	if gotID != 5 || gotQty != 3 {
		t.Fatalf("unexpected arguments id=%d qty=%d", gotID, gotQty)
	}
}

func TestInventoryServiceDecrementStockValidation(t *testing.T) {
	svc, err := NewInventoryService(InventoryServiceDeps{Products: &stubProductRepository{}})
	if err != nil {
		t.Fatalf("NewInventoryService: %v", err)
	}

	if _, err := svc.DecrementStock(context.Background(), 0, 1); !errors.Is(err, ErrInventoryInvalidInput) {
		t.Fatalf("expected invalid input for zero product id, got %v", err)
	}
	if _, err := svc.DecrementStock(context.Background(), 1, 0); !errors.Is(err, ErrInventoryInvalidInput) {
		t.Fatalf("expected invalid input for zero quantity, got %v", err)
	}
}

func TestInventoryServiceDecrementStockUnavailable(t *testing.T) {
	repo := &stubProductRepository{
		decrementFn: func(context.Context, int64, int) (bool, error) {
			return false, errors.New("connection refused")
		},
	}
	svc, err := NewInventoryService(InventoryServiceDeps{Products: repo})
	if err != nil {
		t.Fatalf("NewInventoryService: %v", err)
	}

	if _, err := svc.DecrementStock(context.Background(), 1, 1); !errors.Is(err, ErrInventoryUnavailable) {
		t.Fatalf("expected unavailable, got %v", err)
	}
}
