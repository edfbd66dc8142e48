package services

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	domain "github.com/techstore/api/internal/domain"
)

type stubProductRepository struct {
	listActiveFn func(ctx context.Context) ([]domain.Product, error)
	findByIDFn   func(ctx context.Context, productID int64) (domain.Product, error)
	decrementFn  func(ctx context.Context, productID int64, quantity int) (bool, error)
}

func (s *stubProductRepository) ListActive(ctx context.Context) ([]domain.Product, error) {
	if s.listActiveFn == nil {
		return nil, errors.New("listActive not stubbed")
	}
	return s.listActiveFn(ctx)
}

func (s *stubProductRepository) FindByID(ctx context.Context, productID int64) (domain.Product, error) {
	if s.findByIDFn == nil {
		return domain.Product{}, errors.New("findByID not stubbed")
	}
	return s.findByIDFn(ctx, productID)
}

func (s *stubProductRepository) DecrementStock(ctx context.Context, productID int64, quantity int) (bool, error) {
	if s.decrementFn == nil {
		return false, errors.New("decrement not stubbed")
	}
	return s.decrementFn(ctx, productID, quantity)
}

func TestCatalogServiceListProducts(t *testing.T) {
	repo := &stubProductRepository{
		listActiveFn: func(context.Context) ([]domain.Product, error) {
			return []domain.Product{
				{ID: 1, Name: "Premium Wireless Headphones", Price: decimal.RequireFromString("199.99")},
			}, nil
		},
	}
	svc, err := NewCatalogService(CatalogServiceDeps{Products: repo})
	if err != nil {
		t.Fatalf("NewCatalogService: %v", err)
	}

	products, err := svc.ListProducts(context.Background())
	if err != nil {
		t.Fatalf("ListProducts: %v", err)
	}
	if len(products) != 1 || products[0].Name != "Premium Wireless Headphones" {
		t.Fatalf("unexpected products %+v", products)
	}
}

func TestCatalogServiceListProductsEmpty(t *testing.T) {
	repo := &stubProductRepository{
		listActiveFn: func(context.Context) ([]domain.Product, error) {
			return nil, nil
		},
	}
	svc, err := NewCatalogService(CatalogServiceDeps{Products: repo})
	if err != nil {
		t.Fatalf("NewCatalogService: %v", err)
	}

	products, err := svc.ListProducts(context.Background())
	if err != nil {
		t.Fatalf("ListProducts: %v", err)
	}
	if products == nil {
		t.Fatal("expected empty slice, got nil")
	}
}

func TestCatalogServiceGetProductNotFound(t *testing.T) {
	repo := &stubProductRepository{
		findByIDFn: func(context.Context, int64) (domain.Product, error) {
			return domain.Product{}, &stubRepoError{notFound: true}
		},
	}
	svc, err := NewCatalogService(CatalogServiceDeps{Products: repo})
	if err != nil {
		t.Fatalf("NewCatalogService: %v", err)
	}

	if _, err := svc.GetProduct(context.Background(), 99); !errors.Is(err, ErrCatalogProductNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestCatalogServiceGetProductUnavailable(t *testing.T) {
	repo := &stubProductRepository{
		findByIDFn: func(context.Context, int64) (domain.Product, error) {
			return domain.Product{}, &stubRepoError{unavailable: true}
		},
	}
	svc, err := NewCatalogService(CatalogServiceDeps{Products: repo})
	if err != nil {
		t.Fatalf("NewCatalogService: %v", err)
	}

	if _, err := svc.GetProduct(context.Background(), 1); !errors.Is(err, ErrCatalogUnavailable) {
		t.Fatalf("expected unavailable, got %v", err)
	}
}
