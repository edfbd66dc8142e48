package services

import (
	"context"
	"errors"

	domain "github.com/techstore/api/internal/domain"
	"github.com/techstore/api/internal/repositories"
)

var (
	// ErrCatalogProductNotFound indicates the requested product does not exist or is inactive.
	ErrCatalogProductNotFound = errors.New("catalog: product not found")
	// ErrCatalogUnavailable indicates the persistence layer is unreachable.
	ErrCatalogUnavailable = errors.New("catalog: unavailable")
)

// CatalogServiceDeps wires the dependencies required by the catalog service.
type CatalogServiceDeps struct {
	Products repositories.ProductRepository
}

type catalogService struct {
	products repositories.ProductRepository
}

// NewCatalogService constructs a CatalogService validating required dependencies.
func NewCatalogService(deps CatalogServiceDeps) (CatalogService, error) {
	if deps.Products == nil {
		return nil, errors.New("catalog service: product repository is required")
	}
	return &catalogService{products: deps.Products}, nil
}

// ListProducts returns every active catalog entry.
func (s *catalogService) ListProducts(ctx context.Context) ([]domain.Product, error) {
	if s == nil || s.products == nil {
		return nil, ErrCatalogUnavailable
	}
	products, err := s.products.ListActive(ctx)
	if err != nil {
		return nil, ErrCatalogUnavailable
	}
	if products == nil {
		products = []domain.Product{}
	}
	return products, nil
}

// GetProduct returns a single active product by id.
func (s *catalogService) GetProduct(ctx context.Context, productID int64) (domain.Product, error) {
	if s == nil || s.products == nil {
		return domain.Product{}, ErrCatalogUnavailable
	}
	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		var repoErr repositories.RepositoryError
		if errors.As(err, &repoErr) && repoErr.IsNotFound() {
			return domain.Product{}, ErrCatalogProductNotFound
		}
		return domain.Product{}, ErrCatalogUnavailable
	}
	return product, nil
}
