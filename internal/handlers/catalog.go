package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	domain "github.com/techstore/api/internal/domain"
	"github.com/techstore/api/internal/platform/httpx"
	"github.com/techstore/api/internal/services"
)

// CatalogHandlers exposes the public product catalog endpoints.
type CatalogHandlers struct {
	catalog services.CatalogService
}

// NewCatalogHandlers constructs catalog handlers backed by the catalog service.
func NewCatalogHandlers(catalog services.CatalogService) *CatalogHandlers {
	return &CatalogHandlers{catalog: catalog}
}

// Routes registers catalog endpoints under the provided router.
func (h *CatalogHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}
	r.Get("/", h.listProducts)
	r.Get("/{productId}", h.getProduct)
}

type productView struct {
	ID            int64       `json:"id"`
	Name          string      `json:"name"`
	Price         json.Number `json:"price"`
	Description   string      `json:"description,omitempty"`
	Image         string      `json:"image,omitempty"`
	StockQuantity int         `json:"stockQuantity"`
}

type listProductsResponse struct {
	Success  bool          `json:"success"`
	Products []productView `json:"products"`
	Count    int           `json:"count"`
}

type getProductResponse struct {
	Success bool        `json:"success"`
	Product productView `json:"product"`
}

func (h *CatalogHandlers) listProducts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.catalog == nil {
		httpx.WriteError(ctx, w, httpx.NewError("catalog_unavailable", "catalog service unavailable", http.StatusInternalServerError))
		return
	}

	products, err := h.catalog.ListProducts(ctx)
	if err != nil {
		h.writeCatalogError(ctx, w, err)
		return
	}

	views := make([]productView, 0, len(products))
	for _, product := range products {
		views = append(views, buildProductView(product))
	}

	writeJSONResponse(w, http.StatusOK, listProductsResponse{
		Success:  true,
		Products: views,
		Count:    len(views),
	})
}

func (h *CatalogHandlers) getProduct(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.catalog == nil {
		httpx.WriteError(ctx, w, httpx.NewError("catalog_unavailable", "catalog service unavailable", http.StatusInternalServerError))
		return
	}

	raw := strings.TrimSpace(chi.URLParam(r, "productId"))
	productID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || productID <= 0 {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "product id must be a positive integer", http.StatusBadRequest))
		return
	}

	product, err := h.catalog.GetProduct(ctx, productID)
	if err != nil {
		h.writeCatalogError(ctx, w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, getProductResponse{
		Success: true,
		Product: buildProductView(product),
	})
}

func (h *CatalogHandlers) writeCatalogError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrCatalogProductNotFound):
		httpx.WriteError(ctx, w, httpx.NewError("product_not_found", "product not found", http.StatusNotFound))
	default:
		httpx.WriteError(ctx, w, httpx.NewError("catalog_error", "failed to load products", http.StatusInternalServerError))
	}
}

func buildProductView(product domain.Product) productView {
	return productView{
		ID:            product.ID,
		Name:          product.Name,
		Price:         moneyValue(product.Price),
		Description:   product.Description,
		Image:         product.Image,
		StockQuantity: product.StockQuantity,
	}
}
