package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	domain "github.com/techstore/api/internal/domain"
	"github.com/techstore/api/internal/platform/httpx"
	"github.com/techstore/api/internal/services"
)

const maxOrderRequestBody = 64 * 1024

var (
	errEmptyBody    = errors.New("request body is required")
	errBodyTooLarge = errors.New("request body exceeds the allowed size")
)

// OrderHandlers exposes the order submission and lookup endpoints.
type OrderHandlers struct {
	orders services.OrderService
}

// NewOrderHandlers constructs order handlers backed by the order service.
func NewOrderHandlers(orders services.OrderService) *OrderHandlers {
	return &OrderHandlers{orders: orders}
}

// Routes registers order endpoints under the provided router.
func (h *OrderHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}
	r.Post("/", h.submitOrder)
	r.Get("/{orderNumber}", h.getOrder)
	r.Patch("/{orderNumber}/status", h.updateStatus)
}

type submitOrderCustomer struct {
	FullName   string `json:"fullName"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
	City       string `json:"city"`
	PostalCode string `json:"postalCode"`
}

type submitOrderItem struct {
	ID       int64           `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
}

type submitOrderRequest struct {
	CustomerInfo  submitOrderCustomer `json:"customerInfo"`
	CartItems     []submitOrderItem   `json:"cartItems"`
	DeliveryNotes string              `json:"deliveryNotes"`
}

type orderDetailsResponse struct {
	OrderID           int64       `json:"orderId"`
	OrderNumber       string      `json:"orderNumber"`
	TotalAmount       json.Number `json:"totalAmount"`
	ItemCount         int         `json:"itemCount"`
	PaymentMethod     string      `json:"paymentMethod"`
	EstimatedDelivery string      `json:"estimatedDelivery"`
}

type submitOrderResponse struct {
	Success      bool                 `json:"success"`
	Message      string               `json:"message"`
	OrderDetails orderDetailsResponse `json:"orderDetails"`
}

type orderItemView struct {
	ProductID    int64       `json:"productId"`
	ProductName  string      `json:"productName"`
	ProductPrice json.Number `json:"productPrice"`
	Quantity     int         `json:"quantity"`
	Subtotal     json.Number `json:"subtotal"`
}

type orderView struct {
	OrderNumber   string              `json:"orderNumber"`
	Status        string              `json:"status"`
	PaymentMethod string              `json:"paymentMethod"`
	TotalAmount   json.Number         `json:"totalAmount"`
	DeliveryNotes string              `json:"deliveryNotes,omitempty"`
	CreatedAt     string              `json:"createdAt"`
	Customer      submitOrderCustomer `json:"customer"`
	Items         []orderItemView     `json:"items"`
}

type getOrderResponse struct {
	Success bool      `json:"success"`
	Order   orderView `json:"order"`
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

func (h *OrderHandlers) submitOrder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.orders == nil {
		httpx.WriteError(ctx, w, httpx.NewError("orders_unavailable", "order service unavailable", http.StatusInternalServerError))
		return
	}

	body, err := readLimitedBody(r, maxOrderRequestBody)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, errBodyTooLarge) {
			status = http.StatusRequestEntityTooLarge
		}
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", err.Error(), status))
		return
	}

	var req submitOrderRequest
	if err := json.Unmarshal(body, &req); err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "request body must be valid JSON", http.StatusBadRequest))
		return
	}

	cmd := services.SubmitOrderCommand{
		Customer: services.CustomerProfile{
			FullName:   strings.TrimSpace(req.CustomerInfo.FullName),
			Email:      strings.TrimSpace(req.CustomerInfo.Email),
			Phone:      strings.TrimSpace(req.CustomerInfo.Phone),
			Address:    strings.TrimSpace(req.CustomerInfo.Address),
			City:       strings.TrimSpace(req.CustomerInfo.City),
			PostalCode: strings.TrimSpace(req.CustomerInfo.PostalCode),
		},
		DeliveryNotes: strings.TrimSpace(req.DeliveryNotes),
	}
	for _, line := range req.CartItems {
		cmd.Items = append(cmd.Items, services.SubmitOrderItem{
			ProductID: line.ID,
			Name:      strings.TrimSpace(line.Name),
			Price:     line.Price,
			Quantity:  line.Quantity,
		})
	}

	confirmation, err := h.orders.Submit(ctx, cmd)
	if err != nil {
		h.writeOrderError(ctx, w, err)
		return
	}

	writeJSONResponse(w, http.StatusCreated, submitOrderResponse{
		Success: true,
		Message: "Order placed successfully!",
		OrderDetails: orderDetailsResponse{
			OrderID:           confirmation.OrderID,
			OrderNumber:       confirmation.OrderNumber,
			TotalAmount:       moneyValue(confirmation.TotalAmount),
			ItemCount:         confirmation.ItemCount,
			PaymentMethod:     confirmation.PaymentMethod,
			EstimatedDelivery: confirmation.EstimatedDelivery,
		},
	})
}

func (h *OrderHandlers) getOrder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.orders == nil {
		httpx.WriteError(ctx, w, httpx.NewError("orders_unavailable", "order service unavailable", http.StatusInternalServerError))
		return
	}

	orderNumber := strings.TrimSpace(chi.URLParam(r, "orderNumber"))
	if orderNumber == "" {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "order number is required", http.StatusBadRequest))
		return
	}

	details, err := h.orders.GetByNumber(ctx, orderNumber)
	if err != nil {
		h.writeOrderError(ctx, w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, getOrderResponse{
		Success: true,
		Order:   buildOrderView(details),
	})
}

func (h *OrderHandlers) updateStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.orders == nil {
		httpx.WriteError(ctx, w, httpx.NewError("orders_unavailable", "order service unavailable", http.StatusInternalServerError))
		return
	}

	orderNumber := strings.TrimSpace(chi.URLParam(r, "orderNumber"))
	if orderNumber == "" {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "order number is required", http.StatusBadRequest))
		return
	}

	body, err := readLimitedBody(r, maxOrderRequestBody)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, errBodyTooLarge) {
			status = http.StatusRequestEntityTooLarge
		}
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", err.Error(), status))
		return
	}

	var req updateStatusRequest
	if err := json.Unmarshal(body, &req); err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "request body must be valid JSON", http.StatusBadRequest))
		return
	}

	status := domain.OrderStatus(strings.TrimSpace(strings.ToLower(req.Status)))
	if !status.Valid() {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "status must be one of pending, confirmed, shipped, delivered, cancelled", http.StatusBadRequest))
		return
	}

	if err := h.orders.UpdateStatus(ctx, orderNumber, status); err != nil {
		h.writeOrderError(ctx, w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Order status updated",
	})
}

func (h *OrderHandlers) writeOrderError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrOrderInvalidInput):
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", err.Error(), http.StatusBadRequest))
	case errors.Is(err, services.ErrOrderInvalidReference):
		httpx.WriteError(ctx, w, httpx.NewError("invalid_reference", "one or more products do not exist", http.StatusBadRequest))
	case errors.Is(err, services.ErrOrderConflict):
		httpx.WriteError(ctx, w, httpx.NewError("order_conflict", "order could not be recorded; please retry", http.StatusConflict))
	case errors.Is(err, services.ErrOrderNotFound):
		httpx.WriteError(ctx, w, httpx.NewError("order_not_found", "order not found", http.StatusNotFound))
	default:
		httpx.WriteError(ctx, w, httpx.NewError("order_error", "failed to process order", http.StatusInternalServerError))
	}
}

func buildOrderView(details services.OrderDetails) orderView {
	items := make([]orderItemView, 0, len(details.Items))
	for _, item := range details.Items {
		items = append(items, orderItemView{
			ProductID:    item.ProductID,
			ProductName:  item.ProductName,
			ProductPrice: moneyValue(item.ProductPrice),
			Quantity:     item.Quantity,
			Subtotal:     moneyValue(item.Subtotal),
		})
	}
	return orderView{
		OrderNumber:   details.Order.OrderNumber,
		Status:        string(details.Order.Status),
		PaymentMethod: string(details.Order.PaymentMethod),
		TotalAmount:   moneyValue(details.Order.TotalAmount),
		DeliveryNotes: details.Order.DeliveryNotes,
		CreatedAt:     formatTime(details.Order.CreatedAt),
		Customer: submitOrderCustomer{
			FullName:   details.Customer.FullName,
			Email:      details.Customer.Email,
			Phone:      details.Customer.Phone,
			Address:    details.Customer.Address,
			City:       details.Customer.City,
			PostalCode: details.Customer.PostalCode,
		},
		Items: items,
	}
}

func readLimitedBody(r *http.Request, limit int64) ([]byte, error) {
	if r == nil || r.Body == nil {
		return nil, errEmptyBody
	}
	if limit <= 0 {
		limit = maxOrderRequestBody
	}
	reader := io.LimitReader(r.Body, limit+1)
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, err
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, errEmptyBody
	}
	if int64(len(data)) > limit {
		return nil, errBodyTooLarge
	}
	return data, nil
}

func writeJSONResponse(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// moneyValue renders a decimal amount as a plain JSON number with two
// fractional digits, matching the storefront wire format.
func moneyValue(amount decimal.Decimal) json.Number {
	return json.Number(amount.StringFixed(2))
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}
