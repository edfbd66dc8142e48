package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	domain "github.com/techstore/api/internal/domain"
)

// CustomerProfile is the contact profile submitted with a checkout request.
type CustomerProfile struct {
	FullName   string
	Email      string
	Phone      string
	Address    string
	City       string
	PostalCode string
}

// SubmitOrderItem is one cart line in a checkout submission.
type SubmitOrderItem struct {
	ProductID int64
	Name      string
	Price     decimal.Decimal
	Quantity  int
}

// SubmitOrderCommand carries everything needed to run the order submission workflow.
type SubmitOrderCommand struct {
	Customer      CustomerProfile
	Items         []SubmitOrderItem
	DeliveryNotes string
}

// OrderConfirmation is returned to the caller once the order is durably committed.
// Stock adjustment and notification dispatch may still be outstanding.
type OrderConfirmation struct {
	OrderID           int64
	OrderNumber       string
	TotalAmount       decimal.Decimal
	ItemCount         int
	PaymentMethod     string
	EstimatedDelivery string
}

// OrderDetails bundles an order header with its customer and line items.
type OrderDetails struct {
	Order    domain.Order
	Customer domain.Customer
	Items    []domain.OrderItem
}

// CustomerService resolves contact profiles to customer records.
type CustomerService interface {
	// FindOrCreate looks the customer up by email and creates a record when
	// absent. Existing records are returned unchanged even when the
	// submitted profile differs.
	FindOrCreate(ctx context.Context, profile CustomerProfile) (domain.Customer, error)
}

// OrderService runs the order submission workflow and order lookups.
type OrderService interface {
	Submit(ctx context.Context, cmd SubmitOrderCommand) (OrderConfirmation, error)
	GetByNumber(ctx context.Context, orderNumber string) (OrderDetails, error)
	UpdateStatus(ctx context.Context, orderNumber string, status domain.OrderStatus) error
}

// InventoryService adjusts per-product stock counters.
type InventoryService interface {
	// DecrementStock applies a relative decrement, reporting whether a
	// product row matched.
	DecrementStock(ctx context.Context, productID int64, quantity int) (bool, error)
}

// CatalogService reads the product catalog.
type CatalogService interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
	GetProduct(ctx context.Context, productID int64) (domain.Product, error)
}

// HealthStatus reports the readiness of external collaborators.
type HealthStatus struct {
	Database  bool
	Mailer    bool
	CheckedAt time.Time
}

// SystemService exposes operational health information.
type SystemService interface {
	Health(ctx context.Context) HealthStatus
}

// NotificationLine is a line item snapshot rendered into notification messages.
type NotificationLine struct {
	ProductName  string
	ProductPrice decimal.Decimal
	Quantity     int
	Subtotal     decimal.Decimal
}

// OrderNotification is the payload rendered into the customer confirmation
// and business alert messages.
type OrderNotification struct {
	OrderNumber   string
	Customer      CustomerProfile
	Items         []NotificationLine
	TotalAmount   decimal.Decimal
	OrderDate     time.Time
	DeliveryNotes string
}

// SendOutcome is the delivery status of a single notification message.
// Failures are captured here and never propagate past the dispatcher.
type SendOutcome struct {
	Success   bool
	MessageID string
	Err       error
}

// NotificationOutcome combines the per-recipient outcomes of one order's
// notifications. Success is the conjunction of both sends and is purely
// diagnostic.
type NotificationOutcome struct {
	Customer SendOutcome
	Business SendOutcome
	Success  bool
}

// NotificationService formats and sends order notifications over the
// configured messaging channel.
type NotificationService interface {
	SendOrderEmails(ctx context.Context, n OrderNotification) NotificationOutcome
	SendTest(ctx context.Context, recipient string) SendOutcome
}
