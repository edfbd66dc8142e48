package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	domain "github.com/techstore/api/internal/domain"
	"github.com/techstore/api/internal/repositories"
)

const (
	paymentMethodLabel     = "Cash on Delivery"
	estimatedDeliveryLabel = "2-3 business days"
)

var (
	// ErrOrderInvalidInput indicates the submission failed validation before any side effect.
	ErrOrderInvalidInput = errors.New("order: invalid input")
	// ErrOrderConflict indicates a unique-key violation (duplicate order number or
	// concurrent customer insert). The submission is safe to retry from the top.
	ErrOrderConflict = errors.New("order: conflict")
	// ErrOrderInvalidReference indicates a line item references a nonexistent product.
	ErrOrderInvalidReference = errors.New("order: invalid product reference")
	// ErrOrderNotFound indicates no order exists for the given order number.
	ErrOrderNotFound = errors.New("order: not found")
	// ErrOrderUnavailable indicates the persistence layer is unreachable.
	ErrOrderUnavailable = errors.New("order: unavailable")
)

// OrderServiceDeps wires the dependencies required by the order service.
type OrderServiceDeps struct {
	Orders      repositories.OrderRepository
	Customers   CustomerService
	Inventory   InventoryService
	Notifier    NotificationService
	OrderNumber func() string
	Clock       func() time.Time
	Logger      func(ctx context.Context, event string, fields map[string]any)
	// Background runs fn detached from the request lifecycle. The default
	// launches a goroutine on a context that survives request cancellation.
	Background func(ctx context.Context, fn func(ctx context.Context))
}

type orderService struct {
	orders      repositories.OrderRepository
	customers   CustomerService
	inventory   InventoryService
	notifier    NotificationService
	orderNumber func() string
	clock       func() time.Time
	logger      func(context.Context, string, map[string]any)
	background  func(context.Context, func(context.Context))
}

// NewOrderService constructs an OrderService validating required dependencies.
func NewOrderService(deps OrderServiceDeps) (OrderService, error) {
	if deps.Orders == nil {
		return nil, errors.New("order service: order repository is required")
	}
	if deps.Customers == nil {
		return nil, errors.New("order service: customer service is required")
	}
	if deps.Inventory == nil {
		return nil, errors.New("order service: inventory service is required")
	}

	orderNumber := deps.OrderNumber
	if orderNumber == nil {
		orderNumber = NewOrderNumberGenerator(deps.Clock, nil).Generate
	}
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	logger := deps.Logger
	if logger == nil {
		logger = func(context.Context, string, map[string]any) {}
	}
	background := deps.Background
	if background == nil {
		background = func(ctx context.Context, fn func(ctx context.Context)) {
			go fn(context.WithoutCancel(ctx))
		}
	}

	return &orderService{
		orders:      deps.Orders,
		customers:   deps.Customers,
		inventory:   deps.Inventory,
		notifier:    deps.Notifier,
		orderNumber: orderNumber,
		clock: func() time.Time {
			return clock().UTC()
		},
		logger:     logger,
		background: background,
	}, nil
}

// Submit runs the order submission workflow: validate, resolve the customer,
// write the order atomically, decrement stock best-effort, and dispatch
// notifications without waiting for delivery. The returned confirmation
// reflects only the transactional outcome; stock and notification results
// never change it.
func (s *orderService) Submit(ctx context.Context, cmd SubmitOrderCommand) (OrderConfirmation, error) {
	if s == nil || s.orders == nil {
		return OrderConfirmation{}, ErrOrderUnavailable
	}

	if err := validateSubmission(cmd); err != nil {
		return OrderConfirmation{}, err
	}

	// Customer creation is deliberately outside the order transaction: a
	// later failure leaves a newly created customer behind.
	customer, err := s.customers.FindOrCreate(ctx, cmd.Customer)
	if err != nil {
		return OrderConfirmation{}, translateCustomerServiceError(err)
	}

	items := make([]domain.OrderItem, 0, len(cmd.Items))
	total := decimal.Zero
	for _, line := range cmd.Items {
		subtotal := line.Price.Mul(decimal.NewFromInt(int64(line.Quantity)))
		items = append(items, domain.OrderItem{
			ProductID:    line.ProductID,
			ProductName:  line.Name,
			ProductPrice: line.Price,
			Quantity:     line.Quantity,
			Subtotal:     subtotal,
		})
		total = total.Add(subtotal)
	}

	order := domain.Order{
		OrderNumber:   s.orderNumber(),
		CustomerID:    customer.ID,
		TotalAmount:   total,
		Status:        domain.OrderStatusPending,
		PaymentMethod: domain.PaymentMethodCOD,
		DeliveryNotes: strings.TrimSpace(cmd.DeliveryNotes),
	}

	created, err := s.orders.Create(ctx, order, items)
	if err != nil {
		return OrderConfirmation{}, s.translateOrderRepoError(err)
	}

	s.adjustStock(ctx, created.OrderNumber, items)
	s.dispatchNotifications(ctx, created, customer, items)

	return OrderConfirmation{
		OrderID:           created.ID,
		OrderNumber:       created.OrderNumber,
		TotalAmount:       created.TotalAmount,
		ItemCount:         len(items),
		PaymentMethod:     paymentMethodLabel,
		EstimatedDelivery: estimatedDeliveryLabel,
	}, nil
}

// adjustStock decrements inventory once per line item after the order is
// committed. Failures are logged and never abort the remaining items or the
// workflow: stock accuracy is best-effort, order durability is not.
func (s *orderService) adjustStock(ctx context.Context, orderNumber string, items []domain.OrderItem) {
	for _, item := range items {
		affected, err := s.inventory.DecrementStock(ctx, item.ProductID, item.Quantity)
		if err != nil {
			s.logger(ctx, "order.stock_adjustment_failed", map[string]any{
				"orderNumber": orderNumber,
				"productId":   item.ProductID,
				"error":       err.Error(),
			})
			continue
		}
		if !affected {
			s.logger(ctx, "order.stock_adjustment_skipped", map[string]any{
				"orderNumber": orderNumber,
				"productId":   item.ProductID,
				"reason":      "product not found",
			})
		}
	}
}

// dispatchNotifications fires the confirmation emails on a detached context.
// The caller never waits for delivery and a failed send is simply lost.
func (s *orderService) dispatchNotifications(ctx context.Context, order domain.Order, customer domain.Customer, items []domain.OrderItem) {
	if s.notifier == nil {
		return
	}

	lines := make([]NotificationLine, 0, len(items))
	for _, item := range items {
		lines = append(lines, NotificationLine{
			ProductName:  item.ProductName,
			ProductPrice: item.ProductPrice,
			Quantity:     item.Quantity,
			Subtotal:     item.Subtotal,
		})
	}

	notification := OrderNotification{
		OrderNumber: order.OrderNumber,
		Customer: CustomerProfile{
			FullName:   customer.FullName,
			Email:      customer.Email,
			Phone:      customer.Phone,
			Address:    customer.Address,
			City:       customer.City,
			PostalCode: customer.PostalCode,
		},
		Items:         lines,
		TotalAmount:   order.TotalAmount,
		OrderDate:     s.clock(),
		DeliveryNotes: order.DeliveryNotes,
	}

	notifier := s.notifier
	logger := s.logger
	s.background(ctx, func(bgCtx context.Context) {
		outcome := notifier.SendOrderEmails(bgCtx, notification)
		if outcome.Success {
			logger(bgCtx, "order.notifications_sent", map[string]any{
				"orderNumber": notification.OrderNumber,
			})
			return
		}
		fields := map[string]any{
			"orderNumber": notification.OrderNumber,
		}
		if outcome.Customer.Err != nil {
			fields["customerError"] = outcome.Customer.Err.Error()
		}
		if outcome.Business.Err != nil {
			fields["businessError"] = outcome.Business.Err.Error()
		}
		logger(bgCtx, "order.notifications_failed", fields)
	})
}

// GetByNumber returns the order header, customer contact fields, and line items.
func (s *orderService) GetByNumber(ctx context.Context, orderNumber string) (OrderDetails, error) {
	if s == nil || s.orders == nil {
		return OrderDetails{}, ErrOrderUnavailable
	}

	orderNumber = strings.TrimSpace(orderNumber)
	if orderNumber == "" {
		return OrderDetails{}, ErrOrderInvalidInput
	}

	order, customer, items, err := s.orders.FindByNumber(ctx, orderNumber)
	if err != nil {
		return OrderDetails{}, s.translateOrderRepoError(err)
	}
	if items == nil {
		items = []domain.OrderItem{}
	}
	return OrderDetails{Order: order, Customer: customer, Items: items}, nil
}

// UpdateStatus transitions an order through its lifecycle.
func (s *orderService) UpdateStatus(ctx context.Context, orderNumber string, status domain.OrderStatus) error {
	if s == nil || s.orders == nil {
		return ErrOrderUnavailable
	}

	orderNumber = strings.TrimSpace(orderNumber)
	if orderNumber == "" || !status.Valid() {
		return ErrOrderInvalidInput
	}

	affected, err := s.orders.UpdateStatus(ctx, orderNumber, status)
	if err != nil {
		return s.translateOrderRepoError(err)
	}
	if !affected {
		return ErrOrderNotFound
	}
	return nil
}

func validateSubmission(cmd SubmitOrderCommand) error {
	if len(cmd.Items) == 0 {
		return fmt.Errorf("%w: at least one cart item is required", ErrOrderInvalidInput)
	}

	required := []struct {
		name  string
		value string
	}{
		{"fullName", cmd.Customer.FullName},
		{"email", cmd.Customer.Email},
		{"phone", cmd.Customer.Phone},
		{"address", cmd.Customer.Address},
		{"city", cmd.Customer.City},
	}
	for _, field := range required {
		if strings.TrimSpace(field.value) == "" {
			return fmt.Errorf("%w: missing required field %s", ErrOrderInvalidInput, field.name)
		}
	}

	for _, item := range cmd.Items {
		if item.ProductID <= 0 {
			return fmt.Errorf("%w: cart item product id is required", ErrOrderInvalidInput)
		}
		if item.Quantity < 1 {
			return fmt.Errorf("%w: cart item quantity must be at least 1", ErrOrderInvalidInput)
		}
		if item.Price.IsNegative() {
			return fmt.Errorf("%w: cart item price must not be negative", ErrOrderInvalidInput)
		}
	}
	return nil
}

func translateCustomerServiceError(err error) error {
	switch {
	case errors.Is(err, ErrCustomerInvalidInput):
		return fmt.Errorf("%w: %s", ErrOrderInvalidInput, "invalid customer profile")
	case errors.Is(err, ErrCustomerConflict):
		return ErrOrderConflict
	default:
		return ErrOrderUnavailable
	}
}

func (s *orderService) translateOrderRepoError(err error) error {
	if err == nil {
		return nil
	}
	var repoErr repositories.RepositoryError
	if errors.As(err, &repoErr) {
		switch {
		case repoErr.IsNotFound():
			return ErrOrderNotFound
		case repoErr.IsConflict():
			return ErrOrderConflict
		case repoErr.IsInvalidReference():
			return ErrOrderInvalidReference
		default:
			return ErrOrderUnavailable
		}
	}
	return ErrOrderUnavailable
}
