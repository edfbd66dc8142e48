package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	domain "github.com/techstore/api/internal/domain"
)

type stubRepoError struct {
	notFound    bool
	conflict    bool
	invalidRef  bool
	unavailable bool
}

func (e *stubRepoError) Error() string            { return "stub repository error" }
func (e *stubRepoError) IsNotFound() bool         { return e.notFound }
func (e *stubRepoError) IsConflict() bool         { return e.conflict }
func (e *stubRepoError) IsInvalidReference() bool { return e.invalidRef }
func (e *stubRepoError) IsUnavailable() bool      { return e.unavailable }

type stubOrderRepository struct {
	createFn       func(ctx context.Context, order domain.Order, items []domain.OrderItem) (domain.Order, error)
	findByNumberFn func(ctx context.Context, orderNumber string) (domain.Order, domain.Customer, []domain.OrderItem, error)
	updateStatusFn func(ctx context.Context, orderNumber string, status domain.OrderStatus) (bool, error)
}

func (s *stubOrderRepository) Create(ctx context.Context, order domain.Order, items []domain.OrderItem) (domain.Order, error) {
	if s.createFn == nil {
		return domain.Order{}, errors.New("create not stubbed")
	}
	return s.createFn(ctx, order, items)
}

func (s *stubOrderRepository) FindByNumber(ctx context.Context, orderNumber string) (domain.Order, domain.Customer, []domain.OrderItem, error) {
	if s.findByNumberFn == nil {
		return domain.Order{}, domain.Customer{}, nil, errors.New("find not stubbed")
	}
	return s.findByNumberFn(ctx, orderNumber)
}

func (s *stubOrderRepository) UpdateStatus(ctx context.Context, orderNumber string, status domain.OrderStatus) (bool, error) {
	if s.updateStatusFn == nil {
		return false, errors.New("update not stubbed")
	}
	return s.updateStatusFn(ctx, orderNumber, status)
}

type stubCustomerService struct {
	findOrCreateFn func(ctx context.Context, profile CustomerProfile) (domain.Customer, error)
}

func (s *stubCustomerService) FindOrCreate(ctx context.Context, profile CustomerProfile) (domain.Customer, error) {
	if s.findOrCreateFn == nil {
		return domain.Customer{}, errors.New("findOrCreate not stubbed")
	}
	return s.findOrCreateFn(ctx, profile)
}

type stubInventoryService struct {
	mu    sync.Mutex
	calls []struct {
		ProductID int64
		Quantity  int
	}
	decrementFn func(ctx context.Context, productID int64, quantity int) (bool, error)
}

func (s *stubInventoryService) DecrementStock(ctx context.Context, productID int64, quantity int) (bool, error) {
	s.mu.Lock()
	s.calls = append(s.calls, struct {
		ProductID int64
		Quantity  int
	}{productID, quantity})
	s.mu.Unlock()
	if s.decrementFn == nil {
		return true, nil
	}
	return s.decrementFn(ctx, productID, quantity)
}

type stubNotificationService struct {
	mu      sync.Mutex
	sent    []OrderNotification
	outcome NotificationOutcome
	testFn  func(ctx context.Context, recipient string) SendOutcome
}

func (s *stubNotificationService) SendOrderEmails(_ context.Context, n OrderNotification) NotificationOutcome {
	s.mu.Lock()
	s.sent = append(s.sent, n)
	s.mu.Unlock()
	return s.outcome
}

func (s *stubNotificationService) SendTest(ctx context.Context, recipient string) SendOutcome {
	if s.testFn == nil {
		return SendOutcome{Success: true}
	}
	return s.testFn(ctx, recipient)
}

type eventRecorder struct {
	mu     sync.Mutex
	events []string
}

func (r *eventRecorder) log(_ context.Context, event string, _ map[string]any) {
	r.mu.Lock()
	r.events = append(r.events, event)
	r.mu.Unlock()
}

func (r *eventRecorder) has(event string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.events {
		if e == event {
			return true
		}
	}
	return false
}

// syncBackground runs background work inline so tests observe its effects.
func syncBackground(ctx context.Context, fn func(ctx context.Context)) {
	fn(ctx)
}

func validSubmitCommand() SubmitOrderCommand {
	return SubmitOrderCommand{
		Customer: CustomerProfile{
			FullName: "Ahmed Al-Rashid",
			Email:    "ahmed@example.com",
			Phone:    "+964 770 123 4567",
			Address:  "14 Al-Mansour St",
			City:     "Baghdad",
		},
		Items: []SubmitOrderItem{
			{ProductID: 1, Name: "Premium Wireless Headphones", Price: decimal.RequireFromString("199.99"), Quantity: 2},
			{ProductID: 3, Name: "Portable Power Bank", Price: decimal.RequireFromString("49.99"), Quantity: 1},
		},
		DeliveryNotes: "Ring the bell twice",
	}
}

func newTestOrderService(t *testing.T, deps OrderServiceDeps) OrderService {
	t.Helper()
	if deps.Clock == nil {
		deps.Clock = func() time.Time { return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC) }
	}
	if deps.Background == nil {
		deps.Background = syncBackground
	}
	svc, err := NewOrderService(deps)
	if err != nil {
		t.Fatalf("NewOrderService: %v", err)
	}
	return svc
}

func TestOrderServiceSubmitSuccess(t *testing.T) {
	var capturedOrder domain.Order
	var capturedItems []domain.OrderItem
	orders := &stubOrderRepository{
		createFn: func(_ context.Context, order domain.Order, items []domain.OrderItem) (domain.Order, error) {
			capturedOrder = order
			capturedItems = items
			order.ID = 42
			order.CreatedAt = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
			return order, nil
		},
	}
	customers := &stubCustomerService{
		findOrCreateFn: func(_ context.Context, profile CustomerProfile) (domain.Customer, error) {
			return domain.Customer{ID: 7, FullName: profile.FullName, Email: profile.Email}, nil
		},
	}
	inventory := &stubInventoryService{}
	notifier := &stubNotificationService{outcome: NotificationOutcome{Success: true}}
	recorder := &eventRecorder{}

	svc := newTestOrderService(t, OrderServiceDeps{
		Orders:      orders,
		Customers:   customers,
		Inventory:   inventory,
		Notifier:    notifier,
		OrderNumber: func() string { return "ORD12345678001" },
		Logger:      recorder.log,
	})

	confirmation, err := svc.Submit(context.Background(), validSubmitCommand())
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	if confirmation.OrderID != 42 {
		t.Fatalf("expected order id 42, got %d", confirmation.OrderID)
	}
	if confirmation.OrderNumber != "ORD12345678001" {
		t.Fatalf("unexpected order number %q", confirmation.OrderNumber)
	}
	if got := confirmation.TotalAmount.StringFixed(2); got != "449.97" {
		t.Fatalf("expected total 449.97, got %s", got)
	}
	if confirmation.ItemCount != 2 {
		t.Fatalf("expected item count 2, got %d", confirmation.ItemCount)
	}
	if confirmation.PaymentMethod != "Cash on Delivery" {
		t.Fatalf("unexpected payment method %q", confirmation.PaymentMethod)
	}

	if capturedOrder.CustomerID != 7 {
		t.Fatalf("expected customer id 7 on order, got %d", capturedOrder.CustomerID)
	}
	if capturedOrder.Status != domain.OrderStatusPending {
		t.Fatalf("expected pending status, got %s", capturedOrder.Status)
	}
	if len(capturedItems) != 2 {
		t.Fatalf("expected 2 items persisted, got %d", len(capturedItems))
	}
	if got := capturedItems[0].Subtotal.StringFixed(2); got != "399.98" {
		t.Fatalf("expected first subtotal 399.98, got %s", got)
	}

	if len(inventory.calls) != 2 {
		t.Fatalf("expected 2 stock decrements, got %d", len(inventory.calls))
	}
	if inventory.calls[0].ProductID != 1 || inventory.calls[0].Quantity != 2 {
		t.Fatalf("unexpected first decrement %+v", inventory.calls[0])
	}

	if len(notifier.sent) != 1 {
		t.Fatalf("expected one notification dispatch, got %d", len(notifier.sent))
	}
	if notifier.sent[0].OrderNumber != "ORD12345678001" {
		t.Fatalf("unexpected notification order number %q", notifier.sent[0].OrderNumber)
	}
	if !recorder.has("order.notifications_sent") {
		t.Fatalf("expected notifications_sent event, got %v", recorder.events)
	}
}

func TestOrderServiceSubmitValidation(t *testing.T) {
	orders := &stubOrderRepository{
		createFn: func(context.Context, domain.Order, []domain.OrderItem) (domain.Order, error) {
			t.Fatal("create must not be called for invalid input")
			return domain.Order{}, nil
		},
	}
	customers := &stubCustomerService{
		findOrCreateFn: func(context.Context, CustomerProfile) (domain.Customer, error) {
			t.Fatal("customer resolution must not run for invalid input")
			return domain.Customer{}, nil
		},
	}
	svc := newTestOrderService(t, OrderServiceDeps{
		Orders:    orders,
		Customers: customers,
		Inventory: &stubInventoryService{},
	})

	cases := map[string]func(*SubmitOrderCommand){
		"no items":          func(cmd *SubmitOrderCommand) { cmd.Items = nil },
		"missing full name": func(cmd *SubmitOrderCommand) { cmd.Customer.FullName = "  " },
		"missing email":     func(cmd *SubmitOrderCommand) { cmd.Customer.Email = "" },
		"missing phone":     func(cmd *SubmitOrderCommand) { cmd.Customer.Phone = "" },
		"missing address":   func(cmd *SubmitOrderCommand) { cmd.Customer.Address = "" },
		"missing city":      func(cmd *SubmitOrderCommand) { cmd.Customer.City = "" },
		"zero product id":   func(cmd *SubmitOrderCommand) { cmd.Items[0].ProductID = 0 },
		"zero quantity":     func(cmd *SubmitOrderCommand) { cmd.Items[0].Quantity = 0 },
		"negative price":    func(cmd *SubmitOrderCommand) { cmd.Items[0].Price = decimal.RequireFromString("-1") },
	}

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cmd := validSubmitCommand()
			mutate(&cmd)
			_, err := svc.Submit(context.Background(), cmd)
			if !errors.Is(err, ErrOrderInvalidInput) {
				t.Fatalf("expected invalid input error, got %v", err)
			}
		})
	}
}

func TestOrderServiceSubmitStockFailureTolerated(t *testing.T) {
	orders := &stubOrderRepository{
		createFn: func(_ context.Context, order domain.Order, _ []domain.OrderItem) (domain.Order, error) {
			order.ID = 1
			return order, nil
		},
	}
	customers := &stubCustomerService{
		findOrCreateFn: func(context.Context, CustomerProfile) (domain.Customer, error) {
			return domain.Customer{ID: 1}, nil
		},
	}
	inventory := &stubInventoryService{
		decrementFn: func(_ context.Context, productID int64, _ int) (bool, error) {
			if productID == 1 {
				return false, errors.New("database gone")
			}
			return false, nil
		},
	}
	recorder := &eventRecorder{}

	svc := newTestOrderService(t, OrderServiceDeps{
		Orders:    orders,
		Customers: customers,
		Inventory: inventory,
		Logger:    recorder.log,
	})

	if _, err := svc.Submit(context.Background(), validSubmitCommand()); err != nil {
		t.Fatalf("submit must tolerate stock failures, got %v", err)
	}
	if len(inventory.calls) != 2 {
		t.Fatalf("expected both decrements attempted, got %d", len(inventory.calls))
	}
	if !recorder.has("order.stock_adjustment_failed") {
		t.Fatalf("expected stock_adjustment_failed event, got %v", recorder.events)
	}
	if !recorder.has("order.stock_adjustment_skipped") {
		t.Fatalf("expected stock_adjustment_skipped event, got %v", recorder.events)
	}
}

func TestOrderServiceSubmitNotificationFailureTolerated(t *testing.T) {
	orders := &stubOrderRepository{
		createFn: func(_ context.Context, order domain.Order, _ []domain.OrderItem) (domain.Order, error) {
			order.ID = 1
			return order, nil
		},
	}
	customers := &stubCustomerService{
		findOrCreateFn: func(context.Context, CustomerProfile) (domain.Customer, error) {
			return domain.Customer{ID: 1}, nil
		},
	}
	notifier := &stubNotificationService{
		outcome: NotificationOutcome{
			Customer: SendOutcome{Err: errors.New("smtp down")},
			Business: SendOutcome{Success: true},
		},
	}
	recorder := &eventRecorder{}

	svc := newTestOrderService(t, OrderServiceDeps{
		Orders:    orders,
		Customers: customers,
		Inventory: &stubInventoryService{},
		Notifier:  notifier,
		Logger:    recorder.log,
	})

	if _, err := svc.Submit(context.Background(), validSubmitCommand()); err != nil {
		t.Fatalf("submit must tolerate notification failures, got %v", err)
	}
	if !recorder.has("order.notifications_failed") {
		t.Fatalf("expected notifications_failed event, got %v", recorder.events)
	}
}

func TestOrderServiceSubmitConflict(t *testing.T) {
	orders := &stubOrderRepository{
		createFn: func(context.Context, domain.Order, []domain.OrderItem) (domain.Order, error) {
			return domain.Order{}, &stubRepoError{conflict: true}
		},
	}
	customers := &stubCustomerService{
		findOrCreateFn: func(context.Context, CustomerProfile) (domain.Customer, error) {
			return domain.Customer{ID: 1}, nil
		},
	}
	svc := newTestOrderService(t, OrderServiceDeps{
		Orders:    orders,
		Customers: customers,
		Inventory: &stubInventoryService{},
	})

	_, err := svc.Submit(context.Background(), validSubmitCommand())
	if !errors.Is(err, ErrOrderConflict) {
		t.Fatalf("expected conflict error, got %v", err)
	}
}

func TestOrderServiceSubmitInvalidReference(t *testing.T) {
	orders := &stubOrderRepository{
		createFn: func(context.Context, domain.Order, []domain.OrderItem) (domain.Order, error) {
			return domain.Order{}, &stubRepoError{invalidRef: true}
		},
	}
	customers := &stubCustomerService{
		findOrCreateFn: func(context.Context, CustomerProfile) (domain.Customer, error) {
			return domain.Customer{ID: 1}, nil
		},
	}
	svc := newTestOrderService(t, OrderServiceDeps{
		Orders:    orders,
		Customers: customers,
		Inventory: &stubInventoryService{},
	})

	_, err := svc.Submit(context.Background(), validSubmitCommand())
	if !errors.Is(err, ErrOrderInvalidReference) {
		t.Fatalf("expected invalid reference error, got %v", err)
	}
}

func TestOrderServiceSubmitCustomerUnavailable(t *testing.T) {
	customers := &stubCustomerService{
		findOrCreateFn: func(context.Context, CustomerProfile) (domain.Customer, error) {
			return domain.Customer{}, ErrCustomerUnavailable
		},
	}
	svc := newTestOrderService(t, OrderServiceDeps{
		Orders:    &stubOrderRepository{},
		Customers: customers,
		Inventory: &stubInventoryService{},
	})

	_, err := svc.Submit(context.Background(), validSubmitCommand())
	if !errors.Is(err, ErrOrderUnavailable) {
		t.Fatalf("expected unavailable error, got %v", err)
	}
}

func TestOrderServiceGetByNumber(t *testing.T) {
	orders := &stubOrderRepository{
		findByNumberFn: func(_ context.Context, orderNumber string) (domain.Order, domain.Customer, []domain.OrderItem, error) {
			if orderNumber != "ORD12345678001" {
				return domain.Order{}, domain.Customer{}, nil, &stubRepoError{notFound: true}
			}
			return domain.Order{OrderNumber: orderNumber, Status: domain.OrderStatusPending},
				domain.Customer{Email: "ahmed@example.com"},
				nil, nil
		},
	}
	svc := newTestOrderService(t, OrderServiceDeps{
		Orders:    orders,
		Customers: &stubCustomerService{},
		Inventory: &stubInventoryService{},
	})

	details, err := svc.GetByNumber(context.Background(), "ORD12345678001")
	if err != nil {
		t.Fatalf("GetByNumber: %v", err)
	}
	if details.Items == nil {
		t.Fatal("expected non-nil items slice")
	}
	if details.Customer.Email != "ahmed@example.com" {
		t.Fatalf("unexpected customer %+v", details.Customer)
	}

	if _, err := svc.GetByNumber(context.Background(), "ORD00000000000"); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := svc.GetByNumber(context.Background(), "  "); !errors.Is(err, ErrOrderInvalidInput) {
		t.Fatalf("expected invalid input for blank number, got %v", err)
	}
}

func TestOrderServiceUpdateStatus(t *testing.T) {
	orders := &stubOrderRepository{
		updateStatusFn: func(_ context.Context, orderNumber string, _ domain.OrderStatus) (bool, error) {
			return orderNumber == "ORD12345678001", nil
		},
	}
	svc := newTestOrderService(t, OrderServiceDeps{
		Orders:    orders,
		Customers: &stubCustomerService{},
		Inventory: &stubInventoryService{},
	})

	if err := svc.UpdateStatus(context.Background(), "ORD12345678001", domain.OrderStatusConfirmed); err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if err := svc.UpdateStatus(context.Background(), "ORD00000000000", domain.OrderStatusConfirmed); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if err := svc.UpdateStatus(context.Background(), "ORD12345678001", domain.OrderStatus("boxed")); !errors.Is(err, ErrOrderInvalidInput) {
		t.Fatalf("expected invalid input for unknown status, got %v", err)
	}
}
