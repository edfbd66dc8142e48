package notifications

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/techstore/api/internal/services"
)

// Dispatcher formats and sends the per-order notification pair: a
// customer-facing confirmation and a business-facing alert. Every send
// failure is caught at this boundary and converted into an outcome value;
// nothing propagates to callers.
type Dispatcher struct {
	sender        Sender
	businessEmail string
	clock         func() time.Time
	logger        func(context.Context, string, map[string]any)
}

// DispatcherDeps wires the dependencies required by the dispatcher.
type DispatcherDeps struct {
	Sender        Sender
	BusinessEmail string
	Clock         func() time.Time
	Logger        func(ctx context.Context, event string, fields map[string]any)
}

// NewDispatcher constructs a Dispatcher validating required dependencies.
func NewDispatcher(deps DispatcherDeps) (*Dispatcher, error) {
	if deps.Sender == nil {
		return nil, errors.New("notification dispatcher: sender is required")
	}
	if strings.TrimSpace(deps.BusinessEmail) == "" {
		return nil, errors.New("notification dispatcher: business email is required")
	}

	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	logger := deps.Logger
	if logger == nil {
		logger = func(context.Context, string, map[string]any) {}
	}

	return &Dispatcher{
		sender:        deps.Sender,
		businessEmail: strings.TrimSpace(deps.BusinessEmail),
		clock: func() time.Time {
			return clock().UTC()
		},
		logger: logger,
	}, nil
}

// SendOrderEmails attempts both notifications for one order. Neither send
// aborts the other; the combined success flag is the conjunction of the two
// and is purely diagnostic.
func (d *Dispatcher) SendOrderEmails(ctx context.Context, n services.OrderNotification) services.NotificationOutcome {
	customer := d.SendCustomerConfirmation(ctx, n)
	business := d.SendBusinessNotification(ctx, n)
	return services.NotificationOutcome{
		Customer: customer,
		Business: business,
		Success:  customer.Success && business.Success,
	}
}

// SendCustomerConfirmation renders and sends the order confirmation to the customer.
func (d *Dispatcher) SendCustomerConfirmation(ctx context.Context, n services.OrderNotification) services.SendOutcome {
	if d == nil || d.sender == nil {
		return services.SendOutcome{Err: errors.New("notification dispatcher: not initialised")}
	}

	body, err := renderTemplate(customerEmailTemplate, buildEmailData(n))
	if err != nil {
		return d.failed(ctx, "notification.customer_render_failed", n.OrderNumber, err)
	}

	id, err := d.sender.Send(ctx, Message{
		To:      n.Customer.Email,
		Subject: fmt.Sprintf("Order Confirmation - %s | %s", n.OrderNumber, storeName),
		HTML:    body,
	})
	if err != nil {
		return d.failed(ctx, "notification.customer_send_failed", n.OrderNumber, err)
	}
	return services.SendOutcome{Success: true, MessageID: id}
}

// SendBusinessNotification renders and sends the new-order alert to the business address.
func (d *Dispatcher) SendBusinessNotification(ctx context.Context, n services.OrderNotification) services.SendOutcome {
	if d == nil || d.sender == nil {
		return services.SendOutcome{Err: errors.New("notification dispatcher: not initialised")}
	}

	body, err := renderTemplate(businessEmailTemplate, buildEmailData(n))
	if err != nil {
		return d.failed(ctx, "notification.business_render_failed", n.OrderNumber, err)
	}

	id, err := d.sender.Send(ctx, Message{
		To:      d.businessEmail,
		Subject: fmt.Sprintf("NEW ORDER ALERT - %s ($%s)", n.OrderNumber, n.TotalAmount.StringFixed(2)),
		HTML:    body,
	})
	if err != nil {
		return d.failed(ctx, "notification.business_send_failed", n.OrderNumber, err)
	}
	return services.SendOutcome{Success: true, MessageID: id}
}

// SendTest sends a configuration test message to the given recipient.
func (d *Dispatcher) SendTest(ctx context.Context, recipient string) services.SendOutcome {
	if d == nil || d.sender == nil {
		return services.SendOutcome{Err: errors.New("notification dispatcher: not initialised")}
	}

	recipient = strings.TrimSpace(recipient)
	if recipient == "" {
		return services.SendOutcome{Err: errors.New("notification dispatcher: recipient is required")}
	}

	data := orderEmailData{StoreName: storeName, OrderDate: formatOrderDate(d.clock())}
	body, err := renderTemplate(testEmailTemplate, data)
	if err != nil {
		return d.failed(ctx, "notification.test_render_failed", "", err)
	}

	id, err := d.sender.Send(ctx, Message{
		To:      recipient,
		Subject: fmt.Sprintf("%s Email Test - Configuration Successful", storeName),
		HTML:    body,
	})
	if err != nil {
		return d.failed(ctx, "notification.test_send_failed", "", err)
	}
	return services.SendOutcome{Success: true, MessageID: id}
}

// Verify reports whether the underlying sender can reach its transport.
func (d *Dispatcher) Verify(ctx context.Context) error {
	if d == nil || d.sender == nil {
		return errors.New("notification dispatcher: not initialised")
	}
	verifier, ok := d.sender.(interface{ Verify(ctx context.Context) error })
	if !ok {
		return nil
	}
	return verifier.Verify(ctx)
}

func (d *Dispatcher) failed(ctx context.Context, event, orderNumber string, err error) services.SendOutcome {
	fields := map[string]any{"error": err.Error()}
	if orderNumber != "" {
		fields["orderNumber"] = orderNumber
	}
	d.logger(ctx, event, fields)
	return services.SendOutcome{Err: err}
}
