package notifications

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/techstore/api/internal/services"
)

type stubSender struct {
	sent   []Message
	failTo string
}

func (s *stubSender) Send(_ context.Context, msg Message) (string, error) {
	s.sent = append(s.sent, msg)
	if s.failTo != "" && msg.To == s.failTo {
		return "", errors.New("smtp: connection reset")
	}
	return "msg-" + msg.To, nil
}

func testNotification() services.OrderNotification {
	return services.OrderNotification{
		OrderNumber: "ORD43200000007",
		Customer: services.CustomerProfile{
			FullName:   "Ahmed Al-Rashid",
			Email:      "ahmed@example.com",
			Phone:      "+964 770 123 4567",
			Address:    "14 Al-Mansour St",
			City:       "Baghdad",
			PostalCode: "10001",
		},
		Items: []services.NotificationLine{
			{
				ProductName:  "Premium Wireless Headphones",
				ProductPrice: decimal.RequireFromString("199.99"),
				Quantity:     2,
				Subtotal:     decimal.RequireFromString("399.98"),
			},
		},
		TotalAmount: decimal.RequireFromString("399.98"),
		OrderDate:   time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func newTestDispatcher(t *testing.T, sender Sender) *Dispatcher {
	t.Helper()
	d, err := NewDispatcher(DispatcherDeps{
		Sender:        sender,
		BusinessEmail: "orders@techstore.com",
	})
	require.NoError(t, err)
	return d
}

func TestDispatcherSendOrderEmails(t *testing.T) {
	sender := &stubSender{}
	d := newTestDispatcher(t, sender)

	outcome := d.SendOrderEmails(context.Background(), testNotification())

	require.True(t, outcome.Success)
	require.True(t, outcome.Customer.Success)
	require.True(t, outcome.Business.Success)
	require.Len(t, sender.sent, 2)

	customer := sender.sent[0]
	require.Equal(t, "ahmed@example.com", customer.To)
	require.Equal(t, "Order Confirmation - ORD43200000007 | TechStore", customer.Subject)
	require.Contains(t, customer.HTML, "Premium Wireless Headphones")
	require.Contains(t, customer.HTML, "$399.98")

	business := sender.sent[1]
	require.Equal(t, "orders@techstore.com", business.To)
	require.Equal(t, "NEW ORDER ALERT - ORD43200000007 ($399.98)", business.Subject)
	require.Contains(t, business.HTML, "ahmed@example.com")
}

func TestDispatcherSendOrderEmailsPartialFailure(t *testing.T) {
	sender := &stubSender{failTo: "ahmed@example.com"}
	d := newTestDispatcher(t, sender)

	outcome := d.SendOrderEmails(context.Background(), testNotification())

	require.False(t, outcome.Success)
	require.False(t, outcome.Customer.Success)
	require.Error(t, outcome.Customer.Err)
	require.True(t, outcome.Business.Success)
	// The business alert is still attempted after the customer send fails.
	require.Len(t, sender.sent, 2)
}

func TestDispatcherSendTest(t *testing.T) {
	sender := &stubSender{}
	d := newTestDispatcher(t, sender)

	outcome := d.SendTest(context.Background(), "ops@techstore.com")
	require.True(t, outcome.Success)
	require.NotEmpty(t, outcome.MessageID)
	require.Len(t, sender.sent, 1)
	require.True(t, strings.Contains(sender.sent[0].Subject, "Email Test"))

	outcome = d.SendTest(context.Background(), "   ")
	require.Error(t, outcome.Err)
	require.Len(t, sender.sent, 1)
}

func TestNewDispatcherValidation(t *testing.T) {
	_, err := NewDispatcher(DispatcherDeps{BusinessEmail: "orders@techstore.com"})
	require.Error(t, err)

	_, err = NewDispatcher(DispatcherDeps{Sender: &stubSender{}})
	require.Error(t, err)
}
