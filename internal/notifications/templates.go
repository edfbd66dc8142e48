package notifications

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"github.com/techstore/api/internal/services"
)

const storeName = "TechStore"

type emailLine struct {
	Name     string
	Quantity int
	Price    string
	Subtotal string
}

type orderEmailData struct {
	StoreName         string
	OrderNumber       string
	FullName          string
	Email             string
	Phone             string
	Address           string
	City              string
	PostalCode        string
	OrderDate         string
	Items             []emailLine
	Total             string
	DeliveryNotes     string
	PaymentMethod     string
	EstimatedDelivery string
}

var customerEmailTemplate = template.Must(template.New("customer").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Order Confirmation - {{.OrderNumber}}</title></head>
<body style="font-family: Arial, sans-serif; color: #333;">
  <div style="max-width: 600px; margin: 0 auto;">
    <div style="background: #1f2937; color: white; padding: 30px; text-align: center;">
      <h1 style="margin: 0;">{{.StoreName}}</h1>
      <p style="margin: 10px 0 0 0;">Order Confirmation</p>
    </div>
    <div style="padding: 30px;">
      <h2>Thank you for your order, {{.FullName}}!</h2>
      <p>Your order has been received and is being processed. We'll send you another email when your items are on their way.</p>
      <div style="background: #f8f9fa; padding: 20px; border-radius: 8px;">
        <h3 style="margin-top: 0;">Order Details</h3>
        <p><strong>Order Number:</strong> {{.OrderNumber}}</p>
        <p><strong>Order Date:</strong> {{.OrderDate}}</p>
        <p><strong>Payment Method:</strong> {{.PaymentMethod}}</p>
        <p><strong>Estimated Delivery:</strong> {{.EstimatedDelivery}}</p>
      </div>
      <div style="background: #e3f2fd; padding: 20px; border-radius: 8px; margin-top: 20px;">
        <h3 style="margin-top: 0;">Delivery Address</h3>
        <p style="margin: 5px 0;"><strong>{{.FullName}}</strong></p>
        <p style="margin: 5px 0;">{{.Address}}</p>
        <p style="margin: 5px 0;">{{.City}}, {{.PostalCode}}</p>
        <p style="margin: 5px 0;">{{.Phone}}</p>
        <p style="margin: 5px 0;">{{.Email}}</p>
      </div>
      <h3>Order Items</h3>
      <table style="width: 100%; border-collapse: collapse; border: 1px solid #ddd;">
        <thead>
          <tr style="background: #1f2937; color: white;">
            <th style="padding: 12px; text-align: left;">Product</th>
            <th style="padding: 12px; text-align: center;">Qty</th>
            <th style="padding: 12px; text-align: right;">Price</th>
            <th style="padding: 12px; text-align: right;">Subtotal</th>
          </tr>
        </thead>
        <tbody>
          {{range .Items}}<tr style="border-bottom: 1px solid #eee;">
            <td style="padding: 12px;">{{.Name}}</td>
            <td style="padding: 12px; text-align: center;">{{.Quantity}}</td>
            <td style="padding: 12px; text-align: right;">${{.Price}}</td>
            <td style="padding: 12px; text-align: right;"><strong>${{.Subtotal}}</strong></td>
          </tr>{{end}}
        </tbody>
      </table>
      <p style="text-align: right; font-size: 18px;"><strong>Total: ${{.Total}}</strong></p>
      {{if .DeliveryNotes}}<p><strong>Delivery Notes:</strong> {{.DeliveryNotes}}</p>{{end}}
      <p>Questions about your order? Contact us at support@techstore.com.</p>
    </div>
  </div>
</body>
</html>
`))

var businessEmailTemplate = template.Must(template.New("business").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>New Order - {{.OrderNumber}}</title></head>
<body style="font-family: Arial, sans-serif; color: #333;">
  <div style="max-width: 600px; margin: 0 auto;">
    <div style="background: #dc2626; color: white; padding: 20px; text-align: center;">
      <h1 style="margin: 0;">New Order Received</h1>
      <p style="margin: 10px 0 0 0;">{{.OrderNumber}} - ${{.Total}}</p>
    </div>
    <div style="padding: 20px;">
      <h3>Customer</h3>
      <p><strong>Name:</strong> {{.FullName}}</p>
      <p><strong>Email:</strong> {{.Email}}</p>
      <p><strong>Phone:</strong> {{.Phone}}</p>
      <p><strong>Address:</strong> {{.Address}}, {{.City}}, {{.PostalCode}}</p>
      <h3>Order</h3>
      <p><strong>Placed:</strong> {{.OrderDate}}</p>
      <p><strong>Payment:</strong> {{.PaymentMethod}}</p>
      {{if .DeliveryNotes}}<p><strong>Delivery Notes:</strong> {{.DeliveryNotes}}</p>{{end}}
      <table style="width: 100%; border-collapse: collapse; border: 1px solid #ddd;">
        <thead>
          <tr style="background: #1f2937; color: white;">
            <th style="padding: 10px; text-align: left;">Product</th>
            <th style="padding: 10px; text-align: center;">Qty</th>
            <th style="padding: 10px; text-align: right;">Price</th>
            <th style="padding: 10px; text-align: right;">Subtotal</th>
          </tr>
        </thead>
        <tbody>
          {{range .Items}}<tr style="border-bottom: 1px solid #eee;">
            <td style="padding: 10px;">{{.Name}}</td>
            <td style="padding: 10px; text-align: center;">{{.Quantity}}</td>
            <td style="padding: 10px; text-align: right;">${{.Price}}</td>
            <td style="padding: 10px; text-align: right;">${{.Subtotal}}</td>
          </tr>{{end}}
        </tbody>
      </table>
      <p style="text-align: right; font-size: 18px;"><strong>Total: ${{.Total}}</strong></p>
      <p><strong>Action needed:</strong> confirm the order and schedule delivery (cash on delivery).</p>
    </div>
  </div>
</body>
</html>
`))

var testEmailTemplate = template.Must(template.New("test").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>{{.StoreName}} Email Test</title></head>
<body style="font-family: Arial, sans-serif; color: #333;">
  <div style="max-width: 600px; margin: 0 auto; padding: 30px;">
    <h1>{{.StoreName}} Email Test</h1>
    <p>This is a test message confirming the email configuration works.</p>
    <p>Sent at {{.OrderDate}}.</p>
  </div>
</body>
</html>
`))

func buildEmailData(n services.OrderNotification) orderEmailData {
	items := make([]emailLine, 0, len(n.Items))
	for _, line := range n.Items {
		items = append(items, emailLine{
			Name:     line.ProductName,
			Quantity: line.Quantity,
			Price:    line.ProductPrice.StringFixed(2),
			Subtotal: line.Subtotal.StringFixed(2),
		})
	}
	return orderEmailData{
		StoreName:         storeName,
		OrderNumber:       n.OrderNumber,
		FullName:          n.Customer.FullName,
		Email:             n.Customer.Email,
		Phone:             n.Customer.Phone,
		Address:           n.Customer.Address,
		City:              n.Customer.City,
		PostalCode:        n.Customer.PostalCode,
		OrderDate:         formatOrderDate(n.OrderDate),
		Items:             items,
		Total:             n.TotalAmount.StringFixed(2),
		DeliveryNotes:     n.DeliveryNotes,
		PaymentMethod:     "Cash on Delivery (COD)",
		EstimatedDelivery: "2-3 business days",
	}
}

func formatOrderDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format("January 2, 2006 15:04 MST")
}

func renderTemplate(tmpl *template.Template, data orderEmailData) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render %s email: %w", tmpl.Name(), err)
	}
	return buf.String(), nil
}
