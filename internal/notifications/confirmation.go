package notifications

import (
	"bytes"
	"html/template"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"storefront/internal/models"
)

// OrderConfirmation is the message queued for every order that has a buyer email.
type OrderConfirmation struct {
	OrderID     string          `json:"orderId"`
	ProductName string          `json:"productName"`
	Amount      decimal.Decimal `json:"amount"`
	Email       string          `json:"email"`
}

// ConfirmationFor builds the confirmation for order. ok is false when the
// order has no buyer email.
func ConfirmationFor(order *models.Order) (c OrderConfirmation, ok bool) {
	if order.UserEmail == nil || *order.UserEmail == "" {
		return c, false
	}
	return OrderConfirmation{
		OrderID:     order.ID,
		ProductName: order.Product.Name,
		Amount:      order.Amount,
		Email:       *order.UserEmail,
	}, true
}

// Mail is a rendered email ready for a Mailer.
type Mail struct {
	From    string
	To      string
	Subject string
	HTML    string
}

var confirmationBody = template.Must(template.New("confirmation").Parse(`<h1>Thank you for your order!</h1>
<p>Your order for <strong>{{.ProductName}}</strong> has been received.</p>
<p>Order ID: {{.OrderID}}</p>
<p>Amount: ${{.Amount}} USD</p>
<p>We will deliver your subscription details shortly.</p>
`))

type confirmationView struct {
	ProductName string
	OrderID     string
	Amount      string
}

// RenderConfirmation renders the confirmation email for c.
func RenderConfirmation(c OrderConfirmation, from string) (Mail, error) {
	var buf bytes.Buffer
	view := confirmationView{
		ProductName: c.ProductName,
		OrderID:     c.OrderID,
		Amount:      c.Amount.StringFixed(2),
	}
	if err := confirmationBody.Execute(&buf, view); err != nil {
		return Mail{}, errors.Wrap(err, "render confirmation")
	}
	return Mail{
		From:    from,
		To:      c.Email,
		Subject: "Order Confirmed: " + c.ProductName,
		HTML:    buf.String(),
	}, nil
}
