package checkout

import (
	"context"

	"github.com/shopspring/decimal"

	"storefront/internal/models"
)

// OrderRequest asks the order service for a PENDING order.
type OrderRequest struct {
	ProductID string
	Amount    decimal.Decimal
	Method    models.PaymentMethod
	Email     string
}

// CreatedOrder is the part of a created order the flow keeps.
type CreatedOrder struct {
	ID     string
	Amount decimal.Decimal
}

// IntentRequest asks the payment gateway for a card payment intent.
type IntentRequest struct {
	AmountMinor int64
	ProductName string
	Email       string
	OrderID     string
}

// CardForm is what the embedded card form collected.
type CardForm struct {
	PaymentMethod string
	ReturnURL     string
}

// OrderCreator creates orders. Errors should be *Error.
type OrderCreator interface {
	CreateOrder(ctx context.Context, req OrderRequest) (*CreatedOrder, error)
}

// IntentCreator creates card payment intents and returns the client secret.
type IntentCreator interface {
	CreatePaymentIntent(ctx context.Context, req IntentRequest) (clientSecret string, err error)
}

// PaymentConfirmer confirms a card payment. Refusals should be *Error with
// KindGateway.
type PaymentConfirmer interface {
	ConfirmPayment(ctx context.Context, clientSecret string, form CardForm) error
}

// ChatOpener opens an external chat with a prefilled message link.
type ChatOpener interface {
	OpenChat(ctx context.Context, link string) error
}
