package checkout

import (
	"github.com/shopspring/decimal"

	"storefront/internal/models"
)

// Event is an input to Reduce.
type Event interface {
	event()
}

// Opened starts a checkout for Product, discarding any previous session.
type Opened struct{ Product Product }

// EmailSubmitted carries the buyer's raw email input.
type EmailSubmitted struct{ Email string }

// MethodSelected starts order creation for Method.
type MethodSelected struct{ Method models.PaymentMethod }

// OrderCreated completes order creation.
type OrderCreated struct {
	OrderID string
	Amount  decimal.Decimal
}

// IntentCreated completes payment intent creation on the card path.
type IntentCreated struct{ ClientSecret string }

// ServiceFailed reports a failed order or intent creation.
type ServiceFailed struct{ Notice string }

// FormReady reports that the embedded card form can accept a submission.
type FormReady struct{}

// CardSubmitted is a card payment submission.
type CardSubmitted struct{ Form CardForm }

// CardRejected reports a refused card payment.
type CardRejected struct{ Message string }

// PaymentSucceeded completes a card payment.
type PaymentSucceeded struct{}

// Back returns one step.
type Back struct{}

// Closed discards the session.
type Closed struct{}

func (Opened) event()           {}
func (EmailSubmitted) event()   {}
func (MethodSelected) event()   {}
func (OrderCreated) event()     {}
func (IntentCreated) event()    {}
func (ServiceFailed) event()    {}
func (FormReady) event()        {}
func (CardSubmitted) event()    {}
func (CardRejected) event()     {}
func (PaymentSucceeded) event() {}
func (Back) event()             {}
func (Closed) event()           {}
