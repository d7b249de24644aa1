package checkout

import (
	"github.com/shopspring/decimal"

	"storefront/internal/models"
)

// Step is where the buyer is in the checkout flow.
type Step int

const (
	StepEmailCapture Step = iota
	StepMethodSelection
	StepCardPayment
	StepManualInstructions
	StepCompleted
)

func (s Step) String() string {
	switch s {
	case StepEmailCapture:
		return "EmailCapture"
	case StepMethodSelection:
		return "MethodSelection"
	case StepCardPayment:
		return "CardPayment"
	case StepManualInstructions:
		return "ManualInstructions"
	case StepCompleted:
		return "Completed"
	}
	return "Unknown"
}

// Product is the snapshot of the product being bought.
type Product struct {
	ID    string
	Name  string
	Price decimal.Decimal
}

// Session is the ephemeral state of one checkout. The zero value is a closed
// checkout.
type Session struct {
	Step       Step
	Processing bool

	Product Product
	Email   string
	Method  models.PaymentMethod

	OrderID      string
	Amount       decimal.Decimal
	ClientSecret string
	FormReady    bool

	// FieldError is an inline validation message for the current step.
	FieldError string
	// Notice is a transient message about the last failed service call.
	Notice string
}

// IsOpen reports whether a product has been opened for checkout.
func (s Session) IsOpen() bool { return s.Product.ID != "" }

// clearMethod drops everything private to the method sub-flow.
func (s Session) clearMethod() Session {
	s.Method = ""
	s.OrderID = ""
	s.Amount = decimal.Decimal{}
	s.ClientSecret = ""
	s.FormReady = false
	s.FieldError = ""
	return s
}
