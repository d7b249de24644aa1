package services

import (
	"fmt"

	"github.com/go-faster/errors"
)

// Client errors raised before any collaborator is touched.
var (
	ErrMissingFields        = errors.New("missing required fields")
	ErrInvalidPaymentMethod = errors.New("invalid payment method")
	ErrAmountBelowMinimum   = errors.New("invalid amount: minimum is $0.50")
	ErrInvalidClientSecret  = errors.New("invalid client secret")
)

// Auth errors.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidToken       = errors.New("invalid token")
)

// ErrNotFound is returned when a requested product or order does not exist.
var ErrNotFound = errors.New("not found")

// PaymentErrorKind classifies a failure reported by the card processor.
type PaymentErrorKind string

const (
	PaymentErrorCard       PaymentErrorKind = "card_error"
	PaymentErrorValidation PaymentErrorKind = "validation_error"
	PaymentErrorOther      PaymentErrorKind = "other"
)

// PaymentError is a processor failure translated at the service boundary.
type PaymentError struct {
	Kind    PaymentErrorKind
	Message string
}

func (e *PaymentError) Error() string {
	return fmt.Sprintf("payment %s: %s", e.Kind, e.Message)
}
