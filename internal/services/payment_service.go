package services

import (
	"context"
	"strings"

	"github.com/go-faster/errors"
	"go.uber.org/zap"
)

// MinimumChargeMinor is the smallest chargeable amount in minor units ($0.50).
const MinimumChargeMinor int64 = 50

// DefaultCurrency is used when an intent request names none.
const DefaultCurrency = "usd"

// IntentRequest asks the processor for a new payment intent.
type IntentRequest struct {
	Amount   int64 // minor units
	Currency string
	Metadata map[string]string
}

// PaymentIntent is the processor's handle for a pending charge. ClientSecret
// must only be handed to the buyer's client.
type PaymentIntent struct {
	ID           string
	ClientSecret string
}

// ConfirmRequest carries what the buyer's payment form collected.
type ConfirmRequest struct {
	PaymentMethod string
	ReturnURL     string
}

// PaymentProcessor is the external card processor.
type PaymentProcessor interface {
	CreatePaymentIntent(ctx context.Context, req IntentRequest) (*PaymentIntent, error)
	// ConfirmPaymentIntent returns a *PaymentError for declines and validation failures.
	ConfirmPaymentIntent(ctx context.Context, intentID string, req ConfirmRequest) error
}

// PaymentService adapts the card processor to the storefront.
type PaymentService struct {
	processor PaymentProcessor
	log       *zap.Logger
}

// NewPaymentService creates a new PaymentService.
func NewPaymentService(processor PaymentProcessor, log *zap.Logger) *PaymentService {
	if log == nil {
		log = zap.NewNop()
	}
	return &PaymentService{
		processor: processor,
		log:       log,
	}
}

// CreateIntent opens a payment intent for amount minor units. Amounts below
// MinimumChargeMinor are rejected without contacting the processor.
func (s *PaymentService) CreateIntent(ctx context.Context, req IntentRequest) (*PaymentIntent, error) {
	if req.Amount < MinimumChargeMinor {
		return nil, ErrAmountBelowMinimum
	}
	if req.Currency == "" {
		req.Currency = DefaultCurrency
	}

	intent, err := s.processor.CreatePaymentIntent(ctx, req)
	if err != nil {
		return nil, errors.Wrap(err, "create payment intent")
	}
	s.log.Info("Payment intent created",
		zap.String("intent_id", intent.ID),
		zap.Int64("amount", req.Amount),
		zap.String("currency", req.Currency),
	)
	return intent, nil
}

// ConfirmPayment confirms the intent identified by clientSecret. Failures are
// returned as *PaymentError.
func (s *PaymentService) ConfirmPayment(ctx context.Context, clientSecret string, req ConfirmRequest) error {
	intentID, err := IntentIDFromSecret(clientSecret)
	if err != nil {
		return err
	}

	err = s.processor.ConfirmPaymentIntent(ctx, intentID, req)
	if err == nil {
		s.log.Info("Payment confirmed", zap.String("intent_id", intentID))
		return nil
	}

	var payErr *PaymentError
	if errors.As(err, &payErr) {
		s.log.Info("Payment refused", zap.String("intent_id", intentID), zap.String("kind", string(payErr.Kind)))
		return payErr
	}
	s.log.Error("Payment confirmation failed", zap.String("intent_id", intentID), zap.Error(err))
	return &PaymentError{Kind: PaymentErrorOther, Message: "An unexpected error occurred."}
}

// IntentIDFromSecret extracts the intent id from a "<id>_secret_<nonce>" client secret.
func IntentIDFromSecret(clientSecret string) (string, error) {
	id, _, ok := strings.Cut(clientSecret, "_secret_")
	if !ok || id == "" {
		return "", ErrInvalidClientSecret
	}
	return id, nil
}
