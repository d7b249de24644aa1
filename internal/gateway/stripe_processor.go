package gateway

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/sony/gobreaker/v2"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"go.uber.org/zap"

	"storefront/internal/services"
)

// intentAPI is the slice of the Stripe payment intent client the processor uses.
type intentAPI interface {
	New(params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error)
	Confirm(id string, params *stripe.PaymentIntentConfirmParams) (*stripe.PaymentIntent, error)
}

// StripeProcessor implements services.PaymentProcessor on top of Stripe.
// Calls go through a circuit breaker that only counts transport and server
// failures; declined cards do not trip it.
type StripeProcessor struct {
	intents intentAPI
	breaker *gobreaker.CircuitBreaker[*stripe.PaymentIntent]
	log     *zap.Logger
}

// NewStripeProcessor creates a processor authenticated with secretKey.
func NewStripeProcessor(secretKey string, log *zap.Logger) *StripeProcessor {
	sc := client.New(secretKey, nil)
	return newStripeProcessor(sc.PaymentIntents, log)
}

func newStripeProcessor(intents intentAPI, log *zap.Logger) *StripeProcessor {
	if log == nil {
		log = zap.NewNop()
	}
	p := &StripeProcessor{intents: intents, log: log}
	p.breaker = gobreaker.NewCircuitBreaker[*stripe.PaymentIntent](gobreaker.Settings{
		Name:        "stripe",
		MaxRequests: 1,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		IsSuccessful: func(err error) bool {
			return err == nil || classify(err) != nil
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("Circuit breaker state changed",
				zap.String("breaker", name),
				zap.Stringer("from", from),
				zap.Stringer("to", to),
			)
		},
	})
	return p
}

// CreatePaymentIntent opens an intent with automatic payment methods enabled.
func (p *StripeProcessor) CreatePaymentIntent(ctx context.Context, req services.IntentRequest) (*services.PaymentIntent, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(req.Amount),
		Currency: stripe.String(req.Currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.Context = ctx
	for k, v := range req.Metadata {
		params.AddMetadata(k, v)
	}

	pi, err := p.breaker.Execute(func() (*stripe.PaymentIntent, error) {
		return p.intents.New(params)
	})
	if err != nil {
		return nil, errors.Wrap(err, "stripe: create payment intent")
	}
	return &services.PaymentIntent{ID: pi.ID, ClientSecret: pi.ClientSecret}, nil
}

// ConfirmPaymentIntent confirms intentID with the collected payment method.
// Card declines and request validation failures come back as *services.PaymentError.
func (p *StripeProcessor) ConfirmPaymentIntent(ctx context.Context, intentID string, req services.ConfirmRequest) error {
	params := &stripe.PaymentIntentConfirmParams{}
	if req.PaymentMethod != "" {
		params.PaymentMethod = stripe.String(req.PaymentMethod)
	}
	if req.ReturnURL != "" {
		params.ReturnURL = stripe.String(req.ReturnURL)
	}
	params.Context = ctx

	pi, err := p.breaker.Execute(func() (*stripe.PaymentIntent, error) {
		return p.intents.Confirm(intentID, params)
	})
	if err != nil {
		if payErr := classify(err); payErr != nil {
			return payErr
		}
		return errors.Wrap(err, "stripe: confirm payment intent")
	}

	switch pi.Status {
	case stripe.PaymentIntentStatusSucceeded, stripe.PaymentIntentStatusProcessing:
		return nil
	case stripe.PaymentIntentStatusRequiresPaymentMethod:
		return &services.PaymentError{Kind: services.PaymentErrorCard, Message: "Your payment method was declined."}
	default:
		return errors.Errorf("stripe: payment intent %s is %s", pi.ID, pi.Status)
	}
}

// classify maps a Stripe error the buyer can act on to a PaymentError.
// Anything else yields nil.
func classify(err error) *services.PaymentError {
	var stripeErr *stripe.Error
	if !errors.As(err, &stripeErr) {
		return nil
	}
	switch stripeErr.Type {
	case stripe.ErrorTypeCard:
		return &services.PaymentError{Kind: services.PaymentErrorCard, Message: stripeErr.Msg}
	case stripe.ErrorTypeInvalidRequest:
		return &services.PaymentError{Kind: services.PaymentErrorValidation, Message: stripeErr.Msg}
	}
	return nil
}
