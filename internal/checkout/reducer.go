package checkout

import (
	"strings"

	"github.com/go-faster/errors"

	"storefront/internal/models"
)

// MsgCardIncomplete is shown when the card form is submitted without a payment method.
const MsgCardIncomplete = "Please complete your payment details"

// Reduce applies ev to s. It never performs I/O. On error s is returned
// unchanged.
//
// While s.Processing is set only the completion the session is waiting for,
// Opened and Closed are accepted; anything else yields ErrBusy.
func Reduce(s Session, ev Event) (Session, error) {
	switch ev := ev.(type) {
	case Opened:
		if ev.Product.ID == "" {
			return s, errors.Wrap(ErrInvalidTransition, "open without a product")
		}
		return Session{Step: StepEmailCapture, Product: ev.Product}, nil
	case Closed:
		return Session{}, nil
	}

	if !s.IsOpen() {
		return s, invalid(s, ev)
	}
	completion := isCompletion(ev)
	switch {
	case s.Processing && !completion:
		return s, ErrBusy
	case completion && !(s.Processing && awaited(s, ev)):
		return s, invalid(s, ev)
	}

	switch ev := ev.(type) {
	case EmailSubmitted:
		if s.Step != StepEmailCapture {
			return s, invalid(s, ev)
		}
		email, problem := ValidateEmail(ev.Email)
		s.Email = email
		s.FieldError = problem
		if problem == "" {
			s.Step = StepMethodSelection
			s.Notice = ""
		}
		return s, nil

	case MethodSelected:
		if s.Step != StepMethodSelection {
			return s, invalid(s, ev)
		}
		if !ev.Method.Valid() {
			return s, errors.Wrapf(ErrInvalidTransition, "unknown payment method %q", ev.Method)
		}
		s = s.clearMethod()
		s.Method = ev.Method
		s.Notice = ""
		s.Processing = true
		return s, nil

	case OrderCreated:
		s.OrderID = ev.OrderID
		s.Amount = ev.Amount
		if s.Method.Manual() {
			s.Step = StepManualInstructions
			s.Processing = false
		}
		return s, nil

	case IntentCreated:
		if ev.ClientSecret == "" {
			return s, errors.Wrap(ErrInvalidTransition, "intent without a client secret")
		}
		s.ClientSecret = ev.ClientSecret
		s.FormReady = false
		s.Step = StepCardPayment
		s.Processing = false
		return s, nil

	case ServiceFailed:
		s = s.clearMethod()
		s.Notice = ev.Notice
		s.Processing = false
		return s, nil

	case FormReady:
		if s.Step != StepCardPayment {
			return s, invalid(s, ev)
		}
		s.FormReady = true
		return s, nil

	case CardSubmitted:
		if s.Step != StepCardPayment {
			return s, invalid(s, ev)
		}
		if !s.FormReady {
			return s, ErrFormNotReady
		}
		if strings.TrimSpace(ev.Form.PaymentMethod) == "" {
			s.FieldError = MsgCardIncomplete
			return s, nil
		}
		s.FieldError = ""
		s.Processing = true
		return s, nil

	case CardRejected:
		s.FieldError = ev.Message
		s.Processing = false
		return s, nil

	case PaymentSucceeded:
		s.FieldError = ""
		s.Step = StepCompleted
		s.Processing = false
		return s, nil

	case Back:
		switch s.Step {
		case StepMethodSelection:
			s.Step = StepEmailCapture
			s.FieldError = ""
			s.Notice = ""
			return s, nil
		case StepCardPayment, StepManualInstructions:
			s = s.clearMethod()
			s.Step = StepMethodSelection
			return s, nil
		}
	}
	return s, invalid(s, ev)
}

// isCompletion reports whether ev resolves an in-flight request.
func isCompletion(ev Event) bool {
	switch ev.(type) {
	case OrderCreated, IntentCreated, ServiceFailed, CardRejected, PaymentSucceeded:
		return true
	}
	return false
}

// awaited reports whether the in-flight request of s is the one ev resolves.
func awaited(s Session, ev Event) bool {
	switch ev.(type) {
	case OrderCreated:
		return s.Step == StepMethodSelection && s.OrderID == ""
	case IntentCreated:
		return s.Step == StepMethodSelection && s.OrderID != "" && s.Method == models.PaymentMethodCard
	case ServiceFailed:
		return s.Step == StepMethodSelection
	case CardRejected, PaymentSucceeded:
		return s.Step == StepCardPayment
	}
	return false
}

func invalid(s Session, ev Event) error {
	return errors.Wrapf(ErrInvalidTransition, "%T in %s", ev, s.Step)
}
