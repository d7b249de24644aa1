package checkout

import (
	"fmt"

	"github.com/go-faster/errors"
)

// Reducer and controller errors.
var (
	ErrInvalidTransition = errors.New("checkout: invalid transition")
	ErrBusy              = errors.New("checkout: a request is already in flight")
	ErrFormNotReady      = errors.New("checkout: payment form is not ready")
	ErrSessionDiscarded  = errors.New("checkout: session was closed while the request was in flight")
)

// ErrorKind classifies failures the buyer can see.
type ErrorKind int

const (
	// KindValidation is bad input; never retried automatically.
	KindValidation ErrorKind = iota + 1
	// KindGateway is a refusal reported by the card processor.
	KindGateway
	// KindTransient is a failed service call, such as a network or server fault.
	KindTransient
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindGateway:
		return "gateway"
	case KindTransient:
		return "transient"
	}
	return "unknown"
}

// Error is a collaborator failure translated for the controller. Code carries
// the gateway's error kind (card_error, validation_error, other) for
// KindGateway.
type Error struct {
	Kind    ErrorKind
	Code    string
	Message string
}

func (e *Error) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s error (%s): %s", e.Kind, e.Code, e.Message)
	}
	return fmt.Sprintf("%s error: %s", e.Kind, e.Message)
}

// Gateway error codes whose message is shown to the buyer as-is.
const (
	CodeCardError       = "card_error"
	CodeValidationError = "validation_error"
)

func transientError(message string) *Error {
	return &Error{Kind: KindTransient, Message: message}
}

func validationError(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

// asError returns err as an *Error, if it is one.
func asError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}
