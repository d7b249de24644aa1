package checkout

import (
	"context"
	"fmt"
	"sync"

	"github.com/go-faster/errors"
	"go.uber.org/zap"

	"storefront/internal/config"
	"storefront/internal/models"
)

// Messages shown to the buyer when a collaborator fails.
const (
	NoticeCardSetupFailed = "Failed to setup payment. Please try again."
	NoticeOrderFailed     = "Failed to create order"
	MsgPaymentFailed      = "Payment failed"
	MsgUnexpected         = "An unexpected error occurred."
)

// Deps are the controller's collaborators.
type Deps struct {
	Orders   OrderCreator
	Intents  IntentCreator
	Payments PaymentConfirmer
	Chat     ChatOpener
}

// Controller drives one buyer's checkout. It is safe for concurrent use but
// runs at most one request per session at a time.
//
// Every request remembers the epoch it started in. Open and Close advance the
// epoch, so a request that resolves after its session was discarded is
// dropped with ErrSessionDiscarded.
type Controller struct {
	deps     Deps
	contacts config.Contacts
	log      *zap.Logger

	mu      sync.Mutex
	session Session
	epoch   uint64
}

// NewController creates a controller with a closed session.
func NewController(deps Deps, contacts config.Contacts, log *zap.Logger) *Controller {
	if log == nil {
		log = zap.NewNop()
	}
	return &Controller{deps: deps, contacts: contacts, log: log}
}

// State returns a copy of the current session.
func (c *Controller) State() Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session
}

// Open starts a checkout for product, discarding any previous session.
func (c *Controller) Open(product Product) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	next, err := Reduce(c.session, Opened{Product: product})
	if err != nil {
		return err
	}
	c.epoch++
	c.session = next
	return nil
}

// Close discards the session. In-flight requests are left to finish and
// their results are ignored.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.epoch++
	c.session = Session{}
}

// SubmitEmail validates email and advances to method selection.
func (c *Controller) SubmitEmail(email string) error {
	next, _, err := c.apply(EmailSubmitted{Email: email})
	if err != nil {
		return err
	}
	if next.FieldError != "" {
		return validationError(next.FieldError)
	}
	return nil
}

// Back returns one step.
func (c *Controller) Back() error {
	_, _, err := c.apply(Back{})
	return err
}

// MarkFormReady records that the card form can be submitted.
func (c *Controller) MarkFormReady() error {
	_, _, err := c.apply(FormReady{})
	return err
}

// SelectMethod creates a PENDING order for method. For CARD it then opens a
// payment intent for the product price in minor units. A failure at either
// step returns the session to method selection with a notice; an order
// created before a failed intent is left as is.
func (c *Controller) SelectMethod(ctx context.Context, method models.PaymentMethod) error {
	s, epoch, err := c.apply(MethodSelected{Method: method})
	if err != nil {
		return err
	}

	notice := NoticeOrderFailed
	if method == models.PaymentMethodCard {
		notice = NoticeCardSetupFailed
	}

	order, err := c.deps.Orders.CreateOrder(ctx, OrderRequest{
		ProductID: s.Product.ID,
		Amount:    s.Product.Price,
		Method:    method,
		Email:     s.Email,
	})
	if err != nil {
		return c.fail(epoch, notice, "create order", err)
	}
	c.log.Info("Order created",
		zap.String("order_id", order.ID),
		zap.String("payment_method", string(method)),
	)
	if err := c.complete(epoch, OrderCreated{OrderID: order.ID, Amount: order.Amount}); err != nil {
		return err
	}
	if method != models.PaymentMethodCard {
		return nil
	}

	secret, err := c.deps.Intents.CreatePaymentIntent(ctx, IntentRequest{
		AmountMinor: MinorUnits(s.Product),
		ProductName: s.Product.Name,
		Email:       s.Email,
		OrderID:     order.ID,
	})
	if err != nil {
		return c.fail(epoch, notice, "create payment intent", err)
	}
	return c.complete(epoch, IntentCreated{ClientSecret: secret})
}

// SubmitCard confirms the card payment. Refusals keep the buyer on the card
// step with a message and may be retried.
func (c *Controller) SubmitCard(ctx context.Context, form CardForm) error {
	s, epoch, err := c.apply(CardSubmitted{Form: form})
	if err != nil {
		return err
	}
	if !s.Processing {
		return validationError(s.FieldError)
	}

	err = c.deps.Payments.ConfirmPayment(ctx, s.ClientSecret, form)
	if err == nil {
		return c.complete(epoch, PaymentSucceeded{})
	}

	message := MsgUnexpected
	if e, ok := asError(err); ok && e.Kind == KindGateway && (e.Code == CodeCardError || e.Code == CodeValidationError) {
		message = e.Message
		if message == "" {
			message = MsgPaymentFailed
		}
	}
	c.log.Info("Card payment refused", zap.String("order_id", s.OrderID), zap.Error(err))
	if cerr := c.complete(epoch, CardRejected{Message: message}); cerr != nil {
		return cerr
	}
	return &Error{Kind: KindGateway, Code: codeOf(err), Message: message}
}

// Instructions returns the manual payment panel for the current session.
func (c *Controller) Instructions() (Instructions, error) {
	s := c.State()
	if s.Step != StepManualInstructions {
		return Instructions{}, errors.Wrapf(ErrInvalidTransition, "no instructions in %s", s.Step)
	}
	return BuildInstructions(c.contacts, s.Method, s.Product.Name, s.OrderID, s.Amount)
}

// HandOffToChat opens the chat used to confirm a manual payment. The session
// is not changed.
func (c *Controller) HandOffToChat(ctx context.Context) (string, error) {
	s := c.State()
	if s.Step != StepManualInstructions {
		return "", errors.Wrapf(ErrInvalidTransition, "chat hand-off in %s", s.Step)
	}
	link := ChatLink(c.contacts.WhatsAppNumber, ChatMessage(s.Product.Name, s.Product.Price, s.OrderID, s.Email))
	if err := c.deps.Chat.OpenChat(ctx, link); err != nil {
		return link, errors.Wrap(err, "open chat")
	}
	return link, nil
}

// MinorUnits is the product price in cents, rounded half away from zero.
func MinorUnits(p Product) int64 {
	return p.Price.Shift(2).Round(0).IntPart()
}

// apply reduces ev into the current session and returns the new session with
// the epoch it belongs to.
func (c *Controller) apply(ev Event) (Session, uint64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	next, err := Reduce(c.session, ev)
	if err != nil {
		return c.session, c.epoch, err
	}
	c.session = next
	return next, c.epoch, nil
}

// complete applies the result of a request started in epoch.
func (c *Controller) complete(epoch uint64, ev Event) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if epoch != c.epoch {
		c.log.Debug("Dropping result for discarded session", zap.String("event", fmt.Sprintf("%T", ev)))
		return ErrSessionDiscarded
	}
	next, err := Reduce(c.session, ev)
	if err != nil {
		return err
	}
	c.session = next
	return nil
}

func (c *Controller) fail(epoch uint64, notice, op string, err error) error {
	c.log.Warn("Checkout request failed", zap.String("op", op), zap.Error(err))
	if cerr := c.complete(epoch, ServiceFailed{Notice: notice}); cerr != nil {
		return cerr
	}
	return errors.Wrap(transientError(notice), op)
}

func codeOf(err error) string {
	if e, ok := asError(err); ok && e.Code != "" {
		return e.Code
	}
	return "other"
}
