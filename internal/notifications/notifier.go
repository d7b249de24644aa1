package notifications

import (
	"context"
	"encoding/json"

	"github.com/go-faster/errors"
	"go.uber.org/zap"

	"storefront/internal/models"
)

// Publisher puts a message on the notification queue.
type Publisher interface {
	Publish(ctx context.Context, body []byte) error
}

// QueueNotifier hands confirmations to the broker for the Worker to send.
type QueueNotifier struct {
	pub Publisher
}

// NewQueueNotifier creates a QueueNotifier.
func NewQueueNotifier(pub Publisher) *QueueNotifier {
	return &QueueNotifier{pub: pub}
}

// NotifyOrderCreated implements services.OrderNotifier.
func (n *QueueNotifier) NotifyOrderCreated(ctx context.Context, order *models.Order) error {
	c, ok := ConfirmationFor(order)
	if !ok {
		return nil
	}
	body, err := json.Marshal(c)
	if err != nil {
		return errors.Wrap(err, "marshal confirmation")
	}
	if err := n.pub.Publish(ctx, body); err != nil {
		return errors.Wrapf(err, "queue confirmation for order %s", order.ID)
	}
	return nil
}

// DirectNotifier renders and sends the confirmation inline.
type DirectNotifier struct {
	mailer Mailer
	from   string
	log    *zap.Logger
}

// NewDirectNotifier creates a DirectNotifier.
func NewDirectNotifier(mailer Mailer, from string, log *zap.Logger) *DirectNotifier {
	if log == nil {
		log = zap.NewNop()
	}
	return &DirectNotifier{mailer: mailer, from: from, log: log}
}

// NotifyOrderCreated implements services.OrderNotifier.
func (n *DirectNotifier) NotifyOrderCreated(ctx context.Context, order *models.Order) error {
	c, ok := ConfirmationFor(order)
	if !ok {
		return nil
	}
	return deliver(ctx, n.mailer, n.from, c)
}

func deliver(ctx context.Context, mailer Mailer, from string, c OrderConfirmation) error {
	mail, err := RenderConfirmation(c, from)
	if err != nil {
		return err
	}
	if err := mailer.Send(ctx, mail); err != nil {
		return errors.Wrapf(err, "send confirmation for order %s", c.OrderID)
	}
	return nil
}
