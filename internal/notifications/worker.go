package notifications

import (
	"context"
	"encoding/json"

	"github.com/go-faster/errors"
	"go.uber.org/zap"
)

// Worker turns queued confirmations into sent emails.
type Worker struct {
	mailer Mailer
	from   string
	log    *zap.Logger
}

// NewWorker creates a Worker.
func NewWorker(mailer Mailer, from string, log *zap.Logger) *Worker {
	if log == nil {
		log = zap.NewNop()
	}
	return &Worker{mailer: mailer, from: from, log: log}
}

// Handle processes one queued message. It has the rabbitmq.Handler signature.
func (w *Worker) Handle(ctx context.Context, body []byte) error {
	var c OrderConfirmation
	if err := json.Unmarshal(body, &c); err != nil {
		return errors.Wrap(err, "decode confirmation")
	}
	if c.Email == "" || c.OrderID == "" {
		return errors.New("confirmation is missing order id or email")
	}
	if err := deliver(ctx, w.mailer, w.from, c); err != nil {
		return err
	}
	w.log.Info("Order confirmation delivered", zap.String("order_id", c.OrderID))
	return nil
}
