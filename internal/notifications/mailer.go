package notifications

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// DefaultResendEndpoint is the Resend send-email API.
const DefaultResendEndpoint = "https://api.resend.com/emails"

// Mailer delivers a rendered email.
type Mailer interface {
	Send(ctx context.Context, mail Mail) error
}

// NewMailer returns a ResendMailer when apiKey is set and a LogMailer otherwise.
func NewMailer(apiKey string, log *zap.Logger) Mailer {
	if apiKey == "" {
		return NewLogMailer(log)
	}
	return NewResendMailer(apiKey, DefaultResendEndpoint, log)
}

// ResendMailer sends email through the Resend HTTP API.
type ResendMailer struct {
	apiKey   string
	endpoint string
	timeout  time.Duration
	log      *zap.Logger
}

// NewResendMailer creates a mailer posting to endpoint.
func NewResendMailer(apiKey, endpoint string, log *zap.Logger) *ResendMailer {
	if log == nil {
		log = zap.NewNop()
	}
	return &ResendMailer{
		apiKey:   apiKey,
		endpoint: endpoint,
		timeout:  10 * time.Second,
		log:      log,
	}
}

type resendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

// Send posts mail to Resend.
func (m *ResendMailer) Send(ctx context.Context, mail Mail) error {
	timeout := m.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if left := time.Until(deadline); left < timeout {
			timeout = left
		}
	}
	if timeout <= 0 {
		return context.DeadlineExceeded
	}

	a := fiber.Post(m.endpoint).
		Set(fiber.HeaderAuthorization, "Bearer "+m.apiKey).
		Timeout(timeout).
		JSON(resendRequest{
			From:    mail.From,
			To:      []string{mail.To},
			Subject: mail.Subject,
			HTML:    mail.HTML,
		})
	if err := a.Parse(); err != nil {
		fiber.ReleaseAgent(a)
		return errors.Wrap(err, "resend: build request")
	}

	code, body, errs := a.Bytes()
	if len(errs) > 0 {
		return errors.Wrap(errs[0], "resend: send")
	}
	if code >= fiber.StatusBadRequest {
		return errors.Errorf("resend: status %d: %s", code, body)
	}
	m.log.Info("Email sent", zap.String("to", mail.To), zap.String("subject", mail.Subject))
	return nil
}

// LogMailer stands in for a real mailer when no API key is configured.
type LogMailer struct {
	log *zap.Logger
}

// NewLogMailer creates a LogMailer.
func NewLogMailer(log *zap.Logger) *LogMailer {
	if log == nil {
		log = zap.NewNop()
	}
	return &LogMailer{log: log}
}

// Send logs and drops mail.
func (m *LogMailer) Send(_ context.Context, mail Mail) error {
	m.log.Info("RESEND_API_KEY not set, skipping email",
		zap.String("to", mail.To),
		zap.String("subject", mail.Subject),
	)
	return nil
}
