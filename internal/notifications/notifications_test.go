package notifications_test

import (
	"context"
	"encoding/json"
	"net"
	"testing"

	"github.com/go-faster/errors"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"storefront/internal/models"
	"storefront/internal/notifications"
)

type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) Send(ctx context.Context, mail notifications.Mail) error {
	args := m.Called(ctx, mail)
	return args.Error(0)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, body []byte) error {
	args := m.Called(ctx, body)
	return args.Error(0)
}

func testOrder(email string) *models.Order {
	order := &models.Order{
		ID:            "order-1",
		ProductID:     "netflix-premium",
		Product:       models.Product{ID: "netflix-premium", Name: "Netflix Premium"},
		Amount:        decimal.RequireFromString("4.99"),
		PaymentMethod: models.PaymentMethodOMT,
		Status:        models.OrderStatusPending,
	}
	if email != "" {
		order.UserEmail = &email
	}
	return order
}

func TestRenderConfirmation(t *testing.T) {
	c, ok := notifications.ConfirmationFor(testOrder("buyer@example.com"))
	require.True(t, ok)

	mail, err := notifications.RenderConfirmation(c, "Shop <shop@example.com>")
	require.NoError(t, err)
	assert.Equal(t, "Order Confirmed: Netflix Premium", mail.Subject)
	assert.Equal(t, "buyer@example.com", mail.To)
	assert.Equal(t, "Shop <shop@example.com>", mail.From)
	assert.Contains(t, mail.HTML, "order-1")
	assert.Contains(t, mail.HTML, "$4.99 USD")
	assert.Contains(t, mail.HTML, "Netflix Premium")
}

func TestConfirmationForWithoutEmail(t *testing.T) {
	_, ok := notifications.ConfirmationFor(testOrder(""))
	assert.False(t, ok)
}

func TestQueueNotifierPublishesConfirmation(t *testing.T) {
	pub := new(MockPublisher)
	n := notifications.NewQueueNotifier(pub)

	var published []byte
	pub.On("Publish", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		published = args.Get(1).([]byte)
	}).Return(nil).Once()

	require.NoError(t, n.NotifyOrderCreated(context.Background(), testOrder("buyer@example.com")))

	var c notifications.OrderConfirmation
	require.NoError(t, json.Unmarshal(published, &c))
	assert.Equal(t, "order-1", c.OrderID)
	assert.Equal(t, "Netflix Premium", c.ProductName)
	assert.Equal(t, "buyer@example.com", c.Email)
	assert.True(t, decimal.RequireFromString("4.99").Equal(c.Amount))

	// No email, nothing queued.
	require.NoError(t, n.NotifyOrderCreated(context.Background(), testOrder("")))
	pub.AssertNumberOfCalls(t, "Publish", 1)
}

func TestQueueNotifierPublishFailure(t *testing.T) {
	pub := new(MockPublisher)
	n := notifications.NewQueueNotifier(pub)
	pub.On("Publish", mock.Anything, mock.Anything).Return(errors.New("channel closed")).Once()

	assert.Error(t, n.NotifyOrderCreated(context.Background(), testOrder("buyer@example.com")))
}

func TestDirectNotifierSendsMail(t *testing.T) {
	mailer := new(MockMailer)
	n := notifications.NewDirectNotifier(mailer, "shop@example.com", nil)
	mailer.On("Send", mock.Anything, mock.MatchedBy(func(m notifications.Mail) bool {
		return m.To == "buyer@example.com" && m.Subject == "Order Confirmed: Netflix Premium"
	})).Return(nil).Once()

	require.NoError(t, n.NotifyOrderCreated(context.Background(), testOrder("buyer@example.com")))
	mailer.AssertExpectations(t)
}

func TestWorkerHandle(t *testing.T) {
	mailer := new(MockMailer)
	w := notifications.NewWorker(mailer, "shop@example.com", nil)
	ctx := context.Background()

	body, err := json.Marshal(notifications.OrderConfirmation{
		OrderID: "order-9", ProductName: "Canva Pro", Amount: decimal.RequireFromString("3.99"), Email: "a@b.co",
	})
	require.NoError(t, err)

	mailer.On("Send", mock.Anything, mock.MatchedBy(func(m notifications.Mail) bool {
		return m.Subject == "Order Confirmed: Canva Pro"
	})).Return(nil).Once()
	assert.NoError(t, w.Handle(ctx, body))

	assert.Error(t, w.Handle(ctx, []byte("not json")))
	assert.Error(t, w.Handle(ctx, []byte(`{"orderId":"x"}`)))

	mailer.On("Send", mock.Anything, mock.Anything).Return(errors.New("smtp down")).Once()
	assert.Error(t, w.Handle(ctx, body))

	mailer.AssertNumberOfCalls(t, "Send", 2)
}

func TestResendMailerPostsToAPI(t *testing.T) {
	type received struct {
		auth string
		body map[string]interface{}
	}
	got := make(chan received, 1)

	api := fiber.New(fiber.Config{DisableStartupMessage: true})
	api.Post("/emails", func(c *fiber.Ctx) error {
		var body map[string]interface{}
		if err := c.BodyParser(&body); err != nil {
			return c.SendStatus(fiber.StatusBadRequest)
		}
		got <- received{auth: c.Get(fiber.HeaderAuthorization), body: body}
		return c.JSON(fiber.Map{"id": "email-1"})
	})
	api.Post("/fail", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"message": "bad from"})
	})

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go func() { _ = api.Listener(ln) }()
	t.Cleanup(func() { _ = api.Shutdown() })
	base := "http://" + ln.Addr().String()

	mail := notifications.Mail{From: "shop@example.com", To: "a@b.co", Subject: "Order Confirmed: X", HTML: "<p>hi</p>"}

	mailer := notifications.NewResendMailer("re_test", base+"/emails", nil)
	require.NoError(t, mailer.Send(context.Background(), mail))

	r := <-got
	assert.Equal(t, "Bearer re_test", r.auth)
	assert.Equal(t, "Order Confirmed: X", r.body["subject"])
	assert.Equal(t, []interface{}{"a@b.co"}, r.body["to"])

	failing := notifications.NewResendMailer("re_test", base+"/fail", nil)
	assert.Error(t, failing.Send(context.Background(), mail))
}

func TestResendMailerRejectsUnsupportedScheme(t *testing.T) {
	mailer := notifications.NewResendMailer("re_test", "ftp://127.0.0.1/emails", nil)
	for i := 0; i < 3; i++ {
		err := mailer.Send(context.Background(), notifications.Mail{To: "a@b.co"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "build request")
	}
}

func TestNewMailerWithoutKeyLogs(t *testing.T) {
	m := notifications.NewMailer("", nil)
	_, isLog := m.(*notifications.LogMailer)
	assert.True(t, isLog)
	assert.NoError(t, m.Send(context.Background(), notifications.Mail{To: "a@b.co"}))
}
