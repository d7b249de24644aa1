package checkout_test

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/checkout"
	"storefront/internal/config"
	"storefront/internal/models"
	"storefront/internal/repositories"
	"storefront/internal/services"
)

var testContacts = config.Contacts{
	WhatsAppNumber: "96170123456",
	OMTNumber:      "03 123 456",
	OMTName:        "BundlyPlus LB",
	WhishID:        "bundlyplus",
	WhishPhone:     "+961 70 123 456",
	USDTAddress:    "TXkYc8JNPbJ9S4aH5MtPLkDcvhJqR7nK3w",
	USDTNetwork:    "TRC20 (TRON)",
}

// backend runs the real order and payment services over in-memory stores.
type backend struct {
	stores    repositories.Stores
	orders    *services.OrderService
	payments  *services.PaymentService
	processor *stubProcessor

	mu      sync.Mutex
	created []string
	chats   []string

	// confirm, when set, replaces payment confirmation.
	confirm func(ctx context.Context, clientSecret string) error
}

type stubProcessor struct {
	failNew bool
	amounts []int64
	meta    []map[string]string
}

func (p *stubProcessor) CreatePaymentIntent(_ context.Context, req services.IntentRequest) (*services.PaymentIntent, error) {
	if p.failNew {
		return nil, errors.New("gateway down")
	}
	p.amounts = append(p.amounts, req.Amount)
	p.meta = append(p.meta, req.Metadata)
	return &services.PaymentIntent{ID: "pi_1", ClientSecret: "pi_1_secret_x"}, nil
}

func (p *stubProcessor) ConfirmPaymentIntent(context.Context, string, services.ConfirmRequest) error {
	return nil
}

func newBackend(t *testing.T) *backend {
	t.Helper()
	stores := repositories.NewMemoryStores()
	products := services.NewProductService(stores.Products, nil)
	_, err := products.SeedCatalog(context.Background(), services.DefaultCatalog())
	require.NoError(t, err)

	processor := &stubProcessor{}
	return &backend{
		stores:    stores,
		orders:    services.NewOrderService(stores.Orders, nil, nil),
		payments:  services.NewPaymentService(processor, nil),
		processor: processor,
	}
}

func (b *backend) CreateOrder(ctx context.Context, req checkout.OrderRequest) (*checkout.CreatedOrder, error) {
	order, err := b.orders.CreateOrder(ctx, services.CreateOrderInput{
		ProductID: req.ProductID, Amount: req.Amount, PaymentMethod: req.Method, Email: req.Email,
	}, nil)
	if err != nil {
		return nil, &checkout.Error{Kind: checkout.KindTransient, Message: err.Error()}
	}
	b.mu.Lock()
	b.created = append(b.created, order.ID)
	b.mu.Unlock()
	return &checkout.CreatedOrder{ID: order.ID, Amount: order.Amount}, nil
}

func (b *backend) CreatePaymentIntent(ctx context.Context, req checkout.IntentRequest) (string, error) {
	intent, err := b.payments.CreateIntent(ctx, services.IntentRequest{
		Amount:   req.AmountMinor,
		Metadata: map[string]string{"productName": req.ProductName, "orderId": req.OrderID},
	})
	if err != nil {
		return "", &checkout.Error{Kind: checkout.KindTransient, Message: err.Error()}
	}
	return intent.ClientSecret, nil
}

func (b *backend) ConfirmPayment(ctx context.Context, clientSecret string, form checkout.CardForm) error {
	if b.confirm != nil {
		return b.confirm(ctx, clientSecret)
	}
	err := b.payments.ConfirmPayment(ctx, clientSecret, services.ConfirmRequest{PaymentMethod: form.PaymentMethod})
	var payErr *services.PaymentError
	if errors.As(err, &payErr) {
		return &checkout.Error{Kind: checkout.KindGateway, Code: string(payErr.Kind), Message: payErr.Message}
	}
	return err
}

func (b *backend) OpenChat(_ context.Context, link string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.chats = append(b.chats, link)
	return nil
}

func (b *backend) controller() *checkout.Controller {
	return checkout.NewController(checkout.Deps{Orders: b, Intents: b, Payments: b, Chat: b}, testContacts, nil)
}

func (b *backend) product(t *testing.T, id string) checkout.Product {
	t.Helper()
	p, err := b.stores.Products.GetByID(context.Background(), id)
	require.NoError(t, err)
	return checkout.Product{ID: p.ID, Name: p.Name, Price: p.Price}
}

func openAtMethodSelection(t *testing.T, b *backend, productID string) *checkout.Controller {
	t.Helper()
	c := b.controller()
	require.NoError(t, c.Open(b.product(t, productID)))
	require.NoError(t, c.SubmitEmail("user@example.com"))
	return c
}

func TestController_InvalidEmailMakesNoCall(t *testing.T) {
	b := newBackend(t)
	c := b.controller()
	require.NoError(t, c.Open(b.product(t, "spotify-premium")))

	err := c.SubmitEmail("not-an-email")
	var cerr *checkout.Error
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, checkout.KindValidation, cerr.Kind)
	assert.Equal(t, checkout.MsgEmailInvalid, cerr.Message)
	assert.Equal(t, checkout.StepEmailCapture, c.State().Step)

	err = c.SubmitEmail("  ")
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, checkout.MsgEmailRequired, cerr.Message)
	assert.Empty(t, b.created)
}

func TestController_EveryMethodCreatesPendingOrderAtListedPrice(t *testing.T) {
	for _, method := range []models.PaymentMethod{
		models.PaymentMethodCard, models.PaymentMethodOMT, models.PaymentMethodWhish, models.PaymentMethodCrypto,
	} {
		t.Run(string(method), func(t *testing.T) {
			b := newBackend(t)
			c := openAtMethodSelection(t, b, "netflix-premium")

			require.NoError(t, c.SelectMethod(context.Background(), method))
			s := c.State()
			require.Len(t, b.created, 1)

			order, err := b.stores.Orders.GetByID(context.Background(), s.OrderID)
			require.NoError(t, err)
			assert.Equal(t, models.OrderStatusPending, order.Status)
			assert.Equal(t, method, order.PaymentMethod)
			assert.True(t, decimal.RequireFromString("4.99").Equal(order.Amount))
			assert.Equal(t, "user@example.com", *order.UserEmail)

			if method == models.PaymentMethodCard {
				assert.Equal(t, checkout.StepCardPayment, s.Step)
				assert.Equal(t, "pi_1_secret_x", s.ClientSecret)
				assert.Equal(t, []int64{499}, b.processor.amounts)
				assert.Equal(t, "Netflix Premium", b.processor.meta[0]["productName"])
			} else {
				assert.Equal(t, checkout.StepManualInstructions, s.Step)
			}
		})
	}
}

func TestController_IntentFailureLeavesPendingOrder(t *testing.T) {
	b := newBackend(t)
	b.processor.failNew = true
	c := openAtMethodSelection(t, b, "spotify-premium")

	err := c.SelectMethod(context.Background(), models.PaymentMethodCard)
	var cerr *checkout.Error
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, checkout.KindTransient, cerr.Kind)

	s := c.State()
	assert.Equal(t, checkout.StepMethodSelection, s.Step)
	assert.False(t, s.Processing)
	assert.Empty(t, s.OrderID)
	assert.Equal(t, checkout.NoticeCardSetupFailed, s.Notice)
	assert.Equal(t, "user@example.com", s.Email)

	require.Len(t, b.created, 1)
	order, err := b.stores.Orders.GetByID(context.Background(), b.created[0])
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusPending, order.Status)
}

func TestController_OrderFailureStaysOnMethodSelection(t *testing.T) {
	b := newBackend(t)
	c := b.controller()
	require.NoError(t, c.Open(checkout.Product{ID: "discontinued", Name: "Gone", Price: decimal.NewFromInt(1)}))
	require.NoError(t, c.SubmitEmail("user@example.com"))

	err := c.SelectMethod(context.Background(), models.PaymentMethodOMT)
	require.Error(t, err)
	s := c.State()
	assert.Equal(t, checkout.StepMethodSelection, s.Step)
	assert.Equal(t, checkout.NoticeOrderFailed, s.Notice)
}

func TestController_WhishScenario(t *testing.T) {
	b := newBackend(t)
	c := openAtMethodSelection(t, b, "spotify-premium")
	require.NoError(t, c.SelectMethod(context.Background(), models.PaymentMethodWhish))

	s := c.State()
	order, err := b.stores.Orders.GetByID(context.Background(), s.OrderID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentMethodWhish, order.PaymentMethod)
	assert.True(t, decimal.RequireFromString("2.99").Equal(order.Amount))
	assert.Equal(t, models.OrderStatusPending, order.Status)

	in, err := c.Instructions()
	require.NoError(t, err)
	assert.Equal(t, order.ID, in.OrderID)
	assert.Contains(t, in.Details, checkout.Detail{Label: "Whish Username", Value: "@bundlyplus"})
	assert.Contains(t, in.Note, order.ID)

	link, err := c.HandOffToChat(context.Background())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(link, "https://wa.me/96170123456?text="))
	assert.Contains(t, link, order.ID)
	assert.Equal(t, []string{link}, b.chats)
	assert.Equal(t, s, c.State())
}

func TestController_BackFromCardThenReselectCreatesNewOrder(t *testing.T) {
	b := newBackend(t)
	c := openAtMethodSelection(t, b, "spotify-premium")
	ctx := context.Background()

	require.NoError(t, c.SelectMethod(ctx, models.PaymentMethodCard))
	first := c.State().OrderID

	require.NoError(t, c.Back())
	s := c.State()
	assert.Equal(t, checkout.StepMethodSelection, s.Step)
	assert.Empty(t, s.ClientSecret)

	order, err := b.stores.Orders.GetByID(ctx, first)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusPending, order.Status)

	require.NoError(t, c.SelectMethod(ctx, models.PaymentMethodCard))
	assert.NotEqual(t, first, c.State().OrderID)
	assert.Len(t, b.created, 2)
}

func TestController_SubmitCard(t *testing.T) {
	b := newBackend(t)
	c := openAtMethodSelection(t, b, "spotify-premium")
	ctx := context.Background()
	require.NoError(t, c.SelectMethod(ctx, models.PaymentMethodCard))

	form := checkout.CardForm{PaymentMethod: "pm_card_visa"}
	assert.ErrorIs(t, c.SubmitCard(ctx, form), checkout.ErrFormNotReady)

	require.NoError(t, c.MarkFormReady())

	var cerr *checkout.Error
	require.ErrorAs(t, c.SubmitCard(ctx, checkout.CardForm{}), &cerr)
	assert.Equal(t, checkout.KindValidation, cerr.Kind)

	b.confirm = func(context.Context, string) error {
		return &checkout.Error{Kind: checkout.KindGateway, Code: checkout.CodeCardError, Message: "Your card was declined."}
	}
	require.ErrorAs(t, c.SubmitCard(ctx, form), &cerr)
	assert.Equal(t, "Your card was declined.", c.State().FieldError)
	assert.Equal(t, checkout.StepCardPayment, c.State().Step)

	b.confirm = func(context.Context, string) error { return errors.New("connection reset") }
	require.Error(t, c.SubmitCard(ctx, form))
	assert.Equal(t, checkout.MsgUnexpected, c.State().FieldError)
	assert.Equal(t, checkout.StepCardPayment, c.State().Step)

	b.confirm = nil
	require.NoError(t, c.SubmitCard(ctx, form))
	assert.Equal(t, checkout.StepCompleted, c.State().Step)
}

func TestController_StaleConfirmAfterClose(t *testing.T) {
	b := newBackend(t)
	c := openAtMethodSelection(t, b, "spotify-premium")
	ctx := context.Background()
	require.NoError(t, c.SelectMethod(ctx, models.PaymentMethodCard))
	require.NoError(t, c.MarkFormReady())

	started := make(chan struct{})
	release := make(chan struct{})
	b.confirm = func(context.Context, string) error {
		close(started)
		<-release
		return nil
	}

	done := make(chan error, 1)
	go func() { done <- c.SubmitCard(ctx, checkout.CardForm{PaymentMethod: "pm_card_visa"}) }()

	<-started
	assert.ErrorIs(t, c.Back(), checkout.ErrBusy)
	c.Close()
	closed := c.State()
	close(release)

	assert.ErrorIs(t, <-done, checkout.ErrSessionDiscarded)
	assert.Equal(t, closed, c.State())
	assert.NotEqual(t, checkout.StepCompleted, c.State().Step)
	assert.False(t, c.State().IsOpen())
}

func TestController_ConcurrentSelectIsBusy(t *testing.T) {
	b := newBackend(t)
	started := make(chan struct{})
	release := make(chan struct{})
	blocking := &blockingOrders{started: started, release: release}
	c := checkout.NewController(checkout.Deps{Orders: blocking, Intents: b, Payments: b, Chat: b}, testContacts, nil)
	require.NoError(t, c.Open(b.product(t, "spotify-premium")))
	require.NoError(t, c.SubmitEmail("user@example.com"))

	done := make(chan error, 1)
	go func() { done <- c.SelectMethod(context.Background(), models.PaymentMethodOMT) }()
	<-started

	assert.ErrorIs(t, c.SelectMethod(context.Background(), models.PaymentMethodOMT), checkout.ErrBusy)
	close(release)
	require.NoError(t, <-done)
	assert.Equal(t, checkout.StepManualInstructions, c.State().Step)
}

type blockingOrders struct {
	started chan struct{}
	release chan struct{}
}

func (o *blockingOrders) CreateOrder(context.Context, checkout.OrderRequest) (*checkout.CreatedOrder, error) {
	close(o.started)
	<-o.release
	return &checkout.CreatedOrder{ID: "order-1", Amount: decimal.RequireFromString("2.99")}, nil
}

func TestInstructionsPerMethod(t *testing.T) {
	amount := decimal.RequireFromString("5.99")
	for method, want := range map[models.PaymentMethod]string{
		models.PaymentMethodOMT:    "03 123 456",
		models.PaymentMethodWhish:  "@bundlyplus",
		models.PaymentMethodCrypto: "TXkYc8JNPbJ9S4aH5MtPLkDcvhJqR7nK3w",
	} {
		in, err := checkout.BuildInstructions(testContacts, method, "PlayStation Plus", "order-7", amount)
		require.NoError(t, err)
		assert.Equal(t, want, in.Details[0].Value)
		assert.Equal(t, "order-7", in.OrderID)
		assert.Contains(t, in.Summary, "$5.99")
	}
	_, err := checkout.BuildInstructions(testContacts, models.PaymentMethodCard, "X", "o", amount)
	assert.Error(t, err)
}

func TestChatLink(t *testing.T) {
	msg := checkout.ChatMessage("Spotify Premium", decimal.RequireFromString("2.99"), "order-1", "a+b@example.com")
	assert.Equal(t, "Hi! I just made a payment for Spotify Premium ($2.99). Order ID: order-1. Email: a+b@example.com", msg)

	link := checkout.ChatLink("96170123456", msg)
	assert.Equal(t,
		"https://wa.me/96170123456?text=Hi%21%20I%20just%20made%20a%20payment%20for%20Spotify%20Premium%20%28%242.99%29.%20Order%20ID%3A%20order-1.%20Email%3A%20a%2Bb%40example.com",
		link)
}

func TestMinorUnits(t *testing.T) {
	assert.Equal(t, int64(299), checkout.MinorUnits(checkout.Product{Price: decimal.RequireFromString("2.99")}))
	assert.Equal(t, int64(1299), checkout.MinorUnits(checkout.Product{Price: decimal.RequireFromString("12.99")}))
	assert.Equal(t, int64(50), checkout.MinorUnits(checkout.Product{Price: decimal.RequireFromString("0.495")}))
}
