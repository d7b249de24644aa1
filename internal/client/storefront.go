package client

import (
	"context"
	"encoding/json"
	"net/url"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/gofiber/fiber/v2"

	"storefront/internal/checkout"
	"storefront/internal/models"
	"storefront/internal/services"
)

// ErrSignInRequired is returned when the server redirects to sign-in.
var ErrSignInRequired = errors.New("sign-in required")

// Client talks to the storefront HTTP API. It implements the checkout
// controller's order, intent and payment ports.
type Client struct {
	baseURL string
	token   string
	timeout time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithToken sends token as the bearer session on every request.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithTimeout bounds each request.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// New creates a client for the API at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: 15 * time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var (
	_ checkout.OrderCreator     = (*Client)(nil)
	_ checkout.IntentCreator    = (*Client)(nil)
	_ checkout.PaymentConfirmer = (*Client)(nil)
)

type apiError struct {
	Error     string `json:"error"`
	Message   string `json:"message"`
	ErrorKind string `json:"errorKind"`
}

func (e apiError) text() string {
	if e.Error != "" {
		return e.Error
	}
	return e.Message
}

// do sends a and returns the status code and body. a is released. Transport failures come
// back as transient *checkout.Error.
func (c *Client) do(ctx context.Context, a *fiber.Agent) (int, []byte, error) {
	timeout := c.timeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
	}
	if err := ctx.Err(); err != nil || timeout <= 0 {
		fiber.ReleaseAgent(a)
		return 0, nil, &checkout.Error{Kind: checkout.KindTransient, Message: "request cancelled"}
	}
	a.Timeout(timeout)
	if c.token != "" {
		a.Set(fiber.HeaderAuthorization, "Bearer "+c.token)
	}
	// Bytes releases the agent; every earlier return must do it here.
	if err := a.Parse(); err != nil {
		fiber.ReleaseAgent(a)
		return 0, nil, errors.Wrap(err, "build request")
	}
	code, body, errs := a.Bytes()
	if len(errs) > 0 {
		return 0, nil, &checkout.Error{Kind: checkout.KindTransient, Message: errs[0].Error()}
	}
	return code, body, nil
}

// statusError classifies a non-success response.
func statusError(code int, body []byte) *checkout.Error {
	var e apiError
	_ = json.Unmarshal(body, &e)
	msg := e.text()
	if msg == "" {
		msg = fiber.ErrInternalServerError.Message
	}
	switch {
	case code == fiber.StatusPaymentRequired:
		return &checkout.Error{Kind: checkout.KindGateway, Code: e.ErrorKind, Message: e.Message}
	case code >= 400 && code < 500:
		return &checkout.Error{Kind: checkout.KindValidation, Message: msg}
	}
	return &checkout.Error{Kind: checkout.KindTransient, Message: msg}
}

func decode(body []byte, out interface{}) error {
	if err := json.Unmarshal(body, out); err != nil {
		return &checkout.Error{Kind: checkout.KindTransient, Message: "malformed response: " + err.Error()}
	}
	return nil
}

// ListProducts returns the catalog listings, optionally for one category.
func (c *Client) ListProducts(ctx context.Context, category string) ([]services.Listing, error) {
	u := c.baseURL + "/api/products"
	if category != "" {
		u += "?" + url.Values{"category": {category}}.Encode()
	}
	code, body, err := c.do(ctx, fiber.Get(u))
	if err != nil {
		return nil, err
	}
	if code != fiber.StatusOK {
		return nil, statusError(code, body)
	}
	var listings []services.Listing
	if err := decode(body, &listings); err != nil {
		return nil, err
	}
	return listings, nil
}

// GetProduct returns one listing.
func (c *Client) GetProduct(ctx context.Context, id string) (*services.Listing, error) {
	code, body, err := c.do(ctx, fiber.Get(c.baseURL+"/api/products/"+url.PathEscape(id)))
	if err != nil {
		return nil, err
	}
	if code != fiber.StatusOK {
		return nil, statusError(code, body)
	}
	var listing services.Listing
	if err := decode(body, &listing); err != nil {
		return nil, err
	}
	return &listing, nil
}

// CreateOrder implements checkout.OrderCreator.
func (c *Client) CreateOrder(ctx context.Context, req checkout.OrderRequest) (*checkout.CreatedOrder, error) {
	payload := fiber.Map{
		"productId":     req.ProductID,
		"amount":        req.Amount,
		"paymentMethod": req.Method,
	}
	if req.Email != "" {
		payload["email"] = req.Email
	}
	code, body, err := c.do(ctx, fiber.Post(c.baseURL+"/api/orders").JSON(payload))
	if err != nil {
		return nil, err
	}
	if code != fiber.StatusOK {
		return nil, statusError(code, body)
	}
	var order models.Order
	if err := decode(body, &order); err != nil {
		return nil, err
	}
	return &checkout.CreatedOrder{ID: order.ID, Amount: order.Amount}, nil
}

// CreatePaymentIntent implements checkout.IntentCreator.
func (c *Client) CreatePaymentIntent(ctx context.Context, req checkout.IntentRequest) (string, error) {
	payload := fiber.Map{
		"amount":      req.AmountMinor,
		"productName": req.ProductName,
	}
	if req.Email != "" {
		payload["customerEmail"] = req.Email
	}
	if req.OrderID != "" {
		payload["orderId"] = req.OrderID
	}
	code, body, err := c.do(ctx, fiber.Post(c.baseURL+"/api/create-payment-intent").JSON(payload))
	if err != nil {
		return "", err
	}
	if code != fiber.StatusOK {
		return "", statusError(code, body)
	}
	var out struct {
		ClientSecret string `json:"clientSecret"`
	}
	if err := decode(body, &out); err != nil {
		return "", err
	}
	return out.ClientSecret, nil
}

// ConfirmPayment implements checkout.PaymentConfirmer.
func (c *Client) ConfirmPayment(ctx context.Context, clientSecret string, form checkout.CardForm) error {
	payload := fiber.Map{
		"clientSecret":  clientSecret,
		"paymentMethod": form.PaymentMethod,
	}
	if form.ReturnURL != "" {
		payload["returnUrl"] = form.ReturnURL
	}
	code, body, err := c.do(ctx, fiber.Post(c.baseURL+"/api/payments/confirm").JSON(payload))
	if err != nil {
		return err
	}
	if code != fiber.StatusOK {
		return statusError(code, body)
	}
	return nil
}

// DashboardOrders returns the signed-in user's orders, newest first.
func (c *Client) DashboardOrders(ctx context.Context) ([]models.Order, error) {
	code, body, err := c.do(ctx, fiber.Get(c.baseURL+"/api/dashboard/orders"))
	if err != nil {
		return nil, err
	}
	if code == fiber.StatusSeeOther {
		return nil, ErrSignInRequired
	}
	if code != fiber.StatusOK {
		return nil, statusError(code, body)
	}
	var orders []models.Order
	if err := decode(body, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// Login exchanges credentials for a session token.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	code, body, err := c.do(ctx, fiber.Post(c.baseURL+"/api/auth/login").JSON(fiber.Map{
		"email":    email,
		"password": password,
	}))
	if err != nil {
		return "", err
	}
	if code != fiber.StatusOK {
		return "", statusError(code, body)
	}
	var out struct {
		Token string `json:"token"`
	}
	if err := decode(body, &out); err != nil {
		return "", err
	}
	return out.Token, nil
}
