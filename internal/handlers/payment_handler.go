package handlers

import (
	"github.com/go-faster/errors"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"storefront/internal/services"
)

// PaymentHandler exposes the payment gateway adapter.
type PaymentHandler struct {
	service *services.PaymentService
	log     *zap.Logger
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(service *services.PaymentService, log *zap.Logger) *PaymentHandler {
	return &PaymentHandler{service: service, log: log}
}

// RegisterRoutes registers the payment routes.
func (h *PaymentHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/create-payment-intent", h.HandleCreatePaymentIntent)
	router.Post("/payments/confirm", h.HandleConfirmPayment)
}

// CreatePaymentIntentRequest is the body of POST /api/create-payment-intent.
// Amount is in minor units and may arrive as a number or a numeric string.
type CreatePaymentIntentRequest struct {
	Amount        decimal.Decimal `json:"amount"`
	ProductName   string          `json:"productName"`
	CustomerEmail string          `json:"customerEmail"`
	OrderID       string          `json:"orderId"`
}

var minimumCharge = decimal.NewFromInt(services.MinimumChargeMinor)

// HandleCreatePaymentIntent opens a card payment intent.
func (h *PaymentHandler) HandleCreatePaymentIntent(c *fiber.Ctx) error {
	var req CreatePaymentIntentRequest
	if err := c.BodyParser(&req); err != nil || req.Amount.LessThan(minimumCharge) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid amount. Minimum is $0.50"})
	}

	// Minor units must fit the gateway's integer amount.
	amount := req.Amount.Round(0)
	if !amount.BigInt().IsInt64() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid amount"})
	}

	productName := req.ProductName
	if productName == "" {
		productName = "Product"
	}
	metadata := map[string]string{"productName": productName}
	if req.CustomerEmail != "" {
		metadata["customerEmail"] = req.CustomerEmail
	}
	if req.OrderID != "" {
		metadata["orderId"] = req.OrderID
	}

	intent, err := h.service.CreateIntent(c.UserContext(), services.IntentRequest{
		Amount:   amount.IntPart(),
		Currency: services.DefaultCurrency,
		Metadata: metadata,
	})
	if err != nil {
		if errors.Is(err, services.ErrAmountBelowMinimum) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid amount. Minimum is $0.50"})
		}
		h.log.Error("Error creating payment intent", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create payment intent"})
	}

	return c.JSON(fiber.Map{
		"clientSecret":    intent.ClientSecret,
		"paymentIntentId": intent.ID,
	})
}

// ConfirmPaymentRequest is the body of POST /api/payments/confirm.
type ConfirmPaymentRequest struct {
	ClientSecret  string `json:"clientSecret"`
	PaymentMethod string `json:"paymentMethod"`
	ReturnURL     string `json:"returnUrl"`
}

// HandleConfirmPayment confirms a card payment with the collected payment method.
func (h *PaymentHandler) HandleConfirmPayment(c *fiber.Ctx) error {
	var req ConfirmPaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.ClientSecret == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Missing client secret"})
	}

	err := h.service.ConfirmPayment(c.UserContext(), req.ClientSecret, services.ConfirmRequest{
		PaymentMethod: req.PaymentMethod,
		ReturnURL:     req.ReturnURL,
	})
	if err == nil {
		return c.JSON(fiber.Map{"status": "succeeded"})
	}
	if errors.Is(err, services.ErrInvalidClientSecret) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid client secret"})
	}
	var payErr *services.PaymentError
	if errors.As(err, &payErr) {
		return c.Status(fiber.StatusPaymentRequired).JSON(fiber.Map{
			"errorKind": payErr.Kind,
			"message":   payErr.Message,
		})
	}
	h.log.Error("Error confirming payment", zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal Server Error"})
}
