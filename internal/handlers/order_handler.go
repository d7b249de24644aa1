package handlers

import (
	"github.com/go-faster/errors"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"storefront/internal/middleware"
	"storefront/internal/models"
	"storefront/internal/services"
)

// OrderHandler handles HTTP requests for orders.
type OrderHandler struct {
	service  *services.OrderService
	validate *validator.Validate
	log      *zap.Logger
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(service *services.OrderService, log *zap.Logger) *OrderHandler {
	return &OrderHandler{
		service:  service,
		validate: validator.New(),
		log:      log,
	}
}

// RegisterRoutes registers the order routes. session resolves the optional
// buyer session.
func (h *OrderHandler) RegisterRoutes(router fiber.Router, session fiber.Handler) {
	orderRoutes := router.Group("/orders", session)
	orderRoutes.Post("/", h.HandleCreateOrder)
	orderRoutes.Get("/:id", h.HandleGetOrderByID)
}

// CreateOrderRequest is the body of POST /api/orders. Amount accepts a JSON
// number or a numeric string.
type CreateOrderRequest struct {
	ProductID     string          `json:"productId" validate:"required"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentMethod string          `json:"paymentMethod"`
	Email         string          `json:"email"`
}

// HandleCreateOrder creates a PENDING order.
func (h *OrderHandler) HandleCreateOrder(c *fiber.Ctx) error {
	var req CreateOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Missing required fields"})
	}

	order, err := h.service.CreateOrder(c.UserContext(), services.CreateOrderInput{
		ProductID:     req.ProductID,
		Amount:        req.Amount,
		PaymentMethod: models.PaymentMethod(req.PaymentMethod),
		Email:         req.Email,
	}, middleware.SessionFrom(c))
	switch {
	case err == nil:
		return c.JSON(order)
	case errors.Is(err, services.ErrMissingFields):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Missing required fields"})
	case errors.Is(err, services.ErrInvalidPaymentMethod):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid payment method"})
	default:
		h.log.Error("Error creating order", zap.String("product_id", req.ProductID), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal Server Error"})
	}
}

// HandleGetOrderByID retrieves a single order by its ID. Buyer identity is
// only returned to the account that placed the order.
func (h *OrderHandler) HandleGetOrderByID(c *fiber.Ctx) error {
	orderID := c.Params("id")
	order, err := h.service.GetOrder(c.UserContext(), orderID)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Order not found"})
		}
		h.log.Error("Error getting order", zap.String("order_id", orderID), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	if !ownedBy(order, middleware.SessionFrom(c)) {
		view := *order
		view.UserEmail = nil
		view.UserID = nil
		return c.JSON(view)
	}
	return c.JSON(order)
}

// ownedBy reports whether session belongs to the account that placed order.
// Guest orders have no owner.
func ownedBy(order *models.Order, session *services.Session) bool {
	return session != nil && order.UserID != nil && *order.UserID == session.UserID
}
