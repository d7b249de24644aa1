package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"storefront/internal/middleware"
	"storefront/internal/services"
)

// DashboardHandler serves the signed-in buyer's order history.
type DashboardHandler struct {
	service *services.DashboardService
	log     *zap.Logger
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(service *services.DashboardService, log *zap.Logger) *DashboardHandler {
	return &DashboardHandler{service: service, log: log}
}

// RegisterRoutes registers the dashboard routes behind guard, which must
// attach a session or end the request.
func (h *DashboardHandler) RegisterRoutes(router fiber.Router, guard fiber.Handler) {
	router.Get("/dashboard/orders", guard, h.HandleListOrders)
}

// HandleListOrders returns the session user's orders, newest first.
func (h *DashboardHandler) HandleListOrders(c *fiber.Ctx) error {
	session := middleware.SessionFrom(c)
	if session == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}
	orders, err := h.service.ListOrdersForUser(c.UserContext(), session.UserID)
	if err != nil {
		h.log.Error("Error listing dashboard orders", zap.String("user_id", session.UserID), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(orders)
}
