package services

import (
	"context"

	"storefront/internal/models"
	"storefront/internal/repositories"
)

// DashboardService serves the signed-in buyer's order history.
type DashboardService struct {
	orderRepo repositories.OrderRepository
}

// NewDashboardService creates a new DashboardService.
func NewDashboardService(orderRepo repositories.OrderRepository) *DashboardService {
	return &DashboardService{orderRepo: orderRepo}
}

// ListOrdersForUser returns the user's orders newest first, each with its product.
func (s *DashboardService) ListOrdersForUser(ctx context.Context, userID string) ([]models.Order, error) {
	return s.orderRepo.ListByUser(ctx, userID)
}
