package repositories

import (
	"context"

	"storefront/internal/models"
)

// OrderRepository defines the interface for order data access.
// Orders are append-only from the storefront's perspective.
type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	GetByID(ctx context.Context, id string) (*models.Order, error)
	// ListByUser returns the user's orders newest first, each joined with its product.
	ListByUser(ctx context.Context, userID string) ([]models.Order, error)
}
