package services

import (
	"context"

	"storefront/internal/models"
)

// OrderNotifier delivers an order confirmation to the buyer.
type OrderNotifier interface {
	NotifyOrderCreated(ctx context.Context, order *models.Order) error
}
