package repositories

import (
	"context"

	"storefront/internal/models"
)

// ProductRepository defines the interface for product data access.
type ProductRepository interface {
	GetAll(ctx context.Context) ([]models.Product, error)
	GetByID(ctx context.Context, id string) (*models.Product, error)
	// Upsert inserts the product or overwrites every field of the existing record with the same ID.
	Upsert(ctx context.Context, product *models.Product) error
}
