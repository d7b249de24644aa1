package dashboard

import (
	"time"

	"github.com/shopspring/decimal"

	"storefront/internal/models"
)

// Row is one order as listed on the dashboard.
type Row struct {
	OrderID       string
	ProductName   string
	Category      string
	Amount        decimal.Decimal
	PaymentMethod models.PaymentMethod
	Status        models.OrderStatus
	StatusLabel   string
	CreatedAt     time.Time
}

// Summary is the dashboard view of a user's order history.
type Summary struct {
	Rows      []Row
	Total     int
	Completed int
}

// StatusLabel describes what an order status means to the buyer.
func StatusLabel(s models.OrderStatus) string {
	switch s {
	case models.OrderStatusCompleted:
		return "Active"
	case models.OrderStatusPending:
		return "Awaiting verification"
	case models.OrderStatusFailed:
		return "Failed"
	}
	return string(s)
}

// Summarize annotates orders, kept in the given order, and counts them.
func Summarize(orders []models.Order) Summary {
	sum := Summary{Rows: make([]Row, 0, len(orders)), Total: len(orders)}
	for _, o := range orders {
		if o.Status == models.OrderStatusCompleted {
			sum.Completed++
		}
		sum.Rows = append(sum.Rows, Row{
			OrderID:       o.ID,
			ProductName:   o.Product.Name,
			Category:      o.Product.Category,
			Amount:        o.Amount,
			PaymentMethod: o.PaymentMethod,
			Status:        o.Status,
			StatusLabel:   StatusLabel(o.Status),
			CreatedAt:     o.CreatedAt,
		})
	}
	return sum
}
