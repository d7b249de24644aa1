package models

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Prices and amounts travel as JSON numbers, not quoted strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// Product represents a subscription offered in the storefront.
type Product struct {
	ID          string          `json:"id" gorm:"primaryKey;type:varchar(191)"`
	Name        string          `json:"name" gorm:"type:varchar(191);not null"`
	Description string          `json:"description" gorm:"type:text"`
	Price       decimal.Decimal `json:"price" gorm:"type:numeric(10,2);not null"`
	Category    string          `json:"category" gorm:"type:varchar(64);index"`
	Image       string          `json:"image" gorm:"type:text"`
	Features    []string        `json:"features" gorm:"type:text;serializer:json"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}
