package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentMethod is the rail a buyer chose for an order.
type PaymentMethod string

const (
	PaymentMethodCard   PaymentMethod = "CARD"
	PaymentMethodOMT    PaymentMethod = "OMT"
	PaymentMethodWhish  PaymentMethod = "WHISH"
	PaymentMethodCrypto PaymentMethod = "CRYPTO"
)

// Valid reports whether m is one of the supported payment rails.
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentMethodCard, PaymentMethodOMT, PaymentMethodWhish, PaymentMethodCrypto:
		return true
	}
	return false
}

// Manual reports whether the method is confirmed out-of-band by a human.
func (m PaymentMethod) Manual() bool {
	return m == PaymentMethodOMT || m == PaymentMethodWhish || m == PaymentMethodCrypto
}

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusCompleted OrderStatus = "COMPLETED"
	OrderStatusFailed    OrderStatus = "FAILED"
)

// IsTerminal reports whether no further transition is possible.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusCompleted || s == OrderStatusFailed
}

// Order is a buyer's commitment to purchase one product via one payment method.
type Order struct {
	ID            string          `json:"id" gorm:"primaryKey;type:varchar(36)"`
	ProductID     string          `json:"productId" gorm:"type:varchar(191);not null;index"`
	Product       Product         `json:"product" gorm:"foreignKey:ProductID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	Amount        decimal.Decimal `json:"amount" gorm:"type:numeric(10,2);not null"`
	PaymentMethod PaymentMethod   `json:"paymentMethod" gorm:"type:varchar(16);not null"`
	UserEmail     *string         `json:"userEmail"`
	UserID        *string         `json:"userId" gorm:"type:varchar(36);index"`
	Status        OrderStatus     `json:"status" gorm:"type:varchar(16);not null;default:PENDING"`
	CreatedAt     time.Time       `json:"createdAt" gorm:"index"`
}
