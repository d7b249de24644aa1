package services

import (
	"context"
	"strings"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"storefront/internal/models"
	"storefront/internal/repositories"
)

// CreateOrderInput is what a buyer submits when committing to a payment method.
type CreateOrderInput struct {
	ProductID     string
	Amount        decimal.Decimal
	PaymentMethod models.PaymentMethod
	Email         string
}

// OrderService handles business logic related to orders.
type OrderService struct {
	orderRepo repositories.OrderRepository
	notifier  OrderNotifier
	log       *zap.Logger
}

// NewOrderService creates a new OrderService. A nil notifier disables
// confirmation messages.
func NewOrderService(orderRepo repositories.OrderRepository, notifier OrderNotifier, log *zap.Logger) *OrderService {
	if log == nil {
		log = zap.NewNop()
	}
	return &OrderService{
		orderRepo: orderRepo,
		notifier:  notifier,
		log:       log,
	}
}

// CreateOrder persists a PENDING order. The buyer email comes from the input,
// falling back to the session; the owner comes from the session only.
func (s *OrderService) CreateOrder(ctx context.Context, in CreateOrderInput, session *Session) (*models.Order, error) {
	if strings.TrimSpace(in.ProductID) == "" || !in.Amount.IsPositive() {
		return nil, ErrMissingFields
	}
	if !in.PaymentMethod.Valid() {
		return nil, errors.Wrapf(ErrInvalidPaymentMethod, "%q", in.PaymentMethod)
	}

	order := &models.Order{
		ProductID:     in.ProductID,
		Amount:        in.Amount,
		PaymentMethod: in.PaymentMethod,
		Status:        models.OrderStatusPending,
	}
	if email := resolveBuyerEmail(in.Email, session); email != "" {
		order.UserEmail = &email
	}
	if session != nil && session.UserID != "" {
		userID := session.UserID
		order.UserID = &userID
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, errors.Wrap(err, "create order")
	}
	s.log.Info("Order created",
		zap.String("order_id", order.ID),
		zap.String("product_id", order.ProductID),
		zap.String("payment_method", string(order.PaymentMethod)),
		zap.Stringer("amount", order.Amount),
	)

	if order.UserEmail != nil && s.notifier != nil {
		if err := s.notifier.NotifyOrderCreated(ctx, order); err != nil {
			s.log.Warn("Order confirmation failed", zap.String("order_id", order.ID), zap.Error(err))
		}
	}
	return order, nil
}

// GetOrder retrieves a single order by its ID.
func (s *OrderService) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, errors.Wrapf(ErrNotFound, "order %s", id)
		}
		return nil, err
	}
	return order, nil
}

func resolveBuyerEmail(explicit string, session *Session) string {
	if email := strings.TrimSpace(explicit); email != "" {
		return email
	}
	if session != nil {
		return session.Email
	}
	return ""
}
