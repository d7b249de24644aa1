package services_test

import (
	"context"
	"testing"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"storefront/internal/models"
	"storefront/internal/repositories"
	"storefront/internal/services"
)

func TestOrderService_CreateOrderMissingFields(t *testing.T) {
	mockRepo := new(MockOrderRepository)
	service := services.NewOrderService(mockRepo, nil, nil)

	inputs := []services.CreateOrderInput{
		{Amount: decimal.RequireFromString("2.99"), PaymentMethod: models.PaymentMethodCard},
		{ProductID: "spotify-premium", PaymentMethod: models.PaymentMethodCard},
		{ProductID: "spotify-premium", Amount: decimal.NewFromInt(-1), PaymentMethod: models.PaymentMethodCard},
	}
	for _, in := range inputs {
		_, err := service.CreateOrder(context.Background(), in, nil)
		assert.ErrorIs(t, err, services.ErrMissingFields)
	}
	mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestOrderService_CreateOrderInvalidMethod(t *testing.T) {
	mockRepo := new(MockOrderRepository)
	service := services.NewOrderService(mockRepo, nil, nil)

	_, err := service.CreateOrder(context.Background(), services.CreateOrderInput{
		ProductID: "spotify-premium", Amount: decimal.RequireFromString("2.99"), PaymentMethod: "PAYPAL",
	}, nil)
	assert.ErrorIs(t, err, services.ErrInvalidPaymentMethod)
	mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestOrderService_CreateOrderEveryMethodIsPending(t *testing.T) {
	stores := repositories.NewMemoryStores()
	ctx := context.Background()
	require.NoError(t, stores.Products.Upsert(ctx, &models.Product{
		ID: "spotify-premium", Name: "Spotify Premium", Price: decimal.RequireFromString("2.99"),
	}))
	service := services.NewOrderService(stores.Orders, nil, nil)

	for _, method := range []models.PaymentMethod{
		models.PaymentMethodCard, models.PaymentMethodOMT, models.PaymentMethodWhish, models.PaymentMethodCrypto,
	} {
		order, err := service.CreateOrder(ctx, services.CreateOrderInput{
			ProductID: "spotify-premium", Amount: decimal.RequireFromString("2.99"), PaymentMethod: method,
			Email: "user@example.com",
		}, nil)
		require.NoError(t, err)
		assert.Equal(t, models.OrderStatusPending, order.Status)
		assert.Equal(t, method, order.PaymentMethod)
		assert.True(t, decimal.RequireFromString("2.99").Equal(order.Amount))
		assert.Equal(t, "Spotify Premium", order.Product.Name)
	}
}

func TestOrderService_BuyerIdentityResolution(t *testing.T) {
	mockRepo := new(MockOrderRepository)
	mockNotifier := new(MockNotifier)
	service := services.NewOrderService(mockRepo, mockNotifier, nil)
	session := &services.Session{UserID: "user-1", Email: "session@example.com"}

	mockRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.Order")).Return(nil)
	mockNotifier.On("NotifyOrderCreated", mock.Anything, mock.Anything).Return(nil)

	// Explicit email wins over the session.
	order, err := service.CreateOrder(context.Background(), services.CreateOrderInput{
		ProductID: "p", Amount: decimal.NewFromInt(3), PaymentMethod: models.PaymentMethodOMT, Email: "buyer@example.com",
	}, session)
	require.NoError(t, err)
	require.NotNil(t, order.UserEmail)
	assert.Equal(t, "buyer@example.com", *order.UserEmail)
	require.NotNil(t, order.UserID)
	assert.Equal(t, "user-1", *order.UserID)

	// Session email is the fallback.
	order, err = service.CreateOrder(context.Background(), services.CreateOrderInput{
		ProductID: "p", Amount: decimal.NewFromInt(3), PaymentMethod: models.PaymentMethodOMT,
	}, session)
	require.NoError(t, err)
	assert.Equal(t, "session@example.com", *order.UserEmail)

	// Anonymous buyer: no owner.
	order, err = service.CreateOrder(context.Background(), services.CreateOrderInput{
		ProductID: "p", Amount: decimal.NewFromInt(3), PaymentMethod: models.PaymentMethodOMT, Email: "anon@example.com",
	}, nil)
	require.NoError(t, err)
	assert.Nil(t, order.UserID)

	mockNotifier.AssertNumberOfCalls(t, "NotifyOrderCreated", 3)
}

func TestOrderService_NoEmailSkipsNotification(t *testing.T) {
	mockRepo := new(MockOrderRepository)
	mockNotifier := new(MockNotifier)
	service := services.NewOrderService(mockRepo, mockNotifier, nil)

	mockRepo.On("Create", mock.Anything, mock.Anything).Return(nil).Once()

	order, err := service.CreateOrder(context.Background(), services.CreateOrderInput{
		ProductID: "p", Amount: decimal.NewFromInt(3), PaymentMethod: models.PaymentMethodCrypto,
	}, nil)
	require.NoError(t, err)
	assert.Nil(t, order.UserEmail)
	mockNotifier.AssertNotCalled(t, "NotifyOrderCreated", mock.Anything, mock.Anything)
}

func TestOrderService_NotificationFailureIsSwallowed(t *testing.T) {
	mockRepo := new(MockOrderRepository)
	mockNotifier := new(MockNotifier)
	service := services.NewOrderService(mockRepo, mockNotifier, nil)

	mockRepo.On("Create", mock.Anything, mock.Anything).Return(nil).Once()
	mockNotifier.On("NotifyOrderCreated", mock.Anything, mock.Anything).Return(errors.New("smtp down")).Once()

	order, err := service.CreateOrder(context.Background(), services.CreateOrderInput{
		ProductID: "p", Amount: decimal.NewFromInt(3), PaymentMethod: models.PaymentMethodWhish, Email: "a@b.co",
	}, nil)
	require.NoError(t, err)
	assert.NotNil(t, order)
	mockNotifier.AssertExpectations(t)
}

func TestOrderService_StoreFailure(t *testing.T) {
	mockRepo := new(MockOrderRepository)
	mockNotifier := new(MockNotifier)
	service := services.NewOrderService(mockRepo, mockNotifier, nil)

	mockRepo.On("Create", mock.Anything, mock.Anything).
		Return(errors.Wrap(repositories.ErrNotFound, "product missing")).Once()

	_, err := service.CreateOrder(context.Background(), services.CreateOrderInput{
		ProductID: "missing", Amount: decimal.NewFromInt(3), PaymentMethod: models.PaymentMethodCard, Email: "a@b.co",
	}, nil)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, services.ErrMissingFields)
	mockNotifier.AssertNotCalled(t, "NotifyOrderCreated", mock.Anything, mock.Anything)
}

func TestOrderService_GetOrderNotFound(t *testing.T) {
	stores := repositories.NewMemoryStores()
	service := services.NewOrderService(stores.Orders, nil, nil)

	_, err := service.GetOrder(context.Background(), "nope")
	assert.ErrorIs(t, err, services.ErrNotFound)
}
