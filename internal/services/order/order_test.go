package services_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/velotech/storefront/internal/models"
	services "github.com/velotech/storefront/internal/services/order"
	"github.com/velotech/storefront/internal/storage/repository"
)

type OrderRepoMock struct {
	mock.Mock
}

func (m *OrderRepoMock) CreateOrder(ctx context.Context, order models.Order) (*models.Order, error) {
	args := m.Called(ctx, order)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *OrderRepoMock) ListOrders(ctx context.Context, userUID string) ([]*models.Order, error) {
	args := m.Called(ctx, userUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Order), args.Error(1)
}

func (m *OrderRepoMock) GetOrder(ctx context.Context, userUID, orderID string) (*models.Order, error) {
	args := m.Called(ctx, userUID, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *OrderRepoMock) ListCartItems(ctx context.Context, userUID string) ([]models.CartItem, error) {
	args := m.Called(ctx, userUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.CartItem), args.Error(1)
}

func (m *OrderRepoMock) GetUser(ctx context.Context, userUID string) (*models.User, error) {
	args := m.Called(ctx, userUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

type PublisherMock struct {
	mock.Mock
}

func (m *PublisherMock) Publish(routingKey string, message any) error {
	args := m.Called(routingKey, message)
	return args.Error(0)
}

type InvalidatorMock struct{}

func (InvalidatorMock) Invalidate(_ string) error { return nil }

func newOrderService(repo *OrderRepoMock, pub *PublisherMock) *services.OrderService {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	var p services.EventPublisher
	if pub != nil {
		p = pub
	}
	return services.NewOrderService(repo, InvalidatorMock{}, p, logger)
}

func TestOrderService_Checkout(t *testing.T) {
	cartItems := []models.CartItem{
		{ProductID: "a", ProductName: "Chain Lube", ProductPrice: 10.0, Quantity: 2},
		{ProductID: "b", ProductName: "Pedal Set", ProductPrice: 5.0, Quantity: 1},
	}

	repo := new(OrderRepoMock)
	pub := new(PublisherMock)
	svc := newOrderService(repo, pub)

	repo.On("ListCartItems", mock.Anything, "uid-1").Return(cartItems, nil).Once()
	repo.On("CreateOrder", mock.Anything, mock.MatchedBy(func(order models.Order) bool {
		// итог считается на сервере по снимкам строк
		return order.Total == 25.0 &&
			order.Status == models.OrderStatusPending &&
			len(order.Items) == 2 &&
			order.Items[0].ProductName == "Chain Lube" &&
			order.Items[0].Quantity == 2
	})).Return(&models.Order{
		ID:     "order-1",
		Total:  25.0,
		Status: models.OrderStatusPending,
		Items:  []models.OrderItem{{ProductID: "a"}, {ProductID: "b"}},
	}, nil).Once()
	repo.On("GetUser", mock.Anything, mock.Anything).Return(&models.User{
		Email: "user@example.com",
		Name:  "Test User",
	}, nil).Once()
	pub.On("Publish", "created", mock.MatchedBy(func(ev models.OrderCreatedEvent) bool {
		return ev.OrderID == "order-1" && ev.UserEmail == "user@example.com" && ev.ItemsCount == 2
	})).Return(nil).Once()

	order, err := svc.Checkout(context.Background(), "uid-1", "card", "Main St 1")
	require.NoError(t, err)
	assert.Equal(t, "order-1", order.ID)
	assert.InDelta(t, 25.0, order.Total, 0.001)

	repo.AssertExpectations(t)
	pub.AssertExpectations(t)
}

func TestOrderService_Checkout_EmptyCart(t *testing.T) {
	repo := new(OrderRepoMock)
	svc := newOrderService(repo, nil)

	repo.On("ListCartItems", mock.Anything, "uid-1").Return([]models.CartItem{}, nil).Once()

	_, err := svc.Checkout(context.Background(), "uid-1", "card", "Main St 1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, services.ErrEmptyCart))
	// CreateOrder не вызывался: никаких записей при пустой корзине
	repo.AssertNotCalled(t, "CreateOrder", mock.Anything, mock.Anything)
}

func TestOrderService_Checkout_PublishFailureIsNotFatal(t *testing.T) {
	repo := new(OrderRepoMock)
	pub := new(PublisherMock)
	svc := newOrderService(repo, pub)

	repo.On("ListCartItems", mock.Anything, "uid-1").Return([]models.CartItem{
		{ProductID: "a", ProductPrice: 10.0, Quantity: 1},
	}, nil).Once()
	repo.On("CreateOrder", mock.Anything, mock.Anything).Return(&models.Order{ID: "order-1", Total: 10.0}, nil).Once()
	repo.On("GetUser", mock.Anything, mock.Anything).Return(&models.User{Email: "u@e.com"}, nil).Once()
	pub.On("Publish", "created", mock.Anything).Return(errors.New("broker down")).Once()

	order, err := svc.Checkout(context.Background(), "uid-1", "card", "Main St 1")
	require.NoError(t, err)
	assert.Equal(t, "order-1", order.ID)
}

func TestOrderService_Read_NotFound(t *testing.T) {
	repo := new(OrderRepoMock)
	svc := newOrderService(repo, nil)

	repo.On("GetOrder", mock.Anything, "uid-1", "missing").
		Return(nil, repository.ErrNotFound).Once()

	_, err := svc.Read(context.Background(), "uid-1", "missing")
	assert.True(t, errors.Is(err, services.ErrOrderNotFound))
}
