package services_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/velotech/storefront/internal/models"
	services "github.com/velotech/storefront/internal/services/cart"
	"github.com/velotech/storefront/internal/storage/repository"
)

type CartRepoMock struct {
	mock.Mock
}

func (m *CartRepoMock) UpsertCartItem(ctx context.Context, item models.CartItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *CartRepoMock) SetCartItemQuantity(ctx context.Context, userUID, productID string, quantity int) (int, error) {
	args := m.Called(ctx, userUID, productID, quantity)
	return args.Int(0), args.Error(1)
}

func (m *CartRepoMock) RemoveCartItem(ctx context.Context, userUID, productID string) error {
	args := m.Called(ctx, userUID, productID)
	return args.Error(0)
}

func (m *CartRepoMock) ClearCart(ctx context.Context, userUID string) error {
	args := m.Called(ctx, userUID)
	return args.Error(0)
}

func (m *CartRepoMock) ListCartItems(ctx context.Context, userUID string) ([]models.CartItem, error) {
	args := m.Called(ctx, userUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.CartItem), args.Error(1)
}

type ProductReaderMock struct {
	mock.Mock
}

func (m *ProductReaderMock) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

// CacheMock простая заглушка кеша: всегда промах, запись без ошибок.
type CacheMock struct{}

func (CacheMock) Get(_ string, _ any) (bool, error)                 { return false, nil }
func (CacheMock) Set(_ string, _ any, _ time.Duration) error        { return nil }
func (CacheMock) Invalidate(_ string) error                         { return nil }

func newCartService(repo *CartRepoMock, products *ProductReaderMock) *services.CartService {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return services.NewCartService(repo, products, CacheMock{}, logger)
}

func TestCartService_AddItem(t *testing.T) {
	product := &models.Product{
		ID:    "prod-1",
		Name:  "Velo Strada Carbon",
		Image: "/images/strada-carbon.jpg",
		Price: 2499.00,
	}

	tests := []struct {
		name       string
		productID  string
		quantity   int
		setupMocks func(r *CartRepoMock, p *ProductReaderMock)
		wantErr    error
	}{
		{
			name:      "успешное добавление со снимком товара",
			productID: "prod-1",
			quantity:  2,
			setupMocks: func(r *CartRepoMock, p *ProductReaderMock) {
				p.On("GetProduct", mock.Anything, "prod-1").Return(product, nil).Once()
				r.On("UpsertCartItem", mock.Anything, mock.MatchedBy(func(item models.CartItem) bool {
					return item.ProductID == "prod-1" &&
						item.ProductName == "Velo Strada Carbon" &&
						item.ProductPrice == 2499.00 &&
						item.Quantity == 2
				})).Return(nil).Once()
			},
		},
		{
			name:      "неизвестный товар",
			productID: "missing",
			quantity:  1,
			setupMocks: func(_ *CartRepoMock, p *ProductReaderMock) {
				p.On("GetProduct", mock.Anything, "missing").
					Return(nil, repository.ErrNotFound).Once()
			},
			wantErr: services.ErrProductNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(CartRepoMock)
			products := new(ProductReaderMock)
			tt.setupMocks(repo, products)
			svc := newCartService(repo, products)

			err := svc.AddItem(context.Background(), "uid-1", tt.productID, tt.quantity)

			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr))
			} else {
				require.NoError(t, err)
			}
			repo.AssertExpectations(t)
			products.AssertExpectations(t)
		})
	}
}

func TestCartService_UpdateQuantity_ZeroRemoves(t *testing.T) {
	repo := new(CartRepoMock)
	products := new(ProductReaderMock)
	svc := newCartService(repo, products)

	// количество 0 ведет себя как удаление строки
	repo.On("RemoveCartItem", mock.Anything, "uid-1", "prod-1").Return(nil).Once()
	require.NoError(t, svc.UpdateQuantity(context.Background(), "uid-1", "prod-1", 0))

	// положительное количество устанавливается, а не инкрементируется
	repo.On("SetCartItemQuantity", mock.Anything, "uid-1", "prod-1", 5).Return(1, nil).Once()
	require.NoError(t, svc.UpdateQuantity(context.Background(), "uid-1", "prod-1", 5))

	repo.AssertExpectations(t)
}

func TestCartService_RemoveItem_Idempotent(t *testing.T) {
	repo := new(CartRepoMock)
	products := new(ProductReaderMock)
	svc := newCartService(repo, products)

	repo.On("RemoveCartItem", mock.Anything, "uid-1", "prod-1").Return(nil).Twice()

	require.NoError(t, svc.RemoveItem(context.Background(), "uid-1", "prod-1"))
	// повторное удаление не ошибка
	require.NoError(t, svc.RemoveItem(context.Background(), "uid-1", "prod-1"))

	repo.AssertExpectations(t)
}

func TestCartService_GetCart_Totals(t *testing.T) {
	repo := new(CartRepoMock)
	products := new(ProductReaderMock)
	svc := newCartService(repo, products)

	repo.On("ListCartItems", mock.Anything, "uid-1").Return([]models.CartItem{
		{ProductID: "a", ProductPrice: 10.0, Quantity: 2},
		{ProductID: "b", ProductPrice: 5.0, Quantity: 1},
	}, nil).Once()

	cart, err := svc.GetCart(context.Background(), "uid-1")
	require.NoError(t, err)
	assert.Equal(t, 3, cart.TotalItems)
	assert.InDelta(t, 25.00, cart.TotalPrice, 0.001)
	repo.AssertExpectations(t)
}

func TestCartService_Merge_SumsQuantities(t *testing.T) {
	repo := new(CartRepoMock)
	products := new(ProductReaderMock)
	svc := newCartService(repo, products)

	products.On("GetProduct", mock.Anything, "prod-1").Return(&models.Product{
		ID: "prod-1", Name: "Helmet", Price: 149.0,
	}, nil).Once()
	products.On("GetProduct", mock.Anything, "unknown").
		Return(nil, repository.ErrNotFound).Once()

	repo.On("UpsertCartItem", mock.Anything, mock.MatchedBy(func(item models.CartItem) bool {
		return item.ProductID == "prod-1" && item.Quantity == 3
	})).Return(nil).Once()

	err := svc.Merge(context.Background(), "uid-1", []models.MergeItem{
		{ProductID: "prod-1", Quantity: 3},
		{ProductID: "unknown", Quantity: 1}, // пропускается
	})
	require.NoError(t, err)
	repo.AssertExpectations(t)
	products.AssertExpectations(t)
}
