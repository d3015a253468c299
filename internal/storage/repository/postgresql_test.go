package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/velotech/storefront/internal/models"
)

func TestStorage_CreateUser(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	ctx := context.Background()

	uid, err := storage.CreateUser(ctx, models.User{
		Email:        "rider@example.com",
		Name:         "Ivan",
		PasswordHash: "hashedpassword",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, uid)

	var count int
	err = storage.DB.QueryRow("SELECT COUNT(*) FROM users WHERE uid = $1", uid).Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	// повторная регистрация того же email
	_, err = storage.CreateUser(ctx, models.User{
		Email:        "rider@example.com",
		Name:         "Ivan Again",
		PasswordHash: "otherhash",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUniqueViolation)
}

func TestStorage_GetUserByEmail(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	uid := factory.CreateUser(t, "rider@example.com", "Ivan", "hashedpassword")

	ctx := context.Background()

	got, err := storage.GetUserByEmail(ctx, "rider@example.com")
	require.NoError(t, err)
	assert.Equal(t, uid, got.UID)
	assert.Equal(t, "Ivan", got.Name)
	assert.Equal(t, "hashedpassword", got.PasswordHash)

	_, err = storage.GetUserByEmail(ctx, "ghost@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStorage_UpsertCartItem(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	userUID := factory.CreateUser(t, "rider@example.com", "Ivan", "hash")
	productID := factory.CreateProduct(t, "Velo Strada Carbon", "road", 1500.00)

	ctx := context.Background()
	item := models.CartItem{
		UserUID:      userUID,
		ProductID:    productID,
		ProductName:  "Velo Strada Carbon",
		ProductPrice: 1500.00,
		Quantity:     1,
	}

	require.NoError(t, storage.UpsertCartItem(ctx, item))

	// повторное добавление наращивает количество той же строки
	item.Quantity = 2
	require.NoError(t, storage.UpsertCartItem(ctx, item))

	items, err := storage.ListCartItems(ctx, userUID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 3, items[0].Quantity)
	assert.Equal(t, productID, items[0].ProductID)
}

func TestStorage_SetCartItemQuantity(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	userUID := factory.CreateUser(t, "rider@example.com", "Ivan", "hash")
	productID := factory.CreateProduct(t, "Chain Lube", "maintenance", 12.50)
	factory.CreateCartItem(t, userUID, productID, "Chain Lube", 12.50, 2)

	ctx := context.Background()

	affected, err := storage.SetCartItemQuantity(ctx, userUID, productID, 5)
	require.NoError(t, err)
	assert.Equal(t, 1, affected)

	items, err := storage.ListCartItems(ctx, userUID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 5, items[0].Quantity)

	// несуществующая строка не трогает базу
	affected, err = storage.SetCartItemQuantity(ctx, userUID, factory.CreateProduct(t, "Other", "road", 1), 5)
	require.NoError(t, err)
	assert.Equal(t, 0, affected)
}

func TestStorage_CreateOrder(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	userUID := factory.CreateUser(t, "rider@example.com", "Ivan", "hash")
	bikeID := factory.CreateProduct(t, "Trail Hawk 29", "mountain", 2000.00)
	lubeID := factory.CreateProduct(t, "Chain Lube", "maintenance", 12.50)
	factory.CreateCartItem(t, userUID, bikeID, "Trail Hawk 29", 2000.00, 1)
	factory.CreateCartItem(t, userUID, lubeID, "Chain Lube", 12.50, 2)

	ctx := context.Background()

	created, err := storage.CreateOrder(ctx, models.Order{
		UserUID:         userUID,
		Total:           2025.00,
		Status:          models.OrderStatusPending,
		PaymentMethod:   "card",
		ShippingAddress: "Moscow, Tverskaya 1",
		Items: []models.OrderItem{
			{ProductID: bikeID, ProductName: "Trail Hawk 29", ProductPrice: 2000.00, Quantity: 1},
			{ProductID: lubeID, ProductName: "Chain Lube", ProductPrice: 12.50, Quantity: 2},
		},
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	assert.False(t, created.CreatedAt.IsZero())

	// строки заказа записаны
	var itemsCount int
	err = storage.DB.QueryRow("SELECT COUNT(*) FROM order_items WHERE order_id = $1", created.ID).Scan(&itemsCount)
	require.NoError(t, err)
	assert.Equal(t, 2, itemsCount)

	// корзина очищена той же транзакцией
	cartItems, err := storage.ListCartItems(ctx, userUID)
	require.NoError(t, err)
	assert.Empty(t, cartItems)
}

func TestStorage_GetOrder_OwnershipCheck(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	ownerUID := factory.CreateUser(t, "owner@example.com", "Owner", "hash")
	strangerUID := factory.CreateUser(t, "stranger@example.com", "Stranger", "hash")
	productID := factory.CreateProduct(t, "Aero Helmet Pro", "accessories", 149.00)
	factory.CreateCartItem(t, ownerUID, productID, "Aero Helmet Pro", 149.00, 1)

	ctx := context.Background()

	created, err := storage.CreateOrder(ctx, models.Order{
		UserUID:         ownerUID,
		Total:           149.00,
		Status:          models.OrderStatusPending,
		PaymentMethod:   "card",
		ShippingAddress: "Moscow, Tverskaya 1",
		Items: []models.OrderItem{
			{ProductID: productID, ProductName: "Aero Helmet Pro", ProductPrice: 149.00, Quantity: 1},
		},
	})
	require.NoError(t, err)

	// владелец видит заказ вместе с позициями
	got, err := storage.GetOrder(ctx, ownerUID, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "Aero Helmet Pro", got.Items[0].ProductName)

	// чужой заказ неотличим от несуществующего
	_, err = storage.GetOrder(ctx, strangerUID, created.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStorage_ListOrders_NewestFirst(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	userUID := factory.CreateUser(t, "rider@example.com", "Ivan", "hash")
	productID := factory.CreateProduct(t, "Chain Lube", "maintenance", 12.50)

	ctx := context.Background()

	var orderIDs []string
	for range 2 {
		factory.CreateCartItem(t, userUID, productID, "Chain Lube", 12.50, 1)
		created, err := storage.CreateOrder(ctx, models.Order{
			UserUID:         userUID,
			Total:           12.50,
			Status:          models.OrderStatusPending,
			PaymentMethod:   "card",
			ShippingAddress: "Moscow, Tverskaya 1",
			Items: []models.OrderItem{
				{ProductID: productID, ProductName: "Chain Lube", ProductPrice: 12.50, Quantity: 1},
			},
		})
		require.NoError(t, err)
		orderIDs = append(orderIDs, created.ID)
	}

	orders, err := storage.ListOrders(ctx, userUID)
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, orderIDs[1], orders[0].ID)
	assert.Equal(t, orderIDs[0], orders[1].ID)
}
