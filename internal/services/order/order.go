// Package services содержит бизнес-логику оформления и чтения заказов.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/velotech/storefront/internal/metrics"
	"github.com/velotech/storefront/internal/models"
	"github.com/velotech/storefront/internal/storage/repository"
)

// ErrEmptyCart возвращается при попытке оформить заказ с пустой корзиной.
// Никаких записей при этом не происходит.
var ErrEmptyCart = errors.New("cart is empty")

// ErrOrderNotFound возвращается для чужого или отсутствующего заказа.
var ErrOrderNotFound = errors.New("order not found")

// OrderRepository определяет методы для работы с заказами в хранилище.
type OrderRepository interface {
	// CreateOrder записывает заказ со строками и чистит корзину одной транзакцией.
	CreateOrder(ctx context.Context, order models.Order) (*models.Order, error)
	// ListOrders возвращает заказы пользователя от новых к старым.
	ListOrders(ctx context.Context, userUID string) ([]*models.Order, error)
	// GetOrder возвращает заказ пользователя по ID.
	GetOrder(ctx context.Context, userUID, orderID string) (*models.Order, error)
	// ListCartItems возвращает текущие строки корзины.
	ListCartItems(ctx context.Context, userUID string) ([]models.CartItem, error)
	// GetUser возвращает пользователя для письма-подтверждения.
	GetUser(ctx context.Context, userUID string) (*models.User, error)
}

// CartInvalidator сбрасывает кеш корзины после оформления заказа.
type CartInvalidator interface {
	Invalidate(key string) error
}

// EventPublisher публикует событие о созданном заказе.
type EventPublisher interface {
	Publish(routingKey string, message any) error
}

// OrderService оформляет заказы и отдает историю покупок.
type OrderService struct {
	repo      OrderRepository
	cache     CartInvalidator
	publisher EventPublisher
	log       *slog.Logger
}

// NewOrderService создает новый экземпляр OrderService.
// publisher может быть nil, тогда события не публикуются.
func NewOrderService(repo OrderRepository, cache CartInvalidator, publisher EventPublisher, log *slog.Logger) *OrderService {
	return &OrderService{
		repo:      repo,
		cache:     cache,
		publisher: publisher,
		log:       log,
	}
}

// Checkout превращает непустую корзину в неизменяемый заказ.
// Итог считается на сервере по снимкам цен в строках корзины; присланная
// клиентом сумма нигде не используется.
func (s *OrderService) Checkout(ctx context.Context, userUID, paymentMethod, shippingAddress string) (*models.Order, error) {
	const op = "order.Checkout"

	items, err := s.repo.ListCartItems(ctx, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	var total float64
	orderItems := make([]models.OrderItem, 0, len(items))
	for _, item := range items {
		total += item.ProductPrice * float64(item.Quantity)
		orderItems = append(orderItems, models.OrderItem{
			ProductID:    item.ProductID,
			ProductName:  item.ProductName,
			ProductImage: item.ProductImage,
			ProductPrice: item.ProductPrice,
			Quantity:     item.Quantity,
		})
	}

	order := models.Order{
		UserUID:         userUID,
		Total:           total,
		Status:          models.OrderStatusPending,
		PaymentMethod:   paymentMethod,
		ShippingAddress: shippingAddress,
		Items:           orderItems,
	}
	created, err := s.repo.CreateOrder(ctx, order)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.cache.Invalidate(fmt.Sprintf("cart:%s", userUID)); err != nil {
		s.log.Warn("failed to invalidate cart cache after checkout", slog.Any("err", err))
	}

	metrics.OrdersCreatedTotal.Inc()
	metrics.OrdersTotalAmount.Add(created.Total)

	s.publishCreated(ctx, created)

	s.log.Info("order created",
		slog.String("order_id", created.ID),
		slog.Float64("total", created.Total))
	return created, nil
}

// List возвращает историю заказов пользователя.
func (s *OrderService) List(ctx context.Context, userUID string) ([]*models.Order, error) {
	return s.repo.ListOrders(ctx, userUID)
}

// Read возвращает заказ пользователя по ID.
func (s *OrderService) Read(ctx context.Context, userUID, orderID string) (*models.Order, error) {
	order, err := s.repo.GetOrder(ctx, userUID, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return order, nil
}

// publishCreated отправляет событие order.created. Заказ уже записан,
// поэтому сбой публикации только логируется.
func (s *OrderService) publishCreated(ctx context.Context, order *models.Order) {
	if s.publisher == nil {
		return
	}
	user, err := s.repo.GetUser(ctx, order.UserUID)
	if err != nil {
		s.log.Warn("failed to load user for order event", slog.Any("err", err))
		return
	}
	event := models.OrderCreatedEvent{
		OrderID:    order.ID,
		UserEmail:  user.Email,
		UserName:   user.Name,
		Total:      order.Total,
		ItemsCount: len(order.Items),
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.publisher.Publish("created", event); err != nil {
		s.log.Warn("failed to publish order.created event", slog.Any("err", err))
	}
}
