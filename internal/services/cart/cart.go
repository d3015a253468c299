// Package services содержит бизнес-логику серверной корзины.
//
// Корзина хранится только для вошедших пользователей. Анонимная корзина живет
// на клиенте и попадает на сервер одним вызовом Merge после входа: количества
// суммируются по товару тем же атомарным upsert-инкрементом, что и AddItem.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/velotech/storefront/internal/models"
	"github.com/velotech/storefront/internal/storage/repository"
)

// ErrProductNotFound возвращается при попытке положить в корзину
// несуществующий товар.
var ErrProductNotFound = errors.New("product not found")

// CartRepository определяет методы для работы со строками корзины в хранилище.
type CartRepository interface {
	// UpsertCartItem добавляет строку или атомарно увеличивает количество.
	UpsertCartItem(ctx context.Context, item models.CartItem) error
	// SetCartItemQuantity устанавливает количество, возвращает число строк.
	SetCartItemQuantity(ctx context.Context, userUID, productID string, quantity int) (int, error)
	// RemoveCartItem удаляет строку, повторный вызов — no-op.
	RemoveCartItem(ctx context.Context, userUID, productID string) error
	// ClearCart удаляет все строки пользователя.
	ClearCart(ctx context.Context, userUID string) error
	// ListCartItems возвращает строки корзины.
	ListCartItems(ctx context.Context, userUID string) ([]models.CartItem, error)
}

// ProductReader нужен корзине для снимка названия, картинки и цены товара.
type ProductReader interface {
	GetProduct(ctx context.Context, id string) (*models.Product, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
	Invalidate(key string) error
}

// CartService реализует операции корзины с кешированием собранной корзины.
type CartService struct {
	repo     CartRepository
	products ProductReader
	cache    Cache
	log      *slog.Logger
}

// NewCartService создает новый экземпляр CartService.
func NewCartService(repo CartRepository, products ProductReader, cache Cache, log *slog.Logger) *CartService {
	return &CartService{
		repo:     repo,
		products: products,
		cache:    cache,
		log:      log,
	}
}

func cartCacheKey(userUID string) string {
	return fmt.Sprintf("cart:%s", userUID)
}

// AddItem добавляет товар в корзину пользователя. Если строка уже есть,
// количество увеличивается на quantity; уменьшения здесь не бывает.
func (s *CartService) AddItem(ctx context.Context, userUID, productID string, quantity int) error {
	product, err := s.products.GetProduct(ctx, productID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrProductNotFound
		}
		return err
	}

	image := product.Image
	item := models.CartItem{
		UserUID:      userUID,
		ProductID:    product.ID,
		ProductName:  product.Name,
		ProductImage: &image,
		ProductPrice: product.Price,
		Quantity:     quantity,
	}
	if err := s.repo.UpsertCartItem(ctx, item); err != nil {
		return err
	}
	s.invalidate(userUID)
	return nil
}

// UpdateQuantity устанавливает количество по строке. Количество <= 0
// эквивалентно удалению строки.
func (s *CartService) UpdateQuantity(ctx context.Context, userUID, productID string, quantity int) error {
	if quantity <= 0 {
		return s.RemoveItem(ctx, userUID, productID)
	}
	if _, err := s.repo.SetCartItemQuantity(ctx, userUID, productID, quantity); err != nil {
		return err
	}
	s.invalidate(userUID)
	return nil
}

// RemoveItem удаляет строку корзины. Идемпотентен.
func (s *CartService) RemoveItem(ctx context.Context, userUID, productID string) error {
	if err := s.repo.RemoveCartItem(ctx, userUID, productID); err != nil {
		return err
	}
	s.invalidate(userUID)
	return nil
}

// Clear удаляет все строки корзины пользователя.
func (s *CartService) Clear(ctx context.Context, userUID string) error {
	if err := s.repo.ClearCart(ctx, userUID); err != nil {
		return err
	}
	s.invalidate(userUID)
	return nil
}

// GetCart возвращает корзину с вычисленными итогами. Итоги считаются по
// снимку цены в строке, а не по актуальной цене каталога.
func (s *CartService) GetCart(ctx context.Context, userUID string) (*models.Cart, error) {
	var cached models.Cart
	cacheKey := cartCacheKey(userUID)
	found, err := s.cache.Get(cacheKey, &cached)
	if err != nil {
		s.log.Warn("failed to read cart from cache", slog.String("key", cacheKey), slog.Any("err", err))
	}
	if found {
		return &cached, nil
	}

	items, err := s.repo.ListCartItems(ctx, userUID)
	if err != nil {
		return nil, err
	}

	cart := &models.Cart{Items: items}
	for _, item := range items {
		cart.TotalItems += item.Quantity
		cart.TotalPrice += item.ProductPrice * float64(item.Quantity)
	}

	if err := s.cache.Set(cacheKey, cart, time.Hour); err != nil {
		s.log.Warn("failed to cache cart", slog.String("key", cacheKey), slog.Any("err", err))
	}
	return cart, nil
}

// Merge вливает строки анонимной корзины в серверную, суммируя количества
// по товару. Неизвестные товары пропускаются с предупреждением в логе.
func (s *CartService) Merge(ctx context.Context, userUID string, items []models.MergeItem) error {
	for _, m := range items {
		if err := s.AddItem(ctx, userUID, m.ProductID, m.Quantity); err != nil {
			if errors.Is(err, ErrProductNotFound) {
				s.log.Warn("skipping unknown product during cart merge",
					slog.String("product_id", m.ProductID))
				continue
			}
			return err
		}
	}
	return nil
}

func (s *CartService) invalidate(userUID string) {
	cacheKey := cartCacheKey(userUID)
	if err := s.cache.Invalidate(cacheKey); err != nil {
		s.log.Warn("failed to invalidate cart cache", slog.String("key", cacheKey), slog.Any("err", err))
	}
}
