// Package services содержит бизнес-логику каталога товаров.
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

// ErrProductNotFound возвращается для отсутствующего товара.
var ErrProductNotFound = errors.New("product not found")

// ProductRepository определяет методы для работы с каталогом в хранилище.
type ProductRepository interface {
	ListProducts(ctx context.Context, filter models.ProductFilter) ([]*models.Product, error)
	GetProduct(ctx context.Context, id string) (*models.Product, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
	Invalidate(key string) error
}

// ProductService отдает каталог, кешируя карточки товаров.
type ProductService struct {
	repo  ProductRepository
	cache Cache
	log   *slog.Logger
}

// NewProductService создает новый экземпляр ProductService.
func NewProductService(repo ProductRepository, cache Cache, log *slog.Logger) *ProductService {
	return &ProductService{
		repo:  repo,
		cache: cache,
		log:   log,
	}
}

// List возвращает товары каталога с фильтрами.
func (s *ProductService) List(ctx context.Context, filter models.ProductFilter) ([]*models.Product, error) {
	return s.repo.ListProducts(ctx, filter)
}

// Read возвращает товар по ID, используя кеш или репозиторий.
func (s *ProductService) Read(ctx context.Context, id string) (*models.Product, error) {
	var result *models.Product
	cacheKey := fmt.Sprintf("product:%s", id)
	found, err := s.cache.Get(cacheKey, &result)
	if err != nil {
		s.log.Warn("failed to read product from cache", slog.String("key", cacheKey), slog.Any("err", err))
	}
	if found {
		return result, nil
	}

	result, err = s.repo.GetProduct(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	if err := s.cache.Set(cacheKey, result, time.Hour); err != nil {
		s.log.Warn("failed to cache product", slog.String("key", cacheKey), slog.Any("err", err))
	}
	return result, nil
}
