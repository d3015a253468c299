package repository

import (
	"context"
	"fmt"

	"github.com/velotech/storefront/internal/models"
)

const productColumns = `id, name, description, price, original_price, image, category,
			      brand, rating, review_count, in_stock, is_new, is_featured, created_at`

func scanProduct(row interface{ Scan(...any) error }, p *models.Product) error {
	return row.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.OriginalPrice,
		&p.Image, &p.Category, &p.Brand, &p.Rating, &p.ReviewCount,
		&p.InStock, &p.IsNew, &p.IsFeatured, &p.CreatedAt)
}

// ListProducts возвращает товары каталога с необязательными фильтрами.
func (s *Storage) ListProducts(ctx context.Context, filter models.ProductFilter) ([]*models.Product, error) {
	const op = "storage.ListProducts"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + productColumns + `
			  FROM products
			  WHERE ($1 = '' OR category = $1)
			    AND ($2 = '' OR brand = $2)
			    AND (NOT $3 OR is_featured)
			  ORDER BY created_at DESC, name`
	rows, err := s.DB.QueryContext(ctx, query, filter.Category, filter.Brand, filter.Featured)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Product
	for rows.Next() {
		var p models.Product
		if err = scanProduct(rows, &p); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// GetProduct возвращает товар по его ID.
func (s *Storage) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	const op = "storage.GetProduct"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	var p models.Product
	if err := scanProduct(s.DB.QueryRowContext(ctx, query, id), &p); err != nil {
		return nil, translateError(op, err)
	}
	return &p, nil
}
