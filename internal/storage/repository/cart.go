package repository

import (
	"context"
	"fmt"

	"github.com/velotech/storefront/internal/models"
)

// UpsertCartItem добавляет строку корзины или атомарно увеличивает количество,
// если строка для (пользователь, товар) уже есть. Инкремент выполняется одним
// запросом, чтобы одновременные добавления из двух вкладок не теряли друг друга.
func (s *Storage) UpsertCartItem(ctx context.Context, item models.CartItem) error {
	const op = "storage.UpsertCartItem"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO cart_items (user_uid, product_id, product_name, product_image,
			      product_price, quantity)
			  VALUES ($1, $2, $3, $4, $5, $6)
			  ON CONFLICT (user_uid, product_id)
			  DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity,
			      updated_at = now()`
	_, err := s.DB.ExecContext(ctx, query,
		item.UserUID, item.ProductID, item.ProductName, item.ProductImage,
		item.ProductPrice, item.Quantity)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// SetCartItemQuantity устанавливает (не увеличивает) количество по строке.
// Возвращает число обновленных строк.
func (s *Storage) SetCartItemQuantity(ctx context.Context, userUID, productID string, quantity int) (int, error) {
	const op = "storage.SetCartItemQuantity"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE cart_items
			  SET quantity = $1, updated_at = now()
			  WHERE user_uid = $2 AND product_id = $3`
	res, err := s.DB.ExecContext(ctx, query, quantity, userUID, productID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(affected), nil
}

// RemoveCartItem удаляет строку корзины. Повторное удаление не считается ошибкой.
func (s *Storage) RemoveCartItem(ctx context.Context, userUID, productID string) error {
	const op = "storage.RemoveCartItem"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM cart_items WHERE user_uid = $1 AND product_id = $2`
	if _, err := s.DB.ExecContext(ctx, query, userUID, productID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ClearCart удаляет все строки корзины пользователя.
func (s *Storage) ClearCart(ctx context.Context, userUID string) error {
	const op = "storage.ClearCart"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM cart_items WHERE user_uid = $1`
	if _, err := s.DB.ExecContext(ctx, query, userUID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ListCartItems возвращает строки корзины пользователя в порядке добавления.
func (s *Storage) ListCartItems(ctx context.Context, userUID string) ([]models.CartItem, error) {
	const op = "storage.ListCartItems"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_uid, product_id, product_name, product_image,
			      product_price, quantity, created_at, updated_at
			  FROM cart_items
			  WHERE user_uid = $1
			  ORDER BY created_at`
	rows, err := s.DB.QueryContext(ctx, query, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []models.CartItem
	for rows.Next() {
		var item models.CartItem
		if err = rows.Scan(&item.ID, &item.UserUID, &item.ProductID, &item.ProductName,
			&item.ProductImage, &item.ProductPrice, &item.Quantity,
			&item.CreatedAt, &item.UpdatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
