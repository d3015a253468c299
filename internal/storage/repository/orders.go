package repository

import (
	"context"
	"fmt"

	"github.com/velotech/storefront/internal/models"
)

// CreateOrder в одной транзакции записывает шапку заказа, его строки и
// очищает корзину пользователя. Либо заказ создан целиком и корзина пуста,
// либо не произошло ничего.
func (s *Storage) CreateOrder(ctx context.Context, order models.Order) (*models.Order, error) {
	const op = "storage.CreateOrder"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	headerQuery := `INSERT INTO orders (user_uid, total, status, payment_method, shipping_address)
			  VALUES ($1, $2, $3, $4, $5)
			  RETURNING id, created_at, updated_at`
	if err = tx.QueryRowContext(ctx, headerQuery,
		order.UserUID, order.Total, order.Status, order.PaymentMethod,
		order.ShippingAddress).Scan(&order.ID, &order.CreatedAt, &order.UpdatedAt); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	itemQuery := `INSERT INTO order_items (order_id, product_id, product_name, product_image,
			      product_price, quantity)
			  VALUES ($1, $2, $3, $4, $5, $6)
			  RETURNING id`
	for i := range order.Items {
		item := &order.Items[i]
		item.OrderID = order.ID
		if err = tx.QueryRowContext(ctx, itemQuery,
			order.ID, item.ProductID, item.ProductName, item.ProductImage,
			item.ProductPrice, item.Quantity).Scan(&item.ID); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	if _, err = tx.ExecContext(ctx, `DELETE FROM cart_items WHERE user_uid = $1`, order.UserUID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &order, nil
}

// ListOrders возвращает заказы пользователя от новых к старым вместе со строками.
func (s *Storage) ListOrders(ctx context.Context, userUID string) ([]*models.Order, error) {
	const op = "storage.ListOrders"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_uid, total, status, payment_method, shipping_address,
			      created_at, updated_at
			  FROM orders
			  WHERE user_uid = $1
			  ORDER BY created_at DESC`
	rows, err := s.DB.QueryContext(ctx, query, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Order
	for rows.Next() {
		var o models.Order
		if err = rows.Scan(&o.ID, &o.UserUID, &o.Total, &o.Status, &o.PaymentMethod,
			&o.ShippingAddress, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &o)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	for _, o := range result {
		if o.Items, err = s.listOrderItems(ctx, o.ID); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}
	return result, nil
}

// GetOrder возвращает заказ пользователя по ID вместе со строками.
// Чужой или отсутствующий заказ дает ErrNotFound.
func (s *Storage) GetOrder(ctx context.Context, userUID, orderID string) (*models.Order, error) {
	const op = "storage.GetOrder"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_uid, total, status, payment_method, shipping_address,
			      created_at, updated_at
			  FROM orders
			  WHERE id = $1 AND user_uid = $2`
	var o models.Order
	if err := s.DB.QueryRowContext(ctx, query, orderID, userUID).Scan(
		&o.ID, &o.UserUID, &o.Total, &o.Status, &o.PaymentMethod,
		&o.ShippingAddress, &o.CreatedAt, &o.UpdatedAt); err != nil {
		return nil, translateError(op, err)
	}

	var err error
	if o.Items, err = s.listOrderItems(ctx, o.ID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &o, nil
}

func (s *Storage) listOrderItems(ctx context.Context, orderID string) ([]models.OrderItem, error) {
	query := `SELECT id, order_id, product_id, product_name, product_image,
			      product_price, quantity
			  FROM order_items
			  WHERE order_id = $1`
	rows, err := s.DB.QueryContext(ctx, query, orderID)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = rows.Close()
	}()

	var items []models.OrderItem
	for rows.Next() {
		var item models.OrderItem
		if err = rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.ProductName,
			&item.ProductImage, &item.ProductPrice, &item.Quantity); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
