package models

import "time"

// Статусы заказа.
const (
	OrderStatusPending   = "pending"
	OrderStatusPaid      = "paid"
	OrderStatusShipped   = "shipped"
	OrderStatusCancelled = "cancelled"
)

// Order представляет оформленный заказ. Строки заказа неизменяемы после
// создания, меняться может только статус.
type Order struct {
	ID              string      `json:"id"`
	UserUID         string      `json:"-"`
	Total           float64     `json:"total"`
	Status          string      `json:"status"`
	PaymentMethod   string      `json:"payment_method"`
	ShippingAddress string      `json:"shipping_address"`
	Items           []OrderItem `json:"items"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

// OrderItem дословная копия строки корзины в момент оформления заказа.
type OrderItem struct {
	ID           string  `json:"id"`
	OrderID      string  `json:"-"`
	ProductID    string  `json:"product_id"`
	ProductName  string  `json:"product_name"`
	ProductImage *string `json:"product_image,omitempty"`
	ProductPrice float64 `json:"product_price"`
	Quantity     int     `json:"quantity"`
}

// OrderCreatedEvent сообщение, публикуемое в RabbitMQ после оформления заказа.
type OrderCreatedEvent struct {
	OrderID    string    `json:"order_id"`
	UserEmail  string    `json:"user_email"`
	UserName   string    `json:"user_name"`
	Total      float64   `json:"total"`
	ItemsCount int       `json:"items_count"`
	CreatedAt  time.Time `json:"created_at"`
}
