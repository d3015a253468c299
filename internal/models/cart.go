package models

import "time"

// CartItem представляет одну строку корзины пользователя.
// Название, картинка и цена денормализованы в момент добавления:
// итоги считаются по снимку цены, а не по актуальной цене каталога.
type CartItem struct {
	ID           string    `json:"id"`
	UserUID      string    `json:"-"`
	ProductID    string    `json:"product_id"`
	ProductName  string    `json:"product_name"`
	ProductImage *string   `json:"product_image,omitempty"`
	ProductPrice float64   `json:"product_price"`
	Quantity     int       `json:"quantity"` // Всегда >= 1, ноль означает удаление строки
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Cart агрегирует строки корзины и вычисляемые итоги.
type Cart struct {
	Items      []CartItem `json:"items"`
	TotalItems int        `json:"total_items"`
	TotalPrice float64    `json:"total_price"`
}

// MergeItem строка анонимной корзины, присылаемая клиентом после входа.
type MergeItem struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Quantity  int    `json:"quantity" validate:"required,gt=0"`
}
