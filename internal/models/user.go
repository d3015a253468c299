// Package models содержит доменную модель пользователя магазина,
// включающую данные учётной записи, хэш пароля и дату создания.
// Структуры используются в бизнес‑логике и при работе с хранилищем.
package models

import "time"

// User представляет зарегистрированного покупателя.
type User struct {
	UID          string    `json:"id"`                // Уникальный идентификатор пользователя
	Email        string    `json:"email"`             // Электронная почта (уникальная)
	Name         string    `json:"name"`              // Отображаемое имя
	PasswordHash string    `json:"-"`                 // Хэш пароля, никогда не сериализуется
	Phone        *string   `json:"phone,omitempty"`   // Телефон (опционально)
	Address      *string   `json:"address,omitempty"` // Адрес доставки (опционально)
	CreatedAt    time.Time `json:"created_at"`
}
