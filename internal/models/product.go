package models

import "time"

// Product представляет товар каталога.
type Product struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	Price         float64   `json:"price"`
	OriginalPrice *float64  `json:"original_price,omitempty"` // Цена до скидки, если была
	Image         string    `json:"image"`
	Category      string    `json:"category"`
	Brand         string    `json:"brand"`
	Rating        float64   `json:"rating"`
	ReviewCount   int       `json:"review_count"`
	InStock       bool      `json:"in_stock"`
	IsNew         bool      `json:"is_new"`
	IsFeatured    bool      `json:"is_featured"`
	CreatedAt     time.Time `json:"created_at"`
}

// ProductFilter задает необязательные фильтры для выборки каталога.
type ProductFilter struct {
	Category string
	Brand    string
	Featured bool
}
