package model

import "time"

// Inventory aggregates stock value for a shop.
type Inventory struct {
	ID        string    `json:"id"`
	ShopID    string    `json:"shop_id"`
	Cost      float64   `json:"cost"`
	Subtotal  float64   `json:"subtotal"`
	Total     float64   `json:"total"`
	CreatedAt time.Time `json:"created_at"`
}
