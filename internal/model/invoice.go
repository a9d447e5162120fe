package model

import "time"

// Invoice records a billed total for a shop.
type Invoice struct {
	ID        string    `json:"id"`
	ShopID    string    `json:"shop_id"`
	Total     float64   `json:"total"`
	CreatedAt time.Time `json:"created_at"`
}
