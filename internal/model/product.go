package model

import "time"

// Product belongs to a shop and may optionally be tracked by one of the
// shop's inventories.
type Product struct {
	ID          string    `json:"id"`
	ShopID      string    `json:"shop_id"`
	InventoryID *string   `json:"inventory_id,omitempty"`
	Name        string    `json:"name"`
	Price       float64   `json:"price"`
	CreatedAt   time.Time `json:"created_at"`
}
