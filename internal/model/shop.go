package model

import "time"

// Shop is a storefront owned by a single user. All other resources hang off
// a shop and inherit its ownership.
type Shop struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}
