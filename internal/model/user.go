package model

import "time"

// Role classifies what a user is allowed to do. Customers manage their own
// shops; admins additionally manage users.
type Role string

const (
	RoleCustomer Role = "CUSTOMER"
	RoleAdmin    Role = "ADMIN"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool { return r == RoleCustomer || r == RoleAdmin }

// User mirrors the `users` table. PasswordHash and RefreshToken never leave
// the server: RefreshToken holds only the SHA-256 hex digest of the current
// refresh token and is nil exactly when the user has no active session.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Role         Role      `json:"role"`
	Active       bool      `json:"active"`
	PasswordHash string    `json:"-"`
	RefreshToken *string   `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}
