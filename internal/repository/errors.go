// Package repository implements data access over *sql.DB. Sentinel errors
// defined here let the service and handler layers map failures to specific
// HTTP responses without inspecting driver errors.
package repository

import "errors"

// ErrNotFound is returned when the requested row does not exist or is not
// visible to the caller.
var ErrNotFound = errors.New("not found")

// ErrEmailExists is returned when creating or updating a user would violate
// the unique email constraint.
var ErrEmailExists = errors.New("email already exists")

// ErrConflict signals a uniqueness or dependent-state violation on a
// non-user resource, e.g. a duplicate shop name for the same owner.
var ErrConflict = errors.New("conflict")

// ErrStaleToken is returned by the conditional refresh-token rotation when
// the stored hash changed between read and write: a concurrent rotation won
// and the presented token is no longer current.
var ErrStaleToken = errors.New("stale refresh token")
