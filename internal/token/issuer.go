// Package token mints and verifies the signed tokens used by the auth flows:
// short-lived access tokens, rotated refresh tokens and single-purpose
// recovery tokens for emailed links.
package token

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/rramosdev/shop-backoffice/internal/model"
)

// Kind distinguishes access from refresh tokens. Each kind is signed with
// its own secret, so a token of one kind never verifies as the other.
type Kind string

const (
	KindAccess  Kind = "access"
	KindRefresh Kind = "refresh"
)

// ErrInvalidToken is returned for every verification failure. Signature
// mismatch, expiry and malformed payloads are deliberately indistinguishable
// to callers.
var ErrInvalidToken = errors.New("invalid token")

// Claims carried by access and refresh tokens. Subject holds the user id.
type Claims struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// Issuer signs and verifies HS256 access/refresh token pairs.
type Issuer struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

func NewIssuer(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *Issuer {
	return &Issuer{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}
}

// IssueAccess signs a short-lived access token for u.
func (i *Issuer) IssueAccess(u *model.User) (string, error) {
	return i.sign(u, i.accessSecret, i.accessTTL)
}

// IssueRefresh signs a refresh token for u. Callers must persist Hash() of
// the result, never the raw string.
func (i *Issuer) IssueRefresh(u *model.User) (string, error) {
	return i.sign(u, i.refreshSecret, i.refreshTTL)
}

func (i *Issuer) sign(u *model.User, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	claims := &Claims{
		Email: u.Email,
		Name:  u.Name,
		Role:  string(u.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// Verify parses raw as a token of the given kind and returns its claims.
// All failures collapse into ErrInvalidToken.
func (i *Issuer) Verify(raw string, kind Kind) (*Claims, error) {
	secret := i.accessSecret
	if kind == KindRefresh {
		secret = i.refreshSecret
	}
	claims := &Claims{}
	tok, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return secret, nil
	})
	if err != nil || !tok.Valid || claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// Hash returns the SHA-256 hex digest of a raw token. Only this digest is
// stored on the user row, so a leaked database cannot replay sessions.
func Hash(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

// HashMatches compares a presented raw token against a stored digest in
// constant time.
func HashMatches(raw, storedHash string) bool {
	h := Hash(raw)
	return subtle.ConstantTimeCompare([]byte(h), []byte(storedHash)) == 1
}
