package token

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Purpose binds a recovery token to the single operation allowed to consume
// it. A reset link must never activate an account, and vice versa.
type Purpose string

const (
	PurposeResetPassword   Purpose = "reset_password"
	PurposeActivateAccount Purpose = "activate_account"
)

type recoveryClaims struct {
	Purpose Purpose `json:"purpose"`
	jwt.RegisteredClaims
}

// RecoveryCodec mints and decodes the short-lived tokens embedded in
// password-reset and account-activation emails. Tokens are stateless: no
// server-side record exists, so validity rests on signature and expiry
// alone. Replay within the TTL window is an accepted residual risk; the
// consuming operation's side effect removes any value in reusing the link.
type RecoveryCodec struct {
	secret []byte
	ttl    time.Duration
}

func NewRecoveryCodec(secret string, ttl time.Duration) *RecoveryCodec {
	return &RecoveryCodec{secret: []byte(secret), ttl: ttl}
}

// Mint signs a recovery token for the given user and purpose.
func (c *RecoveryCodec) Mint(userID string, purpose Purpose) (string, error) {
	now := time.Now().UTC()
	claims := &recoveryClaims{
		Purpose: purpose,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
}

// Decode validates raw and returns the user id and purpose it was minted
// for. Expired, tampered and malformed tokens all yield ErrInvalidToken.
func (c *RecoveryCodec) Decode(raw string) (string, Purpose, error) {
	claims := &recoveryClaims{}
	tok, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return c.secret, nil
	})
	if err != nil || !tok.Valid || claims.Subject == "" || claims.Purpose == "" {
		return "", "", ErrInvalidToken
	}
	return claims.Subject, claims.Purpose, nil
}
