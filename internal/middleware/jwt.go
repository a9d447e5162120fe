// Package middleware provides reusable HTTP middleware: access-token
// authentication, role enforcement, rate limiting and response caching.
package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/rramosdev/shop-backoffice/internal/token"
)

// JWTAuth validates a Bearer access token and injects the identity claims
// into the request context under "user_id", "role", "email" and "name".
// Refresh and recovery tokens do not verify here because access tokens are
// signed with their own secret.
func JWTAuth(issuer *token.Issuer) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}
			raw := strings.TrimPrefix(auth, "Bearer ")

			claims, err := issuer.Verify(raw, token.KindAccess)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}

			c.Set("user_id", claims.Subject)
			c.Set("role", claims.Role)
			c.Set("email", claims.Email)
			c.Set("name", claims.Name)
			return next(c)
		}
	}
}
