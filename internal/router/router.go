// Package router wires handlers and middleware onto the Echo instance.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/rramosdev/shop-backoffice/internal/handler"
	"github.com/rramosdev/shop-backoffice/internal/middleware"
	"github.com/rramosdev/shop-backoffice/internal/model"
	"github.com/rramosdev/shop-backoffice/internal/token"
)

// RegisterRoutes registers routes that require no authentication. Currently
// only the health check used by load balancers and probes.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the session lifecycle endpoints. The public group
// carries the rate limiter so credential guessing and token probing are
// throttled per client; logout and the identity echo require a valid access
// token.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, u *handler.UserHandler, issuer *token.Issuer, limiter echo.MiddlewareFunc) {
	g := e.Group("/v1/auth")
	if limiter != nil {
		g.Use(limiter)
	}
	g.POST("/register", u.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	g.POST("/forgot-password", a.ForgotPassword)
	g.GET("/activate", a.ActivateAccount)
	g.POST("/reset-password", a.ResetPassword)
	g.POST("/google", a.GoogleLogin)

	auth := e.Group("/v1",
		middleware.JWTAuth(issuer),
		middleware.RequireRole(model.RoleCustomer, model.RoleAdmin),
	)
	auth.POST("/auth/logout", a.Logout)
	auth.GET("/me", a.Me)
}
