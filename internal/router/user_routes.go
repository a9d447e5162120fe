package router

import (
	"github.com/labstack/echo/v4"

	"github.com/rramosdev/shop-backoffice/internal/handler"
	"github.com/rramosdev/shop-backoffice/internal/middleware"
	"github.com/rramosdev/shop-backoffice/internal/model"
	"github.com/rramosdev/shop-backoffice/internal/token"
)

// RegisterUsers registers the user administration endpoints under /v1.
// Listing the directory is admin only; the remaining routes accept both
// roles and enforce self-or-admin inside the handler.
func RegisterUsers(e *echo.Echo, u *handler.UserHandler, issuer *token.Issuer, cache echo.MiddlewareFunc) {
	g := e.Group("/v1",
		middleware.JWTAuth(issuer),
		middleware.RequireRole(model.RoleCustomer, model.RoleAdmin),
	)

	list := g.Group("/users", middleware.RequireRole(model.RoleAdmin))
	if cache != nil {
		list.Use(cache)
	}
	list.GET("", u.List)

	g.GET("/users/:id", u.Get)
	g.PATCH("/users/:id", u.Update)
	g.DELETE("/users/:id", u.Delete)
}
