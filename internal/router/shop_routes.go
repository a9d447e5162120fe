package router

import (
	"github.com/labstack/echo/v4"

	"github.com/rramosdev/shop-backoffice/internal/handler"
	"github.com/rramosdev/shop-backoffice/internal/middleware"
	"github.com/rramosdev/shop-backoffice/internal/model"
	"github.com/rramosdev/shop-backoffice/internal/token"
)

// RegisterShops registers the shop endpoints plus the resources nested under
// a shop. Ownership of the shop in the path is verified by the handlers, so
// a foreign shop id always reads as 404. The optional cache middleware is
// applied to the GET list routes only.
func RegisterShops(
	e *echo.Echo,
	s *handler.ShopHandler,
	p *handler.ProductHandler,
	inv *handler.InventoryHandler,
	b *handler.InvoiceHandler,
	issuer *token.Issuer,
	cache echo.MiddlewareFunc,
) {
	g := e.Group("/v1",
		middleware.JWTAuth(issuer),
		middleware.RequireRole(model.RoleCustomer, model.RoleAdmin),
	)

	lists := g.Group("")
	if cache != nil {
		lists.Use(cache)
	}

	// ---- Shops ----
	g.POST("/shops", s.Create)
	lists.GET("/shops", s.List)
	g.GET("/shops/:id", s.Get)
	g.PATCH("/shops/:id", s.Update)
	g.DELETE("/shops/:id", s.Delete)

	// ---- Products ----
	g.POST("/shops/:shop_id/products", p.Create)
	lists.GET("/shops/:shop_id/products", p.List)
	g.GET("/shops/:shop_id/products/:id", p.Get)
	g.PATCH("/shops/:shop_id/products/:id", p.Update)
	g.DELETE("/shops/:shop_id/products/:id", p.Delete)

	// ---- Inventories ----
	g.POST("/shops/:shop_id/inventories", inv.Create)
	lists.GET("/shops/:shop_id/inventories", inv.List)
	g.GET("/shops/:shop_id/inventories/:id", inv.Get)
	g.PATCH("/shops/:shop_id/inventories/:id", inv.Update)
	g.DELETE("/shops/:shop_id/inventories/:id", inv.Delete)

	// ---- Invoices ----
	g.POST("/shops/:shop_id/invoices", b.Create)
	lists.GET("/shops/:shop_id/invoices", b.List)
	g.GET("/shops/:shop_id/invoices/:id", b.Get)
	g.PATCH("/shops/:shop_id/invoices/:id", b.Update)
	g.DELETE("/shops/:shop_id/invoices/:id", b.Delete)
}
