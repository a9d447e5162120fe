package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/rramosdev/shop-backoffice/internal/model"
	"github.com/rramosdev/shop-backoffice/internal/repository"
)

// ShopHandler exposes CRUD for shops. Every operation is scoped to the
// authenticated owner; a shop id belonging to someone else behaves exactly
// like a missing one.
type ShopHandler struct {
	Shops *repository.ShopRepo
}

func NewShopHandler(shops *repository.ShopRepo) *ShopHandler {
	return &ShopHandler{Shops: shops}
}

type shopReq struct {
	Name string `json:"name" validate:"required"`
}

func (h *ShopHandler) Create(c echo.Context) error {
	uid, err := userID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req shopReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	shop := &model.Shop{UserID: uid, Name: strings.TrimSpace(req.Name)}
	if err := h.Shops.Create(ctx, shop); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "shop name already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create shop"})
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"message": "Shop created succesfully",
		"shop":    shop,
	})
}

func (h *ShopHandler) List(c echo.Context) error {
	uid, err := userID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	p, err := pagination(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	shops, err := h.Shops.ListByOwner(ctx, uid, p)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": filterFields(shops, fieldsParam(c))})
}

func (h *ShopHandler) Get(c echo.Context) error {
	uid, err := userID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	shop, err := h.Shops.GetByIDAndOwner(ctx, c.Param("id"), uid)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Shop not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, filterFields(shop, fieldsParam(c)))
}

func (h *ShopHandler) Update(c echo.Context) error {
	uid, err := userID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req shopReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	id := c.Param("id")
	switch err := h.Shops.UpdateName(ctx, id, uid, strings.TrimSpace(req.Name)); {
	case err == nil:
	case errors.Is(err, repository.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Shop not found"})
	case errors.Is(err, repository.ErrConflict):
		return c.JSON(http.StatusConflict, echo.Map{"error": "shop name already exists"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}

	shop, err := h.Shops.GetByIDAndOwner(ctx, id, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Shop updated succesfully",
		"shop":    shop,
	})
}

func (h *ShopHandler) Delete(c echo.Context) error {
	uid, err := userID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	if err := h.Shops.Delete(ctx, c.Param("id"), uid); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Shop not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Shop deleted succesfully"})
}
