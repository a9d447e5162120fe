package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/rramosdev/shop-backoffice/internal/model"
	"github.com/rramosdev/shop-backoffice/internal/repository"
)

// InventoryHandler exposes CRUD for inventories nested under a shop.
type InventoryHandler struct {
	Inventories *repository.InventoryRepo
	Shops       *repository.ShopRepo
}

func NewInventoryHandler(inventories *repository.InventoryRepo, shops *repository.ShopRepo) *InventoryHandler {
	return &InventoryHandler{Inventories: inventories, Shops: shops}
}

type inventoryReq struct {
	Cost     float64 `json:"cost" validate:"required,gte=0"`
	Subtotal float64 `json:"subtotal" validate:"required,gte=0"`
	Total    float64 `json:"total" validate:"required,gte=0"`
}

func (h *InventoryHandler) Create(c echo.Context) error {
	var req inventoryReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	shopID, err := ownShop(ctx, h.Shops, c)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Shop not found"})
		}
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	inv := &model.Inventory{
		ShopID:   shopID,
		Cost:     req.Cost,
		Subtotal: req.Subtotal,
		Total:    req.Total,
	}
	if err := h.Inventories.Create(ctx, inv); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create inventory"})
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"message":   "Inventory created succesfully",
		"inventory": inv,
	})
}

func (h *InventoryHandler) List(c echo.Context) error {
	p, err := pagination(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	shopID, err := ownShop(ctx, h.Shops, c)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Shop not found"})
		}
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	inventories, err := h.Inventories.ListByShop(ctx, shopID, p)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": filterFields(inventories, fieldsParam(c))})
}

func (h *InventoryHandler) Get(c echo.Context) error {
	ctx, cancel := reqContext(c)
	defer cancel()

	shopID, err := ownShop(ctx, h.Shops, c)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Shop not found"})
		}
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	inv, err := h.Inventories.GetByID(ctx, c.Param("id"), shopID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Inventory not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, filterFields(inv, fieldsParam(c)))
}

func (h *InventoryHandler) Update(c echo.Context) error {
	var req inventoryReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	shopID, err := ownShop(ctx, h.Shops, c)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Shop not found"})
		}
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	inv := &model.Inventory{
		ID:       c.Param("id"),
		ShopID:   shopID,
		Cost:     req.Cost,
		Subtotal: req.Subtotal,
		Total:    req.Total,
	}
	if err := h.Inventories.Update(ctx, inv); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Inventory not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Inventory updated succesfully"})
}

func (h *InventoryHandler) Delete(c echo.Context) error {
	ctx, cancel := reqContext(c)
	defer cancel()

	shopID, err := ownShop(ctx, h.Shops, c)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Shop not found"})
		}
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	if err := h.Inventories.Delete(ctx, c.Param("id"), shopID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Inventory not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Inventory deleted succesfully"})
}
