package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/rramosdev/shop-backoffice/internal/model"
	"github.com/rramosdev/shop-backoffice/internal/repository"
)

// InvoiceHandler exposes CRUD for invoices nested under a shop.
type InvoiceHandler struct {
	Invoices *repository.InvoiceRepo
	Shops    *repository.ShopRepo
}

func NewInvoiceHandler(invoices *repository.InvoiceRepo, shops *repository.ShopRepo) *InvoiceHandler {
	return &InvoiceHandler{Invoices: invoices, Shops: shops}
}

type invoiceReq struct {
	Total float64 `json:"total" validate:"required,gte=0"`
}

func (h *InvoiceHandler) Create(c echo.Context) error {
	var req invoiceReq
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

	inv := &model.Invoice{ShopID: shopID, Total: req.Total}
	if err := h.Invoices.Create(ctx, inv); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create invoice"})
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"message": "Invoice created succesfully",
		"invoice": inv,
	})
}

func (h *InvoiceHandler) List(c echo.Context) error {
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

	invoices, err := h.Invoices.ListByShop(ctx, shopID, p)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": filterFields(invoices, fieldsParam(c))})
}

func (h *InvoiceHandler) Get(c echo.Context) error {
	ctx, cancel := reqContext(c)
	defer cancel()

	shopID, err := ownShop(ctx, h.Shops, c)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Shop not found"})
		}
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	inv, err := h.Invoices.GetByID(ctx, c.Param("id"), shopID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Invoice not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, filterFields(inv, fieldsParam(c)))
}

func (h *InvoiceHandler) Update(c echo.Context) error {
	var req invoiceReq
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

	inv := &model.Invoice{ID: c.Param("id"), ShopID: shopID, Total: req.Total}
	if err := h.Invoices.Update(ctx, inv); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Invoice not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Invoice updated succesfully"})
}

func (h *InvoiceHandler) Delete(c echo.Context) error {
	ctx, cancel := reqContext(c)
	defer cancel()

	shopID, err := ownShop(ctx, h.Shops, c)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Shop not found"})
		}
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	if err := h.Invoices.Delete(ctx, c.Param("id"), shopID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Invoice not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Invoice deleted succesfully"})
}
