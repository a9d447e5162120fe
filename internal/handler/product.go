package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/rramosdev/shop-backoffice/internal/model"
	"github.com/rramosdev/shop-backoffice/internal/repository"
)

// ProductHandler exposes CRUD for products nested under a shop. The shop in
// the path is always checked against the caller before touching products.
type ProductHandler struct {
	Products *repository.ProductRepo
	Shops    *repository.ShopRepo
}

func NewProductHandler(products *repository.ProductRepo, shops *repository.ShopRepo) *ProductHandler {
	return &ProductHandler{Products: products, Shops: shops}
}

type productReq struct {
	Name        string  `json:"name" validate:"required"`
	Price       float64 `json:"price" validate:"required,gt=0"`
	InventoryID *string `json:"inventory_id"`
}

type createProductsReq struct {
	Products []productReq `json:"products" validate:"required,min=1,dive"`
}

func (h *ProductHandler) Create(c echo.Context) error {
	var req createProductsReq
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

	products := make([]model.Product, len(req.Products))
	for i, p := range req.Products {
		products[i] = model.Product{
			ShopID:      shopID,
			InventoryID: p.InventoryID,
			Name:        p.Name,
			Price:       p.Price,
		}
	}
	if err := h.Products.CreateMany(ctx, products); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create products"})
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"message":  "Products created succesfully",
		"products": products,
	})
}

func (h *ProductHandler) List(c echo.Context) error {
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

	products, err := h.Products.ListByShop(ctx, shopID, p)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": filterFields(products, fieldsParam(c))})
}

func (h *ProductHandler) Get(c echo.Context) error {
	ctx, cancel := reqContext(c)
	defer cancel()

	shopID, err := ownShop(ctx, h.Shops, c)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Shop not found"})
		}
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	product, err := h.Products.GetByID(ctx, c.Param("id"), shopID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Product not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, filterFields(product, fieldsParam(c)))
}

func (h *ProductHandler) Update(c echo.Context) error {
	var req productReq
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

	product := &model.Product{
		ID:          c.Param("id"),
		ShopID:      shopID,
		InventoryID: req.InventoryID,
		Name:        req.Name,
		Price:       req.Price,
	}
	if err := h.Products.Update(ctx, product); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Product not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Product updated succesfully"})
}

func (h *ProductHandler) Delete(c echo.Context) error {
	ctx, cancel := reqContext(c)
	defer cancel()

	shopID, err := ownShop(ctx, h.Shops, c)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Shop not found"})
		}
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	if err := h.Products.Delete(ctx, c.Param("id"), shopID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Product not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Product deleted succesfully"})
}
