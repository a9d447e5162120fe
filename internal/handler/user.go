package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/rramosdev/shop-backoffice/internal/model"
	"github.com/rramosdev/shop-backoffice/internal/repository"
	"github.com/rramosdev/shop-backoffice/internal/service"
)

// UserHandler exposes registration and account management endpoints.
type UserHandler struct {
	Svc *service.UserService
}

func NewUserHandler(svc *service.UserService) *UserHandler {
	return &UserHandler{Svc: svc}
}

type registerReq struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type updateUserReq struct {
	Name            *string `json:"name"`
	Email           *string `json:"email" validate:"omitempty,email"`
	Password        *string `json:"password" validate:"omitempty,min=6"`
	CurrentPassword string  `json:"current_password"`
	Role            *string `json:"role"`
	Active          *bool   `json:"active"`
}

// Register creates an inactive account; the activation link arrives by
// email.
func (h *UserHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	u, err := h.Svc.Register(ctx, req.Name, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "email already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create user"})
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"message": "User created succesfully",
		"user":    u,
	})
}

// List returns users. Admin only (enforced by route middleware); supports
// pagination, an optional name query and field selection.
func (h *UserHandler) List(c echo.Context) error {
	p, err := pagination(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	users, err := h.Svc.List(ctx, p, c.QueryParam("q"))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": filterFields(users, fieldsParam(c))})
}

// Get returns a single account. Customers may only read themselves.
func (h *UserHandler) Get(c echo.Context) error {
	uid, err := userID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id := c.Param("id")
	if userRole(c) != string(model.RoleAdmin) && id != uid {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	u, err := h.Svc.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "User not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, filterFields(u, fieldsParam(c)))
}

// Update patches an account. Customers may only edit themselves and must
// present their current password to change it; role and active flags are
// admin-only.
func (h *UserHandler) Update(c echo.Context) error {
	uid, err := userID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id := c.Param("id")
	role := model.Role(userRole(c))
	if role != model.RoleAdmin && id != uid {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}

	var req updateUserReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	in := service.UpdateInput{
		Name:            req.Name,
		Email:           req.Email,
		Password:        req.Password,
		CurrentPassword: req.CurrentPassword,
		Active:          req.Active,
	}
	if req.Role != nil {
		r := model.Role(*req.Role)
		in.Role = &r
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	u, err := h.Svc.Update(ctx, id, in, role)
	switch {
	case err == nil:
	case errors.Is(err, repository.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "User not found"})
	case errors.Is(err, service.ErrForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	case errors.Is(err, service.ErrWrongPassword):
		return c.JSON(http.StatusNotAcceptable, echo.Map{"error": "Wrong credentials"})
	case errors.Is(err, repository.ErrEmailExists):
		return c.JSON(http.StatusConflict, echo.Map{"error": "email already exists"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message": "User updated succesfully",
		"user":    u,
	})
}

// Delete removes an account. Customers may only delete themselves.
func (h *UserHandler) Delete(c echo.Context) error {
	uid, err := userID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id := c.Param("id")
	if userRole(c) != string(model.RoleAdmin) && id != uid {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	if err := h.Svc.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "User not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "User deleted"})
}
