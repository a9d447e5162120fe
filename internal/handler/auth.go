package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/rramosdev/shop-backoffice/internal/repository"
	"github.com/rramosdev/shop-backoffice/internal/service"
	"github.com/rramosdev/shop-backoffice/internal/token"
)

// IdentityProvider resolves a third-party access token into a profile.
type IdentityProvider interface {
	Fetch(ctx context.Context, accessToken string) (service.Profile, error)
}

// AuthHandler exposes the session lifecycle endpoints.
type AuthHandler struct {
	Svc      *service.AuthService
	Issuer   *token.Issuer
	Provider IdentityProvider
}

func NewAuthHandler(svc *service.AuthService, issuer *token.Issuer, provider IdentityProvider) *AuthHandler {
	return &AuthHandler{Svc: svc, Issuer: issuer, Provider: provider}
}

type loginReq struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type refreshReq struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type forgotReq struct {
	Email string `json:"email" validate:"required,email"`
}

type resetReq struct {
	Password string `json:"password" validate:"required,min=6"`
}

type googleReq struct {
	AccessToken string `json:"access_token" validate:"required"`
}

// Login verifies credentials and returns a fresh token pair. Unknown email
// and wrong password are both answered with 406 and the same message; the
// service keeps them distinct for its own callers but the HTTP boundary
// must not reveal which one happened beyond this endpoint's contract.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	pair, err := h.Svc.Login(ctx, req.Email, req.Password)
	switch {
	case err == nil:
	case errors.Is(err, repository.ErrNotFound), errors.Is(err, service.ErrWrongPassword):
		return c.JSON(http.StatusNotAcceptable, echo.Map{"error": "Wrong credentials"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "login failed"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message":       "Login successfull",
		"access_token":  pair.AccessToken,
		"refresh_token": pair.RefreshToken,
	})
}

// Refresh rotates the session. The user id comes from the presented refresh
// token itself; a token that does not even parse is answered 401 before the
// service is consulted.
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.RefreshToken) == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Session expired"})
	}
	raw := strings.TrimSpace(req.RefreshToken)

	claims, err := h.Issuer.Verify(raw, token.KindRefresh)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Session expired"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	pair, err := h.Svc.RefreshTokens(ctx, claims.Subject, raw)
	switch {
	case err == nil:
	case errors.Is(err, repository.ErrNotFound), errors.Is(err, service.ErrNoSession):
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Session expired"})
	case errors.Is(err, service.ErrTokenMismatch), errors.Is(err, service.ErrInvalidToken):
		return c.JSON(http.StatusNotAcceptable, echo.Map{"error": "Invalid token"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "refresh failed"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"access_token":  pair.AccessToken,
		"refresh_token": pair.RefreshToken,
	})
}

// Logout ends the authenticated user's session.
func (h *AuthHandler) Logout(c echo.Context) error {
	uid, err := userID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	switch err := h.Svc.LogOut(ctx, uid); {
	case err == nil:
		return c.JSON(http.StatusOK, echo.Map{"message": "User logout successfully"})
	case errors.Is(err, repository.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "User not found"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "User could not logout"})
	}
}

// ForgotPassword always answers with the same acknowledgement so responses
// cannot be used to probe which emails exist.
func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	var req forgotReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	h.Svc.ForgotPassword(ctx, req.Email)
	return c.JSON(http.StatusOK, echo.Map{
		"message": "If this user exist, an email will be sent by e-mail",
	})
}

// ActivateAccount consumes the emailed activation token.
func (h *AuthHandler) ActivateAccount(c echo.Context) error {
	raw := strings.TrimSpace(c.QueryParam("token"))
	if raw == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "token is required"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	switch err := h.Svc.ActivateAccount(ctx, raw); {
	case err == nil:
		return c.JSON(http.StatusOK, echo.Map{"message": "Account activated successfully"})
	case errors.Is(err, service.ErrInvalidToken):
		return c.JSON(http.StatusConflict, echo.Map{"error": "Invalid token"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "activation failed"})
	}
}

// ResetPassword consumes the emailed reset token and replaces the password.
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	raw := strings.TrimSpace(c.QueryParam("token"))
	if raw == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "token is required"})
	}
	var req resetReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	switch err := h.Svc.ResetPassword(ctx, req.Password, raw); {
	case err == nil:
		return c.JSON(http.StatusOK, echo.Map{"message": "Password updated successfully"})
	case errors.Is(err, service.ErrInvalidToken):
		return c.JSON(http.StatusConflict, echo.Map{"error": "Invalid token"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "reset failed"})
	}
}

// GoogleLogin exchanges a provider access token for a local session,
// creating the account on first sign-in.
func (h *AuthHandler) GoogleLogin(c echo.Context) error {
	var req googleReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	profile, err := h.Provider.Fetch(ctx, req.AccessToken)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid provider token"})
	}
	pair, err := h.Svc.OAuthLogin(ctx, profile)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "login failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message":       "Login successfull",
		"access_token":  pair.AccessToken,
		"refresh_token": pair.RefreshToken,
	})
}

// Me returns the identity claims of the access token.
func (h *AuthHandler) Me(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"user_id": c.Get("user_id"),
		"email":   c.Get("email"),
		"name":    c.Get("name"),
		"role":    c.Get("role"),
	})
}
