package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rramosdev/shop-backoffice/internal/model"
	"github.com/rramosdev/shop-backoffice/internal/token"
)

func newIssuer() *token.Issuer {
	return token.NewIssuer("access-secret", "refresh-secret", time.Hour, 24*time.Hour)
}

func runJWT(t *testing.T, authHeader string) (*httptest.ResponseRecorder, echo.Context) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/me", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := JWTAuth(newIssuer())(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	require.NoError(t, h(c))
	return rec, c
}

func TestJWTAuthInjectsClaims(t *testing.T) {
	u := &model.User{ID: "u-1", Name: "Ada", Email: "ada@example.com", Role: model.RoleAdmin}
	raw, err := newIssuer().IssueAccess(u)
	require.NoError(t, err)

	rec, c := runJWT(t, "Bearer "+raw)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "u-1", c.Get("user_id"))
	assert.Equal(t, "ADMIN", c.Get("role"))
	assert.Equal(t, "ada@example.com", c.Get("email"))
}

func TestJWTAuthRejectsMissingHeader(t *testing.T) {
	rec, _ := runJWT(t, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuthRejectsRefreshToken(t *testing.T) {
	u := &model.User{ID: "u-1", Role: model.RoleCustomer}
	raw, err := newIssuer().IssueRefresh(u)
	require.NoError(t, err)

	rec, _ := runJWT(t, "Bearer "+raw)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireRole(t *testing.T) {
	e := echo.New()
	h := RequireRole(model.RoleAdmin)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	cases := []struct {
		role string
		want int
	}{
		{"ADMIN", http.StatusOK},
		{"CUSTOMER", http.StatusForbidden},
		{"", http.StatusForbidden},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/v1/users", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		if tc.role != "" {
			c.Set("role", tc.role)
		}
		require.NoError(t, h(c))
		assert.Equal(t, tc.want, rec.Code, "role %q", tc.role)
	}
}
