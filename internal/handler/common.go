// Package handler contains the HTTP handlers. They bind and validate
// request bodies, call into the service/repository layers with a bounded
// context, and translate sentinel errors into status codes.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/rramosdev/shop-backoffice/internal/repository"
)

const dbTimeout = 5 * time.Second

// reqContext derives a bounded context for repository calls from the
// incoming request, so a canceled client stops the query too.
func reqContext(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), dbTimeout)
}

// userID extracts the authenticated user's id stored by the JWT middleware.
func userID(c echo.Context) (string, error) {
	if s, ok := c.Get("user_id").(string); ok && s != "" {
		return s, nil
	}
	return "", errors.New("no user in context")
}

// userRole extracts the authenticated user's role.
func userRole(c echo.Context) string {
	if s, ok := c.Get("role").(string); ok {
		return s
	}
	return ""
}

// pagination parses the required page/limit query parameters. Both are
// mandatory on list endpoints.
func pagination(c echo.Context) (repository.Pagination, error) {
	pageStr, limitStr := c.QueryParam("page"), c.QueryParam("limit")
	if pageStr == "" || limitStr == "" {
		return repository.Pagination{}, errors.New("'page' or 'limit' param missing")
	}
	page, err := strconv.Atoi(pageStr)
	if err != nil || page < 1 {
		return repository.Pagination{}, errors.New("invalid 'page' param")
	}
	limit, err := strconv.Atoi(limitStr)
	if err != nil || limit < 1 || limit > 100 {
		return repository.Pagination{}, errors.New("invalid 'limit' param")
	}
	return repository.Pagination{Skip: (page - 1) * limit, Take: limit}, nil
}

// ownShop resolves the shop_id path parameter and verifies it belongs to
// the authenticated caller. A shop owned by someone else is reported as
// missing, never as forbidden.
func ownShop(ctx context.Context, shops *repository.ShopRepo, c echo.Context) (string, error) {
	uid, err := userID(c)
	if err != nil {
		return "", err
	}
	shopID := c.Param("shop_id")
	if _, err := shops.GetByIDAndOwner(ctx, shopID, uid); err != nil {
		return "", err
	}
	return shopID, nil
}

// fieldsParam parses the optional comma-separated fields selector.
func fieldsParam(c echo.Context) []string {
	raw := strings.TrimSpace(c.QueryParam("fields"))
	if raw == "" {
		return nil
	}
	var fields []string
	for _, f := range strings.Split(raw, ",") {
		if f = strings.TrimSpace(f); f != "" {
			fields = append(fields, f)
		}
	}
	return fields
}

// filterFields projects v onto the requested JSON fields. The id field is
// always kept so clients can address the rows they got back. With no fields
// requested v passes through untouched. Unknown names simply select
// nothing; hidden fields (password, refresh token) are never serialized in
// the first place.
func filterFields(v any, fields []string) any {
	if len(fields) == 0 {
		return v
	}
	keep := map[string]bool{"id": true}
	for _, f := range fields {
		keep[f] = true
	}

	raw, err := json.Marshal(v)
	if err != nil {
		return v
	}
	var decoded any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return v
	}
	switch t := decoded.(type) {
	case map[string]any:
		return pick(t, keep)
	case []any:
		out := make([]any, 0, len(t))
		for _, item := range t {
			if m, ok := item.(map[string]any); ok {
				out = append(out, pick(m, keep))
			} else {
				out = append(out, item)
			}
		}
		return out
	}
	return decoded
}

func pick(m map[string]any, keep map[string]bool) map[string]any {
	out := make(map[string]any, len(keep))
	for k, v := range m {
		if keep[k] {
			out[k] = v
		}
	}
	return out
}
