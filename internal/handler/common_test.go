package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rramosdev/shop-backoffice/internal/model"
)

func queryContext(rawQuery string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/?"+rawQuery, nil)
	return e.NewContext(req, httptest.NewRecorder())
}

func TestPaginationRequiresBothParams(t *testing.T) {
	for _, q := range []string{"", "page=1", "limit=10"} {
		_, err := pagination(queryContext(q))
		require.Error(t, err)
		assert.Equal(t, "'page' or 'limit' param missing", err.Error())
	}
}

func TestPaginationBounds(t *testing.T) {
	_, err := pagination(queryContext("page=0&limit=10"))
	assert.EqualError(t, err, "invalid 'page' param")

	_, err = pagination(queryContext("page=1&limit=0"))
	assert.EqualError(t, err, "invalid 'limit' param")

	_, err = pagination(queryContext("page=1&limit=101"))
	assert.EqualError(t, err, "invalid 'limit' param")
}

func TestPaginationComputesSkip(t *testing.T) {
	p, err := pagination(queryContext("page=3&limit=25"))
	require.NoError(t, err)
	assert.Equal(t, 50, p.Skip)
	assert.Equal(t, 25, p.Take)
}

func TestFieldsParam(t *testing.T) {
	assert.Nil(t, fieldsParam(queryContext("")))
	assert.Equal(t, []string{"name", "email"}, fieldsParam(queryContext("fields=name,%20email")))
}

func TestFilterFieldsKeepsID(t *testing.T) {
	shop := model.Shop{ID: "s-1", UserID: "u-1", Name: "Ada's Shop"}

	out, ok := filterFields(shop, []string{"name"}).(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "s-1", out["id"])
	assert.Equal(t, "Ada's Shop", out["name"])
	assert.NotContains(t, out, "user_id")
}

func TestFilterFieldsSlice(t *testing.T) {
	shops := []model.Shop{
		{ID: "s-1", UserID: "u-1", Name: "One"},
		{ID: "s-2", UserID: "u-1", Name: "Two"},
	}

	out, ok := filterFields(shops, []string{"name"}).([]any)
	require.True(t, ok)
	require.Len(t, out, 2)
	first := out[0].(map[string]any)
	assert.Equal(t, "s-1", first["id"])
	assert.NotContains(t, first, "user_id")
}

func TestFilterFieldsPassthrough(t *testing.T) {
	shop := model.Shop{ID: "s-1"}
	assert.Equal(t, shop, filterFields(shop, nil))
}
