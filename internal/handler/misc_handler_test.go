package handler_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"eshop/internal/handler"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProduct_BadParams(t *testing.T) {
	a := newTestApp(t)

	rec := a.do(t, http.MethodGet, "/api/products/abc", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = a.do(t, http.MethodGet, "/api/products?min_price=cheap", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid min_price", decode[errorBody](t, rec).Error)
}

func TestProduct_Detail_NotFound(t *testing.T) {
	a := newTestApp(t)

	a.mock.ExpectQuery(`SELECT \* FROM "products" WHERE (.+)`).
		WillReturnRows(sqlmock.NewRows(productCols))

	rec := a.do(t, http.MethodGet, "/api/products/5", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestNewsletter_InvalidEmail(t *testing.T) {
	a := newTestApp(t)

	rec := a.do(t, http.MethodPost, "/api/newsletter/subscribe", `{"email":"nope"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid email", decode[errorBody](t, rec).Error)
}

func TestNewsletter_UnsubscribeUnknown(t *testing.T) {
	a := newTestApp(t)

	a.mock.ExpectExec(`UPDATE "customers" SET`).WillReturnResult(sqlmock.NewResult(0, 0))

	rec := a.do(t, http.MethodPost, "/api/newsletter/unsubscribe", `{"email":"a@example.com"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.NoError(t, a.mock.ExpectationsWereMet())
}

func TestDashboard_TotalCustomers(t *testing.T) {
	a := newTestApp(t)

	a.mock.ExpectQuery(`SELECT count\(\*\) FROM "customers"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(12))

	rec := a.do(t, http.MethodGet, "/api/admin/total-customers", "", asAdmin("99"))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"totalCustomers":12}`, rec.Body.String())
}

func TestAdminCustomers_BadOrder(t *testing.T) {
	a := newTestApp(t)

	rec := a.do(t, http.MethodGet, "/api/admin/customers?order=sideways", "", asAdmin("99"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAdminProduct_Create_BadPrice(t *testing.T) {
	a := newTestApp(t)

	rec := a.do(t, http.MethodPost, "/api/admin/products", `{"name":"Mug","price":"abc"}`, asAdmin("99"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = a.do(t, http.MethodPost, "/api/admin/products", `{"name":"","price":"1.00"}`, asAdmin("99"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "name required", decode[errorBody](t, rec).Error)
}

func TestAdminAuditLogs_BadLimit(t *testing.T) {
	a := newTestApp(t)

	rec := a.do(t, http.MethodGet, "/api/admin/audit-logs?limit=1000", "", asAdmin("99"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAdminAuditLogs_UnknownKind(t *testing.T) {
	a := newTestApp(t)

	rec := a.do(t, http.MethodGet, "/api/admin/audit-logs?action=DROP_TABLE", "", asAdmin("99"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid action", decode[errorBody](t, rec).Error)

	rec = a.do(t, http.MethodGet, "/api/admin/audit-logs?resource_type=customer", "", asAdmin("99"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid resource_type", decode[errorBody](t, rec).Error)
}

type fakePinger struct{ err error }

func (p fakePinger) PingContext(ctx context.Context) error { return p.err }

func TestHealthz(t *testing.T) {
	for _, tc := range []struct {
		name string
		err  error
		code int
	}{
		{"ok", nil, http.StatusOK},
		{"db down", errors.New("dial tcp: refused"), http.StatusServiceUnavailable},
	} {
		t.Run(tc.name, func(t *testing.T) {
			e := echo.New()
			e.GET("/healthz", handler.NewHealthHandler(fakePinger{err: tc.err}).Healthz)

			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
			assert.Equal(t, tc.code, rec.Code)
		})
	}
}
