package server_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"eshop/internal/config"
	"eshop/internal/domain/model"
	"eshop/internal/handler"
	"eshop/internal/metrics"
	"eshop/internal/middleware"
	"eshop/internal/server"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type okPinger struct{}

func (okPinger) PingContext(ctx context.Context) error { return nil }

type fakeCustomers struct{ active bool }

func (f fakeCustomers) Authenticate(ctx context.Context, id int64) (model.Customer, error) {
	if !f.active {
		return model.Customer{}, echo.ErrUnauthorized
	}
	return model.Customer{ID: id, IsActive: true}, nil
}

func newTestServer(t *testing.T) *echo.Echo {
	t.Helper()
	return server.New(server.Deps{
		Cfg:       config.Config{JWTSecret: "s3cret", FEURL: "http://localhost:3000"},
		Customers: fakeCustomers{active: true},
		Limiter:   middleware.NewRateLimiter(100, 100),
		Metrics:   metrics.NewServerMetrics("test"),
		Handlers: server.Handlers{
			Cart:          handler.NewCartHandler(nil, nil),
			Order:         handler.NewOrderHandler(nil),
			Address:       handler.NewAddressHandler(nil),
			Product:       handler.NewProductHandler(nil),
			Blog:          handler.NewBlogHandler(nil),
			Newsletter:    handler.NewNewsletterHandler(nil),
			AdminOrder:    handler.NewAdminOrderHandler(nil),
			AdminProduct:  handler.NewAdminProductHandler(nil),
			AdminCustomer: handler.NewAdminCustomerHandler(nil, nil),
			Health:        handler.NewHealthHandler(okPinger{}),
		},
	})
}

func serve(e *echo.Echo, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestServer_HealthzAndRequestID(t *testing.T) {
	e := newTestServer(t)

	rec := serve(e, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(middleware.HeaderRequestID))
}

func TestServer_Metrics(t *testing.T) {
	e := newTestServer(t)

	serve(e, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	rec := serve(e, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `eshop_test_http_requests_total{method="GET",route="/healthz",status="200"} 1`)
}

func TestServer_CartRequiresToken(t *testing.T) {
	e := newTestServer(t)

	rec := serve(e, httptest.NewRequest(http.MethodGet, "/api/cart", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestServer_AdminRequiresRole(t *testing.T) {
	e := newTestServer(t)

	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": 1, "role": "customer", "exp": 9999999999,
	}).SignedString([]byte("s3cret"))
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPut, "/api/admin/orders/1/status", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec := serve(e, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestServer_CORSPreflight(t *testing.T) {
	e := newTestServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/cart", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := serve(e, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestServer_NotFound(t *testing.T) {
	e := newTestServer(t)

	rec := serve(e, httptest.NewRequest(http.MethodGet, "/api/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
