package handler_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"eshop/internal/domain/model"
	"eshop/internal/handler"
	infra "eshop/internal/infra/repository"
	"eshop/internal/metrics"
	"eshop/internal/middleware"
	"eshop/internal/usecase"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type testApp struct {
	e       *echo.Echo
	mock    sqlmock.Sqlmock
	metrics *metrics.ServerMetrics
}

type errorBody struct {
	Error   string `json:"error"`
	Details string `json:"details"`
}

// 認証済みとして扱う（X-Test-Customer / X-Test-Roleヘッダ）
func fakeAuth() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if v := c.Request().Header.Get("X-Test-Customer"); v != "" {
				var id int64
				_ = json.Unmarshal([]byte(v), &id)
				c.Set(middleware.CtxCustomerIDKey, id)
				c.Set(middleware.CtxRoleKey, model.Role(c.Request().Header.Get("X-Test-Role")))
			}
			return next(c)
		}
	}
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 gormlogger.Discard,
	})
	require.NoError(t, err)

	tx := infra.NewTxManagerGorm(db)
	productRepo := infra.NewProductGormRepository(db)
	auditRepo := infra.NewAuditLogGormRepository(db)
	customerRepo := infra.NewCustomerGormRepository(db)
	orderRepo := infra.NewOrderGormRepository(db)
	addressRepo := infra.NewAddressGormRepository(db)
	blogRepo := infra.NewBlogGormRepository(db)

	m := metrics.NewServerMetrics("test")
	cartUC := usecase.NewCartUsecase(tx, nil)
	orderUC := usecase.NewOrderUsecase(tx)
	adminOrderUC := usecase.NewAdminOrderUsecase(tx, nil, false)
	productUC := usecase.NewProductUsecase(productRepo, auditRepo, tx)
	customerUC := usecase.NewCustomerUsecase(customerRepo, orderRepo)
	dashboardUC := usecase.NewDashboardUsecase(orderRepo, customerRepo, productRepo)
	addressUC := usecase.NewAddressUsecase(addressRepo)
	blogUC := usecase.NewBlogUsecase(blogRepo)

	e := echo.New()
	api := e.Group("/api")
	auth := fakeAuth()
	admin := []echo.MiddlewareFunc{auth, middleware.AdminRoleGuard()}

	handler.NewCartHandler(cartUC, m).RegisterRoutes(api, auth)
	handler.NewOrderHandler(orderUC).RegisterRoutes(api, auth)
	handler.NewAddressHandler(addressUC).RegisterRoutes(api, auth)
	handler.NewBlogHandler(blogUC).RegisterRoutes(api)
	handler.NewProductHandler(productUC).RegisterRoutes(api)
	handler.NewNewsletterHandler(customerUC).RegisterRoutes(api)
	handler.NewAdminOrderHandler(adminOrderUC).RegisterRoutes(api, admin...)
	handler.NewAdminProductHandler(productUC).RegisterRoutes(api, admin...)
	handler.NewAdminCustomerHandler(customerUC, dashboardUC).RegisterRoutes(api, admin...)

	return &testApp{e: e, mock: mock, metrics: m}
}

type reqOpt func(*http.Request)

func asCustomer(id string) reqOpt {
	return func(r *http.Request) {
		r.Header.Set("X-Test-Customer", id)
		r.Header.Set("X-Test-Role", "customer")
	}
}

func asAdmin(id string) reqOpt {
	return func(r *http.Request) {
		r.Header.Set("X-Test-Customer", id)
		r.Header.Set("X-Test-Role", "admin")
	}
}

func (a *testApp) do(t *testing.T, method, path, body string, opts ...reqOpt) *httptest.ResponseRecorder {
	t.Helper()

	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd).WithContext(context.Background())
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	for _, o := range opts {
		o(req)
	}
	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}
