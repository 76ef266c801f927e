package server

import (
	"net/http"

	"eshop/internal/middleware"

	"github.com/labstack/echo/v4"
)

// /api 配下を登録する。
// 公開: レート制限のみ / 顧客: JWT + 有効顧客 + レート制限 / 管理: さらにadmin限定
func RegisterRoutes(e *echo.Echo, d Deps) {
	h := d.Handlers

	if h.Health != nil {
		e.GET("/healthz", h.Health.Healthz)
	}
	if d.Metrics != nil {
		e.GET("/metrics", echo.WrapHandler(d.Metrics.Handler()))
	}

	public := []echo.MiddlewareFunc{}
	customer := []echo.MiddlewareFunc{middleware.AuthJWT(d.Cfg), middleware.CustomerGuard(d.Customers)}
	if d.Limiter != nil {
		public = append(public, d.Limiter.Middleware())
		customer = append(customer, d.Limiter.Middleware())
	}
	admin := append(append([]echo.MiddlewareFunc{}, customer...), middleware.AdminRoleGuard())

	api := e.Group("/api")

	h.Product.RegisterRoutes(api, public...)
	h.Blog.RegisterRoutes(api, public...)
	h.Newsletter.RegisterRoutes(api, public...)

	h.Cart.RegisterRoutes(api, customer...)
	h.Order.RegisterRoutes(api, customer...)
	h.Address.RegisterRoutes(api, customer...)

	h.AdminOrder.RegisterRoutes(api, admin...)
	h.AdminProduct.RegisterRoutes(api, admin...)
	h.AdminCustomer.RegisterRoutes(api, admin...)

	e.RouteNotFound("/*", func(c echo.Context) error {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "not found"})
	})
}
