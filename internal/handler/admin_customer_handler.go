package handler

import (
	"net/http"
	"strings"

	"eshop/internal/repository"
	"eshop/internal/usecase"

	"github.com/labstack/echo/v4"
)

// 管理画面：顧客一覧とダッシュボード集計
type AdminCustomerHandler struct {
	customers *usecase.CustomerUsecase
	dashboard *usecase.DashboardUsecase
}

func NewAdminCustomerHandler(customers *usecase.CustomerUsecase, dashboard *usecase.DashboardUsecase) *AdminCustomerHandler {
	return &AdminCustomerHandler{customers: customers, dashboard: dashboard}
}

type totalOrdersResponse struct {
	TotalOrders int64 `json:"total_orders"`
}

type totalCustomersResponse struct {
	TotalCustomers int64 `json:"totalCustomers"`
}

type totalProductsResponse struct {
	TotalProducts int64 `json:"total_products"`
}

type totalSalesResponse struct {
	TotalSales string `json:"totalSales"`
}

func (h *AdminCustomerHandler) RegisterRoutes(api *echo.Group, mw ...echo.MiddlewareFunc) {
	admin := api.Group("/admin", mw...)

	admin.GET("/customers", h.listCustomers)
	admin.GET("/total-orders", h.totalOrders)
	admin.GET("/total-customers", h.totalCustomers)
	admin.GET("/total-products", h.totalProducts)
	admin.GET("/total-sales", h.totalSales)
	admin.GET("/recent-orders", h.recentOrders)
}

func (h *AdminCustomerHandler) listCustomers(c echo.Context) error {
	page, ok := queryInt(c, "page", 1)
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid page"})
	}
	limit, ok := queryInt(c, "limit", 10)
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid limit"})
	}

	// order=asc|desc（default asc）
	var desc bool
	switch strings.ToLower(c.QueryParam("order")) {
	case "", "asc":
	case "desc":
		desc = true
	default:
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid order"})
	}

	out, err := h.customers.AdminListCustomers(c.Request().Context(), repository.CustomerListQuery{
		Page:  page,
		Limit: limit,
		Q:     c.QueryParam("search"),
		Sort:  c.QueryParam("sort"),
		Desc:  desc,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AdminCustomerHandler) totalOrders(c echo.Context) error {
	n, err := h.dashboard.TotalOrders(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, totalOrdersResponse{TotalOrders: n})
}

func (h *AdminCustomerHandler) totalCustomers(c echo.Context) error {
	n, err := h.dashboard.TotalCustomers(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, totalCustomersResponse{TotalCustomers: n})
}

func (h *AdminCustomerHandler) totalProducts(c echo.Context) error {
	n, err := h.dashboard.TotalProducts(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, totalProductsResponse{TotalProducts: n})
}

func (h *AdminCustomerHandler) totalSales(c echo.Context) error {
	s, err := h.dashboard.TotalSales(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, totalSalesResponse{TotalSales: s})
}

func (h *AdminCustomerHandler) recentOrders(c echo.Context) error {
	limit, ok := queryInt(c, "limit", 5)
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid limit"})
	}

	out, err := h.dashboard.RecentOrders(c.Request().Context(), limit)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
