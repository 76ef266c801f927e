package handler

import (
	"net/http"
	"strconv"

	"eshop/internal/domain/model"
	"eshop/internal/metrics"
	"eshop/internal/middleware"
	"eshop/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /api/cartのHTTP
type CartHandler struct {
	uc      *usecase.CartUsecase
	metrics *metrics.ServerMetrics
}

// DI（metricsはnil可）
func NewCartHandler(uc *usecase.CartUsecase, m *metrics.ServerMetrics) *CartHandler {
	return &CartHandler{uc: uc, metrics: m}
}

type CartItemRequest struct {
	ProductID int64 `json:"product_id"`
	Quantity  int64 `json:"quantity"`
}

type RemoveCartItemRequest struct {
	ProductID int64 `json:"productId"`
}

// address_idか配送先の直接指定。空ならデフォルト住所。
type CheckoutRequest struct {
	AddressID *int64 `json:"address_id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
	City      string `json:"city"`
	State     string `json:"state"`
	ZipCode   string `json:"zip_code"`
}

type CartLineResponse struct {
	ProductID int64  `json:"product_id"`
	Name      string `json:"name"`
	Quantity  int64  `json:"quantity"`
	Price     string `json:"price"`
	ImageURL  string `json:"image_url"`
}

type RemoveCartItemResponse struct {
	Success     bool             `json:"success"`
	RemovedItem CartLineResponse `json:"removedItem"`
}

func toCartLineResponse(l model.CartLine) CartLineResponse {
	return CartLineResponse{
		ProductID: l.ProductID,
		Name:      l.Name,
		Quantity:  l.Quantity,
		Price:     l.Price.StringFixed(2),
		ImageURL:  l.ImageURL,
	}
}

// /cart 配下を登録（mwは認証チェーン）
func (h *CartHandler) RegisterRoutes(api *echo.Group, mw ...echo.MiddlewareFunc) {
	g := api.Group("/cart", mw...)

	g.GET("", h.getCart)
	g.POST("/add", h.add)
	g.POST("/update", h.update)
	g.DELETE("/remove", h.remove)
	g.POST("/checkout", h.checkout)
}

func (h *CartHandler) getCart(c echo.Context) error {
	customerID, ok := middleware.CustomerIDFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	lines, err := h.uc.GetCart(c.Request().Context(), customerID)
	if err != nil {
		return writeError(c, err)
	}

	out := make([]CartLineResponse, 0, len(lines))
	for _, l := range lines {
		out = append(out, toCartLineResponse(l))
	}
	return c.JSON(http.StatusOK, DataResponse[[]CartLineResponse]{Data: out})
}

func (h *CartHandler) add(c echo.Context) error {
	customerID, ok := middleware.CustomerIDFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req CartItemRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	line, err := h.uc.AddItem(c.Request().Context(), customerID, usecase.AddCartItemInput{
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
	})
	h.metrics.ObserveCart("add", err)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, DataResponse[CartLineResponse]{Data: toCartLineResponse(line)})
}

func (h *CartHandler) update(c echo.Context) error {
	customerID, ok := middleware.CustomerIDFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req CartItemRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	line, err := h.uc.UpdateItem(c.Request().Context(), customerID, usecase.UpdateCartItemInput{
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
	})
	h.metrics.ObserveCart("update", err)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, DataResponse[CartLineResponse]{Data: toCartLineResponse(line)})
}

// productIdはクエリ優先、なければbody
func (h *CartHandler) remove(c echo.Context) error {
	customerID, ok := middleware.CustomerIDFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var productID int64
	if v := c.QueryParam("productId"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid productId"})
		}
		productID = id
	} else {
		var req RemoveCartItemRequest
		if err := (&echo.DefaultBinder{}).BindBody(c, &req); err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
		}
		productID = req.ProductID
	}

	line, err := h.uc.RemoveItem(c.Request().Context(), customerID, productID)
	h.metrics.ObserveCart("remove", err)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, RemoveCartItemResponse{Success: true, RemovedItem: toCartLineResponse(line)})
}

func (h *CartHandler) checkout(c echo.Context) error {
	customerID, ok := middleware.CustomerIDFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req CheckoutRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.Checkout(c.Request().Context(), customerID, usecase.CheckoutInput{
		AddressID: req.AddressID,
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		Address:   req.Address,
		City:      req.City,
		State:     req.State,
		ZipCode:   req.ZipCode,
	})
	h.metrics.ObserveCart("checkout", err)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, DataResponse[usecase.OrderOutput]{Data: out})
}
