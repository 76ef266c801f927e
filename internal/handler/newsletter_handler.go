package handler

import (
	"net/http"

	"eshop/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /api/newsletter（認証なし）
type NewsletterHandler struct {
	uc *usecase.CustomerUsecase
}

func NewNewsletterHandler(uc *usecase.CustomerUsecase) *NewsletterHandler {
	return &NewsletterHandler{uc: uc}
}

type NewsletterRequest struct {
	Email string `json:"email"`
}

func (h *NewsletterHandler) RegisterRoutes(api *echo.Group, mw ...echo.MiddlewareFunc) {
	g := api.Group("/newsletter", mw...)

	g.POST("/subscribe", h.subscribe)
	g.POST("/unsubscribe", h.unsubscribe)
}

func (h *NewsletterHandler) subscribe(c echo.Context) error {
	var req NewsletterRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	if err := h.uc.SubscribeNewsletter(c.Request().Context(), req.Email); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, SuccessResponse{Message: "subscribed"})
}

func (h *NewsletterHandler) unsubscribe(c echo.Context) error {
	var req NewsletterRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	if err := h.uc.UnsubscribeNewsletter(c.Request().Context(), req.Email); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, SuccessResponse{Message: "unsubscribed"})
}
