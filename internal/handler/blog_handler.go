package handler

import (
	"net/http"

	"eshop/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /api/blog の公開API（参照のみ）
type BlogHandler struct {
	uc *usecase.BlogUsecase
}

func NewBlogHandler(uc *usecase.BlogUsecase) *BlogHandler {
	return &BlogHandler{uc: uc}
}

func (h *BlogHandler) RegisterRoutes(api *echo.Group, mw ...echo.MiddlewareFunc) {
	g := api.Group("/blog", mw...)
	g.GET("/posts", h.list)
	g.GET("/posts/:slug", h.detail)
}

func (h *BlogHandler) list(c echo.Context) error {
	page, ok := queryInt(c, "page", 1)
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid page"})
	}
	limit, ok := queryInt(c, "limit", 10)
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid limit"})
	}

	out, err := h.uc.ListPosts(c.Request().Context(), usecase.ListBlogPostsInput{
		Page:     page,
		Limit:    limit,
		Category: c.QueryParam("category"),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *BlogHandler) detail(c echo.Context) error {
	out, err := h.uc.GetPost(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, DataResponse[usecase.BlogPostOutput]{Data: out})
}
