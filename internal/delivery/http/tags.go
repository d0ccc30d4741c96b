package http

import (
	"net/http"

	"stock-watchlist/internal/dto"

	"github.com/labstack/echo/v4"
)

func (h *HttpAPIHandler) SetupTags(base *echo.Group) {
	v1 := base.Group("/v1/tags")
	{
		v1.GET("", h.GetTags)
		v1.POST("", h.CreateTag)
		v1.DELETE("/:id", h.DeleteTag)
	}
}

func (h *HttpAPIHandler) GetTags(c echo.Context) error {
	tags, err := h.service.StockService.GetTags(c.Request().Context())
	if err != nil {
		response := errorResponse(err)
		return c.JSON(response.Code, response)
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("Tags retrieved", tags))
}

func (h *HttpAPIHandler) CreateTag(c echo.Context) error {
	var req dto.TagRequest
	if response := h.bindAndValidate(c, &req); response != nil {
		return c.JSON(response.Code, response)
	}

	tag, err := h.service.StockService.CreateTag(c.Request().Context(), req)
	if err != nil {
		response := errorResponse(err)
		return c.JSON(response.Code, response)
	}
	return c.JSON(http.StatusCreated, dto.NewBaseResponse(http.StatusCreated, "Tag created", tag))
}

func (h *HttpAPIHandler) DeleteTag(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		response := dto.NewBadRequestResponse("invalid tag id")
		return c.JSON(response.Code, response)
	}

	if err := h.service.StockService.DeleteTag(c.Request().Context(), id); err != nil {
		response := errorResponse(err)
		return c.JSON(response.Code, response)
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("Tag deleted", nil))
}
