package http

import (
	"net/http"

	"stock-watchlist/internal/dto"

	"github.com/labstack/echo/v4"
)

func (h *HttpAPIHandler) SetupTargets(base *echo.Group) {
	v1 := base.Group("/v1")
	{
		v1.POST("/stocks/:symbol/targets", h.AddTarget)
		v1.PUT("/targets/:id", h.UpdateTarget)
		v1.PATCH("/targets/:id/active", h.SetTargetActive)
		v1.DELETE("/targets/:id", h.DeleteTarget)
	}
}

func (h *HttpAPIHandler) AddTarget(c echo.Context) error {
	var req dto.TargetRequest
	if response := h.bindAndValidate(c, &req); response != nil {
		return c.JSON(response.Code, response)
	}

	target, err := h.service.StockService.AddTarget(c.Request().Context(), c.Param("symbol"), req)
	if err != nil {
		response := errorResponse(err)
		return c.JSON(response.Code, response)
	}
	return c.JSON(http.StatusCreated, dto.NewBaseResponse(http.StatusCreated, "Target created", target))
}

func (h *HttpAPIHandler) UpdateTarget(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		response := dto.NewBadRequestResponse("invalid target id")
		return c.JSON(response.Code, response)
	}

	var req dto.TargetRequest
	if response := h.bindAndValidate(c, &req); response != nil {
		return c.JSON(response.Code, response)
	}

	target, err := h.service.StockService.UpdateTarget(c.Request().Context(), id, req)
	if err != nil {
		response := errorResponse(err)
		return c.JSON(response.Code, response)
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("Target updated", target))
}

type setActiveRequest struct {
	IsActive *bool `json:"is_active" validate:"required"`
}

func (h *HttpAPIHandler) SetTargetActive(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		response := dto.NewBadRequestResponse("invalid target id")
		return c.JSON(response.Code, response)
	}

	var req setActiveRequest
	if response := h.bindAndValidate(c, &req); response != nil {
		return c.JSON(response.Code, response)
	}

	if err := h.service.StockService.SetTargetActive(c.Request().Context(), id, *req.IsActive); err != nil {
		response := errorResponse(err)
		return c.JSON(response.Code, response)
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("Target updated", nil))
}

func (h *HttpAPIHandler) DeleteTarget(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		response := dto.NewBadRequestResponse("invalid target id")
		return c.JSON(response.Code, response)
	}

	if err := h.service.StockService.DeleteTarget(c.Request().Context(), id); err != nil {
		response := errorResponse(err)
		return c.JSON(response.Code, response)
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("Target deleted", nil))
}
