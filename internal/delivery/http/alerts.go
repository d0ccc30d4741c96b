package http

import (
	"net/http"
	"strconv"

	"stock-watchlist/internal/dto"

	"github.com/labstack/echo/v4"
)

func (h *HttpAPIHandler) SetupAlerts(base *echo.Group) {
	v1 := base.Group("/v1/alerts")
	{
		v1.GET("/history", h.GetAlertHistory)
		v1.DELETE("/history/:id", h.DeleteAlertHistory)
		v1.POST("/check", h.RunCheck)
	}
}

func (h *HttpAPIHandler) GetAlertHistory(c echo.Context) error {
	limit := 50
	if raw := c.QueryParam("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			response := dto.NewBadRequestResponse("invalid limit")
			return c.JSON(response.Code, response)
		}
		limit = parsed
	}

	history, err := h.service.StockService.GetAlertHistory(c.Request().Context(), c.QueryParam("symbol"), limit)
	if err != nil {
		response := errorResponse(err)
		return c.JSON(response.Code, response)
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("Alert history retrieved", history))
}

func (h *HttpAPIHandler) DeleteAlertHistory(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		response := dto.NewBadRequestResponse("invalid alert history id")
		return c.JSON(response.Code, response)
	}

	if err := h.service.StockService.DeleteAlertHistory(c.Request().Context(), id); err != nil {
		response := errorResponse(err)
		return c.JSON(response.Code, response)
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("Alert history deleted", nil))
}

// RunCheck triggers one evaluation cycle immediately, outside the schedule.
func (h *HttpAPIHandler) RunCheck(c echo.Context) error {
	result, err := h.service.SchedulerService.RunOnce(c.Request().Context())
	if err != nil {
		response := errorResponse(err)
		return c.JSON(response.Code, response)
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("Check completed", result))
}
