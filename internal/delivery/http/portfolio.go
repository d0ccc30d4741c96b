package http

import (
	"net/http"

	"stock-watchlist/internal/dto"

	"github.com/labstack/echo/v4"
)

func (h *HttpAPIHandler) SetupPortfolio(base *echo.Group) {
	v1 := base.Group("/v1/portfolio")
	{
		v1.GET("", h.GetPortfolio)
		v1.PUT("/:symbol", h.SetHolding)
		v1.DELETE("/:symbol", h.DeleteHolding)
	}
}

func (h *HttpAPIHandler) GetPortfolio(c echo.Context) error {
	summary, err := h.service.PortfolioService.GetPortfolio(c.Request().Context())
	if err != nil {
		response := errorResponse(err)
		return c.JSON(response.Code, response)
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("Portfolio retrieved", summary))
}

func (h *HttpAPIHandler) SetHolding(c echo.Context) error {
	var req dto.HoldingRequest
	if response := h.bindAndValidate(c, &req); response != nil {
		return c.JSON(response.Code, response)
	}

	holding, err := h.service.PortfolioService.SetHolding(c.Request().Context(), c.Param("symbol"), req)
	if err != nil {
		response := errorResponse(err)
		return c.JSON(response.Code, response)
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("Holding saved", holding))
}

func (h *HttpAPIHandler) DeleteHolding(c echo.Context) error {
	if err := h.service.PortfolioService.DeleteHolding(c.Request().Context(), c.Param("symbol")); err != nil {
		response := errorResponse(err)
		return c.JSON(response.Code, response)
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("Holding deleted", nil))
}
