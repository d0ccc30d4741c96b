package http

import (
	"net/http"

	"stock-watchlist/internal/dto"

	"github.com/labstack/echo/v4"
)

func (h *HttpAPIHandler) SetupStocks(base *echo.Group) {
	v1 := base.Group("/v1/stocks")
	{
		v1.GET("", h.GetStocks)
		v1.POST("", h.CreateStock)
		v1.GET("/:symbol", h.GetStockDetail)
		v1.PUT("/:symbol", h.UpdateStock)
		v1.DELETE("/:symbol", h.DeleteStock)
	}
}

func (h *HttpAPIHandler) GetStocks(c echo.Context) error {
	param := dto.GetStocksParam{
		Tag:           c.QueryParam("tag"),
		Search:        c.QueryParam("search"),
		IncludePrices: c.QueryParam("include_prices") == "true",
	}

	stocks, err := h.service.StockService.GetStocks(c.Request().Context(), param)
	if err != nil {
		response := errorResponse(err)
		return c.JSON(response.Code, response)
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("Stocks retrieved", stocks))
}

func (h *HttpAPIHandler) CreateStock(c echo.Context) error {
	var req dto.CreateStockRequest
	if response := h.bindAndValidate(c, &req); response != nil {
		return c.JSON(response.Code, response)
	}

	stock, err := h.service.StockService.CreateStock(c.Request().Context(), req)
	if err != nil {
		response := errorResponse(err)
		return c.JSON(response.Code, response)
	}
	return c.JSON(http.StatusCreated, dto.NewBaseResponse(http.StatusCreated, "Stock created", stock))
}

func (h *HttpAPIHandler) GetStockDetail(c echo.Context) error {
	detail, err := h.service.StockService.GetStockDetail(c.Request().Context(), c.Param("symbol"))
	if err != nil {
		response := errorResponse(err)
		return c.JSON(response.Code, response)
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("Stock retrieved", detail))
}

func (h *HttpAPIHandler) UpdateStock(c echo.Context) error {
	var req dto.UpdateStockRequest
	if response := h.bindAndValidate(c, &req); response != nil {
		return c.JSON(response.Code, response)
	}

	stock, err := h.service.StockService.UpdateStock(c.Request().Context(), c.Param("symbol"), req)
	if err != nil {
		response := errorResponse(err)
		return c.JSON(response.Code, response)
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("Stock updated", stock))
}

func (h *HttpAPIHandler) DeleteStock(c echo.Context) error {
	if err := h.service.StockService.DeleteStock(c.Request().Context(), c.Param("symbol")); err != nil {
		response := errorResponse(err)
		return c.JSON(response.Code, response)
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("Stock deleted", nil))
}
