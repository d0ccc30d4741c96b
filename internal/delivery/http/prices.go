package http

import (
	"net/http"

	"stock-watchlist/internal/dto"

	"github.com/labstack/echo/v4"
)

func (h *HttpAPIHandler) SetupPrices(base *echo.Group) {
	v1 := base.Group("/v1/prices")
	{
		v1.GET("/market-overview", h.GetMarketOverview)
		v1.GET("/search", h.SearchSymbols)
		v1.POST("/batch", h.GetPrices)
		v1.GET("/:symbol", h.GetPrice)
	}
}

func (h *HttpAPIHandler) GetPrice(c echo.Context) error {
	symbol := c.Param("symbol")
	price := h.service.QuoteService.GetPrice(c.Request().Context(), symbol)
	if price == nil {
		response := dto.NewNotFoundResponse("price unavailable for " + symbol)
		return c.JSON(response.Code, response)
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("Price retrieved", dto.PriceResponse{
		Symbol:       symbol,
		CurrentPrice: price,
	}))
}

func (h *HttpAPIHandler) GetPrices(c echo.Context) error {
	var req dto.BatchPriceRequest
	if response := h.bindAndValidate(c, &req); response != nil {
		return c.JSON(response.Code, response)
	}

	prices := h.service.QuoteService.GetPrices(c.Request().Context(), req.Symbols)
	responses := make([]dto.PriceResponse, 0, len(prices))
	for symbol, price := range prices {
		responses = append(responses, dto.PriceResponse{Symbol: symbol, CurrentPrice: price})
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("Prices retrieved", responses))
}

func (h *HttpAPIHandler) GetMarketOverview(c echo.Context) error {
	overview, err := h.service.QuoteService.GetMarketOverview(c.Request().Context())
	if err != nil {
		response := errorResponse(err)
		return c.JSON(response.Code, response)
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("Market overview retrieved", overview))
}

func (h *HttpAPIHandler) SearchSymbols(c echo.Context) error {
	query := c.QueryParam("q")
	if query == "" {
		response := dto.NewBadRequestResponse("query parameter q is required")
		return c.JSON(response.Code, response)
	}

	results, err := h.service.QuoteService.Search(c.Request().Context(), query)
	if err != nil {
		response := errorResponse(err)
		return c.JSON(response.Code, response)
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("Search results", results))
}
