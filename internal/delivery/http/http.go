package http

import (
	"errors"
	"net/http"
	"strconv"

	"stock-watchlist/internal/dto"
	"stock-watchlist/internal/service"

	goValidator "github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type HttpAPIHandler struct {
	echo      *echo.Echo
	validator *goValidator.Validate
	service   *service.Service
}

func NewHttpAPIHandler(echo *echo.Echo, validator *goValidator.Validate, service *service.Service) *HttpAPIHandler {
	return &HttpAPIHandler{
		echo:      echo,
		validator: validator,
		service:   service,
	}
}

func (h *HttpAPIHandler) SetupRoutes() {
	base := h.echo.Group("/api")
	h.SetupStocks(base)
	h.SetupTargets(base)
	h.SetupTags(base)
	h.SetupNotes(base)
	h.SetupPortfolio(base)
	h.SetupPrices(base)
	h.SetupAlerts(base)
}

// bindAndValidate decodes the request body and runs struct validation,
// returning a ready-to-send response on failure.
func (h *HttpAPIHandler) bindAndValidate(c echo.Context, req interface{}) *dto.BaseResponse {
	if err := c.Bind(req); err != nil {
		return dto.NewBadRequestResponse("invalid request body")
	}
	if err := h.validator.Struct(req); err != nil {
		return dto.NewBadRequestResponse(err.Error())
	}
	return nil
}

func pathID(c echo.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}

// errorResponse maps service errors to HTTP codes.
func errorResponse(err error) *dto.BaseResponse {
	switch {
	case errors.Is(err, service.ErrStockNotFound),
		errors.Is(err, service.ErrTargetNotFound),
		errors.Is(err, service.ErrNoteNotFound):
		return dto.NewNotFoundResponse(err.Error())
	case errors.Is(err, service.ErrStockAlreadyExists):
		return dto.NewBaseResponse(http.StatusConflict, err.Error(), nil)
	case errors.Is(err, service.ErrInvalidSymbol):
		return dto.NewBadRequestResponse(err.Error())
	default:
		return dto.NewBaseResponse(http.StatusInternalServerError, err.Error(), nil)
	}
}
