package http

import (
	"net/http"

	"stock-watchlist/internal/dto"

	"github.com/labstack/echo/v4"
)

func (h *HttpAPIHandler) SetupNotes(base *echo.Group) {
	v1 := base.Group("/v1")
	{
		v1.POST("/stocks/:symbol/notes", h.AddNote)
		v1.PUT("/notes/:id", h.UpdateNote)
		v1.DELETE("/notes/:id", h.DeleteNote)
	}
}

func (h *HttpAPIHandler) AddNote(c echo.Context) error {
	var req dto.NoteRequest
	if response := h.bindAndValidate(c, &req); response != nil {
		return c.JSON(response.Code, response)
	}

	note, err := h.service.StockService.AddNote(c.Request().Context(), c.Param("symbol"), req)
	if err != nil {
		response := errorResponse(err)
		return c.JSON(response.Code, response)
	}
	return c.JSON(http.StatusCreated, dto.NewBaseResponse(http.StatusCreated, "Note created", note))
}

func (h *HttpAPIHandler) UpdateNote(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		response := dto.NewBadRequestResponse("invalid note id")
		return c.JSON(response.Code, response)
	}

	var req dto.NoteRequest
	if response := h.bindAndValidate(c, &req); response != nil {
		return c.JSON(response.Code, response)
	}

	note, err := h.service.StockService.UpdateNote(c.Request().Context(), id, req)
	if err != nil {
		response := errorResponse(err)
		return c.JSON(response.Code, response)
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("Note updated", note))
}

func (h *HttpAPIHandler) DeleteNote(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		response := dto.NewBadRequestResponse("invalid note id")
		return c.JSON(response.Code, response)
	}

	if err := h.service.StockService.DeleteNote(c.Request().Context(), id); err != nil {
		response := errorResponse(err)
		return c.JSON(response.Code, response)
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("Note deleted", nil))
}
