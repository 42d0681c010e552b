package handler

import (
	"github.com/labstack/echo/v4"

	"pocketspace/internal/usecase"
	"pocketspace/pkg/errors"
	"pocketspace/pkg/response"
)

type FavorHandler struct {
	favorUseCase *usecase.FavorUseCase
}

func NewFavorHandler(favorUseCase *usecase.FavorUseCase) *FavorHandler {
	return &FavorHandler{
		favorUseCase: favorUseCase,
	}
}

func (h *FavorHandler) Create(c echo.Context) error {
	uid := c.Get("uid").(string)

	var req usecase.CreateFavorInput
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	favor, err := h.favorUseCase.Create(c.Request().Context(), uid, req)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Created(c, favor)
}

func (h *FavorHandler) Get(c echo.Context) error {
	favor, err := h.favorUseCase.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, favor)
}

func (h *FavorHandler) List(c echo.Context) error {
	limit, offset := paginationParams(c)
	status := c.QueryParam("status")

	favors, total, err := h.favorUseCase.List(c.Request().Context(), status, limit, offset)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Paginated(c, favors, total, limit, offset)
}

func (h *FavorHandler) ListMine(c echo.Context) error {
	uid := c.Get("uid").(string)
	limit, offset := paginationParams(c)

	favors, total, err := h.favorUseCase.ListMine(c.Request().Context(), uid, limit, offset)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Paginated(c, favors, total, limit, offset)
}

func (h *FavorHandler) Accept(c echo.Context) error {
	uid := c.Get("uid").(string)

	result, err := h.favorUseCase.Accept(c.Request().Context(), uid, c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, result)
}

func (h *FavorHandler) SetStatus(c echo.Context) error {
	uid := c.Get("uid").(string)

	var req usecase.FavorStatusInput
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	favor, err := h.favorUseCase.SetStatus(c.Request().Context(), uid, c.Param("id"), req.Status)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, favor)
}
