package handler

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"pocketspace/internal/usecase"
	"pocketspace/pkg/errors"
	"pocketspace/pkg/response"
)

type ListingHandler struct {
	listingUseCase *usecase.ListingUseCase
}

func NewListingHandler(listingUseCase *usecase.ListingUseCase) *ListingHandler {
	return &ListingHandler{
		listingUseCase: listingUseCase,
	}
}

func (h *ListingHandler) Create(c echo.Context) error {
	uid := c.Get("uid").(string)

	var req usecase.CreateListingInput
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	listing, err := h.listingUseCase.Create(c.Request().Context(), uid, req)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Created(c, listing)
}

func (h *ListingHandler) Get(c echo.Context) error {
	listing, err := h.listingUseCase.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, listing)
}

func (h *ListingHandler) List(c echo.Context) error {
	limit, offset := paginationParams(c)
	status := c.QueryParam("status")

	listings, total, err := h.listingUseCase.List(c.Request().Context(), status, limit, offset)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Paginated(c, listings, total, limit, offset)
}

func (h *ListingHandler) ListMine(c echo.Context) error {
	uid := c.Get("uid").(string)
	limit, offset := paginationParams(c)

	listings, total, err := h.listingUseCase.ListMine(c.Request().Context(), uid, limit, offset)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Paginated(c, listings, total, limit, offset)
}

func (h *ListingHandler) Update(c echo.Context) error {
	uid := c.Get("uid").(string)

	var req usecase.UpdateListingInput
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	listing, err := h.listingUseCase.Update(c.Request().Context(), uid, c.Param("id"), req)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, listing)
}

func paginationParams(c echo.Context) (limit, offset int) {
	limit, _ = strconv.Atoi(c.QueryParam("limit"))
	offset, _ = strconv.Atoi(c.QueryParam("offset"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
