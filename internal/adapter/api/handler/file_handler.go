package handler

import (
	"github.com/labstack/echo/v4"

	"pocketspace/internal/usecase"
	"pocketspace/pkg/errors"
	"pocketspace/pkg/response"
)

type FileHandler struct {
	fileUseCase *usecase.FileUseCase
}

func NewFileHandler(fileUseCase *usecase.FileUseCase) *FileHandler {
	return &FileHandler{
		fileUseCase: fileUseCase,
	}
}

func (h *FileHandler) UploadImage(c echo.Context) error {
	uid := c.Get("uid").(string)

	var req usecase.UploadImageInput
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	result, err := h.fileUseCase.UploadImage(c.Request().Context(), uid, req)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Created(c, result)
}

func (h *FileHandler) ResolveURL(c echo.Context) error {
	path := c.QueryParam("path")

	url, err := h.fileUseCase.ResolveURL(c.Request().Context(), path)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, map[string]string{"path": path, "url": url})
}
