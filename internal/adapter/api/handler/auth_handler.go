package handler

import (
	"github.com/labstack/echo/v4"

	"pocketspace/internal/usecase"
	"pocketspace/pkg/errors"
	"pocketspace/pkg/response"
)

type AuthHandler struct {
	authUseCase *usecase.AuthUseCase
}

func NewAuthHandler(authUseCase *usecase.AuthUseCase) *AuthHandler {
	return &AuthHandler{
		authUseCase: authUseCase,
	}
}

// SignIn exchanges a provider token for a Firebase custom token. The provider
// rides in the route (/v1/auth/naver and friends), the token in the body.
func (h *AuthHandler) SignIn(c echo.Context) error {
	var req usecase.SignInInput
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}
	req.Provider = c.Param("provider")
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	result, err := h.authUseCase.SignIn(c.Request().Context(), req)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, result)
}
