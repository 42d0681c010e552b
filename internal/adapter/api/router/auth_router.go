package router

import (
	"github.com/labstack/echo/v4"

	"pocketspace/internal/adapter/api/handler"
)

func SetupAuthRouter(e *echo.Echo) {
	authHandler := handler.GetAuthHandler()

	// Sign-in is the only public write endpoint; the provider credential is
	// the proof of identity. One route per provider: /v1/auth/naver,
	// /v1/auth/kakao, /v1/auth/google, /v1/auth/apple.
	e.POST("/v1/auth/:provider", authHandler.SignIn)
}
