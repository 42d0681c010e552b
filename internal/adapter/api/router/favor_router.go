package router

import (
	"github.com/labstack/echo/v4"

	"pocketspace/internal/adapter/api/handler"
	"pocketspace/internal/adapter/api/middleware"
)

func SetupFavorRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	favorHandler := handler.GetFavorHandler()

	e.GET("/v1/favors", favorHandler.List)
	e.GET("/v1/favors/:id", favorHandler.Get)

	protected := e.Group("/v1/favors")
	protected.Use(authMiddleware.Authenticate)

	protected.POST("", favorHandler.Create)
	protected.POST("/:id/accept", favorHandler.Accept)
	protected.PUT("/:id/status", favorHandler.SetStatus)

	mine := e.Group("/v1/my/favors")
	mine.Use(authMiddleware.Authenticate)
	mine.GET("", favorHandler.ListMine)
}
