package router

import (
	"github.com/labstack/echo/v4"

	"pocketspace/internal/adapter/api/handler"
	"pocketspace/internal/adapter/api/middleware"
)

func SetupFileRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	fileHandler := handler.GetFileHandler()

	protected := e.Group("/v1")
	protected.Use(authMiddleware.Authenticate)

	protected.POST("/upload-image", fileHandler.UploadImage)
	protected.GET("/download-url", fileHandler.ResolveURL)
}
