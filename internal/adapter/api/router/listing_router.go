package router

import (
	"github.com/labstack/echo/v4"

	"pocketspace/internal/adapter/api/handler"
	"pocketspace/internal/adapter/api/middleware"
)

func SetupListingRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	listingHandler := handler.GetListingHandler()

	// Browsing is public; anything that writes requires auth.
	e.GET("/v1/listings", listingHandler.List)
	e.GET("/v1/listings/:id", listingHandler.Get)

	protected := e.Group("/v1/listings")
	protected.Use(authMiddleware.Authenticate)

	protected.POST("", listingHandler.Create)
	protected.PATCH("/:id", listingHandler.Update)

	mine := e.Group("/v1/my/listings")
	mine.Use(authMiddleware.Authenticate)
	mine.GET("", listingHandler.ListMine)
}
