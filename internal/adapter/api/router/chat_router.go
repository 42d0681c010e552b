package router

import (
	"github.com/labstack/echo/v4"

	"pocketspace/internal/adapter/api/handler"
	"pocketspace/internal/adapter/api/middleware"
)

// SetupChatRouter sets up all chat routes (excluding WebSocket).
func SetupChatRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	chatHandler := handler.GetChatHandler()

	chats := e.Group("/v1/chats")
	chats.Use(authMiddleware.Authenticate)

	chats.POST("", chatHandler.OpenListingRoom)        // POST /v1/chats - open room for a listing
	chats.GET("", chatHandler.ListRooms)               // GET /v1/chats?kind=listing|favor
	chats.GET("/:id", chatHandler.OpenRoom)            // GET /v1/chats/:id - timeline + unread reset
	chats.POST("/:id/messages", chatHandler.SendMessage)
	chats.DELETE("/:id", chatHandler.LeaveRoom)

	e.GET("/v1/stickers", chatHandler.Stickers)
}
