package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"pocketspace/internal/adapter/api/middleware"
	ws "pocketspace/internal/infrastructure/websocket"
	"pocketspace/pkg/logger"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type WebSocketHandler struct {
	manager        *ws.Manager
	authMiddleware *middleware.AuthMiddleware
}

func NewWebSocketHandler(manager *ws.Manager, authMiddleware *middleware.AuthMiddleware) *WebSocketHandler {
	return &WebSocketHandler{
		manager:        manager,
		authMiddleware: authMiddleware,
	}
}

// Connect upgrades the request and registers the connection. The token rides
// in a query parameter because browsers cannot set headers on an upgrade.
// Registration starts the user's unread session; unread_update events flow
// until disconnect.
func (h *WebSocketHandler) Connect(c echo.Context) error {
	token := c.QueryParam("token")
	if token == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "token query parameter is required")
	}

	uid, err := h.authMiddleware.GetUIDFromToken(c.Request().Context(), token)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid or expired token")
	}

	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		logger.Warn("WebSocket upgrade failed for %s: %v", uid, err)
		return err
	}

	client := &ws.Client{
		UserID: uid,
		Conn:   conn,
		Send:   make(chan []byte, 256),
	}

	h.manager.Register <- client

	go client.WritePump()
	go client.ReadPump(h.manager, h.handleInbound)

	return nil
}

func (h *WebSocketHandler) handleInbound(client *ws.Client, raw []byte) {
	var envelope ws.Envelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		logger.Debug("Dropping malformed WebSocket frame from %s: %v", client.UserID, err)
		return
	}

	switch envelope.Type {
	case ws.ActionJoinRoom:
		if envelope.RoomID != "" {
			h.manager.JoinRoom(envelope.RoomID, client.UserID)
		}
	case ws.ActionLeaveRoom:
		if envelope.RoomID != "" {
			h.manager.LeaveRoom(envelope.RoomID, client.UserID)
		}
	case ws.ActionPing:
		payload, _ := json.Marshal(ws.Envelope{Type: "pong"})
		h.manager.SendToUser(client.UserID, payload)
	default:
		logger.Debug("Unknown WebSocket action %q from %s", envelope.Type, client.UserID)
	}
}
