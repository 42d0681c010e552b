package handler

import (
	"github.com/labstack/echo/v4"

	"pocketspace/internal/domain/entity"
	"pocketspace/internal/usecase"
	"pocketspace/pkg/errors"
	"pocketspace/pkg/response"
)

type ChatHandler struct {
	chatUseCase *usecase.ChatUseCase
}

func NewChatHandler(chatUseCase *usecase.ChatUseCase) *ChatHandler {
	return &ChatHandler{
		chatUseCase: chatUseCase,
	}
}

type openListingRoomRequest struct {
	ListingID string `json:"listing_id" validate:"required"`
}

// OpenListingRoom resolves or creates the caller's room for a listing.
func (h *ChatHandler) OpenListingRoom(c echo.Context) error {
	uid := c.Get("uid").(string)

	var req openListingRoomRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	room, err := h.chatUseCase.OpenListingRoom(c.Request().Context(), uid, req.ListingID)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, room)
}

// ListRooms returns the caller's rooms; ?kind=listing|favor narrows the list.
func (h *ChatHandler) ListRooms(c echo.Context) error {
	uid := c.Get("uid").(string)

	kind := entity.RoomKind(c.QueryParam("kind"))
	switch kind {
	case "", entity.RoomKindListing, entity.RoomKindFavor:
	default:
		return response.Error(c, errors.BadRequest("kind must be listing or favor", nil))
	}

	rooms, err := h.chatUseCase.ListRooms(c.Request().Context(), uid, kind)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, rooms)
}

// OpenRoom returns the room with its message timeline and clears the caller's
// unread counter.
func (h *ChatHandler) OpenRoom(c echo.Context) error {
	uid := c.Get("uid").(string)

	view, err := h.chatUseCase.OpenRoom(c.Request().Context(), uid, c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, view)
}

type sendMessageRequest struct {
	Text      string `json:"text"`
	Type      string `json:"type" validate:"required,oneof=text sticker image"`
	StickerID string `json:"sticker_id,omitempty"`
	ImageURL  string `json:"image_url,omitempty"`
}

func (h *ChatHandler) SendMessage(c echo.Context) error {
	uid := c.Get("uid").(string)

	var req sendMessageRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	message, err := h.chatUseCase.SendMessage(c.Request().Context(), uid, usecase.SendMessageInput{
		RoomID:    c.Param("id"),
		Text:      req.Text,
		Type:      entity.MessageType(req.Type),
		StickerID: req.StickerID,
		ImageURL:  req.ImageURL,
	})
	if err != nil {
		return response.Error(c, err)
	}
	return response.Created(c, message)
}

func (h *ChatHandler) LeaveRoom(c echo.Context) error {
	uid := c.Get("uid").(string)

	if err := h.chatUseCase.LeaveRoom(c.Request().Context(), uid, c.Param("id")); err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, map[string]bool{"left": true})
}

// Stickers returns the fixed sticker catalog clients render pickers from.
func (h *ChatHandler) Stickers(c echo.Context) error {
	return response.Success(c, entity.StickerCatalog())
}
