package usecase

import (
	"context"
	"encoding/json"
	"sort"
	"strings"

	"github.com/google/uuid"

	"pocketspace/internal/domain/entity"
	"pocketspace/internal/domain/repository"
	"pocketspace/internal/domain/service"
	"pocketspace/internal/infrastructure/ratelimit"
	ws "pocketspace/internal/infrastructure/websocket"
	"pocketspace/pkg/errors"
	"pocketspace/pkg/logger"
)

type ChatUseCase struct {
	roomRepo    repository.ChatRoomRepository
	userRepo    repository.UserRepository
	listingRepo repository.ListingRepository
	wsManager   *ws.Manager
	rateLimiter *ratelimit.RateLimiter
}

func NewChatUseCase(
	roomRepo repository.ChatRoomRepository,
	userRepo repository.UserRepository,
	listingRepo repository.ListingRepository,
	wsManager *ws.Manager,
) *ChatUseCase {
	rateLimiter := ratelimit.NewRateLimiter()
	rateLimiter.StartCleanupRoutine()

	return &ChatUseCase{
		roomRepo:    roomRepo,
		userRepo:    userRepo,
		listingRepo: listingRepo,
		wsManager:   wsManager,
		rateLimiter: rateLimiter,
	}
}

type SendMessageInput struct {
	RoomID    string
	Text      string
	Type      entity.MessageType
	StickerID string
	ImageURL  string
}

type RoomResponse struct {
	*entity.ChatRoom
	Listing   *entity.Listing `json:"listing,omitempty"`
	OtherUser *entity.User    `json:"other_user,omitempty"`
}

type RoomView struct {
	*RoomResponse
	Messages []service.RenderedMessage `json:"messages"`
}

// OpenListingRoom resolves (or creates) the room between the caller and a
// listing's owner. The room id is derived from both participant ids and the
// listing id, so a second contact attempt lands on the existing room.
func (uc *ChatUseCase) OpenListingRoom(ctx context.Context, customerID, listingID string) (*RoomResponse, error) {
	listing, err := uc.listingRepo.GetByID(ctx, listingID)
	if err != nil {
		return nil, err
	}

	if customerID == listing.OwnerID {
		return nil, errors.BadRequest("You cannot open a chat about your own listing", nil)
	}

	roomID := entity.ListingRoomID(listing.OwnerID, customerID, listingID)
	room, err := uc.roomRepo.GetByID(ctx, roomID)
	if err != nil {
		if !errors.Is(err, "NOT_FOUND") {
			return nil, err
		}

		allowed, _ := uc.rateLimiter.Allow(customerID, "create_room")
		if !allowed {
			return nil, errors.TooManyRequests("Too many new chats. Please wait a moment")
		}

		room = &entity.ChatRoom{
			ID:            roomID,
			OwnerID:       listing.OwnerID,
			CustomerID:    customerID,
			ListingID:     listingID,
			Title:         listing.Title,
			PreviewImages: listing.PreviewImageURLs(),
		}
		if err := uc.roomRepo.Create(ctx, room); err != nil {
			return nil, err
		}
	}

	resp := &RoomResponse{ChatRoom: room}
	resp.Listing = listing
	if other, err := uc.userRepo.GetByID(ctx, listing.OwnerID); err == nil {
		resp.OtherUser = other
	}
	return resp, nil
}

// CreateFavorRoom creates the favor-bound room between a favor's requester
// (owner role) and its accepter (customer role), seeded with a system
// message. Called on favor acceptance.
func (uc *ChatUseCase) CreateFavorRoom(ctx context.Context, favor *entity.FavorRequest, accepterID string) (*entity.ChatRoom, error) {
	room := &entity.ChatRoom{
		ID:         uuid.New().String(),
		OwnerID:    favor.RequesterID,
		CustomerID: accepterID,
		RequestID:  favor.ID,
		Title:      favor.Title,
	}
	if err := uc.roomRepo.Create(ctx, room); err != nil {
		return nil, err
	}

	system := &entity.Message{
		ID:         uuid.New().String(),
		RoomID:     room.ID,
		SenderID:   entity.SystemSenderID,
		SenderName: "PocketSpace",
		Text:       "Favor accepted. Work out the details here!",
		Type:       entity.MessageSystem,
	}
	if err := uc.roomRepo.CreateSystemMessage(ctx, room.ID, system); err != nil {
		logger.Warn("Failed to seed system message for favor room %s: %v", room.ID, err)
	}

	uc.notifyRoomUpdate(room, favor.RequesterID, accepterID)
	return room, nil
}

// OpenRoom returns a room with its rendered timeline and resets the opener's
// own unread counter. The reset is best-effort: a failure only affects badge
// accuracy, never message delivery.
func (uc *ChatUseCase) OpenRoom(ctx context.Context, userID, roomID string) (*RoomView, error) {
	room, err := uc.roomRepo.GetByID(ctx, roomID)
	if err != nil {
		return nil, err
	}

	role, ok := room.RoleOf(userID)
	if !ok {
		return nil, errors.Forbidden("You are not a participant in this chat", nil)
	}

	if err := uc.roomRepo.ResetUnread(ctx, roomID, role); err != nil {
		logger.Warn("Failed to reset unread counter for room %s (%s): %v", roomID, role, err)
	}

	messages, err := uc.roomRepo.ListMessages(ctx, roomID, 0)
	if err != nil {
		return nil, err
	}

	resp := &RoomResponse{ChatRoom: room}
	if room.ListingID != "" {
		if listing, err := uc.listingRepo.GetByID(ctx, room.ListingID); err == nil {
			resp.Listing = listing
		}
	}
	otherID := room.OwnerID
	if userID == room.OwnerID {
		otherID = room.CustomerID
	}
	if other, err := uc.userRepo.GetByID(ctx, otherID); err == nil {
		resp.OtherUser = other
	}

	return &RoomView{
		RoomResponse: resp,
		Messages:     service.RenderTimeline(messages),
	}, nil
}

// SendMessage appends a message and attributes the unread increment to the
// recipient role, never the sender's. Insert, last-message update and counter
// increment commit as one transaction in the repository.
func (uc *ChatUseCase) SendMessage(ctx context.Context, userID string, input SendMessageInput) (*entity.Message, error) {
	allowed, _ := uc.rateLimiter.Allow(userID, "send_message")
	if !allowed {
		return nil, errors.TooManyRequests("You are sending messages too quickly. Please slow down")
	}

	room, err := uc.roomRepo.GetByID(ctx, input.RoomID)
	if err != nil {
		return nil, err
	}
	if _, ok := room.RoleOf(userID); !ok {
		return nil, errors.Forbidden("You are not a participant in this chat", nil)
	}

	text := strings.TrimSpace(input.Text)
	switch input.Type {
	case entity.MessageText:
		if text == "" {
			return nil, errors.BadRequest("Message text must not be empty", nil)
		}
	case entity.MessageSticker:
		if input.StickerID == "" {
			return nil, errors.BadRequest("Sticker id is required", nil)
		}
	case entity.MessageImage:
		if input.ImageURL == "" {
			return nil, errors.BadRequest("Image URL is required", nil)
		}
	default:
		return nil, errors.BadRequest("Unsupported message type", nil)
	}

	sender, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, errors.NotFound("Sender", err)
	}

	message := &entity.Message{
		ID:         uuid.New().String(),
		RoomID:     input.RoomID,
		SenderID:   userID,
		SenderName: sender.Nickname,
		Text:       text,
		Type:       input.Type,
		StickerID:  input.StickerID,
		ImageURL:   input.ImageURL,
	}

	if err := uc.roomRepo.CreateMessage(ctx, room, message); err != nil {
		logger.Error("Failed to send message in room %s: %v", input.RoomID, err)
		return nil, err
	}

	uc.notifyMessage(room, message, userID)
	return message, nil
}

// ListRooms returns the caller's visible rooms, owner side and customer side
// merged and deduplicated, newest activity first. kind filters to listing or
// favor rooms; empty means both.
func (uc *ChatUseCase) ListRooms(ctx context.Context, userID string, kind entity.RoomKind) ([]*RoomResponse, error) {
	ownerSide, err := uc.roomRepo.ListByRole(ctx, entity.RoleOwner, userID)
	if err != nil {
		return nil, err
	}
	customerSide, err := uc.roomRepo.ListByRole(ctx, entity.RoleCustomer, userID)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var rooms []*entity.ChatRoom
	for _, room := range append(ownerSide, customerSide...) {
		if seen[room.ID] {
			continue
		}
		seen[room.ID] = true

		if room.LeftBy(userID) || room.Kind() == entity.RoomKindUnknown {
			continue
		}
		if kind != "" && room.Kind() != kind {
			continue
		}
		rooms = append(rooms, room)
	}

	sort.SliceStable(rooms, func(i, j int) bool {
		a, b := rooms[i].LastMessageAt, rooms[j].LastMessageAt
		if a.IsZero() || b.IsZero() {
			return !a.IsZero() && b.IsZero()
		}
		return a.After(b)
	})

	responses := make([]*RoomResponse, 0, len(rooms))
	for _, room := range rooms {
		resp := &RoomResponse{ChatRoom: room}
		otherID := room.OwnerID
		if userID == room.OwnerID {
			otherID = room.CustomerID
		}
		if other, err := uc.userRepo.GetByID(ctx, otherID); err == nil {
			resp.OtherUser = other
		}
		responses = append(responses, resp)
	}
	return responses, nil
}

// LeaveRoom hides the room for the caller; the record itself survives for
// the other participant.
func (uc *ChatUseCase) LeaveRoom(ctx context.Context, userID, roomID string) error {
	room, err := uc.roomRepo.GetByID(ctx, roomID)
	if err != nil {
		return err
	}
	role, ok := room.RoleOf(userID)
	if !ok {
		return errors.Forbidden("You are not a participant in this chat", nil)
	}
	return uc.roomRepo.SetLeft(ctx, roomID, role)
}

func (uc *ChatUseCase) notifyMessage(room *entity.ChatRoom, message *entity.Message, senderID string) {
	payload, err := json.Marshal(ws.Envelope{
		Type:   ws.EventMessageNew,
		RoomID: room.ID,
		Data:   message,
	})
	if err != nil {
		return
	}

	uc.wsManager.SendToRoom(room.ID, payload, senderID)

	otherID := room.OwnerID
	if senderID == room.OwnerID {
		otherID = room.CustomerID
	}
	uc.wsManager.SendToUser(otherID, payload)
}

func (uc *ChatUseCase) notifyRoomUpdate(room *entity.ChatRoom, userIDs ...string) {
	payload, err := json.Marshal(ws.Envelope{
		Type:   ws.EventRoomUpdate,
		RoomID: room.ID,
		Data:   room,
	})
	if err != nil {
		return
	}
	for _, userID := range userIDs {
		uc.wsManager.SendToUser(userID, payload)
	}
}
