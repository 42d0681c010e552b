package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pocketspace/internal/domain/entity"
	"pocketspace/internal/domain/repository"
	ws "pocketspace/internal/infrastructure/websocket"
	"pocketspace/pkg/errors"
)

type memoryChatRoomRepo struct {
	repository.ChatRoomRepository

	mu       sync.Mutex
	rooms    map[string]*entity.ChatRoom
	messages map[string][]*entity.Message
}

func newMemoryChatRoomRepo() *memoryChatRoomRepo {
	return &memoryChatRoomRepo{
		rooms:    make(map[string]*entity.ChatRoom),
		messages: make(map[string][]*entity.Message),
	}
}

func (m *memoryChatRoomRepo) Create(ctx context.Context, room *entity.ChatRoom) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now()
	room.CreatedAt = now
	room.UpdatedAt = now
	copied := *room
	m.rooms[room.ID] = &copied
	return nil
}

func (m *memoryChatRoomRepo) GetByID(ctx context.Context, id string) (*entity.ChatRoom, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	room, ok := m.rooms[id]
	if !ok {
		return nil, errors.NotFound("Chat room", nil)
	}
	copied := *room
	return &copied, nil
}

func (m *memoryChatRoomRepo) ListByRole(ctx context.Context, role entity.RoomRole, userID string) ([]*entity.ChatRoom, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*entity.ChatRoom
	for _, room := range m.rooms {
		if (role == entity.RoleOwner && room.OwnerID == userID) ||
			(role == entity.RoleCustomer && room.CustomerID == userID) {
			copied := *room
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (m *memoryChatRoomRepo) CreateMessage(ctx context.Context, room *entity.ChatRoom, message *entity.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.rooms[room.ID]
	if !ok {
		return errors.NotFound("Chat room", nil)
	}

	now := time.Now()
	message.CreatedAt = now
	m.messages[room.ID] = append(m.messages[room.ID], message)

	stored.LastMessageText = message.Text
	stored.LastMessageAt = now
	stored.UpdatedAt = now
	if room.RecipientRole(message.SenderID) == entity.RoleOwner {
		stored.UnreadByOwner++
	} else {
		stored.UnreadByCustomer++
	}
	return nil
}

func (m *memoryChatRoomRepo) CreateSystemMessage(ctx context.Context, roomID string, message *entity.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	message.SenderID = entity.SystemSenderID
	message.Type = entity.MessageSystem
	message.CreatedAt = time.Now()
	m.messages[roomID] = append(m.messages[roomID], message)
	return nil
}

func (m *memoryChatRoomRepo) ListMessages(ctx context.Context, roomID string, limit int) ([]*entity.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*entity.Message{}, m.messages[roomID]...), nil
}

func (m *memoryChatRoomRepo) ResetUnread(ctx context.Context, roomID string, role entity.RoomRole) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	room, ok := m.rooms[roomID]
	if !ok {
		return errors.NotFound("Chat room", nil)
	}
	if role == entity.RoleOwner {
		room.UnreadByOwner = 0
	} else {
		room.UnreadByCustomer = 0
	}
	return nil
}

func (m *memoryChatRoomRepo) SetLeft(ctx context.Context, roomID string, role entity.RoomRole) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	room, ok := m.rooms[roomID]
	if !ok {
		return errors.NotFound("Chat room", nil)
	}
	if role == entity.RoleOwner {
		room.LeftByOwner = true
	} else {
		room.LeftByCustomer = true
	}
	return nil
}

type memoryUserRepo struct {
	repository.UserRepository
	users map[string]*entity.User
}

func (m *memoryUserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	user, ok := m.users[id]
	if !ok {
		return nil, errors.NotFound("User", nil)
	}
	return user, nil
}

type memoryListingRepo struct {
	repository.ListingRepository
	listings map[string]*entity.Listing
}

func (m *memoryListingRepo) GetByID(ctx context.Context, id string) (*entity.Listing, error) {
	listing, ok := m.listings[id]
	if !ok {
		return nil, errors.NotFound("Listing", nil)
	}
	return listing, nil
}

func newChatFixture() (*ChatUseCase, *memoryChatRoomRepo) {
	roomRepo := newMemoryChatRoomRepo()
	userRepo := &memoryUserRepo{users: map[string]*entity.User{
		"host":   {ID: "host", Nickname: "Host"},
		"renter": {ID: "renter", Nickname: "Renter"},
	}}
	listingRepo := &memoryListingRepo{listings: map[string]*entity.Listing{
		"listing-1": {ID: "listing-1", OwnerID: "host", Title: "Dry basement corner"},
	}}

	uc := NewChatUseCase(roomRepo, userRepo, listingRepo, ws.NewManager(nil))
	return uc, roomRepo
}

func TestOpenListingRoomIsDeterministic(t *testing.T) {
	uc, _ := newChatFixture()
	ctx := context.Background()

	first, err := uc.OpenListingRoom(ctx, "renter", "listing-1")
	require.NoError(t, err)

	// Opening again resolves to the same room instead of creating a second.
	second, err := uc.OpenListingRoom(ctx, "renter", "listing-1")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, entity.ListingRoomID("host", "renter", "listing-1"), first.ID)
	assert.Equal(t, "host", first.OwnerID)
	assert.Equal(t, "renter", first.CustomerID)
}

func TestOpenListingRoomRejectsOwnListing(t *testing.T) {
	uc, _ := newChatFixture()

	_, err := uc.OpenListingRoom(context.Background(), "host", "listing-1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, "BAD_REQUEST"))
}

func TestSendMessageIncrementsRecipientOnly(t *testing.T) {
	uc, roomRepo := newChatFixture()
	ctx := context.Background()

	room, err := uc.OpenListingRoom(ctx, "renter", "listing-1")
	require.NoError(t, err)

	_, err = uc.SendMessage(ctx, "renter", SendMessageInput{
		RoomID: room.ID,
		Text:   "Is the space still free next week?",
		Type:   entity.MessageText,
	})
	require.NoError(t, err)

	stored, err := roomRepo.GetByID(ctx, room.ID)
	require.NoError(t, err)
	// The customer sent, so only the owner's counter moves.
	assert.Equal(t, int64(1), stored.UnreadByOwner)
	assert.Equal(t, int64(0), stored.UnreadByCustomer)

	_, err = uc.SendMessage(ctx, "host", SendMessageInput{
		RoomID: room.ID,
		Text:   "Yes, from Monday.",
		Type:   entity.MessageText,
	})
	require.NoError(t, err)

	stored, err = roomRepo.GetByID(ctx, room.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stored.UnreadByOwner)
	assert.Equal(t, int64(1), stored.UnreadByCustomer)
}

func TestSendMessageRejectsNonParticipant(t *testing.T) {
	uc, _ := newChatFixture()
	ctx := context.Background()

	room, err := uc.OpenListingRoom(ctx, "renter", "listing-1")
	require.NoError(t, err)

	_, err = uc.SendMessage(ctx, "stranger", SendMessageInput{
		RoomID: room.ID,
		Text:   "hi",
		Type:   entity.MessageText,
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, "FORBIDDEN"))
}

func TestSendMessageValidatesPayloadByType(t *testing.T) {
	uc, _ := newChatFixture()
	ctx := context.Background()

	room, err := uc.OpenListingRoom(ctx, "renter", "listing-1")
	require.NoError(t, err)

	_, err = uc.SendMessage(ctx, "renter", SendMessageInput{RoomID: room.ID, Text: "   ", Type: entity.MessageText})
	assert.True(t, errors.Is(err, "BAD_REQUEST"))

	_, err = uc.SendMessage(ctx, "renter", SendMessageInput{RoomID: room.ID, Type: entity.MessageSticker})
	assert.True(t, errors.Is(err, "BAD_REQUEST"))

	_, err = uc.SendMessage(ctx, "renter", SendMessageInput{RoomID: room.ID, Type: entity.MessageSystem})
	assert.True(t, errors.Is(err, "BAD_REQUEST"))
}

func TestOpenRoomResetsOwnCounterOnly(t *testing.T) {
	uc, roomRepo := newChatFixture()
	ctx := context.Background()

	room, err := uc.OpenListingRoom(ctx, "renter", "listing-1")
	require.NoError(t, err)

	_, err = uc.SendMessage(ctx, "renter", SendMessageInput{RoomID: room.ID, Text: "hello", Type: entity.MessageText})
	require.NoError(t, err)
	_, err = uc.SendMessage(ctx, "host", SendMessageInput{RoomID: room.ID, Text: "hello back", Type: entity.MessageText})
	require.NoError(t, err)

	view, err := uc.OpenRoom(ctx, "host", room.ID)
	require.NoError(t, err)
	assert.Len(t, view.Messages, 2)

	stored, err := roomRepo.GetByID(ctx, room.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), stored.UnreadByOwner)
	// The renter's pending unread is untouched.
	assert.Equal(t, int64(1), stored.UnreadByCustomer)
}

func TestLeaveRoomHidesForCallerOnly(t *testing.T) {
	uc, _ := newChatFixture()
	ctx := context.Background()

	room, err := uc.OpenListingRoom(ctx, "renter", "listing-1")
	require.NoError(t, err)

	require.NoError(t, uc.LeaveRoom(ctx, "renter", room.ID))

	renterRooms, err := uc.ListRooms(ctx, "renter", "")
	require.NoError(t, err)
	assert.Empty(t, renterRooms)

	hostRooms, err := uc.ListRooms(ctx, "host", "")
	require.NoError(t, err)
	assert.Len(t, hostRooms, 1)
}

func TestCreateFavorRoomSeedsSystemMessage(t *testing.T) {
	uc, roomRepo := newChatFixture()
	ctx := context.Background()

	favor := &entity.FavorRequest{ID: "favor-1", RequesterID: "host", Title: "Help me carry boxes"}
	room, err := uc.CreateFavorRoom(ctx, favor, "renter")
	require.NoError(t, err)

	assert.Equal(t, "host", room.OwnerID)
	assert.Equal(t, "renter", room.CustomerID)
	assert.Equal(t, entity.RoomKindFavor, room.Kind())

	messages, err := roomRepo.ListMessages(ctx, room.ID, 0)
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Equal(t, entity.MessageSystem, messages[0].Type)
	assert.Equal(t, entity.SystemSenderID, messages[0].SenderID)
}

func TestListRoomsFiltersByKind(t *testing.T) {
	uc, _ := newChatFixture()
	ctx := context.Background()

	_, err := uc.OpenListingRoom(ctx, "renter", "listing-1")
	require.NoError(t, err)
	favor := &entity.FavorRequest{ID: "favor-1", RequesterID: "host", Title: "Help"}
	_, err = uc.CreateFavorRoom(ctx, favor, "renter")
	require.NoError(t, err)

	all, err := uc.ListRooms(ctx, "host", "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	listings, err := uc.ListRooms(ctx, "host", entity.RoomKindListing)
	require.NoError(t, err)
	require.Len(t, listings, 1)
	assert.Equal(t, entity.RoomKindListing, listings[0].Kind())

	favors, err := uc.ListRooms(ctx, "host", entity.RoomKindFavor)
	require.NoError(t, err)
	require.Len(t, favors, 1)
	assert.Equal(t, entity.RoomKindFavor, favors[0].Kind())
}
