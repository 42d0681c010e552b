package repository

import (
	"context"
	"sort"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"pocketspace/internal/domain/entity"
	"pocketspace/internal/domain/repository"
	"pocketspace/pkg/errors"
	"pocketspace/pkg/logger"
)

type firestoreChatRoomRepository struct {
	client *firestore.Client
}

func NewFirestoreChatRoomRepository(client *firestore.Client) repository.ChatRoomRepository {
	return &firestoreChatRoomRepository{
		client: client,
	}
}

func roleField(role entity.RoomRole) string {
	if role == entity.RoleOwner {
		return "ownerId"
	}
	return "customerId"
}

func unreadField(role entity.RoomRole) string {
	if role == entity.RoleOwner {
		return "unreadByOwner"
	}
	return "unreadByCustomer"
}

func leftField(role entity.RoomRole) string {
	if role == entity.RoleOwner {
		return "leftByOwner"
	}
	return "leftByCustomer"
}

func (r *firestoreChatRoomRepository) Create(ctx context.Context, room *entity.ChatRoom) error {
	if room.ID == "" {
		room.ID = uuid.New().String()
	}

	now := time.Now()
	room.CreatedAt = now
	room.UpdatedAt = now

	_, err := r.client.Collection("chatRooms").Doc(room.ID).Set(ctx, room)
	if err != nil {
		return errors.Internal("Failed to create chat room", err)
	}

	return nil
}

func (r *firestoreChatRoomRepository) GetByID(ctx context.Context, id string) (*entity.ChatRoom, error) {
	doc, err := r.client.Collection("chatRooms").Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Chat room", err)
		}
		return nil, errors.Internal("Failed to get chat room", err)
	}

	var room entity.ChatRoom
	if err := doc.DataTo(&room); err != nil {
		return nil, errors.Internal("Failed to parse chat room data", err)
	}
	return &room, nil
}

func (r *firestoreChatRoomRepository) ListByRole(ctx context.Context, role entity.RoomRole, userID string) ([]*entity.ChatRoom, error) {
	iter := r.client.Collection("chatRooms").Where(roleField(role), "==", userID).Documents(ctx)
	defer iter.Stop()

	var rooms []*entity.ChatRoom
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.Internal("Failed to iterate chat rooms", err)
		}

		var room entity.ChatRoom
		if err := doc.DataTo(&room); err != nil {
			return nil, errors.Internal("Failed to parse chat room data", err)
		}
		rooms = append(rooms, &room)
	}
	return rooms, nil
}

// CreateMessage writes the message, the room's last-message fields and the
// recipient-side unread increment in one transaction: either all land or the
// store stays as if the send never happened.
func (r *firestoreChatRoomRepository) CreateMessage(ctx context.Context, room *entity.ChatRoom, message *entity.Message) error {
	if message.ID == "" {
		message.ID = uuid.New().String()
	}
	message.RoomID = room.ID

	roomRef := r.client.Collection("chatRooms").Doc(room.ID)
	msgRef := roomRef.Collection("messages").Doc(message.ID)
	recipient := room.RecipientRole(message.SenderID)

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		if err := tx.Set(msgRef, message); err != nil {
			return err
		}
		return tx.Update(roomRef, []firestore.Update{
			{Path: "lastMessageText", Value: previewText(message)},
			{Path: "lastMessageAt", Value: firestore.ServerTimestamp},
			{Path: "updatedAt", Value: firestore.ServerTimestamp},
			{Path: unreadField(recipient), Value: firestore.Increment(1)},
		})
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return errors.NotFound("Chat room", err)
		}
		return errors.Internal("Failed to send message", err)
	}
	return nil
}

// CreateSystemMessage appends an announcement without touching either unread
// counter.
func (r *firestoreChatRoomRepository) CreateSystemMessage(ctx context.Context, roomID string, message *entity.Message) error {
	if message.ID == "" {
		message.ID = uuid.New().String()
	}
	message.RoomID = roomID
	message.SenderID = entity.SystemSenderID
	message.Type = entity.MessageSystem

	roomRef := r.client.Collection("chatRooms").Doc(roomID)
	msgRef := roomRef.Collection("messages").Doc(message.ID)

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		if err := tx.Set(msgRef, message); err != nil {
			return err
		}
		return tx.Update(roomRef, []firestore.Update{
			{Path: "lastMessageText", Value: message.Text},
			{Path: "lastMessageAt", Value: firestore.ServerTimestamp},
			{Path: "updatedAt", Value: firestore.ServerTimestamp},
		})
	})
	if err != nil {
		return errors.Internal("Failed to create system message", err)
	}
	return nil
}

func (r *firestoreChatRoomRepository) ListMessages(ctx context.Context, roomID string, limit int) ([]*entity.Message, error) {
	query := r.client.Collection("chatRooms").Doc(roomID).Collection("messages").OrderBy("createdAt", firestore.Asc)
	if limit > 0 {
		query = query.LimitToLast(limit)
	}

	iter := query.Documents(ctx)
	defer iter.Stop()

	var messages []*entity.Message
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.Internal("Failed to iterate messages", err)
		}

		var message entity.Message
		if err := doc.DataTo(&message); err != nil {
			return nil, errors.Internal("Failed to parse message data", err)
		}
		messages = append(messages, &message)
	}
	return messages, nil
}

func (r *firestoreChatRoomRepository) ResetUnread(ctx context.Context, roomID string, role entity.RoomRole) error {
	_, err := r.client.Collection("chatRooms").Doc(roomID).Update(ctx, []firestore.Update{
		{Path: unreadField(role), Value: 0},
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return errors.NotFound("Chat room", err)
		}
		return errors.Internal("Failed to reset unread counter", err)
	}
	return nil
}

func (r *firestoreChatRoomRepository) SetLeft(ctx context.Context, roomID string, role entity.RoomRole) error {
	_, err := r.client.Collection("chatRooms").Doc(roomID).Update(ctx, []firestore.Update{
		{Path: leftField(role), Value: true},
		{Path: "updatedAt", Value: firestore.ServerTimestamp},
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return errors.NotFound("Chat room", err)
		}
		return errors.Internal("Failed to leave chat room", err)
	}
	return nil
}

// SubscribeByRole streams full result snapshots for rooms where role's field
// equals userID. Every delivery replaces the previous one wholesale. The
// returned Unsubscribe cancels the stream and is safe to call repeatedly.
func (r *firestoreChatRoomRepository) SubscribeByRole(ctx context.Context, role entity.RoomRole, userID string, fn repository.RoomSnapshotFunc) (repository.Unsubscribe, error) {
	if fn == nil {
		return nil, errors.BadRequest("Snapshot callback is required", nil)
	}

	subCtx, cancel := context.WithCancel(ctx)
	snapshots := r.client.Collection("chatRooms").Where(roleField(role), "==", userID).Snapshots(subCtx)

	go func() {
		defer snapshots.Stop()
		for {
			snap, err := snapshots.Next()
			if err != nil {
				if status.Code(err) == codes.Canceled || subCtx.Err() != nil {
					return
				}
				// Permission loss and other terminal stream errors surface once;
				// the caller decides how to degrade.
				fn(nil, errors.Internal("Chat room subscription failed", err))
				return
			}

			docs, err := snap.Documents.GetAll()
			if err != nil {
				fn(nil, errors.Internal("Failed to read chat room snapshot", err))
				return
			}
			var rooms []*entity.ChatRoom
			for _, doc := range docs {
				var room entity.ChatRoom
				if err := doc.DataTo(&room); err != nil {
					logger.Warn("Skipping undecodable chat room %s: %v", doc.Ref.ID, err)
					continue
				}
				rooms = append(rooms, &room)
			}

			sort.SliceStable(rooms, func(i, j int) bool {
				return rooms[i].LastMessageAt.After(rooms[j].LastMessageAt)
			})
			fn(rooms, nil)
		}
	}()

	return func() { cancel() }, nil
}

func previewText(message *entity.Message) string {
	switch message.Type {
	case entity.MessageSticker:
		return "Sticker"
	case entity.MessageImage:
		return "Photo"
	default:
		return message.Text
	}
}
