package repository

import (
	"context"

	"pocketspace/internal/domain/entity"
)

// RoomSnapshotFunc receives a full replacement of all rooms matching a live
// query every time the underlying store reports a change. On subscription
// error (permission loss included) it is invoked with a nil slice and the
// error; the subscription is dead afterwards.
type RoomSnapshotFunc func(rooms []*entity.ChatRoom, err error)

// Unsubscribe tears a live subscription down. Implementations must be safe to
// call more than once.
type Unsubscribe func()

type ChatRoomRepository interface {
	Create(ctx context.Context, room *entity.ChatRoom) error
	GetByID(ctx context.Context, id string) (*entity.ChatRoom, error)
	ListByRole(ctx context.Context, role entity.RoomRole, userID string) ([]*entity.ChatRoom, error)

	// CreateMessage appends a message and, in the same transaction, updates
	// the room's last-message fields and atomically increments the recipient
	// role's unread counter.
	CreateMessage(ctx context.Context, room *entity.ChatRoom, message *entity.Message) error
	CreateSystemMessage(ctx context.Context, roomID string, message *entity.Message) error
	ListMessages(ctx context.Context, roomID string, limit int) ([]*entity.Message, error)

	// ResetUnread zeroes the given role's own counter (room-open side effect).
	ResetUnread(ctx context.Context, roomID string, role entity.RoomRole) error
	// SetLeft marks the room hidden for the given role; rooms are never
	// structurally deleted.
	SetLeft(ctx context.Context, roomID string, role entity.RoomRole) error

	// SubscribeByRole opens a live query over rooms where the given role field
	// equals userID, delivering full snapshots until unsubscribed.
	SubscribeByRole(ctx context.Context, role entity.RoomRole, userID string, fn RoomSnapshotFunc) (Unsubscribe, error)
}
