package entity

import "time"

type MessageType string

const (
	MessageText    MessageType = "text"
	MessageSystem  MessageType = "system"
	MessageSticker MessageType = "sticker"
	MessageImage   MessageType = "image"
)

// SystemSenderID is the sender id carried by system messages (room created,
// favor accepted, and similar announcements).
const SystemSenderID = "system"

type Message struct {
	ID         string      `json:"id" firestore:"id"`
	RoomID     string      `json:"room_id" firestore:"roomId"`
	SenderID   string      `json:"sender_id" firestore:"senderId"`
	SenderName string      `json:"sender_name" firestore:"senderName"`
	Text       string      `json:"text" firestore:"text"`
	Type       MessageType `json:"type" firestore:"type"`
	StickerID  string      `json:"sticker_id,omitempty" firestore:"stickerId,omitempty"`
	ImageURL   string      `json:"image_url,omitempty" firestore:"imageUrl,omitempty"`
	// CreatedAt is server-assigned; it stays the zero value until the server
	// timestamp round-trips, and the message orders last while pending.
	CreatedAt time.Time `json:"created_at" firestore:"createdAt,serverTimestamp"`
}

// Pending reports whether the server write timestamp has not resolved yet.
func (m *Message) Pending() bool {
	return m.CreatedAt.IsZero()
}
