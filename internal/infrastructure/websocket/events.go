package websocket

// Event types pushed to clients.
const (
	EventUnreadUpdate = "unread_update"
	EventMessageNew   = "message_new"
	EventRoomUpdate   = "room_update"
)

// Client-to-server message types.
const (
	ActionJoinRoom  = "join_room"
	ActionLeaveRoom = "leave_room"
	ActionPing      = "ping"
)

// Envelope is the wire format in both directions.
type Envelope struct {
	Type   string      `json:"type"`
	RoomID string      `json:"room_id,omitempty"`
	Data   interface{} `json:"data,omitempty"`
}
