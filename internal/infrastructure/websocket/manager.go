package websocket

import (
	"context"
	"log"
	"sync"

	"github.com/gorilla/websocket"
)

// Client represents one authenticated WebSocket connection.
type Client struct {
	UserID string
	Conn   *websocket.Conn
	Send   chan []byte
}

// Session is the per-user realtime state started while a client is
// connected; the unread reconciliation session implements it.
type Session interface {
	Start(ctx context.Context) error
	Stop()
}

// SessionFactory builds a Session for a user; send delivers marshaled events
// to that user's connection.
type SessionFactory func(userID string, send func([]byte)) Session

// Manager manages all active WebSocket connections, chat-room membership and
// the per-user sessions tied to connection lifetime.
type Manager struct {
	clients    map[string]*Client
	sessions   map[string]Session
	rooms      map[string]map[string]bool // roomID -> set of userIDs
	Register   chan *Client
	Unregister chan *Client
	factory    SessionFactory
	mutex      sync.RWMutex
}

func NewManager(factory SessionFactory) *Manager {
	return &Manager{
		clients:    make(map[string]*Client),
		sessions:   make(map[string]Session),
		rooms:      make(map[string]map[string]bool),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		factory:    factory,
	}
}

// Start runs the manager's main loop in a goroutine until ctx is canceled.
func (m *Manager) Start(ctx context.Context) {
	go func() {
		for {
			select {
			case client := <-m.Register:
				m.mutex.Lock()
				// A reconnect replaces the old connection; its session must
				// be stopped before a fresh one starts so no subscription
				// from the prior connection survives.
				if old, ok := m.sessions[client.UserID]; ok {
					old.Stop()
					delete(m.sessions, client.UserID)
				}
				m.clients[client.UserID] = client
				m.mutex.Unlock()

				if m.factory != nil {
					session := m.factory(client.UserID, func(payload []byte) {
						m.SendToUser(client.UserID, payload)
					})
					if err := session.Start(ctx); err != nil {
						log.Printf("Failed to start session for %s: %v", client.UserID, err)
					} else {
						m.mutex.Lock()
						m.sessions[client.UserID] = session
						m.mutex.Unlock()
					}
				}
				log.Printf("Client registered: %s", client.UserID)

			case client := <-m.Unregister:
				m.mutex.Lock()
				var session Session
				// Identity check, not just user id: after a reconnect the old
				// connection's deferred unregister still arrives, and it must
				// not tear down the replacement client or its session.
				if m.clients[client.UserID] == client {
					delete(m.clients, client.UserID)
					close(client.Send)
					session = m.sessions[client.UserID]
					delete(m.sessions, client.UserID)
					for _, members := range m.rooms {
						delete(members, client.UserID)
					}
				}
				m.mutex.Unlock()
				// Session teardown happens before the client is forgotten
				// elsewhere so a late snapshot cannot reach a dead socket.
				if session != nil {
					session.Stop()
				}
				log.Printf("Client unregistered: %s", client.UserID)

			case <-ctx.Done():
				m.mutex.Lock()
				for userID, session := range m.sessions {
					session.Stop()
					delete(m.sessions, userID)
				}
				m.mutex.Unlock()
				return
			}
		}
	}()
}

// SendToUser sends a payload to a specific connected user; not-connected is
// not an error.
func (m *Manager) SendToUser(userID string, payload []byte) {
	m.mutex.RLock()
	client, ok := m.clients[userID]
	m.mutex.RUnlock()

	if !ok {
		return
	}
	select {
	case client.Send <- payload:
	default:
		log.Printf("Send buffer full for %s, dropping connection", userID)
		m.mutex.Lock()
		if m.clients[userID] == client {
			delete(m.clients, userID)
			close(client.Send)
		}
		m.mutex.Unlock()
	}
}

// JoinRoom scopes a connected user into a chat room for message fan-out.
func (m *Manager) JoinRoom(roomID, userID string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if m.rooms[roomID] == nil {
		m.rooms[roomID] = make(map[string]bool)
	}
	m.rooms[roomID][userID] = true
}

func (m *Manager) LeaveRoom(roomID, userID string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	delete(m.rooms[roomID], userID)
}

// SendToRoom delivers a payload to every member of a chat room except the
// excluded user (typically the sender).
func (m *Manager) SendToRoom(roomID string, payload []byte, excludeUserID string) {
	m.mutex.RLock()
	members := make([]string, 0, len(m.rooms[roomID]))
	for userID := range m.rooms[roomID] {
		if userID != excludeUserID {
			members = append(members, userID)
		}
	}
	m.mutex.RUnlock()

	for _, userID := range members {
		m.SendToUser(userID, payload)
	}
}

// ReadPump reads messages from the WebSocket connection.
func (c *Client) ReadPump(m *Manager, handle func(c *Client, message []byte)) {
	defer func() {
		m.Unregister <- c
		c.Conn.Close()
	}()

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("error: %v", err)
			}
			break
		}
		if handle != nil {
			handle(c, message)
		}
	}
}

// WritePump sends messages to the WebSocket connection.
func (c *Client) WritePump() {
	defer c.Conn.Close()

	for {
		message, ok := <-c.Send
		if !ok {
			c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		}

		err := c.Conn.WriteMessage(websocket.TextMessage, message)
		if err != nil {
			log.Printf("error: %v", err)
			return
		}
	}
}
