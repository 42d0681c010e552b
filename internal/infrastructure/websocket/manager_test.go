package websocket

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSession struct {
	mu    sync.Mutex
	stops int
}

func (s *stubSession) Start(ctx context.Context) error { return nil }

func (s *stubSession) Stop() {
	s.mu.Lock()
	s.stops++
	s.mu.Unlock()
}

func (s *stubSession) stopCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stops
}

type sessionLog struct {
	mu       sync.Mutex
	sessions []*stubSession
}

func (l *sessionLog) factory(userID string, send func([]byte)) Session {
	s := &stubSession{}
	l.mu.Lock()
	l.sessions = append(l.sessions, s)
	l.mu.Unlock()
	return s
}

func (l *sessionLog) at(i int) *stubSession {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.sessions[i]
}

// drain blocks until the manager loop has processed everything sent before
// it: the channels are unbuffered and the loop is single-threaded, so once a
// registration for a throwaway user is accepted, all prior work is done.
func drain(m *Manager) {
	m.Register <- &Client{UserID: "drain-" + time.Now().String(), Send: make(chan []byte, 1)}
}

func TestManagerReconnectSurvivesStaleUnregister(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	log := &sessionLog{}
	m := NewManager(log.factory)
	m.Start(ctx)

	old := &Client{UserID: "u1", Send: make(chan []byte, 1)}
	fresh := &Client{UserID: "u1", Send: make(chan []byte, 1)}

	m.Register <- old
	m.Register <- fresh
	// The old connection's read loop exits after the reconnect and fires its
	// deferred unregister; the fresh connection must be untouched by it.
	m.Unregister <- old
	drain(m)

	// The reconnect stopped the old session exactly once; the fresh session
	// is still running.
	assert.Equal(t, 1, log.at(0).stopCount())
	assert.Equal(t, 0, log.at(1).stopCount())

	m.SendToUser("u1", []byte(`{"event":"unread_update"}`))
	select {
	case payload, ok := <-fresh.Send:
		require.True(t, ok, "fresh connection's send channel was closed")
		assert.Contains(t, string(payload), "unread_update")
	case <-time.After(time.Second):
		t.Fatal("fresh connection no longer receives events")
	}
}

func TestManagerUnregisterStopsOwnSession(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	log := &sessionLog{}
	m := NewManager(log.factory)
	m.Start(ctx)

	client := &Client{UserID: "u1", Send: make(chan []byte, 1)}
	m.Register <- client
	m.Unregister <- client
	drain(m)

	assert.Equal(t, 1, log.at(0).stopCount())

	// The connection is gone; delivery is a silent no-op.
	m.SendToUser("u1", []byte("x"))
	_, ok := <-client.Send
	assert.False(t, ok)
}
