//go:build !integration

package chat

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, payload []byte) Message {
	t.Helper()
	var m Message
	require.NoError(t, json.Unmarshal(payload, &m))
	return m
}

func TestHubBroadcastSkipsSender(t *testing.T) {
	hub := NewHub()
	hub.now = func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }

	alice := hub.Register()
	bob := hub.Register()
	carol := hub.Register()
	assert.Equal(t, 3, hub.Count())

	for _, s := range []*Session{alice, bob, carol} {
		welcome := decode(t, <-s.Outbox())
		assert.Equal(t, TypeSystem, welcome.Type)
		assert.Equal(t, WelcomeMessage, welcome.Message)
	}

	hub.Broadcast(alice, Incoming{Text: "hello", User: "alice"})

	for _, s := range []*Session{bob, carol} {
		msg := decode(t, <-s.Outbox())
		assert.Equal(t, Message{Type: TypeChat, Message: "hello", User: "alice", Time: "2024-05-01T12:00:00Z"}, msg)
	}

	select {
	case payload := <-alice.Outbox():
		t.Fatalf("sender received its own message: %s", payload)
	default:
	}

	hub.Unregister(bob)
	hub.Unregister(bob)
	assert.Equal(t, 2, hub.Count())
	_, open := <-bob.Outbox()
	assert.False(t, open)
}

func TestHubDropsSlowSessions(t *testing.T) {
	hub := NewHub()
	hub.queueSize = 2

	sender := hub.Register()
	slow := hub.Register()

	for i := 0; i < 3; i++ {
		hub.Broadcast(sender, Incoming{Text: "spam", User: "bot"})
	}

	assert.Equal(t, 1, hub.Count())
	for range slow.Outbox() {
	}
}

func TestServeRelaysBetweenPeers(t *testing.T) {
	hub := NewHub()
	upgrader := websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		hub.Serve(conn)
	}))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	dial := func() *websocket.Conn {
		conn, _, err := websocket.DefaultDialer.Dial(url, nil)
		require.NoError(t, err)
		_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))

		var welcome Message
		require.NoError(t, conn.ReadJSON(&welcome))
		assert.Equal(t, TypeSystem, welcome.Type)
		return conn
	}

	first := dial()
	defer first.Close()
	second := dial()
	defer second.Close()

	require.Eventually(t, func() bool { return hub.Count() == 2 }, time.Second, 10*time.Millisecond)

	require.NoError(t, first.WriteJSON(Incoming{Text: "is this in stock?", User: "alice"}))

	var got Message
	require.NoError(t, second.ReadJSON(&got))
	assert.Equal(t, TypeChat, got.Type)
	assert.Equal(t, "is this in stock?", got.Message)
	assert.Equal(t, "alice", got.User)
	assert.NotEmpty(t, got.Time)

	require.NoError(t, first.Close())
	require.Eventually(t, func() bool { return hub.Count() == 1 }, 2*time.Second, 10*time.Millisecond)
}
