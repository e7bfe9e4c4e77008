package chat

import (
	"encoding/json"
	"myShopHub/pkg/logger"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

// Serve pumps one websocket connection until it closes. It blocks.
func (h *Hub) Serve(conn *websocket.Conn) {
	session := h.Register()

	done := make(chan struct{})
	go func() {
		defer close(done)
		writePump(conn, session)
	}()

	readPump(h, conn, session)

	h.Unregister(session)
	<-done
}

func readPump(h *Hub, conn *websocket.Conn, session *Session) {
	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Warn("chat connection closed unexpectedly", err)
			}
			return
		}

		var in Incoming
		if err := json.Unmarshal(data, &in); err != nil {
			logger.Warn("ignoring malformed chat message", err, "session_id", session.id)
			continue
		}

		h.Broadcast(session, in)
	}
}

// writePump owns all writes on conn. It ends when the outbox is closed or
// a write fails, and closes the connection on the way out.
func writePump(conn *websocket.Conn, session *Session) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = conn.Close()
	}()

	for {
		select {
		case payload, ok := <-session.Outbox():
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
