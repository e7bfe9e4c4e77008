package chat

import (
	"encoding/json"
	"myShopHub/pkg/logger"
	"myShopHub/pkg/metrics"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	TypeSystem = "system"
	TypeChat   = "chat"

	WelcomeMessage = "Welcome to customer support! How can we help you?"

	defaultQueueSize = 32
)

// Message is what peers receive.
type Message struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	User    string `json:"user"`
	Time    string `json:"time,omitempty"`
}

// Incoming is what peers send.
type Incoming struct {
	Text string `json:"text"`
	User string `json:"user"`
}

type Session struct {
	id   string
	send chan []byte
}

func (s *Session) ID() string {
	return s.id
}

// Outbox yields the encoded messages queued for this session. It is closed
// when the session is unregistered.
func (s *Session) Outbox() <-chan []byte {
	return s.send
}

// Hub is the registry of connected chat sessions. Delivery is best effort:
// a session whose queue is full is dropped.
type Hub struct {
	mu        sync.RWMutex
	sessions  map[string]*Session
	queueSize int
	now       func() time.Time
}

func NewHub() *Hub {
	return &Hub{
		sessions:  make(map[string]*Session),
		queueSize: defaultQueueSize,
		now:       time.Now,
	}
}

// Register adds a session and queues the welcome message for it.
func (h *Hub) Register() *Session {
	s := &Session{
		id:   uuid.NewString(),
		send: make(chan []byte, h.queueSize),
	}

	welcome, _ := json.Marshal(Message{Type: TypeSystem, Message: WelcomeMessage, User: "System"})
	s.send <- welcome

	h.mu.Lock()
	h.sessions[s.id] = s
	h.mu.Unlock()

	metrics.ChatSessionsActive.Inc()
	logger.Debug("chat session connected", "session_id", s.id)

	return s
}

// Unregister removes the session and closes its outbox. Calling it more
// than once is safe.
func (h *Hub) Unregister(s *Session) {
	h.mu.Lock()
	if _, ok := h.sessions[s.id]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.sessions, s.id)
	close(s.send)
	h.mu.Unlock()

	metrics.ChatSessionsActive.Dec()
	logger.Debug("chat session disconnected", "session_id", s.id)
}

func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions)
}

// Broadcast stamps the message with the server time and queues it for
// every session except the sender.
func (h *Hub) Broadcast(from *Session, in Incoming) {
	payload, err := json.Marshal(Message{
		Type:    TypeChat,
		Message: in.Text,
		User:    in.User,
		Time:    h.now().Format(time.RFC3339),
	})
	if err != nil {
		logger.Error("Failed to encode chat message", err)
		return
	}

	var slow []*Session

	h.mu.RLock()
	for id, s := range h.sessions {
		if from != nil && id == from.id {
			continue
		}
		select {
		case s.send <- payload:
		default:
			slow = append(slow, s)
		}
	}
	h.mu.RUnlock()

	for _, s := range slow {
		logger.Warn("dropping slow chat session", "session_id", s.id)
		h.Unregister(s)
	}
}
