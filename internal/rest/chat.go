package rest

import (
	"myShopHub/internal/chat"
	"myShopHub/pkg/logger"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

type ChatHandler struct {
	hub      *chat.Hub
	upgrader websocket.Upgrader
}

func NewChatHandler(hub *chat.Hub) *ChatHandler {
	return &ChatHandler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
}

// Connect upgrades to a websocket and relays chat until the peer leaves.
func (h *ChatHandler) Connect(c echo.Context) error {
	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		logger.Warn("Failed to upgrade chat connection", err)
		return nil
	}

	h.hub.Serve(conn)
	return nil
}
