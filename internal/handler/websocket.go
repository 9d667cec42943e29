package handler

import (
	"net/http"
	"strconv"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	ws "github.com/zizouhuweidi/trivia/internal/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins, as the REST routes do by default
	},
}

// WebSocketHandler streams question events to websocket clients
type WebSocketHandler struct {
	hub *ws.Hub
}

// NewWebSocketHandler creates a new WebSocket handler
func NewWebSocketHandler(hub *ws.Hub) *WebSocketHandler {
	return &WebSocketHandler{
		hub: hub,
	}
}

// Register registers the feed route
func (h *WebSocketHandler) Register(e *echo.Echo) {
	e.GET("/ws/questions", h.HandleWebSocket)
}

// HandleWebSocket upgrades the connection and subscribes it to question
// events, optionally limited to ?category=N
func (h *WebSocketHandler) HandleWebSocket(c echo.Context) error {
	category := 0
	if raw := c.QueryParam("category"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil || id < 0 {
			return abort(http.StatusBadRequest, err)
		}
		category = id
	}

	conn, err := upgrader.Upgrade(c.Response().Writer, c.Request(), nil)
	if err != nil {
		// Upgrade has already written the error response
		return nil
	}

	h.hub.Register(ws.NewClient(h.hub, conn, category))
	return nil
}
