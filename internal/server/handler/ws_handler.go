package handler

import (
	"log/slog"
	"net/http"
	"sync"

	"github.com/UkemeSkywalker/Quanta/internal/hub"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Origin policy mirrors the permissive CORS middleware.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// wsConn adapts a gorilla websocket connection to the hub's Conn
// interface. Gorilla allows only one concurrent writer, so Send serializes
// writes; this also preserves per-client envelope order.
type wsConn struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (c *wsConn) Send(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

func (c *wsConn) Close() error {
	return c.conn.Close()
}

// HandleWebSocket handles GET /ws/:client_id
// Upgrades the connection, registers it with the hub and runs the client's
// read loop until the stream ends.
func (h *ResearchHandler) HandleWebSocket(c *gin.Context) {
	clientID := c.Param("client_id")
	if clientID == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "client_id is required",
		})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error("WebSocket upgrade failed",
			slog.String("client_id", clientID),
			slog.String("error", err.Error()),
		)
		return
	}

	wrapped := &wsConn{conn: conn}
	h.hub.Connect(clientID, wrapped)

	session := hub.NewSession(clientID, wrapped, h.hub, h.logger)
	defer session.Close()
	defer conn.Close()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			h.logger.Debug("WebSocket read loop ended",
				slog.String("client_id", clientID),
				slog.String("error", err.Error()),
			)
			return
		}
		session.HandleMessage(data)
	}
}
