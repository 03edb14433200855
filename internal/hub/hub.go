package hub

import (
	"log/slog"
	"sync"

	"github.com/UkemeSkywalker/Quanta/internal/notification"
)

// Conn is the transport-side handle for one connected client. Send must be
// safe for concurrent use and must preserve the order of calls made by a
// single goroutine holding the hub's snapshot.
type Conn interface {
	Send(data []byte) error
	Close() error
}

// Hub is the process-wide connection registry. It owns the mapping from
// client identifier to connection; at most one live connection exists per
// identifier at any time. All structural mutations go through the mutex,
// delivery to individual connections does not.
type Hub struct {
	mu     sync.RWMutex
	conns  map[string]Conn
	logger *slog.Logger
}

// NewHub creates an empty connection registry.
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		conns:  make(map[string]Conn),
		logger: logger,
	}
}

// Connect registers conn under clientID, replacing any prior entry for the
// same identifier. A replaced connection that was still tracked is closed
// here. The new connection immediately receives a connection envelope.
func (h *Hub) Connect(clientID string, conn Conn) {
	h.mu.Lock()
	prev, replaced := h.conns[clientID]
	h.conns[clientID] = conn
	h.mu.Unlock()

	if replaced {
		h.logger.Warn("Replacing existing connection",
			slog.String("client_id", clientID),
		)
		if err := prev.Close(); err != nil {
			h.logger.Debug("Failed to close replaced connection",
				slog.String("client_id", clientID),
				slog.String("error", err.Error()),
			)
		}
	}

	h.logger.Info("Client connected",
		slog.String("client_id", clientID),
		slog.Int("total_connections", h.Count()),
	)

	h.Unicast(clientID, notification.NewConnection(clientID))
}

// Disconnect removes the entry for clientID if present. Idempotent.
func (h *Hub) Disconnect(clientID string) {
	h.mu.Lock()
	_, ok := h.conns[clientID]
	delete(h.conns, clientID)
	h.mu.Unlock()

	if ok {
		h.logger.Info("Client disconnected",
			slog.String("client_id", clientID),
		)
	}
}

// Unicast delivers one envelope to the client registered under clientID.
// An absent clientID is a silent no-op: the client may have disconnected
// between triggering and delivering a response. A delivery failure removes
// the entry.
func (h *Hub) Unicast(clientID string, env *notification.Envelope) {
	h.mu.RLock()
	conn, ok := h.conns[clientID]
	h.mu.RUnlock()

	if !ok {
		return
	}

	data, err := env.Encode()
	if err != nil {
		h.logger.Error("Failed to encode envelope",
			slog.String("type", env.Type),
			slog.String("error", err.Error()),
		)
		return
	}

	if err := conn.Send(data); err != nil {
		h.logger.Warn("Unicast delivery failed, removing client",
			slog.String("client_id", clientID),
			slog.String("error", err.Error()),
		)
		h.remove(clientID, conn)
	}
}

// Broadcast delivers one envelope to every currently registered client.
// The envelope is serialized once and the recipient set is snapshotted at
// the start: clients connecting afterwards do not receive this broadcast.
// Delivery failures are isolated per recipient; every failing client is
// removed after the full pass completes.
func (h *Hub) Broadcast(env *notification.Envelope) {
	data, err := env.Encode()
	if err != nil {
		h.logger.Error("Failed to encode envelope",
			slog.String("type", env.Type),
			slog.String("error", err.Error()),
		)
		return
	}

	h.mu.RLock()
	snapshot := make(map[string]Conn, len(h.conns))
	for id, conn := range h.conns {
		snapshot[id] = conn
	}
	h.mu.RUnlock()

	if len(snapshot) == 0 {
		return
	}

	var failed []string
	for id, conn := range snapshot {
		if err := conn.Send(data); err != nil {
			h.logger.Warn("Broadcast delivery failed",
				slog.String("client_id", id),
				slog.String("type", env.Type),
				slog.String("error", err.Error()),
			)
			failed = append(failed, id)
		}
	}

	for _, id := range failed {
		h.remove(id, snapshot[id])
	}

	h.logger.Debug("Broadcast delivered",
		slog.String("type", env.Type),
		slog.Int("recipients", len(snapshot)-len(failed)),
		slog.Int("failed", len(failed)),
	)
}

// DisconnectConn removes clientID only if it is still registered with the
// given connection. Transports use this when their read loop ends so a
// stale loop cannot evict a replacement connection for the same client.
func (h *Hub) DisconnectConn(clientID string, conn Conn) {
	h.remove(clientID, conn)
}

// Count returns the number of currently registered connections.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns)
}

// remove drops clientID only if it still maps to the same connection the
// failure was observed on. A client that reconnected mid-pass keeps its
// fresh entry.
func (h *Hub) remove(clientID string, conn Conn) {
	h.mu.Lock()
	if current, ok := h.conns[clientID]; ok && current == conn {
		delete(h.conns, clientID)
	}
	h.mu.Unlock()
}
