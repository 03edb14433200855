package hub

import (
	"log/slog"

	"github.com/UkemeSkywalker/Quanta/internal/notification"
)

// Session interprets the inbound message stream of one connected client
// and produces replies through the hub's unicast operation. The transport
// owns the read loop and feeds messages in one at a time.
type Session struct {
	clientID string
	conn     Conn
	hub      *Hub
	logger   *slog.Logger
}

// NewSession creates a command handler for one client connection.
func NewSession(clientID string, conn Conn, h *Hub, logger *slog.Logger) *Session {
	return &Session{
		clientID: clientID,
		conn:     conn,
		hub:      h,
		logger:   logger.With(slog.String("client_id", clientID)),
	}
}

// HandleMessage processes one inbound message. Structured ping and
// subscribe commands get their typed replies; everything else is echoed
// back verbatim. Subscriptions are acknowledged only: broadcasts remain
// global and are not filtered per subscriber.
func (s *Session) HandleMessage(data []byte) {
	cmd := notification.DecodeCommand(data)

	switch cmd.Type {
	case notification.CommandPing:
		s.hub.Unicast(s.clientID, notification.NewPong())

	case notification.CommandSubscribe:
		s.logger.Info("Subscription acknowledged",
			slog.String("workflow_id", cmd.WorkflowID),
		)
		s.hub.Unicast(s.clientID, notification.NewSubscriptionConfirmed(cmd.WorkflowID))

	default:
		s.hub.Unicast(s.clientID, notification.NewEcho(cmd.Raw))
	}
}

// Close removes the client's registry entry. Called by the transport when
// the stream ends; no further envelopes are attempted for this client. The
// removal is tied to this session's connection so that a client that
// already reconnected keeps its fresh entry.
func (s *Session) Close() {
	s.hub.DisconnectConn(s.clientID, s.conn)
}
