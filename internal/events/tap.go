package events

import (
	"context"
	"log/slog"
	"time"

	"github.com/UkemeSkywalker/Quanta/internal/notification"
	"github.com/UkemeSkywalker/Quanta/internal/workflow"
	"github.com/UkemeSkywalker/Quanta/shared/rabbitmq"
)

const publishTimeout = 5 * time.Second

// Tap mirrors every broadcast envelope onto an AMQP exchange so other
// services can observe workflow progress. Publish failures are logged and
// dropped; the tap never blocks or fails the client-facing broadcast path.
type Tap struct {
	client *rabbitmq.Client
	logger *slog.Logger
}

// NewTap creates an event tap over a connected RabbitMQ client.
func NewTap(client *rabbitmq.Client, logger *slog.Logger) *Tap {
	return &Tap{
		client: client,
		logger: logger,
	}
}

// Broadcast publishes the envelope to the exchange.
func (t *Tap) Broadcast(env *notification.Envelope) {
	data, err := env.Encode()
	if err != nil {
		t.logger.Error("Failed to encode envelope for event tap",
			slog.String("type", env.Type),
			slog.String("error", err.Error()),
		)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()

	if err := t.client.Publish(ctx, data, "application/json"); err != nil {
		t.logger.Warn("Event tap publish failed",
			slog.String("type", env.Type),
			slog.String("error", err.Error()),
		)
	}
}

// Fanout delivers each envelope to every wrapped broadcaster in order.
type Fanout struct {
	targets []workflow.Broadcaster
}

// NewFanout combines broadcasters into one.
func NewFanout(targets ...workflow.Broadcaster) *Fanout {
	return &Fanout{targets: targets}
}

// Broadcast forwards the envelope to all targets.
func (f *Fanout) Broadcast(env *notification.Envelope) {
	for _, b := range f.targets {
		b.Broadcast(env)
	}
}
