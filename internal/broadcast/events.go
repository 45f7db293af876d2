package broadcast

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/haidt/agent-engine/internal/engine"
	"github.com/haidt/agent-engine/shared/rabbitmq"
)

// EventPublisher mirrors job updates onto a message exchange so external
// consumers can follow job lifecycles without holding a WebSocket. It
// implements engine.JobListener and is optional: the service runs fine
// without a broker configured.
type EventPublisher struct {
	client *rabbitmq.Client
	logger *slog.Logger
}

// NewEventPublisher wraps a connected RabbitMQ client
func NewEventPublisher(client *rabbitmq.Client, logger *slog.Logger) *EventPublisher {
	return &EventPublisher{
		client: client,
		logger: logger,
	}
}

// OnJobUpdate publishes the snapshot, best-effort. Publish failures are
// logged and never affect the job.
func (p *EventPublisher) OnJobUpdate(snapshot engine.Snapshot) {
	data, err := json.Marshal(Envelope{Type: "job_update", Job: snapshot})
	if err != nil {
		p.logger.Error("Failed to serialize job event",
			slog.String("job_id", snapshot.ID),
			slog.Any("error", err),
		)
		return
	}

	if err := p.client.Publish(context.Background(), data); err != nil {
		p.logger.Warn("Failed to publish job event",
			slog.String("job_id", snapshot.ID),
			slog.Any("error", err),
		)
	}
}
