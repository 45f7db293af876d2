package broadcast

import (
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/haidt/agent-engine/internal/engine"
)

// Subscriber is one live real-time listener. Send delivers a serialized
// update frame; an error means the subscriber is gone.
type Subscriber interface {
	Send(data []byte) error
}

// Envelope is the frame sent to subscribers on every job update
type Envelope struct {
	Type string          `json:"type"`
	Job  engine.Snapshot `json:"job"`
}

// Hub fans job-state updates out to all currently connected subscribers,
// best-effort and at-most-once per broadcast. It implements
// engine.JobListener.
type Hub struct {
	mu          sync.Mutex
	subscribers map[Subscriber]struct{}
	logger      *slog.Logger
}

// NewHub creates an empty Hub
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		subscribers: make(map[Subscriber]struct{}),
		logger:      logger,
	}
}

// Subscribe registers a subscriber. Idempotent.
func (h *Hub) Subscribe(s Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.subscribers[s] = struct{}{}

	h.logger.Debug("Subscriber registered",
		slog.Int("subscribers", len(h.subscribers)),
	)
}

// Unsubscribe removes a subscriber. Idempotent.
func (h *Hub) Unsubscribe(s Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.subscribers, s)
}

// Count returns the number of live subscribers
func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subscribers)
}

// OnJobUpdate satisfies engine.JobListener
func (h *Hub) OnJobUpdate(snapshot engine.Snapshot) {
	h.Broadcast(snapshot)
}

// Broadcast serializes the snapshot once and attempts delivery to every
// subscriber. A subscriber whose delivery fails is dropped from the
// registry as a side effect; there is no redelivery.
func (h *Hub) Broadcast(snapshot engine.Snapshot) {
	data, err := json.Marshal(Envelope{Type: "job_update", Job: snapshot})
	if err != nil {
		h.logger.Error("Failed to serialize job update",
			slog.String("job_id", snapshot.ID),
			slog.Any("error", err),
		)
		return
	}

	h.mu.Lock()
	targets := make([]Subscriber, 0, len(h.subscribers))
	for s := range h.subscribers {
		targets = append(targets, s)
	}
	h.mu.Unlock()

	for _, s := range targets {
		if err := s.Send(data); err != nil {
			h.Unsubscribe(s)
			h.logger.Info("Subscriber dropped after failed delivery",
				slog.String("job_id", snapshot.ID),
				slog.Any("error", err),
			)
		}
	}
}
