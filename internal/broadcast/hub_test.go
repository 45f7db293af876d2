package broadcast

import (
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haidt/agent-engine/internal/engine"
)

// fakeSubscriber records frames and can be told to fail
type fakeSubscriber struct {
	mu     sync.Mutex
	frames [][]byte
	fail   bool
}

func (f *fakeSubscriber) Send(data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return errors.New("connection closed")
	}
	f.frames = append(f.frames, data)
	return nil
}

func (f *fakeSubscriber) received() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.frames)
}

func testSnapshot(id string) engine.Snapshot {
	return engine.Snapshot{
		ID:        id,
		Operation: engine.OpListAgents,
		Status:    engine.StatusRunning,
		Progress:  50,
		Logs:      []string{"working"},
	}
}

func TestBroadcastDeliversToAll(t *testing.T) {
	h := NewHub(slog.Default())
	a := &fakeSubscriber{}
	b := &fakeSubscriber{}
	h.Subscribe(a)
	h.Subscribe(b)

	h.Broadcast(testSnapshot("job-1"))

	assert.Equal(t, 1, a.received())
	assert.Equal(t, 1, b.received())
}

func TestBroadcastFrameShape(t *testing.T) {
	h := NewHub(slog.Default())
	sub := &fakeSubscriber{}
	h.Subscribe(sub)

	h.Broadcast(testSnapshot("job-2"))
	require.Equal(t, 1, sub.received())

	var env Envelope
	require.NoError(t, json.Unmarshal(sub.frames[0], &env))
	assert.Equal(t, "job_update", env.Type)
	assert.Equal(t, "job-2", env.Job.ID)
	assert.Equal(t, engine.StatusRunning, env.Job.Status)
}

func TestFailedSubscriberRemoved(t *testing.T) {
	h := NewHub(slog.Default())
	healthy := &fakeSubscriber{}
	broken := &fakeSubscriber{fail: true}
	h.Subscribe(healthy)
	h.Subscribe(broken)
	require.Equal(t, 2, h.Count())

	h.Broadcast(testSnapshot("job-3"))

	// Failed delivery unsubscribes as a side effect
	assert.Equal(t, 1, h.Count())
	assert.Equal(t, 1, healthy.received())

	// Later broadcasts no longer attempt the broken subscriber
	h.Broadcast(testSnapshot("job-4"))
	assert.Equal(t, 2, healthy.received())
}

func TestSubscribeUnsubscribeIdempotent(t *testing.T) {
	h := NewHub(slog.Default())
	sub := &fakeSubscriber{}

	h.Subscribe(sub)
	h.Subscribe(sub)
	assert.Equal(t, 1, h.Count())

	h.Unsubscribe(sub)
	h.Unsubscribe(sub)
	assert.Equal(t, 0, h.Count())
}

func TestBroadcastWithNoSubscribers(t *testing.T) {
	h := NewHub(slog.Default())
	assert.NotPanics(t, func() {
		h.Broadcast(testSnapshot("job-5"))
	})
}
