package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/haidt/agent-engine/internal/pipeline"
	"github.com/haidt/agent-engine/internal/registry"
	"github.com/haidt/agent-engine/internal/store"
)

// ErrJobNotFound is returned when a job id is unknown to the scheduler
var ErrJobNotFound = errors.New("job not found")

// jobKeyPrefix namespaces persisted terminal jobs in the store
const jobKeyPrefix = "job:"

// JobListener receives every job-state mutation, best-effort. The WebSocket
// hub and the optional event publisher both plug in through this.
type JobListener interface {
	OnJobUpdate(snapshot Snapshot)
}

// Scheduler accepts operations, tracks Jobs in an in-memory table, and runs
// each Job in its own goroutine without blocking the caller.
type Scheduler struct {
	mu        sync.RWMutex
	jobs      map[string]*Job
	listeners []JobListener

	registry *registry.Registry
	driver   *pipeline.Driver
	store    store.Store
	logger   *slog.Logger

	startedAt time.Time
}

// NewScheduler creates a Scheduler. The job table lives for the scheduler's
// lifetime; there is no ambient global state.
func NewScheduler(reg *registry.Registry, driver *pipeline.Driver, s store.Store, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		jobs:      make(map[string]*Job),
		registry:  reg,
		driver:    driver,
		store:     s,
		logger:    logger,
		startedAt: time.Now().UTC(),
	}
}

// AddListener registers a listener for job updates
func (s *Scheduler) AddListener(l JobListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, l)
}

// Submit creates a PENDING Job for the operation, schedules its execution
// in the background, and returns immediately with the initial snapshot.
func (s *Scheduler) Submit(op Operation, params Params) Snapshot {
	job := newJob(op)

	s.mu.Lock()
	s.jobs[job.id] = job
	s.mu.Unlock()

	s.logger.Info("Job created",
		slog.String("job_id", job.id),
		slog.String("operation", string(op)),
	)

	snapshot := job.Snapshot()

	// Fire-and-forget: the supervising boundary in execute guarantees a
	// terminal transition even if the handler panics.
	go s.execute(job, params)

	return snapshot
}

// Get returns the current snapshot of a Job's state. Safe to call
// concurrently with the job's own execution.
func (s *Scheduler) Get(jobID string) (Snapshot, error) {
	s.mu.RLock()
	job, ok := s.jobs[jobID]
	s.mu.RUnlock()

	if !ok {
		return Snapshot{}, fmt.Errorf("%w: %s", ErrJobNotFound, jobID)
	}
	return job.Snapshot(), nil
}

// execute runs one Job to a terminal state and broadcasts each transition
func (s *Scheduler) execute(job *Job, params Params) {
	ctx := context.Background()

	defer func() {
		if r := recover(); r != nil {
			job.fail(fmt.Sprintf("internal error: %v", r))
			s.logger.Error("Job handler panicked",
				slog.String("job_id", job.id),
				slog.Any("panic", r),
			)
			s.finish(ctx, job)
		}
	}()

	job.markRunning()
	s.notify(job)

	result, err := s.dispatch(ctx, job, params)
	if err != nil {
		job.fail(err.Error())
		s.logger.Error("Job failed",
			slog.String("job_id", job.id),
			slog.String("operation", string(job.operation)),
			slog.String("error", err.Error()),
		)
	} else {
		job.complete(result)
		s.logger.Info("Job completed",
			slog.String("job_id", job.id),
			slog.String("operation", string(job.operation)),
		)
	}

	s.finish(ctx, job)
}

// finish broadcasts the terminal state and persists the job record.
// A persistence error is logged but cannot un-terminate the job.
func (s *Scheduler) finish(ctx context.Context, job *Job) {
	s.notify(job)

	if err := s.store.Put(ctx, jobKeyPrefix+job.id, job.Snapshot()); err != nil {
		s.logger.Error("Failed to persist terminal job",
			slog.String("job_id", job.id),
			slog.Any("error", err),
		)
	}
}

// notify delivers the job's current snapshot to all listeners
func (s *Scheduler) notify(job *Job) {
	snapshot := job.Snapshot()

	s.mu.RLock()
	listeners := make([]JobListener, len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.RUnlock()

	for _, l := range listeners {
		l.OnJobUpdate(snapshot)
	}
}

// progress raises the job's progress, logs a line, and notifies listeners
func (s *Scheduler) progress(job *Job, p int, line string) {
	job.setProgress(p)
	if line != "" {
		job.appendLog(line)
	}
	s.notify(job)
}

// dispatch routes the operation to its handler. The Operation set is
// closed; anything else is a terminal failure of this Job only.
func (s *Scheduler) dispatch(ctx context.Context, job *Job, params Params) (any, error) {
	switch job.operation {
	case OpRunAgent:
		return s.runAgent(ctx, job, params)
	case OpCreateAgent:
		return s.createAgent(ctx, job, params)
	case OpListAgents:
		return s.listAgents(ctx, job)
	case OpUpdateAgent:
		return s.updateAgent(ctx, job, params)
	case OpDeleteAgent:
		return s.deleteAgent(ctx, job, params)
	case OpGetRegistry:
		return s.getRegistry(ctx, job)
	case OpServerStatus:
		return s.serverStatus(job), nil
	default:
		return nil, fmt.Errorf("unknown operation: %s", job.operation)
	}
}

// Counters summarizes the scheduler's job table
type Counters struct {
	Total     int   `json:"jobs_total"`
	Pending   int   `json:"jobs_pending"`
	Running   int   `json:"jobs_running"`
	Completed int   `json:"jobs_completed"`
	Failed    int   `json:"jobs_failed"`
	UptimeSec int64 `json:"uptime_seconds"`
}

// Status returns current job counters and uptime
func (s *Scheduler) Status() Counters {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c := Counters{
		Total:     len(s.jobs),
		UptimeSec: int64(time.Since(s.startedAt).Seconds()),
	}
	for _, job := range s.jobs {
		switch job.currentStatus() {
		case StatusPending:
			c.Pending++
		case StatusRunning:
			c.Running++
		case StatusCompleted:
			c.Completed++
		case StatusFailed:
			c.Failed++
		}
	}
	return c
}
