package engine

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Status is the lifecycle state of a Job
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusRunning   Status = "RUNNING"
	StatusCompleted Status = "COMPLETED"
	StatusFailed    Status = "FAILED"
)

// Terminal reports whether the status is final
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Snapshot is a point-in-time copy of a Job's state. It is the JSON shape
// served over HTTP and WebSocket.
type Snapshot struct {
	ID          string     `json:"id"`
	Operation   Operation  `json:"operation"`
	Status      Status     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	Progress    int        `json:"progress"`
	Logs        []string   `json:"logs"`
	Result      any        `json:"result,omitempty"`
	Error       string     `json:"error,omitempty"`
}

// Job is one tracked unit of asynchronous work. Its mutable fields are
// written only by the goroutine executing it; the internal lock exists so
// concurrent readers get consistent snapshots.
type Job struct {
	mu sync.Mutex

	id          string
	operation   Operation
	status      Status
	createdAt   time.Time
	startedAt   *time.Time
	completedAt *time.Time
	progress    int
	logs        []string
	result      any
	err         string
}

func newJob(op Operation) *Job {
	return &Job{
		id:        uuid.New().String(),
		operation: op,
		status:    StatusPending,
		createdAt: time.Now().UTC(),
		logs:      []string{},
	}
}

// ID returns the job's stable identifier
func (j *Job) ID() string {
	return j.id
}

// Snapshot returns a consistent copy of the job's current state
func (j *Job) Snapshot() Snapshot {
	j.mu.Lock()
	defer j.mu.Unlock()

	logs := make([]string, len(j.logs))
	copy(logs, j.logs)

	return Snapshot{
		ID:          j.id,
		Operation:   j.operation,
		Status:      j.status,
		CreatedAt:   j.createdAt,
		StartedAt:   j.startedAt,
		CompletedAt: j.completedAt,
		Progress:    j.progress,
		Logs:        logs,
		Result:      j.result,
		Error:       j.err,
	}
}

// currentStatus returns just the status, without copying the snapshot
func (j *Job) currentStatus() Status {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.status
}

// appendLog adds a human-readable log line
func (j *Job) appendLog(line string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.logs = append(j.logs, line)
}

// setProgress raises the progress value. Progress is monotone within a run;
// lower values are ignored.
func (j *Job) setProgress(p int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if p > 100 {
		p = 100
	}
	if p > j.progress {
		j.progress = p
	}
}

// markRunning transitions PENDING -> RUNNING
func (j *Job) markRunning() {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.status != StatusPending {
		return
	}
	now := time.Now().UTC()
	j.status = StatusRunning
	j.startedAt = &now
	j.logs = append(j.logs, "Starting execution of operation: "+string(j.operation))
}

// complete transitions to COMPLETED with a result. No-op on terminal jobs.
func (j *Job) complete(result any) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.status.Terminal() {
		return
	}
	now := time.Now().UTC()
	j.status = StatusCompleted
	j.completedAt = &now
	j.result = result
	j.err = ""
	j.progress = 100
	j.logs = append(j.logs, "Operation completed successfully")
}

// fail transitions to FAILED with an error message. No-op on terminal jobs.
func (j *Job) fail(msg string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.status.Terminal() {
		return
	}
	now := time.Now().UTC()
	j.status = StatusFailed
	j.completedAt = &now
	j.result = nil
	j.err = msg
	j.logs = append(j.logs, "Operation failed: "+msg)
}
