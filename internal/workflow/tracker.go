package workflow

import (
	"errors"
	"sync"
)

// ErrWorkflowNotFound is returned when a status query names an unknown
// workflow identifier.
var ErrWorkflowNotFound = errors.New("workflow not found")

// Tracker is the host-facing index of in-flight and finished engines,
// keyed by workflow identifier. Engines are never persisted; the tracker
// is empty after a process restart.
type Tracker struct {
	mu      sync.RWMutex
	engines map[string]*Engine
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{
		engines: make(map[string]*Engine),
	}
}

// Add registers an engine under its workflow identifier.
func (t *Tracker) Add(e *Engine) {
	t.mu.Lock()
	t.engines[e.WorkflowID()] = e
	t.mu.Unlock()
}

// Status returns the status and progress percentage of the named workflow.
func (t *Tracker) Status(workflowID string) (Status, float64, error) {
	t.mu.RLock()
	e, ok := t.engines[workflowID]
	t.mu.RUnlock()

	if !ok {
		return "", 0, ErrWorkflowNotFound
	}

	status, progress := e.Status()
	return status, progress, nil
}

// Count returns the number of tracked workflows.
func (t *Tracker) Count() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.engines)
}
