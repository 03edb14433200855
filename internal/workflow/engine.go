package workflow

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/UkemeSkywalker/Quanta/internal/notification"
)

// Workflow status values
type Status string

const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Broadcaster is the delivery side the engine pushes envelopes through.
// The connection hub satisfies it.
type Broadcaster interface {
	Broadcast(env *notification.Envelope)
}

// RunFunc performs one stage's work and yields its textual result or an
// error. Implementations delegate to a real agent or simulate the work;
// the state machine is the same either way.
type RunFunc func(ctx context.Context, stage Stage, input string) (string, error)

// SimulateRun returns a RunFunc that waits for the stage's configured
// duration and produces a canned result. It only fails when the context
// ends before the stage does.
func SimulateRun() RunFunc {
	return func(ctx context.Context, stage Stage, input string) (string, error) {
		select {
		case <-time.After(stage.Duration):
			return fmt.Sprintf("%s stage produced results for: %s", stage.Name, input), nil
		case <-ctx.Done():
			return "", fmt.Errorf("stage %s interrupted: %w", stage.Name, ctx.Err())
		}
	}
}

// Config holds everything an engine instance needs at construction.
type Config struct {
	WorkflowID  string
	UserID      string
	Query       string
	Stages      []Stage
	Broadcaster Broadcaster
	Run         RunFunc
	Logger      *slog.Logger
}

// Engine is the progress state machine for one workflow instance. It walks
// its stages strictly in order in a single goroutine, pushing an envelope
// at every transition. Status and progress are the only state readable
// from outside; everything else is mutated solely by the advancement
// goroutine.
type Engine struct {
	workflowID  string
	userID      string
	query       string
	stages      []Stage
	broadcaster Broadcaster
	run         RunFunc
	logger      *slog.Logger

	mu        sync.Mutex
	status    Status
	completed int
}

// NewEngine creates an engine in the pending state. The simulated runner
// is used when cfg.Run is nil.
func NewEngine(cfg *Config) *Engine {
	run := cfg.Run
	if run == nil {
		run = SimulateRun()
	}

	return &Engine{
		workflowID:  cfg.WorkflowID,
		userID:      cfg.UserID,
		query:       cfg.Query,
		stages:      cfg.Stages,
		broadcaster: cfg.Broadcaster,
		run:         run,
		logger: cfg.Logger.With(
			slog.String("workflow_id", cfg.WorkflowID),
			slog.String("user_id", cfg.UserID),
		),
		status: StatusPending,
	}
}

// WorkflowID returns the engine's workflow identifier.
func (e *Engine) WorkflowID() string {
	return e.workflowID
}

// Start launches the advancement goroutine. Each engine advances
// independently; envelopes from different workflows may interleave on the
// shared broadcaster, but one workflow's own sequence is strictly ordered.
func (e *Engine) Start(ctx context.Context) {
	go e.advance(ctx)
}

// Status returns the current overall status and progress percentage.
func (e *Engine) Status() (Status, float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.status, e.progressLocked()
}

func (e *Engine) progressLocked() float64 {
	if len(e.stages) == 0 {
		return 100
	}
	return float64(e.completed) / float64(len(e.stages)) * 100
}

func (e *Engine) setStatus(s Status) {
	e.mu.Lock()
	e.status = s
	e.mu.Unlock()
}

func (e *Engine) markStageDone() {
	e.mu.Lock()
	e.completed++
	e.mu.Unlock()
}

// advance walks the stage sequence to a terminal state. Once running, a
// workflow always reaches completed or failed; disconnecting every client
// does not stop it, broadcasts to zero recipients are no-ops.
func (e *Engine) advance(ctx context.Context) {
	e.setStatus(StatusRunning)
	e.logger.Info("Workflow started",
		slog.Int("stages", len(e.stages)),
		slog.String("query", e.query),
	)

	n := len(e.stages)
	input := e.query

	for i, stage := range e.stages {
		startProgress := float64(i) / float64(n) * 100
		e.broadcaster.Broadcast(notification.NewAgentStatus(
			e.workflowID, e.userID, stage.Name,
			notification.StatusProcessing, stage.Message, startProgress,
		))

		result, err := e.run(ctx, stage, input)
		if err != nil {
			e.setStatus(StatusFailed)
			e.logger.Error("Stage failed, aborting workflow",
				slog.String("stage", stage.Name),
				slog.String("error", err.Error()),
			)
			e.broadcaster.Broadcast(notification.NewWorkflowFailed(
				e.workflowID, e.userID, stage.Name, err.Error(), startProgress,
			))
			return
		}

		e.markStageDone()
		doneProgress := float64(i+1) / float64(n) * 100
		e.broadcaster.Broadcast(notification.NewAgentStatus(
			e.workflowID, e.userID, stage.Name,
			notification.StatusCompleted,
			fmt.Sprintf("%s stage completed", stage.Name), doneProgress,
		))

		e.logger.Info("Stage completed",
			slog.String("stage", stage.Name),
			slog.Float64("progress", doneProgress),
		)

		// Each stage feeds its result to the next.
		input = result
	}

	e.setStatus(StatusCompleted)
	summary := fmt.Sprintf("Workflow completed: %d stages finished for query %q", n, e.query)
	e.broadcaster.Broadcast(notification.NewWorkflowCompleted(
		e.workflowID, e.userID, n, TotalDuration(e.stages), summary,
	))

	e.logger.Info("Workflow completed",
		slog.Int("stages_completed", n),
	)
}
