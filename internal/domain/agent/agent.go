package agent

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/wolfaudio/studio-mcp/internal/domain/session"
	"github.com/wolfaudio/studio-mcp/internal/domain/workflow"
)

// Execution history keeps the most recent entries only.
const maxHistory = 100

// ProgressEvent is one progress notification fanned out to subscribers and
// mirrored into the activity log.
type ProgressEvent struct {
	Message  string  `json:"message"`
	Progress float64 `json:"progress"`
	Status   Status  `json:"status"`
	Workflow string  `json:"workflow,omitempty"`
}

// Subscriber receives progress events. Subscribers must be fast; they are
// invoked inline on the executing goroutine.
type Subscriber func(ProgressEvent)

// ExecutionRecord is one entry in the agent's bounded execution history.
type ExecutionRecord struct {
	RunID     string         `json:"run_id"`
	Workflow  string         `json:"workflow"`
	Params    map[string]any `json:"params,omitempty"`
	Success   bool           `json:"success"`
	Error     string         `json:"error,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

// StatusInfo reports the agent's current state.
type StatusInfo struct {
	Status                Status `json:"status"`
	CurrentWorkflow       string `json:"current_workflow,omitempty"`
	QueueLength           int    `json:"queue_length"`
	HistoryCount          int    `json:"history_count"`
	ConfirmationsRequired bool   `json:"user_confirmations_required"`
	Running               bool   `json:"is_running"`
}

// Agent executes one workflow at a time through the status state machine.
// A second request while busy fails fast; there is no queueing. Progress
// notifications go to every subscriber and to the context manager's
// activity log. Progress reports double as pause checkpoints: a paused run
// blocks at its next report until resumed or stopped, and stopping cancels
// the run's context.
type Agent struct {
	mu            sync.Mutex
	cond          *sync.Cond
	status        Status
	current       workflow.Workflow
	cancelRun     context.CancelFunc
	queue         []workflow.Workflow // never filled: busy requests fail fast
	history       []ExecutionRecord
	subscribers   []Subscriber
	confirmations bool
	running       bool

	mgr    *session.Manager
	logger *slog.Logger
}

// New creates an idle agent logging progress through the given manager.
func New(mgr *session.Manager, logger *slog.Logger) *Agent {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	a := &Agent{
		status:        StatusIdle,
		confirmations: true,
		mgr:           mgr,
		logger:        logger,
	}
	a.cond = sync.NewCond(&a.mu)
	return a
}

// Subscribe registers a progress subscriber.
func (a *Agent) Subscribe(sub Subscriber) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.subscribers = append(a.subscribers, sub)
}

// RequireConfirmations toggles the user-confirmation flag reported by
// StatusInfo.
func (a *Agent) RequireConfirmations(required bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.confirmations = required
}

// ExecuteWorkflow runs a single workflow to completion. The returned result
// is always structured: initialization and execution failures, panics, and
// a busy agent all surface as a failed result, never as an error or panic.
// The agent returns to idle with the current workflow cleared regardless of
// outcome.
func (a *Agent) ExecuteWorkflow(ctx context.Context, wf workflow.Workflow, params map[string]any) workflow.Result {
	a.mu.Lock()
	if a.status != StatusIdle {
		a.mu.Unlock()
		return workflow.Fail("agent is busy")
	}
	a.status = StatusPlanning
	a.current = wf
	a.running = true
	runCtx, cancel := context.WithCancel(ctx)
	a.cancelRun = cancel
	a.mu.Unlock()

	runID := uuid.NewString()
	a.logger.Info("workflow starting", "workflow", wf.Name(), "run_id", runID)

	defer func() {
		cancel()
		a.mu.Lock()
		a.current = nil
		a.cancelRun = nil
		a.status = StatusIdle
		a.running = false
		a.cond.Broadcast()
		a.mu.Unlock()
	}()

	// Wake a paused run if the caller's context is cancelled.
	go func() {
		<-runCtx.Done()
		a.mu.Lock()
		a.cond.Broadcast()
		a.mu.Unlock()
	}()

	a.notify("Starting workflow: "+wf.Name(), 0.0)

	if err := wf.Init(params, a.mgr); err != nil {
		result := workflow.Fail("workflow failed: %v", err)
		a.finishRun(StatusError, result.Error, 0.0)
		a.record(runID, wf.Name(), params, result)
		return result
	}

	a.setStatus(StatusExecuting)
	result, panicked := a.runSafely(runCtx, wf)

	// A workflow that reports failure through its result still completed
	// normally; only a panic escaping Execute is an agent-level error.
	if panicked {
		a.finishRun(StatusError, result.Error, 0.0)
	} else {
		a.finishRun(StatusCompleted, "Workflow completed: "+wf.Name(), 1.0)
	}
	a.record(runID, wf.Name(), params, result)

	return result
}

// runSafely invokes the workflow, converting a panic into a failed result.
func (a *Agent) runSafely(ctx context.Context, wf workflow.Workflow) (result workflow.Result, panicked bool) {
	defer func() {
		if r := recover(); r != nil {
			a.logger.Error("workflow panicked", "workflow", wf.Name(), "panic", r)
			result = workflow.Fail("workflow failed: %v", r)
			panicked = true
		}
	}()
	return wf.Execute(ctx, a.progressFunc(ctx)), false
}

// progressFunc returns the callback handed to the workflow. Each report
// first passes the pause gate, then fans out.
func (a *Agent) progressFunc(ctx context.Context) workflow.ProgressFunc {
	return func(message string, fraction float64) {
		a.gate(ctx)
		a.notify(message, fraction)
	}
}

// gate blocks while the agent is paused. It opens on resume, stop, or
// cancellation of the run's context.
func (a *Agent) gate(ctx context.Context) {
	a.mu.Lock()
	for a.status == StatusPaused && ctx.Err() == nil {
		a.cond.Wait()
	}
	a.mu.Unlock()
}

// finishRun transitions to a terminal status and emits the final progress
// notification. A stopped run has already returned to idle; its terminal
// transition is skipped.
func (a *Agent) finishRun(terminal Status, message string, fraction float64) {
	a.mu.Lock()
	if !a.status.CanTransition(terminal) {
		a.mu.Unlock()
		return
	}
	a.status = terminal
	a.mu.Unlock()
	a.notify(message, fraction)
}

func (a *Agent) setStatus(next Status) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.status.CanTransition(next) {
		a.logger.Warn("illegal status transition", "from", a.status, "to", next)
		return
	}
	a.status = next
}

// notify fans a progress event out to subscribers and mirrors it into the
// activity log.
func (a *Agent) notify(message string, fraction float64) {
	a.mu.Lock()
	event := ProgressEvent{
		Message:  message,
		Progress: fraction,
		Status:   a.status,
	}
	if a.current != nil {
		event.Workflow = a.current.Name()
	}
	subscribers := make([]Subscriber, len(a.subscribers))
	copy(subscribers, a.subscribers)
	a.mu.Unlock()

	for _, sub := range subscribers {
		sub(event)
	}

	if a.mgr != nil {
		a.mgr.LogActivity(session.Activity{
			Type: session.TypeAgentProgress,
			Fields: map[string]any{
				"message":  event.Message,
				"progress": event.Progress,
				"status":   string(event.Status),
				"workflow": event.Workflow,
			},
		})
	}
}

func (a *Agent) record(runID, name string, params map[string]any, result workflow.Result) {
	a.mu.Lock()
	a.history = append(a.history, ExecutionRecord{
		RunID:     runID,
		Workflow:  name,
		Params:    params,
		Success:   result.Success,
		Error:     result.Error,
		Timestamp: time.Now(),
	})
	if len(a.history) > maxHistory {
		a.history = a.history[len(a.history)-maxHistory:]
	}
	a.mu.Unlock()
}

// Pause requests a pause. It succeeds only while executing; the run blocks
// at its next progress report.
func (a *Agent) Pause() bool {
	a.mu.Lock()
	if a.status != StatusExecuting {
		a.mu.Unlock()
		return false
	}
	a.status = StatusPaused
	a.mu.Unlock()
	a.notify("Workflow paused", 0.0)
	return true
}

// Resume lifts a pause. It succeeds only while paused.
func (a *Agent) Resume() bool {
	a.mu.Lock()
	if a.status != StatusPaused {
		a.mu.Unlock()
		return false
	}
	a.status = StatusExecuting
	a.cond.Broadcast()
	a.mu.Unlock()
	a.notify("Workflow resumed", 0.0)
	return true
}

// Stop aborts the current run. It succeeds from executing or paused,
// cancels the run's context, clears the current workflow, and returns the
// agent to idle.
func (a *Agent) Stop() bool {
	a.mu.Lock()
	if a.status != StatusExecuting && a.status != StatusPaused {
		a.mu.Unlock()
		return false
	}
	a.status = StatusIdle
	a.current = nil
	if a.cancelRun != nil {
		a.cancelRun()
	}
	a.cond.Broadcast()
	a.mu.Unlock()
	a.notify("Workflow stopped", 0.0)
	return true
}

// StatusInfo returns the agent's current state.
func (a *Agent) StatusInfo() StatusInfo {
	a.mu.Lock()
	defer a.mu.Unlock()
	info := StatusInfo{
		Status:                a.status,
		QueueLength:           len(a.queue),
		HistoryCount:          len(a.history),
		ConfirmationsRequired: a.confirmations,
		Running:               a.running,
	}
	if a.current != nil {
		info.CurrentWorkflow = a.current.Name()
	}
	return info
}

// ExecutionHistory returns the most recent limit entries, oldest first.
func (a *Agent) ExecutionHistory(limit int) []ExecutionRecord {
	a.mu.Lock()
	defer a.mu.Unlock()
	history := a.history
	if limit > 0 && len(history) > limit {
		history = history[len(history)-limit:]
	}
	out := make([]ExecutionRecord, len(history))
	copy(out, history)
	return out
}
