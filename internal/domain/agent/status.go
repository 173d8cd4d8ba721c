package agent

// Status is the agent's execution state.
type Status string

const (
	StatusIdle      Status = "idle"
	StatusPlanning  Status = "planning"
	StatusExecuting Status = "executing"
	StatusPaused    Status = "paused"
	StatusCompleted Status = "completed"
	StatusError     Status = "error"
)

// transitions is the closed set of legal status changes. Terminal states
// reset to idle once bookkeeping completes.
var transitions = map[Status][]Status{
	StatusIdle:      {StatusPlanning},
	StatusPlanning:  {StatusExecuting, StatusError},
	StatusExecuting: {StatusPaused, StatusCompleted, StatusError, StatusIdle},
	StatusPaused:    {StatusExecuting, StatusError, StatusIdle},
	StatusCompleted: {StatusIdle},
	StatusError:     {StatusIdle},
}

// CanTransition reports whether moving from s to next is legal.
func (s Status) CanTransition(next Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}
