package workflow

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/wolfaudio/studio-mcp/internal/domain/session"
)

// ProgressFunc receives progress notifications from a running workflow. The
// fraction is in [0, 1]. Progress reports are also the workflow's pause
// checkpoints: the agent may block a report while the run is paused.
type ProgressFunc func(message string, fraction float64)

// Result is the sole channel by which workflow outcomes are reported.
// Immutable once constructed.
type Result struct {
	Success   bool      `json:"success"`
	Data      any       `json:"data,omitempty"`
	Error     string    `json:"error,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Succeed builds a successful result carrying data.
func Succeed(data any) Result {
	return Result{Success: true, Data: data, Timestamp: time.Now()}
}

// Fail builds a failed result with a formatted error message.
func Fail(format string, args ...any) Result {
	return Result{Success: false, Error: fmt.Sprintf(format, args...), Timestamp: time.Now()}
}

// Workflow is a named, parameterized, multi-step unit of automated work.
// Execute must report at least a start and a completion progress
// notification and must convert its own internal errors into a failed
// Result rather than returning them; only truly unexpected conditions
// escape, and the agent converts those too.
type Workflow interface {
	Name() string
	Description() string
	RequiredParams() []string
	Init(params map[string]any, mgr *session.Manager) error
	Execute(ctx context.Context, progress ProgressFunc) Result
}

// Metadata describes a registered workflow without executing anything.
type Metadata struct {
	Name           string    `json:"name"`
	Description    string    `json:"description"`
	RequiredParams []string  `json:"required_params"`
	CreatedAt      time.Time `json:"created_at"`
}

// Base carries workflow metadata and the state stored by Init. Concrete
// workflows embed it and read Params/Manager during Execute.
type Base struct {
	name           string
	description    string
	requiredParams []string
	createdAt      time.Time

	Params  map[string]any
	Manager *session.Manager
}

// NewBase creates workflow metadata with the creation time set.
func NewBase(name, description string, requiredParams ...string) Base {
	return Base{
		name:           name,
		description:    description,
		requiredParams: requiredParams,
		createdAt:      time.Now(),
	}
}

// Name returns the registry key for the workflow.
func (b *Base) Name() string { return b.name }

// Description returns the workflow description.
func (b *Base) Description() string { return b.description }

// RequiredParams returns the declared parameter contract.
func (b *Base) RequiredParams() []string { return b.requiredParams }

// Metadata returns the workflow metadata.
func (b *Base) Metadata() Metadata {
	return Metadata{
		Name:           b.name,
		Description:    b.description,
		RequiredParams: b.requiredParams,
		CreatedAt:      b.createdAt,
	}
}

// Init validates that every declared required parameter is present and
// stores the params and context manager for use during execution.
func (b *Base) Init(params map[string]any, mgr *session.Manager) error {
	if params == nil {
		params = map[string]any{}
	}
	var missing []string
	for _, name := range b.requiredParams {
		if _, ok := params[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return &MissingParamsError{Workflow: b.name, Missing: missing}
	}
	b.Params = params
	b.Manager = mgr
	return nil
}

// StringParam returns the named parameter as a string, or fallback.
func (b *Base) StringParam(name, fallback string) string {
	if value, ok := b.Params[name].(string); ok {
		return value
	}
	return fallback
}

// BoolParam returns the named parameter as a bool, or fallback.
func (b *Base) BoolParam(name string, fallback bool) bool {
	if value, ok := b.Params[name].(bool); ok {
		return value
	}
	return fallback
}

func wordCount(s string) int {
	return len(strings.Fields(s))
}
