package capability

import (
	"context"
	"sync"
	"time"

	"github.com/wolfaudio/studio-mcp/internal/domain/session"
)

// Tool is a uniform invoke-with-parameters capability. Implementations own
// parameter validation and return an error on unrecoverable input rather
// than a sentinel value.
type Tool interface {
	Name() string
	Description() string
	Execute(ctx context.Context, params map[string]any, sctx *session.Context) (any, error)
	Metadata() ToolMetadata
}

// ToolMetadata describes a registered tool.
type ToolMetadata struct {
	Name           string    `json:"name"`
	Description    string    `json:"description"`
	Parameters     []string  `json:"parameters"`
	CreatedAt      time.Time `json:"created_at"`
	ExecutionCount int64     `json:"execution_count"`
}

// ToolInfo provides the metadata half of the Tool contract for embedding in
// concrete tools.
type ToolInfo struct {
	name        string
	description string
	parameters  []string
	createdAt   time.Time

	mu         sync.Mutex
	executions int64
}

// NewToolInfo creates tool metadata with the creation time set.
func NewToolInfo(name, description string, parameters ...string) ToolInfo {
	return ToolInfo{
		name:        name,
		description: description,
		parameters:  parameters,
		createdAt:   time.Now(),
	}
}

// Name returns the registry key for the tool.
func (t *ToolInfo) Name() string { return t.name }

// Description returns the tool description.
func (t *ToolInfo) Description() string { return t.description }

// RecordExecution increments the execution counter.
func (t *ToolInfo) RecordExecution() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.executions++
}

// Metadata returns a snapshot of the tool metadata.
func (t *ToolInfo) Metadata() ToolMetadata {
	t.mu.Lock()
	defer t.mu.Unlock()
	return ToolMetadata{
		Name:           t.name,
		Description:    t.description,
		Parameters:     t.parameters,
		CreatedAt:      t.createdAt,
		ExecutionCount: t.executions,
	}
}
