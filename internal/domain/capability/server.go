package capability

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/wolfaudio/studio-mcp/internal/domain/session"
)

// Result strings logged after a successful tool execution are truncated to
// this many characters.
const maxLoggedResultLen = 200

// Server is the capability registry and uniform execution wrapper. Every
// tool execution is bracketed with before/after/error activity logging
// against the wrapped context.
type Server struct {
	mu        sync.Mutex
	resources map[string]Resource
	tools     map[string]Tool
	sctx      *session.Context
	logger    *slog.Logger
	startedAt time.Time
	running   bool
}

// ServerInfo reports server status and capability counts.
type ServerInfo struct {
	Resources  int       `json:"resources"`
	Tools      int       `json:"tools"`
	Activities int       `json:"context_activities"`
	StartedAt  time.Time `json:"started_at,omitzero"`
	Running    bool      `json:"is_running"`
}

// NewServer creates a capability server logging against the given context.
func NewServer(sctx *session.Context, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Server{
		resources: map[string]Resource{},
		tools:     map[string]Tool{},
		sctx:      sctx,
		logger:    logger,
	}
}

// RegisterResource inserts a resource into the registry. The last
// registration for a given name wins.
func (s *Server) RegisterResource(r Resource) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resources[r.Name()] = r
	s.logger.Info("resource registered", "name", r.Name())
}

// RegisterTool inserts a tool into the registry. The last registration for a
// given name wins.
func (s *Server) RegisterTool(t Tool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tools[t.Name()] = t
	s.logger.Info("tool registered", "name", t.Name())
}

// Resource returns the resource registered under name.
func (s *Server) Resource(name string) (Resource, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.resources[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrResourceNotFound, name)
	}
	return r, nil
}

// Tool returns the tool registered under name.
func (s *Server) Tool(name string) (Tool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tools[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrToolNotFound, name)
	}
	return t, nil
}

// ListResources returns the registered resource names, sorted.
func (s *Server) ListResources() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, 0, len(s.resources))
	for name := range s.resources {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ListTools returns the registered tool names, sorted.
func (s *Server) ListTools() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, 0, len(s.tools))
	for name := range s.tools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ExecuteTool executes the named tool. A tool_execution activity is logged
// before invocation; on success a tool_result activity carries the result
// truncated to 200 characters; on failure a tool_error activity carries the
// error message and the error is returned to the caller. The server does not
// swallow tool failures.
func (s *Server) ExecuteTool(ctx context.Context, name string, params map[string]any) (any, error) {
	tool, err := s.Tool(name)
	if err != nil {
		return nil, err
	}

	s.sctx.AddActivity(session.Activity{
		Type: session.TypeToolExecution,
		Fields: map[string]any{
			"tool":       name,
			"parameters": params,
		},
	})

	result, err := tool.Execute(ctx, params, s.sctx)
	if err != nil {
		s.sctx.AddActivity(session.Activity{
			Type: session.TypeToolError,
			Fields: map[string]any{
				"tool":  name,
				"error": err.Error(),
			},
		})
		return nil, fmt.Errorf("executing tool %s: %w", name, err)
	}

	s.sctx.AddActivity(session.Activity{
		Type: session.TypeToolResult,
		Fields: map[string]any{
			"tool":   name,
			"result": truncate(fmt.Sprint(result), maxLoggedResultLen),
		},
	})

	return result, nil
}

// Info returns server status and capability counts.
func (s *Server) Info() ServerInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ServerInfo{
		Resources:  len(s.resources),
		Tools:      len(s.tools),
		Activities: s.sctx.ActivityCount(),
		StartedAt:  s.startedAt,
		Running:    s.running,
	}
}

// Start marks the server running. No resource setup is implied.
func (s *Server) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.running = true
	s.startedAt = time.Now()
	s.logger.Info("capability server started")
}

// Stop clears the running flag. No resource cleanup is implied.
func (s *Server) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.running = false
	s.logger.Info("capability server stopped")
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
