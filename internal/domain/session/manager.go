package session

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"
)

// SyncCallback receives the external session mapping after each sync.
// Callbacks must not break state consistency: panics are caught and logged.
type SyncCallback func(external map[string]any)

// Summary is summarized session information.
type Summary struct {
	CurrentProject    string    `json:"current_project"`
	ScriptLength      int       `json:"script_length"`
	TotalProjects     int       `json:"total_projects"`
	ChatMessages      int       `json:"chat_messages"`
	Activities        int       `json:"activities"`
	APIKeysConfigured []string  `json:"api_keys_configured"`
	LastActivity      *Activity `json:"last_activity,omitempty"`
}

// AIContext is the projection of the unified context handed to the AI
// collaborator.
type AIContext struct {
	CurrentSession     AISession         `json:"current_session"`
	RecentConversation []ChatMessage     `json:"recent_conversation"`
	RecentActivities   []ActivitySummary `json:"recent_activities"`
}

// AISession is the session portion of the AI projection.
type AISession struct {
	Project         string         `json:"project"`
	ScriptWordCount int            `json:"script_word_count"`
	Settings        map[string]any `json:"settings"`
}

// ActivitySummary is a human-readable rendering of one activity.
type ActivitySummary struct {
	Type      ActivityType `json:"type"`
	Timestamp time.Time    `json:"timestamp"`
	Summary   string       `json:"summary"`
}

// ManagerExport bundles the full context snapshot with its derived views.
type ManagerExport struct {
	UnifiedContext Export    `json:"unified_context"`
	SessionSummary Summary   `json:"session_summary"`
	AIContext      AIContext `json:"ai_context"`
}

// Manager keeps the context's mirrored session mapping and the externally
// owned session mapping mutually consistent, and projects context into an
// AI-friendly summary. The external mapping is passed in at construction and
// stays owned by the host; the manager holds a synchronized replica inside
// its Context. Every mutating method syncs after mutating the mirror, never
// before, and is safe for concurrent use.
type Manager struct {
	mu        sync.Mutex
	ctx       *Context
	external  map[string]any
	callbacks []SyncCallback
	logger    *slog.Logger
}

// NewManager creates a manager mirroring the given external session mapping.
func NewManager(external map[string]any, logger *slog.Logger) *Manager {
	if external == nil {
		external = map[string]any{}
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	m := &Manager{
		ctx:      NewContext(),
		external: external,
		logger:   logger,
	}

	// Seed the mirror from the host's mapping.
	m.ctx.UpdateSessionData(deepCopyMap(external))
	if name, ok := external["current_project"].(string); ok && name != "" {
		m.ctx.SetCurrentProject(name)
	}

	return m
}

// DefaultSessionData returns the canonical session mapping shape the hosting
// application starts from.
func DefaultSessionData() map[string]any {
	return map[string]any{
		"projects":        map[string]any{},
		"current_project": "default",
		"settings": map[string]any{
			"voice":        "en",
			"speed":        1.0,
			"volume":       80,
			"engine":       "command",
			"pitch":        0,
			"tone":         "normal",
			"auto_save":    true,
			"live_preview": false,
		},
		"api_keys":      map[string]any{},
		"audio_history": []any{},
		"audio_cache":   map[string]any{},
	}
}

// Context returns the wrapped context.
func (m *Manager) Context() *Context {
	return m.ctx
}

// RegisterSyncCallback registers a callback invoked with the external
// mapping after each sync.
func (m *Manager) RegisterSyncCallback(cb SyncCallback) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callbacks = append(m.callbacks, cb)
}

// syncToExternal pushes the entire mirrored session mapping back to the
// externally owned mapping, then notifies sync callbacks. Callback failures
// are logged and never propagated: a failing UI refresh must not break state
// consistency.
func (m *Manager) syncToExternal() {
	m.mu.Lock()
	data := m.ctx.SessionData()
	for key, value := range data {
		m.external[key] = value
	}
	if current := m.ctx.CurrentProject(); current != "" {
		m.external["current_project"] = current
	}
	callbacks := make([]SyncCallback, len(m.callbacks))
	copy(callbacks, m.callbacks)
	external := m.external
	m.mu.Unlock()

	for _, cb := range callbacks {
		m.invokeCallback(cb, external)
	}
}

func (m *Manager) invokeCallback(cb SyncCallback, external map[string]any) {
	defer func() {
		if r := recover(); r != nil {
			m.logger.Warn("context sync callback error", "error", r)
		}
	}()
	cb(external)
}

// UpdateProject merges the project into the mirrored projects mapping,
// syncs, and logs a project_update activity naming the changed field keys.
func (m *Manager) UpdateProject(name string, projectData map[string]any) {
	m.ctx.UpdateSessionData(map[string]any{
		"projects": map[string]any{name: projectData},
	})
	m.syncToExternal()

	keys := make([]string, 0, len(projectData))
	for key := range projectData {
		keys = append(keys, key)
	}
	m.ctx.AddActivity(Activity{
		Type: TypeProjectUpdate,
		Fields: map[string]any{
			"project_name": name,
			"data_keys":    keys,
		},
	})
}

// SetCurrentProject updates the context pointer, then syncs.
func (m *Manager) SetCurrentProject(name string) {
	m.ctx.SetCurrentProject(name)
	m.syncToExternal()
}

// UpdateScript updates the current script pointer; if a current project
// exists in the mirror, its script and counts are updated too, then synced.
func (m *Manager) UpdateScript(content string) {
	m.ctx.SetCurrentScript(content)

	current := m.ctx.CurrentProject()
	if current == "" {
		return
	}
	projects, ok := m.ctx.SessionData()["projects"].(map[string]any)
	if !ok {
		return
	}
	proj, ok := projects[current].(map[string]any)
	if !ok {
		return
	}
	proj["script"] = content
	proj["word_count"] = len(strings.Fields(content))
	proj["character_count"] = len(content)
	m.ctx.UpdateSessionData(map[string]any{
		"projects": map[string]any{current: proj},
	})
	m.syncToExternal()
}

// AddChatMessage appends a chat message enriched with script context
// metadata and a session summary snapshot.
func (m *Manager) AddChatMessage(role Role, content, scriptContext string) ChatMessage {
	metadata := map[string]any{}
	if scriptContext != "" {
		metadata["script_context"] = map[string]any{
			"length":      len(scriptContext),
			"word_count":  len(strings.Fields(scriptContext)),
			"has_content": strings.TrimSpace(scriptContext) != "",
		}
	}
	metadata["current_project"] = m.ctx.CurrentProject()
	metadata["session_state"] = m.SessionSummary()

	return m.ctx.AddChatMessage(role, content, metadata)
}

// UpdateSettings merges partial settings into the mirrored settings mapping
// and syncs.
func (m *Manager) UpdateSettings(settings map[string]any) {
	m.ctx.UpdateSessionData(map[string]any{"settings": settings})
	m.syncToExternal()
}

// SetAPIKey stores the key for a service in the mirrored api_keys mapping
// and syncs. The activity records only the key's length and whether it is
// non-empty, never the key value itself.
func (m *Manager) SetAPIKey(service, apiKey string) {
	m.ctx.UpdateSessionData(map[string]any{
		"api_keys": map[string]any{service + "_api_key": apiKey},
	})
	m.syncToExternal()

	m.ctx.AddActivity(Activity{
		Type: TypeAPIKeyUpdate,
		Fields: map[string]any{
			"service":    service,
			"key_length": len(apiKey),
			"is_set":     strings.TrimSpace(apiKey) != "",
		},
	})
}

// LogActivity appends an activity to the wrapped context's log.
func (m *Manager) LogActivity(a Activity) Activity {
	return m.ctx.AddActivity(a)
}

// SessionSummary returns summarized session information.
func (m *Manager) SessionSummary() Summary {
	data := m.ctx.SessionData()

	totalProjects := 0
	if projects, ok := data["projects"].(map[string]any); ok {
		totalProjects = len(projects)
	}
	services := []string{}
	if keys, ok := data["api_keys"].(map[string]any); ok {
		for name := range keys {
			services = append(services, name)
		}
	}

	return Summary{
		CurrentProject:    m.ctx.CurrentProject(),
		ScriptLength:      len(m.ctx.CurrentScript()),
		TotalProjects:     totalProjects,
		ChatMessages:      m.ctx.ChatMessageCount(),
		Activities:        m.ctx.ActivityCount(),
		APIKeysConfigured: services,
		LastActivity:      m.ctx.LastActivity(),
	}
}

// ContextForAI projects the unified context into the shape the AI
// collaborator consumes.
func (m *Manager) ContextForAI() AIContext {
	unified := m.ctx.Unified()

	summaries := make([]ActivitySummary, 0, len(unified.Activity.RecentActivities))
	for _, a := range unified.Activity.RecentActivities {
		summaries = append(summaries, ActivitySummary{
			Type:      a.Type,
			Timestamp: a.Timestamp,
			Summary:   summarizeActivity(a),
		})
	}

	return AIContext{
		CurrentSession: AISession{
			Project:         unified.Session.CurrentProject,
			ScriptWordCount: len(strings.Fields(m.ctx.CurrentScript())),
			Settings:        unified.Session.Settings,
		},
		RecentConversation: unified.Chat.RecentMessages,
		RecentActivities:   summaries,
	}
}

// summarizeActivity renders one activity as a short human-readable line.
func summarizeActivity(a Activity) string {
	switch a.Type {
	case TypeProjectUpdate:
		return fmt.Sprintf("Updated project '%v'", field(a, "project_name", "unknown"))
	case TypeScriptUpdate:
		return fmt.Sprintf("Script edited (%v chars)", field(a, "new_length", 0))
	case TypeChatMessage:
		return fmt.Sprintf("%v message (%v chars)", field(a, "role", "unknown"), field(a, "content_length", 0))
	case TypeAPIKeyUpdate:
		return fmt.Sprintf("Updated %v API key", field(a, "service", "unknown"))
	default:
		return fmt.Sprintf("Activity: %s", a.Type)
	}
}

func field(a Activity, key string, fallback any) any {
	if value, ok := a.Fields[key]; ok {
		return value
	}
	return fallback
}

// Export bundles the full context snapshot with its derived views.
func (m *Manager) Export() ManagerExport {
	return ManagerExport{
		UnifiedContext: m.ctx.Snapshot(),
		SessionSummary: m.SessionSummary(),
		AIContext:      m.ContextForAI(),
	}
}
