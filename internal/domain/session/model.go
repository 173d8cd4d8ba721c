package session

import "time"

// ActivityType represents the type of activity event
type ActivityType string

const (
	TypeSessionUpdate ActivityType = "session_update"
	TypeChatMessage   ActivityType = "chat_message"
	TypeScriptUpdate  ActivityType = "script_update"
	TypeProjectChange ActivityType = "project_change"
	TypeProjectUpdate ActivityType = "project_update"
	TypeAPIKeyUpdate  ActivityType = "api_key_update"
	TypeToolExecution ActivityType = "tool_execution"
	TypeToolResult    ActivityType = "tool_result"
	TypeToolError     ActivityType = "tool_error"
	TypeAgentProgress ActivityType = "agent_progress"
)

// Activity is a logged record of a state change or operation. IDs are
// assigned by the Context and strictly increase within a session.
type Activity struct {
	ID        int64          `json:"id"`
	Type      ActivityType   `json:"type"`
	Timestamp time.Time      `json:"timestamp"`
	Fields    map[string]any `json:"fields,omitempty"`
}

// Role identifies the author of a chat message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// ChatMessage is a single entry in the conversation history.
type ChatMessage struct {
	ID        string         `json:"id"`
	Role      Role           `json:"role"`
	Content   string         `json:"content"`
	Timestamp time.Time      `json:"timestamp"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// Retention limits for the bounded tail buffers. Oldest entries are
// silently dropped once a limit is exceeded.
const (
	MaxActivities   = 100
	MaxChatMessages = 50
)

// UnifiedContext is the derived read-only view combining session summary,
// recent chat, and recent activity. Computed on demand, never cached.
type UnifiedContext struct {
	Session  SessionView  `json:"session"`
	Chat     ChatView     `json:"chat"`
	Activity ActivityView `json:"activity"`
}

// SessionView summarizes the mirrored session mapping.
type SessionView struct {
	CurrentProject    string         `json:"current_project"`
	ScriptLength      int            `json:"script_length"`
	Projects          map[string]any `json:"projects"`
	Settings          map[string]any `json:"settings"`
	APIKeysConfigured bool           `json:"api_keys_configured"`
}

// ChatView summarizes the conversation history.
type ChatView struct {
	MessageCount   int           `json:"message_count"`
	RecentMessages []ChatMessage `json:"recent_messages"`
	LastMessage    *ChatMessage  `json:"last_message,omitempty"`
}

// ActivityView summarizes the activity log.
type ActivityView struct {
	TotalActivities  int            `json:"total_activities"`
	RecentActivities []Activity     `json:"recent_activities"`
	ActivityTypes    []ActivityType `json:"activity_types"`
}

// Export is a full snapshot of the context for diagnostics or backup.
type Export struct {
	Metadata     ExportMetadata `json:"metadata"`
	SessionData  map[string]any `json:"session_data"`
	ChatHistory  []ChatMessage  `json:"chat_history"`
	Activities   []Activity     `json:"activities"`
	CurrentState CurrentState   `json:"current_state"`
}

// ExportMetadata carries snapshot provenance.
type ExportMetadata struct {
	CreatedAt  time.Time `json:"created_at"`
	ExportedAt time.Time `json:"exported_at"`
	Version    string    `json:"version"`
}

// CurrentState holds the current script/project pointers at export time.
type CurrentState struct {
	Project string `json:"project"`
	Script  string `json:"script"`
}
