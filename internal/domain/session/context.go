package session

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

// Context is the in-memory state container for session data, chat history,
// and the activity log. It is the single source of truth for conversational
// and activity state, and is safe for concurrent use.
type Context struct {
	mu             sync.Mutex
	createdAt      time.Time
	nextActivityID int64
	messageSeq     int64
	activities     []Activity
	chatHistory    []ChatMessage
	sessionData    map[string]any
	currentScript  string
	currentProject string
}

// NewContext creates an empty context.
func NewContext() *Context {
	return &Context{
		createdAt:   time.Now(),
		sessionData: map[string]any{},
	}
}

// CreatedAt reports when the context was created.
func (c *Context) CreatedAt() time.Time {
	return c.createdAt
}

// AddActivity assigns the next sequence ID and timestamp, appends the
// activity, and truncates the log to the most recent MaxActivities entries.
// It never fails.
func (c *Context) AddActivity(a Activity) Activity {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.addActivityLocked(a)
}

func (c *Context) addActivityLocked(a Activity) Activity {
	a.ID = c.nextActivityID
	c.nextActivityID++
	if a.Timestamp.IsZero() {
		a.Timestamp = time.Now()
	}
	c.activities = append(c.activities, a)
	if len(c.activities) > MaxActivities {
		c.activities = c.activities[len(c.activities)-MaxActivities:]
	}
	return a
}

// UpdateSessionData merges partial into the session mapping using a deep
// merge: nested mappings are merged key by key, non-mapping values
// overwrite. Logs one session_update activity naming the top-level keys.
func (c *Context) UpdateSessionData(partial map[string]any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	deepMerge(c.sessionData, partial)

	keys := make([]string, 0, len(partial))
	for key := range partial {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	c.addActivityLocked(Activity{
		Type: TypeSessionUpdate,
		Fields: map[string]any{
			"keys_updated": keys,
			"session_size": len(c.sessionData),
		},
	})
}

// AddChatMessage appends a message with a generated ID and truncates history
// to the most recent MaxChatMessages entries. The logged activity records
// only the role and content length, never the content itself.
func (c *Context) AddChatMessage(role Role, content string, metadata map[string]any) ChatMessage {
	c.mu.Lock()
	defer c.mu.Unlock()

	if metadata == nil {
		metadata = map[string]any{}
	}
	msg := ChatMessage{
		ID:        fmt.Sprintf("msg_%d_%d", c.messageSeq, time.Now().Unix()),
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
		Metadata:  metadata,
	}
	c.messageSeq++

	c.chatHistory = append(c.chatHistory, msg)
	if len(c.chatHistory) > MaxChatMessages {
		c.chatHistory = c.chatHistory[len(c.chatHistory)-MaxChatMessages:]
	}

	c.addActivityLocked(Activity{
		Type: TypeChatMessage,
		Fields: map[string]any{
			"role":           string(role),
			"content_length": len(content),
			"message_id":     msg.ID,
		},
	})

	return msg
}

// SetCurrentScript updates the current script pointer. The logged activity
// records only lengths, not content.
func (c *Context) SetCurrentScript(script string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	oldLength := len(c.currentScript)
	c.currentScript = script

	changeType := "edit"
	if oldLength == 0 {
		changeType = "create"
	}
	c.addActivityLocked(Activity{
		Type: TypeScriptUpdate,
		Fields: map[string]any{
			"old_length":  oldLength,
			"new_length":  len(script),
			"change_type": changeType,
		},
	})
}

// SetCurrentProject updates the current project pointer.
func (c *Context) SetCurrentProject(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	old := c.currentProject
	c.currentProject = name

	c.addActivityLocked(Activity{
		Type: TypeProjectChange,
		Fields: map[string]any{
			"old_project": old,
			"new_project": name,
		},
	})
}

// CurrentScript returns the current script pointer.
func (c *Context) CurrentScript() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.currentScript
}

// CurrentProject returns the current project pointer.
func (c *Context) CurrentProject() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.currentProject
}

// SessionData returns a deep copy of the session mapping.
func (c *Context) SessionData() map[string]any {
	c.mu.Lock()
	defer c.mu.Unlock()
	return deepCopyMap(c.sessionData)
}

// RecentActivities returns up to count activities from the tail of the log,
// optionally filtered by type (empty matches all).
func (c *Context) RecentActivities(count int, activityType ActivityType) []Activity {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.recentActivitiesLocked(count, activityType)
}

func (c *Context) recentActivitiesLocked(count int, activityType ActivityType) []Activity {
	activities := c.activities
	if activityType != "" {
		filtered := make([]Activity, 0, len(activities))
		for _, a := range activities {
			if a.Type == activityType {
				filtered = append(filtered, a)
			}
		}
		activities = filtered
	}
	if count > 0 && len(activities) > count {
		activities = activities[len(activities)-count:]
	}
	out := make([]Activity, len(activities))
	copy(out, activities)
	return out
}

// ActivityCount returns the number of retained activities.
func (c *Context) ActivityCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.activities)
}

// ChatContext returns up to count messages from the tail of the history.
func (c *Context) ChatContext(count int) []ChatMessage {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.chatContextLocked(count)
}

func (c *Context) chatContextLocked(count int) []ChatMessage {
	messages := c.chatHistory
	if count > 0 && len(messages) > count {
		messages = messages[len(messages)-count:]
	}
	out := make([]ChatMessage, len(messages))
	copy(out, messages)
	return out
}

// ChatMessageCount returns the number of retained chat messages.
func (c *Context) ChatMessageCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.chatHistory)
}

// LastActivity returns the most recent activity, or nil if the log is empty.
func (c *Context) LastActivity() *Activity {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.activities) == 0 {
		return nil
	}
	last := c.activities[len(c.activities)-1]
	return &last
}

// SearchActivities scans the log newest-first for activities whose field
// values contain the query, case-insensitively.
func (c *Context) SearchActivities(query string, limit int) []Activity {
	c.mu.Lock()
	defer c.mu.Unlock()

	query = strings.ToLower(query)
	var results []Activity
	for i := len(c.activities) - 1; i >= 0; i-- {
		a := c.activities[i]
		if activityMatches(a, query) {
			results = append(results, a)
			if limit > 0 && len(results) >= limit {
				break
			}
		}
	}
	return results
}

func activityMatches(a Activity, query string) bool {
	if strings.Contains(strings.ToLower(string(a.Type)), query) {
		return true
	}
	for _, value := range a.Fields {
		if strings.Contains(strings.ToLower(fmt.Sprint(value)), query) {
			return true
		}
	}
	return false
}

// Unified returns the derived view combining session summary, recent chat,
// and recent activity.
func (c *Context) Unified() UnifiedContext {
	c.mu.Lock()
	defer c.mu.Unlock()

	typeSet := map[ActivityType]struct{}{}
	var types []ActivityType
	for _, a := range c.activities {
		if _, seen := typeSet[a.Type]; !seen {
			typeSet[a.Type] = struct{}{}
			types = append(types, a.Type)
		}
	}

	var last *ChatMessage
	if len(c.chatHistory) > 0 {
		msg := c.chatHistory[len(c.chatHistory)-1]
		last = &msg
	}

	return UnifiedContext{
		Session: SessionView{
			CurrentProject:    c.currentProject,
			ScriptLength:      len(c.currentScript),
			Projects:          mapSection(c.sessionData, "projects"),
			Settings:          mapSection(c.sessionData, "settings"),
			APIKeysConfigured: anyKeyConfigured(c.sessionData),
		},
		Chat: ChatView{
			MessageCount:   len(c.chatHistory),
			RecentMessages: c.chatContextLocked(5),
			LastMessage:    last,
		},
		Activity: ActivityView{
			TotalActivities:  len(c.activities),
			RecentActivities: c.recentActivitiesLocked(5, ""),
			ActivityTypes:    types,
		},
	}
}

// Snapshot returns a full copy of the context state for diagnostics or
// backup. No mutation happens during the copy.
func (c *Context) Snapshot() Export {
	c.mu.Lock()
	defer c.mu.Unlock()

	chat := make([]ChatMessage, len(c.chatHistory))
	copy(chat, c.chatHistory)
	activities := make([]Activity, len(c.activities))
	copy(activities, c.activities)

	return Export{
		Metadata: ExportMetadata{
			CreatedAt:  c.createdAt,
			ExportedAt: time.Now(),
			Version:    "1.0",
		},
		SessionData: deepCopyMap(c.sessionData),
		ChatHistory: chat,
		Activities:  activities,
		CurrentState: CurrentState{
			Project: c.currentProject,
			Script:  c.currentScript,
		},
	}
}

func mapSection(data map[string]any, key string) map[string]any {
	if section, ok := data[key].(map[string]any); ok {
		return deepCopyMap(section)
	}
	return map[string]any{}
}

func anyKeyConfigured(data map[string]any) bool {
	keys, ok := data["api_keys"].(map[string]any)
	if !ok {
		return false
	}
	for _, value := range keys {
		if s, ok := value.(string); ok && strings.TrimSpace(s) != "" {
			return true
		}
	}
	return false
}
