package mcp

import (
	"github.com/wolfaudio/studio-mcp/internal/domain/agent"
	"github.com/wolfaudio/studio-mcp/internal/domain/project"
	"github.com/wolfaudio/studio-mcp/internal/domain/session"
	"github.com/wolfaudio/studio-mcp/internal/domain/workflow"
	"github.com/wolfaudio/studio-mcp/internal/sqlite"
)

// Tool input parameters. One struct per tool; the SDK derives the input
// schema from the json tags.

type emptyParams struct{}

type recentActivitiesParams struct {
	Count int    `json:"count,omitempty" jsonschema:"maximum number of activities to return; 0 means all retained"`
	Type  string `json:"type,omitempty" jsonschema:"filter by activity type, e.g. chat_message or tool_execution"`
}

type searchActivitiesParams struct {
	Query string `json:"query" jsonschema:"case-insensitive substring matched against activity type and fields"`
	Limit int    `json:"limit,omitempty" jsonschema:"maximum number of matches; 0 means no limit"`
}

type addChatMessageParams struct {
	Role          string `json:"role" jsonschema:"message author: user, assistant, or system"`
	Content       string `json:"content" jsonschema:"message text"`
	ScriptContext string `json:"script_context,omitempty" jsonschema:"script excerpt the message refers to"`
}

type chatHistoryParams struct {
	Count int `json:"count,omitempty" jsonschema:"maximum number of messages to return; 0 means all retained"`
}

type updateSessionDataParams struct {
	Data map[string]any `json:"data" jsonschema:"partial session data to deep-merge into the session mapping"`
}

type updateSettingsParams struct {
	Settings map[string]any `json:"settings" jsonschema:"partial settings to merge, e.g. voice, speed, volume"`
}

type setAPIKeyParams struct {
	Service string `json:"service" jsonschema:"service the key belongs to, e.g. ionos"`
	APIKey  string `json:"api_key" jsonschema:"the API key value"`
}

type updateScriptParams struct {
	Content string `json:"content" jsonschema:"full replacement script text"`
}

type saveProjectParams struct {
	Name   string `json:"name" jsonschema:"project name; overwrites any existing project with the same name"`
	Script string `json:"script,omitempty" jsonschema:"script text to store"`
	Notes  string `json:"notes,omitempty" jsonschema:"free-form project notes"`
}

type projectNameParams struct {
	Name string `json:"name" jsonschema:"project name"`
}

type createProjectParams struct {
	Name string `json:"name,omitempty" jsonschema:"desired name; empty generates a timestamped one, collisions get a numeric suffix"`
}

type executeToolParams struct {
	Name       string         `json:"name" jsonschema:"registered capability tool name"`
	Parameters map[string]any `json:"parameters,omitempty" jsonschema:"tool parameters"`
}

type readResourceParams struct {
	Name       string `json:"name" jsonschema:"registered capability resource name"`
	Identifier string `json:"identifier,omitempty" jsonschema:"what to read; meaning is resource-specific"`
}

type writeResourceParams struct {
	Name       string         `json:"name" jsonschema:"registered capability resource name"`
	Identifier string         `json:"identifier,omitempty" jsonschema:"what to write; meaning is resource-specific"`
	Data       map[string]any `json:"data" jsonschema:"payload to write, usually with an action field"`
}

type executeWorkflowParams struct {
	Name   string         `json:"name" jsonschema:"registered workflow name"`
	Params map[string]any `json:"params,omitempty" jsonschema:"workflow parameters"`
}

type executionHistoryParams struct {
	Limit int `json:"limit,omitempty" jsonschema:"maximum number of records, newest first; 0 means all retained"`
}

type activityArchiveParams struct {
	Type  string `json:"type,omitempty" jsonschema:"filter by archived activity type"`
	Limit int    `json:"limit,omitempty" jsonschema:"maximum number of entries, newest first; 0 means all"`
}

// Tool results.

type okResult struct {
	OK      bool   `json:"ok"`
	Message string `json:"message,omitempty"`
}

type activitiesResult struct {
	Activities []session.Activity `json:"activities"`
	Count      int                `json:"count"`
}

type chatHistoryResult struct {
	Messages []session.ChatMessage `json:"messages"`
	Count    int                   `json:"count"`
}

type scriptResult struct {
	OK        bool `json:"ok"`
	WordCount int  `json:"word_count"`
}

type projectListResult struct {
	Projects []project.Summary `json:"projects"`
	Count    int               `json:"count"`
}

type capabilityListResult struct {
	Tools     []string `json:"tools"`
	Resources []string `json:"resources"`
}

type executeToolResult struct {
	Tool   string `json:"tool"`
	Result any    `json:"result"`
}

type readResourceResult struct {
	Resource string `json:"resource"`
	Data     any    `json:"data"`
}

type workflowListResult struct {
	Workflows []workflow.Metadata `json:"workflows"`
	Count     int                 `json:"count"`
}

type agentControlResult struct {
	OK     bool         `json:"ok"`
	Status agent.Status `json:"status"`
}

type executionHistoryResult struct {
	Executions []agent.ExecutionRecord `json:"executions"`
	Count      int                     `json:"count"`
}

type activityArchiveResult struct {
	Entries []sqlite.ArchiveEntry `json:"entries"`
	Count   int                   `json:"count"`
}
