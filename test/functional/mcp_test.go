package functional_test

import (
	"context"
	"encoding/json"
	"testing"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"

	"github.com/wolfaudio/studio-mcp/internal/testserver"
)

// unmarshalResult decodes the JSON text content of a successful tool call.
func unmarshalResult(t *testing.T, res *sdkmcp.CallToolResult, out any) {
	t.Helper()
	require.False(t, res.IsError, "tool returned error: %v", res.Content)
	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(*sdkmcp.TextContent)
	require.True(t, ok, "expected text content, got %T", res.Content[0])
	require.NoError(t, json.Unmarshal([]byte(text.Text), out))
}

func errorText(t *testing.T, res *sdkmcp.CallToolResult) string {
	t.Helper()
	require.True(t, res.IsError, "expected tool error, got: %v", res.Content)
	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(*sdkmcp.TextContent)
	require.True(t, ok)
	return text.Text
}

func TestMCP_ListTools(t *testing.T) {
	ts := testserver.New(t)

	tools, err := ts.Client.ListTools(context.Background(), nil)
	require.NoError(t, err)

	names := make(map[string]bool)
	for _, tool := range tools.Tools {
		names[tool.Name] = true
	}

	expected := []string{
		"get_unified_context",
		"get_session_summary",
		"get_ai_context",
		"get_recent_activities",
		"search_activities",
		"add_chat_message",
		"get_chat_history",
		"update_session_data",
		"update_settings",
		"set_api_key",
		"update_script",
		"export_context",
		"save_project",
		"load_project",
		"list_projects",
		"delete_project",
		"export_project",
		"create_project",
		"get_server_info",
		"list_capabilities",
		"execute_tool",
		"read_resource",
		"write_resource",
		"list_workflows",
		"execute_workflow",
		"get_agent_status",
		"pause_agent",
		"resume_agent",
		"stop_agent",
		"get_execution_history",
		"get_activity_archive",
	}
	for _, name := range expected {
		require.True(t, names[name], "missing tool: %s", name)
	}
}

func TestMCP_DocResources(t *testing.T) {
	ts := testserver.New(t)
	ctx := context.Background()

	resources, err := ts.Client.ListResources(ctx, nil)
	require.NoError(t, err)
	require.Len(t, resources.Resources, 3)

	res, err := ts.Client.ReadResource(ctx, &sdkmcp.ReadResourceParams{URI: "studio://docs/index"})
	require.NoError(t, err)
	require.NotEmpty(t, res.Contents)
	require.Contains(t, res.Contents[0].Text, "Agent Docs Index")
}

func TestMCP_SessionContextFlow(t *testing.T) {
	ts := testserver.New(t)

	res := ts.CallTool(t, "update_script", map[string]any{
		"content": "Welcome to the show",
	})
	var script struct {
		OK        bool `json:"ok"`
		WordCount int  `json:"word_count"`
	}
	unmarshalResult(t, res, &script)
	require.True(t, script.OK)
	require.Equal(t, 4, script.WordCount)

	res = ts.CallTool(t, "add_chat_message", map[string]any{
		"role":    "user",
		"content": "make it punchier",
	})
	var msg struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	}
	unmarshalResult(t, res, &msg)
	require.Equal(t, "user", msg.Role)

	res = ts.CallTool(t, "get_session_summary", nil)
	var summary struct {
		ScriptLength int `json:"script_length"`
		ChatMessages int `json:"chat_messages"`
	}
	unmarshalResult(t, res, &summary)
	require.Equal(t, len("Welcome to the show"), summary.ScriptLength)
	require.Equal(t, 1, summary.ChatMessages)

	res = ts.CallTool(t, "get_recent_activities", map[string]any{
		"type": "script_update",
	})
	var activities struct {
		Count int `json:"count"`
	}
	unmarshalResult(t, res, &activities)
	require.Equal(t, 1, activities.Count)

	res = ts.CallTool(t, "add_chat_message", map[string]any{
		"role":    "narrator",
		"content": "hi",
	})
	require.Contains(t, errorText(t, res), "invalid role")
}

func TestMCP_ProjectLifecycle(t *testing.T) {
	ts := testserver.New(t)

	res := ts.CallTool(t, "save_project", map[string]any{
		"name":   "Episode 1",
		"script": "Hello and welcome back",
		"notes":  "pilot",
	})
	var saved struct {
		Name      string `json:"name"`
		WordCount int    `json:"word_count"`
		IsSample  bool   `json:"is_sample"`
	}
	unmarshalResult(t, res, &saved)
	require.Equal(t, "Episode 1", saved.Name)
	require.Equal(t, 4, saved.WordCount)
	require.False(t, saved.IsSample)

	res = ts.CallTool(t, "load_project", map[string]any{"name": "Episode 1"})
	var loaded struct {
		Script string `json:"script"`
	}
	unmarshalResult(t, res, &loaded)
	require.Equal(t, "Hello and welcome back", loaded.Script)

	// Loading makes the project current and installs its script.
	require.Equal(t, "Episode 1", ts.Sessions.Context().CurrentProject())
	require.Equal(t, "Hello and welcome back", ts.Sessions.Context().CurrentScript())

	res = ts.CallTool(t, "list_projects", nil)
	var list struct {
		Count int `json:"count"`
	}
	unmarshalResult(t, res, &list)
	require.Equal(t, 4, list.Count) // 3 samples + Episode 1

	res = ts.CallTool(t, "export_project", map[string]any{"name": "Episode 1"})
	var export struct {
		ProjectName string `json:"project_name"`
		AppVersion  string `json:"app_version"`
	}
	unmarshalResult(t, res, &export)
	require.Equal(t, "Episode 1", export.ProjectName)
	require.NotEmpty(t, export.AppVersion)

	res = ts.CallTool(t, "delete_project", map[string]any{"name": "Episode 1"})
	var deleted struct {
		OK bool `json:"ok"`
	}
	unmarshalResult(t, res, &deleted)
	require.True(t, deleted.OK)

	res = ts.CallTool(t, "load_project", map[string]any{"name": "Episode 1"})
	require.Contains(t, errorText(t, res), "PROJECT_NOT_FOUND")

	res = ts.CallTool(t, "delete_project", map[string]any{"name": "Welcome Demo"})
	require.Contains(t, errorText(t, res), "SAMPLE_PROTECTED")
}

func TestMCP_CreateProjectUniqueNames(t *testing.T) {
	ts := testserver.New(t)

	res := ts.CallTool(t, "create_project", map[string]any{"name": "Promo"})
	var first struct {
		Name string `json:"name"`
	}
	unmarshalResult(t, res, &first)
	require.Equal(t, "Promo", first.Name)

	res = ts.CallTool(t, "create_project", map[string]any{"name": "Promo"})
	var second struct {
		Name string `json:"name"`
	}
	unmarshalResult(t, res, &second)
	require.Equal(t, "Promo_1", second.Name)
}

func TestMCP_CapabilityGateway(t *testing.T) {
	ts := testserver.New(t)

	res := ts.CallTool(t, "list_capabilities", nil)
	var caps struct {
		Tools     []string `json:"tools"`
		Resources []string `json:"resources"`
	}
	unmarshalResult(t, res, &caps)
	require.Contains(t, caps.Tools, "analyze_script")
	require.Contains(t, caps.Tools, "generate_speech")
	require.Contains(t, caps.Resources, "projects")
	require.Contains(t, caps.Resources, "tts")

	res = ts.CallTool(t, "execute_tool", map[string]any{
		"name": "analyze_script",
		"parameters": map[string]any{
			"script_content": "One two three. Four five!",
		},
	})
	var exec struct {
		Tool   string `json:"tool"`
		Result struct {
			WordCount     int `json:"word_count"`
			SentenceCount int `json:"sentence_count"`
		} `json:"result"`
	}
	unmarshalResult(t, res, &exec)
	require.Equal(t, "analyze_script", exec.Tool)
	require.Equal(t, 5, exec.Result.WordCount)
	require.Equal(t, 2, exec.Result.SentenceCount)

	res = ts.CallTool(t, "read_resource", map[string]any{"name": "projects"})
	var read struct {
		Resource string `json:"resource"`
		Data     struct {
			Type string `json:"type"`
		} `json:"data"`
	}
	unmarshalResult(t, res, &read)
	require.Equal(t, "projects", read.Resource)
	require.Equal(t, "project_list", read.Data.Type)

	res = ts.CallTool(t, "execute_tool", map[string]any{"name": "nonexistent"})
	require.Contains(t, errorText(t, res), "TOOL_NOT_FOUND")

	res = ts.CallTool(t, "read_resource", map[string]any{"name": "nonexistent"})
	require.Contains(t, errorText(t, res), "RESOURCE_NOT_FOUND")
}

func TestMCP_SpeechThroughGateway(t *testing.T) {
	ts := testserver.New(t)

	res := ts.CallTool(t, "execute_tool", map[string]any{
		"name": "generate_speech",
		"parameters": map[string]any{
			"text":   "Hello listeners",
			"engine": "file",
		},
	})
	var exec struct {
		Result struct {
			AudioPath string `json:"audio_path"`
			Engine    string `json:"engine"`
			Cached    bool   `json:"cached"`
		} `json:"result"`
	}
	unmarshalResult(t, res, &exec)
	require.NotEmpty(t, exec.Result.AudioPath)
	require.Equal(t, "file", exec.Result.Engine)
	require.False(t, exec.Result.Cached)

	// Same text and settings hits the cache.
	res = ts.CallTool(t, "execute_tool", map[string]any{
		"name": "generate_speech",
		"parameters": map[string]any{
			"text":   "Hello listeners",
			"engine": "file",
		},
	})
	unmarshalResult(t, res, &exec)
	require.True(t, exec.Result.Cached)
}

func TestMCP_WorkflowExecution(t *testing.T) {
	ts := testserver.New(t)

	res := ts.CallTool(t, "list_workflows", nil)
	var list struct {
		Workflows []struct {
			Name string `json:"name"`
		} `json:"workflows"`
	}
	unmarshalResult(t, res, &list)
	names := make([]string, 0, len(list.Workflows))
	for _, wf := range list.Workflows {
		names = append(names, wf.Name)
	}
	require.Contains(t, names, "script_improvement")
	require.Contains(t, names, "batch_processing")

	res = ts.CallTool(t, "execute_workflow", map[string]any{
		"name": "script_improvement",
		"params": map[string]any{
			"script_content": "um so this is like the intro",
		},
	})
	var result struct {
		Success bool `json:"success"`
	}
	unmarshalResult(t, res, &result)
	require.True(t, result.Success)

	res = ts.CallTool(t, "get_execution_history", nil)
	var history struct {
		Count      int `json:"count"`
		Executions []struct {
			Workflow string `json:"workflow"`
			Success  bool   `json:"success"`
		} `json:"executions"`
	}
	unmarshalResult(t, res, &history)
	require.Equal(t, 1, history.Count)
	require.Equal(t, "script_improvement", history.Executions[0].Workflow)
	require.True(t, history.Executions[0].Success)

	// Missing required params fail in the result, not the protocol.
	res = ts.CallTool(t, "execute_workflow", map[string]any{
		"name": "script_improvement",
	})
	unmarshalResult(t, res, &result)
	require.False(t, result.Success)

	res = ts.CallTool(t, "execute_workflow", map[string]any{"name": "nope"})
	require.Contains(t, errorText(t, res), "WORKFLOW_NOT_FOUND")
}

func TestMCP_AgentControls(t *testing.T) {
	ts := testserver.New(t)

	res := ts.CallTool(t, "get_agent_status", nil)
	var status struct {
		Status  string `json:"status"`
		Running bool   `json:"is_running"`
	}
	unmarshalResult(t, res, &status)
	require.Equal(t, "idle", status.Status)
	require.False(t, status.Running)

	// Nothing running, so controls report failure.
	var control struct {
		OK     bool   `json:"ok"`
		Status string `json:"status"`
	}
	for _, name := range []string{"pause_agent", "resume_agent", "stop_agent"} {
		res = ts.CallTool(t, name, nil)
		unmarshalResult(t, res, &control)
		require.False(t, control.OK, "%s should fail while idle", name)
		require.Equal(t, "idle", control.Status)
	}
}

func TestMCP_ActivityArchive(t *testing.T) {
	ts := testserver.New(t)

	ts.CallTool(t, "get_session_summary", nil)
	ts.CallTool(t, "list_projects", nil)

	res := ts.CallTool(t, "get_activity_archive", map[string]any{"type": "tool_call"})
	var archive struct {
		Count   int `json:"count"`
		Entries []struct {
			ActivityType string `json:"activity_type"`
			Summary      string `json:"summary"`
		} `json:"entries"`
	}
	unmarshalResult(t, res, &archive)
	require.GreaterOrEqual(t, archive.Count, 2)
	require.Equal(t, "tool_call", archive.Entries[0].ActivityType)
}
