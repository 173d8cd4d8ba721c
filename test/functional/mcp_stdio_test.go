package functional_test

import (
	"context"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"
)

// stdioSession wraps an MCP client session for stdio transport testing
type stdioSession struct {
	session *sdkmcp.ClientSession
	cancel  context.CancelFunc
}

func newStdioSession(t *testing.T) *stdioSession {
	t.Helper()

	// Find the binary
	binaryPath := "./bin/studio-mcp"
	if _, err := os.Stat(binaryPath); os.IsNotExist(err) {
		binaryPath = "../../bin/studio-mcp"
		if _, err := os.Stat(binaryPath); os.IsNotExist(err) {
			t.Skip("Server binary not found. Run 'make build' first.")
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)

	dataDir := t.TempDir()
	cmd := exec.CommandContext(ctx, binaryPath)
	cmd.Env = append(os.Environ(),
		"STUDIO_TRANSPORT=stdio",
		"STUDIO_DB_PATH=:memory:",
		"STUDIO_AUDIO_DIR="+filepath.Join(dataDir, "audio"),
		"STUDIO_CACHE_DIR="+filepath.Join(dataDir, "cache"),
	)

	transport := &sdkmcp.CommandTransport{Command: cmd}

	client := sdkmcp.NewClient(&sdkmcp.Implementation{
		Name:    "test-client",
		Version: "1.0.0",
	}, nil)

	session, err := client.Connect(ctx, transport, nil)
	if err != nil {
		cancel()
		t.Fatalf("Failed to connect: %v", err)
	}

	t.Cleanup(func() {
		session.Close()
		cancel()
	})

	return &stdioSession{session: session, cancel: cancel}
}

func (s *stdioSession) callTool(t *testing.T, name string, args map[string]any) json.RawMessage {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := s.session.CallTool(ctx, &sdkmcp.CallToolParams{
		Name:      name,
		Arguments: args,
	})
	require.NoError(t, err, "CallTool %s failed", name)
	require.False(t, result.IsError, "Tool %s returned error", name)
	require.NotEmpty(t, result.Content, "Tool %s returned no content", name)

	// Extract text content
	for _, content := range result.Content {
		if textContent, ok := content.(*sdkmcp.TextContent); ok {
			return json.RawMessage(textContent.Text)
		}
	}
	t.Fatalf("Tool %s returned no text content", name)
	return nil
}

func TestStdioFunctional_ProjectsAndSummary(t *testing.T) {
	s := newStdioSession(t)

	create := s.callTool(t, "create_project", map[string]any{"name": "Stdio Project"})
	var created struct {
		Name string `json:"name"`
	}
	require.NoError(t, json.Unmarshal(create, &created))
	require.Equal(t, "Stdio Project", created.Name)

	listResp := s.callTool(t, "list_projects", nil)
	var list struct {
		Count int `json:"count"`
	}
	require.NoError(t, json.Unmarshal(listResp, &list))
	require.GreaterOrEqual(t, list.Count, 4) // samples + created

	summaryResp := s.callTool(t, "get_session_summary", nil)
	var summary struct {
		CurrentProject string `json:"current_project"`
	}
	require.NoError(t, json.Unmarshal(summaryResp, &summary))
	require.Equal(t, "Stdio Project", summary.CurrentProject)
}

func TestStdioFunctional_ScriptAndAnalysis(t *testing.T) {
	s := newStdioSession(t)

	_ = s.callTool(t, "update_script", map[string]any{
		"content": "Welcome back to the show. Today we talk about audio!",
	})

	analysisResp := s.callTool(t, "execute_tool", map[string]any{
		"name": "analyze_script",
		"parameters": map[string]any{
			"script_content": "Welcome back to the show. Today we talk about audio!",
		},
	})
	var analysis struct {
		Result struct {
			WordCount     int `json:"word_count"`
			SentenceCount int `json:"sentence_count"`
		} `json:"result"`
	}
	require.NoError(t, json.Unmarshal(analysisResp, &analysis))
	require.Equal(t, 10, analysis.Result.WordCount)
	require.Equal(t, 2, analysis.Result.SentenceCount)
}

func TestStdioFunctional_WorkflowRun(t *testing.T) {
	s := newStdioSession(t)

	resp := s.callTool(t, "execute_workflow", map[string]any{
		"name": "script_improvement",
		"params": map[string]any{
			"script_content": "um this is basically just a test",
		},
	})
	var result struct {
		Success bool `json:"success"`
	}
	require.NoError(t, json.Unmarshal(resp, &result))
	require.True(t, result.Success)

	historyResp := s.callTool(t, "get_execution_history", nil)
	var history struct {
		Count int `json:"count"`
	}
	require.NoError(t, json.Unmarshal(historyResp, &history))
	require.Equal(t, 1, history.Count)
}
