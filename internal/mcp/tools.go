package mcp

import (
	"context"
	"fmt"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/wolfaudio/studio-mcp/internal/domain/agent"
	"github.com/wolfaudio/studio-mcp/internal/domain/capability"
	"github.com/wolfaudio/studio-mcp/internal/domain/project"
	"github.com/wolfaudio/studio-mcp/internal/domain/session"
	"github.com/wolfaudio/studio-mcp/internal/domain/workflow"
)

// registerTools registers every MCP tool on the server. Tools are thin
// adapters over the domain services; all validation and activity logging
// happens in the domain layer.
func registerTools(server *sdkmcp.Server, deps Deps) {
	registerContextTools(server, deps)
	registerProjectTools(server, deps)
	registerCapabilityTools(server, deps)
	registerWorkflowTools(server, deps)
	if deps.Archive != nil {
		registerArchiveTools(server, deps)
	}
}

func registerContextTools(server *sdkmcp.Server, deps Deps) {
	mgr := deps.Sessions

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_unified_context",
		Description: "Get the combined view of session state, recent chat, and recent activity",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, _ emptyParams) (*sdkmcp.CallToolResult, session.UnifiedContext, error) {
		return nil, mgr.Context().Unified(), nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_session_summary",
		Description: "Get a compact summary of the current session: project, script stats, counts",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, _ emptyParams) (*sdkmcp.CallToolResult, session.Summary, error) {
		return nil, mgr.SessionSummary(), nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_ai_context",
		Description: "Get the context slice prepared for AI prompting: session info, recent chat, activity summaries",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, _ emptyParams) (*sdkmcp.CallToolResult, session.AIContext, error) {
		return nil, mgr.ContextForAI(), nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_recent_activities",
		Description: "List recent activities from the in-memory log, newest last, optionally filtered by type",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, in recentActivitiesParams) (*sdkmcp.CallToolResult, activitiesResult, error) {
		activities := mgr.Context().RecentActivities(in.Count, session.ActivityType(in.Type))
		return nil, activitiesResult{Activities: activities, Count: len(activities)}, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "search_activities",
		Description: "Search retained activities by substring match on type and field values",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, in searchActivitiesParams) (*sdkmcp.CallToolResult, activitiesResult, error) {
		matches := mgr.Context().SearchActivities(in.Query, in.Limit)
		return nil, activitiesResult{Activities: matches, Count: len(matches)}, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "add_chat_message",
		Description: "Append a message to the conversation history",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, in addChatMessageParams) (*sdkmcp.CallToolResult, session.ChatMessage, error) {
		role := session.Role(in.Role)
		switch role {
		case session.RoleUser, session.RoleAssistant, session.RoleSystem:
		default:
			return nil, session.ChatMessage{}, fmt.Errorf("invalid role %q: must be user, assistant, or system", in.Role)
		}
		if strings.TrimSpace(in.Content) == "" {
			return nil, session.ChatMessage{}, fmt.Errorf("content must not be empty")
		}
		return nil, mgr.AddChatMessage(role, in.Content, in.ScriptContext), nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_chat_history",
		Description: "List retained chat messages, oldest first",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, in chatHistoryParams) (*sdkmcp.CallToolResult, chatHistoryResult, error) {
		messages := mgr.Context().ChatContext(in.Count)
		return nil, chatHistoryResult{Messages: messages, Count: len(messages)}, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "update_session_data",
		Description: "Deep-merge partial data into the session mapping and sync it to the external session",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, in updateSessionDataParams) (*sdkmcp.CallToolResult, okResult, error) {
		if len(in.Data) == 0 {
			return nil, okResult{}, fmt.Errorf("data must not be empty")
		}
		mgr.Context().UpdateSessionData(in.Data)
		return nil, okResult{OK: true, Message: "session data updated"}, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "update_settings",
		Description: "Merge partial settings (voice, speed, volume, ...) into the session",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, in updateSettingsParams) (*sdkmcp.CallToolResult, okResult, error) {
		if len(in.Settings) == 0 {
			return nil, okResult{}, fmt.Errorf("settings must not be empty")
		}
		mgr.UpdateSettings(in.Settings)
		return nil, okResult{OK: true, Message: "settings updated"}, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "set_api_key",
		Description: "Store an API key for a service in the session",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, in setAPIKeyParams) (*sdkmcp.CallToolResult, okResult, error) {
		if strings.TrimSpace(in.Service) == "" {
			return nil, okResult{}, fmt.Errorf("service must not be empty")
		}
		mgr.SetAPIKey(in.Service, in.APIKey)
		return nil, okResult{OK: true, Message: "API key updated for " + in.Service}, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "update_script",
		Description: "Replace the current script text",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, in updateScriptParams) (*sdkmcp.CallToolResult, scriptResult, error) {
		mgr.UpdateScript(in.Content)
		return nil, scriptResult{OK: true, WordCount: len(strings.Fields(in.Content))}, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "export_context",
		Description: "Export a full snapshot of the session context for backup or diagnostics",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, _ emptyParams) (*sdkmcp.CallToolResult, session.ManagerExport, error) {
		return nil, mgr.Export(), nil
	})
}

func registerProjectTools(server *sdkmcp.Server, deps Deps) {
	svc := deps.Projects
	mgr := deps.Sessions

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "save_project",
		Description: "Save a project; overwriting an existing project keeps its creation time",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, in saveProjectParams) (*sdkmcp.CallToolResult, *project.Project, error) {
		proj, err := svc.Save(ctx, in.Name, in.Script, in.Notes)
		if err != nil {
			return nil, nil, wrapErr(err)
		}
		mgr.UpdateProject(proj.Name, map[string]any{
			"script":     proj.Script,
			"notes":      proj.Notes,
			"word_count": proj.WordCount,
		})
		return nil, proj, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "load_project",
		Description: "Load a saved project and make it the current one",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, in projectNameParams) (*sdkmcp.CallToolResult, *project.Project, error) {
		proj, err := svc.Load(ctx, in.Name)
		if err != nil {
			return nil, nil, wrapErr(err)
		}
		mgr.SetCurrentProject(proj.Name)
		mgr.UpdateScript(proj.Script)
		return nil, proj, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_projects",
		Description: "List saved projects, newest first",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, _ emptyParams) (*sdkmcp.CallToolResult, projectListResult, error) {
		projects, err := svc.List(ctx)
		if err != nil {
			return nil, projectListResult{}, wrapErr(err)
		}
		return nil, projectListResult{Projects: projects, Count: len(projects)}, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "delete_project",
		Description: "Delete a saved project; sample projects are protected",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, in projectNameParams) (*sdkmcp.CallToolResult, okResult, error) {
		if err := svc.Delete(ctx, in.Name); err != nil {
			return nil, okResult{}, wrapErr(err)
		}
		return nil, okResult{OK: true, Message: "deleted " + in.Name}, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "export_project",
		Description: "Export a project wrapped with export metadata",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, in projectNameParams) (*sdkmcp.CallToolResult, *project.Export, error) {
		export, err := svc.Export(ctx, in.Name)
		if err != nil {
			return nil, nil, wrapErr(err)
		}
		return nil, export, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "create_project",
		Description: "Create a new empty project under a unique name",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, in createProjectParams) (*sdkmcp.CallToolResult, *project.Project, error) {
		proj, err := svc.CreateNew(ctx, in.Name)
		if err != nil {
			return nil, nil, wrapErr(err)
		}
		mgr.SetCurrentProject(proj.Name)
		return nil, proj, nil
	})
}

func registerCapabilityTools(server *sdkmcp.Server, deps Deps) {
	caps := deps.Capabilities

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_server_info",
		Description: "Get capability server status: registered tools and resources, uptime",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, _ emptyParams) (*sdkmcp.CallToolResult, capability.ServerInfo, error) {
		return nil, caps.Info(), nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_capabilities",
		Description: "List registered capability tools and resources",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, _ emptyParams) (*sdkmcp.CallToolResult, capabilityListResult, error) {
		return nil, capabilityListResult{Tools: caps.ListTools(), Resources: caps.ListResources()}, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "execute_tool",
		Description: "Execute a registered capability tool, e.g. analyze_script or generate_speech",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, in executeToolParams) (*sdkmcp.CallToolResult, executeToolResult, error) {
		result, err := caps.ExecuteTool(ctx, in.Name, in.Parameters)
		if err != nil {
			return nil, executeToolResult{}, wrapErr(err)
		}
		return nil, executeToolResult{Tool: in.Name, Result: result}, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "read_resource",
		Description: "Read from a registered capability resource, e.g. projects, tts, or ai",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, in readResourceParams) (*sdkmcp.CallToolResult, readResourceResult, error) {
		res, err := caps.Resource(in.Name)
		if err != nil {
			return nil, readResourceResult{}, wrapErr(err)
		}
		data, err := res.Read(ctx, in.Identifier)
		if err != nil {
			return nil, readResourceResult{}, wrapErr(err)
		}
		return nil, readResourceResult{Resource: in.Name, Data: data}, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "write_resource",
		Description: "Write to a registered capability resource; the data's action field selects the operation",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, in writeResourceParams) (*sdkmcp.CallToolResult, okResult, error) {
		res, err := caps.Resource(in.Name)
		if err != nil {
			return nil, okResult{}, wrapErr(err)
		}
		ok, err := res.Write(ctx, in.Data, in.Identifier)
		if err != nil {
			return nil, okResult{}, wrapErr(err)
		}
		return nil, okResult{OK: ok}, nil
	})
}

func registerWorkflowTools(server *sdkmcp.Server, deps Deps) {
	registry := deps.Workflows
	agt := deps.Agent

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_workflows",
		Description: "List registered workflows with their required parameters",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, _ emptyParams) (*sdkmcp.CallToolResult, workflowListResult, error) {
		infos := registry.AllInfo()
		return nil, workflowListResult{Workflows: infos, Count: len(infos)}, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "execute_workflow",
		Description: "Run a workflow through the agent; returns the structured result when the run finishes",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, in executeWorkflowParams) (*sdkmcp.CallToolResult, workflow.Result, error) {
		wf, err := registry.Workflow(in.Name)
		if err != nil {
			return nil, workflow.Result{}, wrapErr(err)
		}
		return nil, agt.ExecuteWorkflow(ctx, wf, in.Params), nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_agent_status",
		Description: "Get the agent's current state, running workflow, and history count",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, _ emptyParams) (*sdkmcp.CallToolResult, agent.StatusInfo, error) {
		return nil, agt.StatusInfo(), nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "pause_agent",
		Description: "Pause the running workflow at its next progress checkpoint",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, _ emptyParams) (*sdkmcp.CallToolResult, agentControlResult, error) {
		ok := agt.Pause()
		return nil, agentControlResult{OK: ok, Status: agt.StatusInfo().Status}, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "resume_agent",
		Description: "Resume a paused workflow",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, _ emptyParams) (*sdkmcp.CallToolResult, agentControlResult, error) {
		ok := agt.Resume()
		return nil, agentControlResult{OK: ok, Status: agt.StatusInfo().Status}, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "stop_agent",
		Description: "Stop the running workflow by cancelling its context",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, _ emptyParams) (*sdkmcp.CallToolResult, agentControlResult, error) {
		ok := agt.Stop()
		return nil, agentControlResult{OK: ok, Status: agt.StatusInfo().Status}, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_execution_history",
		Description: "List past workflow runs, newest first",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, in executionHistoryParams) (*sdkmcp.CallToolResult, executionHistoryResult, error) {
		records := agt.ExecutionHistory(in.Limit)
		return nil, executionHistoryResult{Executions: records, Count: len(records)}, nil
	})
}

func registerArchiveTools(server *sdkmcp.Server, deps Deps) {
	archive := deps.Archive

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_activity_archive",
		Description: "List tool calls from the durable activity archive, newest first",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, in activityArchiveParams) (*sdkmcp.CallToolResult, activityArchiveResult, error) {
		entries, err := archive.Recent(ctx, in.Type, in.Limit)
		if err != nil {
			return nil, activityArchiveResult{}, wrapErr(err)
		}
		return nil, activityArchiveResult{Entries: entries, Count: len(entries)}, nil
	})
}
