package mcp

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverInstructions = `studio-mcp is the context and automation backend for Wolf Studio, a TTS script editor.

Core concepts (keep this mental model small):
- Session context: a bounded in-memory log of activities plus chat history and a session mapping (current script, projects, settings, API keys). Old entries fall off; the durable archive keeps tool calls forever.
- Project: a named script with notes. Sample projects ship with the server and cannot be deleted.
- Capability server: an internal registry of tools (analyze_script, generate_speech) and resources (projects, tts, ai) reached through execute_tool / read_resource / write_resource.
- Workflow: a named multi-step unit of work (script_improvement, batch_processing).
- Agent: runs one workflow at a time; it can be paused at progress checkpoints, resumed, and stopped.

Rules of engagement (default workflow):
1) Orient: call get_session_summary or get_unified_context.
2) Edit: update_script to replace the script; save_project / load_project to persist and switch.
3) Analyze and speak: execute_tool("analyze_script", ...) for stats, execute_tool("generate_speech", ...) for audio. Session settings apply unless overridden per call.
4) Converse: write_resource("ai", {action: "chat", message: ...}) for AI help; the exchange is recorded in chat history automatically.
5) Automate: list_workflows, then execute_workflow. Watch get_agent_status; pause_agent / resume_agent / stop_agent control a long run.
6) Audit: get_recent_activities and search_activities cover the retained window; get_activity_archive reaches further back.

Transport notes:
- HTTP: pass session id via Mcp-Session-Id header.
- Stdio: pass session id via _meta.session_id when supported.

Docs (progressive disclosure):
- studio://docs/index (what to read when)
- studio://docs/concepts (glossary + invariants)
- studio://docs/workflows (running and controlling workflows)
`

type docResource struct {
	URI         string
	Name        string
	Title       string
	Description string
	Content     string
}

var docResources = []docResource{
	{
		URI:         "studio://docs/index",
		Name:        "docs_index",
		Title:       "studio-mcp docs index",
		Description: "Entry point for agent-facing docs: what exists and what to read.",
		Content: `# studio-mcp: Agent Docs Index

This server is designed for **progressive disclosure**: keep your baseline context small and load deeper docs only when needed.

## Quick start (no deep docs)

1. ` + "`get_session_summary`" + ` to orient (current project, script stats, message and activity counts).
2. ` + "`list_projects`" + ` / ` + "`load_project`" + ` to pick up saved work, or ` + "`create_project`" + ` to start fresh.
3. ` + "`update_script`" + ` to edit; ` + "`save_project`" + ` to persist.
4. ` + "`execute_tool`" + ` with ` + "`analyze_script`" + ` for stats and suggestions, ` + "`generate_speech`" + ` for audio.
5. ` + "`execute_workflow`" + ` for multi-step automation; watch it with ` + "`get_agent_status`" + `.

## Docs (read on demand)

- ` + "`studio://docs/concepts`" + ` — glossary + invariants (bounded context, sample protection, agent state machine).
- ` + "`studio://docs/workflows`" + ` — running, pausing, resuming, and stopping workflows.

## Capabilities & intentional limitations

- The in-memory activity log retains the last 100 activities and 50 chat messages; use ` + "`get_activity_archive`" + ` for older tool calls.
- ` + "`generate_speech`" + ` shells out to a local TTS engine; generated audio is cached by text and voice settings.
- AI tools require an API key (` + "`set_api_key`" + ` or server configuration); without one they return AI_NOT_CONFIGURED.
`,
	},
	{
		URI:         "studio://docs/concepts",
		Name:        "docs_concepts",
		Title:       "Concepts and invariants",
		Description: "Glossary of session context, projects, capabilities, workflows, and the agent.",
		Content: `# Concepts

## Session context

The context manager mirrors the editor's session mapping (current script, projects,
settings, API keys) and keeps two bounded tails: the last 100 activities and the
last 50 chat messages. Every mutation is logged as an activity and synced back to
the external session. ` + "`get_unified_context`" + ` is a derived read-only view; it is
computed on demand and never cached.

Invariants:
- Activity IDs strictly increase within a session.
- Updates deep-merge into the session mapping; nested maps merge key-by-key.
- API key values never appear in activity fields, only which service changed.

## Projects

Projects are keyed by name. Saving an existing name overwrites the script and
notes but keeps the original creation time. Sample projects ship with the server;
deleting one returns SAMPLE_PROTECTED. ` + "`create_project`" + ` resolves name
collisions with a numeric suffix and invents a timestamped name when none is given.

## Capability server

An internal registry, distinct from the MCP tool list. Tools do one computation
(` + "`analyze_script`" + `, ` + "`generate_speech`" + `); resources wrap a service
with uniform read/write (` + "`projects`" + `, ` + "`tts`" + `, ` + "`ai`" + `).
Every execution and access is logged to the activity log.

## Agent

One workflow at a time. Status moves idle → planning → executing → completed and
resets to idle when bookkeeping finishes; a second request while busy fails fast
with "agent is busy". Progress reports double as pause checkpoints. Workflow
failures surface in the result's ` + "`success`" + ` field, never as protocol errors.
`,
	},
	{
		URI:         "studio://docs/workflows",
		Name:        "docs_workflows",
		Title:       "Running workflows",
		Description: "How to run, watch, pause, resume, and stop workflows.",
		Content: `# Running workflows

1. ` + "`list_workflows`" + ` shows registered workflows and their required parameters.
   Missing parameters fail the run immediately with a structured result.
2. ` + "`execute_workflow`" + ` blocks until the run finishes and returns the result:
   ` + "`{success, data, error, timestamp}`" + `. A failed step sets ` + "`success: false`" + `;
   the call itself still succeeds.
3. Progress lands in the activity log as ` + "`agent_progress`" + ` entries; poll
   ` + "`get_recent_activities`" + ` with ` + "`type: agent_progress`" + ` from another
   session to watch a long run.
4. ` + "`pause_agent`" + ` takes effect at the next progress checkpoint, not instantly.
   ` + "`resume_agent`" + ` releases it. ` + "`stop_agent`" + ` cancels the run's context;
   well-behaved workflows notice at their next checkpoint.
5. ` + "`get_execution_history`" + ` lists past runs newest first, bounded to 100.

## Built-in workflows

- ` + "`script_improvement`" + ` — analyzes the script and applies improvements of the
  requested type. Requires ` + "`script_content`" + `.
- ` + "`batch_processing`" + ` — applies one operation (generate_tts, improve_script,
  export_project) across a list of items. Requires ` + "`items`" + ` and ` + "`operation`" + `.
`,
	},
}

func registerDocResources(server *sdkmcp.Server) {
	for _, doc := range docResources {
		doc := doc

		server.AddResource(&sdkmcp.Resource{
			URI:         doc.URI,
			Name:        doc.Name,
			Title:       doc.Title,
			Description: doc.Description,
			MIMEType:    "text/markdown",
			Size:        int64(len(doc.Content)),
		}, func(_ context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
			uri := doc.URI
			if req != nil && req.Params != nil && req.Params.URI != "" {
				uri = req.Params.URI
			}
			return &sdkmcp.ReadResourceResult{
				Contents: []*sdkmcp.ResourceContents{{
					URI:      uri,
					MIMEType: "text/markdown",
					Text:     doc.Content,
				}},
			}, nil
		})
	}
}
