package mcp

import (
	"log/slog"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/wolfaudio/studio-mcp/internal/domain/agent"
	"github.com/wolfaudio/studio-mcp/internal/domain/capability"
	"github.com/wolfaudio/studio-mcp/internal/domain/project"
	"github.com/wolfaudio/studio-mcp/internal/domain/session"
	"github.com/wolfaudio/studio-mcp/internal/domain/workflow"
	"github.com/wolfaudio/studio-mcp/internal/sqlite"
)

// Deps contains all domain services needed by MCP.
type Deps struct {
	Sessions     *session.Manager
	Projects     *project.Service
	Capabilities *capability.Server
	Workflows    *workflow.Registry
	Agent        *agent.Agent

	// Archive is optional. When set, every tool call is also written to the
	// durable activity archive and the get_activity_archive tool is
	// registered.
	Archive *sqlite.ActivityArchive
}

// Config contains server configuration.
type Config struct {
	Deps          Deps
	TransportMode string // "stdio" or "http"
	Logger        *slog.Logger
}

// NewServer creates and configures an MCP server with all tools and middleware.
func NewServer(cfg Config) *sdkmcp.Server {
	server := sdkmcp.NewServer(&sdkmcp.Implementation{
		Name:    "studio-mcp",
		Version: "1.0.0",
	}, &sdkmcp.ServerOptions{
		Instructions: serverInstructions,
		Logger:       cfg.Logger,
	})

	registerDocResources(server)

	server.AddReceivingMiddleware(sessionMiddleware())
	if cfg.Deps.Archive != nil {
		server.AddReceivingMiddleware(archiveMiddleware(cfg.Deps.Archive, cfg.Logger))
	}
	server.AddReceivingMiddleware(trafficLoggingMiddleware(cfg.Logger, "inbound"))
	server.AddSendingMiddleware(trafficLoggingMiddleware(cfg.Logger, "outbound"))

	registerTools(server, cfg.Deps)

	return server
}
