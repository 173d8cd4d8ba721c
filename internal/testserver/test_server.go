package testserver

import (
	"context"
	"fmt"
	"os"
	"strings"
	"testing"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"

	"github.com/wolfaudio/studio-mcp/internal/domain/agent"
	"github.com/wolfaudio/studio-mcp/internal/domain/capability"
	"github.com/wolfaudio/studio-mcp/internal/domain/project"
	"github.com/wolfaudio/studio-mcp/internal/domain/session"
	"github.com/wolfaudio/studio-mcp/internal/domain/workflow"
	"github.com/wolfaudio/studio-mcp/internal/mcp"
	"github.com/wolfaudio/studio-mcp/internal/resource"
	"github.com/wolfaudio/studio-mcp/internal/sqlite"
	"github.com/wolfaudio/studio-mcp/internal/tool"
	"github.com/wolfaudio/studio-mcp/internal/voice"
)

// TestServer wires the full studio stack against an in-memory database and
// connects an MCP client to it over in-memory transports.
type TestServer struct {
	DB       *sqlite.DB
	Sessions *session.Manager
	Projects *project.Service
	Caps     *capability.Server
	Agent    *agent.Agent
	Archive  *sqlite.ActivityArchive

	Client *sdkmcp.ClientSession
}

// fileEngine is a synthesizer that writes the text to the output file.
// It keeps speech tests hermetic.
type fileEngine struct {
	dir string
}

func (e *fileEngine) Name() string     { return "file" }
func (e *fileEngine) Voices() []string { return []string{"en"} }

func (e *fileEngine) Synthesize(ctx context.Context, text string, settings voice.Settings) (string, error) {
	path := e.dir + "/clip.wav"
	return path, os.WriteFile(path, []byte(text), 0o644)
}

func New(t *testing.T) *TestServer {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := sqlite.New(dsn)
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())

	ctx := context.Background()

	projectRepo := sqlite.NewProjectRepository(db)
	projectSvc := project.NewService(projectRepo, nil)
	require.NoError(t, projectSvc.EnsureSamples(ctx))

	mgr := session.NewManager(session.DefaultSessionData(), nil)

	cache, err := voice.NewCache(t.TempDir())
	require.NoError(t, err)
	voiceSvc := voice.NewService(cache, nil)
	voiceSvc.RegisterEngine(&fileEngine{dir: t.TempDir()})

	caps := capability.NewServer(mgr.Context(), nil)
	caps.RegisterResource(resource.NewProjectResource(projectSvc))
	caps.RegisterResource(resource.NewSpeechResource(voiceSvc))
	caps.RegisterTool(tool.NewAnalyzeScript())
	caps.RegisterTool(tool.NewGenerateSpeech(voiceSvc))
	caps.Start()

	registry := workflow.NewRegistry(nil)
	registry.Register(workflow.NewScriptImprovement())
	registry.Register(workflow.NewBatchProcessing())

	agt := agent.New(mgr, nil)
	archive := sqlite.NewActivityArchive(db)

	server := mcp.NewServer(mcp.Config{
		Deps: mcp.Deps{
			Sessions:     mgr,
			Projects:     projectSvc,
			Capabilities: caps,
			Workflows:    registry,
			Agent:        agt,
			Archive:      archive,
		},
		TransportMode: "stdio",
	})

	clientTransport, serverTransport := sdkmcp.NewInMemoryTransports()

	serverCtx, serverCancel := context.WithCancel(context.Background())
	serverSession, err := server.Connect(serverCtx, serverTransport, nil)
	require.NoError(t, err)

	client := sdkmcp.NewClient(&sdkmcp.Implementation{Name: "test-client", Version: "1.0.0"}, nil)
	clientSession, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)

	ts := &TestServer{
		DB:       db,
		Sessions: mgr,
		Projects: projectSvc,
		Caps:     caps,
		Agent:    agt,
		Archive:  archive,
		Client:   clientSession,
	}

	t.Cleanup(func() {
		_ = clientSession.Close()
		_ = serverSession.Close()
		serverCancel()
		caps.Stop()
		_ = db.Close()
	})

	return ts
}

// CallTool invokes an MCP tool and fails the test on protocol errors.
// The tool's own failure is returned in the result for the caller to assert.
func (ts *TestServer) CallTool(t *testing.T, name string, args map[string]any) *sdkmcp.CallToolResult {
	t.Helper()
	res, err := ts.Client.CallTool(context.Background(), &sdkmcp.CallToolParams{
		Name:      name,
		Arguments: args,
	})
	require.NoError(t, err)
	return res
}
