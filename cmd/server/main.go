package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/wolfaudio/studio-mcp/internal/ai"
	"github.com/wolfaudio/studio-mcp/internal/config"
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

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	// Use stderr for logs in stdio mode to keep stdout clean for JSON-RPC.
	logWriter := io.Writer(os.Stdout)
	if cfg.Server.Transport == "stdio" {
		logWriter = os.Stderr
	}
	if logPath := os.Getenv("STUDIO_LOG_PATH"); logPath != "" {
		fileWriter, file, err := newLogFileWriter(logPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "log file error: %v\n", err)
		} else {
			defer file.Close()
			logWriter = fileWriter
		}
	}
	logger := slog.New(slog.NewTextHandler(logWriter, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Log.Level),
	}))

	if err := ensureDBDir(cfg.DB.Path); err != nil {
		logger.Error("failed to prepare database path", "error", err)
		os.Exit(1)
	}

	db, err := sqlite.New(cfg.DB.Path)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.RunMigrations(); err != nil {
		logger.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	projectRepo := sqlite.NewProjectRepository(db)
	projectSvc := project.NewService(projectRepo, logger)
	if err := projectSvc.EnsureSamples(ctx); err != nil {
		logger.Error("failed to seed sample projects", "error", err)
		os.Exit(1)
	}

	mgr := session.NewManager(session.DefaultSessionData(), logger)

	cache, err := voice.NewCache(cfg.Voice.CacheDir)
	if err != nil {
		logger.Error("failed to prepare audio cache", "error", err)
		os.Exit(1)
	}
	if err := os.MkdirAll(cfg.Voice.AudioDir, 0o755); err != nil {
		logger.Error("failed to prepare audio directory", "error", err)
		os.Exit(1)
	}
	voiceSvc := voice.NewService(cache, logger)
	voiceSvc.RegisterEngine(voice.NewCommandEngine(cfg.Voice.Command, cfg.Voice.Args, cfg.Voice.AudioDir))

	caps := capability.NewServer(mgr.Context(), logger)
	caps.RegisterResource(resource.NewProjectResource(projectSvc))
	caps.RegisterResource(resource.NewSpeechResource(voiceSvc))
	caps.RegisterTool(tool.NewAnalyzeScript())
	caps.RegisterTool(tool.NewGenerateSpeech(voiceSvc))

	// AI is optional: without a key the ai resource stays unregistered and
	// clients see AI_NOT_CONFIGURED through the capability listing.
	if cfg.AI.APIKey != "" {
		aiClient, err := ai.NewClient(ai.Config{
			APIKey:      cfg.AI.APIKey,
			BaseURL:     cfg.AI.BaseURL,
			Model:       cfg.AI.Model,
			MaxTokens:   cfg.AI.MaxTokens,
			Temperature: cfg.AI.Temperature,
		}, logger)
		if err != nil {
			logger.Error("failed to configure AI client", "error", err)
			os.Exit(1)
		}
		caps.RegisterResource(resource.NewChatResource(aiClient, mgr, cfg.AI.Model))
	} else {
		logger.Info("AI client not configured, ai resource disabled")
	}

	caps.Start()
	defer caps.Stop()

	registry := workflow.NewRegistry(logger)
	registry.Register(workflow.NewScriptImprovement())
	registry.Register(workflow.NewBatchProcessing())

	agt := agent.New(mgr, logger)
	archive := sqlite.NewActivityArchive(db)

	mcpServer := mcp.NewServer(mcp.Config{
		Deps: mcp.Deps{
			Sessions:     mgr,
			Projects:     projectSvc,
			Capabilities: caps,
			Workflows:    registry,
			Agent:        agt,
			Archive:      archive,
		},
		TransportMode: cfg.Server.Transport,
		Logger:        logger,
	})

	if cfg.Server.Transport == "stdio" {
		runStdioMode(logger, mcpServer)
	} else {
		runHTTPMode(logger, mcpServer, cfg.Server.Host, cfg.Server.Port)
	}
}

func runStdioMode(logger *slog.Logger, mcpServer *sdkmcp.Server) {
	logger.Info("starting stdio transport")

	transport := &sdkmcp.StdioTransport{}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-stop
		logger.Info("shutting down")
		cancel()
	}()

	// Run blocks until stdin closes or context is canceled
	if err := mcpServer.Run(ctx, transport); err != nil {
		logger.Error("stdio server error", "error", err)
		os.Exit(1)
	}
}

func runHTTPMode(logger *slog.Logger, mcpServer *sdkmcp.Server, host string, port int) {
	mcpHandler := sdkmcp.NewStreamableHTTPHandler(
		func(r *http.Request) *sdkmcp.Server { return mcpServer },
		&sdkmcp.StreamableHTTPOptions{
			Stateless:      false,
			SessionTimeout: 30 * time.Minute,
		},
	)

	router := http.NewServeMux()
	router.Handle("/mcp", mcpHandler)
	router.Handle("/mcp/", mcpHandler)
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	addr := fmt.Sprintf("%s:%d", host, port)
	httpServer := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		logger.Info("server listening", "addr", addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
		}
	}()

	waitForShutdown(logger, httpServer)
}

func ensureDBDir(path string) error {
	if path == ":memory:" || path == "" {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

func waitForShutdown(logger *slog.Logger, server *http.Server) {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	logger.Info("shutting down")
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

const (
	maxLogSizeBytes  = 6 * 1024 * 1024
	keepLogSizeBytes = 5 * 1024 * 1024
)

type logFileWriter struct {
	path string
	file *os.File
	mu   sync.Mutex
}

func newLogFileWriter(path string) (*logFileWriter, *os.File, error) {
	if err := ensureLogDir(path); err != nil {
		return nil, nil, err
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, err
	}
	writer := &logFileWriter{path: path, file: file}
	if err := writer.truncateIfNeeded(); err != nil {
		return nil, nil, err
	}
	return writer, file, nil
}

func ensureLogDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

func (w *logFileWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	n, err := w.file.Write(p)
	if err != nil {
		return n, err
	}
	if err := w.truncateIfNeeded(); err != nil {
		return n, err
	}
	return n, nil
}

func (w *logFileWriter) truncateIfNeeded() error {
	info, err := w.file.Stat()
	if err != nil {
		return err
	}
	size := info.Size()
	if size <= maxLogSizeBytes {
		return nil
	}
	if size <= keepLogSizeBytes {
		return nil
	}

	buf := make([]byte, keepLogSizeBytes)
	if _, err := w.file.Seek(size-keepLogSizeBytes, io.SeekStart); err != nil {
		return err
	}
	n, err := w.file.Read(buf)
	if err != nil && err != io.EOF {
		return err
	}
	buf = buf[:n]

	if err := w.file.Truncate(0); err != nil {
		return err
	}
	if _, err := w.file.Seek(0, io.SeekStart); err != nil {
		return err
	}
	if _, err := w.file.Write(buf); err != nil {
		return err
	}
	_, err = w.file.Seek(0, io.SeekEnd)
	return err
}
