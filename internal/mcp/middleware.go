package mcp

import (
	"context"
	"encoding/json"
	"log/slog"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/wolfaudio/studio-mcp/internal/sqlite"
)

type contextKey int

const sessionIDKey contextKey = iota

// getSessionID extracts session ID from context.
func getSessionID(ctx context.Context) string {
	v, _ := ctx.Value(sessionIDKey).(string)
	return v
}

// sessionMiddleware extracts session ID from Mcp-Session-Id header (HTTP) or metadata (stdio).
func sessionMiddleware() sdkmcp.Middleware {
	return func(next sdkmcp.MethodHandler) sdkmcp.MethodHandler {
		return func(ctx context.Context, method string, req sdkmcp.Request) (sdkmcp.Result, error) {
			var sessionID string

			// Try HTTP header first (HTTP transport)
			extra := req.GetExtra()
			if extra != nil && extra.Header != nil {
				sessionID = extra.Header.Get("Mcp-Session-Id")
			}

			// If not in header, check metadata (stdio transport)
			// Note: Some notifications (like "initialized") have nil params,
			// so we must check carefully to avoid nil pointer dereference.
			if sessionID == "" {
				if params := req.GetParams(); params != nil {
					// Use defer/recover to safely handle cases where GetMeta
					// is called on a nil underlying value (SDK quirk)
					func() {
						defer func() { recover() }()
						if meta := params.GetMeta(); meta != nil {
							if sid, ok := meta["session_id"].(string); ok {
								sessionID = sid
							}
						}
					}()
				}
			}

			if sessionID != "" {
				ctx = context.WithValue(ctx, sessionIDKey, sessionID)
			}

			return next(ctx, method, req)
		}
	}
}

// archiveMiddleware writes every tool call to the durable activity archive.
// The in-memory activity log keeps only a bounded tail; the archive is the
// permanent record. Archive failures never fail the call.
func archiveMiddleware(archive *sqlite.ActivityArchive, logger *slog.Logger) sdkmcp.Middleware {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return func(next sdkmcp.MethodHandler) sdkmcp.MethodHandler {
		return func(ctx context.Context, method string, req sdkmcp.Request) (sdkmcp.Result, error) {
			result, err := next(ctx, method, req)
			if method != "tools/call" {
				return result, err
			}

			activityType := "tool_call"
			if err != nil {
				activityType = "tool_call_error"
			}
			entry := &sqlite.ArchiveEntry{
				ActivityType: activityType,
				Summary:      toolCallSummary(req),
				Details:      formatPayload(safeParams(req)),
			}
			if recordErr := archive.Record(ctx, entry); recordErr != nil {
				logger.Warn("failed to archive tool call", "tool", entry.Summary, "error", recordErr)
			}
			return result, err
		}
	}
}

// toolCallSummary pulls the tool name out of a tools/call request without
// depending on the SDK's concrete params type.
func toolCallSummary(req sdkmcp.Request) string {
	var p struct {
		Name string `json:"name"`
	}
	if data, err := json.Marshal(safeParams(req)); err == nil {
		_ = json.Unmarshal(data, &p)
	}
	if p.Name == "" {
		return "tools/call"
	}
	return p.Name
}
