package tool

import (
	"context"
	"fmt"
	"strings"

	"github.com/wolfaudio/studio-mcp/internal/domain/capability"
	"github.com/wolfaudio/studio-mcp/internal/domain/session"
	"github.com/wolfaudio/studio-mcp/internal/voice"
)

// GenerateSpeech renders a script to audio. Parameters override the
// session's synthesis settings; anything not given falls back to them.
type GenerateSpeech struct {
	capability.ToolInfo
	svc *voice.Service
}

// NewGenerateSpeech creates the speech generation tool.
func NewGenerateSpeech(svc *voice.Service) *GenerateSpeech {
	return &GenerateSpeech{
		ToolInfo: capability.NewToolInfo("generate_speech",
			"Generates spoken audio from text using the configured TTS engine",
			"text"),
		svc: svc,
	}
}

// Execute synthesizes the text and returns the clip details.
func (t *GenerateSpeech) Execute(ctx context.Context, params map[string]any, sctx *session.Context) (any, error) {
	t.RecordExecution()

	text, _ := params["text"].(string)
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("generate_speech requires text")
	}

	settings := sessionSettings(sctx)
	if engine, ok := params["engine"].(string); ok && engine != "" {
		settings.Engine = engine
	}
	if v, ok := params["voice"].(string); ok && v != "" {
		settings.Voice = v
	}
	if speed, ok := params["speed"].(float64); ok && speed > 0 {
		settings.Speed = speed
	}
	if pitch, ok := params["pitch"].(float64); ok {
		settings.Pitch = int(pitch)
	}

	clip, err := t.svc.Generate(ctx, text, settings)
	if err != nil {
		return nil, err
	}

	return map[string]any{
		"audio_path": clip.Path,
		"engine":     clip.Engine,
		"voice":      clip.Voice,
		"cached":     clip.Cached,
	}, nil
}

// sessionSettings reads the synthesis settings mirrored in the session
// context, falling back to defaults for anything missing.
func sessionSettings(sctx *session.Context) voice.Settings {
	settings := voice.DefaultSettings()
	if sctx == nil {
		return settings
	}

	raw, ok := sctx.SessionData()["settings"].(map[string]any)
	if !ok {
		return settings
	}

	if engine, ok := raw["engine"].(string); ok && engine != "" {
		settings.Engine = engine
	}
	if v, ok := raw["voice"].(string); ok && v != "" {
		settings.Voice = v
	}
	if speed, ok := raw["speed"].(float64); ok && speed > 0 {
		settings.Speed = speed
	}
	switch pitch := raw["pitch"].(type) {
	case float64:
		settings.Pitch = int(pitch)
	case int:
		settings.Pitch = pitch
	}
	switch volume := raw["volume"].(type) {
	case float64:
		settings.Volume = int(volume)
	case int:
		settings.Volume = volume
	}
	return settings
}
