package resource

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/wolfaudio/studio-mcp/internal/voice"
)

type stubEngine struct {
	dir   string
	calls int
	last  voice.Settings
}

func (e *stubEngine) Name() string     { return "command" }
func (e *stubEngine) Voices() []string { return []string{"en", "es"} }

func (e *stubEngine) Synthesize(_ context.Context, text string, settings voice.Settings) (string, error) {
	e.calls++
	e.last = settings
	path := filepath.Join(e.dir, "out.wav")
	return path, os.WriteFile(path, []byte(text), 0o644)
}

func newSpeechResource(t *testing.T) (*SpeechResource, *stubEngine) {
	t.Helper()
	cache, err := voice.NewCache(t.TempDir())
	require.NoError(t, err)
	svc := voice.NewService(cache, nil)
	engine := &stubEngine{dir: t.TempDir()}
	svc.RegisterEngine(engine)
	return NewSpeechResource(svc), engine
}

func TestSpeechResource_ReadInfo(t *testing.T) {
	r, _ := newSpeechResource(t)

	data, err := r.Read(context.Background(), "")
	require.NoError(t, err)
	result := data.(map[string]any)
	require.Equal(t, "tts_info", result["type"])
	require.Equal(t, []string{"command"}, result["supported_engines"])

	data, err = r.Read(context.Background(), "voices")
	require.NoError(t, err)
	result = data.(map[string]any)
	require.Equal(t, "voices", result["type"])
	voices := result["available_voices"].(map[string][]string)
	require.Equal(t, []string{"en", "es"}, voices["command"])
}

func TestSpeechResource_WriteGenerate(t *testing.T) {
	r, engine := newSpeechResource(t)

	ok, err := r.Write(context.Background(), map[string]any{
		"action": "generate",
		"text":   "hello world",
		"voice":  "es",
		"speed":  1.5,
		"pitch":  10.0,
	}, "")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 1, engine.calls)
	require.Equal(t, "es", engine.last.Voice)
	require.Equal(t, 1.5, engine.last.Speed)
	require.Equal(t, 10, engine.last.Pitch)
}

func TestSpeechResource_WritePreview(t *testing.T) {
	r, engine := newSpeechResource(t)

	ok, err := r.Write(context.Background(), map[string]any{
		"action": "preview",
		"text":   "one two three four five six seven eight nine ten eleven",
	}, "")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 1, engine.calls)
}

func TestSpeechResource_WriteErrors(t *testing.T) {
	r, _ := newSpeechResource(t)

	_, err := r.Write(context.Background(), map[string]any{"action": "generate", "text": " "}, "")
	require.ErrorIs(t, err, voice.ErrEmptyText)

	_, err = r.Write(context.Background(), map[string]any{"action": "remix", "text": "x"}, "")
	require.ErrorContains(t, err, "unknown tts action")
}
