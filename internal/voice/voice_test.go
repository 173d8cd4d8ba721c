package voice

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// stubEngine records synthesis calls and writes a marker file.
type stubEngine struct {
	name  string
	dir   string
	calls int
}

func (e *stubEngine) Name() string     { return e.name }
func (e *stubEngine) Voices() []string { return []string{"en", "es"} }

func (e *stubEngine) Synthesize(_ context.Context, text string, _ Settings) (string, error) {
	e.calls++
	path := filepath.Join(e.dir, fmt.Sprintf("out_%d.wav", e.calls))
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return "", err
	}
	return path, nil
}

func newTestService(t *testing.T) (*Service, *stubEngine) {
	t.Helper()
	cache, err := NewCache(t.TempDir())
	require.NoError(t, err)

	svc := NewService(cache, nil)
	engine := &stubEngine{name: "command", dir: t.TempDir()}
	svc.RegisterEngine(engine)
	return svc, engine
}

func TestKey_SensitiveToTextAndSettings(t *testing.T) {
	settings := DefaultSettings()
	base := Key("hello", settings)
	require.Len(t, base, 64)
	require.Equal(t, base, Key("hello", settings))

	require.NotEqual(t, base, Key("goodbye", settings))

	faster := settings
	faster.Speed = 1.5
	require.NotEqual(t, base, Key("hello", faster))

	spanish := settings
	spanish.Voice = "es"
	require.NotEqual(t, base, Key("hello", spanish))
}

func TestService_GenerateUsesCache(t *testing.T) {
	svc, engine := newTestService(t)
	ctx := context.Background()
	settings := DefaultSettings()

	clip, err := svc.Generate(ctx, "hello world", settings)
	require.NoError(t, err)
	require.False(t, clip.Cached)
	require.Equal(t, 1, engine.calls)

	again, err := svc.Generate(ctx, "hello world", settings)
	require.NoError(t, err)
	require.True(t, again.Cached)
	require.Equal(t, 1, engine.calls, "cache hit must not synthesize")

	content, err := os.ReadFile(again.Path)
	require.NoError(t, err)
	require.Equal(t, "hello world", string(content))
}

func TestService_GenerateEmptyText(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.Generate(context.Background(), "   ", DefaultSettings())
	require.ErrorIs(t, err, ErrEmptyText)
}

func TestService_GenerateUnknownEngine(t *testing.T) {
	svc, _ := newTestService(t)
	settings := DefaultSettings()
	settings.Engine = "cloud"
	_, err := svc.Generate(context.Background(), "hello", settings)
	require.ErrorIs(t, err, ErrEngineNotFound)
}

func TestService_PreviewTruncates(t *testing.T) {
	svc, engine := newTestService(t)

	text := "one two three four five six seven eight nine ten eleven twelve"
	clip, err := svc.Preview(context.Background(), text, DefaultSettings())
	require.NoError(t, err)

	content, err := os.ReadFile(clip.Path)
	require.NoError(t, err)
	require.Equal(t, "one two three four five six seven eight nine ten...", string(content))
	require.Equal(t, 1, engine.calls)
}

func TestService_Voices(t *testing.T) {
	svc, _ := newTestService(t)

	voices, err := svc.Voices("command")
	require.NoError(t, err)
	require.Equal(t, []string{"en", "es"}, voices)

	_, err = svc.Voices("ghost")
	require.ErrorIs(t, err, ErrEngineNotFound)
}

func TestCommandEngine_TemplateExpansion(t *testing.T) {
	dir := t.TempDir()
	// Use the shell to stand in for a TTS binary: copy the text into the
	// output file named by the template.
	engine := NewCommandEngine("sh", []string{"-c", `printf '%s' "$1" > "$2"`, "tts", placeholderText, placeholderOutput}, dir)

	settings := DefaultSettings()
	path, err := engine.Synthesize(context.Background(), "spoken text", settings)
	require.NoError(t, err)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "spoken text", string(content))
}

func TestCommandEngine_EmptyText(t *testing.T) {
	engine := NewCommandEngine("", nil, t.TempDir())
	_, err := engine.Synthesize(context.Background(), "  ", DefaultSettings())
	require.ErrorIs(t, err, ErrEmptyText)
}

func TestCommandEngine_CommandFailure(t *testing.T) {
	engine := NewCommandEngine("sh", []string{"-c", "exit 3"}, t.TempDir())
	_, err := engine.Synthesize(context.Background(), "hello", DefaultSettings())
	require.ErrorContains(t, err, "running sh")
}
