package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "stdio", cfg.Server.Transport)
	require.Equal(t, 8080, cfg.Server.Port)
	require.Equal(t, "studio.db", cfg.DB.Path)
	require.Equal(t, "info", cfg.Log.Level)
	require.Equal(t, "meta-llama/Meta-Llama-3.1-8B-Instruct", cfg.AI.Model)
	require.Equal(t, "audio_outputs", cfg.Voice.AudioDir)
	require.NoError(t, cfg.Validate())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("STUDIO_TRANSPORT", "http")
	t.Setenv("STUDIO_SERVER_PORT", "9090")
	t.Setenv("STUDIO_DB_PATH", "/tmp/test.db")
	t.Setenv("STUDIO_AI_API_KEY", "secret")
	t.Setenv("STUDIO_VOICE_COMMAND", "say")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "http", cfg.Server.Transport)
	require.Equal(t, 9090, cfg.Server.Port)
	require.Equal(t, "/tmp/test.db", cfg.DB.Path)
	require.Equal(t, "secret", cfg.AI.APIKey)
	require.Equal(t, "say", cfg.Voice.Command)
}

func TestLoad_InvalidPort(t *testing.T) {
	t.Setenv("STUDIO_SERVER_PORT", "not-a-port")
	_, err := Load()
	require.ErrorContains(t, err, "STUDIO_SERVER_PORT")
}

func TestLoad_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
server:
  transport: http
  port: 9999
ai:
  model: custom-model
voice:
  command: espeak-ng
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	t.Setenv("STUDIO_CONFIG_PATH", path)

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "http", cfg.Server.Transport)
	require.Equal(t, 9999, cfg.Server.Port)
	require.Equal(t, "custom-model", cfg.AI.Model)
	require.Equal(t, "espeak-ng", cfg.Voice.Command)
}

func TestValidate_Transport(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	cfg.Server.Transport = "carrier-pigeon"
	require.ErrorContains(t, cfg.Validate(), "invalid transport")
}
