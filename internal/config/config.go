package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config defines server configuration.
type Config struct {
	Server ServerConfig `yaml:"server"`
	DB     DBConfig     `yaml:"db"`
	Log    LogConfig    `yaml:"log"`
	AI     AIConfig     `yaml:"ai"`
	Voice  VoiceConfig  `yaml:"voice"`
}

type ServerConfig struct {
	// Transport selects "stdio" or "http".
	Transport string `yaml:"transport"`
	Host      string `yaml:"host"`
	Port      int    `yaml:"port"`
}

type DBConfig struct {
	Path string `yaml:"path"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

type AIConfig struct {
	APIKey      string  `yaml:"api_key"`
	BaseURL     string  `yaml:"base_url"`
	Model       string  `yaml:"model"`
	MaxTokens   int     `yaml:"max_tokens"`
	Temperature float64 `yaml:"temperature"`
}

type VoiceConfig struct {
	// Command and Args template the external TTS invocation. Empty
	// falls back to espeak.
	Command  string   `yaml:"command"`
	Args     []string `yaml:"args"`
	AudioDir string   `yaml:"audio_dir"`
	CacheDir string   `yaml:"cache_dir"`
}

// Load reads configuration from an optional YAML file and environment variables.
func Load() (Config, error) {
	cfg := Config{
		Server: ServerConfig{
			Transport: "stdio",
			Host:      "0.0.0.0",
			Port:      8080,
		},
		DB: DBConfig{
			Path: "studio.db",
		},
		Log: LogConfig{
			Level: "info",
		},
		AI: AIConfig{
			BaseURL: "https://openai.inference.de-txl.ionos.com/v1",
			Model:   "meta-llama/Meta-Llama-3.1-8B-Instruct",
		},
		Voice: VoiceConfig{
			AudioDir: "audio_outputs",
			CacheDir: "audio_cache",
		},
	}

	if path := os.Getenv("STUDIO_CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if transport := os.Getenv("STUDIO_TRANSPORT"); transport != "" {
		cfg.Server.Transport = transport
	}
	if host := os.Getenv("STUDIO_SERVER_HOST"); host != "" {
		cfg.Server.Host = host
	}
	if portStr := os.Getenv("STUDIO_SERVER_PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return Config{}, fmt.Errorf("invalid STUDIO_SERVER_PORT: %w", err)
		}
		cfg.Server.Port = port
	}
	if dbPath := os.Getenv("STUDIO_DB_PATH"); dbPath != "" {
		cfg.DB.Path = dbPath
	}
	if level := os.Getenv("STUDIO_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}
	if key := os.Getenv("STUDIO_AI_API_KEY"); key != "" {
		cfg.AI.APIKey = key
	}
	if url := os.Getenv("STUDIO_AI_BASE_URL"); url != "" {
		cfg.AI.BaseURL = url
	}
	if model := os.Getenv("STUDIO_AI_MODEL"); model != "" {
		cfg.AI.Model = model
	}
	if command := os.Getenv("STUDIO_VOICE_COMMAND"); command != "" {
		cfg.Voice.Command = command
	}
	if dir := os.Getenv("STUDIO_AUDIO_DIR"); dir != "" {
		cfg.Voice.AudioDir = dir
	}
	if dir := os.Getenv("STUDIO_CACHE_DIR"); dir != "" {
		cfg.Voice.CacheDir = dir
	}

	return cfg, nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

// Validate checks cross-field constraints.
func (c Config) Validate() error {
	switch c.Server.Transport {
	case "stdio", "http":
	default:
		return fmt.Errorf("invalid transport %q: must be stdio or http", c.Server.Transport)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Server.Port)
	}
	return nil
}
