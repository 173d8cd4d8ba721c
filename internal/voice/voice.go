package voice

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrEmptyText indicates there is nothing to synthesize.
	ErrEmptyText = errors.New("no text to synthesize")
	// ErrEngineNotFound indicates an unknown synthesis engine.
	ErrEngineNotFound = errors.New("synthesis engine not found")
)

// Settings are the tunable synthesis parameters.
type Settings struct {
	Engine string  `json:"engine"`
	Voice  string  `json:"voice"`
	Speed  float64 `json:"speed"`
	Volume int     `json:"volume"`
	Pitch  int     `json:"pitch"`
}

// DefaultSettings returns the synthesis defaults used by a fresh session.
func DefaultSettings() Settings {
	return Settings{
		Engine: "command",
		Voice:  "en",
		Speed:  1.0,
		Volume: 80,
	}
}

// Clip describes a generated audio file.
type Clip struct {
	Path      string    `json:"path"`
	Engine    string    `json:"engine"`
	Voice     string    `json:"voice"`
	Cached    bool      `json:"cached"`
	CreatedAt time.Time `json:"created_at"`
}

// Synthesizer turns text into an audio file and returns its path.
type Synthesizer interface {
	Name() string
	Voices() []string
	Synthesize(ctx context.Context, text string, settings Settings) (string, error)
}
