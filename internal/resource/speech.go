package resource

import (
	"context"
	"fmt"

	"github.com/wolfaudio/studio-mcp/internal/domain/capability"
	"github.com/wolfaudio/studio-mcp/internal/voice"
)

// SpeechResource exposes text-to-speech generation through the uniform
// resource contract.
type SpeechResource struct {
	capability.ResourceInfo
	svc *voice.Service
}

// NewSpeechResource creates the speech resource.
func NewSpeechResource(svc *voice.Service) *SpeechResource {
	return &SpeechResource{
		ResourceInfo: capability.NewResourceInfo("tts",
			"Provides text-to-speech generation and voice management"),
		svc: svc,
	}
}

// Read returns voice listings or engine capabilities.
func (r *SpeechResource) Read(_ context.Context, identifier string) (any, error) {
	r.Touch()

	engines := r.svc.Engines()
	voices := make(map[string][]string, len(engines))
	for _, engine := range engines {
		list, err := r.svc.Voices(engine)
		if err != nil {
			return nil, err
		}
		voices[engine] = list
	}

	if identifier == "voices" {
		return map[string]any{
			"type":             "voices",
			"available_voices": voices,
		}, nil
	}
	return map[string]any{
		"type":              "tts_info",
		"available_voices":  voices,
		"supported_engines": engines,
	}, nil
}

// Write generates audio for the given text, as a full render or a preview.
func (r *SpeechResource) Write(ctx context.Context, data any, _ string) (bool, error) {
	r.Touch()

	fields, ok := data.(map[string]any)
	if !ok {
		return false, fmt.Errorf("tts write expects an object, got %T", data)
	}

	text, _ := fields["text"].(string)
	settings := settingsFromFields(fields)

	action, _ := fields["action"].(string)
	switch action {
	case "generate":
		if _, err := r.svc.Generate(ctx, text, settings); err != nil {
			return false, err
		}
		return true, nil
	case "preview":
		if _, err := r.svc.Preview(ctx, text, settings); err != nil {
			return false, err
		}
		return true, nil
	}

	return false, fmt.Errorf("unknown tts action %q", action)
}

func settingsFromFields(fields map[string]any) voice.Settings {
	settings := voice.DefaultSettings()
	if engine, ok := fields["engine"].(string); ok && engine != "" {
		settings.Engine = engine
	}
	if v, ok := fields["voice"].(string); ok && v != "" {
		settings.Voice = v
	}
	if speed, ok := fields["speed"].(float64); ok && speed > 0 {
		settings.Speed = speed
	}
	if pitch, ok := fields["pitch"].(float64); ok {
		settings.Pitch = int(pitch)
	}
	return settings
}
