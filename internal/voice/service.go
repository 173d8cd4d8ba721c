package voice

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// previewWords caps how much of the script a live preview speaks.
const previewWords = 10

// Service routes synthesis requests to registered engines and caches the
// rendered audio.
type Service struct {
	engines map[string]Synthesizer
	cache   *Cache
	logger  *slog.Logger
}

// NewService creates a synthesis service.
func NewService(cache *Cache, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{
		engines: make(map[string]Synthesizer),
		cache:   cache,
		logger:  logger,
	}
}

// RegisterEngine adds a synthesis engine. Re-registering a name replaces it.
func (s *Service) RegisterEngine(engine Synthesizer) {
	s.engines[engine.Name()] = engine
	s.logger.Info("registered synthesis engine", "engine", engine.Name())
}

// Engines lists registered engine names.
func (s *Service) Engines() []string {
	names := make([]string, 0, len(s.engines))
	for name := range s.engines {
		names = append(names, name)
	}
	return names
}

// Voices lists the voices offered by the named engine.
func (s *Service) Voices(engine string) ([]string, error) {
	eng, ok := s.engines[engine]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrEngineNotFound, engine)
	}
	return eng.Voices(), nil
}

// Generate synthesizes text into audio, serving repeats from the cache.
func (s *Service) Generate(ctx context.Context, text string, settings Settings) (*Clip, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyText
	}

	engine, ok := s.engines[settings.Engine]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrEngineNotFound, settings.Engine)
	}

	key := Key(text, settings)
	if s.cache != nil {
		if path, ok := s.cache.Get(key); ok {
			s.logger.Debug("audio cache hit", "key", key)
			return &Clip{
				Path:      path,
				Engine:    settings.Engine,
				Voice:     settings.Voice,
				Cached:    true,
				CreatedAt: time.Now(),
			}, nil
		}
	}

	path, err := engine.Synthesize(ctx, text, settings)
	if err != nil {
		return nil, fmt.Errorf("synthesizing audio: %w", err)
	}

	if s.cache != nil {
		if cached, err := s.cache.Put(key, path); err != nil {
			s.logger.Warn("audio cache store failed", "error", err)
		} else {
			s.logger.Debug("audio cached", "key", key, "path", cached)
		}
	}

	return &Clip{
		Path:      path,
		Engine:    settings.Engine,
		Voice:     settings.Voice,
		CreatedAt: time.Now(),
	}, nil
}

// Preview synthesizes just the opening words of the text.
func (s *Service) Preview(ctx context.Context, text string, settings Settings) (*Clip, error) {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil, ErrEmptyText
	}
	if len(words) > previewWords {
		words = words[:previewWords]
	}
	return s.Generate(ctx, strings.Join(words, " ")+"...", settings)
}
