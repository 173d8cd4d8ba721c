package project

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/wolfaudio/studio-mcp/internal/repository"
)

const appVersion = "Wolf Studio v1.0"

// Service handles project operations.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService creates a new project service.
func NewService(repo Repository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{repo: repo, logger: logger}
}

// EnsureSamples seeds the bundled sample scripts, skipping any name that
// already exists so user edits survive restarts.
func (s *Service) EnsureSamples(ctx context.Context) error {
	for name, content := range sampleScripts {
		_, err := s.repo.Get(ctx, name)
		if err == nil {
			continue
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("checking sample %q: %w", name, err)
		}

		proj := &Project{
			Name:           name,
			Script:         content.Script,
			Notes:          content.Notes,
			CreatedAt:      time.Now(),
			WordCount:      wordCount(content.Script),
			CharacterCount: len(content.Script),
			IsSample:       true,
		}
		if err := s.repo.Save(ctx, proj); err != nil {
			return fmt.Errorf("seeding sample %q: %w", name, err)
		}
		s.logger.Info("seeded sample project", "name", name, "words", proj.WordCount)
	}
	return nil
}

// Save creates or overwrites a project. The creation time of an existing
// project is preserved; everything else, including sample status, is replaced.
func (s *Service) Save(ctx context.Context, name, script, notes string) (*Project, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrInvalidInput
	}

	createdAt := time.Now()
	if existing, err := s.repo.Get(ctx, name); err == nil {
		createdAt = existing.CreatedAt
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("checking project %q: %w", name, err)
	}

	proj := &Project{
		Name:           name,
		Script:         script,
		Notes:          notes,
		CreatedAt:      createdAt,
		LastModified:   time.Now(),
		WordCount:      wordCount(script),
		CharacterCount: len(script),
		IsSample:       false,
	}

	if err := s.repo.Save(ctx, proj); err != nil {
		return nil, fmt.Errorf("saving project %q: %w", name, err)
	}

	s.logger.Info("project saved", "name", name, "words", proj.WordCount)
	return proj, nil
}

// Load fetches a project by name.
func (s *Service) Load(ctx context.Context, name string) (*Project, error) {
	if name == "" {
		return nil, ErrInvalidInput
	}

	proj, err := s.repo.Get(ctx, name)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("loading project %q: %w", name, err)
	}
	return proj, nil
}

// Delete removes a project. Sample projects are protected.
func (s *Service) Delete(ctx context.Context, name string) error {
	proj, err := s.repo.Get(ctx, name)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrProjectNotFound
		}
		return fmt.Errorf("checking project %q: %w", name, err)
	}
	if proj.IsSample {
		return ErrSampleProtected
	}

	if err := s.repo.Delete(ctx, name); err != nil {
		return fmt.Errorf("deleting project %q: %w", name, err)
	}
	s.logger.Info("project deleted", "name", name)
	return nil
}

// Export wraps a project with handoff metadata.
func (s *Service) Export(ctx context.Context, name string) (*Export, error) {
	proj, err := s.Load(ctx, name)
	if err != nil {
		return nil, err
	}
	return &Export{
		ProjectName: name,
		ExportedAt:  time.Now(),
		AppVersion:  appVersion,
		ProjectData: proj,
	}, nil
}

// List returns project summaries.
func (s *Service) List(ctx context.Context) ([]Summary, error) {
	return s.repo.List(ctx)
}

// CreateNew creates an empty project. An empty name gets a generated one;
// a taken name gets a numeric suffix until it is unique.
func (s *Service) CreateNew(ctx context.Context, name string) (*Project, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = "New_Project_" + time.Now().Format("20060102_150405")
	}

	base := name
	for counter := 1; ; counter++ {
		_, err := s.repo.Get(ctx, name)
		if errors.Is(err, repository.ErrNotFound) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("checking project %q: %w", name, err)
		}
		name = fmt.Sprintf("%s_%d", base, counter)
	}

	proj := &Project{
		Name:      name,
		CreatedAt: time.Now(),
	}
	if err := s.repo.Save(ctx, proj); err != nil {
		return nil, fmt.Errorf("creating project %q: %w", name, err)
	}

	s.logger.Info("project created", "name", name)
	return proj, nil
}

func wordCount(s string) int {
	if strings.TrimSpace(s) == "" {
		return 0
	}
	return len(strings.Fields(s))
}
