package workflow

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"
)

// metadataProvider is satisfied by workflows embedding Base.
type metadataProvider interface {
	Metadata() Metadata
}

// Registry maps workflow names to instances. The last registration for a
// given name wins.
type Registry struct {
	mu        sync.Mutex
	workflows map[string]Workflow
	logger    *slog.Logger
}

// NewRegistry creates an empty workflow registry.
func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Registry{
		workflows: map[string]Workflow{},
		logger:    logger,
	}
}

// Register inserts a workflow by name.
func (r *Registry) Register(wf Workflow) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.workflows[wf.Name()] = wf
	r.logger.Info("workflow registered", "name", wf.Name())
}

// Workflow returns the workflow registered under name.
func (r *Registry) Workflow(name string) (Workflow, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	wf, ok := r.workflows[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrWorkflowNotFound, name)
	}
	return wf, nil
}

// List returns the registered workflow names, sorted.
func (r *Registry) List() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, 0, len(r.workflows))
	for name := range r.workflows {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Info returns metadata for the named workflow without executing anything.
func (r *Registry) Info(name string) (Metadata, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	wf, ok := r.workflows[name]
	if !ok {
		return Metadata{}, fmt.Errorf("%w: %s", ErrWorkflowNotFound, name)
	}
	return metadataOf(wf), nil
}

// AllInfo returns metadata for every registered workflow, ordered by name.
func (r *Registry) AllInfo() []Metadata {
	names := r.List()
	r.mu.Lock()
	defer r.mu.Unlock()
	infos := make([]Metadata, 0, len(names))
	for _, name := range names {
		infos = append(infos, metadataOf(r.workflows[name]))
	}
	return infos
}

func metadataOf(wf Workflow) Metadata {
	if provider, ok := wf.(metadataProvider); ok {
		return provider.Metadata()
	}
	return Metadata{
		Name:           wf.Name(),
		Description:    wf.Description(),
		RequiredParams: wf.RequiredParams(),
	}
}
