package capability

import (
	"context"
	"sync"
	"time"
)

// Resource is a uniform read/write capability wrapper around an external
// service. Implementations decide what identifier addresses and what shape
// data takes, and must call Touch on every read and write.
type Resource interface {
	Name() string
	Description() string
	Read(ctx context.Context, identifier string) (any, error)
	Write(ctx context.Context, data any, identifier string) (bool, error)
	Metadata() ResourceMetadata
}

// ResourceMetadata describes a registered resource.
type ResourceMetadata struct {
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	CreatedAt    time.Time `json:"created_at"`
	LastAccessed time.Time `json:"last_accessed,omitzero"`
}

// ResourceInfo provides the metadata half of the Resource contract for
// embedding in concrete resources.
type ResourceInfo struct {
	name        string
	description string
	createdAt   time.Time

	mu           sync.Mutex
	lastAccessed time.Time
}

// NewResourceInfo creates resource metadata with the creation time set.
func NewResourceInfo(name, description string) ResourceInfo {
	return ResourceInfo{
		name:        name,
		description: description,
		createdAt:   time.Now(),
	}
}

// Name returns the registry key for the resource.
func (r *ResourceInfo) Name() string { return r.name }

// Description returns the resource description.
func (r *ResourceInfo) Description() string { return r.description }

// Touch records an access. Implementations call it on every read and write.
func (r *ResourceInfo) Touch() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastAccessed = time.Now()
}

// Metadata returns a snapshot of the resource metadata.
func (r *ResourceInfo) Metadata() ResourceMetadata {
	r.mu.Lock()
	defer r.mu.Unlock()
	return ResourceMetadata{
		Name:         r.name,
		Description:  r.description,
		CreatedAt:    r.createdAt,
		LastAccessed: r.lastAccessed,
	}
}
