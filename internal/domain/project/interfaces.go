package project

import "context"

// Repository provides persistence for projects, keyed by name.
type Repository interface {
	Save(ctx context.Context, proj *Project) error
	Get(ctx context.Context, name string) (*Project, error)
	Delete(ctx context.Context, name string) error
	List(ctx context.Context) ([]Summary, error)
}
