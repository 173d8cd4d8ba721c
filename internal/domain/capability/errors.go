package capability

import "errors"

var (
	// ErrToolNotFound indicates no tool is registered under the name.
	ErrToolNotFound = errors.New("tool not found")
	// ErrResourceNotFound indicates no resource is registered under the name.
	ErrResourceNotFound = errors.New("resource not found")
)
