package resource

import (
	"context"
	"fmt"

	"github.com/wolfaudio/studio-mcp/internal/domain/capability"
	"github.com/wolfaudio/studio-mcp/internal/domain/project"
)

// ProjectResource exposes the project store through the uniform
// resource contract. Reads address a project by name, or list all projects
// when the identifier is empty. Writes dispatch on an "action" field.
type ProjectResource struct {
	capability.ResourceInfo
	svc *project.Service
}

// NewProjectResource creates the project resource.
func NewProjectResource(svc *project.Service) *ProjectResource {
	return &ProjectResource{
		ResourceInfo: capability.NewResourceInfo("projects",
			"Manages projects - save, load, delete, export, and list projects"),
		svc: svc,
	}
}

// Read returns the project list, or one project's data when identified.
func (r *ProjectResource) Read(ctx context.Context, identifier string) (any, error) {
	r.Touch()

	if identifier == "" {
		projects, err := r.svc.List(ctx)
		if err != nil {
			return nil, err
		}
		return map[string]any{
			"type":     "project_list",
			"projects": projects,
		}, nil
	}

	proj, err := r.svc.Load(ctx, identifier)
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"type":         "project_data",
		"project_name": proj.Name,
		"script":       proj.Script,
		"notes":        proj.Notes,
		"word_count":   proj.WordCount,
		"is_sample":    proj.IsSample,
	}, nil
}

// Write dispatches save, create, delete, and export actions.
func (r *ProjectResource) Write(ctx context.Context, data any, identifier string) (bool, error) {
	r.Touch()

	fields, ok := data.(map[string]any)
	if !ok {
		return false, fmt.Errorf("project write expects an object, got %T", data)
	}

	action, _ := fields["action"].(string)
	switch action {
	case "save":
		name, _ := fields["name"].(string)
		script, _ := fields["script"].(string)
		notes, _ := fields["notes"].(string)
		if _, err := r.svc.Save(ctx, name, script, notes); err != nil {
			return false, err
		}
		return true, nil

	case "create":
		name, _ := fields["name"].(string)
		if _, err := r.svc.CreateNew(ctx, name); err != nil {
			return false, err
		}
		return true, nil

	case "delete":
		if identifier == "" {
			return false, fmt.Errorf("delete requires a project identifier")
		}
		if err := r.svc.Delete(ctx, identifier); err != nil {
			return false, err
		}
		return true, nil

	case "export":
		if identifier == "" {
			return false, fmt.Errorf("export requires a project identifier")
		}
		if _, err := r.svc.Export(ctx, identifier); err != nil {
			return false, err
		}
		return true, nil
	}

	return false, fmt.Errorf("unknown project action %q", action)
}
