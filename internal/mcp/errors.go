package mcp

import (
	"errors"
	"fmt"

	"github.com/wolfaudio/studio-mcp/internal/ai"
	"github.com/wolfaudio/studio-mcp/internal/domain/capability"
	"github.com/wolfaudio/studio-mcp/internal/domain/project"
	"github.com/wolfaudio/studio-mcp/internal/domain/workflow"
	"github.com/wolfaudio/studio-mcp/internal/voice"
)

// APIError represents an MCP error response.
type APIError struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	Details      any    `json:"details,omitempty"`
	RecoveryHint string `json:"recovery_hint,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// MapError maps domain errors to MCP error codes. Returns nil for errors
// with no dedicated code; callers pass those through unchanged.
func MapError(err error) *APIError {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, project.ErrProjectNotFound):
		return &APIError{Code: "PROJECT_NOT_FOUND", Message: "project not found", RecoveryHint: "Call list_projects to see saved projects"}
	case errors.Is(err, project.ErrSampleProtected):
		return &APIError{Code: "SAMPLE_PROTECTED", Message: "sample projects cannot be deleted", RecoveryHint: "Save under a different name first"}
	case errors.Is(err, project.ErrInvalidInput):
		return &APIError{Code: "INVALID_INPUT", Message: "invalid project input", RecoveryHint: "Provide a non-empty project name"}
	case errors.Is(err, workflow.ErrWorkflowNotFound):
		return &APIError{Code: "WORKFLOW_NOT_FOUND", Message: "workflow not found", RecoveryHint: "Call list_workflows for registered names"}
	case errors.Is(err, capability.ErrToolNotFound):
		return &APIError{Code: "TOOL_NOT_FOUND", Message: "tool not found", RecoveryHint: "Call list_capability_tools for registered names"}
	case errors.Is(err, capability.ErrResourceNotFound):
		return &APIError{Code: "RESOURCE_NOT_FOUND", Message: "resource not found", RecoveryHint: "Call list_capability_resources for registered names"}
	case errors.Is(err, ai.ErrNotConfigured):
		return &APIError{Code: "AI_NOT_CONFIGURED", Message: "AI service not configured", RecoveryHint: "Set an API key via set_api_key or STUDIO_AI_API_KEY"}
	case errors.Is(err, voice.ErrEngineNotFound):
		return &APIError{Code: "ENGINE_NOT_FOUND", Message: "speech engine not found", RecoveryHint: "Read the tts resource for supported engines"}
	case errors.Is(err, voice.ErrEmptyText):
		return &APIError{Code: "EMPTY_TEXT", Message: "no text to synthesize", RecoveryHint: "Provide non-empty text"}
	default:
		return nil
	}
}

// wrapErr converts known domain errors into APIErrors so clients see stable
// codes; unknown errors pass through.
func wrapErr(err error) error {
	if err == nil {
		return nil
	}
	if apiErr := MapError(err); apiErr != nil {
		return apiErr
	}
	return err
}
