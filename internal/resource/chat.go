package resource

import (
	"context"
	"fmt"

	"github.com/wolfaudio/studio-mcp/internal/ai"
	"github.com/wolfaudio/studio-mcp/internal/domain/capability"
	"github.com/wolfaudio/studio-mcp/internal/domain/session"
)

// Chatter is the slice of the AI client the chat resource needs.
type Chatter interface {
	Chat(ctx context.Context, message, scriptContext string) (string, error)
	QuickAction(ctx context.Context, action, script string) (string, error)
}

// ChatResource exposes the AI collaborator through the uniform resource
// contract. Conversations flow through the session manager so both sides
// of each exchange land in the chat history.
type ChatResource struct {
	capability.ResourceInfo
	client Chatter
	mgr    *session.Manager
	model  string
}

// NewChatResource creates the chat resource.
func NewChatResource(client Chatter, mgr *session.Manager, model string) *ChatResource {
	return &ChatResource{
		ResourceInfo: capability.NewResourceInfo("ai",
			"Provides AI chat and script improvement capabilities"),
		client: client,
		mgr:    mgr,
		model:  model,
	}
}

// Read returns the AI service description.
func (r *ChatResource) Read(_ context.Context, _ string) (any, error) {
	r.Touch()

	return map[string]any{
		"type":     "ai_info",
		"model":    r.model,
		"provider": "OpenAI-compatible",
		"capabilities": []string{
			"script_improvement",
			"chat",
			"content_generation",
			"translation",
		},
		"quick_actions": ai.QuickActions(),
	}, nil
}

// Write dispatches chat, quick_action, and set_api_key actions.
func (r *ChatResource) Write(ctx context.Context, data any, _ string) (bool, error) {
	r.Touch()

	fields, ok := data.(map[string]any)
	if !ok {
		return false, fmt.Errorf("ai write expects an object, got %T", data)
	}

	action, _ := fields["action"].(string)
	switch action {
	case "chat":
		message, _ := fields["message"].(string)
		scriptContext, _ := fields["script_context"].(string)

		r.mgr.AddChatMessage(session.RoleUser, message, scriptContext)
		reply, err := r.client.Chat(ctx, message, scriptContext)
		if err != nil {
			return false, err
		}
		r.mgr.AddChatMessage(session.RoleAssistant, reply, "")
		return true, nil

	case "quick_action":
		name, _ := fields["name"].(string)
		script, _ := fields["script"].(string)
		if script == "" {
			script = r.mgr.Context().CurrentScript()
		}

		r.mgr.AddChatMessage(session.RoleUser, "Quick action: "+name, script)
		reply, err := r.client.QuickAction(ctx, name, script)
		if err != nil {
			return false, err
		}
		r.mgr.AddChatMessage(session.RoleAssistant, reply, "")
		return true, nil

	case "set_api_key":
		service, _ := fields["service"].(string)
		apiKey, _ := fields["api_key"].(string)
		if service == "" {
			return false, fmt.Errorf("set_api_key requires a service name")
		}
		r.mgr.SetAPIKey(service, apiKey)
		return true, nil
	}

	return false, fmt.Errorf("unknown ai action %q", action)
}
