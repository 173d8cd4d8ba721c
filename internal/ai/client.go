package ai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
)

// ErrNotConfigured indicates no API key is available for the AI service.
var ErrNotConfigured = errors.New("ai service not configured")

// ErrUnknownAction indicates an unrecognized quick action name.
var ErrUnknownAction = errors.New("unknown quick action")

const (
	defaultModel       = "meta-llama/Meta-Llama-3.1-8B-Instruct"
	defaultMaxTokens   = 1000
	defaultTemperature = 0.7

	// Script context handed to the model is capped so long scripts don't
	// crowd out the conversation.
	maxScriptContext = 500
)

const systemPrompt = "You are an AI assistant helping with script writing and improvement for Wolf Studio. " +
	"You provide concise, actionable advice for improving scripts and content."

// Config configures the chat client. BaseURL points at any
// OpenAI-compatible endpoint.
type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	MaxTokens   int
	Temperature float64
}

type chatCompletions interface {
	New(ctx context.Context, params openai.ChatCompletionNewParams, opts ...option.RequestOption) (*openai.ChatCompletion, error)
}

// Client is a chat client for script assistance backed by an
// OpenAI-compatible completion endpoint.
type Client struct {
	completions chatCompletions
	model       string
	maxTokens   int
	temperature float64
	logger      *slog.Logger
}

// NewClient creates a chat client.
func NewClient(cfg Config, logger *slog.Logger) (*Client, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, ErrNotConfigured
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	client := openai.NewClient(opts...)

	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = defaultModel
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}
	temperature := cfg.Temperature
	if temperature <= 0 {
		temperature = defaultTemperature
	}

	return &Client{
		completions: &client.Chat.Completions,
		model:       model,
		maxTokens:   maxTokens,
		temperature: temperature,
		logger:      logger,
	}, nil
}

// Chat sends a message with optional script context and returns the
// assistant's reply.
func (c *Client) Chat(ctx context.Context, message, scriptContext string) (string, error) {
	params := c.buildParams(message, scriptContext)

	completion, err := c.completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(completion.Choices) == 0 {
		return "", errors.New("chat completion: empty response")
	}

	reply := completion.Choices[0].Message.Content
	c.logger.Debug("chat completion",
		"model", c.model,
		"message_length", len(message),
		"reply_length", len(reply))
	return reply, nil
}

func (c *Client) buildParams(message, scriptContext string) openai.ChatCompletionNewParams {
	system := systemPrompt
	if scriptContext != "" {
		if len(scriptContext) > maxScriptContext {
			scriptContext = scriptContext[:maxScriptContext] + "..."
		}
		system += " Current script context: " + scriptContext
	}

	return openai.ChatCompletionNewParams{
		Model:               shared.ChatModel(c.model),
		MaxCompletionTokens: openai.Int(int64(c.maxTokens)),
		Temperature:         openai.Float(c.temperature),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(message),
		},
	}
}

// Quick action prompts mirror the editor's one-click assists.
var quickActionPrompts = map[string]string{
	"improve":      "Please improve this script for better TTS pronunciation, flow, and engagement. Focus on natural speech patterns and clear articulation.",
	"romantic":     "Rewrite this script in a more romantic and emotional tone, suitable for intimate or heartfelt content.",
	"dramatic":     "Add dramatic pauses, emphasis, and emotional inflection to this script for better TTS delivery and impact.",
	"continue":     "Continue this story or script with an engaging next paragraph that maintains the same tone and style.",
	"summarize":    "Create a concise summary of this script, highlighting the key points and main message.",
	"professional": "Rewrite this script in a professional business tone suitable for corporate presentations or formal communications.",
	"enhance":      "Enhance this script by improving clarity, flow, and impact while maintaining the original message and tone.",
}

// QuickActions lists the available quick action names.
func QuickActions() []string {
	names := make([]string, 0, len(quickActionPrompts))
	for name := range quickActionPrompts {
		names = append(names, name)
	}
	return names
}

// QuickAction runs a named one-click assist against the given script.
func (c *Client) QuickAction(ctx context.Context, action, script string) (string, error) {
	prompt, ok := quickActionPrompts[action]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownAction, action)
	}
	return c.Chat(ctx, prompt, script)
}
