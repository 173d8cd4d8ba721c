package ai

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/stretchr/testify/require"
)

type fakeCompletions struct {
	lastParams openai.ChatCompletionNewParams
	reply      string
	err        error
}

func (f *fakeCompletions) New(_ context.Context, params openai.ChatCompletionNewParams, _ ...option.RequestOption) (*openai.ChatCompletion, error) {
	f.lastParams = params
	if f.err != nil {
		return nil, f.err
	}
	return &openai.ChatCompletion{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Content: f.reply}},
		},
	}, nil
}

func newFakeClient(fake *fakeCompletions) *Client {
	return &Client{
		completions: fake,
		model:       defaultModel,
		maxTokens:   defaultMaxTokens,
		temperature: defaultTemperature,
	}
}

func TestNewClient_RequiresAPIKey(t *testing.T) {
	_, err := NewClient(Config{APIKey: "  "}, nil)
	require.ErrorIs(t, err, ErrNotConfigured)
}

func TestClient_Chat(t *testing.T) {
	fake := &fakeCompletions{reply: "try shorter sentences"}
	c := newFakeClient(fake)

	reply, err := c.Chat(context.Background(), "how can I improve this?", "hello world")
	require.NoError(t, err)
	require.Equal(t, "try shorter sentences", reply)

	require.Len(t, fake.lastParams.Messages, 2)
	system := fake.lastParams.Messages[0].OfSystem.Content.OfString.Value
	require.Contains(t, system, "Current script context: hello world")
	user := fake.lastParams.Messages[1].OfUser.Content.OfString.Value
	require.Equal(t, "how can I improve this?", user)
}

func TestClient_ChatTruncatesScriptContext(t *testing.T) {
	fake := &fakeCompletions{reply: "ok"}
	c := newFakeClient(fake)

	long := strings.Repeat("x", maxScriptContext+100)
	_, err := c.Chat(context.Background(), "review this", long)
	require.NoError(t, err)

	system := fake.lastParams.Messages[0].OfSystem.Content.OfString.Value
	require.Contains(t, system, strings.Repeat("x", maxScriptContext)+"...")
	require.NotContains(t, system, strings.Repeat("x", maxScriptContext+1))
}

func TestClient_ChatError(t *testing.T) {
	fake := &fakeCompletions{err: errors.New("boom")}
	c := newFakeClient(fake)

	_, err := c.Chat(context.Background(), "hi", "")
	require.ErrorContains(t, err, "chat completion")
}

func TestClient_QuickAction(t *testing.T) {
	fake := &fakeCompletions{reply: "done"}
	c := newFakeClient(fake)

	reply, err := c.QuickAction(context.Background(), "improve", "my script")
	require.NoError(t, err)
	require.Equal(t, "done", reply)

	system := fake.lastParams.Messages[0].OfSystem.Content.OfString.Value
	require.Contains(t, system, "my script")
	user := fake.lastParams.Messages[1].OfUser.Content.OfString.Value
	require.Contains(t, user, "TTS pronunciation")

	_, err = c.QuickAction(context.Background(), "explode", "my script")
	require.ErrorIs(t, err, ErrUnknownAction)
}
