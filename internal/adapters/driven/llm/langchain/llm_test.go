package langchain

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"

	"github.com/custodia-labs/topicgap/internal/core/domain"
	"github.com/custodia-labs/topicgap/internal/core/ports/driven"
)

type stubModel struct {
	got  []llms.MessageContent
	resp *llms.ContentResponse
	err  error
}

func (m *stubModel) GenerateContent(_ context.Context, messages []llms.MessageContent, _ ...llms.CallOption) (*llms.ContentResponse, error) {
	m.got = messages
	return m.resp, m.err
}

func (m *stubModel) Call(_ context.Context, _ string, _ ...llms.CallOption) (string, error) {
	return "", errors.New("not used")
}

func TestGenerate(t *testing.T) {
	model := &stubModel{resp: &llms.ContentResponse{Choices: []*llms.ContentChoice{{Content: "out"}}}}
	svc := NewWithModel(model, "m")

	out, err := svc.Generate(context.Background(), "in", driven.GenerateOptions{MaxTokens: 5})
	require.NoError(t, err)
	assert.Equal(t, "out", out)
	require.Len(t, model.got, 1)
	assert.Equal(t, llms.ChatMessageTypeHuman, model.got[0].Role)
}

func TestChat_Roles(t *testing.T) {
	model := &stubModel{resp: &llms.ContentResponse{Choices: []*llms.ContentChoice{{Content: "ok"}}}}
	svc := NewWithModel(model, "m")

	_, err := svc.Chat(context.Background(), []driven.ChatMessage{
		{Role: "system", Content: "s"},
		{Role: "user", Content: "u"},
		{Role: "assistant", Content: "a"},
	}, driven.ChatOptions{})
	require.NoError(t, err)
	require.Len(t, model.got, 3)
	assert.Equal(t, llms.ChatMessageTypeSystem, model.got[0].Role)
	assert.Equal(t, llms.ChatMessageTypeHuman, model.got[1].Role)
	assert.Equal(t, llms.ChatMessageTypeAI, model.got[2].Role)
}

func TestGenerate_Errors(t *testing.T) {
	svc := NewWithModel(&stubModel{err: errors.New("down")}, "m")
	_, err := svc.Generate(context.Background(), "x", driven.GenerateOptions{})
	assert.True(t, errors.Is(err, domain.ErrProvider))

	svc = NewWithModel(&stubModel{resp: &llms.ContentResponse{}}, "m")
	_, err = svc.Generate(context.Background(), "x", driven.GenerateOptions{})
	assert.Error(t, err)
	assert.Error(t, svc.Ping(context.Background()))
}

func TestNewLLMService_RequiresAPIKey(t *testing.T) {
	_, err := NewLLMService(Config{})
	assert.Error(t, err)
}
