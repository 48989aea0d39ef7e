package providers

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"
)

type fakeModel struct {
	prompt string
	reply  string
	err    error
}

func (m *fakeModel) GenerateContent(_ context.Context, messages []llms.MessageContent, _ ...llms.CallOption) (*llms.ContentResponse, error) {
	if m.err != nil {
		return nil, m.err
	}
	for _, part := range messages[0].Parts {
		if text, ok := part.(llms.TextContent); ok {
			m.prompt = text.Text
		}
	}
	return &llms.ContentResponse{Choices: []*llms.ContentChoice{{Content: m.reply}}}, nil
}

func (m *fakeModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, m, prompt, options...)
}

func TestLangChainSummarize(t *testing.T) {
	model := &fakeModel{reply: "Báo cáo"}
	s := NewLangChain("fake", model)

	text, err := s.Summarize(context.Background(), "prompt")
	require.NoError(t, err)
	assert.Equal(t, "Báo cáo", text)
	assert.Equal(t, "prompt", model.prompt)
	assert.Equal(t, "fake", s.Name())
}

func TestLangChainSummarizeError(t *testing.T) {
	s := NewLangChain("fake", &fakeModel{err: errors.New("rate limited")})

	_, err := s.Summarize(context.Background(), "prompt")
	assert.ErrorContains(t, err, "fake completion failed")
	assert.ErrorContains(t, err, "rate limited")
}

func TestNewRequiresCredentials(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"googleai", Config{Provider: GoogleAIProvider}},
		{"openai", Config{Provider: OpenAIProvider}},
		{"github", Config{Provider: GitHubProvider}},
		{"azure", Config{Provider: AzureProvider, APIKey: "key"}},
		{"unknown", Config{Provider: "ollama", APIKey: "key"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := New(context.Background(), tt.cfg)
			assert.Error(t, err)
			assert.Nil(t, s)
		})
	}
}

func TestNewOpenAICompatible(t *testing.T) {
	s, err := New(context.Background(), Config{Provider: GitHubProvider, APIKey: "token", Model: "gpt-4o-mini"})
	require.NoError(t, err)
	assert.Equal(t, "github", s.(*LangChain).Name())

	s, err = New(context.Background(), Config{Provider: OpenAIProvider, APIKey: "key", BaseURL: "http://localhost:9999/v1"})
	require.NoError(t, err)
	assert.Equal(t, "openai", s.(*LangChain).Name())
	assert.Equal(t, DefaultOpenAIModel, s.(*LangChain).Model())
}

func TestDefaultModelFor(t *testing.T) {
	assert.Equal(t, DefaultGeminiModel, DefaultModelFor(GoogleAIProvider))
	assert.Equal(t, DefaultOpenAIModel, DefaultModelFor(OpenAIProvider))
	assert.Equal(t, DefaultOpenAIModel, DefaultModelFor(GitHubProvider))
	assert.Empty(t, DefaultModelFor(AzureProvider))
}

func TestNewKeepsConfiguredModel(t *testing.T) {
	s, err := New(context.Background(), Config{Provider: GitHubProvider, APIKey: "token", Model: "Phi-3.5-mini-instruct"})
	require.NoError(t, err)
	assert.Equal(t, "Phi-3.5-mini-instruct", s.(*LangChain).Model())

	s, err = New(context.Background(), Config{Provider: GitHubProvider, APIKey: "token"})
	require.NoError(t, err)
	assert.Equal(t, DefaultOpenAIModel, s.(*LangChain).Model())
}

func TestNewAzure(t *testing.T) {
	s, err := New(context.Background(), Config{
		Provider:        AzureProvider,
		APIKey:          "key",
		AzureEndpoint:   "https://example.openai.azure.com",
		AzureDeployment: "reports",
		MaxTokens:       500,
	})
	require.NoError(t, err)

	azure := s.(*AzureOpenAI)
	assert.Equal(t, "reports", azure.deploymentName)
	assert.Equal(t, int32(500), azure.maxTokens)
}

func TestUnconfigured(t *testing.T) {
	_, err := Unconfigured{Err: errors.New("no key")}.Summarize(context.Background(), "p")
	assert.ErrorContains(t, err, "no key")
}
