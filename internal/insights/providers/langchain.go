package providers

import (
	"context"
	"errors"
	"fmt"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
	"github.com/tmc/langchaingo/llms/openai"
)

// LangChain summarizes with any langchaingo model
type LangChain struct {
	llm   llms.Model
	name  string
	model string
	opts  []llms.CallOption
}

// NewLangChain wraps llm. opts are applied to every call.
func NewLangChain(name string, llm llms.Model, opts ...llms.CallOption) *LangChain {
	return &LangChain{llm: llm, name: name, opts: opts}
}

func (l *LangChain) Name() string {
	return l.name
}

// Model is the model name sent with every call, empty when the client default applies
func (l *LangChain) Model() string {
	return l.model
}

// Summarize sends prompt as a single user message
func (l *LangChain) Summarize(ctx context.Context, prompt string) (string, error) {
	text, err := llms.GenerateFromSinglePrompt(ctx, l.llm, prompt, l.opts...)
	if err != nil {
		return "", fmt.Errorf("%s completion failed: %w", l.name, err)
	}
	return text, nil
}

func callOptions(cfg Config) []llms.CallOption {
	var opts []llms.CallOption
	if cfg.Model != "" {
		opts = append(opts, llms.WithModel(cfg.Model))
	}
	if cfg.Temperature > 0 {
		opts = append(opts, llms.WithTemperature(cfg.Temperature))
	}
	if cfg.MaxTokens > 0 {
		opts = append(opts, llms.WithMaxTokens(cfg.MaxTokens))
	}
	return opts
}

// NewGoogleAI creates a Gemini summarizer
func NewGoogleAI(ctx context.Context, cfg Config) (*LangChain, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("GEMINI_API_KEY is required for the googleai provider")
	}

	llm, err := googleai.New(ctx,
		googleai.WithAPIKey(cfg.APIKey),
		googleai.WithDefaultModel(cfg.Model),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Google AI model: %w", err)
	}

	return configured(string(GoogleAIProvider), llm, cfg), nil
}

// NewOpenAI creates an OpenAI summarizer. BaseURL selects any
// OpenAI-compatible endpoint.
func NewOpenAI(cfg Config) (*LangChain, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("OPENAI_API_KEY is required for the openai provider")
	}
	return newOpenAICompatible(string(OpenAIProvider), cfg)
}

// NewGitHubModels creates a summarizer for GitHub Models, which serves an
// OpenAI-compatible API.
func NewGitHubModels(cfg Config) (*LangChain, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("GITHUB_TOKEN is required for the github provider")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = GitHubModelsURL
	}
	return newOpenAICompatible(string(GitHubProvider), cfg)
}

func newOpenAICompatible(name string, cfg Config) (*LangChain, error) {
	opts := []openai.Option{
		openai.WithModel(cfg.Model),
		openai.WithToken(cfg.APIKey),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
	}

	llm, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize %s model: %w", name, err)
	}

	return configured(name, llm, cfg), nil
}

func configured(name string, llm llms.Model, cfg Config) *LangChain {
	l := NewLangChain(name, llm, callOptions(cfg)...)
	l.model = cfg.Model
	return l
}
