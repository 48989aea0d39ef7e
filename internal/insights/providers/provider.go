// Package providers implements insights.Summarizer on top of hosted
// language models.
package providers

import (
	"context"
	"fmt"

	"foodmaster/internal/insights"
)

// ProviderType represents the type of LLM provider
type ProviderType string

const (
	GoogleAIProvider ProviderType = "googleai"
	OpenAIProvider   ProviderType = "openai"
	GitHubProvider   ProviderType = "github"
	AzureProvider    ProviderType = "azure"
)

// Models asked for reports when none is configured. Azure routes by
// deployment name and has no default.
const (
	DefaultGeminiModel = "gemini-3-flash-preview"
	DefaultOpenAIModel = "gpt-4o-mini"
)

// DefaultModelFor returns the model used for provider when none is set
func DefaultModelFor(provider ProviderType) string {
	switch provider {
	case GoogleAIProvider:
		return DefaultGeminiModel
	case OpenAIProvider, GitHubProvider:
		return DefaultOpenAIModel
	default:
		return ""
	}
}

// GitHubModelsURL is the OpenAI-compatible endpoint of GitHub Models
const GitHubModelsURL = "https://models.inference.ai.azure.com"

// Config holds the settings of the report model
type Config struct {
	Provider        ProviderType
	Model           string
	APIKey          string
	BaseURL         string
	AzureEndpoint   string
	AzureDeployment string
	Temperature     float64
	MaxTokens       int
}

// New creates the Summarizer for cfg.Provider
func New(ctx context.Context, cfg Config) (insights.Summarizer, error) {
	if cfg.Model == "" {
		cfg.Model = DefaultModelFor(cfg.Provider)
	}

	switch cfg.Provider {
	case GoogleAIProvider:
		return NewGoogleAI(ctx, cfg)
	case OpenAIProvider:
		return NewOpenAI(cfg)
	case GitHubProvider:
		return NewGitHubModels(cfg)
	case AzureProvider:
		return NewAzureOpenAI(cfg)
	default:
		return nil, fmt.Errorf("unsupported provider: %s", cfg.Provider)
	}
}

// Unconfigured is used when no provider could be created. Every report
// request fails with err, which Requester turns into its failure message.
type Unconfigured struct {
	Err error
}

func (u Unconfigured) Summarize(context.Context, string) (string, error) {
	return "", fmt.Errorf("report model unavailable: %w", u.Err)
}
