package providers

import (
	"context"
	"errors"
	"fmt"

	"github.com/Azure/azure-sdk-for-go/sdk/ai/azopenai"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
)

// AzureOpenAI summarizes with an Azure OpenAI deployment
type AzureOpenAI struct {
	client         *azopenai.Client
	deploymentName string
	temperature    float32
	maxTokens      int32
}

// NewAzureOpenAI creates an Azure OpenAI summarizer
func NewAzureOpenAI(cfg Config) (*AzureOpenAI, error) {
	if cfg.AzureEndpoint == "" || cfg.APIKey == "" || cfg.AzureDeployment == "" {
		return nil, errors.New("Azure OpenAI configuration missing: ensure AZURE_OPENAI_ENDPOINT, AZURE_OPENAI_API_KEY, and AZURE_OPENAI_DEPLOYMENT_NAME are set")
	}

	keyCredential := azcore.NewKeyCredential(cfg.APIKey)
	client, err := azopenai.NewClientWithKeyCredential(cfg.AzureEndpoint, keyCredential, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create Azure OpenAI client: %w", err)
	}

	p := &AzureOpenAI{
		client:         client,
		deploymentName: cfg.AzureDeployment,
		temperature:    0.7,
		maxTokens:      1000,
	}
	if cfg.Temperature > 0 {
		p.temperature = float32(cfg.Temperature)
	}
	if cfg.MaxTokens > 0 {
		p.maxTokens = int32(cfg.MaxTokens)
	}
	return p, nil
}

func (p *AzureOpenAI) Summarize(ctx context.Context, prompt string) (string, error) {
	resp, err := p.client.GetChatCompletions(ctx, azopenai.ChatCompletionsOptions{
		Messages: []azopenai.ChatRequestMessageClassification{
			&azopenai.ChatRequestUserMessage{
				Content: azopenai.NewChatRequestUserMessageContent(prompt),
			},
		},
		MaxTokens:      to.Ptr(p.maxTokens),
		Temperature:    to.Ptr(p.temperature),
		DeploymentName: to.Ptr(p.deploymentName),
	}, nil)
	if err != nil {
		return "", fmt.Errorf("Azure OpenAI completion failed: %w", err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message == nil {
		return "", errors.New("no response from Azure OpenAI")
	}

	if resp.Choices[0].Message.Content == nil {
		return "", nil
	}

	return *resp.Choices[0].Message.Content, nil
}
