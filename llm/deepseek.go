// DeepSeek Provider implementation using go-openai library.
//
// Information Hiding:
// - Uses OpenAI-compatible API with different base URL
// - Serves deepseek-chat and deepseek-reasoner models

package llm

import (
	"context"
	"fmt"
	"net/http"

	openai "github.com/sashabaranov/go-openai"
)

const deepseekBaseURL = "https://api.deepseek.com/v1"

// DeepSeekProvider implements the Provider interface for DeepSeek.
type DeepSeekProvider struct {
	client *openai.Client
}

// NewDeepSeekProvider creates a new DeepSeek provider.
// baseURL may be empty to use the public DeepSeek endpoint.
func NewDeepSeekProvider(apiKey, baseURL string, httpClient *http.Client) *DeepSeekProvider {
	config := openai.DefaultConfig(apiKey)
	config.BaseURL = deepseekBaseURL
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	if httpClient != nil {
		config.HTTPClient = httpClient
	}

	return &DeepSeekProvider{
		client: openai.NewClientWithConfig(config),
	}
}

// Name returns the provider name.
func (p *DeepSeekProvider) Name() string {
	return ProviderDeepSeek.String()
}

// Complete sends a chat completion request.
func (p *DeepSeekProvider) Complete(ctx context.Context, req CompletionRequest) (CompletionResponse, error) {
	resp, err := createChatCompletion(ctx, p.client, req)
	if err != nil {
		return CompletionResponse{}, fmt.Errorf("deepseek completion failed: %w", err)
	}
	return resp, nil
}

// ListModels returns the DeepSeek models visible to the API key.
func (p *DeepSeekProvider) ListModels(ctx context.Context) ([]string, error) {
	models, err := listModelsWithPrefix(ctx, p.client, "deepseek-")
	if err != nil {
		return nil, fmt.Errorf("deepseek list models failed: %w", err)
	}
	return models, nil
}

// Verify DeepSeekProvider implements Provider
var _ Provider = (*DeepSeekProvider)(nil)
