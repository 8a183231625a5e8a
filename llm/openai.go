// OpenAI Provider implementation using go-openai library.
//
// Information Hiding:
// - API endpoint and authentication
// - Request/response format for OpenAI Chat Completions API
// - Model catalog filtering

package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIProvider implements the Provider interface for OpenAI.
type OpenAIProvider struct {
	client *openai.Client
}

// NewOpenAIProvider creates a new OpenAI provider.
// baseURL may be empty to use the public API endpoint.
func NewOpenAIProvider(apiKey, baseURL string, httpClient *http.Client) *OpenAIProvider {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	if httpClient != nil {
		config.HTTPClient = httpClient
	}

	return &OpenAIProvider{
		client: openai.NewClientWithConfig(config),
	}
}

// Name returns the provider name.
func (p *OpenAIProvider) Name() string {
	return ProviderOpenAI.String()
}

// Complete sends a chat completion request.
func (p *OpenAIProvider) Complete(ctx context.Context, req CompletionRequest) (CompletionResponse, error) {
	resp, err := createChatCompletion(ctx, p.client, req)
	if err != nil {
		return CompletionResponse{}, fmt.Errorf("openai completion failed: %w", err)
	}
	return resp, nil
}

// ListModels returns the GPT models visible to the API key.
func (p *OpenAIProvider) ListModels(ctx context.Context) ([]string, error) {
	models, err := listModelsWithPrefix(ctx, p.client, "gpt-")
	if err != nil {
		return nil, fmt.Errorf("openai list models failed: %w", err)
	}
	return models, nil
}

// createChatCompletion is shared by every OpenAI-compatible backend.
func createChatCompletion(ctx context.Context, client *openai.Client, req CompletionRequest) (CompletionResponse, error) {
	chatReq := openai.ChatCompletionRequest{
		Model:    req.Model,
		Messages: convertToOpenAIMessages(req.Messages),
	}
	if req.MaxTokens != nil {
		chatReq.MaxTokens = int(*req.MaxTokens)
	}
	if req.Temperature != nil {
		chatReq.Temperature = *req.Temperature
	}

	resp, err := client.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		return CompletionResponse{}, err
	}

	content := ""
	if len(resp.Choices) > 0 {
		content = resp.Choices[0].Message.Content
	}

	return CompletionResponse{
		Content: content,
		Model:   resp.Model,
		Usage: &TokenUsage{
			InputTokens:  uint32(resp.Usage.PromptTokens),
			OutputTokens: uint32(resp.Usage.CompletionTokens),
		},
	}, nil
}

func listModelsWithPrefix(ctx context.Context, client *openai.Client, prefix string) ([]string, error) {
	list, err := client.ListModels(ctx)
	if err != nil {
		return nil, err
	}

	models := make([]string, 0, len(list.Models))
	for _, m := range list.Models {
		if strings.HasPrefix(m.ID, prefix) {
			models = append(models, m.ID)
		}
	}
	return models, nil
}

// convertToOpenAIMessages converts our ChatMessage to OpenAI format.
func convertToOpenAIMessages(messages []ChatMessage) []openai.ChatCompletionMessage {
	result := make([]openai.ChatCompletionMessage, len(messages))
	for i, msg := range messages {
		result[i] = openai.ChatCompletionMessage{
			Role:    msg.Role,
			Content: msg.Content,
		}
	}
	return result
}

// Verify OpenAIProvider implements Provider
var _ Provider = (*OpenAIProvider)(nil)
