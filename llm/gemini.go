// Google Gemini Provider implementation using official google.golang.org/genai SDK.
//
// Information Hiding:
// - API authentication and client creation
// - Request/response format for Gemini API
// - System instruction handling via config

package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/genai"
)

// GeminiProvider implements the Provider interface for Google Gemini.
type GeminiProvider struct {
	client  *genai.Client
	initErr error // Stores client initialization error for deferred reporting
}

// NewGeminiProvider creates a new Gemini provider.
// If client initialization fails, the error is stored and returned on first use.
func NewGeminiProvider(apiKey, baseURL string, httpClient *http.Client) *GeminiProvider {
	cfg := &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: httpClient,
	}
	if baseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: baseURL}
	}

	client, err := genai.NewClient(context.Background(), cfg)
	if err != nil {
		return &GeminiProvider{
			initErr: fmt.Errorf("failed to initialize Gemini client: %w", err),
		}
	}
	return &GeminiProvider{client: client}
}

// Name returns the provider name.
func (p *GeminiProvider) Name() string {
	return ProviderGemini.String()
}

// Complete sends a GenerateContent request.
func (p *GeminiProvider) Complete(ctx context.Context, req CompletionRequest) (CompletionResponse, error) {
	if p.initErr != nil {
		return CompletionResponse{}, p.initErr
	}

	systemInstruction, turns := splitSystem(req.Messages)

	config := &genai.GenerateContentConfig{}
	if req.Temperature != nil {
		config.Temperature = genai.Ptr(*req.Temperature)
	}
	if req.MaxTokens != nil {
		config.MaxOutputTokens = int32(*req.MaxTokens)
	}
	if systemInstruction != "" {
		config.SystemInstruction = genai.NewContentFromText(systemInstruction, genai.RoleUser)
	}

	response, err := p.client.Models.GenerateContent(ctx, req.Model, convertToGeminiMessages(turns), config)
	if err != nil {
		return CompletionResponse{}, fmt.Errorf("gemini completion failed: %w", err)
	}

	model := response.ModelVersion
	if model == "" {
		model = req.Model
	}

	var usage *TokenUsage
	if response.UsageMetadata != nil {
		usage = &TokenUsage{
			InputTokens:  uint32(response.UsageMetadata.PromptTokenCount),
			OutputTokens: uint32(response.UsageMetadata.CandidatesTokenCount),
		}
	}

	return CompletionResponse{Content: response.Text(), Model: model, Usage: usage}, nil
}

// ListModels returns the first page of gemini-* models.
func (p *GeminiProvider) ListModels(ctx context.Context) ([]string, error) {
	if p.initErr != nil {
		return nil, p.initErr
	}

	page, err := p.client.Models.List(ctx, &genai.ListModelsConfig{})
	if err != nil {
		return nil, fmt.Errorf("gemini list models failed: %w", err)
	}

	models := make([]string, 0, len(page.Items))
	for _, m := range page.Items {
		name := strings.TrimPrefix(m.Name, "models/")
		if strings.HasPrefix(name, "gemini-") {
			models = append(models, name)
		}
	}
	return models, nil
}

// convertToGeminiMessages converts user/assistant turns to Gemini contents.
func convertToGeminiMessages(messages []ChatMessage) []*genai.Content {
	var contents []*genai.Content
	for _, msg := range messages {
		switch msg.Role {
		case RoleUser:
			contents = append(contents, genai.NewContentFromText(msg.Content, genai.RoleUser))
		case RoleAssistant:
			contents = append(contents, genai.NewContentFromText(msg.Content, genai.RoleModel))
		}
	}
	return contents
}

// Verify GeminiProvider implements Provider
var _ Provider = (*GeminiProvider)(nil)
