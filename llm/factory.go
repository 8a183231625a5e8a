// LLM Provider Factory - builds adapters for the supported backends.
//
// Quick Start:
//
//	httpClient := llm.NewHTTPClient(30*time.Second, 10*time.Second)
//	claude, err := llm.NewProvider(llm.ProviderAnthropic, apiKey, httpClient)
//
//	model := llm.DefaultModelFor(claude.Name()) // claude-3-5-sonnet-20241022

package llm

import (
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"
)

// ProviderType represents supported LLM providers.
type ProviderType int

const (
	// ProviderAnthropic is the Anthropic provider (Claude models).
	ProviderAnthropic ProviderType = iota
	// ProviderOpenAI is the OpenAI provider (GPT models).
	ProviderOpenAI
	// ProviderGemini is the Google Gemini provider.
	ProviderGemini
	// ProviderDeepSeek is the DeepSeek provider.
	ProviderDeepSeek
)

// FallbackModel is used when no default is known for a provider name.
const FallbackModel = "default"

// Default model identifiers used when a tool call names no model.
const (
	ModelAnthropicDefault = "claude-3-5-sonnet-20241022"
	ModelOpenAIDefault    = "gpt-4-turbo-preview"
	ModelGeminiDefault    = "gemini-1.5-pro"
	ModelDeepSeekDefault  = "deepseek-chat"
)

// AllProviderTypes lists providers in registration order; the first one
// with credentials becomes the current provider.
func AllProviderTypes() []ProviderType {
	return []ProviderType{ProviderAnthropic, ProviderOpenAI, ProviderGemini, ProviderDeepSeek}
}

// String returns the string representation of the provider type.
func (p ProviderType) String() string {
	switch p {
	case ProviderOpenAI:
		return "openai"
	case ProviderAnthropic:
		return "anthropic"
	case ProviderDeepSeek:
		return "deepseek"
	case ProviderGemini:
		return "gemini"
	default:
		return "unknown"
	}
}

// DefaultModel returns the default model for this provider.
func (p ProviderType) DefaultModel() string {
	switch p {
	case ProviderOpenAI:
		return ModelOpenAIDefault
	case ProviderAnthropic:
		return ModelAnthropicDefault
	case ProviderDeepSeek:
		return ModelDeepSeekDefault
	case ProviderGemini:
		return ModelGeminiDefault
	default:
		return FallbackModel
	}
}

// ParseProviderType parses a provider from string (case-insensitive).
func ParseProviderType(s string) (ProviderType, error) {
	switch strings.ToLower(s) {
	case "openai", "gpt":
		return ProviderOpenAI, nil
	case "anthropic", "claude":
		return ProviderAnthropic, nil
	case "deepseek":
		return ProviderDeepSeek, nil
	case "gemini", "google":
		return ProviderGemini, nil
	default:
		return 0, fmt.Errorf("unknown provider: %s", s)
	}
}

// DefaultModelFor maps a provider name to its default model, falling back
// to FallbackModel for names outside the known set.
func DefaultModelFor(name string) string {
	switch name {
	case "anthropic", "openai", "gemini", "deepseek":
		pt, _ := ParseProviderType(name)
		return pt.DefaultModel()
	default:
		return FallbackModel
	}
}

// NewHTTPClient returns the client shared by all adapters: an overall
// request timeout plus a separate dial timeout.
func NewHTTPClient(timeout, connectTimeout time.Duration) *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.DialContext = (&net.Dialer{
		Timeout:   connectTimeout,
		KeepAlive: 30 * time.Second,
	}).DialContext

	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}
}

// NewProvider creates an adapter for the given provider type.
func NewProvider(pt ProviderType, apiKey string, httpClient *http.Client) (Provider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%s: empty API key", pt)
	}

	switch pt {
	case ProviderAnthropic:
		return NewAnthropicProvider(apiKey, httpClient), nil
	case ProviderOpenAI:
		return NewOpenAIProvider(apiKey, "", httpClient), nil
	case ProviderGemini:
		return NewGeminiProvider(apiKey, "", httpClient), nil
	case ProviderDeepSeek:
		return NewDeepSeekProvider(apiKey, "", httpClient), nil
	default:
		return nil, fmt.Errorf("unknown provider type: %v", pt)
	}
}
