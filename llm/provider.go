// Package llm provides LLM provider abstractions.
//
// LLM Provider interface - the abstract interface for remote text-generation
// backends. Each provider implementation hides:
// - API client initialization and authentication
// - Request/response format conversion
// - Provider-specific model catalogs
package llm

import (
	"context"
)

// Provider defines the abstract interface for LLM providers.
// Providers are immutable once constructed; the registry owns the only
// mutable provider state (which one is current).
type Provider interface {
	// Name returns the canonical provider name ("anthropic", "openai", ...).
	Name() string

	// Complete sends a single completion request and returns the generated text.
	Complete(ctx context.Context, req CompletionRequest) (CompletionResponse, error)

	// ListModels returns the model identifiers this provider can serve.
	ListModels(ctx context.Context) ([]string, error)
}
