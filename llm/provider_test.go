// Adapter tests run against local httptest servers; no network access needed.
package llm

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testHTTPClient() *http.Client {
	return NewHTTPClient(5*time.Second, 2*time.Second)
}

func TestAnthropicCompleteJoinsTextBlocks(t *testing.T) {
	var captured map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/v1/messages"), r.URL.Path)
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &captured))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "msg_1",
			"type": "message",
			"role": "assistant",
			"model": "claude-3-5-sonnet-20241022",
			"content": [{"type": "text", "text": "first"}, {"type": "text", "text": "second"}],
			"stop_reason": "end_turn",
			"usage": {"input_tokens": 12, "output_tokens": 7}
		}`))
	}))
	defer srv.Close()

	p := NewAnthropicProvider("sk-ant-test", testHTTPClient(), option.WithBaseURL(srv.URL))
	resp, err := p.Complete(context.Background(), CompletionRequest{
		Messages:    []ChatMessage{SystemMessage("be brief"), UserMessage("hello")},
		Model:       ModelAnthropicDefault,
		MaxTokens:   Uint32(4096),
		Temperature: Float32(0.3),
	})
	require.NoError(t, err)

	assert.Equal(t, "first\nsecond", resp.Content)
	assert.Equal(t, "claude-3-5-sonnet-20241022", resp.Model)
	require.NotNil(t, resp.Usage)
	assert.Equal(t, TokenUsage{InputTokens: 12, OutputTokens: 7}, *resp.Usage)

	assert.Equal(t, ModelAnthropicDefault, captured["model"])
	assert.EqualValues(t, 4096, captured["max_tokens"])
	assert.InDelta(t, 0.3, captured["temperature"], 0.0001)
	system, ok := captured["system"].([]any)
	require.True(t, ok, "system prompt should be sent as text blocks")
	require.Len(t, system, 1)
	assert.Equal(t, "be brief", system[0].(map[string]any)["text"])
	messages := captured["messages"].([]any)
	require.Len(t, messages, 1)
	assert.Equal(t, "user", messages[0].(map[string]any)["role"])
}

func TestAnthropicListModelsIsStatic(t *testing.T) {
	p := NewAnthropicProvider("sk-ant-test", nil)
	models, err := p.ListModels(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{
		"claude-3-5-sonnet-20241022",
		"claude-3-5-haiku-20241022",
		"claude-3-opus-20240229",
		"claude-3-sonnet-20240229",
		"claude-3-haiku-20240307",
	}, models)

	// Callers must not be able to mutate the catalog.
	models[0] = "changed"
	again, _ := p.ListModels(context.Background())
	assert.Equal(t, "claude-3-5-sonnet-20241022", again[0])
}

func TestOpenAICompleteUsesFirstChoice(t *testing.T) {
	var captured map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &captured))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"model": "gpt-4-turbo-preview",
			"choices": [
				{"index": 0, "message": {"role": "assistant", "content": "package main"}, "finish_reason": "stop"},
				{"index": 1, "message": {"role": "assistant", "content": "ignored"}, "finish_reason": "stop"}
			],
			"usage": {"prompt_tokens": 20, "completion_tokens": 4, "total_tokens": 24}
		}`))
	}))
	defer srv.Close()

	p := NewOpenAIProvider("sk-test", srv.URL+"/v1", testHTTPClient())
	resp, err := p.Complete(context.Background(), CompletionRequest{
		Messages:    []ChatMessage{SystemMessage("sys"), UserMessage("write code")},
		Model:       ModelOpenAIDefault,
		MaxTokens:   Uint32(4096),
		Temperature: Float32(0.7),
	})
	require.NoError(t, err)

	assert.Equal(t, "package main", resp.Content)
	assert.Equal(t, "gpt-4-turbo-preview", resp.Model)
	assert.Equal(t, &TokenUsage{InputTokens: 20, OutputTokens: 4}, resp.Usage)

	messages := captured["messages"].([]any)
	require.Len(t, messages, 2)
	assert.Equal(t, "system", messages[0].(map[string]any)["role"])
	assert.EqualValues(t, 4096, captured["max_tokens"])
}

func TestOpenAIListModelsFiltersGPT(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/models", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"object": "list", "data": [
			{"id": "gpt-4o", "object": "model"},
			{"id": "text-embedding-3-small", "object": "model"},
			{"id": "gpt-3.5-turbo", "object": "model"},
			{"id": "dall-e-3", "object": "model"}
		]}`))
	}))
	defer srv.Close()

	p := NewOpenAIProvider("sk-test", srv.URL+"/v1", testHTTPClient())
	models, err := p.ListModels(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"gpt-4o", "gpt-3.5-turbo"}, models)
}

func TestDeepSeekListModelsFiltersPrefix(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"object": "list", "data": [
			{"id": "deepseek-chat", "object": "model"},
			{"id": "deepseek-reasoner", "object": "model"},
			{"id": "other", "object": "model"}
		]}`))
	}))
	defer srv.Close()

	p := NewDeepSeekProvider("sk-test", srv.URL, testHTTPClient())
	assert.Equal(t, "deepseek", p.Name())
	models, err := p.ListModels(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"deepseek-chat", "deepseek-reasoner"}, models)
}

func TestGeminiListModelsStripsPrefix(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.True(t, strings.HasSuffix(r.URL.Path, "/models"), r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"models": [
			{"name": "models/gemini-1.5-pro"},
			{"name": "models/text-embedding-004"},
			{"name": "models/gemini-1.5-flash"},
			{"name": "models/aqa"}
		]}`))
	}))
	defer srv.Close()

	p := NewGeminiProvider("gm-test", srv.URL, testHTTPClient())
	assert.Equal(t, "gemini", p.Name())
	models, err := p.ListModels(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"gemini-1.5-pro", "gemini-1.5-flash"}, models)
}

func TestGeminiCompleteMapsUsage(t *testing.T) {
	var captured map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/models/gemini-1.5-pro:generateContent"), r.URL.Path)
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &captured))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"candidates": [{"content": {"role": "model", "parts": [{"text": "func main() {}"}]}}],
			"usageMetadata": {"promptTokenCount": 12, "candidatesTokenCount": 34},
			"modelVersion": "gemini-1.5-pro-002"
		}`))
	}))
	defer srv.Close()

	p := NewGeminiProvider("gm-test", srv.URL, testHTTPClient())
	resp, err := p.Complete(context.Background(), CompletionRequest{
		Messages:    []ChatMessage{SystemMessage("be terse"), UserMessage("hello")},
		Model:       "gemini-1.5-pro",
		MaxTokens:   Uint32(100),
		Temperature: Float32(0.5),
	})
	require.NoError(t, err)

	assert.Equal(t, "func main() {}", resp.Content)
	assert.Equal(t, "gemini-1.5-pro-002", resp.Model)
	require.NotNil(t, resp.Usage)
	assert.EqualValues(t, 12, resp.Usage.InputTokens)
	assert.EqualValues(t, 34, resp.Usage.OutputTokens)

	assert.NotNil(t, captured["systemInstruction"])
	contents, ok := captured["contents"].([]any)
	require.True(t, ok)
	assert.Len(t, contents, 1)
	genConfig, ok := captured["generationConfig"].(map[string]any)
	require.True(t, ok)
	assert.EqualValues(t, 100, genConfig["maxOutputTokens"])
}

func TestGeminiCompleteWithoutUsageOrVersion(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates": [{"content": {"role": "model", "parts": [{"text": "ok"}]}}]}`))
	}))
	defer srv.Close()

	p := NewGeminiProvider("gm-test", srv.URL, testHTTPClient())
	resp, err := p.Complete(context.Background(), CompletionRequest{
		Messages: []ChatMessage{UserMessage("hello")},
		Model:    "gemini-1.5-flash",
	})
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Content)
	assert.Equal(t, "gemini-1.5-flash", resp.Model)
	assert.Nil(t, resp.Usage)
}

func TestGeminiCompleteWrapsErrors(t *testing.T) {
	const key = "gm-test-invalid-key-12345xyz"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error": {"code": 500, "message": "backend unavailable", "status": "INTERNAL"}}`))
	}))
	defer srv.Close()

	p := NewGeminiProvider(key, srv.URL, testHTTPClient())
	_, err := p.Complete(context.Background(), CompletionRequest{
		Messages: []ChatMessage{UserMessage("hello")},
		Model:    "gemini-1.5-pro",
	})
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "gemini completion failed: "), err.Error())
	assert.NotContains(t, err.Error(), key)
}

// TestProviderErrorsDoNotLeakAPIKey verifies provider errors never echo the key.
func TestProviderErrorsDoNotLeakAPIKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"type": "error", "error": {"type": "authentication_error", "message": "invalid x-api-key"}}`))
	}))
	defer srv.Close()

	const key = "sk-test-invalid-key-12345xyz"
	providers := []Provider{
		NewAnthropicProvider(key, testHTTPClient(), option.WithBaseURL(srv.URL)),
		NewOpenAIProvider(key, srv.URL+"/v1", testHTTPClient()),
		NewDeepSeekProvider(key, srv.URL, testHTTPClient()),
	}

	for _, p := range providers {
		t.Run(p.Name(), func(t *testing.T) {
			_, err := p.Complete(context.Background(), CompletionRequest{
				Messages: []ChatMessage{UserMessage("test")},
				Model:    DefaultModelFor(p.Name()),
			})
			require.Error(t, err)
			assert.NotContains(t, err.Error(), key)
			assert.NotContains(t, err.Error(), "Authorization:")
			assert.Contains(t, err.Error(), p.Name()+" completion failed")
		})
	}
}

func TestDefaultModelFor(t *testing.T) {
	assert.Equal(t, "claude-3-5-sonnet-20241022", DefaultModelFor("anthropic"))
	assert.Equal(t, "gpt-4-turbo-preview", DefaultModelFor("openai"))
	assert.Equal(t, "gemini-1.5-pro", DefaultModelFor("gemini"))
	assert.Equal(t, "deepseek-chat", DefaultModelFor("deepseek"))
	assert.Equal(t, FallbackModel, DefaultModelFor("mystery"))
	assert.Equal(t, FallbackModel, DefaultModelFor("Anthropic"))
}

func TestParseProviderType(t *testing.T) {
	pt, err := ParseProviderType("Claude")
	require.NoError(t, err)
	assert.Equal(t, ProviderAnthropic, pt)

	pt, err = ParseProviderType("OPENAI")
	require.NoError(t, err)
	assert.Equal(t, ProviderOpenAI, pt)

	_, err = ParseProviderType("llama")
	assert.Error(t, err)
}

func TestNewProviderRejectsEmptyKey(t *testing.T) {
	_, err := NewProvider(ProviderOpenAI, "", nil)
	assert.Error(t, err)

	p, err := NewProvider(ProviderOpenAI, "sk-test", nil)
	require.NoError(t, err)
	assert.Equal(t, "openai", p.Name())
}
