// Shared data models for LLM providers.

package llm

// Message roles understood by every adapter.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage represents a chat message with role and content.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// SystemMessage creates a system message.
func SystemMessage(content string) ChatMessage {
	return ChatMessage{
		Role:    RoleSystem,
		Content: content,
	}
}

// UserMessage creates a user message.
func UserMessage(content string) ChatMessage {
	return ChatMessage{
		Role:    RoleUser,
		Content: content,
	}
}

// CompletionRequest is a provider-neutral completion request.
// Nil MaxTokens and Temperature leave the choice to the provider.
type CompletionRequest struct {
	Messages    []ChatMessage
	Model       string
	MaxTokens   *uint32
	Temperature *float32
}

// CompletionResponse represents a response from an LLM provider.
type CompletionResponse struct {
	Content string
	Model   string
	Usage   *TokenUsage
}

// TokenUsage contains token usage statistics.
type TokenUsage struct {
	InputTokens  uint32 `json:"input_tokens"`
	OutputTokens uint32 `json:"output_tokens"`
}

// ModelInfo tags a model identifier with the provider that serves it.
type ModelInfo struct {
	Provider string `json:"provider"`
	Model    string `json:"model"`
}

// Uint32 returns a pointer to v.
func Uint32(v uint32) *uint32 { return &v }

// Float32 returns a pointer to v.
func Float32(v float32) *float32 { return &v }

// splitSystem separates the system prompt from the conversation turns.
// The last system message wins, matching how the adapters forward a single
// system field.
func splitSystem(messages []ChatMessage) (string, []ChatMessage) {
	var system string
	turns := make([]ChatMessage, 0, len(messages))
	for _, msg := range messages {
		if msg.Role == RoleSystem {
			system = msg.Content
			continue
		}
		turns = append(turns, msg)
	}
	return system, turns
}
