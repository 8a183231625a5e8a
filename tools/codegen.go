// Code generation and review tools backed by the current LLM provider.

package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/richinex/multimodel/llm"
)

const (
	generateTemperature = 0.7
	reviewTemperature   = 0.3
	completionMaxTokens = 4096
)

const reviewFormat = "\n\nProvide your review in the following format:\n" +
	"1. **Summary**: Brief overview of code quality\n" +
	"2. **Issues**: List any bugs, security concerns, or anti-patterns\n" +
	"3. **Improvements**: Suggestions for optimization and better practices\n" +
	"4. **Positive**: What the code does well"

// resolveModel picks the explicit model, else the provider's default.
func resolveModel(explicit *string, provider llm.Provider) string {
	if explicit != nil {
		return *explicit
	}
	return llm.DefaultModelFor(provider.Name())
}

func valueOr(s *string, fallback string) string {
	if s == nil {
		return fallback
	}
	return *s
}

// GenerateCodeTool asks the current provider to write code.
type GenerateCodeTool struct {
	providers *llm.Registry
}

// NewGenerateCodeTool creates a new generate_code tool.
func NewGenerateCodeTool(providers *llm.Registry) *GenerateCodeTool {
	return &GenerateCodeTool{providers: providers}
}

// Metadata returns the tool metadata.
func (t *GenerateCodeTool) Metadata() ToolMetadata {
	return ToolMetadata{
		Name:        "generate_code",
		Description: "Generate code based on a prompt",
		Parameters: []ToolParameter{
			{Name: "prompt", ParamType: "string", Description: "Code generation prompt", Required: true},
			{Name: "language", ParamType: "string", Description: "Programming language"},
			{Name: "context", ParamType: "array", ItemType: "string"},
			{Name: "model", ParamType: "string", Description: "Specific model to use"},
		},
	}
}

type generateCodeArgs struct {
	Prompt   *string  `json:"prompt"`
	Language *string  `json:"language"`
	Context  []string `json:"context"`
	Model    *string  `json:"model"`
}

type generateCodeResult struct {
	Code  string          `json:"code"`
	Model string          `json:"model"`
	Usage *llm.TokenUsage `json:"usage"`
}

// Validate validates the arguments.
func (t *GenerateCodeTool) Validate(args json.RawMessage) error {
	var a generateCodeArgs
	if err := decodeArgs(args, &a); err != nil {
		return err
	}
	if a.Prompt == nil {
		return missingField("prompt")
	}
	return nil
}

// Execute generates code with the current provider.
func (t *GenerateCodeTool) Execute(ctx context.Context, args json.RawMessage) (ToolResult, error) {
	var a generateCodeArgs
	if err := decodeArgs(args, &a); err != nil {
		return ToolResult{}, err
	}
	if a.Prompt == nil {
		return ToolResult{}, missingField("prompt")
	}

	provider := t.providers.Current()
	resp, err := provider.Complete(ctx, llm.CompletionRequest{
		Messages: []llm.ChatMessage{
			llm.SystemMessage(generateSystemPrompt(valueOr(a.Language, "generic"), a.Context)),
			llm.UserMessage(*a.Prompt),
		},
		Model:       resolveModel(a.Model, provider),
		MaxTokens:   llm.Uint32(completionMaxTokens),
		Temperature: llm.Float32(generateTemperature),
	})
	if err != nil {
		return ToolResult{}, err
	}

	return SuccessResult(generateCodeResult{Code: resp.Content, Model: resp.Model, Usage: resp.Usage}), nil
}

func generateSystemPrompt(language string, context []string) string {
	prompt := fmt.Sprintf("You are an expert %s developer. Generate clean, efficient, and well-documented code.", language)
	if len(context) > 0 {
		prompt += "\n\nContext:\n" + bulletList(context)
	}
	return prompt
}

// ReviewCodeTool asks the current provider to review code.
type ReviewCodeTool struct {
	providers *llm.Registry
}

// NewReviewCodeTool creates a new review_code tool.
func NewReviewCodeTool(providers *llm.Registry) *ReviewCodeTool {
	return &ReviewCodeTool{providers: providers}
}

// Metadata returns the tool metadata.
func (t *ReviewCodeTool) Metadata() ToolMetadata {
	return ToolMetadata{
		Name:        "review_code",
		Description: "Review code for issues and improvements",
		Parameters: []ToolParameter{
			{Name: "code", ParamType: "string", Description: "Code to review", Required: true},
			{Name: "language", ParamType: "string", Description: "Programming language"},
			{Name: "focus", ParamType: "array", ItemType: "string", Description: "Areas to focus on (security, performance, style)"},
			{Name: "model", ParamType: "string", Description: "Specific model to use"},
		},
	}
}

type reviewCodeArgs struct {
	Code     *string  `json:"code"`
	Language *string  `json:"language"`
	Focus    []string `json:"focus"`
	Model    *string  `json:"model"`
}

type reviewCodeResult struct {
	Review string          `json:"review"`
	Model  string          `json:"model"`
	Usage  *llm.TokenUsage `json:"usage"`
}

// Validate validates the arguments.
func (t *ReviewCodeTool) Validate(args json.RawMessage) error {
	var a reviewCodeArgs
	if err := decodeArgs(args, &a); err != nil {
		return err
	}
	if a.Code == nil {
		return missingField("code")
	}
	return nil
}

// Execute reviews code with the current provider.
func (t *ReviewCodeTool) Execute(ctx context.Context, args json.RawMessage) (ToolResult, error) {
	var a reviewCodeArgs
	if err := decodeArgs(args, &a); err != nil {
		return ToolResult{}, err
	}
	if a.Code == nil {
		return ToolResult{}, missingField("code")
	}

	language := valueOr(a.Language, "unknown")
	provider := t.providers.Current()
	resp, err := provider.Complete(ctx, llm.CompletionRequest{
		Messages: []llm.ChatMessage{
			llm.SystemMessage(reviewSystemPrompt(language, a.Focus)),
			llm.UserMessage(reviewUserPrompt(language, *a.Code)),
		},
		Model:       resolveModel(a.Model, provider),
		MaxTokens:   llm.Uint32(completionMaxTokens),
		Temperature: llm.Float32(reviewTemperature),
	})
	if err != nil {
		return ToolResult{}, err
	}

	return SuccessResult(reviewCodeResult{Review: resp.Content, Model: resp.Model, Usage: resp.Usage}), nil
}

func reviewSystemPrompt(language string, focus []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are an expert code reviewer specializing in %s. Analyze the code for issues, improvements, and best practices.", language)
	if len(focus) > 0 {
		b.WriteString("\n\nFocus on these areas:\n")
		b.WriteString(bulletList(focus))
	}
	b.WriteString(reviewFormat)
	return b.String()
}

func reviewUserPrompt(language, code string) string {
	return fmt.Sprintf("Please review this code:\n\n```%s\n%s\n```", language, code)
}
