// Provider switching and model listing tools.

package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/richinex/multimodel/llm"
)

// SwitchModelTool changes the current provider.
type SwitchModelTool struct {
	providers *llm.Registry
	logger    *slog.Logger
}

// NewSwitchModelTool creates a new switch_model tool.
func NewSwitchModelTool(providers *llm.Registry, logger *slog.Logger) *SwitchModelTool {
	return &SwitchModelTool{providers: providers, logger: logger}
}

// Metadata returns the tool metadata.
func (t *SwitchModelTool) Metadata() ToolMetadata {
	return ToolMetadata{
		Name:        "switch_model",
		Description: "Switch between AI providers (anthropic/openai)",
		Parameters: []ToolParameter{
			{Name: "provider", ParamType: "string", Description: "Provider name: anthropic or openai", Required: true},
			{Name: "model", ParamType: "string", Description: "Specific model (optional)"},
		},
	}
}

type switchModelArgs struct {
	Provider *string `json:"provider"`
	Model    *string `json:"model"`
}

type switchModelResult struct {
	Message  string `json:"message"`
	Provider string `json:"provider"`
}

// Validate validates the arguments.
func (t *SwitchModelTool) Validate(args json.RawMessage) error {
	var a switchModelArgs
	if err := decodeArgs(args, &a); err != nil {
		return err
	}
	if a.Provider == nil {
		return missingField("provider")
	}
	return nil
}

// Execute switches providers. The optional model is echoed in the message
// only; later calls still resolve their model per call.
func (t *SwitchModelTool) Execute(ctx context.Context, args json.RawMessage) (ToolResult, error) {
	var a switchModelArgs
	if err := decodeArgs(args, &a); err != nil {
		return ToolResult{}, err
	}
	if a.Provider == nil {
		return ToolResult{}, missingField("provider")
	}

	provider, err := t.providers.Switch(*a.Provider)
	if err != nil {
		return ToolResult{}, err
	}
	t.logger.Info("switched provider", "provider", provider.Name())

	message := fmt.Sprintf("Switched to provider '%s' (using default model)", *a.Provider)
	if a.Model != nil {
		message = fmt.Sprintf("Switched to provider '%s' with model '%s'", *a.Provider, *a.Model)
	}

	return SuccessResult(switchModelResult{Message: message, Provider: *a.Provider}), nil
}

// ListModelsTool lists models across every configured provider.
type ListModelsTool struct {
	BaseTool
	providers *llm.Registry
}

// NewListModelsTool creates a new list_models tool.
func NewListModelsTool(providers *llm.Registry) *ListModelsTool {
	return &ListModelsTool{providers: providers}
}

// Metadata returns the tool metadata.
func (t *ListModelsTool) Metadata() ToolMetadata {
	return ToolMetadata{
		Name:        "list_models",
		Description: "List all available models from all providers",
	}
}

// Execute queries every provider; any provider failure fails the call.
func (t *ListModelsTool) Execute(ctx context.Context, args json.RawMessage) (ToolResult, error) {
	models, err := t.providers.ListModels(ctx)
	if err != nil {
		return ToolResult{}, err
	}
	return SuccessResult(map[string]any{"models": models}), nil
}
