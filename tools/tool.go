// Package tools provides the tool system exposed over tools/call.
//
// Information Hiding:
// - Tool execution details hidden behind interface
// - Tool parameters and schemas hidden in implementations
// - Registry implementation details hidden from consumers
// - Argument decoding and validation internalized per tool
package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidArguments marks argument decoding and validation failures.
var ErrInvalidArguments = errors.New("invalid arguments")

// ToolParameter defines a parameter schema for a tool.
type ToolParameter struct {
	Name        string   `json:"name"`
	ParamType   string   `json:"param_type"`
	Description string   `json:"description,omitempty"`
	Required    bool     `json:"required"`
	Enum        []string `json:"enum,omitempty"`
	ItemType    string   `json:"item_type,omitempty"` // element type for arrays
	Default     any      `json:"default,omitempty"`
	Minimum     *int     `json:"minimum,omitempty"`
	Maximum     *int     `json:"maximum,omitempty"`
}

// ToolMetadata describes what a tool does and how to use it.
type ToolMetadata struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Parameters  []ToolParameter `json:"parameters"`
}

// String returns a string representation of the tool metadata.
func (m ToolMetadata) String() string {
	return fmt.Sprintf("%s: %s", m.Name, m.Description)
}

// InputSchema renders the parameters as a JSON Schema object.
func (m ToolMetadata) InputSchema() map[string]any {
	properties := make(map[string]any, len(m.Parameters))
	var required []string

	for _, p := range m.Parameters {
		prop := map[string]any{"type": p.ParamType}
		if p.Description != "" {
			prop["description"] = p.Description
		}
		if len(p.Enum) > 0 {
			prop["enum"] = p.Enum
		}
		if p.ItemType != "" {
			prop["items"] = map[string]any{"type": p.ItemType}
		}
		if p.Default != nil {
			prop["default"] = p.Default
		}
		if p.Minimum != nil {
			prop["minimum"] = *p.Minimum
		}
		if p.Maximum != nil {
			prop["maximum"] = *p.Maximum
		}
		properties[p.Name] = prop

		if p.Required {
			required = append(required, p.Name)
		}
	}

	schema := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

// ToolResult represents the result of a tool execution.
// Success is determined by whether Error is nil.
type ToolResult struct {
	Result any   `json:"-"`
	Error  error `json:"-"`
}

// MarshalJSON renders {"success","result","error"}; error is omitted on success.
func (t ToolResult) MarshalJSON() ([]byte, error) {
	if t.Error != nil {
		return json.Marshal(struct {
			Success bool   `json:"success"`
			Result  any    `json:"result"`
			Error   string `json:"error"`
		}{
			Success: false,
			Result:  t.Result,
			Error:   t.Error.Error(),
		})
	}
	return json.Marshal(struct {
		Success bool `json:"success"`
		Result  any  `json:"result"`
	}{
		Success: true,
		Result:  t.Result,
	})
}

// Success returns true if the tool execution succeeded.
func (t ToolResult) Success() bool {
	return t.Error == nil
}

// SuccessResult creates a successful tool result.
func SuccessResult(result any) ToolResult {
	return ToolResult{Result: result}
}

// FailureResultf creates a failed tool result with a formatted error message.
func FailureResultf(format string, args ...any) ToolResult {
	return ToolResult{Error: fmt.Errorf(format, args...)}
}

// Tool is the interface that all tools must implement.
//
// Execute returns an error for anything that should fail the RPC
// (bad arguments, provider or filesystem failures). A ToolResult carrying an
// Error is reserved for failures reported inside a successful RPC.
type Tool interface {
	// Metadata returns tool metadata (name, description, parameters).
	Metadata() ToolMetadata

	// Execute runs the tool with given arguments.
	Execute(ctx context.Context, args json.RawMessage) (ToolResult, error)

	// Validate validates arguments before execution.
	Validate(args json.RawMessage) error
}

// BaseTool provides a default implementation for Validate.
type BaseTool struct{}

// Validate provides a default no-op validation.
func (BaseTool) Validate(args json.RawMessage) error {
	return nil
}

// decodeArgs unmarshals tool arguments. Missing or null arguments decode as
// an empty object so optional-only tools accept them.
func decodeArgs(args json.RawMessage, v any) error {
	trimmed := bytes.TrimSpace(args)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		trimmed = []byte("{}")
	}
	if err := json.Unmarshal(trimmed, v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidArguments, err)
	}
	return nil
}

// missingField reports a required argument that was absent or empty.
func missingField(name string) error {
	return fmt.Errorf("%w: missing field `%s`", ErrInvalidArguments, name)
}

// bulletList renders items as "- item\n" lines.
func bulletList(items []string) string {
	var b strings.Builder
	for _, item := range items {
		b.WriteString("- ")
		b.WriteString(item)
		b.WriteString("\n")
	}
	return b.String()
}
