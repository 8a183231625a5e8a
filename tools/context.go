// Conversation context tools.

package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/richinex/multimodel/storage"
)

type messageResult struct {
	Message string `json:"message"`
}

// AddContextTool adds a file, note or metadata entry to the context.
type AddContextTool struct {
	store *storage.ContextStore
}

// NewAddContextTool creates a new add_context tool.
func NewAddContextTool(store *storage.ContextStore) *AddContextTool {
	return &AddContextTool{store: store}
}

// Metadata returns the tool metadata.
func (t *AddContextTool) Metadata() ToolMetadata {
	return ToolMetadata{
		Name:        "add_context",
		Description: "Add context (files, notes, metadata) to the conversation",
		Parameters: []ToolParameter{
			{Name: "type", ParamType: "string", Required: true, Enum: []string{"file", "note", "metadata"}},
			{Name: "path", ParamType: "string"},
			{Name: "content", ParamType: "string"},
			{Name: "note", ParamType: "string"},
			{Name: "key", ParamType: "string"},
			{Name: "value", ParamType: "string"},
		},
	}
}

type addContextArgs struct {
	Type    *string `json:"type"`
	Path    *string `json:"path"`
	Content *string `json:"content"`
	Note    *string `json:"note"`
	Key     *string `json:"key"`
	Value   *string `json:"value"`
}

// contextEntry is a decoded add_context request; apply performs the
// single store mutation for its variant.
type contextEntry struct {
	apply   func(*storage.ContextStore)
	message string
}

func parseContextEntry(args json.RawMessage) (contextEntry, error) {
	var a addContextArgs
	if err := decodeArgs(args, &a); err != nil {
		return contextEntry{}, err
	}
	if a.Type == nil {
		return contextEntry{}, missingField("type")
	}

	switch *a.Type {
	case "file":
		if a.Path == nil {
			return contextEntry{}, missingField("path")
		}
		if a.Content == nil {
			return contextEntry{}, missingField("content")
		}
		path, content := *a.Path, *a.Content
		return contextEntry{
			apply:   func(s *storage.ContextStore) { s.AddFile(path, content) },
			message: fmt.Sprintf("Added file: %s", path),
		}, nil
	case "note":
		if a.Note == nil {
			return contextEntry{}, missingField("note")
		}
		note := *a.Note
		return contextEntry{
			apply:   func(s *storage.ContextStore) { s.AddNote(note) },
			message: "Added note to context",
		}, nil
	case "metadata":
		if a.Key == nil {
			return contextEntry{}, missingField("key")
		}
		if a.Value == nil {
			return contextEntry{}, missingField("value")
		}
		key, value := *a.Key, *a.Value
		return contextEntry{
			apply:   func(s *storage.ContextStore) { s.SetMetadata(key, value) },
			message: fmt.Sprintf("Set metadata: %s = %s", key, value),
		}, nil
	default:
		return contextEntry{}, fmt.Errorf("%w: unknown variant `%s`, expected one of `file`, `note`, `metadata`",
			ErrInvalidArguments, *a.Type)
	}
}

// Validate validates the arguments.
func (t *AddContextTool) Validate(args json.RawMessage) error {
	_, err := parseContextEntry(args)
	return err
}

// Execute applies the entry to the store.
func (t *AddContextTool) Execute(ctx context.Context, args json.RawMessage) (ToolResult, error) {
	entry, err := parseContextEntry(args)
	if err != nil {
		return ToolResult{}, err
	}
	entry.apply(t.store)
	return SuccessResult(messageResult{Message: entry.message}), nil
}

// GetContextTool returns a snapshot of the context.
type GetContextTool struct {
	BaseTool
	store *storage.ContextStore
}

// NewGetContextTool creates a new get_context tool.
func NewGetContextTool(store *storage.ContextStore) *GetContextTool {
	return &GetContextTool{store: store}
}

// Metadata returns the tool metadata.
func (t *GetContextTool) Metadata() ToolMetadata {
	return ToolMetadata{
		Name:        "get_context",
		Description: "Get all context for the current conversation",
	}
}

// Execute returns files, notes and metadata.
func (t *GetContextTool) Execute(ctx context.Context, args json.RawMessage) (ToolResult, error) {
	return SuccessResult(t.store.Snapshot()), nil
}

// ClearContextTool empties the context.
type ClearContextTool struct {
	BaseTool
	store *storage.ContextStore
}

// NewClearContextTool creates a new clear_context tool.
func NewClearContextTool(store *storage.ContextStore) *ClearContextTool {
	return &ClearContextTool{store: store}
}

// Metadata returns the tool metadata.
func (t *ClearContextTool) Metadata() ToolMetadata {
	return ToolMetadata{
		Name:        "clear_context",
		Description: "Clear all conversation context",
	}
}

// Execute clears the store.
func (t *ClearContextTool) Execute(ctx context.Context, args json.RawMessage) (ToolResult, error) {
	t.store.Clear()
	return SuccessResult(messageResult{Message: "Context cleared"}), nil
}
