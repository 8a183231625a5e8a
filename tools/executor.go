// Tool Executor - name lookup, validation, logging and call history.
//
// Information Hiding:
// - Unknown-tool handling
// - Call id generation and history recording
// - Timing and structured logging of each call
//
// Calls are never retried; provider and filesystem failures surface to the
// caller immediately.

package tools

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/richinex/multimodel/llm"
	"github.com/richinex/multimodel/logging"
	"github.com/richinex/multimodel/storage"
)

// Executor runs tools by name.
type Executor struct {
	registry  *Registry
	providers *llm.Registry
	history   storage.CallHistory
	sessionID string
	logger    *slog.Logger
	now       func() time.Time
}

// ExecutorOption configures an Executor.
type ExecutorOption func(*Executor)

// WithHistory records every call in h.
func WithHistory(h storage.CallHistory) ExecutorOption {
	return func(e *Executor) { e.history = h }
}

// WithProviders tags history records with the current provider name.
func WithProviders(p *llm.Registry) ExecutorOption {
	return func(e *Executor) { e.providers = p }
}

// WithExecutorLogger sets the logger.
func WithExecutorLogger(logger *slog.Logger) ExecutorOption {
	return func(e *Executor) { e.logger = logger }
}

// WithSessionID overrides the generated session id.
func WithSessionID(id string) ExecutorOption {
	return func(e *Executor) { e.sessionID = id }
}

// NewExecutor creates an executor over the given registry.
func NewExecutor(registry *Registry, opts ...ExecutorOption) *Executor {
	e := &Executor{
		registry:  registry,
		sessionID: uuid.NewString(),
		logger:    logging.Discard(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// SessionID identifies this process's calls in the history store.
func (e *Executor) SessionID() string {
	return e.sessionID
}

// List returns the tool catalog.
func (e *Executor) List() []ToolMetadata {
	return e.registry.List()
}

// Execute runs the named tool. An unknown name yields a failed ToolResult and
// a nil error; every other failure is returned as an error.
func (e *Executor) Execute(ctx context.Context, name string, args json.RawMessage) (ToolResult, error) {
	callID := uuid.NewString()
	logger := e.logger.With("tool", name, "call_id", callID)
	start := e.now()

	tool, ok := e.registry.Get(name)
	if !ok {
		logger.Warn("unknown tool")
		result := FailureResultf("Unknown tool: %s", name)
		e.record(ctx, callID, name, start, result.Error)
		return result, nil
	}

	logger.Debug("executing tool", "args_bytes", len(args))

	result, err := e.run(ctx, tool, args)
	recErr := err
	if recErr == nil {
		recErr = result.Error
	}
	e.record(ctx, callID, name, start, recErr)

	duration := e.now().Sub(start)
	if err != nil {
		logger.Error("tool execution failed", "duration", duration, "error", err)
		return ToolResult{}, err
	}
	logger.Info("tool executed", "duration", duration, "success", result.Success())
	return result, nil
}

func (e *Executor) run(ctx context.Context, tool Tool, args json.RawMessage) (ToolResult, error) {
	if err := tool.Validate(args); err != nil {
		return ToolResult{}, err
	}
	return tool.Execute(ctx, args)
}

func (e *Executor) record(ctx context.Context, callID, name string, start time.Time, callErr error) {
	if e.history == nil {
		return
	}

	rec := storage.CallRecord{
		ID:        callID,
		SessionID: e.sessionID,
		Tool:      name,
		Success:   callErr == nil,
		Duration:  e.now().Sub(start),
		CreatedAt: start,
	}
	if callErr != nil {
		rec.Error = callErr.Error()
	}
	if e.providers != nil {
		rec.Provider = e.providers.Current().Name()
	}

	// Recording failures are logged only.
	if err := e.history.Record(ctx, rec); err != nil {
		e.logger.Warn("failed to record tool call", "call_id", callID, "error", err)
	}
}
