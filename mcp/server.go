// MCP Server - stdio request loop and method dispatch.
//
// Information Hiding:
// - Line reading, idle timeout and shutdown hidden behind Run
// - Method routing hidden
// - Tool execution delegated to a ToolExecutor

package mcp

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/richinex/multimodel/logging"
	"github.com/richinex/multimodel/tools"
)

// ProtocolVersion is reported by initialize.
const ProtocolVersion = "1.0"

// DefaultIdleTimeout is how long a read may stall before a liveness log.
const DefaultIdleTimeout = 60 * time.Second

// ToolExecutor runs tools by name and describes the catalog.
type ToolExecutor interface {
	Execute(ctx context.Context, name string, args json.RawMessage) (tools.ToolResult, error)
	List() []tools.ToolMetadata
}

// Server reads requests from an input stream and writes one response line
// per request. Requests are handled strictly one at a time.
type Server struct {
	executor    ToolExecutor
	info        ServerInfo
	idleTimeout time.Duration
	logger      *slog.Logger

	mu  sync.Mutex
	out *bufio.Writer
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the server logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

// WithIdleTimeout sets the read stall interval after which a liveness
// message is logged.
func WithIdleTimeout(d time.Duration) Option {
	return func(s *Server) { s.idleTimeout = d }
}

// NewServer creates a server dispatching tools/call to executor.
func NewServer(executor ToolExecutor, opts ...Option) *Server {
	s := &Server{
		executor:    executor,
		info:        ServerInfo{Name: "multi-model-mcp", Version: "0.1.0"},
		idleTimeout: DefaultIdleTimeout,
		logger:      logging.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// readResult is one line (or terminal error) from the reader goroutine.
type readResult struct {
	line string
	err  error
}

// Run serves requests from in until end of stream, a read error, or ctx
// cancellation. End of stream and cancellation return nil.
func (s *Server) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	s.out = bufio.NewWriter(out)

	lines := make(chan readResult, 1)
	next := make(chan struct{})
	go readLines(in, lines, next)
	defer close(next)

	s.logger.Info("MCP server ready, listening on stdin")

	idle := time.NewTimer(s.idleTimeout)
	defer idle.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("shutting down", "reason", ctx.Err())
			return nil

		case <-idle.C:
			s.logger.Debug("no input received, still waiting", "idle", s.idleTimeout)
			idle.Reset(s.idleTimeout)

		case r := <-lines:
			if r.line != "" {
				if err := s.handleLine(ctx, r.line); err != nil {
					return err
				}
			}
			if r.err != nil {
				if errors.Is(r.err, io.EOF) {
					s.logger.Info("input closed, shutting down")
					return nil
				}
				return fmt.Errorf("failed to read request: %w", r.err)
			}

			if !idle.Stop() {
				select {
				case <-idle.C:
				default:
				}
			}
			idle.Reset(s.idleTimeout)

			// The next line is read only after this one is fully handled.
			select {
			case next <- struct{}{}:
			case <-ctx.Done():
				s.logger.Info("shutting down", "reason", ctx.Err())
				return nil
			}
		}
	}
}

// readLines reads one line per signal on next. It stops after a read error
// or when next is closed.
func readLines(in io.Reader, lines chan<- readResult, next <-chan struct{}) {
	reader := bufio.NewReader(in)
	for {
		line, err := reader.ReadString('\n')
		lines <- readResult{line: line, err: err}
		if err != nil {
			return
		}
		if _, ok := <-next; !ok {
			return
		}
	}
}

// handleLine parses and dispatches one line. Only write failures are
// returned.
func (s *Server) handleLine(ctx context.Context, line string) error {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}

	req, err := parseRequest([]byte(line))
	if err != nil {
		s.logger.Error("failed to parse JSON-RPC request", "error", err)
		return s.write(errorResponse(nil, CodeParseError, fmt.Sprintf("Parse error: %v", err)))
	}

	return s.write(s.Handle(ctx, req))
}

// Handle dispatches a single request.
func (s *Server) Handle(ctx context.Context, req Request) Response {
	s.logger.Info("handling request", "method", req.Method)

	switch req.Method {
	case "initialize":
		return resultResponse(req.ID, initializeResult{
			ProtocolVersion: ProtocolVersion,
			ServerInfo:      s.info,
			Capabilities:    capabilities{Tools: toolsCapability{ListChanged: false}},
		})

	case "tools/list":
		catalog := s.executor.List()
		infos := make([]ToolInfo, 0, len(catalog))
		for _, m := range catalog {
			infos = append(infos, ToolInfo{
				Name:        m.Name,
				Description: m.Description,
				InputSchema: m.InputSchema(),
			})
		}
		return resultResponse(req.ID, toolsListResult{Tools: infos})

	case "tools/call":
		return s.callTool(ctx, req)

	default:
		return errorResponse(req.ID, CodeMethodNotFound, fmt.Sprintf("Method not found: %s", req.Method))
	}
}

func (s *Server) callTool(ctx context.Context, req Request) Response {
	params := parseCallParams(req.Params)

	result, err := s.executor.Execute(ctx, params.Name, params.Arguments)
	if err != nil {
		return errorResponse(req.ID, CodeInternalError, fmt.Sprintf("Tool execution failed: %v", err))
	}

	text, err := json.MarshalIndent(result.Result, "", "  ")
	if err != nil {
		return errorResponse(req.ID, CodeInternalError, fmt.Sprintf("Tool execution failed: %v", err))
	}

	return resultResponse(req.ID, callResult{
		Content: []textContent{{Type: "text", Text: string(text)}},
	})
}

// write emits resp as a single line and flushes.
func (s *Server) write(resp Response) error {
	data, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("failed to encode response: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.out.Write(data); err != nil {
		return fmt.Errorf("failed to write response: %w", err)
	}
	if err := s.out.WriteByte('\n'); err != nil {
		return fmt.Errorf("failed to write response: %w", err)
	}
	return s.out.Flush()
}
