// Server wiring for the CLI.
//
// Information Hiding:
// - Credential resolution and provider construction hidden
// - History backend selection hidden
// - Tool catalog and dispatcher assembly hidden

package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/richinex/multimodel/config"
	"github.com/richinex/multimodel/credentials"
	"github.com/richinex/multimodel/fsmap"
	"github.com/richinex/multimodel/llm"
	"github.com/richinex/multimodel/logging"
	"github.com/richinex/multimodel/mcp"
	"github.com/richinex/multimodel/storage"
	"github.com/richinex/multimodel/tools"
)

// Options holds CLI execution options.
type Options struct {
	Debug bool
	// LogOutput receives logs; nil means stderr.
	LogOutput io.Writer
	// Resolver overrides the default env-then-keychain credential chain.
	Resolver *credentials.Resolver
}

// Serve resolves credentials, builds the provider registry and tool catalog,
// and runs the MCP server over in/out until end of input or cancellation.
func Serve(ctx context.Context, opts Options, in io.Reader, out io.Writer) error {
	settings, err := config.New()
	if err != nil {
		return err
	}

	logger := logging.New(logging.Config{
		Debug:  opts.Debug,
		Format: settings.Log.Format,
		Output: opts.LogOutput,
	})
	logger.Info("starting multi-model MCP server")

	resolver := opts.Resolver
	if resolver == nil {
		resolver = credentials.DefaultResolver(logger)
	}

	providers, err := buildProviders(logger, resolver, settings.LLM)
	if err != nil {
		return err
	}

	history, closeHistory, err := openHistory(settings.History)
	if err != nil {
		return err
	}
	defer closeHistory()

	registry, err := tools.WithDefaults(tools.Dependencies{
		Providers:  providers,
		Context:    storage.NewContextStore(),
		Enumerator: fsmap.New(fsmap.WithLogger(logger.With("component", "fsmap"))),
		Logger:     logger,
	})
	if err != nil {
		return err
	}

	execOpts := []tools.ExecutorOption{
		tools.WithProviders(providers),
		tools.WithExecutorLogger(logger),
	}
	if history != nil {
		execOpts = append(execOpts, tools.WithHistory(history))
	}
	executor := tools.NewExecutor(registry, execOpts...)
	logger.Info("session started",
		"session_id", executor.SessionID(),
		"providers", providers.Names(),
		"current_provider", providers.Current().Name())

	server := mcp.NewServer(executor, mcp.WithLogger(logger.With("component", "mcp")))
	return server.Run(ctx, in, out)
}

// buildProviders creates one adapter per resolved credential, in provider
// order. The first becomes current.
func buildProviders(logger *slog.Logger, resolver *credentials.Resolver, cfg config.LLMConfig) (*llm.Registry, error) {
	types := llm.AllProviderTypes()
	names := make([]string, len(types))
	for i, pt := range types {
		names[i] = pt.String()
	}

	secrets, err := resolver.ResolveAll(names)
	if err != nil {
		return nil, err
	}

	httpClient := llm.NewHTTPClient(cfg.Timeout, cfg.ConnectTimeout)

	var providers []llm.Provider
	for _, secret := range secrets {
		pt, err := llm.ParseProviderType(secret.Provider)
		if err != nil {
			return nil, err
		}
		provider, err := llm.NewProvider(pt, secret.Value, httpClient)
		if err != nil {
			return nil, fmt.Errorf("failed to create %s provider: %w", pt, err)
		}
		logger.Info("provider initialized", "provider", provider.Name(), "source", secret.Source)
		providers = append(providers, provider)
	}

	return llm.NewRegistry(providers...)
}

// openHistory opens the SQLite call history when configured.
// The returned close function is always safe to call.
func openHistory(cfg config.HistoryConfig) (storage.CallHistory, func(), error) {
	if !cfg.Enabled() {
		return nil, func() {}, nil
	}
	db, err := storage.OpenSqlite(cfg.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open history database: %w", err)
	}
	return db, func() { db.Close() }, nil
}
