// Package main provides the multimodel MCP server entry point.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/richinex/multimodel/cli"
)

var debug bool

func main() {
	// Load .env file if present (ignore "file not found" errors)
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			fmt.Fprintf(os.Stderr, "Warning: failed to load .env file: %v\n", err)
		}
	}

	rootCmd := &cobra.Command{
		Use:   "multimodel",
		Short: "MCP server routing code generation and review across LLM providers",
		Long: `A Model Context Protocol server speaking JSON-RPC 2.0 over stdin/stdout.

Credentials are read from ANTHROPIC_API_KEY, OPENAI_API_KEY, GEMINI_API_KEY and
DEEPSEEK_API_KEY, falling back to the system keychain. The first configured
provider is current; switch_model changes it at runtime.`,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return cli.Serve(ctx, cli.Options{Debug: debug}, os.Stdin, os.Stdout)
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "Enable debug logging")
	rootCmd.AddCommand(historyCmd())

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func historyCmd() *cobra.Command {
	var sessionID string
	var dbPath string
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recorded tool calls",
		Long: `Show tool calls recorded in the history database.

Recording is enabled by setting MULTIMODEL_HISTORY_DB. Without --session the
most recently active session is shown.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.PrintHistory(cmd.Context(), dbPath, sessionID, limit, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&sessionID, "session", "", "Session ID (default: latest)")
	cmd.Flags().StringVar(&dbPath, "db", os.Getenv("MULTIMODEL_HISTORY_DB"), "History database path")
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of calls to show")

	return cmd
}
