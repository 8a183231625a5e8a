package cli

import (
	"bytes"
	"context"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/richinex/multimodel/credentials"
)

func isolateEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"ANTHROPIC_API_KEY", "OPENAI_API_KEY", "GEMINI_API_KEY", "DEEPSEEK_API_KEY",
		"LLM_TIMEOUT_SECS", "LLM_CONNECT_TIMEOUT_SECS", "MULTIMODEL_LOG_FORMAT", "MULTIMODEL_HISTORY_DB",
	} {
		t.Setenv(key, "")
	}
}

func envOnly() Options {
	return Options{
		LogOutput: io.Discard,
		Resolver:  credentials.NewResolver(nil, credentials.NewEnvStrategy()),
	}
}

func TestServeWithoutCredentialsFails(t *testing.T) {
	isolateEnv(t)

	err := Serve(context.Background(), envOnly(), strings.NewReader(""), io.Discard)
	require.Error(t, err)
	assert.ErrorIs(t, err, credentials.ErrNoCredentials)
}

func TestServeInvalidConfigFails(t *testing.T) {
	isolateEnv(t)
	t.Setenv("ANTHROPIC_API_KEY", "sk-test")
	t.Setenv("LLM_TIMEOUT_SECS", "soon")

	err := Serve(context.Background(), envOnly(), strings.NewReader(""), io.Discard)
	assert.Error(t, err)
}

func TestServeAnswersUntilEOF(t *testing.T) {
	isolateEnv(t)
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("ANTHROPIC_API_KEY", "sk-ant-test")

	input := strings.Join([]string{
		`{"jsonrpc":"2.0","id":1,"method":"initialize"}`,
		`{"jsonrpc":"2.0","id":2,"method":"tools/call","params":{"name":"switch_model","arguments":{"provider":"openai"}}}`,
	}, "\n") + "\n"

	var out bytes.Buffer
	require.NoError(t, Serve(context.Background(), envOnly(), strings.NewReader(input), &out))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], `"protocolVersion":"1.0"`)
	assert.Contains(t, lines[1], `Switched to provider 'openai' (using default model)`)
}

func TestServeRecordsHistory(t *testing.T) {
	isolateEnv(t)
	t.Setenv("ANTHROPIC_API_KEY", "sk-ant-test")
	dbPath := filepath.Join(t.TempDir(), "history.db")
	t.Setenv("MULTIMODEL_HISTORY_DB", dbPath)

	input := `{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"name":"get_context"}}` + "\n"
	require.NoError(t, Serve(context.Background(), envOnly(), strings.NewReader(input), io.Discard))

	var out bytes.Buffer
	require.NoError(t, PrintHistory(context.Background(), dbPath, "", 10, &out))
	assert.Contains(t, out.String(), "get_context")
	assert.Contains(t, out.String(), "anthropic")
	assert.Contains(t, out.String(), "ok")
}

func TestPrintHistoryRequiresDatabase(t *testing.T) {
	assert.Error(t, PrintHistory(context.Background(), "", "", 10, io.Discard))
}

func TestPrintHistoryEmpty(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, PrintHistory(context.Background(), filepath.Join(t.TempDir(), "h.db"), "", 10, &out))
	assert.Equal(t, "No calls recorded\n", out.String())
}
