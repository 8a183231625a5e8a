package tools

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/richinex/multimodel/storage"
)

func TestContextToolsRoundTrip(t *testing.T) {
	store := storage.NewContextStore()
	add := NewAddContextTool(store)
	get := NewGetContextTool(store)
	clearTool := NewClearContextTool(store)
	ctx := context.Background()

	tests := []struct {
		args    string
		message string
	}{
		{`{"type":"file","path":"a.go","content":"package a"}`, "Added file: a.go"},
		{`{"type":"note","note":"prefer tables"}`, "Added note to context"},
		{`{"type":"metadata","key":"project","value":"demo"}`, "Set metadata: project = demo"},
	}
	for _, tt := range tests {
		require.NoError(t, add.Validate(json.RawMessage(tt.args)))
		result, err := add.Execute(ctx, json.RawMessage(tt.args))
		require.NoError(t, err)
		assert.Equal(t, messageResult{Message: tt.message}, result.Result)
	}

	result, err := get.Execute(ctx, nil)
	require.NoError(t, err)
	out, err := json.Marshal(result)
	require.NoError(t, err)
	assert.JSONEq(t, `{"success":true,"result":{
		"files":{"a.go":"package a"},
		"notes":["prefer tables"],
		"metadata":{"project":"demo"}
	}}`, string(out))

	result, err = clearTool.Execute(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, messageResult{Message: "Context cleared"}, result.Result)

	result, err = get.Execute(ctx, nil)
	require.NoError(t, err)
	out, err = json.Marshal(result.Result)
	require.NoError(t, err)
	assert.JSONEq(t, `{"files":{},"notes":[],"metadata":{}}`, string(out))
}

func TestAddContextSamePathReplaces(t *testing.T) {
	store := storage.NewContextStore()
	add := NewAddContextTool(store)

	_, err := add.Execute(context.Background(), json.RawMessage(`{"type":"file","path":"a","content":"1"}`))
	require.NoError(t, err)
	_, err = add.Execute(context.Background(), json.RawMessage(`{"type":"file","path":"a","content":"2"}`))
	require.NoError(t, err)

	assert.Equal(t, map[string]string{"a": "2"}, store.Snapshot().Files)
}

func TestAddContextInvalidArguments(t *testing.T) {
	add := NewAddContextTool(storage.NewContextStore())

	tests := []struct {
		name string
		args string
		want string
	}{
		{"missing type", `{"note":"x"}`, "missing field `type`"},
		{"unknown type", `{"type":"image"}`, "unknown variant `image`"},
		{"file without content", `{"type":"file","path":"a"}`, "missing field `content`"},
		{"note without note", `{"type":"note"}`, "missing field `note`"},
		{"metadata without value", `{"type":"metadata","key":"k"}`, "missing field `value`"},
		{"not an object", `[1,2]`, "invalid arguments"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := add.Validate(json.RawMessage(tt.args))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidArguments)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
