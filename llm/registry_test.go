package llm

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	name    string
	models  []string
	listErr error
}

func (f *fakeProvider) Name() string { return f.name }

func (f *fakeProvider) Complete(ctx context.Context, req CompletionRequest) (CompletionResponse, error) {
	return CompletionResponse{Content: f.name, Model: req.Model}, nil
}

func (f *fakeProvider) ListModels(ctx context.Context) ([]string, error) {
	return f.models, f.listErr
}

func TestNewRegistryRequiresProviders(t *testing.T) {
	_, err := NewRegistry()
	assert.ErrorIs(t, err, ErrNoProviders)
}

func TestRegistryFirstProviderIsCurrent(t *testing.T) {
	r, err := NewRegistry(&fakeProvider{name: "anthropic"}, &fakeProvider{name: "openai"})
	require.NoError(t, err)
	assert.Equal(t, "anthropic", r.Current().Name())
	assert.Equal(t, []string{"anthropic", "openai"}, r.Names())
}

func TestRegistrySwitchIsCaseInsensitive(t *testing.T) {
	r, err := NewRegistry(&fakeProvider{name: "anthropic"}, &fakeProvider{name: "openai"})
	require.NoError(t, err)

	p, err := r.Switch("OpenAI")
	require.NoError(t, err)
	assert.Equal(t, "openai", p.Name())
	assert.Equal(t, "openai", r.Current().Name())
}

func TestRegistrySwitchUnknownKeepsCurrent(t *testing.T) {
	r, err := NewRegistry(&fakeProvider{name: "anthropic"}, &fakeProvider{name: "openai"})
	require.NoError(t, err)

	_, err = r.Switch("openai")
	require.NoError(t, err)

	_, err = r.Switch("mistral")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrProviderNotFound)
	assert.Equal(t, "Provider 'mistral' not found or not configured", err.Error())
	assert.Equal(t, "openai", r.Current().Name())
}

func TestRegistryListModelsTagsProvider(t *testing.T) {
	r, err := NewRegistry(
		&fakeProvider{name: "anthropic", models: []string{"claude-a", "claude-b"}},
		&fakeProvider{name: "openai", models: []string{"gpt-x"}},
	)
	require.NoError(t, err)

	models, err := r.ListModels(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []ModelInfo{
		{Provider: "anthropic", Model: "claude-a"},
		{Provider: "anthropic", Model: "claude-b"},
		{Provider: "openai", Model: "gpt-x"},
	}, models)
}

func TestRegistryListModelsFailsWhole(t *testing.T) {
	boom := errors.New("boom")
	r, err := NewRegistry(
		&fakeProvider{name: "anthropic", models: []string{"claude-a"}},
		&fakeProvider{name: "openai", listErr: boom},
	)
	require.NoError(t, err)

	models, err := r.ListModels(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.Nil(t, models)
}

func TestRegistryConcurrentSwitchAndRead(t *testing.T) {
	a := &fakeProvider{name: "anthropic"}
	o := &fakeProvider{name: "openai"}
	r, err := NewRegistry(a, o)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			if i%2 == 0 {
				_, _ = r.Switch("openai")
			} else {
				_, _ = r.Switch("anthropic")
			}
		}(i)
		go func() {
			defer wg.Done()
			p := r.Current()
			assert.True(t, p == a || p == o)
		}()
	}
	wg.Wait()
}
