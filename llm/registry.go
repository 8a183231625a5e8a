// Provider Registry - the configured provider set and the current selection.
//
// Information Hiding:
// - Locking discipline for the current-provider cell
// - Name matching rules for switching
// - Aggregation of per-provider model catalogs

package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
)

var (
	// ErrNoProviders is returned when a registry is built from an empty list.
	ErrNoProviders = errors.New("no providers configured")
	// ErrProviderNotFound is returned when switching to an unconfigured provider.
	ErrProviderNotFound = errors.New("provider not found")
)

// ProviderNotFoundError reports a switch to a provider that is not configured.
// It matches ErrProviderNotFound under errors.Is.
type ProviderNotFoundError struct {
	Name string
}

func (e *ProviderNotFoundError) Error() string {
	return fmt.Sprintf("Provider '%s' not found or not configured", e.Name)
}

// Is reports whether target is ErrProviderNotFound.
func (e *ProviderNotFoundError) Is(target error) bool {
	return target == ErrProviderNotFound
}

// Registry holds the providers configured at startup and which one is current.
// The available list never changes after construction; only the current
// reference is swapped, under an RW lock.
type Registry struct {
	available []Provider

	mu      sync.RWMutex
	current Provider
}

// NewRegistry creates a registry whose current provider is the first one given.
func NewRegistry(providers ...Provider) (*Registry, error) {
	if len(providers) == 0 {
		return nil, ErrNoProviders
	}

	available := make([]Provider, len(providers))
	copy(available, providers)

	return &Registry{
		available: available,
		current:   available[0],
	}, nil
}

// Current returns the provider used for completions.
func (r *Registry) Current() Provider {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.current
}

// Names returns the configured provider names in registration order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.available))
	for i, p := range r.available {
		names[i] = p.Name()
	}
	return names
}

// Switch makes the named provider current. Matching is case-insensitive.
// On failure the current provider is left unchanged.
func (r *Registry) Switch(name string) (Provider, error) {
	var target Provider
	for _, p := range r.available {
		if strings.EqualFold(p.Name(), name) {
			target = p
			break
		}
	}
	if target == nil {
		return nil, &ProviderNotFoundError{Name: name}
	}

	r.mu.Lock()
	r.current = target
	r.mu.Unlock()

	return target, nil
}

// ListModels queries every provider in order. The first failure aborts the
// whole listing; partial results are not returned.
func (r *Registry) ListModels(ctx context.Context) ([]ModelInfo, error) {
	var models []ModelInfo
	for _, p := range r.available {
		ids, err := p.ListModels(ctx)
		if err != nil {
			return nil, err
		}
		for _, id := range ids {
			models = append(models, ModelInfo{Provider: p.Name(), Model: id})
		}
	}
	if models == nil {
		models = []ModelInfo{}
	}
	return models, nil
}
