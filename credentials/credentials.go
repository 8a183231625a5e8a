// Package credentials resolves provider API secrets through an ordered chain
// of strategies: environment variables first, then the OS keychain.
//
// Information Hiding:
// - Where each provider's secret lives (env var names, keychain entries)
// - Keychain payload decoding (OAuth JSON vs raw key)
// - Failure handling: a strategy error is logged and treated as not-found
package credentials

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/zalando/go-keyring"

	"github.com/richinex/multimodel/logging"
)

// ErrNoCredentials is returned when no provider has a usable secret.
var ErrNoCredentials = errors.New("no providers configured: set ANTHROPIC_API_KEY or OPENAI_API_KEY, or store credentials in the system keychain")

// Secret is a resolved provider credential.
type Secret struct {
	Provider string
	Value    string
	Source   string
}

// Strategy looks up the secret for a provider.
type Strategy interface {
	// Name identifies the strategy in logs and Secret.Source.
	Name() string

	// Lookup returns the secret and true when found.
	Lookup(provider string) (string, bool, error)
}

// Resolver tries each strategy in order for every provider.
type Resolver struct {
	strategies []Strategy
	logger     *slog.Logger
}

// NewResolver creates a resolver over the given strategies.
func NewResolver(logger *slog.Logger, strategies ...Strategy) *Resolver {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Resolver{strategies: strategies, logger: logger}
}

// DefaultResolver checks the environment, then the OS keychain.
func DefaultResolver(logger *slog.Logger) *Resolver {
	return NewResolver(logger, NewEnvStrategy(), NewKeychainStrategy())
}

// Resolve returns one Secret per provider that has one, in provider order.
func (r *Resolver) Resolve(providers []string) []Secret {
	var secrets []Secret
	for _, provider := range providers {
		secret, ok := r.lookup(provider)
		if !ok {
			r.logger.Debug("no credentials found", "provider", provider)
			continue
		}
		r.logger.Info("provider authentication: success", "provider", provider, "source", secret.Source)
		secrets = append(secrets, secret)
	}
	return secrets
}

// ResolveAll is Resolve that fails with ErrNoCredentials when nothing is found.
func (r *Resolver) ResolveAll(providers []string) ([]Secret, error) {
	secrets := r.Resolve(providers)
	if len(secrets) == 0 {
		return nil, ErrNoCredentials
	}
	return secrets, nil
}

func (r *Resolver) lookup(provider string) (Secret, bool) {
	for _, s := range r.strategies {
		value, ok, err := s.Lookup(provider)
		if err != nil {
			r.logger.Debug("credential lookup failed", "provider", provider, "strategy", s.Name(), "error", err)
			continue
		}
		if ok && value != "" {
			return Secret{Provider: provider, Value: value, Source: s.Name()}, true
		}
	}
	return Secret{}, false
}

// EnvStrategy reads secrets from environment variables.
type EnvStrategy struct {
	vars   map[string]string
	getenv func(string) string
}

// NewEnvStrategy maps each provider to its API key variable.
func NewEnvStrategy() *EnvStrategy {
	return &EnvStrategy{
		vars: map[string]string{
			"anthropic": "ANTHROPIC_API_KEY",
			"openai":    "OPENAI_API_KEY",
			"gemini":    "GEMINI_API_KEY",
			"deepseek":  "DEEPSEEK_API_KEY",
		},
		getenv: os.Getenv,
	}
}

// Name returns "env".
func (s *EnvStrategy) Name() string { return "env" }

// Lookup reads the provider's variable.
func (s *EnvStrategy) Lookup(provider string) (string, bool, error) {
	name, ok := s.vars[provider]
	if !ok {
		return "", false, nil
	}
	value := s.getenv(name)
	return value, value != "", nil
}

// KeychainEntry is one service/user pair in the OS keychain.
// Decode, when set, extracts the secret from the stored payload.
type KeychainEntry struct {
	Service string
	User    string
	Decode  func(payload string) (string, error)
}

// KeychainStrategy reads secrets from the OS keychain. Entries for a provider
// are tried in order.
type KeychainStrategy struct {
	entries map[string][]KeychainEntry
	get     func(service, user string) (string, error)
}

// NewKeychainStrategy returns the stock keychain layout.
func NewKeychainStrategy() *KeychainStrategy {
	return &KeychainStrategy{
		entries: map[string][]KeychainEntry{
			"anthropic": {
				{Service: "Claude Code-credentials", User: currentUser(), Decode: decodeClaudeOAuth},
			},
			"openai": {
				{Service: "OpenAI-OAuth", User: "oauth-token"},
				{Service: "devsecops-orchestrator", User: "OPENAI_API_KEY"},
			},
		},
		get: keyring.Get,
	}
}

// Name returns "keychain".
func (s *KeychainStrategy) Name() string { return "keychain" }

// Lookup tries each configured entry. A missing entry is not an error.
func (s *KeychainStrategy) Lookup(provider string) (string, bool, error) {
	var lastErr error
	for _, entry := range s.entries[provider] {
		payload, err := s.get(entry.Service, entry.User)
		if errors.Is(err, keyring.ErrNotFound) {
			continue
		}
		if err != nil {
			lastErr = fmt.Errorf("keychain %q: %w", entry.Service, err)
			continue
		}

		if entry.Decode == nil {
			return payload, true, nil
		}
		value, err := entry.Decode(payload)
		if err != nil {
			lastErr = fmt.Errorf("keychain %q: %w", entry.Service, err)
			continue
		}
		return value, true, nil
	}
	return "", false, lastErr
}

type claudeOAuth struct {
	ClaudeAiOauth struct {
		AccessToken string `json:"accessToken"`
	} `json:"claudeAiOauth"`
}

func decodeClaudeOAuth(payload string) (string, error) {
	var data claudeOAuth
	if err := json.Unmarshal([]byte(payload), &data); err != nil {
		return "", fmt.Errorf("failed to parse OAuth data: %w", err)
	}
	if data.ClaudeAiOauth.AccessToken == "" {
		return "", errors.New("OAuth data has no access token")
	}
	return data.ClaudeAiOauth.AccessToken, nil
}

func currentUser() string {
	if u := os.Getenv("USER"); u != "" {
		return u
	}
	if u := os.Getenv("USERNAME"); u != "" {
		return u
	}
	return "default"
}
