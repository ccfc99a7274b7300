package provider

import (
	"context"
	"fmt"
	"strings"

	"github.com/nlshell/nlsh/internal/config"
)

// Provider is a remote command-generation backend. Each implementation owns
// its endpoint, credential key, and request/response schema.
type Provider interface {
	// Name returns the canonical provider name as persisted in config
	Name() string

	// EnvKey returns the configuration key holding this provider's API key
	EnvKey() string

	// GenerateCommand sends the prompt and returns the proposed shell command
	GenerateCommand(ctx context.Context, prompt, apiKey string) (string, error)
}

// Parse maps a user-supplied provider name to a Provider. Aliases fold to
// the same provider; unknown names are rejected.
func Parse(name string) (Provider, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "gemini", "google":
		return NewGemini(), true
	case "zai", "z.ai", "z-ai":
		return NewZai(), true
	default:
		return nil, false
	}
}

// Resolve returns the provider selected by the persisted configuration.
// Missing or unrecognized values fall back to Gemini so the tool always has
// a usable provider.
func Resolve(env *config.Env) Provider {
	if p, ok := Parse(env.Get(config.ProviderKey)); ok {
		return p
	}
	return NewGemini()
}

// EnsureAPIKey looks up the provider's credential. Absent or blank values
// fail with the exact key name the operator needs to set.
func EnsureAPIKey(env *config.Env, p Provider) (string, error) {
	key := strings.TrimSpace(env.Get(p.EnvKey()))
	if key == "" {
		return "", fmt.Errorf("missing %s. Set one via `nlsh --set-api-key`", p.EnvKey())
	}
	return key, nil
}
