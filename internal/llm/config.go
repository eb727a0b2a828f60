package llm

import (
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/abhisek/quizling/internal/config"
)

// Settings is the resolved configuration for one provider.
type Settings struct {
	Provider string // anthropic, openai, openrouter, gemini, mock
	Model    string
	APIKey   string
	BaseURL  string
	Timeout  time.Duration // whole request, retries included
	Retry    RetryConfig
}

// RetryConfig configures retry behavior for transient failures.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// DefaultRetry returns the retry policy used when none is configured.
func DefaultRetry() RetryConfig {
	return RetryConfig{
		MaxAttempts: 3,
		InitialWait: 1 * time.Second,
		MaxWait:     10 * time.Second,
		Multiplier:  2.0,
	}
}

const defaultTimeout = 60 * time.Second

// backend describes a supported provider.
type backend struct {
	defaultModel string
	keyEnv       string            // conventional variable read when no key is configured
	models       map[string]string // friendly name -> model id
}

var backends = map[string]backend{
	"anthropic":  {defaultModel: "claude-haiku", keyEnv: "ANTHROPIC_API_KEY", models: anthropicModels},
	"openai":     {defaultModel: "gpt-4o-mini", keyEnv: "OPENAI_API_KEY", models: openaiModels},
	"openrouter": {defaultModel: "google/gemini-2.0-flash-exp", keyEnv: "OPENROUTER_API_KEY"},
	"gemini":     {defaultModel: "gemini-flash", keyEnv: "GEMINI_API_KEY", models: geminiModels},
	"mock":       {defaultModel: "mock"},
}

// discoveryOrder is the order in which conventional key variables are
// probed by Discover.
var discoveryOrder = []string{"gemini", "openai", "anthropic", "openrouter"}

// Backends returns the supported provider names, sorted.
func Backends() []string {
	names := make([]string, 0, len(backends))
	for name := range backends {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// FromConfig resolves Settings from the application config. Empty fields
// fall back to the provider's defaults; an empty API key falls back to the
// provider's conventional environment variable (ANTHROPIC_API_KEY, ...).
func FromConfig(c config.LLMConfig) Settings {
	s := Settings{
		Provider: c.Provider,
		Model:    c.Model,
		APIKey:   c.APIKey,
		BaseURL:  c.BaseURL,
		Timeout:  c.Timeout,
		Retry:    DefaultRetry(),
	}
	if s.Provider == "" {
		s.Provider = "anthropic"
	}
	if s.Timeout <= 0 {
		s.Timeout = defaultTimeout
	}
	b, ok := backends[s.Provider]
	if !ok {
		return s
	}
	if s.Model == "" {
		s.Model = b.defaultModel
	}
	if s.APIKey == "" && b.keyEnv != "" {
		s.APIKey = os.Getenv(b.keyEnv)
	}
	return s
}

// Discover returns s unchanged when it is usable. Otherwise it probes the
// conventional key variables and switches to the first provider with a key.
func Discover(s Settings) (Settings, bool) {
	if s.Validate() == nil {
		return s, true
	}
	for _, name := range discoveryOrder {
		b := backends[name]
		if k := os.Getenv(b.keyEnv); k != "" {
			return Settings{
				Provider: name,
				Model:    b.defaultModel,
				APIKey:   k,
				Timeout:  s.Timeout,
				Retry:    s.Retry,
			}, true
		}
	}
	return s, false
}

// Validate checks that the provider is known and has an API key.
func (s Settings) Validate() error {
	b, ok := backends[s.Provider]
	if !ok {
		return fmt.Errorf("unknown LLM provider: %q", s.Provider)
	}
	if b.keyEnv != "" && s.APIKey == "" {
		return fmt.Errorf("the %s provider needs an API key: set llm.api_key, %s_LLM_API_KEY or %s",
			s.Provider, config.EnvPrefix, b.keyEnv)
	}
	return nil
}

// resolveModel maps a friendly model name to a provider model ID. Unknown
// names are used as-is.
func resolveModel(name string, models map[string]string) string {
	if id, ok := models[name]; ok {
		return id
	}
	return name
}
