package llm

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/abhisek/quizling/internal/store"
)

// NewProvider creates the configured Provider wrapped with request
// recording, retries and the overall timeout:
// caller -> timeout -> retry -> logging -> backend.
func NewProvider(ctx context.Context, s Settings, eventRepo store.EventRepo, logger *zap.Logger) (Provider, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	var base Provider
	var err error

	switch s.Provider {
	case "anthropic":
		base, err = NewAnthropicProvider(s)
	case "openai":
		base, err = NewOpenAIProvider(s)
	case "openrouter":
		base, err = NewOpenRouterProvider(s)
	case "gemini":
		base, err = NewGeminiProvider(ctx, s)
	case "mock":
		base = NewSampleProvider()
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", s.Provider, err)
	}

	logged := WithLogging(base, s.Provider, eventRepo, logger)
	retried := WithRetry(logged, s.Retry)
	return WithTimeout(retried, s.Timeout), nil
}
