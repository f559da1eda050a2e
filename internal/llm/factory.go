package llm

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/abhisek/qgen/internal/store"
)

// NewProvider creates a Provider from configuration.
// It returns the provider wrapped with retry and logging middleware.
// eventRepo may be nil, in which case usage events are only logged.
func NewProvider(ctx context.Context, cfg Config, eventRepo store.EventRepo, logger *slog.Logger) (Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var base Provider
	var err error

	switch cfg.Provider {
	case "huggingface":
		base, err = NewHuggingFaceProvider(cfg.HuggingFace)
	case "openai":
		base, err = NewOpenAIProvider(cfg.OpenAI)
	case "gemini":
		base, err = NewGeminiProvider(ctx, cfg.Gemini)
	case "anthropic":
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case "mock":
		if logger != nil {
			logger.Warn("mock inference provider selected; every generation will fail")
		}
		return NewMockProvider(), nil
	default:
		return nil, fmt.Errorf("unknown inference provider: %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	// Wrap with middleware: caller → timeout → retry → logging → base
	logged := WithLogging(base, cfg.Provider, eventRepo, logger)
	retried := WithRetry(logged, cfg.Retry)

	return WithTimeout(retried, cfg.Timeout), nil
}
