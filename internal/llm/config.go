package llm

import (
	"fmt"
	"os"
	"time"
)

// DefaultModel is the pretrained question-generation model served by the
// Hugging Face backend.
const DefaultModel = "citraulia/t5-question-generator"

// Config holds all inference backend configuration.
type Config struct {
	// Provider selects which backend to use.
	// Values: "huggingface", "openai", "gemini", "anthropic", "mock".
	// "mock" is for tests: it has no responses and fails every call.
	Provider string `yaml:"provider"`

	HuggingFace HuggingFaceConfig `yaml:"huggingface"`
	OpenAI      OpenAIConfig      `yaml:"openai"`
	Gemini      GeminiConfig      `yaml:"gemini"`
	Anthropic   AnthropicConfig   `yaml:"anthropic"`
	Retry       RetryConfig       `yaml:"retry"`

	// Timeout bounds a single Generate call (including retries).
	// Zero means no timeout.
	Timeout time.Duration `yaml:"timeout"`
}

// HuggingFaceConfig holds configuration for the Hugging Face inference
// protocol. BaseURL may point at a self-hosted server that speaks it.
type HuggingFaceConfig struct {
	Token   string `yaml:"token"`
	Model   string `yaml:"model"`    // Default: DefaultModel
	BaseURL string `yaml:"base_url"` // Default: "https://api-inference.huggingface.co"
}

// OpenAIConfig holds configuration for OpenAI-compatible servers.
type OpenAIConfig struct {
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"`
	BaseURL string `yaml:"base_url"` // Optional. Override for vLLM or other compatible servers.
}

// GeminiConfig holds Gemini-specific configuration.
type GeminiConfig struct {
	APIKey string `yaml:"api_key"`
	Model  string `yaml:"model"` // Default: "gemini-flash"
}

// AnthropicConfig holds Anthropic-specific configuration.
type AnthropicConfig struct {
	APIKey string `yaml:"api_key"`
	Model  string `yaml:"model"` // Default: "claude-haiku"
}

// RetryConfig configures retry behavior for transient failures.
type RetryConfig struct {
	MaxAttempts int           `yaml:"max_attempts"`
	InitialWait time.Duration `yaml:"initial_wait"`
	MaxWait     time.Duration `yaml:"max_wait"`
	Multiplier  float64       `yaml:"multiplier"`
}

// DefaultConfig returns a Config with sensible defaults.
// Retries are off: a failed generation is reported, not retried.
func DefaultConfig() Config {
	return Config{
		Provider: "huggingface",
		HuggingFace: HuggingFaceConfig{
			Model:   DefaultModel,
			BaseURL: defaultHuggingFaceBaseURL,
		},
		OpenAI: OpenAIConfig{
			Model: DefaultModel,
		},
		Gemini: GeminiConfig{
			Model: "gemini-flash",
		},
		Anthropic: AnthropicConfig{
			Model: "claude-haiku",
		},
		Retry: RetryConfig{
			MaxAttempts: 1,
			InitialWait: 1 * time.Second,
			MaxWait:     10 * time.Second,
			Multiplier:  2.0,
		},
	}
}

// ApplyEnv overrides cfg with QGEN_* environment variables that are set.
func ApplyEnv(cfg *Config) {
	if p := os.Getenv("QGEN_PROVIDER"); p != "" {
		cfg.Provider = p
	}

	if k := os.Getenv("QGEN_HF_TOKEN"); k != "" {
		cfg.HuggingFace.Token = k
	} else if k := os.Getenv("HF_TOKEN"); k != "" && cfg.HuggingFace.Token == "" {
		cfg.HuggingFace.Token = k
	}
	if m := os.Getenv("QGEN_HF_MODEL"); m != "" {
		cfg.HuggingFace.Model = m
	}
	if u := os.Getenv("QGEN_HF_BASE_URL"); u != "" {
		cfg.HuggingFace.BaseURL = u
	}

	if k := os.Getenv("QGEN_OPENAI_API_KEY"); k != "" {
		cfg.OpenAI.APIKey = k
	}
	if m := os.Getenv("QGEN_OPENAI_MODEL"); m != "" {
		cfg.OpenAI.Model = m
	}
	if u := os.Getenv("QGEN_OPENAI_BASE_URL"); u != "" {
		cfg.OpenAI.BaseURL = u
	}

	if k := os.Getenv("QGEN_GEMINI_API_KEY"); k != "" {
		cfg.Gemini.APIKey = k
	}
	if m := os.Getenv("QGEN_GEMINI_MODEL"); m != "" {
		cfg.Gemini.Model = m
	}

	if k := os.Getenv("QGEN_ANTHROPIC_API_KEY"); k != "" {
		cfg.Anthropic.APIKey = k
	}
	if m := os.Getenv("QGEN_ANTHROPIC_MODEL"); m != "" {
		cfg.Anthropic.Model = m
	}
}

// ConfigFromEnv builds a Config from environment variables, falling back
// to defaults for unset values.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()
	ApplyEnv(&cfg)
	return cfg
}

// Validate checks that the selected provider has what it needs to connect.
// The Hugging Face backend works anonymously, so its token is optional.
func (c Config) Validate() error {
	switch c.Provider {
	case "huggingface":
		if c.HuggingFace.Model == "" {
			return fmt.Errorf("huggingface model name is required")
		}
	case "openai":
		if c.OpenAI.APIKey == "" && c.OpenAI.BaseURL == "" {
			return fmt.Errorf("QGEN_OPENAI_API_KEY or QGEN_OPENAI_BASE_URL is required for the openai provider")
		}
	case "gemini":
		if c.Gemini.APIKey == "" {
			return fmt.Errorf("QGEN_GEMINI_API_KEY is required for the gemini provider")
		}
	case "anthropic":
		if c.Anthropic.APIKey == "" {
			return fmt.Errorf("QGEN_ANTHROPIC_API_KEY is required for the anthropic provider")
		}
	case "mock":
		// No credentials needed.
	default:
		return fmt.Errorf("unknown inference provider: %q", c.Provider)
	}
	if c.Retry.MaxAttempts < 1 {
		return fmt.Errorf("retry.max_attempts must be at least 1, got %d", c.Retry.MaxAttempts)
	}
	return nil
}
