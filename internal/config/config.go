// Package config loads qgen settings. Values are layered: built-in
// defaults, then an optional YAML file, then QGEN_* environment variables,
// then command-line flags applied by the caller.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/abhisek/qgen/internal/extract"
	"github.com/abhisek/qgen/internal/llm"
	"github.com/abhisek/qgen/internal/qgen"
)

// DefaultAddr is the web UI listen address.
const DefaultAddr = "127.0.0.1:8501"

// Config is the full application configuration.
type Config struct {
	LLM        llm.Config       `yaml:"llm"`
	Server     ServerConfig     `yaml:"server"`
	Generation GenerationConfig `yaml:"generation"`
	Store      StoreConfig      `yaml:"store"`
	Log        LogConfig        `yaml:"log"`
}

// ServerConfig configures the web UI.
type ServerConfig struct {
	Addr           string `yaml:"addr"`
	MaxUploadBytes int64  `yaml:"max_upload_bytes"`
}

// GenerationConfig configures question generation defaults.
type GenerationConfig struct {
	DefaultCount int `yaml:"default_count"`
	MaxLength    int `yaml:"max_length"`
}

// StoreConfig configures the usage-event log.
type StoreConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"` // Default: store.DefaultDBPath()
	// KeepEvents bounds the log; older events are pruned on startup.
	// 0 keeps everything.
	KeepEvents int `yaml:"keep_events"`
}

// LogConfig configures structured logging.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text or json
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		LLM: llm.DefaultConfig(),
		Server: ServerConfig{
			Addr:           DefaultAddr,
			MaxUploadBytes: extract.DefaultMaxBytes,
		},
		Generation: GenerationConfig{
			DefaultCount: qgen.DefaultQuestions,
			MaxLength:    qgen.DefaultMaxLength,
		},
		Store: StoreConfig{
			Enabled:    true,
			KeepEvents: 10000,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load builds a Config from defaults, the YAML file at path (if path is
// not empty), the environment and then overrides, and validates the
// result. Overrides carry command-line flags.
func Load(path string, overrides ...func(*Config)) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := Parse(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
		}
	}
	ApplyEnv(&cfg)
	for _, o := range overrides {
		o(&cfg)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Parse decodes a single YAML document onto cfg. Unknown keys are errors.
func Parse(data []byte, cfg *Config) error {
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return nil // empty file
		}
		return err
	}
	var extra any
	if err := decoder.Decode(&extra); !errors.Is(err, io.EOF) {
		return fmt.Errorf("config must contain a single YAML document")
	}
	return nil
}

// ApplyEnv overrides cfg with QGEN_* environment variables that are set.
func ApplyEnv(cfg *Config) {
	llm.ApplyEnv(&cfg.LLM)
	if v := os.Getenv("QGEN_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("QGEN_DB"); v != "" {
		cfg.Store.Path = v
	}
	if v := os.Getenv("QGEN_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("QGEN_LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
}

// Validate checks every section.
func (c Config) Validate() error {
	if err := c.LLM.Validate(); err != nil {
		return fmt.Errorf("llm: %w", err)
	}
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}
	if c.Server.MaxUploadBytes <= 0 {
		return fmt.Errorf("server.max_upload_bytes must be positive, got %d", c.Server.MaxUploadBytes)
	}
	if c.Generation.DefaultCount < qgen.MinQuestions || c.Generation.DefaultCount > qgen.MaxQuestions {
		return fmt.Errorf("generation.default_count must be between %d and %d, got %d",
			qgen.MinQuestions, qgen.MaxQuestions, c.Generation.DefaultCount)
	}
	if c.Generation.MaxLength <= 0 {
		return fmt.Errorf("generation.max_length must be positive, got %d", c.Generation.MaxLength)
	}
	if c.Store.KeepEvents < 0 {
		return fmt.Errorf("store.keep_events must not be negative, got %d", c.Store.KeepEvents)
	}
	if _, err := parseLevel(c.Log.Level); err != nil {
		return err
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("log.format must be \"text\" or \"json\", got %q", c.Log.Format)
	}
	return nil
}
