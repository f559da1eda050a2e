package qgen

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/abhisek/qgen/internal/llm"
	"github.com/abhisek/qgen/internal/store"
)

// BuildFunc constructs a Generator. It runs at most once per Loader.
type BuildFunc func(ctx context.Context) (Generator, error)

// Loader lazily builds a Generator on first use and shares it for the
// lifetime of the process. A build failure is remembered and returned
// from every later call; there is no reload. A build cut short by the
// caller's context being cancelled or timing out is not remembered, and
// the next call builds again.
type Loader struct {
	build BuildFunc

	mu   sync.Mutex
	done bool
	gen  Generator
	err  error
}

// NewLoader returns a Loader that calls build on the first Get.
func NewLoader(build BuildFunc) *Loader {
	return &Loader{build: build}
}

// NewProviderLoader returns a Loader that connects to the configured
// inference backend and wraps it in an LLMGenerator.
func NewProviderLoader(llmCfg llm.Config, cfg Config, repo store.EventRepo, logger *slog.Logger) *Loader {
	return NewLoader(func(ctx context.Context) (Generator, error) {
		provider, err := llm.NewProvider(ctx, llmCfg, repo, logger)
		if err != nil {
			return nil, err
		}
		if logger != nil {
			logger.Info("question model ready", "provider", llmCfg.Provider, "model", provider.ModelID())
		}
		return New(provider, cfg, logger), nil
	})
}

// Get returns the shared Generator, building it on the first call.
// Concurrent first calls block until the single build finishes.
func (l *Loader) Get(ctx context.Context) (Generator, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.done {
		return l.gen, l.err
	}

	gen, err := l.build(ctx)
	if err != nil {
		err = fmt.Errorf("load question model: %w", err)
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
	}
	l.gen, l.err, l.done = gen, err, true
	return gen, err
}
