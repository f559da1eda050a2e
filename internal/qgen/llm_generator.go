package qgen

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/abhisek/qgen/internal/llm"
)

// Purpose labels question generation requests in usage events.
const Purpose = "question-gen"

// LLMGenerator implements Generator using an inference backend.
type LLMGenerator struct {
	provider llm.Provider
	config   Config
	logger   *slog.Logger
}

// New creates a new LLMGenerator with the given provider and config.
func New(provider llm.Provider, cfg Config, logger *slog.Logger) *LLMGenerator {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &LLMGenerator{provider: provider, config: cfg, logger: logger}
}

// Validate checks input without generating.
func Validate(input Input) error {
	if strings.TrimSpace(input.Context) == "" || strings.TrimSpace(input.Answer) == "" {
		return ErrMissingInput
	}
	if input.NumQuestions < MinQuestions || input.NumQuestions > MaxQuestions {
		return fmt.Errorf("%w: got %d", ErrInvalidCount, input.NumQuestions)
	}
	if input.MaxLength < 0 {
		return fmt.Errorf("max length must not be negative, got %d", input.MaxLength)
	}
	return nil
}

// Generate samples the requested number of questions in a single backend
// call. A backend failure is returned as is, wrapped; there is no partial
// result.
func (g *LLMGenerator) Generate(ctx context.Context, input Input) (*QuestionSet, error) {
	if err := Validate(input); err != nil {
		return nil, err
	}

	ctx = llm.WithRequestID(llm.WithPurpose(ctx, Purpose))

	maxLength := input.MaxLength
	if maxLength == 0 {
		maxLength = g.config.MaxLength
	}
	if maxLength == 0 {
		maxLength = DefaultMaxLength
	}

	resp, err := g.provider.Generate(ctx, llm.Request{
		Prompt:       BuildPrompt(input.Context, input.Answer),
		Sampling:     g.config.Sampling,
		MaxTokens:    maxLength,
		NumSequences: input.NumQuestions,
	})
	if err != nil {
		return nil, fmt.Errorf("question generation failed: %w", err)
	}

	set := &QuestionSet{Requested: input.NumQuestions, Model: resp.Model}

	valid := make([]string, 0, len(resp.Sequences))
	for _, seq := range resp.Sequences {
		q := cleanSequence(seq)
		if verr := g.validate(q, input); verr != nil {
			g.logger.DebugContext(ctx, "dropped generated sequence",
				"request_id", llm.RequestIDFrom(ctx), "reason", verr.Error())
			set.Rejected++
			continue
		}
		valid = append(valid, q)
	}

	// Backends may return more sequences than asked for.
	set.Questions, set.Duplicates = dedup(valid)
	if len(set.Questions) > input.NumQuestions {
		set.Questions = set.Questions[:input.NumQuestions]
	}

	if len(set.Questions) == 0 {
		return nil, fmt.Errorf("%w (%d sequences rejected)", ErrNoQuestions, set.Rejected)
	}
	return set, nil
}

// validate runs validators in order and returns the first failure.
func (g *LLMGenerator) validate(q string, input Input) *ValidationError {
	for _, v := range g.config.Validators {
		if verr := v.Validate(q, input); verr != nil {
			return verr
		}
	}
	return nil
}
