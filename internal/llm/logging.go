package llm

import (
	"context"
	"log/slog"
	"time"

	"github.com/abhisek/qgen/internal/store"
)

// LoggingProvider is a decorator that records every backend request as a
// usage event. Only metadata is recorded; the prompt and the generated
// sequences never reach the store.
type LoggingProvider struct {
	inner     Provider
	provider  string
	eventRepo store.EventRepo
	logger    *slog.Logger
}

// WithLogging wraps a Provider with event logging. Either eventRepo or
// logger may be nil.
func WithLogging(p Provider, providerName string, repo store.EventRepo, logger *slog.Logger) Provider {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &LoggingProvider{inner: p, provider: providerName, eventRepo: repo, logger: logger}
}

func (l *LoggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()

	resp, err := l.inner.Generate(ctx, req)

	data := store.UsageEventData{
		RequestID:          RequestIDFrom(ctx),
		Provider:           l.provider,
		Model:              l.inner.ModelID(),
		Purpose:            PurposeFrom(ctx),
		SequencesRequested: req.sequences(),
		LatencyMs:          time.Since(start).Milliseconds(),
		Success:            err == nil,
	}

	if resp != nil {
		data.SequencesReturned = len(resp.Sequences)
		data.InputTokens = resp.Usage.InputTokens
		data.OutputTokens = resp.Usage.OutputTokens
		if resp.Model != "" {
			data.Model = resp.Model
		}
	}

	if err != nil {
		data.ErrorMessage = err.Error()
	}

	attrs := []any{
		"request_id", data.RequestID,
		"provider", data.Provider,
		"model", data.Model,
		"purpose", data.Purpose,
		"requested", data.SequencesRequested,
		"returned", data.SequencesReturned,
		"latency_ms", data.LatencyMs,
	}
	if err != nil {
		l.logger.ErrorContext(ctx, "model request failed", append(attrs, "err", err)...)
	} else {
		l.logger.InfoContext(ctx, "model request", attrs...)
	}

	// Log the event but don't fail the request if logging fails.
	if l.eventRepo != nil {
		if logErr := l.eventRepo.AppendUsage(ctx, data); logErr != nil {
			l.logger.WarnContext(ctx, "failed to record usage event", "err", logErr)
		}
	}

	return resp, err
}

func (l *LoggingProvider) ModelID() string {
	return l.inner.ModelID()
}
