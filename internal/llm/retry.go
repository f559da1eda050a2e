package llm

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"time"
)

// RetryProvider re-issues a request after transient backend failures:
// rate limits, an unavailable backend and a model that is still loading.
// Any other error is returned on the spot.
type RetryProvider struct {
	inner  Provider
	config RetryConfig
}

// WithRetry wraps a Provider with retry logic. With MaxAttempts of 1 or
// less the provider is returned unwrapped.
func WithRetry(p Provider, cfg RetryConfig) Provider {
	if cfg.MaxAttempts <= 1 {
		return p
	}
	return &RetryProvider{inner: p, config: cfg}
}

func (r *RetryProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	var (
		err          error
		retriedShape bool
	)
	for attempt := 1; ; attempt++ {
		var resp *Response
		resp, err = r.inner.Generate(ctx, req)
		if err == nil {
			return resp, nil
		}
		if attempt >= r.config.MaxAttempts {
			return nil, err
		}

		wait, ok := r.delay(err, attempt)
		if !ok {
			return nil, err
		}
		// A malformed body is retried once; a second one is a real fault.
		var invalid *ErrInvalidResponse
		if errors.As(err, &invalid) {
			if retriedShape {
				return nil, err
			}
			retriedShape = true
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
}

func (r *RetryProvider) ModelID() string {
	return r.inner.ModelID()
}

// delay reports how long to wait before attempt+1 and whether err is worth
// another attempt at all.
func (r *RetryProvider) delay(err error, attempt int) (time.Duration, bool) {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return 0, false
	}

	var (
		loading *ErrModelLoading
		limited *ErrRateLimit
		down    *ErrProviderUnavailable
		invalid *ErrInvalidResponse
	)
	switch {
	case errors.As(err, &loading):
		if loading.EstimatedTime > 0 {
			return min(loading.EstimatedTime, r.config.MaxWait), true
		}
	case errors.As(err, &limited):
		if limited.RetryAfter > 0 {
			return limited.RetryAfter, true
		}
	case errors.As(err, &down), errors.As(err, &invalid):
	default:
		return 0, false
	}
	return r.backoff(attempt), true
}

// backoff is InitialWait * Multiplier^(attempt-1), capped at MaxWait,
// with ±20% jitter.
func (r *RetryProvider) backoff(attempt int) time.Duration {
	wait := float64(r.config.InitialWait) * math.Pow(r.config.Multiplier, float64(attempt-1))
	wait = min(wait, float64(r.config.MaxWait))
	wait += wait * 0.2 * (2*rand.Float64() - 1)
	return time.Duration(max(wait, 0))
}
