package llm

import (
	"encoding/json"
	"fmt"
	"time"
)

// ErrRateLimit indicates the provider returned a rate limit error (429).
type ErrRateLimit struct {
	RetryAfter time.Duration
	Err        error
}

func (e *ErrRateLimit) Error() string {
	return fmt.Sprintf("rate limited (retry after %s): %v", e.RetryAfter, e.Err)
}

func (e *ErrRateLimit) Unwrap() error { return e.Err }

// ErrInvalidResponse indicates the backend returned a body that does not
// have the expected shape.
type ErrInvalidResponse struct {
	Content json.RawMessage
	Err     error
}

func (e *ErrInvalidResponse) Error() string {
	return fmt.Sprintf("invalid model response: %v", e.Err)
}

func (e *ErrInvalidResponse) Unwrap() error { return e.Err }

// ErrProviderUnavailable indicates the provider is down or unreachable.
type ErrProviderUnavailable struct {
	Err error
}

func (e *ErrProviderUnavailable) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("inference provider unavailable: %v", e.Err)
	}
	return "inference provider unavailable"
}

func (e *ErrProviderUnavailable) Unwrap() error { return e.Err }

// ErrModelLoading indicates the backend is still loading the model weights.
// EstimatedTime is the backend's own estimate, zero when unknown.
type ErrModelLoading struct {
	Model         string
	EstimatedTime time.Duration
}

func (e *ErrModelLoading) Error() string {
	if e.EstimatedTime > 0 {
		return fmt.Sprintf("model %s is loading (ready in ~%s)", e.Model, e.EstimatedTime.Round(time.Second))
	}
	return fmt.Sprintf("model %s is loading", e.Model)
}
