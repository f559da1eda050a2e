package llm

import (
	"context"
	"errors"
	"testing"
	"time"
)

func retryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts: 3,
		InitialWait: 1 * time.Millisecond,
		MaxWait:     10 * time.Millisecond,
		Multiplier:  2.0,
	}
}

func TestRetry_SingleAttemptIsUnwrapped(t *testing.T) {
	mock := NewMockProvider()
	p := WithRetry(mock, RetryConfig{MaxAttempts: 1})
	if p != Provider(mock) {
		t.Fatalf("expected the inner provider back, got %T", p)
	}
}

func TestRetry_SucceedsOnFirstAttempt(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Sequences: []string{"ok"}},
	)
	p := WithRetry(mock, retryConfig())

	resp, err := p.Generate(context.Background(), Request{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Sequences[0] != "ok" {
		t.Fatalf("unexpected sequences: %v", resp.Sequences)
	}
	if mock.CallCount() != 1 {
		t.Fatalf("expected 1 call, got %d", mock.CallCount())
	}
}

func TestRetry_TransientThenSuccess(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Err: &ErrProviderUnavailable{Err: errors.New("down")}},
		MockResponse{Sequences: []string{"ok"}},
	)
	p := WithRetry(mock, retryConfig())

	if _, err := p.Generate(context.Background(), Request{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mock.CallCount() != 2 {
		t.Fatalf("expected 2 calls, got %d", mock.CallCount())
	}
}

func TestRetry_AllAttemptsFail(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Err: &ErrProviderUnavailable{Err: errors.New("down")}},
		MockResponse{Err: &ErrProviderUnavailable{Err: errors.New("down")}},
		MockResponse{Err: &ErrProviderUnavailable{Err: errors.New("down")}},
	)
	p := WithRetry(mock, retryConfig())

	_, err := p.Generate(context.Background(), Request{})
	if err == nil {
		t.Fatal("expected error")
	}
	if mock.CallCount() != 3 {
		t.Fatalf("expected 3 calls, got %d", mock.CallCount())
	}
}

func TestRetry_ModelLoadingWaitsAndRetries(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Err: &ErrModelLoading{Model: "m", EstimatedTime: time.Millisecond}},
		MockResponse{Sequences: []string{"ok"}},
	)
	p := WithRetry(mock, retryConfig())

	if _, err := p.Generate(context.Background(), Request{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mock.CallCount() != 2 {
		t.Fatalf("expected 2 calls, got %d", mock.CallCount())
	}
}

func TestRetry_InvalidResponseRetriedOnce(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Err: &ErrInvalidResponse{Content: []byte(`bad`), Err: errors.New("bad")}},
		MockResponse{Err: &ErrInvalidResponse{Content: []byte(`bad`), Err: errors.New("bad")}},
		MockResponse{Sequences: []string{"ok"}}, // Won't be reached.
	)
	p := WithRetry(mock, retryConfig())

	_, err := p.Generate(context.Background(), Request{})
	if err == nil {
		t.Fatal("expected error")
	}
	if mock.CallCount() != 2 {
		t.Fatalf("expected 2 calls, got %d", mock.CallCount())
	}
}

func TestRetry_PlainErrorNotRetried(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Err: errors.New("huggingface: 401 Unauthorized: invalid token")},
		MockResponse{Sequences: []string{"ok"}},
	)
	p := WithRetry(mock, retryConfig())

	if _, err := p.Generate(context.Background(), Request{}); err == nil {
		t.Fatal("expected error")
	}
	if mock.CallCount() != 1 {
		t.Fatalf("expected 1 call, got %d", mock.CallCount())
	}
}

func TestRetry_BackoffIsCapped(t *testing.T) {
	r := &RetryProvider{config: RetryConfig{
		MaxAttempts: 5,
		InitialWait: 100 * time.Millisecond,
		MaxWait:     200 * time.Millisecond,
		Multiplier:  10,
	}}
	for attempt := 1; attempt <= 4; attempt++ {
		if got := r.backoff(attempt); got > 240*time.Millisecond {
			t.Fatalf("attempt %d: backoff %s exceeds cap plus jitter", attempt, got)
		}
	}
}

func TestRetry_ContextCancellation(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Err: &ErrProviderUnavailable{Err: errors.New("down")}},
		MockResponse{Sequences: []string{"ok"}},
	)
	p := WithRetry(mock, retryConfig())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.Generate(ctx, Request{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestRetry_RateLimitRespectsRetryAfter(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Err: &ErrRateLimit{RetryAfter: 1 * time.Millisecond, Err: errors.New("429")}},
		MockResponse{Sequences: []string{"ok"}},
	)
	p := WithRetry(mock, retryConfig())

	if _, err := p.Generate(context.Background(), Request{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mock.CallCount() != 2 {
		t.Fatalf("expected 2 calls, got %d", mock.CallCount())
	}
}

func TestRetry_ModelIDDelegates(t *testing.T) {
	p := WithRetry(NewMockProvider(), retryConfig())
	if p.ModelID() != "mock" {
		t.Fatalf("expected 'mock', got %q", p.ModelID())
	}
}

func TestTimeout_AppliesDeadline(t *testing.T) {
	var sawDeadline bool
	inner := providerFunc(func(ctx context.Context, _ Request) (*Response, error) {
		_, sawDeadline = ctx.Deadline()
		return &Response{}, nil
	})

	if _, err := WithTimeout(inner, time.Minute).Generate(context.Background(), Request{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !sawDeadline {
		t.Fatal("expected a deadline on the inner context")
	}
	if WithTimeout(inner, 0) == nil {
		t.Fatal("expected provider back for zero timeout")
	}
}

// providerFunc adapts a function to Provider.
type providerFunc func(ctx context.Context, req Request) (*Response, error)

func (f providerFunc) Generate(ctx context.Context, req Request) (*Response, error) {
	return f(ctx, req)
}

func (f providerFunc) ModelID() string { return "func" }
