package llm

import (
	"context"
	"errors"
	"sync"
)

// ErrNoMockResponses is the cause reported by a MockProvider whose queue
// is empty. The "mock" provider selected from configuration starts empty,
// so it fails every call; it exists for offline tests of the error path.
var ErrNoMockResponses = errors.New("mock provider has no canned responses")

// MockResponse is a canned response for the MockProvider.
type MockResponse struct {
	Sequences []string
	Usage     Usage
	Err       error
}

// MockProvider is a deterministic Provider for testing.
// It returns canned responses in FIFO order and records all requests.
type MockProvider struct {
	mu        sync.Mutex
	responses []MockResponse
	Calls     []Request
}

// NewMockProvider creates a MockProvider with the given canned responses.
func NewMockProvider(responses ...MockResponse) *MockProvider {
	return &MockProvider{responses: responses}
}

// Generate returns the next canned response, or ErrProviderUnavailable
// wrapping ErrNoMockResponses if the queue is empty. A canned response with more sequences than the
// request asked for is truncated to NumSequences.
func (m *MockProvider) Generate(_ context.Context, req Request) (*Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, req)

	if len(m.responses) == 0 {
		return nil, &ErrProviderUnavailable{Err: ErrNoMockResponses}
	}

	resp := m.responses[0]
	m.responses = m.responses[1:]

	if resp.Err != nil {
		return nil, resp.Err
	}

	seqs := resp.Sequences
	if n := req.sequences(); len(seqs) > n {
		seqs = seqs[:n]
	}

	return &Response{
		Sequences:  append([]string(nil), seqs...),
		Usage:      resp.Usage,
		Model:      "mock",
		StopReason: "end",
	}, nil
}

// ModelID returns "mock".
func (m *MockProvider) ModelID() string {
	return "mock"
}

// AddResponse appends a canned response to the queue.
func (m *MockProvider) AddResponse(resp MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = append(m.responses, resp)
}

// CallCount returns the number of Generate calls made.
func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}
