package llm

import "context"

// Provider is the core abstraction over an inference backend.
// Consumers call Generate with a Request and receive one decoded text per
// requested sequence.
type Provider interface {
	// Generate sends the prompt to the backend and returns the sampled
	// output sequences. Sequences come back in the order the backend
	// produced them; no deduplication happens at this layer.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID returns the model identifier this provider is configured to use.
	ModelID() string
}

// Request describes a single sampled-decoding call.
type Request struct {
	// Prompt is the full model input. For seq2seq models this is the
	// encoder text; chat backends send it as a single user message.
	Prompt string

	// Sampling holds the decoding parameters.
	Sampling Sampling

	// MaxTokens caps the number of generated tokens per sequence.
	MaxTokens int

	// NumSequences is the number of independently sampled sequences to
	// return. Values below 1 are treated as 1.
	NumSequences int
}

// Sampling controls stochastic decoding.
type Sampling struct {
	// DoSample enables sampling instead of greedy decoding.
	DoSample bool

	// TopK keeps only the K most likely next tokens. 0 disables it.
	TopK int

	// TopP keeps the smallest token set whose cumulative probability
	// exceeds P. 0 disables it.
	TopP float64

	// Temperature rescales logits before sampling.
	Temperature float64

	// RepetitionPenalty lowers the likelihood of tokens already emitted.
	// 1.0 (or 0) means no penalty.
	RepetitionPenalty float64
}

// Response holds the backend's output.
type Response struct {
	// Sequences are the decoded output texts, one per returned sequence.
	Sequences []string

	// Usage reports token consumption when the backend reports it.
	Usage Usage

	// Model is the actual model that served the request.
	Model string

	// StopReason indicates why generation stopped.
	// Normalized to: "end", "max_tokens", "error"
	StopReason string
}

// Usage tracks token consumption for a single request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

func (r Request) sequences() int {
	if r.NumSequences < 1 {
		return 1
	}
	return r.NumSequences
}
