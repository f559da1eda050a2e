package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
)

const (
	defaultHuggingFaceBaseURL = "https://api-inference.huggingface.co"

	// maxResponseBytes caps how much of a response body is read.
	maxResponseBytes = 4 << 20
)

// text2textSchema is the success body of a text2text-generation call:
// one object per returned sequence.
var text2textSchema = &Schema{
	Name: "hf-text2text",
	Definition: map[string]any{
		"type": "array",
		"items": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"generated_text": map[string]any{"type": "string"},
			},
			"required": []any{"generated_text"},
		},
	},
}

// HuggingFaceProvider implements Provider against the Hugging Face
// inference protocol. It is the only backend that accepts every sampling
// parameter of a seq2seq generate call as-is.
type HuggingFaceProvider struct {
	client  *http.Client
	baseURL string
	model   string
	token   string
}

// NewHuggingFaceProvider creates a new Hugging Face provider.
func NewHuggingFaceProvider(cfg HuggingFaceConfig) (*HuggingFaceProvider, error) {
	if cfg.Model == "" {
		return nil, fmt.Errorf("huggingface model name is required")
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultHuggingFaceBaseURL
	}
	return &HuggingFaceProvider{
		client:  &http.Client{},
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   cfg.Model,
		token:   cfg.Token,
	}, nil
}

type hfRequest struct {
	Inputs     string       `json:"inputs"`
	Parameters hfParameters `json:"parameters"`
	Options    hfOptions    `json:"options"`
}

type hfParameters struct {
	DoSample           bool    `json:"do_sample"`
	TopK               int     `json:"top_k,omitempty"`
	TopP               float64 `json:"top_p,omitempty"`
	Temperature        float64 `json:"temperature,omitempty"`
	RepetitionPenalty  float64 `json:"repetition_penalty,omitempty"`
	NumReturnSequences int     `json:"num_return_sequences"`
	MaxLength          int     `json:"max_length,omitempty"`
}

type hfOptions struct {
	WaitForModel bool `json:"wait_for_model"`
	UseCache     bool `json:"use_cache"`
}

type hfGenerated struct {
	GeneratedText string `json:"generated_text"`
}

type hfError struct {
	Error         string  `json:"error"`
	EstimatedTime float64 `json:"estimated_time"`
}

func (p *HuggingFaceProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	body, err := json.Marshal(hfRequest{
		Inputs: req.Prompt,
		Parameters: hfParameters{
			DoSample:           req.Sampling.DoSample,
			TopK:               req.Sampling.TopK,
			TopP:               req.Sampling.TopP,
			Temperature:        req.Sampling.Temperature,
			RepetitionPenalty:  req.Sampling.RepetitionPenalty,
			NumReturnSequences: req.sequences(),
			MaxLength:          req.MaxTokens,
		},
		// Identical prompts must be re-sampled, never served from cache.
		Options: hfOptions{WaitForModel: true, UseCache: false},
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint(), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	if p.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+p.token)
	}

	httpResp, err := p.client.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &ErrProviderUnavailable{Err: err}
	}
	defer httpResp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(httpResp.Body, maxResponseBytes))
	if err != nil {
		return nil, &ErrProviderUnavailable{Err: fmt.Errorf("read response: %w", err)}
	}

	if httpResp.StatusCode != http.StatusOK {
		return nil, p.mapError(httpResp, raw)
	}

	if err := validateResponse(text2textSchema, raw); err != nil {
		return nil, err
	}

	var generated []hfGenerated
	if err := json.Unmarshal(raw, &generated); err != nil {
		return nil, &ErrInvalidResponse{Content: raw, Err: err}
	}

	seqs := make([]string, len(generated))
	for i, g := range generated {
		seqs[i] = g.GeneratedText
	}

	return &Response{
		Sequences:  seqs,
		Model:      p.model,
		StopReason: "end",
	}, nil
}

func (p *HuggingFaceProvider) ModelID() string {
	return p.model
}

func (p *HuggingFaceProvider) endpoint() string {
	return p.baseURL + "/models/" + p.model
}

func (p *HuggingFaceProvider) mapError(resp *http.Response, raw []byte) error {
	var apiErr hfError
	_ = json.Unmarshal(raw, &apiErr)
	msg := apiErr.Error
	if msg == "" {
		msg = strings.TrimSpace(string(raw))
	}
	err := fmt.Errorf("huggingface: %s: %s", resp.Status, msg)

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return &ErrRateLimit{RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")), Err: err}
	case resp.StatusCode == http.StatusServiceUnavailable && apiErr.EstimatedTime > 0:
		return &ErrModelLoading{
			Model:         p.model,
			EstimatedTime: time.Duration(apiErr.EstimatedTime * float64(time.Second)),
		}
	case resp.StatusCode >= 500:
		return &ErrProviderUnavailable{Err: err}
	}
	return err
}

// parseRetryAfter reads a Retry-After header given in seconds.
func parseRetryAfter(v string) time.Duration {
	secs, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || secs < 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}
