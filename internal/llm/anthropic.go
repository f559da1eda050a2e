package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"golang.org/x/sync/errgroup"
)

// anthropicModels maps friendly names to Anthropic model IDs.
var anthropicModels = map[string]string{
	"claude-sonnet": "claude-sonnet-4-20250514",
	"claude-haiku":  "claude-haiku-4-5-20251001",
}

// anthropicMaxFanout bounds concurrent calls for one multi-sequence request.
const anthropicMaxFanout = 4

// AnthropicProvider implements Provider using the Anthropic SDK.
// The Messages API returns one completion per call, so a request for N
// sequences issues N calls. Temperature is clamped to the API's 0-1 range.
type AnthropicProvider struct {
	client *anthropic.Client
	model  string
}

// NewAnthropicProvider creates a new Anthropic provider.
func NewAnthropicProvider(cfg AnthropicConfig) (*AnthropicProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("anthropic API key is required")
	}

	client := anthropic.NewClient(option.WithAPIKey(cfg.APIKey))

	return &AnthropicProvider{
		client: &client,
		model:  resolveModel(cfg.Model, anthropicModels),
	}, nil
}

func (p *AnthropicProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	params := p.buildParams(req)

	n := req.sequences()
	msgs := make([]*anthropic.Message, n)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(anthropicMaxFanout)
	for i := range n {
		g.Go(func() error {
			msg, err := p.client.Messages.New(gctx, params)
			if err != nil {
				return mapAnthropicError(err)
			}
			msgs[i] = msg
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	resp := &Response{Model: p.model, StopReason: "end"}
	for _, msg := range msgs {
		text, err := extractAnthropicText(msg)
		if err != nil {
			return nil, err
		}
		resp.Sequences = append(resp.Sequences, text)
		resp.Usage.InputTokens += int(msg.Usage.InputTokens)
		resp.Usage.OutputTokens += int(msg.Usage.OutputTokens)
		resp.Model = string(msg.Model)
		if s := mapAnthropicStopReason(msg.StopReason); s != "end" {
			resp.StopReason = s
		}
	}
	resp.Usage.TotalTokens = resp.Usage.InputTokens + resp.Usage.OutputTokens

	return resp, nil
}

func (p *AnthropicProvider) ModelID() string {
	return p.model
}

func (p *AnthropicProvider) buildParams(req Request) anthropic.MessageNewParams {
	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 72
	}
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(p.model),
		MaxTokens: int64(maxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(req.Prompt)),
		},
	}
	if req.Sampling.Temperature > 0 {
		params.Temperature = anthropic.Float(min(req.Sampling.Temperature, 1.0))
	}
	if req.Sampling.TopK > 0 {
		params.TopK = anthropic.Int(int64(req.Sampling.TopK))
	}
	if req.Sampling.TopP > 0 {
		params.TopP = anthropic.Float(req.Sampling.TopP)
	}
	return params
}

func extractAnthropicText(msg *anthropic.Message) (string, error) {
	for _, block := range msg.Content {
		if block.Type == "text" {
			return block.Text, nil
		}
	}
	return "", &ErrInvalidResponse{
		Err: fmt.Errorf("no text content in Anthropic response"),
	}
}

func mapAnthropicStopReason(reason anthropic.StopReason) string {
	switch reason {
	case "end_turn":
		return "end"
	case "max_tokens":
		return "max_tokens"
	default:
		return "end"
	}
}

func mapAnthropicError(err error) error {
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.StatusCode == http.StatusTooManyRequests:
			return &ErrRateLimit{Err: err}
		case apiErr.StatusCode >= 500:
			return &ErrProviderUnavailable{Err: err}
		}
	}
	return &ErrProviderUnavailable{Err: err}
}

// resolveModel maps a friendly model name to a provider model ID.
func resolveModel(name string, models map[string]string) string {
	if id, ok := models[name]; ok {
		return id
	}
	// If not in the map, use as-is (allows direct model IDs).
	return name
}
