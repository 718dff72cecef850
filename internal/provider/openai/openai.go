package openai

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/Cyclone1070/projectgen/internal/provider"
	openai "github.com/sashabaranov/go-openai"
)

// Provider talks to an OpenAI-compatible chat completions API. Cerebras,
// OpenAI and most local servers expose this surface.
type Provider struct {
	client ChatClient
	model  string
}

// New creates a Provider for model using client.
func New(client ChatClient, model string) (*Provider, error) {
	if client == nil {
		return nil, errors.New("openai: client is required")
	}
	if model == "" {
		return nil, errors.New("openai: model is required")
	}
	return &Provider{client: client, model: model}, nil
}

// Model implements provider.Provider.
func (p *Provider) Model() string {
	return p.model
}

// Generate implements provider.Provider.
func (p *Provider) Generate(ctx context.Context, req *provider.Request) (*provider.Message, error) {
	resp, err := p.client.CreateChatCompletion(ctx, p.buildRequest(req, false))
	if err != nil {
		return nil, mapError(ctx, err)
	}
	if len(resp.Choices) == 0 {
		return nil, &provider.ProviderError{
			Code:    provider.ErrorCodeEmptyResponse,
			Message: "no choices in response",
		}
	}

	choice := resp.Choices[0].Message
	msg := fromOpenAIMessage(choice.Content, choice.ToolCalls)
	return &msg, nil
}

// Stream implements provider.Provider.
func (p *Provider) Stream(ctx context.Context, req *provider.Request, onDelta func(string)) (*provider.Message, error) {
	stream, err := p.client.CreateChatCompletionStream(ctx, p.buildRequest(req, true))
	if err != nil {
		return nil, mapError(ctx, err)
	}
	defer stream.Close()

	var content strings.Builder
	calls := make(map[int]*openai.ToolCall)

	for {
		chunk, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, mapError(ctx, err)
		}
		if len(chunk.Choices) == 0 {
			continue
		}

		delta := chunk.Choices[0].Delta
		if delta.Content != "" {
			content.WriteString(delta.Content)
			if onDelta != nil {
				onDelta(delta.Content)
			}
		}

		// Tool calls arrive in fragments keyed by index.
		for _, tc := range delta.ToolCalls {
			index := 0
			if tc.Index != nil {
				index = *tc.Index
			}
			acc, ok := calls[index]
			if !ok {
				acc = &openai.ToolCall{Type: openai.ToolTypeFunction}
				calls[index] = acc
			}
			if tc.ID != "" {
				acc.ID = tc.ID
			}
			if tc.Function.Name != "" {
				acc.Function.Name = tc.Function.Name
			}
			acc.Function.Arguments += tc.Function.Arguments
		}
	}

	indexes := make([]int, 0, len(calls))
	for i := range calls {
		indexes = append(indexes, i)
	}
	sort.Ints(indexes)

	ordered := make([]openai.ToolCall, 0, len(calls))
	for _, i := range indexes {
		ordered = append(ordered, *calls[i])
	}

	msg := fromOpenAIMessage(content.String(), ordered)
	return &msg, nil
}

func (p *Provider) buildRequest(req *provider.Request, stream bool) openai.ChatCompletionRequest {
	out := openai.ChatCompletionRequest{
		Model:       p.model,
		Messages:    toOpenAIMessages(req.System, req.Messages),
		Temperature: req.Temperature,
		Stream:      stream,
	}
	if len(req.Tools) > 0 {
		out.Tools = toOpenAITools(req.Tools)
	}
	return out
}

// mapError maps go-openai errors to provider errors.
func mapError(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}

	status := 0
	message := err.Error()

	var apiErr *openai.APIError
	var reqErr *openai.RequestError
	switch {
	case errors.As(err, &apiErr):
		status = apiErr.HTTPStatusCode
		message = apiErr.Message
	case errors.As(err, &reqErr):
		status = reqErr.HTTPStatusCode
	}

	switch {
	case status == 429:
		return &provider.ProviderError{Code: provider.ErrorCodeRateLimit, Message: "rate limit exceeded", Underlying: err, Retryable: true}
	case status == 401 || status == 403:
		return &provider.ProviderError{Code: provider.ErrorCodeAuth, Message: "authentication failed", Underlying: err}
	case status == 400 && strings.Contains(strings.ToLower(message), "context"):
		return &provider.ProviderError{Code: provider.ErrorCodeContextLength, Message: message, Underlying: err}
	case status == 400 || status == 404 || status == 422:
		return &provider.ProviderError{Code: provider.ErrorCodeInvalidRequest, Message: fmt.Sprintf("invalid request: %s", message), Underlying: err}
	case status >= 500:
		return &provider.ProviderError{Code: provider.ErrorCodeUnavailable, Message: "service unavailable", Underlying: err, Retryable: true}
	default:
		return &provider.ProviderError{Code: provider.ErrorCodeNetwork, Message: "network error", Underlying: err, Retryable: true}
	}
}
