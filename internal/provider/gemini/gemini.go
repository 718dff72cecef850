package gemini

import (
	"context"
	"errors"
	"strings"

	"github.com/Cyclone1070/projectgen/internal/provider"
	"google.golang.org/genai"
)

// GeminiProvider implements provider.Provider for Google Gemini.
type GeminiProvider struct {
	client    GeminiClient
	modelName string
}

// New creates a new GeminiProvider with the specified client and model.
func New(client GeminiClient, modelName string) (*GeminiProvider, error) {
	if client == nil {
		return nil, errors.New("gemini: client is required")
	}
	if modelName == "" {
		return nil, errors.New("gemini: model is required")
	}
	return &GeminiProvider{client: client, modelName: modelName}, nil
}

// Model implements provider.Provider.
func (p *GeminiProvider) Model() string {
	return p.modelName
}

// Generate sends a request to the Gemini API and returns the response.
func (p *GeminiProvider) Generate(ctx context.Context, req *provider.Request) (*provider.Message, error) {
	resp, err := p.client.GenerateContent(ctx, p.modelName, toGeminiContents(req.Messages), toGeminiConfig(req))
	if err != nil {
		return nil, mapGeminiError(ctx, err)
	}

	acc := &accumulator{}
	if err := acc.add(resp); err != nil {
		return nil, err
	}
	msg := acc.message()
	return &msg, nil
}

// Stream implements provider.Provider.
func (p *GeminiProvider) Stream(ctx context.Context, req *provider.Request, onDelta func(string)) (*provider.Message, error) {
	acc := &accumulator{onDelta: onDelta}
	for resp, err := range p.client.GenerateContentStream(ctx, p.modelName, toGeminiContents(req.Messages), toGeminiConfig(req)) {
		if err != nil {
			return nil, mapGeminiError(ctx, err)
		}
		if err := acc.add(resp); err != nil {
			return nil, err
		}
	}
	if acc.empty() {
		return nil, &provider.ProviderError{Code: provider.ErrorCodeEmptyResponse, Message: "no candidates in response"}
	}
	msg := acc.message()
	return &msg, nil
}

// accumulator folds one or more response chunks into a single message.
// Thought parts are wrapped in <think> tags so they can be stripped like
// any other thinking block.
type accumulator struct {
	onDelta  func(string)
	thought  strings.Builder
	text     strings.Builder
	calls    []provider.ToolCall
	received bool
}

func (a *accumulator) add(resp *genai.GenerateContentResponse) error {
	if resp == nil || len(resp.Candidates) == 0 {
		return &provider.ProviderError{Code: provider.ErrorCodeEmptyResponse, Message: "no candidates in response"}
	}

	candidate := resp.Candidates[0]
	if candidate.FinishReason == genai.FinishReasonSafety {
		return &provider.ProviderError{Code: provider.ErrorCodeContentBlocked, Message: "content blocked by safety filters"}
	}
	a.received = true
	if candidate.Content == nil {
		return nil
	}

	for _, part := range candidate.Content.Parts {
		switch {
		case part.FunctionCall != nil:
			a.calls = append(a.calls, fromFunctionCall(part.FunctionCall))
		case part.Thought && part.Text != "":
			a.thought.WriteString(part.Text)
		case part.Text != "":
			a.text.WriteString(part.Text)
			if a.onDelta != nil {
				a.onDelta(part.Text)
			}
		}
	}
	return nil
}

func (a *accumulator) empty() bool {
	return !a.received
}

func (a *accumulator) message() provider.Message {
	content := a.text.String()
	if a.thought.Len() > 0 {
		content = "<think>\n" + a.thought.String() + "\n</think>\n" + content
	}
	return provider.AssistantMessage(content, a.calls...)
}
