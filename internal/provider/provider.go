package provider

import "context"

// Provider is the model capability the agent loop depends on.
type Provider interface {
	// Generate returns the complete assistant message for req.
	Generate(ctx context.Context, req *Request) (*Message, error)

	// Stream behaves like Generate but calls onDelta with each content
	// fragment as it arrives. The returned message is the accumulation of
	// every fragment plus any tool calls.
	Stream(ctx context.Context, req *Request, onDelta func(string)) (*Message, error)

	// Model returns the model name requests are sent to.
	Model() string
}

// Builder creates a Provider bound to the named model.
type Builder func(model string) (Provider, error)
