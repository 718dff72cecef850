package orchestration

import (
	"context"
	"sync"

	"github.com/Cyclone1070/projectgen/internal/permission"
	"github.com/Cyclone1070/projectgen/internal/provider"
)

// scriptedProvider replays Script and answers "done" once it runs out.
type scriptedProvider struct {
	name string
	err  error

	mu       sync.Mutex
	Script   []provider.Message
	Requests []*provider.Request
}

func (p *scriptedProvider) Generate(ctx context.Context, req *provider.Request) (*provider.Message, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Requests = append(p.Requests, req)
	if p.err != nil {
		return nil, p.err
	}
	if len(p.Script) == 0 {
		msg := provider.AssistantMessage("done")
		return &msg, nil
	}
	msg := p.Script[0]
	p.Script = p.Script[1:]
	return &msg, nil
}

func (p *scriptedProvider) Stream(ctx context.Context, req *provider.Request, onDelta func(string)) (*provider.Message, error) {
	msg, err := p.Generate(ctx, req)
	if err == nil && msg.Content != "" {
		onDelta(msg.Content)
	}
	return msg, err
}

func (p *scriptedProvider) Model() string { return p.name }

func (p *scriptedProvider) requests() []*provider.Request {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]*provider.Request(nil), p.Requests...)
}

// queue hands out providers in creation order.
type queue struct {
	mu        sync.Mutex
	providers []*scriptedProvider
	keys      []string
}

func (q *queue) connect(ctx context.Context, model, apiKey string) (provider.Provider, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.keys = append(q.keys, apiKey)
	if len(q.providers) == 0 {
		return &scriptedProvider{name: model}, nil
	}
	p := q.providers[0]
	q.providers = q.providers[1:]
	p.name = model
	return p, nil
}

type denyAll struct{}

func (denyAll) Select(ctx context.Context, prompt string, options []string) (int, error) {
	return int(permission.DenyAndAbort), nil
}

func call(id, name string, args map[string]any) provider.Message {
	return provider.AssistantMessage("", provider.ToolCall{ID: id, Name: name, Args: args})
}

func newGate() *permission.Gate {
	return permission.NewGate(permission.NewState(), denyAll{}, nil)
}
