package agent

import (
	"context"
	"sync"

	"github.com/Cyclone1070/projectgen/internal/permission"
	"github.com/Cyclone1070/projectgen/internal/provider"
)

// MockProvider answers requests with GenerateFunc, or with a fixed script
// of replies when GenerateFunc is nil.
type MockProvider struct {
	GenerateFunc func(ctx context.Context, req *provider.Request) (*provider.Message, error)
	ModelName    string

	mu       sync.Mutex
	Script   []provider.Message
	Calls    int
	Requests []*provider.Request
}

func (m *MockProvider) Generate(ctx context.Context, req *provider.Request) (*provider.Message, error) {
	m.mu.Lock()
	m.Calls++
	m.Requests = append(m.Requests, req)
	call := m.Calls
	m.mu.Unlock()

	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, req)
	}
	if call > len(m.Script) {
		msg := provider.AssistantMessage("done")
		return &msg, nil
	}
	msg := m.Script[call-1]
	return &msg, nil
}

// Stream emits the reply's content as a single delta.
func (m *MockProvider) Stream(ctx context.Context, req *provider.Request, onDelta func(string)) (*provider.Message, error) {
	msg, err := m.Generate(ctx, req)
	if err != nil {
		return nil, err
	}
	if msg.Content != "" {
		onDelta(msg.Content)
	}
	return msg, nil
}

func (m *MockProvider) Model() string {
	if m.ModelName == "" {
		return "mock-model"
	}
	return m.ModelName
}

// MockPrompter answers permission prompts from a list of decisions and
// repeats the last one when the list runs out.
type MockPrompter struct {
	mu        sync.Mutex
	Decisions []permission.Decision
	Err       error
	Prompts   []string
}

func (p *MockPrompter) Select(ctx context.Context, prompt string, options []string) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	p.Prompts = append(p.Prompts, prompt)
	if p.Err != nil {
		return 0, p.Err
	}
	if len(p.Decisions) == 0 {
		return int(permission.DenyAndAbort), nil
	}
	d := p.Decisions[0]
	if len(p.Decisions) > 1 {
		p.Decisions = p.Decisions[1:]
	}
	return int(d), nil
}

func gateWith(decisions ...permission.Decision) (*permission.Gate, *MockPrompter) {
	p := &MockPrompter{Decisions: decisions}
	return permission.NewGate(permission.NewState(), p, nil), p
}

// MockConsole records everything shown to the user and replays Inputs.
type MockConsole struct {
	Inputs     []string
	InputErr   error
	ConfirmAns bool
	ConfirmErr error

	Infos    []string
	Warns    []string
	Errors   []string
	Statuses []string
	Answers  []string
	Events   []Event
	Cleared  int
	Confirms []string
}

func (c *MockConsole) ReadInput(ctx context.Context, prompt string) (string, error) {
	if len(c.Inputs) == 0 {
		if c.InputErr != nil {
			return "", c.InputErr
		}
		return "", context.Canceled
	}
	in := c.Inputs[0]
	c.Inputs = c.Inputs[1:]
	return in, nil
}

func (c *MockConsole) Info(msg string)   { c.Infos = append(c.Infos, msg) }
func (c *MockConsole) Warn(msg string)   { c.Warns = append(c.Warns, msg) }
func (c *MockConsole) Error(msg string)  { c.Errors = append(c.Errors, msg) }
func (c *MockConsole) Status(msg string) { c.Statuses = append(c.Statuses, msg) }
func (c *MockConsole) Answer(text string) {
	c.Answers = append(c.Answers, text)
}
func (c *MockConsole) ClearScreen()   { c.Cleared++ }
func (c *MockConsole) Event(ev Event) { c.Events = append(c.Events, ev) }

func (c *MockConsole) Confirm(ctx context.Context, question string, def bool) (bool, error) {
	c.Confirms = append(c.Confirms, question)
	return c.ConfirmAns, c.ConfirmErr
}
