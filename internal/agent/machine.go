package agent

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/Cyclone1070/projectgen/internal/provider"
)

// DefaultStepBudget is the number of model calls a turn may make.
const DefaultStepBudget = 100

// abandonedCallText answers tool calls left unanswered by an aborted turn.
const abandonedCallText = "Error: tool call was not executed because the previous turn was aborted."

// State is a state of the turn loop.
type State int

const (
	StateAwaitingModel State = iota
	StateValidatingCall
	StateExecutingTool
	StateTerminal
)

func (s State) String() string {
	switch s {
	case StateAwaitingModel:
		return "awaiting_model"
	case StateValidatingCall:
		return "validating_call"
	case StateExecutingTool:
		return "executing_tool"
	case StateTerminal:
		return "terminal"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// MachineConfig configures a Machine.
type MachineConfig struct {
	Provider     provider.Provider
	Tools        toolExecutor
	Gate         authorizer
	SystemPrompt string
	Temperature  float32
	StepBudget   int
	Logger       *slog.Logger
}

// Machine runs one turn at a time against a thread: it calls the model,
// classifies the reply, executes authorized tool calls and folds their
// results back until the model gives a final answer.
type Machine struct {
	provider    provider.Provider
	tools       toolExecutor
	gate        authorizer
	system      string
	temperature float32
	budget      int
	logger      *slog.Logger
}

func NewMachine(cfg MachineConfig) (*Machine, error) {
	if cfg.Provider == nil {
		return nil, fmt.Errorf("%w: provider is required", ErrInvalidState)
	}
	if cfg.Tools == nil {
		return nil, fmt.Errorf("%w: tools are required", ErrInvalidState)
	}
	if cfg.Gate == nil {
		return nil, fmt.Errorf("%w: permission gate is required", ErrInvalidState)
	}
	budget := cfg.StepBudget
	if budget <= 0 {
		budget = DefaultStepBudget
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Machine{
		provider:    cfg.Provider,
		tools:       cfg.Tools,
		gate:        cfg.Gate,
		system:      cfg.SystemPrompt,
		temperature: cfg.Temperature,
		budget:      budget,
		logger:      logger,
	}, nil
}

func (m *Machine) StepBudget() int {
	return m.budget
}

// RunOptions controls what a turn reports while it runs.
type RunOptions struct {
	// Stream requests content deltas from the provider.
	Stream bool
	// Intermediary reports the text of tool-calling steps, not only the
	// final answer.
	Intermediary bool
	// OnEvent receives progress events. Nil runs the turn quietly.
	OnEvent func(Event)
}

// Outcome is a completed turn.
type Outcome struct {
	Message provider.Message
	Steps   int
}

// Run executes a turn on thread, whose last message should be the user's.
// Permission denials, provider failures, the step limit and context
// cancellation end the turn with an error; tool failures and malformed
// calls are folded back into the thread.
func (m *Machine) Run(ctx context.Context, thread *Thread, opts RunOptions) (*Outcome, error) {
	emit := func(ev Event) {
		if opts.OnEvent != nil {
			opts.OnEvent(ev)
		}
	}

	if n := thread.SettlePending(abandonedCallText); n > 0 {
		m.logger.Debug("settled abandoned tool calls", "thread", thread.ID, "count", n)
	}

	var (
		state     = StateAwaitingModel
		verdict   Verdict
		last      provider.Message
		steps     int
		malformed int
	)

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		m.logger.Debug("turn transition", "thread", thread.ID, "state", state, "step", steps)
		emit(StateEvent{State: state, Step: steps})

		switch state {
		case StateAwaitingModel:
			if steps >= m.budget {
				return nil, &StepLimitError{Budget: m.budget, MalformedRetries: malformed}
			}
			steps++

			resp, err := m.callModel(ctx, thread, opts, emit)
			if err != nil {
				return nil, err
			}
			thread.Append(*resp)
			last = *resp

			verdict, err = Classify(thread.Messages())
			if err != nil {
				return nil, err
			}
			if verdict == Terminal {
				state = StateTerminal
				continue
			}
			if opts.Intermediary && resp.Content != "" {
				emit(MessageEvent{Text: resp.Content})
			}
			state = StateValidatingCall

		case StateValidatingCall:
			if verdict == MalformedCall {
				malformed++
				m.logger.Warn("malformed tool call", "thread", thread.ID, "step", steps)
				thread.Append(provider.ToolResultMessage(RetryResult()))
				emit(RetryEvent{Step: steps})
				state = StateAwaitingModel
				continue
			}
			state = StateExecutingTool

		case StateExecutingTool:
			if err := m.executeCalls(ctx, thread, last.ToolCalls, emit); err != nil {
				return nil, err
			}
			state = StateAwaitingModel

		case StateTerminal:
			emit(MessageEvent{Text: last.Content, Final: true})
			return &Outcome{Message: last, Steps: steps}, nil
		}
	}
}

func (m *Machine) callModel(ctx context.Context, thread *Thread, opts RunOptions, emit func(Event)) (*provider.Message, error) {
	req := &provider.Request{
		System:      m.system,
		Messages:    thread.Messages(),
		Tools:       m.tools.Declarations(),
		Temperature: m.temperature,
	}

	var (
		resp *provider.Message
		err  error
	)
	if opts.Stream {
		resp, err = m.provider.Stream(ctx, req, func(delta string) {
			emit(TextEvent{Text: delta})
		})
	} else {
		resp, err = m.provider.Generate(ctx, req)
	}
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("provider.Generate: %w", err)
	}
	if resp == nil {
		return nil, fmt.Errorf("provider.Generate: %w", provider.ErrEmptyResponse)
	}
	resp.Role = provider.RoleAssistant
	return resp, nil
}

// executeCalls runs calls strictly in order. A denial stops the loop
// before the denied call's executor runs, leaving later calls unanswered.
func (m *Machine) executeCalls(ctx context.Context, thread *Thread, calls []provider.ToolCall, emit func(Event)) error {
	for _, call := range calls {
		emit(ToolStartEvent{CallID: call.ID, Name: call.Name, Args: call.Args})

		if err := m.gate.Authorize(ctx, call.Name, call.Args); err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			m.logger.Warn("tool call not authorized", "thread", thread.ID, "tool", call.Name, "call_id", call.ID, "error", err)
			return fmt.Errorf("authorize %s: %w", call.Name, err)
		}

		m.logger.Debug("dispatching tool", "thread", thread.ID, "tool", call.Name, "call_id", call.ID)
		res, err := m.tools.Execute(ctx, call.Name, call.Args)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			return fmt.Errorf("tools.Execute (%s): %w", call.Name, err)
		}

		thread.Append(provider.ToolResultMessage(provider.ToolResult{
			CallID:  call.ID,
			Name:    call.Name,
			Content: res.Content,
			IsError: res.IsError,
		}))
		emit(ToolEndEvent{CallID: call.ID, Name: call.Name, Result: res})
	}
	return nil
}
