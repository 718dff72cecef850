package agent

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/Cyclone1070/projectgen/internal/permission"
	"github.com/Cyclone1070/projectgen/internal/provider"
	"github.com/Cyclone1070/projectgen/internal/tool"
)

const (
	extraContextHeader = "\n\nExtra context you must know:\n"

	NoMessagesText      = "[ERROR] Agent did not return any messages."
	ExecutionFailedText = "[ERROR] Agent execution failed."
)

// Config describes an agent. It is copied on construction.
type Config struct {
	Name         string
	SystemPrompt string
	Provider     provider.Provider
	Tools        *tool.Registry
	Gate         *permission.Gate
	// Policy reports failures of Invoke and asks whether to continue
	// after the step limit. Nil means failures are only returned.
	Policy      *Policy
	StepBudget  int
	Temperature float32
	// Store is shared by agents derived from this one. Nil creates a
	// new store.
	Store  *ThreadStore
	Logger *slog.Logger
}

// Agent binds a model, a tool set and a prompt. It is immutable: the With
// methods build a new agent and leave the receiver untouched.
type Agent struct {
	cfg     Config
	machine *Machine
}

func New(cfg Config) (*Agent, error) {
	if cfg.Tools == nil {
		reg, err := tool.NewRegistry()
		if err != nil {
			return nil, err
		}
		cfg.Tools = reg
	}
	if cfg.Gate == nil {
		return nil, fmt.Errorf("agent %q: %w: permission gate is required", cfg.Name, ErrInvalidState)
	}
	if cfg.Store == nil {
		cfg.Store = NewThreadStore()
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	m, err := NewMachine(MachineConfig{
		Provider:     cfg.Provider,
		Tools:        cfg.Tools,
		Gate:         cfg.Gate,
		SystemPrompt: cfg.SystemPrompt,
		Temperature:  cfg.Temperature,
		StepBudget:   cfg.StepBudget,
		Logger:       cfg.Logger.With("agent", cfg.Name),
	})
	if err != nil {
		return nil, fmt.Errorf("agent %q: %w", cfg.Name, err)
	}
	return &Agent{cfg: cfg, machine: m}, nil
}

func (a *Agent) Name() string { return a.cfg.Name }

func (a *Agent) Model() string { return a.cfg.Provider.Model() }

func (a *Agent) Tools() *tool.Registry { return a.cfg.Tools }

func (a *Agent) Store() *ThreadStore { return a.cfg.Store }

// Config returns a copy of the agent's configuration.
func (a *Agent) Config() Config { return a.cfg }

// WithTools returns a new agent with extra tools. The thread store and the
// permission state are shared with the receiver.
func (a *Agent) WithTools(tools ...tool.Tool) (*Agent, error) {
	reg, err := a.cfg.Tools.With(tools...)
	if err != nil {
		return nil, fmt.Errorf("agent %q: %w", a.cfg.Name, err)
	}
	cfg := a.cfg
	cfg.Tools = reg
	return New(cfg)
}

// WithProvider returns a new agent bound to p.
func (a *Agent) WithProvider(p provider.Provider) (*Agent, error) {
	cfg := a.cfg
	cfg.Provider = p
	return New(cfg)
}

// InvokeOptions controls a single invocation.
type InvokeOptions struct {
	// ThreadID continues an existing conversation. Empty starts a new one.
	ThreadID string
	// ExtraContext is appended to the prompt under a fixed header.
	ExtraContext []string
	// IncludeThinking keeps the model's thinking block in the answer.
	IncludeThinking    bool
	Stream             bool
	IntermediaryChunks bool
	// Quiet suppresses events.
	Quiet   bool
	OnEvent func(Event)
}

// FinalAnswer is a successful turn.
type FinalAnswer struct {
	Text             string
	HadThinkingBlock bool
}

// TurnResult holds either an answer or a failure.
type TurnResult struct {
	ThreadID string
	Answer   *FinalAnswer
	Failure  *Failure
}

// Text renders the result as plain text, using fixed error strings for
// failures.
func (r TurnResult) Text() string {
	if r.Answer != nil {
		return r.Answer.Text
	}
	if r.Failure != nil && errors.Is(r.Failure.Err, ErrNoFinalMessage) {
		return NoMessagesText
	}
	return ExecutionFailedText
}

// Invoke runs one turn and reports failures through the configured
// Policy instead of returning them. When the step limit is hit and the
// operator agrees, the turn resumes on the same thread with
// ContinuePrompt.
func (a *Agent) Invoke(ctx context.Context, prompt string, opts InvokeOptions) TurnResult {
	threadID := opts.ThreadID
	if threadID == "" {
		threadID = NewThreadID()
	}
	thread := a.cfg.Store.Get(threadID)

	for {
		answer, err := a.run(ctx, thread, prompt, opts)
		if err == nil {
			return TurnResult{ThreadID: threadID, Answer: answer}
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = ctxErr
		}
		// Cancelled through the context or at a permission prompt; there
		// is nothing to report.
		if ctx.Err() != nil || errors.Is(err, context.Canceled) {
			return TurnResult{ThreadID: threadID, Failure: &Failure{Kind: FailureUnexpected, Message: err.Error(), Err: err}}
		}

		failure := NewFailure(err)
		if a.cfg.Policy != nil && a.cfg.Policy.Handle(ctx, err) {
			prompt = ContinuePrompt
			opts.ExtraContext = nil
			continue
		}
		return TurnResult{ThreadID: threadID, Failure: failure}
	}
}

// InvokeOrError runs one turn and returns any failure unchanged. It is
// meant for callers with their own error handling, such as a tool that
// delegates to another agent.
func (a *Agent) InvokeOrError(ctx context.Context, prompt string, opts InvokeOptions) (string, error) {
	threadID := opts.ThreadID
	if threadID == "" {
		threadID = NewThreadID()
	}
	answer, err := a.run(ctx, a.cfg.Store.Get(threadID), prompt, opts)
	if err != nil {
		return "", err
	}
	return answer.Text, nil
}

func (a *Agent) run(ctx context.Context, thread *Thread, prompt string, opts InvokeOptions) (*FinalAnswer, error) {
	if len(opts.ExtraContext) > 0 {
		prompt += extraContextHeader + strings.Join(opts.ExtraContext, "\n")
	}
	thread.Append(provider.UserMessage(prompt))

	runOpts := RunOptions{Stream: opts.Stream, Intermediary: opts.IntermediaryChunks}
	if !opts.Quiet {
		runOpts.OnEvent = opts.OnEvent
	}
	if _, err := a.machine.Run(ctx, thread, runOpts); err != nil {
		return nil, err
	}

	raw, err := FinalText(thread.Messages())
	if err != nil {
		return nil, err
	}
	return &FinalAnswer{
		Text:             Normalize(raw, opts.IncludeThinking),
		HadThinkingBlock: HasThinking(raw),
	}, nil
}
