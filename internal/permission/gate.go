package permission

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
)

// Decision is the operator's answer to a permission prompt.
type Decision int

const (
	AllowOnce Decision = iota
	DenyAndAbort
	AllowAlwaysForTool
	AllowAlwaysGlobal
)

// Prompter asks the operator to pick one of options and returns its index.
type Prompter interface {
	Select(ctx context.Context, prompt string, options []string) (int, error)
}

// Options returns the menu shown for tool, in Decision order.
func Options(tool string) []string {
	return []string{
		"Yes, allow once",
		"No, deny access (exit now)",
		fmt.Sprintf("Yes, always allow this tool (%s) to run", tool),
		"Yes, always allow all tools to run freely (USE AT YOUR OWN RISK)",
	}
}

// Gate is the human approval checkpoint in front of every tool call.
type Gate struct {
	state    *State
	prompter Prompter
	logger   *slog.Logger

	// One prompt at a time. Callers queued behind a prompt re-check the
	// state so an always-allow answer releases them without asking again.
	promptMu sync.Mutex
}

// NewGate creates a gate over a shared state.
func NewGate(state *State, prompter Prompter, logger *slog.Logger) *Gate {
	if state == nil {
		state = NewState()
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Gate{state: state, prompter: prompter, logger: logger}
}

// State returns the shared allow-state behind the gate.
func (g *Gate) State() *State {
	return g.state
}

// Authorize returns nil when the call may proceed and a *DeniedError when
// the operator refuses. Errors from the prompter, such as cancellation,
// are returned as is.
func (g *Gate) Authorize(ctx context.Context, tool string, args map[string]any) error {
	if g.state.IsAllowed(tool) {
		return nil
	}

	g.promptMu.Lock()
	defer g.promptMu.Unlock()

	if g.state.IsAllowed(tool) {
		return nil
	}
	if g.prompter == nil {
		return &DeniedError{Tool: tool}
	}

	prompt := fmt.Sprintf("Attempting to call '%s'", tool)
	if desc := Describe(tool, args); desc != tool {
		prompt += "\n  " + desc
	}

	idx, err := g.prompter.Select(ctx, prompt, Options(tool))
	if err != nil {
		return err
	}

	switch Decision(idx) {
	case AllowOnce:
		g.logger.Debug("tool allowed once", "tool", tool)
		return nil
	case AllowAlwaysForTool:
		g.state.AllowTool(tool)
		g.logger.Info("tool always allowed", "tool", tool)
		return nil
	case AllowAlwaysGlobal:
		g.state.AllowAll()
		g.logger.Warn("all tools always allowed")
		return nil
	case DenyAndAbort:
		g.logger.Info("tool denied", "tool", tool)
		return &DeniedError{Tool: tool}
	default:
		return fmt.Errorf("invalid permission decision: %d", idx)
	}
}
