package agent

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Cyclone1070/projectgen/internal/permission"
	"github.com/Cyclone1070/projectgen/internal/provider"
	"github.com/Cyclone1070/projectgen/internal/tool"
)

func newTestAgent(t *testing.T, p provider.Provider, policy *Policy, decisions ...permission.Decision) *Agent {
	t.Helper()
	gate, _ := gateWith(decisions...)
	a, err := New(Config{
		Name:         "tester",
		SystemPrompt: "be helpful",
		Provider:     p,
		Tools:        (&fakeFiles{}).registry(t),
		Gate:         gate,
		Policy:       policy,
		StepBudget:   3,
	})
	require.NoError(t, err)
	return a
}

func TestInvoke_Answer(t *testing.T) {
	p := &MockProvider{Script: []provider.Message{provider.AssistantMessage("thinking</think>\n\nThe answer.")}}
	a := newTestAgent(t, p, nil)

	res := a.Invoke(context.Background(), "question", InvokeOptions{ExtraContext: []string{"one", "two"}})

	require.NotNil(t, res.Answer)
	assert.Nil(t, res.Failure)
	assert.Equal(t, "The answer.", res.Answer.Text)
	assert.True(t, res.Answer.HadThinkingBlock)
	assert.Equal(t, "The answer.", res.Text())
	assert.NotEmpty(t, res.ThreadID)

	req := p.Requests[0]
	assert.Equal(t, "be helpful", req.System)
	assert.Equal(t, "question\n\nExtra context you must know:\none\ntwo", req.Messages[0].Content)
	assert.Len(t, req.Tools, 2)
}

func TestInvoke_IncludeThinking(t *testing.T) {
	p := &MockProvider{Script: []provider.Message{provider.AssistantMessage("reasoning</think>answer")}}
	a := newTestAgent(t, p, nil)

	res := a.Invoke(context.Background(), "q", InvokeOptions{IncludeThinking: true})

	require.NotNil(t, res.Answer)
	assert.Equal(t, "<think>\nreasoning</think>answer", res.Answer.Text)
}

func TestInvoke_FreshThreadPerCall(t *testing.T) {
	p := &MockProvider{}
	a := newTestAgent(t, p, nil)

	first := a.Invoke(context.Background(), "a", InvokeOptions{})
	second := a.Invoke(context.Background(), "b", InvokeOptions{})

	assert.NotEqual(t, first.ThreadID, second.ThreadID)
	assert.Len(t, p.Requests[1].Messages, 1)
}

func TestInvoke_SameThreadKeepsHistory(t *testing.T) {
	p := &MockProvider{}
	a := newTestAgent(t, p, nil)

	a.Invoke(context.Background(), "a", InvokeOptions{ThreadID: "t1"})
	a.Invoke(context.Background(), "b", InvokeOptions{ThreadID: "t1"})

	assert.Len(t, p.Requests[1].Messages, 3)
	assert.Equal(t, 4, a.Store().Get("t1").Len())
}

func TestInvoke_FailureText(t *testing.T) {
	p := &MockProvider{GenerateFunc: func(ctx context.Context, req *provider.Request) (*provider.Message, error) {
		return nil, errors.New("boom")
	}}
	c := &MockConsole{}
	a := newTestAgent(t, p, NewPolicy(c, false, nil))

	res := a.Invoke(context.Background(), "q", InvokeOptions{})

	require.NotNil(t, res.Failure)
	assert.Equal(t, FailureUnexpected, res.Failure.Kind)
	assert.Equal(t, ExecutionFailedText, res.Text())
	require.Len(t, c.Errors, 1)
	assert.Contains(t, c.Errors[0], "An unexpected error occurred")
}

func TestInvoke_CancelledPromptIsNotReported(t *testing.T) {
	p := &MockProvider{Script: []provider.Message{provider.AssistantMessage("", createCall("c", "a.txt"))}}
	c := &MockConsole{}
	gate, prompter := gateWith()
	prompter.Err = context.Canceled
	a, err := New(Config{
		Name:     "tester",
		Provider: p,
		Tools:    (&fakeFiles{}).registry(t),
		Gate:     gate,
		Policy:   NewPolicy(c, true, nil),
	})
	require.NoError(t, err)

	res := a.Invoke(context.Background(), "q", InvokeOptions{})

	require.NotNil(t, res.Failure)
	assert.ErrorIs(t, res.Failure, context.Canceled)
	assert.Empty(t, c.Errors)
	assert.Empty(t, c.Warns)
	assert.Len(t, prompter.Prompts, 1)
}

func TestTurnResult_NoMessagesText(t *testing.T) {
	res := TurnResult{Failure: NewFailure(ErrNoFinalMessage)}

	assert.Equal(t, NoMessagesText, res.Text())
}

func TestInvoke_StepLimitContinues(t *testing.T) {
	malformed := provider.AssistantMessage("{ broken")
	p := &MockProvider{Script: []provider.Message{malformed, malformed, malformed, provider.AssistantMessage("finished")}}
	c := &MockConsole{ConfirmAns: true}
	a := newTestAgent(t, p, NewPolicy(c, false, nil))

	res := a.Invoke(context.Background(), "q", InvokeOptions{ThreadID: "t"})

	require.NotNil(t, res.Answer)
	assert.Equal(t, "finished", res.Answer.Text)
	assert.Equal(t, []string{ContinueQuestion}, c.Confirms)

	var users []string
	for _, m := range a.Store().Get("t").Messages() {
		if m.Role == provider.RoleUser {
			users = append(users, m.Content)
		}
	}
	assert.Equal(t, []string{"q", ContinuePrompt}, users)
}

func TestInvoke_StepLimitDeclined(t *testing.T) {
	p := &MockProvider{GenerateFunc: func(ctx context.Context, req *provider.Request) (*provider.Message, error) {
		msg := provider.AssistantMessage("<tool>")
		return &msg, nil
	}}
	a := newTestAgent(t, p, NewPolicy(&MockConsole{ConfirmAns: false}, false, nil))

	res := a.Invoke(context.Background(), "q", InvokeOptions{})

	require.NotNil(t, res.Failure)
	assert.Equal(t, FailureStepLimitExceeded, res.Failure.Kind)
	assert.Equal(t, 3, p.Calls)
}

func TestInvokeOrError_Propagates(t *testing.T) {
	p := &MockProvider{Script: []provider.Message{provider.AssistantMessage("", createCall("c", "a.txt"))}}
	a := newTestAgent(t, p, nil, permission.DenyAndAbort)

	_, err := a.InvokeOrError(context.Background(), "q", InvokeOptions{})

	assert.ErrorIs(t, err, permission.ErrPermissionDenied)
}

func TestInvoke_QuietSuppressesEvents(t *testing.T) {
	var events []Event
	a := newTestAgent(t, &MockProvider{}, nil)

	a.Invoke(context.Background(), "q", InvokeOptions{Quiet: true, OnEvent: func(ev Event) { events = append(events, ev) }})
	assert.Empty(t, events)

	a.Invoke(context.Background(), "q", InvokeOptions{OnEvent: func(ev Event) { events = append(events, ev) }})
	assert.NotEmpty(t, events)
}

func TestWithTools_ReturnsNewAgent(t *testing.T) {
	a := newTestAgent(t, &MockProvider{}, nil)
	extra := tool.New(tool.Declaration{Name: "extra"}, func(ctx context.Context, req struct{}) (string, error) {
		return "", nil
	})

	b, err := a.WithTools(extra)

	require.NoError(t, err)
	assert.Equal(t, 2, a.Tools().Len())
	assert.Equal(t, 3, b.Tools().Len())
	assert.Same(t, a.Store(), b.Store())
	assert.Same(t, a.Config().Gate, b.Config().Gate)

	_, err = b.WithTools(extra)
	assert.ErrorIs(t, err, tool.ErrDuplicateTool)
}

func TestWithProvider(t *testing.T) {
	a := newTestAgent(t, &MockProvider{ModelName: "one"}, nil)

	b, err := a.WithProvider(&MockProvider{ModelName: "two"})

	require.NoError(t, err)
	assert.Equal(t, "one", a.Model())
	assert.Equal(t, "two", b.Model())

	_, err = a.WithProvider(nil)
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestNew_RequiresGate(t *testing.T) {
	_, err := New(Config{Name: "x", Provider: &MockProvider{}})

	assert.ErrorIs(t, err, ErrInvalidState)
}
