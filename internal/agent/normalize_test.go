package agent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Cyclone1070/projectgen/internal/provider"
)

var thinkingSamples = []string{
	"",
	"plain answer",
	"<think>\nreasoning\n</think>\n\nanswer",
	"reasoning without opener</think> answer ",
	"</think>",
	"a</think>b</think>c",
	"  <think>x</think>  ",
	"<b>bold</b>",
}

func TestStripThinking(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"plain answer", "plain answer"},
		{"<think>\nreasoning\n</think>\n\nanswer", "answer"},
		{"reasoning</think>  answer  ", "answer"},
		{"a</think>b</think>c", "c"},
		{"  untouched  ", "  untouched  "},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, StripThinking(tt.in), "input %q", tt.in)
	}
}

func TestStripThinking_Idempotent(t *testing.T) {
	for _, x := range thinkingSamples {
		once := StripThinking(x)
		assert.Equal(t, once, StripThinking(once), "input %q", x)
	}
}

func TestEnsureThinking_AfterStripStartsWithOpener(t *testing.T) {
	for _, x := range thinkingSamples {
		if !HasThinking(x) {
			continue
		}
		got := EnsureThinking(StripThinking(x))
		assert.True(t, len(got) >= len(thinkOpen) && got[:len(thinkOpen)] == thinkOpen, "input %q gave %q", x, got)
	}
}

func TestEnsureThinking(t *testing.T) {
	assert.Equal(t, "<think>\nreasoning</think>answer", EnsureThinking("reasoning</think>answer"))
	assert.Equal(t, "<think>x</think>y", EnsureThinking("<think>x</think>y"))
	assert.Equal(t, "<think>\n<b>html</b>", EnsureThinking("<b>html</b>"))
}

func TestNormalize(t *testing.T) {
	raw := "thoughts</think> answer"

	assert.Equal(t, "answer", Normalize(raw, false))
	assert.Equal(t, "<think>\n"+raw, Normalize(raw, true))
}

func TestFinalText(t *testing.T) {
	text, err := FinalText([]provider.Message{
		provider.UserMessage("q"),
		provider.AssistantMessage("  a  "),
	})
	require.NoError(t, err)
	assert.Equal(t, "a", text)

	_, err = FinalText(nil)
	assert.ErrorIs(t, err, ErrNoFinalMessage)

	_, err = FinalText([]provider.Message{provider.UserMessage("q")})
	assert.ErrorIs(t, err, ErrNoFinalMessage)
}
