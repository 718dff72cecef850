package agent

import (
	"fmt"
	"strings"

	"github.com/Cyclone1070/projectgen/internal/provider"
)

// Verdict is the classification of the latest assistant message.
type Verdict int

const (
	// Terminal is a final answer.
	Terminal Verdict = iota
	// AttemptedCall carries structured tool calls.
	AttemptedCall
	// MalformedCall looks like a tool call written as text.
	MalformedCall
)

func (v Verdict) String() string {
	switch v {
	case Terminal:
		return "terminal"
	case AttemptedCall:
		return "attempted_call"
	case MalformedCall:
		return "malformed_call"
	default:
		return fmt.Sprintf("verdict(%d)", int(v))
	}
}

// All marker heuristics live here. Text containing any of them but no
// structured call is treated as a failed attempt to call a tool.
var malformedMarkers = []string{"{", "}", "tool_call", "arguments", "<tool"}

// RetryCallID is the call id of the synthetic result injected after a
// malformed call.
const RetryCallID = "retry"

// RetryText is what the model is told after a malformed call.
const RetryText = "Error: Your tool call was malformed or non-JSON. Please fix and retry."

// Classify inspects the last message of history, which must come from
// the assistant.
func Classify(history []provider.Message) (Verdict, error) {
	if len(history) == 0 {
		return Terminal, fmt.Errorf("%w: no messages to classify", ErrInvalidState)
	}
	last := history[len(history)-1]
	if last.Role != provider.RoleAssistant {
		return Terminal, fmt.Errorf("%w: last message is from %q, not the assistant", ErrInvalidState, last.Role)
	}
	return ClassifyMessage(last), nil
}

// ClassifyMessage classifies a single assistant message.
func ClassifyMessage(msg provider.Message) Verdict {
	if msg.HasToolCalls() {
		return AttemptedCall
	}
	if containsAny(msg.Content, malformedMarkers) {
		return MalformedCall
	}
	return Terminal
}

// RetryResult is the synthetic tool result injected after a malformed call.
func RetryResult() provider.ToolResult {
	return provider.ToolResult{
		CallID:  RetryCallID,
		Name:    RetryCallID,
		Content: RetryText,
		IsError: true,
	}
}

func containsAny(s string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(s, m) {
			return true
		}
	}
	return false
}
