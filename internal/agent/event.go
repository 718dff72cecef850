package agent

import "github.com/Cyclone1070/projectgen/internal/tool"

// Event is emitted by the turn loop as it progresses.
type Event interface {
	isEvent()
}

// StateEvent reports a state transition.
type StateEvent struct {
	State State
	Step  int
}

// TextEvent carries a streamed content delta.
type TextEvent struct {
	Text string
}

// MessageEvent carries the complete text of an assistant message.
type MessageEvent struct {
	Text  string
	Final bool
}

// ToolStartEvent is emitted before a tool call is authorized.
type ToolStartEvent struct {
	CallID string
	Name   string
	Args   map[string]any
}

// ToolEndEvent is emitted after a tool call has run.
type ToolEndEvent struct {
	CallID string
	Name   string
	Result tool.Result
}

// RetryEvent is emitted when a malformed call is answered with a retry.
type RetryEvent struct {
	Step int
}

func (StateEvent) isEvent()     {}
func (TextEvent) isEvent()      {}
func (MessageEvent) isEvent()   {}
func (ToolStartEvent) isEvent() {}
func (ToolEndEvent) isEvent()   {}
func (RetryEvent) isEvent()     {}
