package provider

import "github.com/Cyclone1070/projectgen/internal/tool"

// Role identifies the author of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// ToolCall is a structured request from the model to run a tool.
type ToolCall struct {
	ID   string
	Name string
	Args map[string]any
}

// ToolResult answers exactly one ToolCall.
type ToolResult struct {
	CallID  string
	Name    string
	Content string
	IsError bool
}

// Message is one entry of a conversation. Which fields are set depends on
// Role: assistant messages may carry ToolCalls, tool messages carry Result.
type Message struct {
	Role      Role
	Content   string
	ToolCalls []ToolCall
	Result    *ToolResult
}

// UserMessage creates a user message.
func UserMessage(text string) Message {
	return Message{Role: RoleUser, Content: text}
}

// AssistantMessage creates an assistant message with optional tool calls.
func AssistantMessage(text string, calls ...ToolCall) Message {
	return Message{Role: RoleAssistant, Content: text, ToolCalls: calls}
}

// ToolResultMessage wraps a tool result as a message.
func ToolResultMessage(r ToolResult) Message {
	return Message{Role: RoleTool, Content: r.Content, Result: &r}
}

// HasToolCalls reports whether the message carries structured tool calls.
func (m Message) HasToolCalls() bool {
	return len(m.ToolCalls) > 0
}

// Request is a single model invocation.
type Request struct {
	System      string
	Messages    []Message
	Tools       []tool.Declaration
	Temperature float32
}
