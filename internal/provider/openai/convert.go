package openai

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Cyclone1070/projectgen/internal/provider"
	"github.com/Cyclone1070/projectgen/internal/tool"
	"github.com/google/uuid"
	openai "github.com/sashabaranov/go-openai"
)

// toOpenAIMessages converts the conversation to chat messages. Tool
// results whose call id was never issued by the model (the synthetic
// retry nudge) are sent as user messages, since the API rejects orphaned
// tool messages.
func toOpenAIMessages(system string, messages []provider.Message) []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, 0, len(messages)+1)
	if system != "" {
		out = append(out, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: system})
	}

	issued := make(map[string]bool)
	for _, msg := range messages {
		switch msg.Role {
		case provider.RoleUser:
			out = append(out, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: msg.Content})

		case provider.RoleAssistant:
			m := openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: msg.Content}
			for _, call := range msg.ToolCalls {
				args, err := json.Marshal(call.Args)
				if err != nil || call.Args == nil {
					args = []byte("{}")
				}
				m.ToolCalls = append(m.ToolCalls, openai.ToolCall{
					ID:   call.ID,
					Type: openai.ToolTypeFunction,
					Function: openai.FunctionCall{
						Name:      call.Name,
						Arguments: string(args),
					},
				})
				issued[call.ID] = true
			}
			out = append(out, m)

		case provider.RoleTool:
			if msg.Result == nil || !issued[msg.Result.CallID] {
				out = append(out, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: msg.Content})
				continue
			}
			out = append(out, openai.ChatCompletionMessage{
				Role:       openai.ChatMessageRoleTool,
				Content:    msg.Content,
				Name:       msg.Result.Name,
				ToolCallID: msg.Result.CallID,
			})
		}
	}
	return out
}

func toOpenAITools(decls []tool.Declaration) []openai.Tool {
	tools := make([]openai.Tool, 0, len(decls))
	for _, d := range decls {
		var params any = map[string]any{"type": "object", "properties": map[string]any{}}
		if d.Parameters != nil {
			params = d.Parameters
		}
		tools = append(tools, openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        d.Name,
				Description: d.Description,
				Parameters:  params,
			},
		})
	}
	return tools
}

// fromOpenAIMessage builds an assistant message. A call whose arguments
// are not valid JSON is not a structured call; its raw text is appended to
// the content so the turn loop sees a malformed attempt and asks the model
// to retry.
func fromOpenAIMessage(content string, calls []openai.ToolCall) provider.Message {
	msg := provider.AssistantMessage(content)

	var raw []string
	for _, tc := range calls {
		args := map[string]any{}
		if strings.TrimSpace(tc.Function.Arguments) != "" {
			if err := json.Unmarshal([]byte(tc.Function.Arguments), &args); err != nil {
				raw = append(raw, fmt.Sprintf(`{"tool_call": %q, "arguments": %s}`, tc.Function.Name, tc.Function.Arguments))
				continue
			}
		}
		id := tc.ID
		if id == "" {
			id = "call_" + uuid.NewString()
		}
		msg.ToolCalls = append(msg.ToolCalls, provider.ToolCall{ID: id, Name: tc.Function.Name, Args: args})
	}

	if len(raw) > 0 {
		msg.Content = strings.TrimSpace(msg.Content + "\n" + strings.Join(raw, "\n"))
	}
	return msg
}
