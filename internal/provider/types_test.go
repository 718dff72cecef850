package provider

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessageConstructors(t *testing.T) {
	call := ToolCall{ID: "c1", Name: "create_file", Args: map[string]any{"file_path": "a.txt"}}

	user := UserMessage("hi")
	assistant := AssistantMessage("", call)
	result := ToolResultMessage(ToolResult{CallID: "c1", Name: "create_file", Content: "File created at a.txt"})

	assert.Equal(t, RoleUser, user.Role)
	assert.False(t, user.HasToolCalls())
	assert.True(t, assistant.HasToolCalls())
	assert.Equal(t, RoleTool, result.Role)
	require.NotNil(t, result.Result)
	assert.Equal(t, "c1", result.Result.CallID)
	assert.Equal(t, "File created at a.txt", result.Content)
}
