package tool

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type echoRequest struct {
	Text  string `mapstructure:"text"`
	Count int    `mapstructure:"count"`
}

func (r echoRequest) Validate() error {
	if r.Text == "" {
		return errors.New("text is required")
	}
	return nil
}

func newEchoTool(name string) Tool {
	return New(Declaration{
		Name:        name,
		Description: "echoes text",
		Parameters:  Object(map[string]string{"text": "text to echo"}, "text"),
	}, func(ctx context.Context, req echoRequest) (string, error) {
		if req.Text == "boom" {
			return "", errors.New("exploded")
		}
		return req.Text, nil
	})
}

func TestNewRegistry_RejectsDuplicates(t *testing.T) {
	_, err := NewRegistry(newEchoTool("echo"), newEchoTool("echo"))

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDuplicateTool)
}

func TestDeclarations_SortedByName(t *testing.T) {
	r, err := NewRegistry(newEchoTool("zeta"), newEchoTool("alpha"), newEchoTool("mid"))
	require.NoError(t, err)

	decls := r.Declarations()

	require.Len(t, decls, 3)
	assert.Equal(t, "alpha", decls[0].Name)
	assert.Equal(t, "mid", decls[1].Name)
	assert.Equal(t, "zeta", decls[2].Name)
}

func TestExecute(t *testing.T) {
	r, err := NewRegistry(newEchoTool("echo"))
	require.NoError(t, err)

	tests := []struct {
		name        string
		tool        string
		args        map[string]any
		wantContent string
		wantError   bool
	}{
		{"success", "echo", map[string]any{"text": "hi"}, "hi", false},
		{"weakly typed args", "echo", map[string]any{"text": "hi", "count": "3"}, "hi", false},
		{"unknown tool", "nope", nil, "Error: tool \"nope\" does not exist.\n\nAvailable tools:\necho", true},
		{"validation failure", "echo", map[string]any{}, "Error: invalid arguments for tool \"echo\": text is required", true},
		{"executor failure", "echo", map[string]any{"text": "boom"}, "Error: exploded", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := r.Execute(context.Background(), tt.tool, tt.args)

			require.NoError(t, err)
			assert.Equal(t, tt.wantContent, res.Content)
			assert.Equal(t, tt.wantError, res.IsError)
		})
	}
}

func TestExecute_CancelledContextReturnsError(t *testing.T) {
	r, err := NewRegistry(New(Declaration{Name: "slow"}, func(ctx context.Context, req struct{}) (string, error) {
		return "", ctx.Err()
	}))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = r.Execute(ctx, "slow", nil)

	assert.ErrorIs(t, err, context.Canceled)
}

func TestExecute_AbortReturnsCause(t *testing.T) {
	sentinel := errors.New("stop the turn")
	fatal := New(Declaration{Name: "fatal"}, func(ctx context.Context, req struct{}) (string, error) {
		return "", Abort(sentinel)
	})
	reg, err := NewRegistry(fatal)
	require.NoError(t, err)

	_, err = reg.Execute(context.Background(), "fatal", nil)

	assert.ErrorIs(t, err, sentinel)
	assert.Nil(t, Abort(nil))
}

func TestWith_ReturnsNewRegistry(t *testing.T) {
	base, err := NewRegistry(newEchoTool("echo"))
	require.NoError(t, err)

	extended, err := base.With(newEchoTool("call_searcher"))
	require.NoError(t, err)

	assert.Equal(t, []string{"echo"}, base.Names())
	assert.Equal(t, []string{"call_searcher", "echo"}, extended.Names())

	_, err = base.With(newEchoTool("echo"))
	assert.ErrorIs(t, err, ErrDuplicateTool)
}

func TestNilRegistry(t *testing.T) {
	var r *Registry

	assert.Equal(t, 0, r.Len())
	assert.Empty(t, r.Declarations())

	extended, err := r.With(newEchoTool("echo"))
	require.NoError(t, err)
	assert.Equal(t, 1, extended.Len())
}

func TestErrorText_DoesNotDoublePrefix(t *testing.T) {
	assert.Equal(t, "Error: Content not found in a.txt", ErrorText(errors.New("Error: Content not found in a.txt")))
	assert.Equal(t, "Error: boom", ErrorText(errors.New("boom")))
}
