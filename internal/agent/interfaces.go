package agent

import (
	"context"

	"github.com/Cyclone1070/projectgen/internal/tool"
)

// toolExecutor is the part of the tool registry the turn loop needs.
type toolExecutor interface {
	Declarations() []tool.Declaration
	Execute(ctx context.Context, name string, args map[string]any) (tool.Result, error)
}

// authorizer decides whether a tool call may run.
type authorizer interface {
	Authorize(ctx context.Context, tool string, args map[string]any) error
}
