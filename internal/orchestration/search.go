package orchestration

import (
	"context"
	"errors"

	"github.com/Cyclone1070/projectgen/internal/agent"
	"github.com/Cyclone1070/projectgen/internal/permission"
	"github.com/Cyclone1070/projectgen/internal/tool"
)

// SearcherToolName is the tool that delegates a question to the web
// searcher agent.
const SearcherToolName = "call_searcher"

const searcherDescription = "Ask the assistant to get reliable info from the web. " +
	"The assistant can choose the best queries for your issue to search for. " +
	"You just need to provide a description of the problem you are facing. " +
	"You can also provide a direct query for the assistant to use if you know it. " +
	"Feel free to prompt it as you wish, but keep it concise."

type searcherRequest struct {
	Query string `mapstructure:"query"`
}

func (r searcherRequest) Validate() error {
	if r.Query == "" {
		return errors.New("query is required")
	}
	return nil
}

// SearcherTool wraps searcher as a tool. Each call runs on a fresh thread
// without events. A permission denial inside the searcher ends the
// caller's turn too; any other failure is returned to the caller's model
// as a tool error.
func SearcherTool(searcher *agent.Agent) tool.Tool {
	return tool.New(tool.Declaration{
		Name:        SearcherToolName,
		Description: searcherDescription,
		Parameters: tool.Object(map[string]string{
			"query": "The query or description of the problem to search for.",
		}, "query"),
	}, func(ctx context.Context, req searcherRequest) (string, error) {
		answer, err := searcher.InvokeOrError(ctx, req.Query, agent.InvokeOptions{Quiet: true})
		if err != nil {
			if errors.Is(err, permission.ErrPermissionDenied) {
				return "", tool.Abort(err)
			}
			return "", err
		}
		return answer, nil
	})
}

// IntegrateWebSearch returns base extended with a call_searcher tool
// backed by searcher. base is left untouched.
func IntegrateWebSearch(base, searcher *agent.Agent) (*agent.Agent, error) {
	return base.WithTools(SearcherTool(searcher))
}
