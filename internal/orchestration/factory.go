// Package orchestration builds the project generation agents and chains
// them into the brainstorm, search and code generation workflow.
package orchestration

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/Cyclone1070/projectgen/internal/agent"
	"github.com/Cyclone1070/projectgen/internal/config"
	"github.com/Cyclone1070/projectgen/internal/permission"
	"github.com/Cyclone1070/projectgen/internal/prompts"
	"github.com/Cyclone1070/projectgen/internal/provider"
	"github.com/Cyclone1070/projectgen/internal/tool"
	"github.com/Cyclone1070/projectgen/internal/tool/file"
	"github.com/Cyclone1070/projectgen/internal/tool/shell"
	"github.com/Cyclone1070/projectgen/internal/tool/web"
)

var (
	ErrMissingField = errors.New("missing required config field")
	ErrUnknownKind  = errors.New("unknown agent type")
)

// Connector opens a provider for model, authenticated with apiKey.
type Connector func(ctx context.Context, model, apiKey string) (provider.Provider, error)

// FactoryConfig holds the collaborators shared by every agent a Factory
// creates.
type FactoryConfig struct {
	Config *config.Config
	// Workspace is where code_gen agents read, write and run code.
	Workspace *file.Workspace
	// Searcher backs the web_searcher agent.
	Searcher *web.Searcher
	Gate     *permission.Gate
	Policy   *agent.Policy
	Store    *agent.ThreadStore
	Connect  Connector
	// Getenv resolves per-agent api_key_env overrides. Defaults to
	// os.Getenv.
	Getenv func(string) string
	Logger *slog.Logger
}

// Factory creates agents by kind.
type Factory struct {
	cfg      FactoryConfig
	codeRoot []tool.Tool
}

func NewFactory(cfg FactoryConfig) (*Factory, error) {
	if cfg.Config == nil {
		cfg.Config = config.DefaultConfig()
	}
	if cfg.Connect == nil {
		return nil, fmt.Errorf("%w: connector", ErrMissingField)
	}
	if cfg.Gate == nil {
		return nil, fmt.Errorf("%w: permission gate", ErrMissingField)
	}
	if cfg.Store == nil {
		cfg.Store = agent.NewThreadStore()
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if cfg.Getenv == nil {
		cfg.Getenv = os.Getenv
	}

	f := &Factory{cfg: cfg}
	if cfg.Workspace != nil {
		files, err := file.New(cfg.Workspace, cfg.Config.Tools)
		if err != nil {
			return nil, fmt.Errorf("file tools: %w", err)
		}
		f.codeRoot = append(files.All(), shell.New(cfg.Workspace.Root(), cfg.Config.Tools).All()...)
	}
	return f, nil
}

// agentSettings is what one agent kind is built with once config
// overrides are applied.
type agentSettings struct {
	model       string
	apiKey      string
	temperature float32
	system      string
}

// settings applies the agents.<kind> config section over the global model,
// key, temperature and built-in prompt.
func (f *Factory) settings(kind prompts.Kind, model, apiKey string) (agentSettings, error) {
	system, err := prompts.System(kind)
	if err != nil {
		return agentSettings{}, fmt.Errorf("%w: %s", ErrUnknownKind, kind)
	}
	s := agentSettings{
		model:       model,
		apiKey:      apiKey,
		temperature: f.cfg.Config.Agent.Temperature,
		system:      system,
	}

	if o, ok := f.cfg.Config.Agents[string(kind)]; ok {
		if o.Model != "" {
			s.model = o.Model
		}
		if o.APIKeyEnv != "" {
			s.apiKey = f.cfg.Getenv(o.APIKeyEnv)
			if s.apiKey == "" {
				return agentSettings{}, fmt.Errorf("%w: api key for %s (%s is not set)", ErrMissingField, kind, o.APIKeyEnv)
			}
		}
		if o.Temperature != nil {
			s.temperature = *o.Temperature
		}
		if o.SystemPrompt != "" {
			s.system = o.SystemPrompt
		}
	}

	if s.model == "" {
		return agentSettings{}, fmt.Errorf("%w: model name", ErrMissingField)
	}
	if s.apiKey == "" {
		return agentSettings{}, fmt.Errorf("%w: api key", ErrMissingField)
	}
	return s, nil
}

// Create builds an agent of the given kind. model and apiKey apply unless
// the agents.<kind> config section overrides them; after overrides both
// are required.
func (f *Factory) Create(ctx context.Context, kind prompts.Kind, model, apiKey string) (*agent.Agent, error) {
	s, err := f.settings(kind, model, apiKey)
	if err != nil {
		return nil, err
	}
	tools, err := f.tools(kind)
	if err != nil {
		return nil, err
	}
	reg, err := tool.NewRegistry(tools...)
	if err != nil {
		return nil, fmt.Errorf("agent %s: %w", kind, err)
	}

	p, err := f.cfg.Connect(ctx, s.model, s.apiKey)
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", s.model, err)
	}

	f.cfg.Logger.Debug("agent created", "kind", kind, "model", s.model, "tools", reg.Names())
	return agent.New(agent.Config{
		Name:         string(kind),
		SystemPrompt: s.system,
		Provider:     p,
		Tools:        reg,
		Gate:         f.cfg.Gate,
		Policy:       f.cfg.Policy,
		StepBudget:   f.cfg.Config.Agent.StepBudget,
		Temperature:  s.temperature,
		Store:        f.cfg.Store,
		Logger:       f.cfg.Logger,
	})
}

// Reconnect opens a provider for a kind's agent on a different model,
// authenticated the way Create would authenticate that kind.
func (f *Factory) Reconnect(ctx context.Context, kind prompts.Kind, model, apiKey string) (provider.Provider, error) {
	s, err := f.settings(kind, model, apiKey)
	if err != nil {
		return nil, err
	}
	return f.cfg.Connect(ctx, model, s.apiKey)
}

func (f *Factory) tools(kind prompts.Kind) ([]tool.Tool, error) {
	switch kind {
	case prompts.WebSearcher:
		if f.cfg.Searcher == nil {
			return nil, fmt.Errorf("agent %s: %w", kind, web.ErrNotConfigured)
		}
		return []tool.Tool{f.cfg.Searcher.Tool()}, nil
	case prompts.CodeGen:
		if f.codeRoot == nil {
			return nil, fmt.Errorf("%w: workspace for %s", ErrMissingField, kind)
		}
		return f.codeRoot, nil
	default:
		return nil, nil
	}
}
