package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/Cyclone1070/projectgen/internal/agent"
	"github.com/Cyclone1070/projectgen/internal/config"
	"github.com/Cyclone1070/projectgen/internal/orchestration"
	"github.com/Cyclone1070/projectgen/internal/permission"
	"github.com/Cyclone1070/projectgen/internal/prompts"
	"github.com/Cyclone1070/projectgen/internal/provider"
	"github.com/Cyclone1070/projectgen/internal/provider/gemini"
	"github.com/Cyclone1070/projectgen/internal/provider/openai"
	"github.com/Cyclone1070/projectgen/internal/tool/file"
	"github.com/Cyclone1070/projectgen/internal/tool/web"
	"github.com/Cyclone1070/projectgen/internal/ui"
)

// app holds everything a command needs once flags and config are resolved.
type app struct {
	cfg     *config.Config
	logger  *slog.Logger
	console *ui.Console
	factory *orchestration.Factory
	model   string
	apiKey  string
}

// newApp resolves config and builds the shared collaborators. The console
// reads from in and writes to out.
func newApp(ctx context.Context, flags *globalFlags, in io.Reader, out io.Writer) (*app, error) {
	cfg, err := loadConfig(flags)
	if err != nil {
		return nil, err
	}
	logger := newLogger(cfg.UI.DevMode)

	apiKey := os.Getenv(cfg.Provider.APIKeyEnv)
	if apiKey == "" {
		return nil, fmt.Errorf("%s environment variable is required", cfg.Provider.APIKeyEnv)
	}

	root, err := file.CanonicaliseRoot(flags.workdir)
	if err != nil {
		return nil, err
	}
	ws, err := file.NewWorkspace(root, cfg.Tools.ProtectedPaths...)
	if err != nil {
		return nil, err
	}

	console := ui.NewConsoleFromConfig(cfg.UI, in, out)
	state := permission.NewState(cfg.Policy.Allow...)
	if flags.yes {
		state.AllowAll()
	}
	factory, err := orchestration.NewFactory(orchestration.FactoryConfig{
		Config:    cfg,
		Workspace: ws,
		Searcher: web.New(cfg.Search,
			os.Getenv(cfg.Search.APIKeyEnv), os.Getenv(cfg.Search.EngineIDEnv), nil),
		Gate:    permission.NewGate(state, console, logger),
		Policy:  agent.NewPolicy(console, cfg.UI.DevMode, logger),
		Connect: connector(cfg.Provider),
		Logger:  logger,
	})
	if err != nil {
		return nil, err
	}

	logger.Debug("workspace ready", "root", ws.Root(), "provider", cfg.Provider.Name, "model", cfg.Provider.Model)
	return &app{
		cfg:     cfg,
		logger:  logger,
		console: console,
		factory: factory,
		model:   cfg.Provider.Model,
		apiKey:  apiKey,
	}, nil
}

// loadConfig merges the config file with flag overrides.
func loadConfig(flags *globalFlags) (*config.Config, error) {
	loader := config.NewLoader()
	var (
		cfg *config.Config
		err error
	)
	if flags.configPath != "" {
		cfg, err = loader.LoadFrom(flags.configPath)
	} else {
		cfg, err = loader.Load()
	}
	if err != nil {
		return nil, err
	}

	if flags.model != "" {
		cfg.Provider.Model = flags.model
	}
	if flags.providerName != "" {
		cfg.Provider.Name = flags.providerName
	}
	if flags.dev {
		cfg.UI.DevMode = true
	}
	if flags.noStream {
		cfg.Agent.Stream = false
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLogger(dev bool) *slog.Logger {
	level := slog.LevelWarn
	if dev {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// connector opens providers of the configured kind.
func connector(cfg config.ProviderConfig) orchestration.Connector {
	return func(ctx context.Context, model, apiKey string) (provider.Provider, error) {
		switch cfg.Name {
		case "gemini":
			client, err := gemini.NewRealGeminiClient(ctx, apiKey)
			if err != nil {
				return nil, fmt.Errorf("create Gemini client: %w", err)
			}
			return gemini.New(client, model)
		case "openai", "":
			return openai.New(openai.NewClient(apiKey, cfg.BaseURL), model)
		default:
			return nil, fmt.Errorf("unknown provider %q", cfg.Name)
		}
	}
}

// coder is the code generation agent with web search attached.
func (a *app) coder(ctx context.Context) (*agent.Agent, error) {
	coder, err := a.factory.Create(ctx, prompts.CodeGen, a.model, a.apiKey)
	if err != nil {
		return nil, err
	}
	searcher, err := a.factory.Create(ctx, prompts.WebSearcher, a.model, a.apiKey)
	if err != nil {
		return nil, err
	}
	return orchestration.IntegrateWebSearch(coder, searcher)
}

func (a *app) invokeOptions() agent.InvokeOptions {
	return agent.InvokeOptions{
		IncludeThinking: a.cfg.Agent.IncludeThinking,
		Stream:          a.cfg.Agent.Stream,
		OnEvent:         a.console.Event,
	}
}

func (a *app) session(ctx context.Context, ag *agent.Agent, threadID string) *agent.Session {
	kind := prompts.Kind(ag.Name())
	opts := a.invokeOptions()
	opts.ThreadID = threadID
	return agent.NewSession(agent.SessionConfig{
		Agent:   ag,
		Console: a.console,
		Build: func(model string) (provider.Provider, error) {
			return a.factory.Reconnect(ctx, kind, model, a.apiKey)
		},
		Options: opts,
		Logger:  a.logger,
	})
}
