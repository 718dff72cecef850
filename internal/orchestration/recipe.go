package orchestration

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/Cyclone1070/projectgen/internal/agent"
	"github.com/Cyclone1070/projectgen/internal/prompts"
)

const brainstormPrompt = "Analyze the project description and extract key ideas, technical details, and potential features.\n" +
	"The project description is as follows:\n"

var ErrEmptyIdea = errors.New("project description is empty")

// Recipe turns a project description into code: the brainstormer expands
// the idea, then the coder builds it with the brainstorm appended to the
// prompt.
type Recipe struct {
	Brainstormer *agent.Agent
	Coder        *agent.Agent
	// Reporter announces retries of the brainstorm phase and its final
	// failure.
	Reporter   agent.Reporter
	MaxRetries int
	Options    agent.InvokeOptions
	Logger     *slog.Logger
}

// Outcome is what a completed Run produced.
type Outcome struct {
	Brainstorm string
	Prompt     string
	Answer     string
	// ThreadID is the coder's conversation, for follow-up turns.
	ThreadID string
}

// NewRecipe creates the three agents with f and wires the web searcher
// into both the brainstormer and the coder.
func NewRecipe(ctx context.Context, f *Factory, model, apiKey string) (*Recipe, error) {
	brainstormer, err := f.Create(ctx, prompts.Brainstormer, model, apiKey)
	if err != nil {
		return nil, err
	}
	searcher, err := f.Create(ctx, prompts.WebSearcher, model, apiKey)
	if err != nil {
		return nil, err
	}
	coder, err := f.Create(ctx, prompts.CodeGen, model, apiKey)
	if err != nil {
		return nil, err
	}
	if brainstormer, err = IntegrateWebSearch(brainstormer, searcher); err != nil {
		return nil, err
	}
	if coder, err = IntegrateWebSearch(coder, searcher); err != nil {
		return nil, err
	}
	return &Recipe{
		Brainstormer: brainstormer,
		Coder:        coder,
		MaxRetries:   f.cfg.Config.Agent.MaxRetries,
		Logger:       f.cfg.Logger,
	}, nil
}

// Run executes both phases. Apart from ErrEmptyIdea and cancellation,
// every error Run returns has already been shown to the user: brainstorm
// failures through Reporter, code generation failures through the coder's
// policy.
func (r *Recipe) Run(ctx context.Context, idea string) (*Outcome, error) {
	idea = strings.TrimSpace(idea)
	if idea == "" {
		return nil, ErrEmptyIdea
	}
	logger := r.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	opts := r.Options
	opts.ThreadID = ""
	brainstorm, err := agent.WithRetry(ctx, r.MaxRetries, r.Reporter, func(ctx context.Context) (string, error) {
		return r.Brainstormer.InvokeOrError(ctx, brainstormPrompt+idea, opts)
	})
	if err != nil {
		return nil, fmt.Errorf("brainstorm: %w", err)
	}
	logger.Debug("brainstorm finished", "chars", len(brainstorm))

	prompt := idea + "\n\n" + brainstorm
	opts.ThreadID = agent.NewThreadID()
	res := r.Coder.Invoke(ctx, prompt, opts)
	if res.Failure != nil {
		return nil, fmt.Errorf("code generation: %w", res.Failure)
	}
	logger.Debug("code generation finished", "thread", res.ThreadID)

	return &Outcome{
		Brainstorm: brainstorm,
		Prompt:     prompt,
		Answer:     res.Answer.Text,
		ThreadID:   res.ThreadID,
	}, nil
}
