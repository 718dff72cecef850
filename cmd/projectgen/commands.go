package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Cyclone1070/projectgen/internal/agent"
	"github.com/Cyclone1070/projectgen/internal/orchestration"
	"github.com/Cyclone1070/projectgen/internal/prompts"
)

// reportedError is a failure the console has already shown. main exits
// non-zero without printing it again.
type reportedError struct {
	err error
}

func (e *reportedError) Error() string { return e.err.Error() }
func (e *reportedError) Unwrap() error { return e.err }

type globalFlags struct {
	configPath   string
	model        string
	providerName string
	workdir      string
	dev          bool
	yes          bool
	noStream     bool
}

// buildChatCmd creates the "chat" command: an interactive session with the
// coding agent.
func buildChatCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "chat [prompt]",
		Short: "Chat with the coding agent",
		Example: `  projectgen chat
  projectgen chat -w ./todo "add a README"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), flags, cmd.InOrStdin(), cmd.OutOrStdout())
			if err != nil {
				return err
			}
			coder, err := a.coder(cmd.Context())
			if err != nil {
				return err
			}
			return a.session(cmd.Context(), coder, "").Start(cmd.Context(), strings.Join(args, " "))
		},
	}
}

// buildRunCmd creates the "run" command: brainstorm, generate, then keep
// chatting about the result.
func buildRunCmd(flags *globalFlags) *cobra.Command {
	var noChat bool

	cmd := &cobra.Command{
		Use:   "run <idea>",
		Short: "Brainstorm an idea and build it",
		Args:  cobra.MinimumNArgs(1),
		Example: `  projectgen run -w ./snake "a terminal snake game in Python"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx, flags, cmd.InOrStdin(), cmd.OutOrStdout())
			if err != nil {
				return err
			}
			recipe, err := orchestration.NewRecipe(ctx, a.factory, a.model, a.apiKey)
			if err != nil {
				return err
			}
			recipe.Reporter = a.console
			recipe.Options = a.invokeOptions()

			a.console.Status("Brainstorming...")
			out, err := recipe.Run(ctx, strings.Join(args, " "))
			if err != nil {
				if errors.Is(err, orchestration.ErrEmptyIdea) {
					return err
				}
				a.logger.Debug("run failed", "error", err)
				return &reportedError{err: err}
			}
			if !recipe.Options.Stream {
				a.console.Answer(out.Answer)
			}
			if noChat {
				return nil
			}
			return a.session(ctx, recipe.Coder, out.ThreadID).Start(ctx, "")
		},
	}
	cmd.Flags().BoolVar(&noChat, "no-chat", false, "Exit after the project is generated")
	return cmd
}

// buildInvokeCmd creates the "invoke" command: one turn with any agent.
func buildInvokeCmd(flags *globalFlags) *cobra.Command {
	var (
		kind            string
		includeThinking bool
		intermediary    bool
	)

	cmd := &cobra.Command{
		Use:   "invoke <prompt>",
		Short: "Send a single prompt to one agent",
		Args:  cobra.MinimumNArgs(1),
		Example: `  projectgen invoke --agent brainstormer "a recipe sharing site"
  projectgen invoke --agent web_searcher "latest stable Go release"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx, flags, cmd.InOrStdin(), cmd.OutOrStdout())
			if err != nil {
				return err
			}

			var target *agent.Agent
			if prompts.Kind(kind) == prompts.CodeGen {
				target, err = a.coder(ctx)
			} else {
				target, err = a.factory.Create(ctx, prompts.Kind(kind), a.model, a.apiKey)
			}
			if err != nil {
				return err
			}

			opts := a.invokeOptions()
			opts.IncludeThinking = includeThinking
			opts.IntermediaryChunks = intermediary
			res := target.Invoke(ctx, strings.Join(args, " "), opts)
			if res.Failure != nil {
				return &reportedError{err: res.Failure}
			}
			if !opts.Stream {
				a.console.Answer(res.Text())
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&kind, "agent", "a", string(prompts.CodeGen),
		fmt.Sprintf("Agent to invoke: %s", kindNames()))
	cmd.Flags().BoolVar(&includeThinking, "thinking", false, "Keep the model's thinking block in the answer")
	cmd.Flags().BoolVar(&intermediary, "intermediary", false, "Also show the model's messages between tool calls")
	return cmd
}

func kindNames() string {
	var names []string
	for _, k := range prompts.Kinds() {
		names = append(names, string(k))
	}
	return strings.Join(names, ", ")
}
