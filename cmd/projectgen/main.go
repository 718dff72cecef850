// Package main provides the projectgen command: agents that turn a project
// idea into a working codebase inside a local directory.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := buildRootCmd().ExecuteContext(ctx)
	stop()
	os.Exit(exitCode(err, os.Stderr))
}

// exitCode prints err to w unless the console has already shown it.
func exitCode(err error, w io.Writer) int {
	if err == nil {
		return 0
	}
	var reported *reportedError
	if !errors.As(err, &reported) {
		fmt.Fprintln(w, "Error:", err)
	}
	return 1
}

// buildRootCmd creates the root command with all subcommands attached.
func buildRootCmd() *cobra.Command {
	flags := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:   "projectgen",
		Short: "Generate projects with a team of LLM agents",
		Long: `projectgen brainstorms a project idea, then lets a coding agent build it
in a local directory. Every tool call asks for permission first.

The API key is read from the environment variable named in the config
(CEREBRAS_API_KEY by default).`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&flags.configPath, "config", "c", "", "Path to a JSON or YAML config file (default ~/.config/projectgen/config.json)")
	pf.StringVarP(&flags.model, "model", "m", "", "Model name, overriding the config")
	pf.StringVar(&flags.providerName, "provider", "", `Provider: "openai" for any OpenAI-compatible API, or "gemini"`)
	pf.StringVarP(&flags.workdir, "workdir", "w", ".", "Project directory the agents work in")
	pf.BoolVar(&flags.dev, "dev", false, "Debug logging and full error chains")
	pf.BoolVarP(&flags.yes, "yes", "y", false, "Allow every tool call without asking")
	pf.BoolVar(&flags.noStream, "no-stream", false, "Print answers when complete instead of streaming")

	rootCmd.AddCommand(
		buildChatCmd(flags),
		buildRunCmd(flags),
		buildInvokeCmd(flags),
	)
	return rootCmd
}
