package agent

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/Cyclone1070/projectgen/internal/provider"
)

// Console is the terminal the interactive session talks to.
type Console interface {
	Reporter
	ReadInput(ctx context.Context, prompt string) (string, error)
	Status(msg string)
	Answer(text string)
	ClearScreen()
	// Event renders turn progress.
	Event(ev Event)
}

const helpText = `Available commands:
  /help, /h                      Show this help
  /quit, /exit, /q               End the session
  /clear                         Start a new conversation
  /cls, /clearterm, /clearscreen Clear the terminal
  /model                         Show the current model
  /model change <name>           Switch to another model`

const (
	goodbyeText        = "Goodbye!"
	interruptedText    = "Session interrupted. Goodbye!"
	unknownCommandText = "Unknown command. Type /help for instructions."
)

// SessionConfig configures a Session.
type SessionConfig struct {
	Agent   *Agent
	Console Console
	// Build creates a provider for /model change. Nil disables it.
	Build   provider.Builder
	Options InvokeOptions
	Logger  *slog.Logger
}

// Session is an interactive prompt loop around one agent. Slash commands
// are handled here and never reach the model.
type Session struct {
	agent    *Agent
	console  Console
	build    provider.Builder
	opts     InvokeOptions
	threadID string
	logger   *slog.Logger
}

func NewSession(cfg SessionConfig) *Session {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	opts := cfg.Options
	if opts.OnEvent == nil && cfg.Console != nil {
		opts.OnEvent = cfg.Console.Event
	}
	threadID := opts.ThreadID
	if threadID == "" {
		threadID = NewThreadID()
	}
	return &Session{
		agent:    cfg.Agent,
		console:  cfg.Console,
		build:    cfg.Build,
		opts:     opts,
		threadID: threadID,
		logger:   logger,
	}
}

// Agent returns the agent currently serving the session.
func (s *Session) Agent() *Agent { return s.agent }

func (s *Session) ThreadID() string { return s.threadID }

// Start runs the loop until the user quits, a turn fails, or ctx is
// cancelled. A non-empty initialPrompt is sent before any input is read.
func (s *Session) Start(ctx context.Context, initialPrompt string) error {
	s.console.Status(fmt.Sprintf("Chatting with %s (%s). Type /help for commands.", s.agent.Name(), s.agent.Model()))

	prompt := strings.TrimSpace(initialPrompt)
	for {
		if prompt == "" {
			in, err := s.console.ReadInput(ctx, "> ")
			if err != nil {
				if errors.Is(err, context.Canceled) || errors.Is(err, io.EOF) || ctx.Err() != nil {
					s.console.Info(interruptedText)
					return nil
				}
				return fmt.Errorf("read input: %w", err)
			}
			prompt = strings.TrimSpace(in)
			if prompt == "" {
				continue
			}
		}

		if strings.HasPrefix(prompt, "/") {
			quit := s.command(prompt)
			prompt = ""
			if quit {
				return nil
			}
			continue
		}

		opts := s.opts
		opts.ThreadID = s.threadID
		res := s.agent.Invoke(ctx, prompt, opts)
		prompt = ""

		if res.Failure != nil {
			if ctx.Err() != nil || errors.Is(res.Failure.Err, context.Canceled) {
				s.console.Info(interruptedText)
				return nil
			}
			s.logger.Info("session ended by failure", "kind", res.Failure.Kind, "thread", s.threadID)
			s.threadID = NewThreadID()
			return nil
		}
		if !opts.Stream || opts.Quiet {
			s.console.Answer(res.Answer.Text)
		}
	}
}

// command handles a slash command and reports whether the session ends.
func (s *Session) command(line string) bool {
	fields := strings.Fields(line)
	switch fields[0] {
	case "/quit", "/exit", "/q":
		s.console.Info(goodbyeText)
		return true
	case "/clear":
		s.agent.Store().Delete(s.threadID)
		s.threadID = NewThreadID()
		s.console.Info("Conversation history cleared.")
	case "/cls", "/clearterm", "/clearscreen":
		s.console.ClearScreen()
	case "/help", "/h":
		s.console.Info(helpText)
	case "/model":
		s.modelCommand(fields[1:])
	default:
		s.console.Error(unknownCommandText)
	}
	return false
}

func (s *Session) modelCommand(args []string) {
	if len(args) == 0 {
		s.console.Info("Current model: " + s.agent.Model())
		return
	}
	if args[0] != "change" {
		s.console.Error("Unknown model command. Type /help for instructions.")
		return
	}
	if len(args) < 2 {
		s.console.Error("Please specify a model to change to.")
		return
	}
	if s.build == nil {
		s.console.Error("Changing models is not supported in this session.")
		return
	}

	name := args[1]
	p, err := s.build(name)
	if err != nil {
		s.console.Error(fmt.Sprintf("Failed to change model: %v", err))
		return
	}
	next, err := s.agent.WithProvider(p)
	if err != nil {
		s.console.Error(fmt.Sprintf("Failed to change model: %v", err))
		return
	}
	s.agent = next
	s.logger.Debug("model changed", "model", name)
	s.console.Info("Model changed to " + name)
}
