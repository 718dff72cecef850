// Package ui implements the terminal the agents talk to: line input and
// menus through Bubble Tea, styled notices and markdown answers.
package ui

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Cyclone1070/projectgen/internal/agent"
	"github.com/Cyclone1070/projectgen/internal/config"
	"github.com/Cyclone1070/projectgen/internal/permission"
	"github.com/Cyclone1070/projectgen/internal/ui/services"
	"github.com/Cyclone1070/projectgen/internal/ui/views"
)

// Options configures a Console. Zero values use the process's stdin and
// stdout.
type Options struct {
	In       io.Reader
	Out      io.Writer
	Renderer services.MarkdownRenderer
	Width    int
}

// Console is an agent.Console and a permission.Prompter on a terminal.
type Console struct {
	in       io.Reader
	out      io.Writer
	renderer services.MarkdownRenderer
	width    int

	// programs serialises interactive prompts.
	programs sync.Mutex

	mu       sync.Mutex
	midLine  bool
	streamed bool
}

var (
	_ agent.Console       = (*Console)(nil)
	_ permission.Prompter = (*Console)(nil)
)

func NewConsole(opts Options) *Console {
	c := &Console{
		in:       opts.In,
		out:      opts.Out,
		renderer: opts.Renderer,
		width:    opts.Width,
	}
	if c.in == nil {
		c.in = os.Stdin
	}
	if c.out == nil {
		c.out = os.Stdout
	}
	if c.width <= 0 {
		c.width = 100
	}
	return c
}

// NewConsoleFromConfig builds the console for cfg over in and out. Nil
// streams fall back to the process's stdin and stdout.
func NewConsoleFromConfig(cfg config.UIConfig, in io.Reader, out io.Writer) *Console {
	opts := Options{In: in, Out: out, Width: cfg.Width}
	if cfg.Markdown {
		opts.Renderer = services.NewGlamourRenderer()
	}
	return NewConsole(opts)
}

// ReadInput reads one line. Ctrl+C and Esc return context.Canceled, and
// Ctrl+D on an empty line returns io.EOF.
func (c *Console) ReadInput(ctx context.Context, prompt string) (string, error) {
	final, err := c.run(ctx, newInputModel(prompt, c.width))
	if err != nil {
		return "", err
	}
	m := final.(inputModel)
	switch {
	case m.cancelled:
		return "", context.Canceled
	case m.eof:
		return "", io.EOF
	}
	return m.Value(), nil
}

// Select shows a menu and returns the chosen index.
func (c *Console) Select(ctx context.Context, prompt string, options []string) (int, error) {
	return c.selectFrom(ctx, prompt, options, 0)
}

// Confirm asks a yes/no question with def preselected.
func (c *Console) Confirm(ctx context.Context, question string, def bool) (bool, error) {
	cursor := 1
	if def {
		cursor = 0
	}
	i, err := c.selectFrom(ctx, question, []string{"Yes", "No"}, cursor)
	if err != nil {
		return false, err
	}
	return i == 0, nil
}

func (c *Console) selectFrom(ctx context.Context, title string, options []string, cursor int) (int, error) {
	if len(options) == 0 {
		return 0, fmt.Errorf("select %q: no options", title)
	}
	final, err := c.run(ctx, newMenuModel(title, options, cursor))
	if err != nil {
		return 0, err
	}
	m := final.(menuModel)
	if m.cancelled {
		return 0, context.Canceled
	}
	return m.chosen, nil
}

func (c *Console) run(ctx context.Context, m tea.Model) (tea.Model, error) {
	c.programs.Lock()
	defer c.programs.Unlock()
	c.endLine()

	p := tea.NewProgram(m,
		tea.WithContext(ctx),
		tea.WithInput(c.in),
		tea.WithOutput(c.out),
	)
	final, err := p.Run()
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}
	if err != nil {
		return nil, fmt.Errorf("terminal: %w", err)
	}
	return final, nil
}

func (c *Console) Info(msg string)  { c.println(views.RenderNotice(views.LevelInfo, msg)) }
func (c *Console) Warn(msg string)  { c.println(views.RenderNotice(views.LevelWarn, msg)) }
func (c *Console) Error(msg string) { c.println(views.RenderNotice(views.LevelError, msg)) }

func (c *Console) Status(msg string) { c.println(views.RenderStatus(msg)) }

// Answer prints a final answer, rendered as markdown when a renderer is
// set.
func (c *Console) Answer(text string) {
	c.println(services.RenderMarkdown(text, c.width, c.renderer))
}

func (c *Console) ClearScreen() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.midLine = false
	fmt.Fprint(c.out, "\033[H\033[2J")
}

// Event renders turn progress. Streamed text is written as it arrives and
// the line is closed when the message completes. Unstreamed intermediary
// messages are shown without their thinking block.
func (c *Console) Event(ev agent.Event) {
	switch e := ev.(type) {
	case agent.TextEvent:
		c.write(e.Text)
	case agent.MessageEvent:
		c.mu.Lock()
		streamed := c.streamed
		c.streamed = false
		c.mu.Unlock()
		if streamed {
			c.endLine()
			return
		}
		if !e.Final && strings.TrimSpace(e.Text) != "" {
			c.println(views.RenderThought(agent.StripThinking(e.Text)))
		}
	case agent.ToolStartEvent:
		c.println(views.RenderToolStart(permission.Describe(e.Name, e.Args)))
	case agent.ToolEndEvent:
		c.println(views.RenderToolEnd(e.Name, e.Result.IsError, e.Result.Content))
	case agent.RetryEvent:
		c.Warn(fmt.Sprintf("Malformed tool call, asking the model to retry (step %d)", e.Step))
	}
}

func (c *Console) write(s string) {
	if s == "" {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprint(c.out, s)
	c.streamed = true
	c.midLine = !strings.HasSuffix(s, "\n")
}

func (c *Console) println(s string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.midLine {
		fmt.Fprintln(c.out)
		c.midLine = false
	}
	fmt.Fprintln(c.out, s)
}

func (c *Console) endLine() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.midLine {
		fmt.Fprintln(c.out)
		c.midLine = false
	}
}
