package shell

import (
	"context"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/Cyclone1070/projectgen/internal/config"
	"github.com/Cyclone1070/projectgen/internal/tool"
)

// Only operations that wipe filesystems or disks are refused. Everything
// else is left to the permission prompt.
var (
	commandBlocklist = []*regexp.Regexp{
		regexp.MustCompile(`(?i)^\s*rm\s+-rf\s+/\s*$`),
		regexp.MustCompile(`(?i)^\s*dd\s+.*of=/dev/sd[a-z]\s*$`),
		regexp.MustCompile(`(?i)^\s*mkfs(\.\w+)?\s+/dev/sd[a-z]\s*$`),
		regexp.MustCompile(`(?i)^\s*fdisk\s+/dev/sd[a-z]\s*$`),
		regexp.MustCompile(`:\(\)\s*\{.*\}`),
	}
	codeBlocklist = []*regexp.Regexp{
		regexp.MustCompile(`(?i)rm\s+-rf\s+/`),
		regexp.MustCompile(`(?i)format\s+c:`),
		regexp.MustCompile(`(?i)mkfs\s+/dev/`),
	}
)

// Tools implements execute_command and execute_code.
type Tools struct {
	exec    *Executor
	dir     string
	timeout time.Duration
	python  string
}

// New returns the execution tools. Processes run in dir.
func New(dir string, cfg config.ToolsConfig) *Tools {
	python := cfg.PythonBinary
	if python == "" {
		python = "python3"
	}
	return &Tools{
		exec: &Executor{
			MaxOutput: int(cfg.MaxCommandOutputSize),
			Grace:     time.Duration(cfg.GracefulShutdownMs) * time.Millisecond,
		},
		dir:     dir,
		timeout: time.Duration(cfg.ShellTimeout) * time.Second,
		python:  python,
	}
}

// All returns both execution tools.
func (t *Tools) All() []tool.Tool {
	seconds := int(t.timeout / time.Second)
	return []tool.Tool{
		tool.New(tool.Declaration{
			Name: "execute_command",
			Description: fmt.Sprintf("Runs a shell command with sh -c in the project directory and returns its output. "+
				"Commands are killed after %d seconds. Only filesystem and disk destruction is refused.", seconds),
			Parameters: tool.Object(map[string]string{"command": "Shell command to run."}, "command"),
		}, t.executeCommand),
		tool.New(tool.Declaration{
			Name: "execute_code",
			Description: fmt.Sprintf("Runs a Python snippet in the project directory and returns stdout, stderr and the exit code. "+
				"Execution is limited to %d seconds.", seconds),
			Parameters: tool.Object(map[string]string{"code": "Python source to run."}, "code"),
		}, t.executeCode),
	}
}

type commandRequest struct {
	Command string `mapstructure:"command"`
}

func (r commandRequest) Validate() error {
	if strings.TrimSpace(r.Command) == "" {
		return ErrEmptyCommand
	}
	return nil
}

type codeRequest struct {
	Code string `mapstructure:"code"`
}

func (r codeRequest) Validate() error {
	if strings.TrimSpace(r.Code) == "" {
		return errors.New("code must not be empty")
	}
	return nil
}

func (t *Tools) executeCommand(ctx context.Context, req commandRequest) (string, error) {
	if err := checkBlocklist(commandBlocklist, req.Command); err != nil {
		return "", err
	}
	res, err := t.exec.Run(ctx, []string{"sh", "-c", req.Command}, t.dir, t.timeout)
	if err != nil {
		return "", t.runError(err)
	}
	return formatResult(res, "Command executed successfully (no output)"), nil
}

func (t *Tools) executeCode(ctx context.Context, req codeRequest) (string, error) {
	if err := checkBlocklist(codeBlocklist, req.Code); err != nil {
		return "", err
	}

	f, err := os.CreateTemp("", "projectgen-*.py")
	if err != nil {
		return "", fmt.Errorf("creating script: %w", err)
	}
	defer os.Remove(f.Name())
	if _, err := f.WriteString(req.Code); err != nil {
		_ = f.Close()
		return "", fmt.Errorf("writing script: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("writing script: %w", err)
	}

	res, err := t.exec.Run(ctx, []string{t.python, f.Name()}, t.dir, t.timeout)
	if err != nil {
		return "", t.runError(err)
	}
	return formatResult(res, "Code executed successfully"), nil
}

func (t *Tools) runError(err error) error {
	if errors.Is(err, ErrTimeout) {
		return &TimeoutError{Seconds: int(t.timeout / time.Second)}
	}
	return err
}

func checkBlocklist(patterns []*regexp.Regexp, input string) error {
	for _, p := range patterns {
		if p.MatchString(input) {
			return fmt.Errorf("%w: extremely destructive operation: %s", ErrBlocked, p.String())
		}
	}
	return nil
}

// formatResult renders process output the way the model expects it.
func formatResult(res *Result, empty string) string {
	var b strings.Builder
	if res.Stdout != "" {
		b.WriteString("Output:\n" + res.Stdout)
	}
	if res.Stderr != "" {
		b.WriteString("\nErrors:\n" + res.Stderr)
	}
	if res.ExitCode != 0 {
		fmt.Fprintf(&b, "\nReturn code: %d", res.ExitCode)
	}
	if res.Truncated {
		b.WriteString("\n[output truncated]")
	}
	out := strings.TrimSpace(b.String())
	if out == "" {
		return empty
	}
	return out
}
