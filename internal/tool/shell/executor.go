package shell

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"time"
)

// binarySampleSize is how much leading output is checked for NUL bytes.
const binarySampleSize = 8000

// Result is the outcome of a process.
type Result struct {
	Stdout    string
	Stderr    string
	ExitCode  int
	Truncated bool
}

// Executor runs processes with a hard timeout. Each process leads its own
// process group. On timeout the group is interrupted first and killed if
// the leader is still running after Grace; whatever survives the leader is
// killed with it.
type Executor struct {
	MaxOutput int
	Grace     time.Duration
}

// Run starts command in dir and waits for it. A non-zero exit is not an
// error; the code is reported in the result. The error is ErrTimeout on
// timeout, the context's error on cancellation, or a *CommandError when
// the process cannot start.
func (e *Executor) Run(ctx context.Context, command []string, dir string, timeout time.Duration) (*Result, error) {
	if len(command) == 0 {
		return nil, ErrEmptyCommand
	}

	stdout := newCollector(e.MaxOutput, binarySampleSize)
	stderr := newCollector(e.MaxOutput, binarySampleSize)

	// exec.CommandContext is not used so that a timeout can interrupt
	// before killing.
	cmd := exec.Command(command[0], command[1:]...)
	cmd.Dir = dir
	cmd.Env = os.Environ()
	cmd.Stdin = nil
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	// Children that inherit the pipes must not hold Wait open forever.
	cmd.WaitDelay = e.Grace
	startProcessGroup(cmd)

	if err := cmd.Start(); err != nil {
		return nil, &CommandError{Cmd: command[0], Cause: err}
	}

	done := make(chan error, 1)
	go func() {
		done <- cmd.Wait()
	}()

	var execErr error
	select {
	case err := <-done:
		execErr = err
	case <-ctx.Done():
		_ = killGroup(cmd.Process)
		<-done
		execErr = ctx.Err()
	case <-time.After(timeout):
		_ = interruptGroup(cmd.Process)
		select {
		case <-done:
		case <-time.After(e.Grace):
			_ = killGroup(cmd.Process)
			<-done
		}
		// Background children may ignore the interrupt and outlive sh.
		_ = killGroup(cmd.Process)
		execErr = ErrTimeout
	}

	res := &Result{
		Stdout:    stdout.String(),
		Stderr:    stderr.String(),
		Truncated: stdout.truncated || stderr.truncated,
	}

	var exitErr *exec.ExitError
	switch {
	case execErr == nil:
	case errors.As(execErr, &exitErr):
		res.ExitCode = exitErr.ExitCode()
		execErr = nil
	default:
		res.ExitCode = -1
	}
	return res, execErr
}

// collector keeps at most maxBytes of output and drops binary output.
type collector struct {
	buffer    bytes.Buffer
	maxBytes  int
	truncated bool
	isBinary  bool

	bytesChecked int
	sampleSize   int
}

func newCollector(maxBytes, sampleSize int) *collector {
	return &collector{maxBytes: maxBytes, sampleSize: sampleSize}
}

func (c *collector) Write(p []byte) (int, error) {
	if c.isBinary {
		return len(p), nil
	}

	if c.bytesChecked < c.sampleSize {
		toCheck := p[:min(len(p), c.sampleSize-c.bytesChecked)]
		if bytes.IndexByte(toCheck, 0) != -1 {
			c.isBinary = true
			c.truncated = true
			return len(p), nil
		}
		c.bytesChecked += len(toCheck)
	}

	remaining := c.maxBytes - c.buffer.Len()
	if c.maxBytes > 0 && remaining <= 0 {
		c.truncated = true
		return len(p), nil
	}

	toWrite := p
	if c.maxBytes > 0 && len(toWrite) > remaining {
		toWrite = toWrite[:remaining]
		c.truncated = true
	}
	c.buffer.Write(toWrite)
	return len(p), nil
}

func (c *collector) String() string {
	if c.isBinary {
		return "[Binary Content]"
	}
	return c.buffer.String()
}
