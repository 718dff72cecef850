package shell

import (
	"errors"
	"fmt"
)

var (
	// ErrTimeout is returned when a process outlives its timeout.
	ErrTimeout = errors.New("command timeout")

	// ErrBlocked is returned for commands matching the blocklist.
	ErrBlocked = errors.New("blocked")

	ErrEmptyCommand = errors.New("empty command")
)

// CommandError is returned when a process cannot be started.
type CommandError struct {
	Cmd   string
	Cause error
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("failed to start %s: %v", e.Cmd, e.Cause)
}
func (e *CommandError) Unwrap() error { return e.Cause }

// TimeoutError reports a command killed after Seconds.
type TimeoutError struct {
	Seconds int
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("Command timed out after %d seconds", e.Seconds)
}

func (e *TimeoutError) Is(target error) bool {
	return target == ErrTimeout
}
