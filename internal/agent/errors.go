package agent

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidState is a protocol violation, such as classifying an
	// empty conversation.
	ErrInvalidState = errors.New("invalid state")

	// ErrStepLimitExceeded is matched by *StepLimitError.
	ErrStepLimitExceeded = errors.New("step limit exceeded")

	// ErrNoFinalMessage means the turn ended without an assistant message.
	ErrNoFinalMessage = errors.New("agent did not return any messages")
)

// StepLimitError is returned when a turn needs more model calls than its
// budget allows.
type StepLimitError struct {
	Budget int
	// MalformedRetries counts the steps spent answering malformed calls.
	MalformedRetries int
}

func (e *StepLimitError) Error() string {
	return fmt.Sprintf("step limit of %d model calls exceeded", e.Budget)
}

func (e *StepLimitError) Is(target error) bool {
	return target == ErrStepLimitExceeded
}
