package agent

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/Cyclone1070/projectgen/internal/permission"
	"github.com/Cyclone1070/projectgen/internal/provider"
)

// FailureKind classifies a failed turn.
type FailureKind int

const (
	FailureUnexpected FailureKind = iota
	FailurePermissionDenied
	FailureStepLimitExceeded
	FailureRateLimited
)

func (k FailureKind) String() string {
	switch k {
	case FailurePermissionDenied:
		return "permission_denied"
	case FailureStepLimitExceeded:
		return "step_limit_exceeded"
	case FailureRateLimited:
		return "rate_limited"
	default:
		return "unexpected"
	}
}

// ClassifyFailure maps an error returned by a turn to its kind.
func ClassifyFailure(err error) FailureKind {
	switch {
	case errors.Is(err, permission.ErrPermissionDenied):
		return FailurePermissionDenied
	case errors.Is(err, ErrStepLimitExceeded):
		return FailureStepLimitExceeded
	case provider.IsRateLimit(err):
		return FailureRateLimited
	default:
		return FailureUnexpected
	}
}

// Recovery is what happens after a failure.
type Recovery int

const (
	Abort Recovery = iota
	ConfirmContinue
)

// Decide returns the recovery for a failure kind. Only the step limit is
// recoverable, and only with the operator's consent.
func Decide(kind FailureKind) Recovery {
	if kind == FailureStepLimitExceeded {
		return ConfirmContinue
	}
	return Abort
}

// User-facing messages.
const (
	PermissionDeniedText = "Permission denied"
	StepLimitText        = "Agent processing took longer than expected"
	ContinueQuestion     = "Continue from where left off?"
	ResumingText         = "Resuming from previous context..."
	RateLimitText        = "Rate limit exceeded. Please try again later or switch to a different model."

	// ContinuePrompt is sent as the user's message when a turn resumes
	// after the step limit.
	ContinuePrompt = "Continue where you left. Don't repeat anything already done."
)

// Failure is a turn that ended without an answer.
type Failure struct {
	Kind    FailureKind
	Message string
	Err     error
}

// NewFailure classifies err and renders its message.
func NewFailure(err error) *Failure {
	kind := ClassifyFailure(err)
	return &Failure{Kind: kind, Message: failureMessage(kind, err), Err: err}
}

func (f *Failure) Error() string {
	return f.Message
}

func (f *Failure) Unwrap() error {
	return f.Err
}

func failureMessage(kind FailureKind, err error) string {
	switch kind {
	case FailurePermissionDenied:
		return PermissionDeniedText
	case FailureStepLimitExceeded:
		var sl *StepLimitError
		if errors.As(err, &sl) && sl.MalformedRetries > 0 {
			return fmt.Sprintf("%s (%d of %d steps were malformed tool calls)", StepLimitText, sl.MalformedRetries, sl.Budget)
		}
		return StepLimitText
	case FailureRateLimited:
		return RateLimitText
	default:
		return fmt.Sprintf("An unexpected error occurred: %v", err)
	}
}

// Reporter is the user-facing side of failure handling.
type Reporter interface {
	Info(msg string)
	Error(msg string)
	Warn(msg string)
	Confirm(ctx context.Context, question string, def bool) (bool, error)
}

// Policy applies the same failure handling to interactive sessions and
// single invocations.
type Policy struct {
	reporter Reporter
	devMode  bool
	logger   *slog.Logger
}

func NewPolicy(reporter Reporter, devMode bool, logger *slog.Logger) *Policy {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Policy{reporter: reporter, devMode: devMode, logger: logger}
}

// Handle reports err and reports whether the caller should resume the
// turn with ContinuePrompt.
func (p *Policy) Handle(ctx context.Context, err error) bool {
	if err == nil {
		return false
	}
	f := NewFailure(err)
	p.logger.Warn("turn failed", "kind", f.Kind, "error", err)

	if p.reporter == nil {
		return false
	}
	if p.devMode {
		p.reporter.Error(ErrorChain(err))
	}

	if Decide(f.Kind) == ConfirmContinue {
		p.reporter.Warn(f.Message)
		ok, cerr := p.reporter.Confirm(ctx, ContinueQuestion, true)
		if cerr != nil {
			p.logger.Warn("continue confirmation failed", "error", cerr)
			return false
		}
		if ok {
			p.reporter.Info(ResumingText)
		}
		return ok
	}

	p.reporter.Error(f.Message)
	return false
}

// ErrorChain renders every layer of a wrapped error, outermost first.
func ErrorChain(err error) string {
	var b strings.Builder
	for depth := 0; err != nil; depth++ {
		fmt.Fprintf(&b, "%s%T: %v\n", strings.Repeat("  ", depth), err, err)
		err = errors.Unwrap(err)
	}
	return strings.TrimRight(b.String(), "\n")
}
