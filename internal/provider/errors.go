package provider

import (
	"errors"
	"fmt"
	"net"
	"time"
)

// Sentinel errors for common provider failures.
var (
	ErrContextLengthExceeded = errors.New("context length exceeded")
	ErrContentBlocked        = errors.New("content blocked by safety filters")
	ErrRateLimit             = errors.New("rate limit exceeded")
	ErrAuthentication        = errors.New("authentication failed")
	ErrNetwork               = errors.New("network error")
	ErrTimeout               = errors.New("request timeout")
	ErrServiceUnavailable    = errors.New("service unavailable")
	ErrInvalidRequest        = errors.New("invalid request")
	ErrEmptyResponse         = errors.New("empty response")
)

// ErrorCode represents a provider error code.
type ErrorCode string

const (
	ErrorCodeContextLength  ErrorCode = "context_length_exceeded"
	ErrorCodeContentBlocked ErrorCode = "content_blocked"
	ErrorCodeRateLimit      ErrorCode = "rate_limit"
	ErrorCodeAuth           ErrorCode = "authentication_failed"
	ErrorCodeNetwork        ErrorCode = "network_error"
	ErrorCodeTimeout        ErrorCode = "timeout"
	ErrorCodeUnavailable    ErrorCode = "service_unavailable"
	ErrorCodeInvalidRequest ErrorCode = "invalid_request"
	ErrorCodeEmptyResponse  ErrorCode = "empty_response"
)

var codeSentinels = map[ErrorCode]error{
	ErrorCodeContextLength:  ErrContextLengthExceeded,
	ErrorCodeContentBlocked: ErrContentBlocked,
	ErrorCodeRateLimit:      ErrRateLimit,
	ErrorCodeAuth:           ErrAuthentication,
	ErrorCodeNetwork:        ErrNetwork,
	ErrorCodeTimeout:        ErrTimeout,
	ErrorCodeUnavailable:    ErrServiceUnavailable,
	ErrorCodeInvalidRequest: ErrInvalidRequest,
	ErrorCodeEmptyResponse:  ErrEmptyResponse,
}

// ProviderError wraps errors with additional context.
type ProviderError struct {
	Code       ErrorCode
	Message    string
	Underlying error
	Retryable  bool
	RetryAfter *time.Duration
}

// Error implements the error interface.
func (e *ProviderError) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Underlying)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error.
func (e *ProviderError) Unwrap() error {
	return e.Underlying
}

// Is matches the sentinel that corresponds to the error code, so callers
// can write errors.Is(err, ErrRateLimit).
func (e *ProviderError) Is(target error) bool {
	sentinel, ok := codeSentinels[e.Code]
	return ok && sentinel == target
}

// IsRetryable returns true if the error is retryable.
func IsRetryable(err error) bool {
	var providerErr *ProviderError
	if errors.As(err, &providerErr) {
		return providerErr.Retryable
	}
	return false
}

// IsRateLimit reports whether err signals provider rate limiting.
func IsRateLimit(err error) bool {
	return errors.Is(err, ErrRateLimit)
}

// IsConnection reports whether err is a transport-level failure: a provider
// network, timeout or unavailable error, or a raw net.Error.
func IsConnection(err error) bool {
	if errors.Is(err, ErrNetwork) || errors.Is(err, ErrTimeout) || errors.Is(err, ErrServiceUnavailable) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

// GetRetryAfter returns the retry-after duration if present.
func GetRetryAfter(err error) *time.Duration {
	var providerErr *ProviderError
	if errors.As(err, &providerErr) {
		return providerErr.RetryAfter
	}
	return nil
}
