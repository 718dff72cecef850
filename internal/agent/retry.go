package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/Cyclone1070/projectgen/internal/provider"
)

// DefaultMaxRetries bounds WithRetry when maxRetries is not positive.
const DefaultMaxRetries = 3

// WithRetry runs op, retrying rate-limit and connection failures up to
// maxRetries more times. Other errors return immediately. There is no
// backoff. Each retry is announced through reporter as a warning, and the
// final failure as an error. Cancellation is returned unreported.
func WithRetry[T any](ctx context.Context, maxRetries int, reporter Reporter, op func(context.Context) (T, error)) (T, error) {
	if maxRetries <= 0 {
		maxRetries = DefaultMaxRetries
	}

	var zero T
	for attempt := 0; ; attempt++ {
		res, err := op(ctx)
		if err == nil {
			return res, nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return zero, ctxErr
		}
		if !provider.IsRateLimit(err) && !provider.IsConnection(err) {
			return zero, reportFailure(reporter, fmt.Errorf("operation failed: %w", err))
		}
		if attempt >= maxRetries {
			return zero, reportFailure(reporter, fmt.Errorf("operation failed after %d retries: %w", maxRetries, err))
		}
		if reporter != nil {
			reporter.Warn(fmt.Sprintf("Retrying due to %v (attempt %d/%d)", err, attempt+1, maxRetries))
		}
	}
}

func reportFailure(reporter Reporter, err error) error {
	if reporter != nil {
		msg := err.Error()
		reporter.Error(strings.ToUpper(msg[:1]) + msg[1:])
	}
	return err
}
