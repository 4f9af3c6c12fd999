package gateway

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"workspace-chat/errors"
)

// delay is the wait before attempt n+1, n starting at 1.
func (p RetryPolicy) delay(n int) time.Duration {
	d := float64(p.Base)
	for i := 1; i < n; i++ {
		d *= p.Factor
	}
	if p.Jitter > 0 {
		d += d * p.Jitter * (rand.Float64()*2 - 1)
	}
	return time.Duration(d)
}

// do runs fn until it succeeds, fails with a non retryable error, or the
// attempts are exhausted, in which case the last error is wrapped in ErrUnavailable.
func (p RetryPolicy) do(ctx context.Context, onRetry func(attempt int, err error), fn func() error) error {
	var err error
	for attempt := 1; ; attempt++ {
		if err = fn(); err == nil || !errors.IsRetryable(err) {
			return err
		}
		if attempt >= p.Attempts {
			return fmt.Errorf("%w: %w", errors.ErrUnavailable, err)
		}
		onRetry(attempt, err)

		timer := time.NewTimer(p.delay(attempt))
		select {
		case <-ctx.Done():
			timer.Stop()
			return fmt.Errorf("%w: %w", errors.ErrUnavailable, ctx.Err())
		case <-timer.C:
		}
	}
}
