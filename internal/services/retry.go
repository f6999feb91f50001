package services

import (
	"context"
	"time"

	"go-akashdhara/internal/domain"
	"go-akashdhara/internal/observability"
)

// RetryPolicy retries network-class failures with a linearly growing delay:
// attempt n waits BaseDelay*n before running again.
type RetryPolicy struct {
	MaxRetries int
	BaseDelay  time.Duration
	Sleep      func(ctx context.Context, d time.Duration) error
}

// DefaultRetryPolicy allows 2 extra attempts after 2s and 4s
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxRetries: 2,
		BaseDelay:  2 * time.Second,
		Sleep:      sleepContext,
	}
}

// Backoff returns the wait before retry number attempt (1-based)
func (p RetryPolicy) Backoff(attempt int) time.Duration {
	return p.BaseDelay * time.Duration(attempt)
}

// Retry runs fn until it succeeds, fails with a non-retryable error, the
// retries are exhausted or ctx is done.
func Retry[T any](ctx context.Context, p RetryPolicy, op string, fn func(context.Context) (T, error)) (T, error) {
	sleep := p.Sleep
	if sleep == nil {
		sleep = sleepContext
	}

	var (
		out T
		err error
	)
	for attempt := 0; ; attempt++ {
		out, err = fn(ctx)
		if err == nil || !domain.IsRetryable(err) || attempt >= p.MaxRetries {
			return out, err
		}

		wait := p.Backoff(attempt + 1)
		observability.LoggerFromContext(ctx).Info("retrying upstream call",
			"op", op, "attempt", attempt+1, "wait", wait.String(), "error", err)
		if serr := sleep(ctx, wait); serr != nil {
			return out, serr
		}
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
