package retry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"time"
)

// ErrExhausted wraps the last error once the attempt budget is spent.
// Callers treat it as a page-level failure and stop paginating.
var ErrExhausted = errors.New("retry attempts exhausted")

type permanentError struct {
	err error
}

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// Permanent marks err as not worth retrying: Do returns the original err
// immediately instead of spending the remaining attempt budget. Use it for
// failures more attempts cannot change, like a deleted upstream account.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// Policy retries an operation a bounded number of times, sleeping a
// uniformly jittered duration between attempts. The jitter keeps tasks
// that hit the same throttled upstream from retrying in lockstep.
type Policy struct {
	MaxAttempts int
	MinDelay    time.Duration
	MaxDelay    time.Duration
	Logger      *slog.Logger
}

// Do runs op until it succeeds, the context is cancelled, or MaxAttempts
// is reached. Context cancellation is surfaced as ctx.Err(), never retried
// and never wrapped in ErrExhausted. Exhaustion returns an error wrapping
// both ErrExhausted and the last op error.
func (p Policy) Do(ctx context.Context, op func(ctx context.Context) error) error {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		lastErr = op(ctx)
		if lastErr == nil {
			return nil
		}
		if errors.Is(lastErr, context.Canceled) || errors.Is(lastErr, context.DeadlineExceeded) {
			return lastErr
		}
		var perm *permanentError
		if errors.As(lastErr, &perm) {
			return perm.err
		}
		if attempt == attempts {
			break
		}

		delay := p.jitteredDelay()
		if p.Logger != nil {
			p.Logger.Warn("upstream call failed, retrying",
				"attempt", attempt,
				"max_attempts", attempts,
				"backoff", delay,
				"error", lastErr,
			)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}

	return fmt.Errorf("%w after %d attempts: %w", ErrExhausted, attempts, lastErr)
}

func (p Policy) jitteredDelay() time.Duration {
	min, max := p.MinDelay, p.MaxDelay
	if min <= 0 {
		min = time.Second
	}
	if max < min {
		max = min
	}
	if max == min {
		return min
	}
	return min + time.Duration(rand.Int63n(int64(max-min)))
}
