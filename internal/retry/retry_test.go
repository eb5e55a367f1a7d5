package retry

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPolicy(attempts int) Policy {
	return Policy{
		MaxAttempts: attempts,
		MinDelay:    time.Millisecond,
		MaxDelay:    2 * time.Millisecond,
	}
}

func TestDo_SucceedsFirstAttempt(t *testing.T) {
	calls := 0
	err := testPolicy(3).Do(context.Background(), func(context.Context) error {
		calls++
		return nil
	})

	assert.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestDo_RetriesUntilSuccess(t *testing.T) {
	calls := 0
	err := testPolicy(3).Do(context.Background(), func(context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	})

	assert.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestDo_ExhaustsAttempts(t *testing.T) {
	opErr := errors.New("still broken")
	calls := 0
	err := testPolicy(4).Do(context.Background(), func(context.Context) error {
		calls++
		return opErr
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrExhausted)
	assert.ErrorIs(t, err, opErr)
	assert.Equal(t, 4, calls)
}

func TestDo_CancellationNotRetried(t *testing.T) {
	calls := 0
	err := testPolicy(5).Do(context.Background(), func(context.Context) error {
		calls++
		return context.Canceled
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, ErrExhausted)
	assert.Equal(t, 1, calls)
}

func TestDo_PermanentErrorNotRetried(t *testing.T) {
	opErr := errors.New("account deleted")
	calls := 0
	err := testPolicy(5).Do(context.Background(), func(context.Context) error {
		calls++
		return Permanent(opErr)
	})

	assert.ErrorIs(t, err, opErr)
	assert.NotErrorIs(t, err, ErrExhausted)
	assert.Equal(t, 1, calls)
}

func TestDo_WrappedPermanentErrorNotRetried(t *testing.T) {
	opErr := errors.New("account deleted")
	calls := 0
	err := testPolicy(5).Do(context.Background(), func(context.Context) error {
		calls++
		return fmt.Errorf("fetch page: %w", Permanent(opErr))
	})

	assert.ErrorIs(t, err, opErr)
	assert.NotErrorIs(t, err, ErrExhausted)
	assert.Equal(t, 1, calls)
}

func TestPermanent_NilStaysNil(t *testing.T) {
	assert.NoError(t, Permanent(nil))
}

func TestDo_CancelledContextStopsSleep(t *testing.T) {
	policy := Policy{
		MaxAttempts: 3,
		MinDelay:    time.Hour,
		MaxDelay:    time.Hour,
	}

	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	done := make(chan error, 1)
	go func() {
		done <- policy.Do(ctx, func(context.Context) error {
			calls++
			return errors.New("transient")
		})
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 1, calls)
	case <-time.After(2 * time.Second):
		t.Fatal("retry sleep not interrupted by cancellation")
	}
}

func TestDo_ZeroAttemptsTreatedAsOne(t *testing.T) {
	calls := 0
	err := Policy{}.Do(context.Background(), func(context.Context) error {
		calls++
		return errors.New("boom")
	})

	assert.ErrorIs(t, err, ErrExhausted)
	assert.Equal(t, 1, calls)
}

func TestJitteredDelay_StaysInBounds(t *testing.T) {
	policy := Policy{MinDelay: 10 * time.Millisecond, MaxDelay: 20 * time.Millisecond}
	for i := 0; i < 100; i++ {
		d := policy.jitteredDelay()
		assert.GreaterOrEqual(t, d, 10*time.Millisecond)
		assert.Less(t, d, 20*time.Millisecond)
	}
}
