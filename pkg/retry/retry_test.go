package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func fastConfig(attempts int) Config {
	return Config{
		MaxAttempts:   attempts,
		InitialDelay:  time.Millisecond,
		MaxDelay:      5 * time.Millisecond,
		BackoffFactor: 2,
	}
}

func TestDo_SucceedsAfterTransientFailures(t *testing.T) {
	calls := 0
	err := Do(context.Background(), fastConfig(3), func() error {
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
	sentinel := errors.New("boom")
	calls := 0
	err := Do(context.Background(), fastConfig(2), func() error {
		calls++
		return sentinel
	})

	assert.ErrorIs(t, err, sentinel)
	assert.Equal(t, 2, calls)
}

func TestDo_PermanentStopsImmediately(t *testing.T) {
	sentinel := errors.New("bad request")
	calls := 0
	err := Do(context.Background(), fastConfig(5), func() error {
		calls++
		return Permanent(sentinel)
	})

	assert.Equal(t, sentinel, err)
	assert.Equal(t, 1, calls)
}

func TestDo_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	err := Do(ctx, fastConfig(3), func() error {
		calls++
		return nil
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, calls)
}

func TestDoWithLog_ReportsAttempts(t *testing.T) {
	var attempts []int
	_ = DoWithLog(context.Background(), fastConfig(3), "gemini", func() error {
		return errors.New("fail")
	}, func(attempt int, err error, nextDelay time.Duration) {
		attempts = append(attempts, attempt)
	})

	assert.Equal(t, []int{1, 2}, attempts)
}

func TestPermanent(t *testing.T) {
	assert.Nil(t, Permanent(nil))
	assert.True(t, IsPermanent(Permanent(errors.New("x"))))
	assert.False(t, IsPermanent(errors.New("x")))
}
