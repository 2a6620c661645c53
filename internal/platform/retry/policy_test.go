package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastPolicy(attempts int) Policy {
	return Policy{
		Base:        time.Millisecond,
		Max:         4 * time.Millisecond,
		MaxElapsed:  time.Second,
		MaxAttempts: attempts,
	}
}

func TestDoSucceedsAfterTransientFailures(t *testing.T) {
	var retries []int
	p := fastPolicy(5)
	p.OnRetry = func(attempt int, err error, wait time.Duration) {
		retries = append(retries, attempt)
	}

	out, err := Do(context.Background(), p, func(attempt int) (string, error) {
		if attempt < 3 {
			return "", errors.New("flaky")
		}
		return "ok", nil
	})

	require.NoError(t, err)
	assert.Equal(t, "ok", out)
	assert.Equal(t, []int{1, 2}, retries)
}

func TestDoReturnsLastErrorWhenAttemptsExhausted(t *testing.T) {
	var gaveUp int
	p := fastPolicy(3)
	p.OnGiveUp = func(attempts int, err error) { gaveUp = attempts }

	calls := 0
	_, err := Do(context.Background(), p, func(attempt int) (int, error) {
		calls++
		return 0, errors.New("boom " + string(rune('0'+attempt)))
	})

	require.Error(t, err)
	assert.Equal(t, "boom 3", err.Error())
	assert.Equal(t, 3, calls)
	assert.Equal(t, 3, gaveUp)
}

func TestDoStopsOnNonRetryableError(t *testing.T) {
	permanent := errors.New("unauthorized")
	p := fastPolicy(5)
	p.Retryable = func(err error) bool { return !errors.Is(err, permanent) }

	calls := 0
	_, err := Do(context.Background(), p, func(int) (int, error) {
		calls++
		return 0, permanent
	})

	require.ErrorIs(t, err, permanent)
	assert.Equal(t, 1, calls)
}

func TestDoHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	calls := 0
	_, err := Do(ctx, fastPolicy(5), func(int) (int, error) {
		calls++
		return 0, errors.New("transient")
	})
	require.Error(t, err)
	assert.LessOrEqual(t, calls, 1)
}

func TestValidateRejectsBadPolicies(t *testing.T) {
	assert.Error(t, Policy{}.Validate())
	assert.Error(t, Policy{Base: time.Second, Max: time.Millisecond, MaxAttempts: 1}.Validate())
	assert.Error(t, Policy{Base: time.Second, Max: time.Second, MaxAttempts: 0}.Validate())
	assert.NoError(t, DefaultPolicy().Validate())
}
