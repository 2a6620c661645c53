package retry

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v5"
)

// Policy is an exponential backoff: Base doubling per attempt, capped at Max,
// bounded by MaxElapsed overall and MaxAttempts total tries.
type Policy struct {
	Base        time.Duration
	Max         time.Duration
	MaxElapsed  time.Duration
	MaxAttempts int
	Jitter      float64

	// Retryable reports whether err is worth another attempt. Nil retries everything.
	Retryable func(error) bool
	// OnRetry runs before sleeping for the next attempt.
	OnRetry func(attempt int, err error, wait time.Duration)
	// OnGiveUp runs once when the final error is returned.
	OnGiveUp func(attempts int, err error)
}

func DefaultPolicy() Policy {
	return Policy{
		Base:        4 * time.Second,
		Max:         30 * time.Second,
		MaxElapsed:  60 * time.Second,
		MaxAttempts: 3,
		Jitter:      0.2,
	}
}

func (p Policy) Validate() error {
	if p.Base <= 0 {
		return fmt.Errorf("retry base must be >0")
	}
	if p.Max < p.Base {
		return fmt.Errorf("retry max (%s) must be >= base (%s)", p.Max, p.Base)
	}
	if p.MaxAttempts <= 0 {
		return fmt.Errorf("retry max attempts must be >0")
	}
	if p.Jitter < 0 || p.Jitter >= 1 {
		return fmt.Errorf("retry jitter must be in [0,1)")
	}
	return nil
}

// With returns a copy with the hook fields replaced where non-nil.
func (p Policy) With(retryable func(error) bool, onRetry func(int, error, time.Duration), onGiveUp func(int, error)) Policy {
	if retryable != nil {
		p.Retryable = retryable
	}
	if onRetry != nil {
		p.OnRetry = onRetry
	}
	if onGiveUp != nil {
		p.OnGiveUp = onGiveUp
	}
	return p
}

func (p Policy) backOff() *backoff.ExponentialBackOff {
	b := &backoff.ExponentialBackOff{
		InitialInterval:     p.Base,
		RandomizationFactor: p.Jitter,
		Multiplier:          2,
		MaxInterval:         p.Max,
	}
	b.Reset()
	return b
}

// Do runs op until it succeeds, returns a non-retryable error, or the policy is
// exhausted. The last underlying error is returned unchanged.
func Do[T any](ctx context.Context, p Policy, op func(attempt int) (T, error)) (T, error) {
	if err := p.Validate(); err != nil {
		var zero T
		return zero, err
	}
	attempt := 0
	operation := func() (T, error) {
		attempt++
		out, err := op(attempt)
		if err == nil {
			return out, nil
		}
		if ctx.Err() != nil {
			return out, backoff.Permanent(err)
		}
		if p.Retryable != nil && !p.Retryable(err) {
			return out, backoff.Permanent(err)
		}
		return out, err
	}
	opts := []backoff.RetryOption{
		backoff.WithBackOff(p.backOff()),
		backoff.WithMaxTries(uint(p.MaxAttempts)),
		backoff.WithMaxElapsedTime(p.MaxElapsed),
	}
	if p.OnRetry != nil {
		opts = append(opts, backoff.WithNotify(func(err error, wait time.Duration) {
			p.OnRetry(attempt, err, wait)
		}))
	}
	out, err := backoff.Retry(ctx, operation, opts...)
	if err != nil && p.OnGiveUp != nil {
		p.OnGiveUp(attempt, err)
	}
	return out, err
}
