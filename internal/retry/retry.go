package retry

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/rs/zerolog/log"
)

// Policy controls how often and how patiently an operation is retried.
type Policy struct {
	MaxRetries int
	BaseDelay  time.Duration
	MaxDelay   time.Duration
	Timeout    time.Duration // per attempt; zero means the parent deadline only
}

// DefaultPolicy is used for calls to remote market data sources.
var DefaultPolicy = Policy{
	MaxRetries: 2,
	BaseDelay:  250 * time.Millisecond,
	MaxDelay:   2 * time.Second,
	Timeout:    30 * time.Second,
}

type permanentError struct{ err error }

func (p *permanentError) Error() string { return p.err.Error() }
func (p *permanentError) Unwrap() error { return p.err }

// Permanent marks err as not worth retrying.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// IsPermanent reports whether err was marked with Permanent.
func IsPermanent(err error) bool {
	var p *permanentError
	return errors.As(err, &p)
}

// Do runs op until it succeeds, returns a permanent error, the retries are
// exhausted or ctx is done.
func Do[T any](ctx context.Context, policy Policy, op func(context.Context) (T, error)) (T, error) {
	var zero T
	var lastErr error
	for attempt := 0; attempt <= policy.MaxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return zero, err
		}

		opCtx, cancel := ctx, context.CancelFunc(func() {})
		if policy.Timeout > 0 {
			opCtx, cancel = context.WithTimeout(ctx, policy.Timeout)
		}
		result, err := op(opCtx)
		cancel()
		if err == nil {
			return result, nil
		}
		if IsPermanent(err) {
			return zero, err
		}
		lastErr = err

		if attempt == policy.MaxRetries {
			break
		}
		delay := backoff(attempt, policy.BaseDelay, policy.MaxDelay)
		log.Debug().
			Err(err).
			Int("attempt", attempt+1).
			Dur("delay", delay).
			Msg("Retrying after delay")

		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-time.After(delay):
		}
	}
	return zero, fmt.Errorf("operation failed after %d attempts: %w", policy.MaxRetries+1, lastErr)
}

// backoff returns base*2^attempt with 0.5x-1.5x jitter, capped at max.
func backoff(attempt int, base, max time.Duration) time.Duration {
	d := time.Duration(1<<min(attempt, 30)) * base
	if d > max {
		d = max
	}
	d = time.Duration(float64(d) * (0.5 + rand.Float64()))
	if d > max {
		d = max
	}
	return d
}
