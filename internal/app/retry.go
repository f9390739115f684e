package app

import (
	"context"
	"fmt"
	"math"
	"time"
)

const maxRetryDelay = 2 * time.Second

// Retrier repeats an operation with exponential backoff
type Retrier struct {
	maxAttempts int
	baseDelay   time.Duration
}

// NewRetrier creates a retrier. Non-positive values select 3 attempts and a
// 50ms base delay.
func NewRetrier(maxAttempts int, baseDelay time.Duration) *Retrier {
	if maxAttempts <= 0 {
		maxAttempts = 3
	}
	if baseDelay <= 0 {
		baseDelay = 50 * time.Millisecond
	}

	return &Retrier{
		maxAttempts: maxAttempts,
		baseDelay:   baseDelay,
	}
}

// Do runs fn until it succeeds, shouldRetry rejects its error or the attempts
// are used up. The last error is returned wrapped.
func (r *Retrier) Do(ctx context.Context, fn func() error, shouldRetry func(error) bool) error {
	var lastErr error

	for attempt := 1; attempt <= r.maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("cancelled before attempt %d: %w", attempt, err)
		}

		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err

		if !shouldRetry(err) {
			return err
		}
		if attempt == r.maxAttempts {
			break
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("cancelled during retry delay: %w", ctx.Err())
		case <-time.After(r.delay(attempt)):
		}
	}

	return fmt.Errorf("failed after %d attempts: %w", r.maxAttempts, lastErr)
}

// delay is baseDelay * 2^(attempt-1), capped
func (r *Retrier) delay(attempt int) time.Duration {
	delay := time.Duration(float64(r.baseDelay) * math.Pow(2, float64(attempt-1)))
	if delay > maxRetryDelay {
		delay = maxRetryDelay
	}
	return delay
}
