package retrier

import (
	"context"
	"time"
)

// Retrier retries an operation with bounded exponential backoff.
type Retrier struct {
	Initial    time.Duration
	Max        time.Duration
	Multiplier float64
	Attempts   int
}

// Default returns a retrier suitable for exchange REST calls.
func Default() Retrier {
	return Retrier{
		Initial:    time.Second,
		Max:        30 * time.Second,
		Multiplier: 2.0,
		Attempts:   5,
	}
}

// Do runs fn until it succeeds, attempts are exhausted or ctx is done.
// The last error is returned.
func (r Retrier) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	interval := r.Initial
	attempts := r.Attempts
	if attempts < 1 {
		attempts = 1
	}

	var err error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(interval):
			}

			interval = time.Duration(float64(interval) * r.Multiplier)
			if r.Max > 0 && interval > r.Max {
				interval = r.Max
			}
		}

		if err = fn(ctx); err == nil {
			return nil
		}
	}

	return err
}

// DoWithData runs fn with retries and returns its value.
func DoWithData[T any](r Retrier, ctx context.Context, fn func(ctx context.Context) (T, error)) (T, error) {
	var result T
	err := r.Do(ctx, func(ctx context.Context) error {
		var e error
		result, e = fn(ctx)
		return e
	})
	return result, err
}
