package database

import (
	"context"
	"log"
	"time"
)

// Retry calls connect up to attempts times, sleeping backoff between failures.
// It returns the last error when every attempt fails or ctx is cancelled.
func Retry[T any](ctx context.Context, name string, attempts int, backoff time.Duration, connect func(context.Context) (T, error)) (T, error) {
	var (
		zero T
		err  error
	)
	if attempts < 1 {
		attempts = 1
	}

	for i := 1; i <= attempts; i++ {
		var v T
		v, err = connect(ctx)
		if err == nil {
			return v, nil
		}
		log.Printf("❌ %s connection attempt %d/%d failed: %v", name, i, attempts, err)

		if i == attempts {
			break
		}
		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-time.After(backoff):
		}
	}
	return zero, err
}
