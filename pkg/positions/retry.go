package positions

import (
	"context"
	"time"
)

// Connection retries for network backends started alongside the service.
var (
	connectAttempts = 3
	connectDelay    = 500 * time.Millisecond
)

// retry runs fn up to attempts times, doubling delay after each failure.
// It returns the last error, or ctx.Err() when cancelled while waiting.
func retry(ctx context.Context, attempts int, delay time.Duration, fn func() error) error {
	attempts = max(attempts, 1)
	var err error
	for i := range attempts {
		if err = fn(); err == nil {
			return nil
		}
		if i == attempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
			delay *= 2
		}
	}
	return err
}
