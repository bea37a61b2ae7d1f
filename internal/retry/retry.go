// Package retry provides the single execute-with-retry wrapper used by
// every persistence write in the service, replacing per-call-site retry
// loops.
package retry

import (
	"context"
	"time"
)

// DefaultAttempts matches the attempt count used for layout saves.
const DefaultAttempts = 3

// Do runs op up to attempts times, sleeping a linearly increasing backoff
// between failures: backoff after the first, 2*backoff after the second,
// and so on. It returns nil on the first success and the last error once
// attempts are exhausted. Context cancellation aborts the wait and returns
// ctx.Err().
func Do(ctx context.Context, attempts int, backoff time.Duration, op func(context.Context) error) error {
	if attempts < 1 {
		attempts = 1
	}
	var err error
	for i := 1; i <= attempts; i++ {
		if err = op(ctx); err == nil {
			return nil
		}
		if i == attempts {
			break
		}
		wait := time.Duration(i) * backoff
		if wait <= 0 {
			continue
		}
		t := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
	}
	return err
}
