package ai

import (
	"context"
	"errors"
	"math/rand"
	"net"
	"time"

	genai "google.golang.org/genai"
)

// retrier re-runs a call on transient failures with exponential backoff and
// up to a second of random jitter per wait. Permanent failures (bad request,
// auth) are returned immediately.
type retrier struct {
	attempts int
	initial  time.Duration
	max      time.Duration
	// sleep is swappable for tests; defaults to a context-aware wait.
	sleep func(ctx context.Context, d time.Duration) error
}

func newRetrier() retrier {
	return retrier{attempts: 5, initial: time.Second, max: 20 * time.Second, sleep: sleepCtx}
}

func (r retrier) do(ctx context.Context, fn func(context.Context) error) error {
	var last error
	delay := r.initial
	for i := 0; i < r.attempts; i++ {
		if i > 0 {
			if err := r.sleep(ctx, withJitter(delay)); err != nil {
				return err
			}
			delay *= 2
			if delay > r.max {
				delay = r.max
			}
		}
		last = fn(ctx)
		if last == nil {
			return nil
		}
		if !transient(last) {
			return last
		}
	}
	return last
}

func withJitter(d time.Duration) time.Duration {
	return d + time.Duration(rand.Int63n(int64(time.Second)))
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// transient reports whether err is worth retrying: rate limits, server-side
// failures, and timeouts. Client errors such as an invalid key are not.
func transient(err error) bool {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code == 429 || apiErr.Code == 408 || apiErr.Code >= 500
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return errors.Is(err, context.DeadlineExceeded)
}
