// Package latency simulates the round-trip delay of a remote API so the
// in-memory stores behave like a network backend. The wait is injectable so
// tests never sleep.
package latency

import (
	"context"
	"time"
)

// Func waits for d or until ctx is done, whichever comes first.
type Func func(ctx context.Context, d time.Duration) error

// Profile holds per-operation delays.
type Profile struct {
	List  time.Duration
	Find  time.Duration
	Write time.Duration
	Auth  time.Duration
}

// Mock matches the delays of the storefront mock API.
var Mock = Profile{
	List:  300 * time.Millisecond,
	Find:  200 * time.Millisecond,
	Write: 500 * time.Millisecond,
	Auth:  500 * time.Millisecond,
}

// Sleep blocks on a real timer.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// None returns immediately unless ctx is already done.
func None(ctx context.Context, _ time.Duration) error {
	return ctx.Err()
}
