package stream

import (
	"math"
	"time"
)

// Backoff controls reconnect delays with exponential growth. There is
// no attempt cap: the stream reconnects forever until the controller
// is stopped.
type Backoff struct {
	Initial    time.Duration
	Multiplier float64
	Max        time.Duration
}

// DefaultBackoff returns the reconnect policy: 500ms initial delay,
// doubling per attempt, capped at 12s. No jitter; the runtime is a
// single local server, so synchronized retries are not a concern.
func DefaultBackoff() Backoff {
	return Backoff{
		Initial:    500 * time.Millisecond,
		Multiplier: 2.0,
		Max:        12 * time.Second,
	}
}

// Delay returns the backoff delay for the given attempt number
// (1-indexed): Initial * Multiplier^(attempt-1), capped at Max.
func (b Backoff) Delay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	delay := float64(b.Initial) * math.Pow(b.Multiplier, float64(attempt-1))
	if delay > float64(b.Max) {
		return b.Max
	}
	return time.Duration(delay)
}
