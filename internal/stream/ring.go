package stream

import "github.com/user/lookout/internal/types"

// ring is a bounded event buffer for the active thread. Oldest events
// are dropped once the capacity is reached. Not safe for concurrent
// use; the controller serialises access.
type ring struct {
	buf []types.Event
	max int
}

func newRing(max int) *ring {
	if max <= 0 {
		max = defaultRingSize
	}
	return &ring{max: max}
}

func (r *ring) append(ev types.Event) {
	r.buf = append(r.buf, ev)
	if len(r.buf) > r.max {
		// Shift rather than reslice so the backing array does not pin
		// dropped events.
		copy(r.buf, r.buf[len(r.buf)-r.max:])
		r.buf = r.buf[:r.max]
	}
}

// snapshot returns a copy of the buffered events, oldest first.
func (r *ring) snapshot() []types.Event {
	out := make([]types.Event, len(r.buf))
	copy(out, r.buf)
	return out
}

func (r *ring) reset() {
	r.buf = nil
}
