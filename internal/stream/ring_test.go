package stream

import (
	"testing"

	"github.com/user/lookout/internal/types"
)

func TestRingDropsOldest(t *testing.T) {
	r := newRing(3)
	for i := int64(1); i <= 5; i++ {
		r.append(types.Event{Event: "item.delta", Seq: i})
	}
	got := r.snapshot()
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	if got[0].Seq != 3 || got[2].Seq != 5 {
		t.Errorf("unexpected window: %+v", got)
	}
}

func TestRingReset(t *testing.T) {
	r := newRing(10)
	r.append(types.Event{Event: "turn.started", Seq: 1})
	r.reset()
	if len(r.snapshot()) != 0 {
		t.Error("reset should discard all events")
	}
}

func TestRingSnapshotIsCopy(t *testing.T) {
	r := newRing(10)
	r.append(types.Event{Event: "turn.started", Seq: 1})
	snap := r.snapshot()
	snap[0].Seq = 99
	if r.snapshot()[0].Seq != 1 {
		t.Error("snapshot must not alias the buffer")
	}
}
