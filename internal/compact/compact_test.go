package compact

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/user/lookout/internal/types"
)

func event(name string, seq int64, payload string) types.Event {
	ev := types.Event{Event: name, Seq: seq}
	if payload != "" {
		ev.Payload = json.RawMessage(payload)
	}
	return ev
}

func TestCompactIdenticalRun(t *testing.T) {
	events := []types.Event{
		event("item.delta", 1, `{"summary":"Streaming"}`),
		event("item.delta", 2, `{"summary":"Streaming"}`),
		event("item.delta", 3, `{"summary":"Streaming"}`),
	}
	res := Compact(events, 0)
	if len(res.Rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(res.Rows))
	}
	if res.Rows[0].Count != 3 {
		t.Errorf("expected count 3, got %d", res.Rows[0].Count)
	}
	if res.Rows[0].Seq != 3 {
		t.Errorf("run should carry latest seq, got %d", res.Rows[0].Seq)
	}
}

func TestCompactNoMergeableAdjacentRows(t *testing.T) {
	var events []types.Event
	for i := int64(1); i <= 20; i++ {
		name := "item.delta"
		if i%3 == 0 {
			name = "turn.lifecycle"
		}
		if i%7 == 0 {
			name = "approval.required"
		}
		events = append(events, event(name, i, ""))
	}
	res := Compact(events, 0)
	for i := 1; i < len(res.Rows); i++ {
		a, b := res.Rows[i-1], res.Rows[i]
		if !a.Critical && !b.Critical && a.Event == b.Event && a.Summary == b.Summary {
			t.Errorf("rows %d and %d are mergeable: %+v %+v", i-1, i, a, b)
		}
	}
}

func TestCompactCriticalNeverMerged(t *testing.T) {
	events := []types.Event{
		event("approval.required", 1, `{"summary":"Approval required"}`),
		event("approval.required", 2, `{"summary":"Approval required"}`),
	}
	res := Compact(events, 0)
	if len(res.Rows) != 2 {
		t.Fatalf("critical events must not merge, got %d rows", len(res.Rows))
	}
}

func TestCompactOverflowKeepsCritical(t *testing.T) {
	var events []types.Event
	for i := int64(1); i <= 45; i++ {
		// Distinct summaries so nothing merges.
		events = append(events, event("item.delta", i, fmt.Sprintf(`{"summary":"chunk %d"}`, i)))
	}
	events = append(events, event("sandbox.denied", 46, ""))

	res := Compact(events, DefaultVisibleLimit)
	if res.OverflowCount == 0 {
		t.Error("expected overflow with 46 rows and limit 40")
	}
	found := false
	for _, row := range res.Rows {
		if row.Event == "sandbox.denied" {
			found = true
		}
	}
	if !found {
		t.Error("critical event missing from visible rows")
	}
}

func TestCompactPinnedCriticalCap(t *testing.T) {
	var events []types.Event
	for i := int64(1); i <= 6; i++ {
		events = append(events, event("approval.required", i, ""))
	}
	res := Compact(events, 0)
	if len(res.PinnedCritical) != PinnedLimit {
		t.Errorf("expected %d pinned rows, got %d", PinnedLimit, len(res.PinnedCritical))
	}
	// All critical rows remain visible even past the pin cap.
	if len(res.Rows) != 6 {
		t.Errorf("expected all 6 critical rows visible, got %d", len(res.Rows))
	}
}

func TestCompactRowsNewestFirst(t *testing.T) {
	events := []types.Event{
		event("turn.started", 1, ""),
		event("turn.completed", 2, ""),
	}
	res := Compact(events, 0)
	if len(res.Rows) != 2 || res.Rows[0].Event != "turn.completed" {
		t.Errorf("rows should be newest-first: %+v", res.Rows)
	}
}

func TestSummarizePriorityOrder(t *testing.T) {
	ev := event("item.completed", 9, `{"status":"done","message":"wrote file","summary":"Applied patch"}`)
	if got := Summarize(ev); got != "Applied patch" {
		t.Errorf("summary key should win: %q", got)
	}

	ev = event("item.completed", 9, `{"status":"done","reason":"tool finished"}`)
	if got := Summarize(ev); got != "tool finished" {
		t.Errorf("reason should beat status: %q", got)
	}
}

func TestSummarizeFallbacks(t *testing.T) {
	if got := Summarize(event("turn.started", 0, "")); got != "Turn started" {
		t.Errorf("expected per-event default, got %q", got)
	}
	if got := Summarize(event("custom.event", 12, "")); got != "custom.event #12" {
		t.Errorf("expected name+seq fallback, got %q", got)
	}
	if got := Summarize(event("custom.event", 0, "")); got != "custom.event" {
		t.Errorf("expected bare name fallback, got %q", got)
	}
}

func TestIsCritical(t *testing.T) {
	for _, name := range []string{"approval.required", "sandbox.denied", "stream.disconnected", "stream.connected"} {
		if !IsCritical(name) {
			t.Errorf("%s should be critical", name)
		}
	}
	if IsCritical("item.delta") {
		t.Error("item.delta should not be critical")
	}
}
