// Package compact collapses the live event feed into a bounded set of
// display rows. Runs of identical consecutive non-critical events
// become one row with a count; critical events always survive the
// visibility limit.
package compact

import (
	"encoding/json"
	"fmt"

	"github.com/user/lookout/internal/types"
)

// DefaultVisibleLimit is how many rows the feed shows before older
// non-critical rows are dropped into the overflow count.
const DefaultVisibleLimit = 40

// PinnedLimit caps how many critical rows are surfaced independent of
// scroll position.
const PinnedLimit = 4

// criticalEvents must always remain visible regardless of compaction
// and overflow limits. This set is policy, not configuration.
var criticalEvents = map[string]bool{
	"approval.required":   true,
	"sandbox.denied":      true,
	"stream.disconnected": true,
	"stream.connected":    true,
}

// IsCritical reports whether the named event bypasses visibility limits.
func IsCritical(event string) bool {
	return criticalEvents[event]
}

// Row is a run-length-encoded projection of one or more consecutive
// events sharing the same name and summary.
type Row struct {
	ID              string
	Event           string
	Summary         string
	Count           int
	Critical        bool
	LatestTimestamp string
	Seq             int64
}

// Result is the compactor output. Rows are newest-first. OverflowCount
// is the number of rows hidden by the visibility limit. PinnedCritical
// holds up to PinnedLimit of the most recent critical rows.
type Result struct {
	Rows           []Row
	OverflowCount  int
	PinnedCritical []Row
}

// summaryKeys are probed in priority order against the event payload.
var summaryKeys = []string{"summary", "message", "reason", "status", "detail"}

// defaultSummaries maps event names to a fixed summary used when the
// payload offers nothing human-readable.
var defaultSummaries = map[string]string{
	"thread.started":           "Thread started",
	"thread.forked":            "Thread forked",
	"thread.updated":           "Thread updated",
	"turn.started":             "Turn started",
	"turn.lifecycle":           "Turn lifecycle update",
	"turn.steered":             "Turn steered",
	"turn.interrupt_requested": "Interrupt requested",
	"turn.completed":           "Turn completed",
	"item.started":             "Item started",
	"item.delta":               "Streaming output",
	"item.completed":           "Item completed",
	"item.failed":              "Item failed",
	"item.interrupted":         "Item interrupted",
	"approval.required":        "Approval required",
	"sandbox.denied":           "Sandbox denied an operation",
	"stream.connected":         "Event stream connected",
	"stream.disconnected":      "Event stream disconnected",
}

// Summarize derives a human-readable one-liner for an event: payload
// fields in priority order, then the per-event default, then the event
// name itself (with the sequence number when present).
func Summarize(ev types.Event) string {
	if len(ev.Payload) > 0 {
		var fields map[string]any
		if err := json.Unmarshal(ev.Payload, &fields); err == nil {
			for _, key := range summaryKeys {
				if s, ok := fields[key].(string); ok && s != "" {
					return s
				}
			}
		}
	}
	if s, ok := defaultSummaries[ev.Event]; ok {
		return s
	}
	if ev.Seq > 0 {
		return fmt.Sprintf("%s #%d", ev.Event, ev.Seq)
	}
	return ev.Event
}

// Compact folds events (in arrival order, oldest first) into display
// rows. Two adjacent output rows never share both event name and
// summary unless at least one is critical.
func Compact(events []types.Event, limit int) Result {
	if limit <= 0 {
		limit = DefaultVisibleLimit
	}

	// Build runs oldest-first.
	var rows []Row
	for i, ev := range events {
		critical := IsCritical(ev.Event)
		summary := Summarize(ev)

		if n := len(rows); n > 0 && !critical {
			last := &rows[n-1]
			if !last.Critical && last.Event == ev.Event && last.Summary == summary {
				last.Count++
				if ev.Timestamp != "" {
					last.LatestTimestamp = ev.Timestamp
				}
				if ev.Seq > 0 {
					last.Seq = ev.Seq
				}
				continue
			}
		}

		row := Row{
			Event:           ev.Event,
			Summary:         summary,
			Count:           1,
			Critical:        critical,
			LatestTimestamp: ev.Timestamp,
			Seq:             ev.Seq,
		}
		if ev.Seq > 0 {
			row.ID = fmt.Sprintf("%s:%d", ev.Event, ev.Seq)
		} else {
			row.ID = fmt.Sprintf("%s:idx%d", ev.Event, i)
		}
		rows = append(rows, row)
	}

	// Newest first for display.
	for i, j := 0, len(rows)-1; i < j; i, j = i+1, j-1 {
		rows[i], rows[j] = rows[j], rows[i]
	}

	res := Result{}
	for i, row := range rows {
		if row.Critical && len(res.PinnedCritical) < PinnedLimit {
			res.PinnedCritical = append(res.PinnedCritical, row)
		}
		if row.Critical || i < limit {
			res.Rows = append(res.Rows, row)
		} else {
			res.OverflowCount++
		}
	}
	return res
}
