// Package approval distills approval.required and sandbox.denied
// events into records the dashboard can act on. Extraction is a pure
// function; deduplication by ID is the caller's responsibility.
package approval

import (
	"encoding/json"
	"fmt"

	"github.com/user/lookout/internal/types"
)

// Statuses of a pending approval.
const (
	StatusPending = "pending"
	StatusDenied  = "denied"
)

// snippetLimit bounds the raw-payload excerpt kept for audit display.
const snippetLimit = 240

// Approval is a pending decision surfaced to the user. ID is stable for
// a given event so repeated deliveries collapse to one record.
type Approval struct {
	ID          string `json:"id"`
	Event       string `json:"event"`
	Status      string `json:"status"`
	RequestType string `json:"request_type"`
	Scope       string `json:"scope"`
	Consequence string `json:"consequence"`
	Snippet     string `json:"snippet,omitempty"`
	Seq         int64  `json:"seq,omitempty"`
	Timestamp   string `json:"timestamp,omitempty"`
}

// Candidate payload keys, probed in priority order. Runtimes and tools
// disagree on field names, so each column tolerates several shapes.
var (
	requestTypeKeys = []string{"request_type", "type", "kind", "tool", "tool_name"}
	scopeKeys       = []string{"scope", "target", "path", "cwd", "command"}
	consequenceKeys = []string{"consequence", "reason", "impact", "detail", "message"}
)

// fallbacks supplies per-event defaults when the payload has no usable
// value for a field.
var fallbacks = map[string]struct{ requestType, scope, consequence string }{
	"approval.required": {"action", "unspecified scope", "requires your approval"},
	"sandbox.denied":    {"sandbox operation", "sandbox policy", "denied by sandbox policy"},
}

// Extract returns the approval carried by ev, or ok=false for any event
// that is not approval.required or sandbox.denied.
func Extract(ev types.Event) (Approval, bool) {
	var status string
	switch ev.Event {
	case "approval.required":
		status = StatusPending
	case "sandbox.denied":
		status = StatusDenied
	default:
		return Approval{}, false
	}

	var fields map[string]any
	if len(ev.Payload) > 0 {
		// Best effort: a malformed payload still yields an approval
		// with fallback fields.
		_ = json.Unmarshal(ev.Payload, &fields)
	}

	fb := fallbacks[ev.Event]
	a := Approval{
		ID:          stableID(ev),
		Event:       ev.Event,
		Status:      status,
		RequestType: probe(fields, requestTypeKeys, fb.requestType),
		Scope:       probe(fields, scopeKeys, fb.scope),
		Consequence: probe(fields, consequenceKeys, fb.consequence),
		Snippet:     snippet(ev.Payload),
		Seq:         ev.Seq,
		Timestamp:   ev.Timestamp,
	}
	return a, true
}

// stableID derives the approval identity from the event name and its
// sequence number, falling back to the timestamp for seq-less events.
func stableID(ev types.Event) string {
	if ev.Seq > 0 {
		return fmt.Sprintf("%s:%d", ev.Event, ev.Seq)
	}
	return fmt.Sprintf("%s:%s", ev.Event, ev.Timestamp)
}

// probe returns the first non-empty string among keys, else fallback.
func probe(fields map[string]any, keys []string, fallback string) string {
	for _, key := range keys {
		if s, ok := fields[key].(string); ok && s != "" {
			return s
		}
	}
	return fallback
}

// snippet renders up to snippetLimit characters of the raw payload for
// audit display.
func snippet(payload json.RawMessage) string {
	if len(payload) == 0 {
		return ""
	}
	s := string(payload)
	// Recompact when possible so the excerpt spends its budget on
	// content rather than whitespace.
	var v any
	if err := json.Unmarshal(payload, &v); err == nil {
		if data, err := json.Marshal(v); err == nil {
			s = string(data)
		}
	}
	if len(s) > snippetLimit {
		s = s[:snippetLimit]
	}
	return s
}
