package approval

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/user/lookout/internal/types"
)

func TestExtractApprovalRequired(t *testing.T) {
	ev := types.Event{
		Event:   "approval.required",
		Seq:     17,
		Payload: json.RawMessage(`{"request_type":"shell command","scope":"workspace write","reason":"touches files outside the sandbox"}`),
	}
	a, ok := Extract(ev)
	if !ok {
		t.Fatal("expected an approval")
	}
	if a.Status != StatusPending {
		t.Errorf("status = %s, want pending", a.Status)
	}
	if a.RequestType != "shell command" {
		t.Errorf("request type = %q", a.RequestType)
	}
	if a.Scope != "workspace write" {
		t.Errorf("scope = %q", a.Scope)
	}
	if a.Consequence != "touches files outside the sandbox" {
		t.Errorf("consequence = %q", a.Consequence)
	}
	if a.ID != "approval.required:17" {
		t.Errorf("id = %q", a.ID)
	}
}

func TestExtractSandboxDenied(t *testing.T) {
	ev := types.Event{
		Event:   "sandbox.denied",
		Seq:     3,
		Payload: json.RawMessage(`{"tool":"shell","path":"/etc/hosts"}`),
	}
	a, ok := Extract(ev)
	if !ok {
		t.Fatal("expected an approval")
	}
	if a.Status != StatusDenied {
		t.Errorf("status = %s, want denied", a.Status)
	}
	if a.RequestType != "shell" {
		t.Errorf("request type = %q", a.RequestType)
	}
	if a.Scope != "/etc/hosts" {
		t.Errorf("scope = %q", a.Scope)
	}
	if a.Consequence != "denied by sandbox policy" {
		t.Errorf("expected fallback consequence, got %q", a.Consequence)
	}
}

func TestExtractIgnoresOtherEvents(t *testing.T) {
	for _, name := range []string{"turn.started", "item.delta", "stream.connected"} {
		if _, ok := Extract(types.Event{Event: name}); ok {
			t.Errorf("%s should not produce an approval", name)
		}
	}
}

func TestExtractFallbacksOnEmptyPayload(t *testing.T) {
	a, ok := Extract(types.Event{Event: "approval.required", Timestamp: "2026-08-29T12:00:00Z"})
	if !ok {
		t.Fatal("expected an approval")
	}
	if a.RequestType != "action" || a.Scope != "unspecified scope" {
		t.Errorf("unexpected fallbacks: %+v", a)
	}
	if a.ID != "approval.required:2026-08-29T12:00:00Z" {
		t.Errorf("seq-less id should use timestamp: %q", a.ID)
	}
	if a.Snippet != "" {
		t.Errorf("empty payload should have no snippet: %q", a.Snippet)
	}
}

func TestSnippetTruncated(t *testing.T) {
	big := `{"detail":"` + strings.Repeat("x", 500) + `"}`
	a, ok := Extract(types.Event{Event: "approval.required", Seq: 1, Payload: json.RawMessage(big)})
	if !ok {
		t.Fatal("expected an approval")
	}
	if len(a.Snippet) != 240 {
		t.Errorf("snippet length = %d, want 240", len(a.Snippet))
	}
}
