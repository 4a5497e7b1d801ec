package notify

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/user/lookout/internal/approval"
)

type fakeNotifier struct {
	name string
	err  error
	sent []Notice
}

func (f *fakeNotifier) Name() string { return f.name }
func (f *fakeNotifier) Send(_ context.Context, n Notice) error {
	f.sent = append(f.sent, n)
	return f.err
}

func TestDispatchFansOut(t *testing.T) {
	a := &fakeNotifier{name: "a"}
	b := &fakeNotifier{name: "b"}
	reg := NewRegistry(nil)
	reg.Register(a)
	reg.Register(b)

	if err := reg.Dispatch(context.Background(), Notice{Title: "hi"}); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if len(a.sent) != 1 || len(b.sent) != 1 {
		t.Fatalf("sent counts: a=%d b=%d", len(a.sent), len(b.sent))
	}
}

func TestDispatchPartialFailureIsNotAnError(t *testing.T) {
	reg := NewRegistry(nil)
	reg.Register(&fakeNotifier{name: "broken", err: errors.New("boom")})
	reg.Register(&fakeNotifier{name: "ok"})

	if err := reg.Dispatch(context.Background(), Notice{Title: "hi"}); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
}

func TestDispatchAllFailed(t *testing.T) {
	reg := NewRegistry(nil)
	reg.Register(&fakeNotifier{name: "broken", err: errors.New("boom")})

	err := reg.Dispatch(context.Background(), Notice{Title: "hi"})
	if err == nil || !strings.Contains(err.Error(), "broken") {
		t.Fatalf("err = %v", err)
	}
}

func TestDispatchNoChannels(t *testing.T) {
	if err := NewRegistry(nil).Dispatch(context.Background(), Notice{}); err != nil {
		t.Fatalf("dispatch with no channels: %v", err)
	}
}

func TestFromApproval(t *testing.T) {
	n := FromApproval("thr-1", approval.Approval{
		Event:       "approval.required",
		RequestType: "shell command",
		Scope:       "workspace write",
		Consequence: "Runs rm -rf build",
		Snippet:     `{"command":"rm -rf build"}`,
	})
	if n.Title != "Approval required: shell command" {
		t.Fatalf("title = %q", n.Title)
	}
	if n.ThreadID != "thr-1" || n.Event != "approval.required" {
		t.Fatalf("notice = %+v", n)
	}
	if n.ID == "" {
		t.Fatal("notice id not assigned")
	}
	for _, want := range []string{"workspace write", "rm -rf build"} {
		if !strings.Contains(n.Body, want) {
			t.Fatalf("body %q missing %q", n.Body, want)
		}
	}
}

func TestSplitMessage(t *testing.T) {
	long := strings.Repeat("x", maxTelegramMessage*2+10)
	parts := splitMessage(long)
	if len(parts) != 3 {
		t.Fatalf("parts = %d, want 3", len(parts))
	}
	for i, part := range parts[:2] {
		if len(part) != maxTelegramMessage {
			t.Fatalf("part %d length = %d", i, len(part))
		}
	}
	if len(parts[2]) != 10 {
		t.Fatalf("tail length = %d, want 10", len(parts[2]))
	}
}
