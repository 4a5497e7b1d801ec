package audit

import (
	"testing"

	"github.com/user/lookout/internal/approval"
)

func TestAppendAndTail(t *testing.T) {
	log := NewLog(t.TempDir())

	for i, rt := range []string{"shell command", "file write", "network"} {
		a := approval.Approval{
			ID:          "evt:" + string(rune('1'+i)),
			Event:       "approval.required",
			Status:      approval.StatusPending,
			RequestType: rt,
		}
		if err := log.Append("thr-1", a); err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}

	records, err := log.Tail("thr-1", 2)
	if err != nil {
		t.Fatalf("tail: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("records = %d, want 2", len(records))
	}
	if records[0].Approval.RequestType != "file write" || records[1].Approval.RequestType != "network" {
		t.Fatalf("tail order wrong: %q, %q", records[0].Approval.RequestType, records[1].Approval.RequestType)
	}
	if records[0].ThreadID != "thr-1" {
		t.Fatalf("thread id = %q", records[0].ThreadID)
	}
	if records[0].RecordedAt.IsZero() {
		t.Fatal("recorded_at not set")
	}

	count, err := log.Count("thr-1")
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 3 {
		t.Fatalf("count = %d, want 3", count)
	}
}

func TestTailMissingThread(t *testing.T) {
	log := NewLog(t.TempDir())

	records, err := log.Tail("thr-missing", 10)
	if err != nil {
		t.Fatalf("tail: %v", err)
	}
	if records != nil {
		t.Fatalf("records = %v, want nil", records)
	}

	count, err := log.Count("thr-missing")
	if err != nil || count != 0 {
		t.Fatalf("count = %d, %v", count, err)
	}
}

func TestThreadsAreIsolated(t *testing.T) {
	log := NewLog(t.TempDir())

	if err := log.Append("thr-a", approval.Approval{ID: "1", Event: "approval.required"}); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := log.Append("thr-b", approval.Approval{ID: "2", Event: "sandbox.denied"}); err != nil {
		t.Fatalf("append: %v", err)
	}

	records, err := log.Tail("thr-a", 10)
	if err != nil {
		t.Fatalf("tail: %v", err)
	}
	if len(records) != 1 || records[0].Approval.ID != "1" {
		t.Fatalf("thr-a records = %+v", records)
	}
}
