package types

import "testing"

func TestNewNoticeIDUnique(t *testing.T) {
	a := NewNoticeID()
	b := NewNoticeID()
	if a == b {
		t.Errorf("expected unique notice ids, got %s twice", a)
	}
	if a == "" {
		t.Error("notice id should not be empty")
	}
}

func TestNewIdempotencyKey(t *testing.T) {
	k := NewIdempotencyKey()
	if len(k) != 36 {
		t.Errorf("expected uuid-shaped key, got %q", k)
	}
	if k == NewIdempotencyKey() {
		t.Error("idempotency keys must be unique per call")
	}
}
