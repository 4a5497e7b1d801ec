package api

import (
	"strings"
	"testing"
)

func TestSSEScannerFrames(t *testing.T) {
	input := "event: turn.started\ndata: {\"seq\":1}\n\n" +
		": keepalive\n\n" +
		"event: item.delta\ndata: {\"seq\":2}\n\n"

	s := newSSEScanner(strings.NewReader(input))

	if !s.Next() {
		t.Fatal("expected first frame")
	}
	if f := s.Frame(); f.Event != "turn.started" || f.Data != `{"seq":1}` {
		t.Errorf("unexpected frame: %+v", f)
	}

	if !s.Next() {
		t.Fatal("expected second frame (keepalive skipped)")
	}
	if f := s.Frame(); f.Event != "item.delta" {
		t.Errorf("unexpected frame: %+v", f)
	}

	if s.Next() {
		t.Error("expected end of stream")
	}
	if err := s.Err(); err != nil {
		t.Errorf("clean EOF should not error: %v", err)
	}
}

func TestSSEScannerMultiLineData(t *testing.T) {
	input := "data: line one\ndata: line two\n\n"
	s := newSSEScanner(strings.NewReader(input))
	if !s.Next() {
		t.Fatal("expected frame")
	}
	if f := s.Frame(); f.Data != "line one\nline two" {
		t.Errorf("multi-line data not joined: %q", f.Data)
	}
}

func TestSSEScannerPartialFinalFrame(t *testing.T) {
	// No trailing blank line before EOF.
	input := "event: thread.updated\ndata: {}"
	s := newSSEScanner(strings.NewReader(input))
	if !s.Next() {
		t.Fatal("expected final partial frame")
	}
	if f := s.Frame(); f.Event != "thread.updated" || f.Data != "{}" {
		t.Errorf("unexpected frame: %+v", f)
	}
	if s.Next() {
		t.Error("expected stream end after partial frame")
	}
}

func TestSSEScannerCarriageReturns(t *testing.T) {
	input := "event: turn.completed\r\ndata: {\"seq\":3}\r\n\r\n"
	s := newSSEScanner(strings.NewReader(input))
	if !s.Next() {
		t.Fatal("expected frame")
	}
	if f := s.Frame(); f.Event != "turn.completed" {
		t.Errorf("CR not stripped: %+v", f)
	}
}
