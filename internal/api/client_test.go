package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/user/lookout/internal/types"
)

func TestDecodeErrorWrappedShape(t *testing.T) {
	e := decodeError(404, []byte(`{"error":{"message":"Thread not found","status":404}}`))
	if e.Message != "Thread not found" || e.Status != 404 {
		t.Errorf("unexpected error: %+v", e)
	}
}

func TestDecodeErrorFlatShape(t *testing.T) {
	e := decodeError(400, []byte(`{"message":"prompt is required"}`))
	if e.Message != "prompt is required" || e.Status != 400 {
		t.Errorf("unexpected error: %+v", e)
	}
}

func TestDecodeErrorFallback(t *testing.T) {
	for _, body := range []string{"", "<html>oops</html>", `{"weird":true}`} {
		e := decodeError(500, []byte(body))
		if e.Message != "Request failed" || e.Status != 500 {
			t.Errorf("body %q: unexpected error %+v", body, e)
		}
	}
}

func TestClientHealth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/health" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		fmt.Fprint(w, `{"status":"ok","service":"runtime","mode":"local"}`)
	}))
	defer srv.Close()

	h, err := New(srv.URL).Health(context.Background())
	if err != nil {
		t.Fatalf("health: %v", err)
	}
	if h.Status != "ok" {
		t.Errorf("unexpected health: %+v", h)
	}
}

func TestClientErrorSurface(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"error":{"message":"Thread not found","status":404}}`)
	}))
	defer srv.Close()

	_, err := New(srv.URL).ThreadDetail(context.Background(), "missing")
	apiErr, ok := err.(*Error)
	if !ok {
		t.Fatalf("expected *Error, got %T: %v", err, err)
	}
	if apiErr.Message != "Thread not found" || apiErr.Status != 404 {
		t.Errorf("unexpected error: %+v", apiErr)
	}
}

func TestClientMutationSendsIdempotencyKey(t *testing.T) {
	var key string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key = r.Header.Get("Idempotency-Key")
		fmt.Fprint(w, `{"id":"t1","title":"new"}`)
	}))
	defer srv.Close()

	if _, err := New(srv.URL).CreateThread(context.Background(), CreateThreadRequest{}); err != nil {
		t.Fatalf("create thread: %v", err)
	}
	if key == "" {
		t.Error("expected Idempotency-Key header on POST")
	}
}

func TestClientEventsStream(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("since_seq"); got != "5" {
			t.Errorf("since_seq = %s, want 5", got)
		}
		if accept := r.Header.Get("Accept"); accept != "text/event-stream" {
			t.Errorf("accept = %s", accept)
		}
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, "event: turn.started\ndata: {\"event\":\"turn.started\",\"seq\":6,\"thread_id\":\"t1\"}\n\n")
		fmt.Fprint(w, ": keepalive\n\n")
		fmt.Fprint(w, "event: turn.completed\ndata: {\"seq\":7}\n\n")
	}))
	defer srv.Close()

	stream, err := New(srv.URL).Events(context.Background(), "t1", 5)
	if err != nil {
		t.Fatalf("events: %v", err)
	}
	defer stream.Close()

	ev, err := stream.Next()
	if err != nil {
		t.Fatalf("next: %v", err)
	}
	if ev.Event != "turn.started" || ev.Seq != 6 || ev.ThreadID != types.ThreadID("t1") {
		t.Errorf("unexpected event: %+v", ev)
	}

	// Second event has no name in the body; the frame's event field
	// fills it in.
	ev, err = stream.Next()
	if err != nil {
		t.Fatalf("next: %v", err)
	}
	if ev.Event != "turn.completed" || ev.Seq != 7 {
		t.Errorf("unexpected event: %+v", ev)
	}

	if _, err := stream.Next(); err != io.EOF {
		t.Errorf("expected EOF at stream end, got %v", err)
	}
}
