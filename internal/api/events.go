package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/user/lookout/internal/types"
)

// EventStream is a live subscription to one thread's event stream. The
// caller owns it: read with Next until it returns an error, then Close.
type EventStream struct {
	body    io.ReadCloser
	scanner *sseScanner
}

// Events opens GET /v1/threads/{id}/events?since_seq=N. The stream
// lives until the context is cancelled, Close is called, or the server
// drops the connection.
func (c *Client) Events(ctx context.Context, id types.ThreadID, sinceSeq int64) (*EventStream, error) {
	u := c.baseURL + "/v1/threads/" + url.PathEscape(string(id)) + "/events?since_seq=" + strconv.FormatInt(sinceSeq, 10)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, &Error{Message: err.Error()}
	}
	req.Header.Set("Accept", "text/event-stream")

	resp, err := c.streamClient.Do(req)
	if err != nil {
		return nil, &Error{Message: err.Error()}
	}
	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
		resp.Body.Close()
		return nil, decodeError(resp.StatusCode, data)
	}

	return &EventStream{
		body:    resp.Body,
		scanner: newSSEScanner(resp.Body),
	}, nil
}

// Next blocks for the next event. Returns io.EOF when the server closes
// the stream cleanly. Frames whose data is not valid JSON are skipped.
func (s *EventStream) Next() (types.Event, error) {
	for s.scanner.Next() {
		frame := s.scanner.Frame()
		var ev types.Event
		if err := json.Unmarshal([]byte(frame.Data), &ev); err != nil {
			continue
		}
		// The event name rides both the SSE event field and the JSON
		// body; prefer the body, fall back to the frame.
		if ev.Event == "" {
			ev.Event = frame.Event
		}
		return ev, nil
	}
	if err := s.scanner.Err(); err != nil {
		return types.Event{}, err
	}
	return types.Event{}, io.EOF
}

// Close terminates the subscription.
func (s *EventStream) Close() error {
	return s.body.Close()
}
