package api

import (
	"encoding/json"
	"fmt"
)

// Error is a structured failure from the runtime API. Status is the
// HTTP status code, or 0 for transport-level failures.
type Error struct {
	Message string
	Status  int
}

func (e *Error) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("%s (status %d)", e.Message, e.Status)
	}
	return e.Message
}

// decodeError parses an error response body best-effort. The runtime
// wraps errors as {"error":{"message","status"}}; older endpoints return
// a flat {"message"}. Anything else falls back to "Request failed" with
// the HTTP status.
func decodeError(status int, body []byte) *Error {
	var wrapped struct {
		Error struct {
			Message string `json:"message"`
			Status  int    `json:"status"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &wrapped); err == nil && wrapped.Error.Message != "" {
		s := wrapped.Error.Status
		if s == 0 {
			s = status
		}
		return &Error{Message: wrapped.Error.Message, Status: s}
	}

	var flat struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &flat); err == nil && flat.Message != "" {
		return &Error{Message: flat.Message, Status: status}
	}

	return &Error{Message: "Request failed", Status: status}
}
