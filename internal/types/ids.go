package types

import "github.com/google/uuid"

type ThreadID string
type TurnID string
type ItemID string
type AutomationID string
type TaskID string
type SessionID string
type NoticeID string

// NewNoticeID returns a unique identifier for a client-local transient
// notice.
func NewNoticeID() NoticeID {
	return NoticeID(uuid.New().String())
}

// NewIdempotencyKey returns a fresh key for the Idempotency-Key header
// sent with mutating requests.
func NewIdempotencyKey() string {
	return uuid.New().String()
}
