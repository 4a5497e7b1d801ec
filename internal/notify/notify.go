// Package notify pushes approval and sandbox alerts to external
// channels so a user away from the dashboard still hears about
// blocked runs.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/user/lookout/internal/approval"
	"github.com/user/lookout/internal/types"
)

// Notice is a single outbound alert.
type Notice struct {
	ID        types.NoticeID
	ThreadID  types.ThreadID
	Event     string
	Title     string
	Body      string
	Timestamp time.Time
}

// Notifier delivers a notice to one channel.
type Notifier interface {
	Name() string
	Send(ctx context.Context, n Notice) error
}

// Registry fans a notice out to every registered channel. Channels
// that fail are logged and skipped; one broken channel must not
// silence the rest.
type Registry struct {
	mu        sync.RWMutex
	notifiers []Notifier
	logger    *slog.Logger
}

func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{logger: logger}
}

func (r *Registry) Register(n Notifier) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notifiers = append(r.notifiers, n)
}

// Dispatch sends the notice to all channels. It returns an error only
// if every channel failed.
func (r *Registry) Dispatch(ctx context.Context, n Notice) error {
	r.mu.RLock()
	targets := make([]Notifier, len(r.notifiers))
	copy(targets, r.notifiers)
	r.mu.RUnlock()

	if len(targets) == 0 {
		return nil
	}
	var failed []string
	for _, target := range targets {
		if err := target.Send(ctx, n); err != nil {
			r.logger.Warn("notify send failed", "channel", target.Name(), "error", err)
			failed = append(failed, target.Name())
		}
	}
	if len(failed) == len(targets) {
		return fmt.Errorf("all notify channels failed: %s", strings.Join(failed, ", "))
	}
	return nil
}

// FromApproval builds the standard notice for a pending approval.
func FromApproval(threadID types.ThreadID, a approval.Approval) Notice {
	title := "Approval required"
	if a.RequestType != "" {
		title = fmt.Sprintf("Approval required: %s", a.RequestType)
	}
	var lines []string
	if a.Scope != "" {
		lines = append(lines, "Scope: "+a.Scope)
	}
	if a.Consequence != "" {
		lines = append(lines, a.Consequence)
	}
	if a.Snippet != "" {
		lines = append(lines, a.Snippet)
	}
	return Notice{
		ID:        types.NewNoticeID(),
		ThreadID:  threadID,
		Event:     a.Event,
		Title:     title,
		Body:      strings.Join(lines, "\n"),
		Timestamp: time.Now().UTC(),
	}
}
