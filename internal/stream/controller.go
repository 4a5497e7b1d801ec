// Package stream maintains at most one live subscription to the
// selected thread's event stream, recovering from disconnects with
// exponential backoff and never reprocessing an event the client has
// already seen.
package stream

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/user/lookout/internal/approval"
	"github.com/user/lookout/internal/types"
)

// State of the controller's connection loop.
type State string

const (
	Disconnected State = "disconnected"
	Connecting   State = "connecting"
	Connected    State = "connected"
	BackingOff   State = "backoff"
)

const (
	defaultRingSize = 500
	// defaultDebounce coalesces refresh signals: many events inside
	// one window produce a single refresh.
	defaultDebounce = 120 * time.Millisecond
	updateBuffer    = 256
)

// UpdateKind tags notifications pushed to the UI.
type UpdateKind int

const (
	// UpdateStatus fires on connection state transitions.
	UpdateStatus UpdateKind = iota
	// UpdateEvent fires for each accepted event.
	UpdateEvent
	// UpdateRefresh is the debounced signal to refetch thread detail
	// and the thread list.
	UpdateRefresh
	// UpdateApproval fires when a new pending approval is extracted.
	UpdateApproval
)

// Update is a wakeup notification. Receivers pull current state from
// the controller's accessors; a dropped Update loses nothing but the
// wakeup.
type Update struct {
	Kind     UpdateKind
	ThreadID types.ThreadID
}

// Controller owns the single subscription and the single pending
// reconnect timer. All mutable state is guarded by mu; async
// continuations carry a generation token and discard themselves if the
// controller moved on while they were in flight.
type Controller struct {
	source   Source
	backoff  Backoff
	debounce time.Duration
	logger   *slog.Logger

	updates chan Update

	mu           sync.Mutex
	gen          int
	cancel       context.CancelFunc
	threadID     types.ThreadID
	state        State
	lastSeq      int64
	events       *ring
	detail       *types.ThreadDetail
	approvals    []approval.Approval
	approvalSeen map[string]bool
	refreshTimer *time.Timer
}

// Option configures a Controller.
type Option func(*Controller)

// WithBackoff overrides the reconnect policy.
func WithBackoff(b Backoff) Option {
	return func(c *Controller) { c.backoff = b }
}

// WithDebounce overrides the refresh debounce window.
func WithDebounce(d time.Duration) Option {
	return func(c *Controller) { c.debounce = d }
}

// WithRingSize overrides the event buffer capacity.
func WithRingSize(n int) Option {
	return func(c *Controller) { c.events = newRing(n) }
}

// New creates a stopped Controller reading from source.
func New(source Source, opts ...Option) *Controller {
	c := &Controller{
		source:       source,
		backoff:      DefaultBackoff(),
		debounce:     defaultDebounce,
		logger:       slog.Default(),
		updates:      make(chan Update, updateBuffer),
		state:        Disconnected,
		events:       newRing(defaultRingSize),
		approvalSeen: make(map[string]bool),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Updates is the notification channel. It is never closed; stop reading
// after Stop.
func (c *Controller) Updates() <-chan Update { return c.updates }

// Start begins streaming the given thread, tearing down any previous
// subscription first. Teardown is synchronous: by the time Start
// returns, stale continuations are fenced off by the new generation.
func (c *Controller) Start(threadID types.ThreadID) {
	c.mu.Lock()
	c.stopLocked()
	c.gen++
	gen := c.gen
	c.threadID = threadID
	c.lastSeq = 0
	c.events.reset()
	c.detail = nil
	c.approvals = nil
	c.approvalSeen = make(map[string]bool)
	c.state = Connecting

	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	c.mu.Unlock()

	c.notify(Update{Kind: UpdateStatus, ThreadID: threadID})
	go c.run(ctx, gen, threadID)
}

// Stop tears down the subscription and any pending timers. Safe to call
// repeatedly.
func (c *Controller) Stop() {
	c.mu.Lock()
	c.stopLocked()
	c.gen++
	c.threadID = ""
	c.state = Disconnected
	c.mu.Unlock()
}

func (c *Controller) stopLocked() {
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	if c.refreshTimer != nil {
		c.refreshTimer.Stop()
		c.refreshTimer = nil
	}
}

// run is the connection loop. It is the only goroutine that touches the
// subscription, so "one subscription, one pending reconnect timer"
// holds by construction.
func (c *Controller) run(ctx context.Context, gen int, threadID types.ThreadID) {
	attempt := 0
	for {
		c.setState(gen, Connecting)

		// Snapshot first, then subscribe from its baseline. Sequential
		// so the snapshot never reflects a seq past the stream start.
		detail, err := c.source.ThreadDetail(ctx, threadID)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			c.logger.Debug("snapshot fetch failed", "thread", threadID, "error", err)
			attempt++
			if !c.wait(ctx, gen, attempt) {
				return
			}
			continue
		}
		since := c.applySnapshot(gen, detail)
		if since < 0 {
			return
		}

		sub, err := c.source.Events(ctx, threadID, since)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			c.logger.Debug("stream open failed", "thread", threadID, "error", err)
			attempt++
			if !c.wait(ctx, gen, attempt) {
				return
			}
			continue
		}

		attempt = 0
		c.setState(gen, Connected)
		c.acceptLocal(gen, "stream.connected")

		// Unblock Next when the controller is torn down mid-read.
		watchDone := make(chan struct{})
		go func() {
			select {
			case <-ctx.Done():
				sub.Close()
			case <-watchDone:
			}
		}()

		for {
			ev, err := sub.Next()
			if err != nil {
				sub.Close()
				if ctx.Err() != nil {
					close(watchDone)
					return
				}
				c.logger.Debug("stream dropped", "thread", threadID, "error", err)
				c.acceptLocal(gen, "stream.disconnected")
				break
			}
			c.accept(gen, ev)
		}
		close(watchDone)

		attempt++
		if !c.wait(ctx, gen, attempt) {
			return
		}
	}
}

// wait sleeps for the backoff delay. Returns false if the context was
// cancelled while waiting.
func (c *Controller) wait(ctx context.Context, gen int, attempt int) bool {
	c.setState(gen, BackingOff)
	timer := time.NewTimer(c.backoff.Delay(attempt))
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

// applySnapshot records the thread detail and advances the seq floor to
// the snapshot's baseline. Returns the floor, or -1 if the controller
// moved on.
func (c *Controller) applySnapshot(gen int, detail *types.ThreadDetail) int64 {
	c.mu.Lock()
	if gen != c.gen {
		c.mu.Unlock()
		return -1
	}
	c.detail = detail
	if detail.LatestSeq > c.lastSeq {
		c.lastSeq = detail.LatestSeq
	}
	since := c.lastSeq
	threadID := c.threadID
	c.mu.Unlock()

	c.notify(Update{Kind: UpdateRefresh, ThreadID: threadID})
	return since
}

// accept applies the seq floor, buffers the event, extracts approvals,
// and schedules the debounced refresh.
func (c *Controller) accept(gen int, ev types.Event) {
	c.mu.Lock()
	if gen != c.gen {
		c.mu.Unlock()
		return
	}
	if ev.Seq > 0 {
		if ev.Seq <= c.lastSeq {
			// Duplicate or stale replay after reconnect.
			c.mu.Unlock()
			return
		}
		c.lastSeq = ev.Seq
	}
	c.events.append(ev)
	threadID := c.threadID

	var newApproval bool
	if a, ok := approval.Extract(ev); ok && !c.approvalSeen[a.ID] {
		c.approvalSeen[a.ID] = true
		c.approvals = append(c.approvals, a)
		newApproval = true
	}
	c.scheduleRefreshLocked(gen, threadID)
	c.mu.Unlock()

	c.notify(Update{Kind: UpdateEvent, ThreadID: threadID})
	if newApproval {
		c.notify(Update{Kind: UpdateApproval, ThreadID: threadID})
	}
}

// acceptLocal buffers a client-generated marker event (stream connect
// and disconnect). These carry no seq and never touch the floor.
func (c *Controller) acceptLocal(gen int, name string) {
	c.accept(gen, types.Event{
		Event:     name,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// scheduleRefreshLocked arms the debounce timer if it is not already
// pending. Caller holds mu.
func (c *Controller) scheduleRefreshLocked(gen int, threadID types.ThreadID) {
	if c.refreshTimer != nil {
		return
	}
	c.refreshTimer = time.AfterFunc(c.debounce, func() {
		c.mu.Lock()
		stale := gen != c.gen
		c.refreshTimer = nil
		c.mu.Unlock()
		if stale {
			return
		}
		c.notify(Update{Kind: UpdateRefresh, ThreadID: threadID})
	})
}

func (c *Controller) setState(gen int, s State) {
	c.mu.Lock()
	if gen != c.gen {
		c.mu.Unlock()
		return
	}
	c.state = s
	threadID := c.threadID
	c.mu.Unlock()
	c.notify(Update{Kind: UpdateStatus, ThreadID: threadID})
}

// notify pushes a wakeup without ever blocking the connection loop.
func (c *Controller) notify(u Update) {
	select {
	case c.updates <- u:
	default:
	}
}

// State returns the connection loop state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// ThreadID returns the thread being streamed, if any.
func (c *Controller) ThreadID() types.ThreadID {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.threadID
}

// LastSeq returns the monotonic sequence floor.
func (c *Controller) LastSeq() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastSeq
}

// Events returns the buffered events for the active thread, oldest
// first.
func (c *Controller) Events() []types.Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.events.snapshot()
}

// Detail returns the latest thread snapshot, or nil before the first
// successful fetch.
func (c *Controller) Detail() *types.ThreadDetail {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.detail
}

// Approvals returns the pending approvals extracted so far, in arrival
// order.
func (c *Controller) Approvals() []approval.Approval {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]approval.Approval, len(c.approvals))
	copy(out, c.approvals)
	return out
}
