// Package runstate derives the single status badge shown for the
// selected thread. Classification is a pure function over current
// inputs, computed fresh on every render so it can never drift from
// the state it summarises.
package runstate

import (
	"fmt"

	"github.com/user/lookout/internal/types"
)

// Inputs are the signals the classifier folds into one badge.
type Inputs struct {
	Connection       types.ConnectionState
	PendingApprovals int
	ActiveTurnStatus string
	LatestTurnStatus string
	RunningTasks     int
	QueuedTasks      int
	LatestTaskStatus string
}

// Detail is the derived badge. Reason explains the winning branch in
// prose; ReasonSource names the input that decided it, for tests and
// debugging.
type Detail struct {
	State        string
	Tone         string
	Label        string
	Reason       string
	ReasonSource string
}

// Badge tones understood by the UI layer.
const (
	ToneNeutral = "neutral"
	ToneInfo    = "info"
	ToneSuccess = "success"
	ToneWarning = "warning"
	ToneDanger  = "danger"
)

// Classify maps the inputs to a badge using a fixed priority order;
// the first matching branch wins.
func Classify(in Inputs) Detail {
	switch {
	case in.Connection == types.ConnChecking:
		return Detail{
			State: "checking", Tone: ToneNeutral, Label: "Checking runtime",
			Reason:       "health check has not resolved yet",
			ReasonSource: "connection",
		}
	case in.Connection == types.ConnReconnecting:
		return Detail{
			State: "reconnecting", Tone: ToneWarning, Label: "Reconnecting",
			Reason:       "runtime stopped responding, retrying",
			ReasonSource: "connection",
		}
	case in.PendingApprovals > 0:
		return Detail{
			State: "waiting-approval", Tone: ToneWarning, Label: "Awaiting approval",
			Reason:       fmt.Sprintf("%d approval requests pending", in.PendingApprovals),
			ReasonSource: "approvals",
		}
	case in.ActiveTurnStatus == types.TurnQueued || in.ActiveTurnStatus == types.TurnInProgress:
		return Detail{
			State: "running", Tone: ToneInfo, Label: "Agent working",
			Reason:       fmt.Sprintf("active turn is %s", in.ActiveTurnStatus),
			ReasonSource: "turn",
		}
	case in.RunningTasks > 0 || in.QueuedTasks > 0:
		return Detail{
			State: "tasks-running", Tone: ToneInfo, Label: "Tasks running",
			Reason:       fmt.Sprintf("%d running and %d queued background tasks", in.RunningTasks, in.QueuedTasks),
			ReasonSource: "tasks",
		}
	case in.Connection == types.ConnOffline:
		return Detail{
			State: "offline", Tone: ToneDanger, Label: "Runtime offline",
			Reason:       "health checks are failing",
			ReasonSource: "connection",
		}
	case in.LatestTurnStatus == types.TurnFailed ||
		in.LatestTurnStatus == types.TurnInterrupted ||
		in.LatestTurnStatus == types.TurnCanceled:
		return Detail{
			State: "attention", Tone: ToneDanger, Label: "Needs attention",
			Reason:       fmt.Sprintf("latest turn %s", in.LatestTurnStatus),
			ReasonSource: "turn",
		}
	case in.LatestTaskStatus == types.TaskFailed || in.LatestTaskStatus == types.TaskCanceled:
		return Detail{
			State: "attention", Tone: ToneDanger, Label: "Needs attention",
			Reason:       fmt.Sprintf("latest task %s", in.LatestTaskStatus),
			ReasonSource: "task",
		}
	case in.LatestTurnStatus == types.TurnCompleted:
		return Detail{
			State: "completed", Tone: ToneSuccess, Label: "Completed",
			Reason:       "latest turn completed",
			ReasonSource: "turn",
		}
	case in.LatestTaskStatus == types.TaskCompleted:
		return Detail{
			State: "completed", Tone: ToneSuccess, Label: "Completed",
			Reason:       "latest task completed",
			ReasonSource: "task",
		}
	case in.Connection == types.ConnOnline:
		return Detail{
			State: "ready", Tone: ToneSuccess, Label: "Ready",
			Reason:       "runtime is reachable",
			ReasonSource: "connection",
		}
	default:
		return Detail{
			State: "idle", Tone: ToneNeutral, Label: "Idle",
			Reason:       "nothing in flight",
			ReasonSource: "none",
		}
	}
}
