package runstate

import (
	"strings"
	"testing"

	"github.com/user/lookout/internal/types"
)

func TestCheckingDominatesEverything(t *testing.T) {
	in := Inputs{
		Connection:       types.ConnChecking,
		PendingApprovals: 5,
		ActiveTurnStatus: types.TurnInProgress,
		RunningTasks:     3,
		LatestTurnStatus: types.TurnFailed,
	}
	d := Classify(in)
	if d.State != "checking" {
		t.Errorf("state = %s, want checking", d.State)
	}
	if d.ReasonSource != "connection" {
		t.Errorf("reason source = %s", d.ReasonSource)
	}
}

func TestApprovalsBeatActiveTurn(t *testing.T) {
	d := Classify(Inputs{
		Connection:       types.ConnOnline,
		PendingApprovals: 2,
		ActiveTurnStatus: types.TurnInProgress,
	})
	if d.State != "waiting-approval" {
		t.Errorf("state = %s, want waiting-approval", d.State)
	}
	if !strings.Contains(d.Reason, "2 approval requests") {
		t.Errorf("reason = %q, want mention of 2 approval requests", d.Reason)
	}
}

func TestActiveTurn(t *testing.T) {
	for _, status := range []string{types.TurnQueued, types.TurnInProgress} {
		d := Classify(Inputs{Connection: types.ConnOnline, ActiveTurnStatus: status})
		if d.State != "running" {
			t.Errorf("status %s: state = %s, want running", status, d.State)
		}
	}
}

func TestTasksBeatOffline(t *testing.T) {
	d := Classify(Inputs{Connection: types.ConnOffline, QueuedTasks: 1})
	if d.State != "tasks-running" {
		t.Errorf("state = %s, want tasks-running", d.State)
	}
	if d.ReasonSource != "tasks" {
		t.Errorf("reason source = %s", d.ReasonSource)
	}
}

func TestOffline(t *testing.T) {
	d := Classify(Inputs{Connection: types.ConnOffline})
	if d.State != "offline" || d.Tone != ToneDanger {
		t.Errorf("unexpected detail: %+v", d)
	}
}

func TestFailureStates(t *testing.T) {
	for _, status := range []string{types.TurnFailed, types.TurnInterrupted, types.TurnCanceled} {
		d := Classify(Inputs{Connection: types.ConnOnline, LatestTurnStatus: status})
		if d.State != "attention" || d.ReasonSource != "turn" {
			t.Errorf("turn %s: %+v", status, d)
		}
	}
	d := Classify(Inputs{Connection: types.ConnOnline, LatestTaskStatus: types.TaskFailed})
	if d.State != "attention" || d.ReasonSource != "task" {
		t.Errorf("failed task: %+v", d)
	}
}

func TestCompletedThenReadyThenIdle(t *testing.T) {
	d := Classify(Inputs{Connection: types.ConnOnline, LatestTurnStatus: types.TurnCompleted})
	if d.State != "completed" {
		t.Errorf("completed turn: %+v", d)
	}

	d = Classify(Inputs{Connection: types.ConnOnline})
	if d.State != "ready" {
		t.Errorf("online, idle: %+v", d)
	}

	d = Classify(Inputs{})
	if d.State != "idle" || d.ReasonSource != "none" {
		t.Errorf("empty inputs: %+v", d)
	}
}
