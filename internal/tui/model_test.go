package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/user/lookout/internal/approval"
	"github.com/user/lookout/internal/runstate"
	"github.com/user/lookout/internal/types"
)

func testModel() *Model {
	return &Model{
		cursor:   make(map[Section]int),
		notified: make(map[string]bool),
		conn:     types.ConnChecking,
	}
}

func TestSectionCycle(t *testing.T) {
	m := testModel()
	for i := 0; i < int(sectionCount); i++ {
		if m.section != Section(i) {
			t.Fatalf("section = %d, want %d", m.section, i)
		}
		m.handleKey(tea.KeyMsg{Type: tea.KeyTab})
	}
	if m.section != SectionThreads {
		t.Fatalf("tab did not wrap, section = %d", m.section)
	}
	m.handleKey(tea.KeyMsg{Type: tea.KeyShiftTab})
	if m.section != SectionSessions {
		t.Fatalf("shift+tab = %d, want sessions", m.section)
	}
}

func TestMoveCursorClamps(t *testing.T) {
	m := testModel()
	m.threads = []types.ThreadSummary{{ID: "a"}, {ID: "b"}, {ID: "c"}}

	m.moveCursor(-1)
	if m.cursor[SectionThreads] != 0 {
		t.Fatalf("cursor = %d after up at top", m.cursor[SectionThreads])
	}
	for i := 0; i < 10; i++ {
		m.moveCursor(1)
	}
	if m.cursor[SectionThreads] != 2 {
		t.Fatalf("cursor = %d, want 2", m.cursor[SectionThreads])
	}
}

func TestClampCursorAfterShrink(t *testing.T) {
	m := testModel()
	m.threads = []types.ThreadSummary{{ID: "a"}, {ID: "b"}, {ID: "c"}}
	m.cursor[SectionThreads] = 2

	m.threads = m.threads[:1]
	m.clampCursor(SectionThreads)
	if m.cursor[SectionThreads] != 0 {
		t.Fatalf("cursor = %d, want 0", m.cursor[SectionThreads])
	}
}

func TestRunInputsFromViewState(t *testing.T) {
	m := testModel()
	m.conn = types.ConnOnline
	m.approvals = []approval.Approval{{ID: "1"}, {ID: "2"}}
	m.detail = &types.ThreadDetail{
		Turns: []types.Turn{
			{ID: "t1", Status: types.TurnCompleted},
			{ID: "t2", Status: types.TurnInProgress},
		},
	}
	m.tasks = &types.TaskPage{
		Tasks:  []types.Task{{ID: "tk1", Status: types.TaskRunning}},
		Counts: types.TaskCounts{Running: 1, Queued: 2},
	}

	in := m.runInputs()
	if in.Connection != types.ConnOnline {
		t.Fatalf("connection = %v", in.Connection)
	}
	if in.PendingApprovals != 2 {
		t.Fatalf("pending = %d", in.PendingApprovals)
	}
	if in.ActiveTurnStatus != types.TurnInProgress {
		t.Fatalf("active turn = %q", in.ActiveTurnStatus)
	}
	if in.LatestTurnStatus != types.TurnInProgress {
		t.Fatalf("latest turn = %q", in.LatestTurnStatus)
	}
	if in.RunningTasks != 1 || in.QueuedTasks != 2 {
		t.Fatalf("tasks = %d/%d", in.RunningTasks, in.QueuedTasks)
	}

	// Approvals win over the running turn.
	d := runstate.Classify(in)
	if d.State != "waiting-approval" {
		t.Fatalf("state = %q", d.State)
	}
}

func TestListWindow(t *testing.T) {
	cases := []struct {
		cursor, length, visible, want int
	}{
		{0, 3, 10, 0},
		{0, 30, 10, 0},
		{15, 30, 10, 10},
		{29, 30, 10, 20},
	}
	for _, tc := range cases {
		if got := listWindow(tc.cursor, tc.length, tc.visible); got != tc.want {
			t.Fatalf("listWindow(%d,%d,%d) = %d, want %d", tc.cursor, tc.length, tc.visible, got, tc.want)
		}
	}
}

func TestTruncateLine(t *testing.T) {
	if got := truncateLine("short", 10); got != "short" {
		t.Fatalf("got %q", got)
	}
	got := truncateLine("a long line that keeps going", 10)
	if len([]rune(got)) != 10 || !strings.HasSuffix(got, "…") {
		t.Fatalf("got %q", got)
	}
}

func TestErrNoticeAndFade(t *testing.T) {
	m := testModel()
	m.run = runstate.Classify(m.runInputs())
	updated, cmd := m.Update(errMsg{err: errFake{}})
	m = updated.(*Model)
	if m.notice != "fake failure" {
		t.Fatalf("notice = %q", m.notice)
	}
	if cmd == nil {
		t.Fatal("expected fade command")
	}
	updated, _ = m.Update(noticeFadeMsg{})
	m = updated.(*Model)
	if m.notice != "" {
		t.Fatalf("notice = %q after fade", m.notice)
	}
}

type errFake struct{}

func (errFake) Error() string { return "fake failure" }

func TestViewTabsMarksActiveSection(t *testing.T) {
	m := testModel()
	m.section = SectionTasks
	tabs := m.viewTabs()
	for _, name := range sectionNames {
		if !strings.Contains(tabs, name) {
			t.Fatalf("tabs %q missing %q", tabs, name)
		}
	}
}
