// Package tui is the interactive dashboard: a thread sidebar, a live
// event feed fed by the stream controller, a prompt composer, and
// sections for automations, skills, tasks, and sessions.
package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/user/lookout/internal/api"
	"github.com/user/lookout/internal/approval"
	"github.com/user/lookout/internal/audit"
	"github.com/user/lookout/internal/compact"
	"github.com/user/lookout/internal/health"
	"github.com/user/lookout/internal/notify"
	"github.com/user/lookout/internal/runstate"
	"github.com/user/lookout/internal/stream"
	"github.com/user/lookout/internal/tokens"
	"github.com/user/lookout/internal/types"
)

// Section identifies which data view is active.
type Section int

const (
	SectionThreads Section = iota
	SectionAutomations
	SectionSkills
	SectionTasks
	SectionSessions
	sectionCount
)

var sectionNames = [...]string{"Threads", "Automations", "Skills", "Tasks", "Sessions"}

func sectionFromName(name string) Section {
	for i, n := range sectionNames {
		if strings.EqualFold(n, name) {
			return Section(i)
		}
	}
	return SectionThreads
}

// Options wires the dashboard to its collaborators. Notifier and
// AuditLog may be nil; approval alerts are then display-only.
type Options struct {
	Client        *api.Client
	Controller    *stream.Controller
	Monitor       *health.Monitor
	Estimator     *tokens.Estimator
	Notifier       *notify.Registry
	AuditLog       *audit.Log
	InitialThread  types.ThreadID
	InitialSection string
}

// Model is the bubbletea model for the dashboard.
type Model struct {
	client    *api.Client
	ctrl      *stream.Controller
	monitor   *health.Monitor
	estimator *tokens.Estimator
	notifier  *notify.Registry
	auditLog  *audit.Log

	section Section
	cursor  map[Section]int

	threads     []types.ThreadSummary
	automations []types.Automation
	skills      *types.SkillPage
	tasks       *types.TaskPage
	sessions    []types.Session

	activeThread types.ThreadID
	detail       *types.ThreadDetail
	feed         compact.Result
	approvals    []approval.Approval
	notified     map[string]bool

	conn types.ConnectionState
	run  runstate.Detail

	composer  textarea.Model
	composing bool

	showApprovals bool
	notice        string
	width, height int
}

// New builds the dashboard model. Call Init through a tea.Program.
func New(opts Options) *Model {
	ta := textarea.New()
	ta.Placeholder = "Write a prompt..."
	ta.CharLimit = 0
	ta.SetHeight(3)
	ta.ShowLineNumbers = false

	m := &Model{
		client:       opts.Client,
		ctrl:         opts.Controller,
		monitor:      opts.Monitor,
		estimator:    opts.Estimator,
		notifier:     opts.Notifier,
		auditLog:     opts.AuditLog,
		cursor:       make(map[Section]int),
		notified:     make(map[string]bool),
		conn:         types.ConnChecking,
		composer:     ta,
		activeThread: opts.InitialThread,
		section:      sectionFromName(opts.InitialSection),
	}
	m.run = runstate.Classify(m.runInputs())
	return m
}

func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		m.loadThreads(),
		m.loadAutomations(),
		m.loadSkills(),
		m.loadTasks(),
		m.loadSessions(),
		waitStream(m.ctrl.Updates()),
		waitConn(m.monitor.Updates()),
		textarea.Blink,
	}
	if m.activeThread != "" {
		id := m.activeThread
		ctrl := m.ctrl
		cmds = append(cmds, func() tea.Msg {
			ctrl.Start(id)
			return nil
		})
	}
	return tea.Batch(cmds...)
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.composer.SetWidth(max(20, msg.Width-sidebarWidth-4))
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case streamMsg:
		return m.handleStream(stream.Update(msg))

	case connMsg:
		m.conn = types.ConnectionState(msg)
		m.run = runstate.Classify(m.runInputs())
		return m, waitConn(m.monitor.Updates())

	case threadsMsg:
		m.threads = msg
		m.clampCursor(SectionThreads)
		return m, nil

	case automationsMsg:
		m.automations = msg
		m.clampCursor(SectionAutomations)
		return m, nil

	case skillsMsg:
		m.skills = msg
		m.clampCursor(SectionSkills)
		return m, nil

	case tasksMsg:
		m.tasks = msg
		m.clampCursor(SectionTasks)
		m.run = runstate.Classify(m.runInputs())
		return m, nil

	case sessionsMsg:
		m.sessions = msg
		m.clampCursor(SectionSessions)
		return m, nil

	case detailMsg:
		if d := (*types.ThreadDetail)(msg); d != nil && d.Thread.ID == m.activeThread {
			m.detail = d
			m.run = runstate.Classify(m.runInputs())
		}
		return m, nil

	case threadOpenMsg:
		m.section = SectionThreads
		if t := (*types.Thread)(msg); t != nil {
			m.openThread(t.ID)
		}
		return m, m.loadThreads()

	case turnStartedMsg:
		m.composer.Reset()
		m.composing = false
		m.composer.Blur()
		return m, nil

	case errMsg:
		m.notice = msg.err.Error()
		return m, noticeFade()

	case noticeFadeMsg:
		m.notice = ""
		return m, nil
	}

	if m.composing {
		var cmd tea.Cmd
		m.composer, cmd = m.composer.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.composing {
		switch msg.String() {
		case "esc":
			m.composing = false
			m.composer.Blur()
			return m, nil
		case "ctrl+d":
			prompt := m.composer.Value()
			if prompt == "" || m.activeThread == "" {
				return m, nil
			}
			return m, m.startTurn(m.activeThread, prompt)
		case "ctrl+c":
			return m, m.quit()
		}
		var cmd tea.Cmd
		m.composer, cmd = m.composer.Update(msg)
		return m, cmd
	}

	switch msg.String() {
	case "q", "ctrl+c":
		return m, m.quit()
	case "tab":
		m.section = (m.section + 1) % sectionCount
		return m, nil
	case "shift+tab":
		m.section = (m.section + sectionCount - 1) % sectionCount
		return m, nil
	case "j", "down":
		m.moveCursor(1)
		return m, nil
	case "k", "up":
		m.moveCursor(-1)
		return m, nil
	case "enter":
		return m.handleSelect()
	case "i":
		if m.section == SectionThreads && m.activeThread != "" {
			m.composing = true
			return m, m.composer.Focus()
		}
		return m, nil
	case "a":
		m.showApprovals = !m.showApprovals
		return m, nil
	case "n":
		if m.section == SectionThreads {
			return m, m.createThread()
		}
		return m, nil
	case "x":
		if m.section == SectionThreads {
			return m, m.interruptActiveTurn()
		}
		if m.section == SectionTasks {
			if task, ok := m.selectedTask(); ok {
				return m, m.cancelTask(task.ID)
			}
		}
		return m, nil
	case "p":
		if m.section == SectionAutomations {
			if a, ok := m.selectedAutomation(); ok {
				return m, m.toggleAutomation(a)
			}
		}
		return m, nil
	case "r":
		if m.section == SectionAutomations {
			if a, ok := m.selectedAutomation(); ok {
				return m, m.runAutomation(a.ID)
			}
		}
		return m, nil
	case "R":
		return m, tea.Batch(m.loadThreads(), m.loadAutomations(), m.loadSkills(), m.loadTasks(), m.loadSessions())
	}
	return m, nil
}

func (m *Model) handleSelect() (tea.Model, tea.Cmd) {
	switch m.section {
	case SectionThreads:
		if len(m.threads) == 0 {
			return m, nil
		}
		m.openThread(m.threads[m.cursor[SectionThreads]].ID)
		return m, nil
	case SectionSessions:
		if len(m.sessions) == 0 {
			return m, nil
		}
		return m, m.resumeSession(m.sessions[m.cursor[SectionSessions]].ID)
	}
	return m, nil
}

// openThread switches the stream controller to a new thread and clears
// per-thread view state.
func (m *Model) openThread(id types.ThreadID) {
	if id == "" || id == m.activeThread {
		return
	}
	m.activeThread = id
	m.detail = nil
	m.feed = compact.Result{}
	m.approvals = nil
	m.notified = make(map[string]bool)
	m.showApprovals = false
	m.ctrl.Start(id)
}

// handleStream re-reads controller state after any update. Newly seen
// approvals are recorded and pushed to notify channels off the UI loop.
func (m *Model) handleStream(u stream.Update) (tea.Model, tea.Cmd) {
	cmds := []tea.Cmd{waitStream(m.ctrl.Updates())}

	if m.detail == nil {
		m.detail = m.ctrl.Detail()
	}
	m.feed = compact.Compact(m.ctrl.Events(), compact.DefaultVisibleLimit)
	m.approvals = m.ctrl.Approvals()
	m.run = runstate.Classify(m.runInputs())

	if u.Kind == stream.UpdateApproval {
		for _, a := range m.approvals {
			if m.notified[a.ID] {
				continue
			}
			m.notified[a.ID] = true
			cmds = append(cmds, m.recordApproval(u.ThreadID, a))
		}
	}
	if u.Kind == stream.UpdateRefresh {
		cmds = append(cmds, m.loadThreads(), m.loadDetail(u.ThreadID))
	}
	return m, tea.Batch(cmds...)
}

func (m Model) recordApproval(threadID types.ThreadID, a approval.Approval) tea.Cmd {
	return func() tea.Msg {
		if m.auditLog != nil {
			if err := m.auditLog.Append(threadID, a); err != nil {
				return errMsg{err}
			}
		}
		if m.notifier != nil {
			ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
			defer cancel()
			if err := m.notifier.Dispatch(ctx, notify.FromApproval(threadID, a)); err != nil {
				return errMsg{err}
			}
		}
		return nil
	}
}

func (m Model) quit() tea.Cmd {
	m.ctrl.Stop()
	return tea.Quit
}

// runInputs folds current view state into the classifier's inputs.
func (m Model) runInputs() runstate.Inputs {
	in := runstate.Inputs{
		Connection:       m.conn,
		PendingApprovals: len(m.approvals),
	}
	if m.detail != nil {
		for _, turn := range m.detail.Turns {
			if turn.Status == types.TurnQueued || turn.Status == types.TurnInProgress {
				in.ActiveTurnStatus = turn.Status
			}
		}
		if n := len(m.detail.Turns); n > 0 {
			in.LatestTurnStatus = m.detail.Turns[n-1].Status
		}
	}
	if m.tasks != nil {
		in.RunningTasks = m.tasks.Counts.Running
		in.QueuedTasks = m.tasks.Counts.Queued
		if len(m.tasks.Tasks) > 0 {
			in.LatestTaskStatus = m.tasks.Tasks[0].Status
		}
	}
	return in
}

func (m *Model) moveCursor(delta int) {
	next := m.cursor[m.section] + delta
	if next < 0 {
		next = 0
	}
	if limit := m.sectionLen(m.section); next >= limit {
		next = limit - 1
	}
	if next < 0 {
		next = 0
	}
	m.cursor[m.section] = next
}

func (m *Model) clampCursor(s Section) {
	if limit := m.sectionLen(s); m.cursor[s] >= limit {
		if limit == 0 {
			m.cursor[s] = 0
		} else {
			m.cursor[s] = limit - 1
		}
	}
}

func (m Model) sectionLen(s Section) int {
	switch s {
	case SectionThreads:
		return len(m.threads)
	case SectionAutomations:
		return len(m.automations)
	case SectionSkills:
		if m.skills == nil {
			return 0
		}
		return len(m.skills.Skills)
	case SectionTasks:
		if m.tasks == nil {
			return 0
		}
		return len(m.tasks.Tasks)
	case SectionSessions:
		return len(m.sessions)
	}
	return 0
}

// ActiveThread reports the thread that was open when the program
// exited, for persisting UI state.
func (m *Model) ActiveThread() types.ThreadID { return m.activeThread }

// SectionName reports the active section by name, for persisting UI
// state.
func (m *Model) SectionName() string { return sectionNames[m.section] }

func (m Model) selectedAutomation() (types.Automation, bool) {
	i := m.cursor[SectionAutomations]
	if i < 0 || i >= len(m.automations) {
		return types.Automation{}, false
	}
	return m.automations[i], true
}

func (m Model) selectedTask() (types.Task, bool) {
	if m.tasks == nil {
		return types.Task{}, false
	}
	i := m.cursor[SectionTasks]
	if i < 0 || i >= len(m.tasks.Tasks) {
		return types.Task{}, false
	}
	return m.tasks.Tasks[i], true
}
