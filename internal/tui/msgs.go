package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/user/lookout/internal/api"
	"github.com/user/lookout/internal/stream"
	"github.com/user/lookout/internal/types"
)

// Messages delivered through the bubbletea loop. Fetch results carry
// fresh server data; streamMsg and connMsg wake the model to re-read
// controller and monitor state.
type (
	threadsMsg     []types.ThreadSummary
	automationsMsg []types.Automation
	skillsMsg      *types.SkillPage
	tasksMsg       *types.TaskPage
	sessionsMsg    []types.Session
	detailMsg      *types.ThreadDetail
	threadOpenMsg  *types.Thread
	turnStartedMsg *api.StartTurnResult

	streamMsg stream.Update
	connMsg   types.ConnectionState

	noticeFadeMsg struct{}
	errMsg        struct{ err error }
)

const fetchTimeout = 15 * time.Second

// noticeFadeDelay is how long a transient error stays in the status bar.
const noticeFadeDelay = 5 * time.Second

func fetch[T any](call func(ctx context.Context) (T, error), wrap func(T) tea.Msg) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		out, err := call(ctx)
		if err != nil {
			return errMsg{err}
		}
		return wrap(out)
	}
}

func (m Model) loadThreads() tea.Cmd {
	return fetch(func(ctx context.Context) ([]types.ThreadSummary, error) {
		return m.client.ThreadSummaries(ctx, api.ThreadQuery{Limit: 100})
	}, func(ts []types.ThreadSummary) tea.Msg { return threadsMsg(ts) })
}

func (m Model) loadAutomations() tea.Cmd {
	return fetch(func(ctx context.Context) ([]types.Automation, error) {
		return m.client.Automations(ctx)
	}, func(as []types.Automation) tea.Msg { return automationsMsg(as) })
}

func (m Model) loadSkills() tea.Cmd {
	return fetch(func(ctx context.Context) (*types.SkillPage, error) {
		return m.client.Skills(ctx)
	}, func(p *types.SkillPage) tea.Msg { return skillsMsg(p) })
}

func (m Model) loadTasks() tea.Cmd {
	return fetch(func(ctx context.Context) (*types.TaskPage, error) {
		return m.client.Tasks(ctx, 50)
	}, func(p *types.TaskPage) tea.Msg { return tasksMsg(p) })
}

func (m Model) loadSessions() tea.Cmd {
	return fetch(func(ctx context.Context) ([]types.Session, error) {
		return m.client.Sessions(ctx, "", 50)
	}, func(ss []types.Session) tea.Msg { return sessionsMsg(ss) })
}

func (m Model) loadDetail(id types.ThreadID) tea.Cmd {
	return fetch(func(ctx context.Context) (*types.ThreadDetail, error) {
		return m.client.ThreadDetail(ctx, id)
	}, func(d *types.ThreadDetail) tea.Msg { return detailMsg(d) })
}

func (m Model) createThread() tea.Cmd {
	return fetch(func(ctx context.Context) (*types.Thread, error) {
		return m.client.CreateThread(ctx, api.CreateThreadRequest{})
	}, func(t *types.Thread) tea.Msg { return threadOpenMsg(t) })
}

func (m Model) startTurn(id types.ThreadID, prompt string) tea.Cmd {
	return fetch(func(ctx context.Context) (*api.StartTurnResult, error) {
		return m.client.StartTurn(ctx, id, api.StartTurnRequest{Prompt: prompt})
	}, func(r *api.StartTurnResult) tea.Msg { return turnStartedMsg(r) })
}

func (m Model) interruptActiveTurn() tea.Cmd {
	detail := m.ctrl.Detail()
	if detail == nil {
		return nil
	}
	for _, turn := range detail.Turns {
		if turn.Status == types.TurnQueued || turn.Status == types.TurnInProgress {
			thread, turnID := detail.Thread.ID, turn.ID
			return func() tea.Msg {
				ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
				defer cancel()
				if err := m.client.InterruptTurn(ctx, thread, turnID); err != nil {
					return errMsg{err}
				}
				return nil
			}
		}
	}
	return nil
}

func (m Model) toggleAutomation(a types.Automation) tea.Cmd {
	return fetch(func(ctx context.Context) ([]types.Automation, error) {
		var err error
		if a.Status == types.AutomationPaused {
			_, err = m.client.ResumeAutomation(ctx, a.ID)
		} else {
			_, err = m.client.PauseAutomation(ctx, a.ID)
		}
		if err != nil {
			return nil, err
		}
		return m.client.Automations(ctx)
	}, func(as []types.Automation) tea.Msg { return automationsMsg(as) })
}

func (m Model) runAutomation(id types.AutomationID) tea.Cmd {
	return fetch(func(ctx context.Context) ([]types.Automation, error) {
		if _, err := m.client.RunAutomation(ctx, id); err != nil {
			return nil, err
		}
		return m.client.Automations(ctx)
	}, func(as []types.Automation) tea.Msg { return automationsMsg(as) })
}

func (m Model) cancelTask(id types.TaskID) tea.Cmd {
	return fetch(func(ctx context.Context) (*types.TaskPage, error) {
		if _, err := m.client.CancelTask(ctx, id); err != nil {
			return nil, err
		}
		return m.client.Tasks(ctx, 50)
	}, func(p *types.TaskPage) tea.Msg { return tasksMsg(p) })
}

func (m Model) resumeSession(id types.SessionID) tea.Cmd {
	return fetch(func(ctx context.Context) (*types.Thread, error) {
		resumed, err := m.client.ResumeSessionThread(ctx, id, "", "")
		if err != nil {
			return nil, err
		}
		return &types.Thread{ID: resumed.ThreadID}, nil
	}, func(t *types.Thread) tea.Msg { return threadOpenMsg(t) })
}

func waitStream(ch <-chan stream.Update) tea.Cmd {
	return func() tea.Msg {
		u, ok := <-ch
		if !ok {
			return nil
		}
		return streamMsg(u)
	}
}

func waitConn(ch <-chan types.ConnectionState) tea.Cmd {
	return func() tea.Msg {
		s, ok := <-ch
		if !ok {
			return nil
		}
		return connMsg(s)
	}
}

func noticeFade() tea.Cmd {
	return tea.Tick(noticeFadeDelay, func(time.Time) tea.Msg { return noticeFadeMsg{} })
}
