package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/user/lookout/internal/types"
)

const sidebarWidth = 32

func (m Model) View() string {
	if m.width == 0 {
		return "loading..."
	}

	var body string
	switch m.section {
	case SectionThreads:
		body = lipgloss.JoinHorizontal(lipgloss.Top, m.viewSidebar(), m.viewThreadPane())
	case SectionAutomations:
		body = m.viewAutomations()
	case SectionSkills:
		body = m.viewSkills()
	case SectionTasks:
		body = m.viewTasks()
	case SectionSessions:
		body = m.viewSessions()
	}

	if m.showApprovals {
		body = m.viewApprovalsOverlay()
	}

	return lipgloss.JoinVertical(lipgloss.Left, m.viewTabs(), body, m.viewStatusBar())
}

func (m Model) viewTabs() string {
	var tabs []string
	for i, name := range sectionNames {
		if Section(i) == m.section {
			tabs = append(tabs, selectedStyle.Render(name))
		} else {
			tabs = append(tabs, dimStyle.Render(name))
		}
	}
	return " " + strings.Join(tabs, dimStyle.Render(" | "))
}

func (m Model) viewSidebar() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Threads") + "\n")
	if len(m.threads) == 0 {
		b.WriteString(dimStyle.Render("no threads") + "\n")
	}
	visible := m.listHeight()
	start := listWindow(m.cursor[SectionThreads], len(m.threads), visible)
	for i := start; i < len(m.threads) && i < start+visible; i++ {
		t := m.threads[i]
		title := t.Title
		if title == "" {
			title = string(t.ID)
		}
		line := truncateLine(title, sidebarWidth-4)
		if t.ID == m.activeThread {
			line = "* " + line
		} else {
			line = "  " + line
		}
		if i == m.cursor[SectionThreads] {
			b.WriteString(selectedStyle.Render(line))
		} else if t.Archived {
			b.WriteString(dimStyle.Render(line))
		} else {
			b.WriteString(line)
		}
		b.WriteString("\n")
	}
	return sidebarStyle.Width(sidebarWidth).Render(b.String())
}

func (m Model) viewThreadPane() string {
	width := max(20, m.width-sidebarWidth-2)
	var b strings.Builder

	if m.activeThread == "" {
		b.WriteString(dimStyle.Render("Select a thread (enter) or create one (n).") + "\n")
		return lipgloss.NewStyle().Width(width).Render(b.String())
	}

	if m.detail != nil {
		title := m.detail.Thread.Title
		if title == "" {
			title = string(m.detail.Thread.ID)
		}
		header := titleStyle.Render(title)
		if m.detail.Thread.Model != "" {
			header += dimStyle.Render("  " + m.detail.Thread.Model)
		}
		b.WriteString(header + "\n\n")
	}

	for _, row := range m.feed.PinnedCritical {
		b.WriteString(criticalStyle.Render("! "+row.Summary) + "\n")
	}
	if len(m.feed.PinnedCritical) > 0 {
		b.WriteString("\n")
	}

	if m.feed.OverflowCount > 0 {
		b.WriteString(dimStyle.Render(fmt.Sprintf("... %d earlier entries hidden", m.feed.OverflowCount)) + "\n")
	}
	rows := m.feed.Rows
	// Rows arrive newest-first; render oldest at the top like a log.
	for i := len(rows) - 1; i >= 0; i-- {
		row := rows[i]
		line := truncateLine(row.Summary, width-12)
		if row.Count > 1 {
			line += countStyle.Render(fmt.Sprintf(" x%d", row.Count))
		}
		if row.Critical {
			line = criticalStyle.Render(line)
		}
		b.WriteString(line + "\n")
	}
	if len(rows) == 0 {
		b.WriteString(dimStyle.Render("no events yet") + "\n")
	}

	b.WriteString("\n")
	if m.composing {
		b.WriteString(m.composer.View() + "\n")
		est := m.estimator.Count(m.composer.Value())
		marker := "~"
		if m.estimator.Exact() {
			marker = ""
		}
		b.WriteString(dimStyle.Render(fmt.Sprintf("%s%d tokens · ctrl+d send · esc cancel", marker, est)) + "\n")
	} else {
		b.WriteString(dimStyle.Render("i compose · x interrupt · a approvals · n new thread") + "\n")
	}

	return lipgloss.NewStyle().Width(width).Render(b.String())
}

func (m Model) viewAutomations() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Automations") + "\n")
	if len(m.automations) == 0 {
		b.WriteString(dimStyle.Render("none configured") + "\n")
	}
	for i, a := range m.automations {
		status := a.Status
		if a.NextRunAt != nil && a.Status == types.AutomationActive {
			status += " · next " + a.NextRunAt.Local().Format("Mon 15:04")
		}
		line := fmt.Sprintf("%-28s %-40s %s", truncateLine(a.Name, 28), truncateLine(a.RRule, 40), status)
		if i == m.cursor[SectionAutomations] {
			b.WriteString(selectedStyle.Render(line))
		} else if a.Status == types.AutomationPaused {
			b.WriteString(dimStyle.Render(line))
		} else {
			b.WriteString(line)
		}
		b.WriteString("\n")
	}
	b.WriteString("\n" + dimStyle.Render("p pause/resume · r run now") + "\n")
	return b.String()
}

func (m Model) viewSkills() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Skills") + "\n")
	if m.skills == nil || len(m.skills.Skills) == 0 {
		b.WriteString(dimStyle.Render("no skills found") + "\n")
		return b.String()
	}
	b.WriteString(dimStyle.Render(m.skills.Directory) + "\n")
	for _, warning := range m.skills.Warnings {
		b.WriteString(noticeStyle.Render("! "+warning) + "\n")
	}
	for i, s := range m.skills.Skills {
		line := fmt.Sprintf("%-24s %s", truncateLine(s.Name, 24), truncateLine(s.Description, 60))
		if i == m.cursor[SectionSkills] {
			b.WriteString(selectedStyle.Render(line))
		} else {
			b.WriteString(line)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) viewTasks() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Tasks") + "\n")
	if m.tasks == nil || len(m.tasks.Tasks) == 0 {
		b.WriteString(dimStyle.Render("no background tasks") + "\n")
		return b.String()
	}
	c := m.tasks.Counts
	b.WriteString(dimStyle.Render(fmt.Sprintf("running %d · queued %d · failed %d", c.Running, c.Queued, c.Failed)) + "\n")
	for i, t := range m.tasks.Tasks {
		line := fmt.Sprintf("%-10s %-40s %s", t.Status, truncateLine(t.Title, 40), t.Kind)
		switch {
		case i == m.cursor[SectionTasks]:
			b.WriteString(selectedStyle.Render(line))
		case t.Status == types.TaskFailed:
			b.WriteString(criticalStyle.Render(line))
		case t.Status == types.TaskCompleted || t.Status == types.TaskCanceled:
			b.WriteString(dimStyle.Render(line))
		default:
			b.WriteString(line)
		}
		b.WriteString("\n")
	}
	b.WriteString("\n" + dimStyle.Render("x cancel") + "\n")
	return b.String()
}

func (m Model) viewSessions() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Sessions") + "\n")
	if len(m.sessions) == 0 {
		b.WriteString(dimStyle.Render("no recorded sessions") + "\n")
		return b.String()
	}
	for i, s := range m.sessions {
		line := fmt.Sprintf("%-40s %4d msgs  %s", truncateLine(s.Title, 40), s.MessageCount, s.UpdatedAt.Local().Format("Jan 02 15:04"))
		if i == m.cursor[SectionSessions] {
			b.WriteString(selectedStyle.Render(line))
		} else {
			b.WriteString(line)
		}
		b.WriteString("\n")
	}
	b.WriteString("\n" + dimStyle.Render("enter resume as thread") + "\n")
	return b.String()
}

func (m Model) viewApprovalsOverlay() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Pending approvals") + "\n\n")
	if len(m.approvals) == 0 {
		b.WriteString(dimStyle.Render("nothing pending") + "\n")
	}
	for _, a := range m.approvals {
		b.WriteString(criticalStyle.Render(a.RequestType) + "\n")
		if a.Scope != "" {
			b.WriteString("  scope: " + a.Scope + "\n")
		}
		if a.Consequence != "" {
			b.WriteString("  " + a.Consequence + "\n")
		}
		if a.Snippet != "" {
			b.WriteString(dimStyle.Render("  "+truncateLine(a.Snippet, 70)) + "\n")
		}
		b.WriteString("\n")
	}
	b.WriteString(dimStyle.Render("a close"))
	return overlayStyle.Render(b.String())
}

func (m Model) viewStatusBar() string {
	badge := badgeStyle(m.run.Tone).Render(m.run.Label)
	parts := []string{badge}
	if m.run.Reason != "" {
		parts = append(parts, m.run.Reason)
	}
	parts = append(parts, "conn:"+string(m.conn))
	if m.activeThread != "" {
		parts = append(parts, "seq:"+fmt.Sprint(m.ctrl.LastSeq()))
	}
	if m.notice != "" {
		parts = append(parts, noticeStyle.Render(m.notice))
	}
	return statusBarStyle.Width(m.width).Render(strings.Join(parts, "  "))
}

func (m Model) listHeight() int {
	h := m.height - 4
	if h < 5 {
		h = 5
	}
	return h
}

// listWindow picks the first visible index so the cursor stays on
// screen as it moves through a list longer than the viewport.
func listWindow(cursor, length, visible int) int {
	if length <= visible {
		return 0
	}
	start := cursor - visible/2
	if start < 0 {
		start = 0
	}
	if start > length-visible {
		start = length - visible
	}
	return start
}

func truncateLine(s string, limit int) string {
	if limit <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	if limit <= 1 {
		return string(runes[:limit])
	}
	return string(runes[:limit-1]) + "…"
}
