package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/Will-L07/scheduler/internal/resolver"
	"github.com/Will-L07/scheduler/internal/utils"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.state {
	case StateToday:
		content = docStyle.Render(m.taskList.View())
	case StateSummary:
		content = docStyle.Render(m.summary.View())
	case StateEditingNote:
		content = docStyle.Render(m.form.View())
	}

	parts := []string{m.viewTabs(), m.viewHeader(), content}
	if m.status != "" {
		parts = append(parts, statusStyle.Render(m.status))
	}
	parts = append(parts, m.help.View(m))
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) viewTabs() string {
	var tabs []string
	for i, title := range tabTitles {
		if m.state == SessionState(i) || (m.state == StateEditingNote && i == int(StateToday)) {
			tabs = append(tabs, activeTabStyle.Render(title))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(title))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) viewHeader() string {
	label := m.day.Format("Monday 2 January 2006")
	switch utils.DaysBetween(utils.DateOf(m.now()), m.day) {
	case 0:
		label += " (today)"
	case -1:
		label += " (yesterday)"
	case 1:
		label += " (tomorrow)"
	}

	var phases string
	for _, sch := range m.store.Schedules() {
		if p, ok := resolver.CurrentPhase(sch, m.day); ok {
			phases += fmt.Sprintf("  %s: %s", sch.Name, p.Name)
		}
	}
	return headerStyle.Render(label) + phaseStyle.Render(phases)
}
