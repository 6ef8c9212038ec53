package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/Will-L07/scheduler/internal/logger"
	"github.com/Will-L07/scheduler/internal/models"
	"github.com/Will-L07/scheduler/internal/tui/components/tasklist"
	"github.com/Will-L07/scheduler/internal/utils"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.state == StateEditingNote {
		return m.updateNoteForm(msg)
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.taskList.SetSize(msg.Width-4, msg.Height-8)
		m.summary.SetSize(msg.Width-4, msg.Height-8)
		return m, nil

	case refreshMsg:
		if _, err := m.store.Reload(); err != nil {
			logger.Warn("Failed to reload storage", "error", err)
		}
		m.refresh()
		return m, scheduleRefresh()

	case tasklist.ToggleTaskMsg:
		if m.store.ToggleEntryComplete(msg.Task.ScheduleID, msg.Task.Entry.ID, msg.Task.CompletionKey) {
			m.status = ""
		} else {
			m.status = "Could not update task"
		}
		m.refresh()
		return m, nil

	case tasklist.RateTaskMsg:
		next := nextConfidence(msg.Task.Confidence)
		if m.store.SetEntryConfidence(msg.Task.ScheduleID, msg.Task.Entry.ID, next, msg.Task.CompletionKey) {
			m.status = fmt.Sprintf("Confidence: %s", confidenceLabel(next))
		}
		m.refresh()
		return m, nil

	case tasklist.EditNoteMsg:
		task := msg.Task
		m.editing = &task
		m.noteForm = &NoteFormModel{Text: task.Notes}
		m.form = NewNoteForm(task, m.noteForm)
		m.state = StateEditingNote
		return m, m.form.Init()

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		case key.Matches(msg, m.keys.Tab):
			m.state = (m.state + 1) % SessionState(len(tabTitles))
			return m, nil
		case key.Matches(msg, m.keys.ShiftTab):
			m.state = (m.state - 1 + SessionState(len(tabTitles))) % SessionState(len(tabTitles))
			return m, nil
		case key.Matches(msg, m.keys.PrevDay):
			m.day = m.day.AddDate(0, 0, -1)
			m.refresh()
			return m, nil
		case key.Matches(msg, m.keys.NextDay):
			m.day = m.day.AddDate(0, 0, 1)
			m.refresh()
			return m, nil
		case key.Matches(msg, m.keys.Today):
			m.day = utils.DateOf(m.now())
			m.refresh()
			return m, nil
		}
	}

	var cmd tea.Cmd
	switch m.state {
	case StateToday:
		m.taskList, cmd = m.taskList.Update(msg)
	case StateSummary:
		m.summary, cmd = m.summary.Update(msg)
	}
	return m, cmd
}

func (m Model) updateNoteForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.Type == tea.KeyEsc {
		m.state = StateToday
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		t := m.editing
		if m.store.SetEntryNote(t.ScheduleID, t.Entry.ID, m.noteForm.Text, t.CompletionKey) {
			m.status = "Note saved"
		} else {
			m.status = "Could not save note"
		}
		m.refresh()
		m.state = StateToday
	case huh.StateAborted:
		m.state = StateToday
	}
	return m, cmd
}

// NewNoteForm builds the note editor bound to f.
func NewNoteForm(t models.Task, f *NoteFormModel) *huh.Form {
	title := fmt.Sprintf("Note: %s - %s", t.Entry.Subject, t.Entry.Topic)
	if t.Recurring() {
		title += " (" + t.CompletionKey + ")"
	}
	return huh.NewForm(
		huh.NewGroup(
			huh.NewText().
				Title(title).
				Description("Leave empty to clear the note.").
				CharLimit(2000).
				Value(&f.Text),
		),
	)
}

func nextConfidence(c models.Confidence) models.Confidence {
	switch c {
	case models.ConfidenceNone:
		return models.ConfidenceRed
	case models.ConfidenceRed:
		return models.ConfidenceAmber
	case models.ConfidenceAmber:
		return models.ConfidenceGreen
	default:
		return models.ConfidenceNone
	}
}

func confidenceLabel(c models.Confidence) string {
	if c == models.ConfidenceNone {
		return "cleared"
	}
	return string(c)
}
