package tasklist

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Will-L07/scheduler/internal/models"
)

type ToggleTaskMsg struct {
	Task models.Task
}

type EditNoteMsg struct {
	Task models.Task
}

type RateTaskMsg struct {
	Task models.Task
}

type Item struct {
	Task models.Task
}

func (i Item) Title() string {
	box := "[ ]"
	if i.Task.Completed {
		box = "[x]"
	}
	return fmt.Sprintf("%s %s - %s", box, i.Task.Entry.Subject, i.Task.Entry.Topic)
}

func (i Item) Description() string {
	parts := []string{i.Task.ScheduleName}
	if d := i.Task.Entry.Duration; d != "" && d != "-" {
		parts = append(parts, d)
	}
	if i.Task.Recurring() {
		parts = append(parts, "weekly")
	}
	if i.Task.Confidence != models.ConfidenceNone {
		parts = append(parts, string(i.Task.Confidence))
	}
	if i.Task.Notes != "" {
		parts = append(parts, "note: "+firstLine(i.Task.Notes))
	}
	return strings.Join(parts, " | ")
}

func (i Item) FilterValue() string {
	return i.Task.Entry.Subject + " " + i.Task.Entry.Topic
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i] + "..."
	}
	return s
}

type KeyMap struct {
	Toggle key.Binding
	Note   key.Binding
	Rate   key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Toggle: key.NewBinding(
			key.WithKeys(" ", "x"),
			key.WithHelp("space", "toggle done"),
		),
		Note: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "note"),
		),
		Rate: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "rate"),
		),
	}
}

type Model struct {
	list list.Model
	keys KeyMap
}

func New(tasks []models.Task, width, height int) Model {
	l := list.New(items(tasks), list.NewDefaultDelegate(), width, height)
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)

	keys := DefaultKeyMap()
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Toggle, keys.Note, keys.Rate}
	}
	l.AdditionalFullHelpKeys = l.AdditionalShortHelpKeys

	return Model{list: l, keys: keys}
}

func items(tasks []models.Task) []list.Item {
	out := make([]list.Item, len(tasks))
	for i, t := range tasks {
		out[i] = Item{Task: t}
	}
	return out
}

// SetTasks replaces the items and keeps the cursor in range.
func (m *Model) SetTasks(tasks []models.Task) {
	idx := m.list.Index()
	m.list.SetItems(items(tasks))
	if idx >= len(tasks) {
		idx = len(tasks) - 1
	}
	if idx >= 0 {
		m.list.Select(idx)
	}
}

func (m Model) Selected() (models.Task, bool) {
	i, ok := m.list.SelectedItem().(Item)
	return i.Task, ok
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		task, selected := m.Selected()
		switch {
		case !selected:
		case key.Matches(msg, m.keys.Toggle):
			return m, func() tea.Msg { return ToggleTaskMsg{Task: task} }
		case key.Matches(msg, m.keys.Note):
			return m, func() tea.Msg { return EditNoteMsg{Task: task} }
		case key.Matches(msg, m.keys.Rate):
			return m, func() tea.Msg { return RateTaskMsg{Task: task} }
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if len(m.list.Items()) == 0 {
		return "\n  Nothing scheduled for this day."
	}
	return m.list.View()
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}
