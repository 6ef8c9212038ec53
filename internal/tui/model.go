package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/Will-L07/scheduler/internal/datastore"
	"github.com/Will-L07/scheduler/internal/models"
	"github.com/Will-L07/scheduler/internal/resolver"
	"github.com/Will-L07/scheduler/internal/tui/components/summary"
	"github.com/Will-L07/scheduler/internal/tui/components/tasklist"
	"github.com/Will-L07/scheduler/internal/utils"
)

type SessionState int

const (
	StateToday SessionState = iota
	StateSummary
	StateEditingNote
)

var tabTitles = []string{"Today", "Progress"}

// refreshInterval picks up writes from other processes, such as a running
// sync watch, and the day rolling over.
const refreshInterval = 30 * time.Second

type refreshMsg time.Time

type NoteFormModel struct {
	Text string
}

type Model struct {
	store    *datastore.Store
	now      func() time.Time
	day      time.Time
	state    SessionState
	keys     KeyMap
	help     help.Model
	taskList tasklist.Model
	summary  summary.Model
	form     *huh.Form
	noteForm *NoteFormModel
	editing  *models.Task
	status   string
	quitting bool
	width    int
	height   int
}

func NewModel(store *datastore.Store, now func() time.Time) Model {
	if now == nil {
		now = time.Now
	}
	m := Model{
		store:    store,
		now:      now,
		day:      utils.DateOf(now()),
		state:    StateToday,
		keys:     DefaultKeyMap(),
		help:     help.New(),
		taskList: tasklist.New(nil, 0, 0),
		summary:  summary.New(0, 0),
	}
	m.refresh()
	return m
}

func (m *Model) refresh() {
	schedules := m.store.Schedules()
	m.taskList.SetTasks(resolver.TasksForDate(schedules, m.day))
	m.summary.Render(schedules, m.store.Exams(), utils.DateOf(m.now()))
}

// Day returns the date whose tasks are listed.
func (m Model) Day() time.Time {
	return m.day
}

func (m Model) ShortHelp() []key.Binding {
	keys := []key.Binding{m.keys.Tab, m.keys.Quit, m.keys.Help}
	if m.state == StateToday {
		tl := tasklist.DefaultKeyMap()
		keys = append(keys, tl.Toggle, tl.Note, m.keys.PrevDay, m.keys.NextDay)
	}
	return keys
}

func (m Model) FullHelp() [][]key.Binding {
	global := []key.Binding{m.keys.Tab, m.keys.ShiftTab, m.keys.Quit, m.keys.Help}
	navigation := []key.Binding{m.keys.Up, m.keys.Down, m.keys.PrevDay, m.keys.NextDay, m.keys.Today}

	var actions []key.Binding
	if m.state == StateToday {
		tl := tasklist.DefaultKeyMap()
		actions = []key.Binding{tl.Toggle, tl.Note, tl.Rate}
	}
	return [][]key.Binding{global, navigation, actions}
}

func (m Model) Init() tea.Cmd {
	return scheduleRefresh()
}

func scheduleRefresh() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg { return refreshMsg(t) })
}
