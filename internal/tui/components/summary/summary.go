package summary

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Will-L07/scheduler/internal/models"
	stats "github.com/Will-L07/scheduler/internal/progress"
	"github.com/Will-L07/scheduler/internal/utils"
)

var (
	headingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Width(18)

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)

	redStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	amberStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
)

const maxExams = 5

// Model renders overall and per-subject progress, the streak, upcoming
// exams and weak areas in a scrollable viewport.
type Model struct {
	viewport viewport.Model
	bar      progress.Model
	width    int
	height   int
}

func New(width, height int) Model {
	return Model{
		viewport: viewport.New(width, height),
		bar:      progress.New(progress.WithDefaultGradient(), progress.WithWidth(30)),
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	return m.viewport.View()
}

func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height
}

// Render recomputes the content from schedules and exams as of today.
func (m *Model) Render(schedules []models.Schedule, exams []models.ExamRef, today time.Time) {
	m.viewport.SetContent(m.content(schedules, exams, today))
}

func (m Model) content(schedules []models.Schedule, exams []models.ExamRef, today time.Time) string {
	var b strings.Builder

	overall := stats.Overall(schedules, today)
	b.WriteString(headingStyle.Render("Overall") + "\n")
	fmt.Fprintf(&b, "%s %d/%d\n", m.bar.ViewAs(float64(overall.Percent)/100), overall.Completed, overall.Total)
	fmt.Fprintf(&b, "Streak: %d day(s)\n\n", stats.Streak(schedules, today))

	if subjects := stats.BySubject(schedules, today); len(subjects) > 0 {
		b.WriteString(headingStyle.Render("By subject") + "\n")
		for _, s := range subjects {
			fmt.Fprintf(&b, "%s %s %3d%%\n", labelStyle.Render(s.Subject), m.bar.ViewAs(float64(s.Percent)/100), s.Percent)
		}
		b.WriteString("\n")
	}

	b.WriteString(headingStyle.Render("Upcoming exams") + "\n")
	shown := 0
	for _, ex := range exams {
		days, err := utils.DaysUntil(ex.Date, today)
		if err != nil || days < 0 {
			continue
		}
		when := fmt.Sprintf("in %d days", days)
		switch days {
		case 0:
			when = "TODAY"
		case 1:
			when = "tomorrow"
		}
		fmt.Fprintf(&b, "%s %s %s\n", labelStyle.Render(ex.Date), ex.Name, mutedStyle.Render(fmt.Sprintf("(%s, %s)", ex.Session, when)))
		shown++
		if shown == maxExams {
			break
		}
	}
	if shown == 0 {
		b.WriteString(mutedStyle.Render("No upcoming exams.") + "\n")
	}

	if weak := stats.WeakAreas(schedules, today, 0); len(weak) > 0 {
		b.WriteString("\n" + headingStyle.Render("Weak areas") + "\n")
		for _, w := range weak {
			style := amberStyle
			if w.Confidence == models.ConfidenceRed {
				style = redStyle
			}
			fmt.Fprintf(&b, "%s %s\n", style.Render("●"), w.Topic)
		}
	}
	return b.String()
}
