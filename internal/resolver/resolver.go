// Package resolver answers what is due on a given calendar date and which
// completion record applies to each due entry.
package resolver

import (
	"time"

	"github.com/Will-L07/scheduler/internal/models"
	"github.com/Will-L07/scheduler/internal/utils"
)

// CurrentPhase returns the first declared phase whose inclusive range
// contains day. Phases with unparseable bounds never match.
func CurrentPhase(sch models.Schedule, day time.Time) (models.Phase, bool) {
	d := utils.FormatDate(day)
	for _, p := range sch.Phases {
		if !utils.ValidateDateFormat(p.StartDate) || !utils.ValidateDateFormat(p.EndDate) {
			continue
		}
		// YYYY-MM-DD strings order chronologically
		if p.StartDate <= d && d <= p.EndDate {
			return p, true
		}
	}
	return models.Phase{}, false
}

// CompletionKey is the date a recurring entry's completion and notes are
// recorded under: the literal date, or the Monday of its week when the
// schedule resets weekly.
func CompletionKey(sch models.Schedule, day time.Time) string {
	if sch.WeeklyReset {
		return utils.FormatDate(utils.WeekStart(day))
	}
	return utils.FormatDate(day)
}

// Resolve reports whether entry is due on day and, if so, its resolved task.
func Resolve(sch models.Schedule, entry models.Entry, day time.Time) (models.Task, bool) {
	date := utils.FormatDate(day)
	task := models.Task{
		ScheduleID:    sch.ID,
		ScheduleName:  sch.Name,
		ScheduleColor: sch.Color,
		Entry:         entry,
	}

	switch occ := entry.Occurrence.(type) {
	case *models.DatedOccurrence:
		if occ.Date != date {
			return models.Task{}, false
		}
		task.CompletionKey = date
		task.Completed = occ.Completed
		task.Notes = occ.Notes
		task.Confidence = occ.Confidence
	case *models.RecurringOccurrence:
		if occ.DayOfWeek != day.Weekday() {
			return models.Task{}, false
		}
		if _, active := CurrentPhase(sch, day); !active {
			return models.Task{}, false
		}
		key := CompletionKey(sch, day)
		task.CompletionKey = key
		task.Completed = occ.IsCompleted(key)
		task.Notes = occ.NotesByDate[key]
		task.Confidence = occ.ConfidenceByDate[key]
	default:
		return models.Task{}, false
	}
	return task, true
}

// TasksForDate lists every task due on day across all schedules, in
// schedule then entry order.
func TasksForDate(schedules []models.Schedule, day time.Time) []models.Task {
	var tasks []models.Task
	for _, sch := range schedules {
		for _, e := range sch.Entries {
			if t, ok := Resolve(sch, e, day); ok {
				tasks = append(tasks, t)
			}
		}
	}
	return tasks
}
