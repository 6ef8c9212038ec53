// Package progress derives completion statistics and streaks from
// schedules. Every function is pure over its inputs and a "today" reference.
package progress

import (
	"time"

	"github.com/Will-L07/scheduler/internal/constants"
	"github.com/Will-L07/scheduler/internal/models"
	"github.com/Will-L07/scheduler/internal/resolver"
	"github.com/Will-L07/scheduler/internal/utils"
)

// countWeekday counts the dates in [start, end] falling on wd.
func countWeekday(start, end time.Time, wd time.Weekday) int {
	if start.After(end) {
		return 0
	}
	offset := (int(wd) - int(start.Weekday()) + 7) % 7
	first := start.AddDate(0, 0, offset)
	if first.After(end) {
		return 0
	}
	return utils.DaysBetween(first, end)/7 + 1
}

// occurrencesSoFar counts the weekday slots a recurring entry has had from
// the start of each phase up to min(phase end, today), summed across phases.
func occurrencesSoFar(sch models.Schedule, wd time.Weekday, today time.Time) int {
	today = utils.DateOf(today)
	total := 0
	for _, p := range sch.Phases {
		start, err := utils.ParseDate(p.StartDate)
		if err != nil {
			continue
		}
		end, err := utils.ParseDate(p.EndDate)
		if err != nil {
			continue
		}
		if end.After(today) {
			end = today
		}
		total += countWeekday(start, end, wd)
	}
	return total
}

// EntryProgress tallies one entry. Recurring entries count every completion
// logged, so Completed may exceed Total; Percent stays within 0..100.
func EntryProgress(sch models.Schedule, e models.Entry, today time.Time) models.Progress {
	switch occ := e.Occurrence.(type) {
	case *models.DatedOccurrence:
		done := 0
		if occ.Completed {
			done = 1
		}
		return models.NewProgress(1, done)
	case *models.RecurringOccurrence:
		return models.NewProgress(occurrencesSoFar(sch, occ.DayOfWeek, today), len(occ.CompletedDates))
	}
	return models.Progress{}
}

// ForSchedule sums EntryProgress over one schedule.
func ForSchedule(sch models.Schedule, today time.Time) models.Progress {
	var p models.Progress
	for _, e := range sch.Entries {
		p = p.Add(EntryProgress(sch, e, today))
	}
	return p
}

// Overall sums EntryProgress over every schedule.
func Overall(schedules []models.Schedule, today time.Time) models.Progress {
	var p models.Progress
	for _, sch := range schedules {
		p = p.Add(ForSchedule(sch, today))
	}
	return p
}

type SubjectProgress struct {
	Subject string `json:"subject"`
	models.Progress
}

// BySubject groups progress by entry subject in first-seen order.
// Entries without a subject fall under "Other".
func BySubject(schedules []models.Schedule, today time.Time) []SubjectProgress {
	var out []SubjectProgress
	index := map[string]int{}
	for _, sch := range schedules {
		for _, e := range sch.Entries {
			subj := e.Subject
			if subj == "" {
				subj = constants.OtherSubject
			}
			i, ok := index[subj]
			if !ok {
				i = len(out)
				index[subj] = i
				out = append(out, SubjectProgress{Subject: subj})
			}
			out[i].Progress = out[i].Progress.Add(EntryProgress(sch, e, today))
		}
	}
	return out
}

// Streak counts consecutive days with at least one completed due task,
// walking back from today. Today is skipped when nothing is done yet, days
// with nothing due are passed over, and the first day with due tasks but no
// completions ends the walk.
func Streak(schedules []models.Schedule, today time.Time) int {
	day := utils.DateOf(today)
	if !anyCompleted(resolver.TasksForDate(schedules, day)) {
		day = day.AddDate(0, 0, -1)
	}

	streak := 0
	for i := 0; i < constants.StreakLookbackDays; i++ {
		tasks := resolver.TasksForDate(schedules, day)
		day = day.AddDate(0, 0, -1)
		if len(tasks) == 0 {
			continue
		}
		if !anyCompleted(tasks) {
			break
		}
		streak++
	}
	return streak
}

func anyCompleted(tasks []models.Task) bool {
	for _, t := range tasks {
		if t.Completed {
			return true
		}
	}
	return false
}
