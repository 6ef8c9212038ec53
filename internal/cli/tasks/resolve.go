package tasks

import (
	"fmt"
	"strconv"
	"time"

	"github.com/Will-L07/scheduler/internal/cli"
	"github.com/Will-L07/scheduler/internal/models"
	"github.com/Will-L07/scheduler/internal/resolver"
)

// TaskRef is shared by commands that address one task either by its number
// in the day's list or by schedule and entry id.
type TaskRef struct {
	Ref   string `arg:"" help:"Task number from 'today', or a schedule id or name."`
	Entry string `arg:"" optional:"" help:"Entry id, when REF names a schedule."`
	Date  string `help:"Day the task belongs to (YYYY-MM-DD, today, tomorrow, yesterday)." default:"today"`
}

func (r TaskRef) resolve(ctx *cli.Context) (models.Task, time.Time, error) {
	day, err := ctx.ParseDay(r.Date)
	if err != nil {
		return models.Task{}, day, err
	}

	if r.Entry == "" {
		n, err := strconv.Atoi(r.Ref)
		if err != nil {
			return models.Task{}, day, fmt.Errorf("expected a task number or a schedule and entry id, got %q", r.Ref)
		}
		tasks := resolver.TasksForDate(ctx.Store.Schedules(), day)
		if n < 1 || n > len(tasks) {
			return models.Task{}, day, fmt.Errorf("task number %d out of range (1-%d)", n, len(tasks))
		}
		return tasks[n-1], day, nil
	}

	sch, err := ctx.FindSchedule(r.Ref)
	if err != nil {
		return models.Task{}, day, err
	}
	i := sch.EntryIndex(r.Entry)
	if i < 0 {
		return models.Task{}, day, fmt.Errorf("entry %s not found in schedule %s", r.Entry, sch.ID)
	}
	entry := sch.Entries[i]
	if task, ok := resolver.Resolve(sch, entry, day); ok {
		return task, day, nil
	}

	// Not due on day: still address the record the day would use.
	task := models.Task{ScheduleID: sch.ID, ScheduleName: sch.Name, ScheduleColor: sch.Color, Entry: entry}
	switch occ := entry.Occurrence.(type) {
	case *models.DatedOccurrence:
		task.CompletionKey = occ.Date
		task.Completed = occ.Completed
		task.Notes = occ.Notes
		task.Confidence = occ.Confidence
	case *models.RecurringOccurrence:
		key := resolver.CompletionKey(sch, day)
		task.CompletionKey = key
		task.Completed = occ.IsCompleted(key)
		task.Notes = occ.NotesByDate[key]
		task.Confidence = occ.ConfidenceByDate[key]
	}
	return task, day, nil
}

func describe(t models.Task) string {
	return fmt.Sprintf("%s - %s", t.Entry.Subject, t.Entry.Topic)
}
