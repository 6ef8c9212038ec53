package tasks

import (
	"encoding/json"
	"fmt"

	"github.com/Will-L07/scheduler/internal/cli"
	"github.com/Will-L07/scheduler/internal/models"
	"github.com/Will-L07/scheduler/internal/resolver"
	"github.com/Will-L07/scheduler/internal/utils"
)

type TodayCmd struct {
	Date string `arg:"" optional:"" help:"Day to show (YYYY-MM-DD, today, tomorrow, yesterday)." default:"today"`
	JSON bool   `help:"Print tasks as JSON."`
}

type taskJSON struct {
	Number        int               `json:"number"`
	ScheduleID    string            `json:"scheduleId"`
	ScheduleName  string            `json:"scheduleName"`
	EntryID       string            `json:"entryId"`
	Subject       string            `json:"subject"`
	Topic         string            `json:"topic"`
	Duration      string            `json:"duration"`
	Recurring     bool              `json:"recurring"`
	CompletionKey string            `json:"completionKey"`
	Completed     bool              `json:"completed"`
	Notes         string            `json:"notes,omitempty"`
	Confidence    models.Confidence `json:"confidence,omitempty"`
}

func (c *TodayCmd) Run(ctx *cli.Context) error {
	day, err := ctx.ParseDay(c.Date)
	if err != nil {
		return err
	}
	tasks := resolver.TasksForDate(ctx.Store.Schedules(), day)

	if c.JSON {
		out := make([]taskJSON, len(tasks))
		for i, t := range tasks {
			out[i] = taskJSON{
				Number:        i + 1,
				ScheduleID:    t.ScheduleID,
				ScheduleName:  t.ScheduleName,
				EntryID:       t.Entry.ID,
				Subject:       t.Entry.Subject,
				Topic:         t.Entry.Topic,
				Duration:      t.Entry.Duration,
				Recurring:     t.Recurring(),
				CompletionKey: t.CompletionKey,
				Completed:     t.Completed,
				Notes:         t.Notes,
				Confidence:    t.Confidence,
			}
		}
		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal tasks: %w", err)
		}
		ctx.Println(string(data))
		return nil
	}

	ctx.Printf("%s\n", day.Format("Monday 2 January 2006"))
	for _, ex := range ctx.Store.Exams() {
		if ex.Date == utils.FormatDate(day) {
			ctx.Printf("  EXAM: %s (%s)\n", ex.Name, ex.Session)
		}
	}
	if len(tasks) == 0 {
		ctx.Println("  Nothing scheduled.")
		return nil
	}

	done := 0
	for i, t := range tasks {
		if t.Completed {
			done++
		}
		ctx.Printf("%3d. %s %s %s", i+1, cli.Checkbox(t.Completed), cli.Swatch(t.ScheduleColor), describe(t))
		if d := t.Entry.Duration; d != "" && d != "-" {
			ctx.Printf(" (%s)", d)
		}
		if t.Confidence != models.ConfidenceNone {
			ctx.Printf(" [%s]", t.Confidence)
		}
		ctx.Println()
		if t.Entry.TaskFocus != "" {
			ctx.Printf("        %s\n", t.Entry.TaskFocus)
		}
		if t.Notes != "" {
			ctx.Printf("        Note: %s\n", t.Notes)
		}
	}
	ctx.Printf("\n%d of %d done\n", done, len(tasks))
	return nil
}
