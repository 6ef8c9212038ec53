package schedules

import (
	"fmt"
	"strings"

	"github.com/Will-L07/scheduler/internal/cli"
	"github.com/Will-L07/scheduler/internal/constants"
	"github.com/Will-L07/scheduler/internal/models"
	"github.com/Will-L07/scheduler/internal/utils"
)

type EntryAddCmd struct {
	Schedule string `arg:"" help:"Schedule id or name."`
	ID       string `help:"Entry id. Generated when omitted."`
	Date     string `short:"d" help:"Date of a one-off entry (YYYY-MM-DD)." xor:"when"`
	Day      string `short:"w" help:"Weekday of a recurring entry (e.g. mon, friday)." xor:"when"`
	Subject  string `short:"s" help:"Subject. Defaults to General."`
	Topic    string `short:"T" help:"Topic. Defaults to the subject."`
	Duration string `short:"D" help:"Free-form duration such as 45m or 1h."`
	Focus    string `short:"f" help:"What the session should concentrate on."`
	Block    int    `short:"b" help:"Block number within the day."`
}

func (c *EntryAddCmd) Validate() error {
	if c.Date == "" && c.Day == "" {
		return fmt.Errorf("either --date or --day is required")
	}
	if c.Date != "" && !utils.ValidateDateFormat(c.Date) {
		return fmt.Errorf("invalid date format (expected YYYY-MM-DD): %s", c.Date)
	}
	if c.Day != "" {
		if _, err := models.ParseWeekday(c.Day); err != nil {
			return err
		}
	}
	return nil
}

func (c *EntryAddCmd) Run(ctx *cli.Context) error {
	sch, err := ctx.FindSchedule(c.Schedule)
	if err != nil {
		return err
	}

	subject := strings.TrimSpace(c.Subject)
	if subject == "" {
		subject = constants.DefaultSubject
	}
	topic := strings.TrimSpace(c.Topic)
	if topic == "" {
		topic = subject
	}
	duration := strings.TrimSpace(c.Duration)
	if duration == "" {
		duration = constants.DefaultDuration
	}

	var entry models.Entry
	if c.Date != "" {
		entry = models.NewDatedEntry(c.ID, c.Date, subject, topic, duration)
	} else {
		wd, err := models.ParseWeekday(c.Day)
		if err != nil {
			return err
		}
		entry = models.NewRecurringEntry(c.ID, wd, subject, topic, duration)
	}
	entry.TaskFocus = c.Focus
	entry.Block = c.Block

	added, err := ctx.Store.AddEntry(sch.ID, entry)
	if err != nil {
		return fmt.Errorf("failed to add entry: %w", err)
	}
	ctx.Printf("Added entry: %s - %s to %s (ID: %s)\n", added.Subject, added.Topic, sch.Name, added.ID)
	return nil
}

type EntryDeleteCmd struct {
	Schedule string `arg:"" help:"Schedule id or name."`
	Entry    string `arg:"" help:"Entry id."`
}

func (c *EntryDeleteCmd) Run(ctx *cli.Context) error {
	sch, err := ctx.FindSchedule(c.Schedule)
	if err != nil {
		return err
	}
	if !ctx.Store.DeleteEntry(sch.ID, c.Entry) {
		return fmt.Errorf("entry %s not found in schedule %s", c.Entry, sch.ID)
	}
	ctx.Printf("Deleted entry %s from %s\n", c.Entry, sch.Name)
	return nil
}
