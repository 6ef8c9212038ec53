package schedules

import (
	"fmt"
	"strings"

	"github.com/Will-L07/scheduler/internal/cli"
	"github.com/Will-L07/scheduler/internal/models"
	"github.com/Will-L07/scheduler/internal/progress"
	"github.com/Will-L07/scheduler/internal/resolver"
)

type ScheduleAddCmd struct {
	Name        string `arg:"" help:"Schedule name."`
	ID          string `help:"Schedule id. Generated when omitted."`
	Type        string `short:"t" help:"Schedule type (revision|training)." enum:"revision,training" default:"revision"`
	Color       string `short:"c" help:"Hex colour used to mark the schedule's tasks." default:"#6366f1"`
	WeeklyReset bool   `help:"Recurring completions reset each ISO week instead of each day."`
}

func (c *ScheduleAddCmd) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("schedule name is required")
	}
	if c.Color != "" && (!strings.HasPrefix(c.Color, "#") || (len(c.Color) != 4 && len(c.Color) != 7)) {
		return fmt.Errorf("colour must be a hex value like #6366f1, got %q", c.Color)
	}
	return nil
}

func (c *ScheduleAddCmd) Run(ctx *cli.Context) error {
	sch, err := ctx.Store.AddSchedule(models.Schedule{
		ID:          c.ID,
		Name:        strings.TrimSpace(c.Name),
		Type:        models.ScheduleType(c.Type),
		Color:       c.Color,
		WeeklyReset: c.WeeklyReset,
	})
	if err != nil {
		return fmt.Errorf("failed to add schedule: %w", err)
	}
	ctx.Printf("Added schedule: %s (ID: %s)\n", sch.Name, sch.ID)
	return nil
}

type ScheduleListCmd struct{}

func (c *ScheduleListCmd) Run(ctx *cli.Context) error {
	schedules := ctx.Store.Schedules()
	if len(schedules) == 0 {
		ctx.Println("No schedules. Run 'scheduler seed' or 'scheduler schedule add'.")
		return nil
	}

	today := ctx.Today()
	for _, sch := range schedules {
		p := progress.ForSchedule(sch, today)
		ctx.Printf("%s %s [%s] %s\n", cli.Swatch(sch.Color), sch.Name, sch.Type, sch.ID)
		ctx.Printf("    %d entries, %d of %d done (%d%%)", len(sch.Entries), p.Completed, p.Total, p.Percent)
		if phase, ok := resolver.CurrentPhase(sch, today); ok {
			ctx.Printf(", phase: %s", phase.Name)
		}
		ctx.Println()
	}
	return nil
}

type ScheduleShowCmd struct {
	Schedule string `arg:"" help:"Schedule id or name."`
}

func (c *ScheduleShowCmd) Run(ctx *cli.Context) error {
	sch, err := ctx.FindSchedule(c.Schedule)
	if err != nil {
		return err
	}

	ctx.Printf("%s %s (ID: %s)\n", cli.Swatch(sch.Color), sch.Name, sch.ID)
	ctx.Printf("  Type: %s", sch.Type)
	if sch.WeeklyReset {
		ctx.Printf(", weekly reset")
	}
	ctx.Println()

	if len(sch.Phases) > 0 {
		ctx.Println("\nPhases:")
		for _, p := range sch.Phases {
			ctx.Printf("  %s  %s to %s\n", p.Name, p.StartDate, p.EndDate)
		}
	}
	if len(sch.Exams) > 0 {
		ctx.Println("\nExams:")
		for _, ex := range sch.Exams {
			ctx.Printf("  %s  %s (%s)\n", ex.Date, ex.Name, ex.Session)
		}
	}

	ctx.Println("\nEntries:")
	if len(sch.Entries) == 0 {
		ctx.Println("  (none)")
	}
	for _, e := range sch.Entries {
		switch occ := e.Occurrence.(type) {
		case *models.DatedOccurrence:
			ctx.Printf("  %s %s  %s - %s (%s)  [%s]\n", cli.Checkbox(occ.Completed), occ.Date, e.Subject, e.Topic, e.Duration, e.ID)
		case *models.RecurringOccurrence:
			ctx.Printf("  every %-9s  %s - %s (%s)  [%s] %d done\n", occ.DayOfWeek, e.Subject, e.Topic, e.Duration, e.ID, len(occ.CompletedDates))
		}
	}
	return nil
}

type ScheduleDeleteCmd struct {
	Schedule string `arg:"" help:"Schedule id or name."`
}

func (c *ScheduleDeleteCmd) Run(ctx *cli.Context) error {
	sch, err := ctx.FindSchedule(c.Schedule)
	if err != nil {
		return err
	}

	ctx.PerformAutomaticBackup()
	ctx.Store.DeleteSchedule(sch.ID)
	ctx.Printf("Deleted schedule: %s (ID: %s)\n", sch.Name, sch.ID)
	return nil
}
