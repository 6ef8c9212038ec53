package schedules

import (
	"fmt"

	"github.com/Will-L07/scheduler/internal/cli"
	"github.com/Will-L07/scheduler/internal/datastore"
	"github.com/Will-L07/scheduler/internal/models"
	"github.com/Will-L07/scheduler/internal/utils"
)

type ExamAddCmd struct {
	Schedule string `arg:"" help:"Schedule id or name."`
	Name     string `arg:"" help:"Exam name."`
	Date     string `short:"d" help:"Exam date (YYYY-MM-DD)." required:""`
	Session  string `short:"s" help:"Session, e.g. AM or PM."`
}

func (c *ExamAddCmd) Validate() error {
	if !utils.ValidateDateFormat(c.Date) {
		return fmt.Errorf("invalid date format (expected YYYY-MM-DD): %s", c.Date)
	}
	return nil
}

func (c *ExamAddCmd) Run(ctx *cli.Context) error {
	sch, err := ctx.FindSchedule(c.Schedule)
	if err != nil {
		return err
	}

	exams := append(sch.Exams, models.Exam{Name: c.Name, Date: c.Date, Session: c.Session})
	_, ok, err := ctx.Store.UpdateSchedule(sch.ID, datastore.SchedulePatch{Exams: &exams})
	if err != nil {
		return fmt.Errorf("failed to add exam: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w: %s", datastore.ErrUnknownSchedule, sch.ID)
	}
	ctx.Printf("Added exam %s on %s to %s\n", c.Name, c.Date, sch.Name)
	return nil
}

type ExamsCmd struct {
	All bool `short:"a" help:"Include exams that have already passed."`
}

func (c *ExamsCmd) Run(ctx *cli.Context) error {
	today := ctx.Today()
	shown := 0
	for _, ex := range ctx.Store.Exams() {
		days, err := utils.DaysUntil(ex.Date, today)
		if err != nil {
			continue
		}
		if days < 0 && !c.All {
			continue
		}
		shown++
		ctx.Printf("%s %s  %-28s %-4s %s  (%s)\n", cli.Swatch(ex.ScheduleColor), ex.Date, ex.Name, ex.Session, ex.ScheduleName, countdown(days))
	}
	if shown == 0 {
		ctx.Println("No upcoming exams.")
	}
	return nil
}

func countdown(days int) string {
	switch {
	case days == 0:
		return "today"
	case days == 1:
		return "tomorrow"
	case days < 0:
		return fmt.Sprintf("%d days ago", -days)
	default:
		return fmt.Sprintf("in %d days", days)
	}
}
