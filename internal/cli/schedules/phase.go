package schedules

import (
	"fmt"

	"github.com/Will-L07/scheduler/internal/cli"
	"github.com/Will-L07/scheduler/internal/datastore"
	"github.com/Will-L07/scheduler/internal/models"
	"github.com/Will-L07/scheduler/internal/utils"
)

type PhaseAddCmd struct {
	Schedule string `arg:"" help:"Schedule id or name."`
	Name     string `arg:"" help:"Phase name."`
	Start    string `short:"s" help:"First day of the phase (YYYY-MM-DD)." required:""`
	End      string `short:"e" help:"Last day of the phase (YYYY-MM-DD)." required:""`
}

func (c *PhaseAddCmd) Validate() error {
	start, err := utils.ParseDate(c.Start)
	if err != nil {
		return fmt.Errorf("invalid start date: %w", err)
	}
	end, err := utils.ParseDate(c.End)
	if err != nil {
		return fmt.Errorf("invalid end date: %w", err)
	}
	if end.Before(start) {
		return fmt.Errorf("end date %s is before start date %s", c.End, c.Start)
	}
	return nil
}

func (c *PhaseAddCmd) Run(ctx *cli.Context) error {
	sch, err := ctx.FindSchedule(c.Schedule)
	if err != nil {
		return err
	}

	phases := append(sch.Phases, models.Phase{Name: c.Name, StartDate: c.Start, EndDate: c.End})
	_, ok, err := ctx.Store.UpdateSchedule(sch.ID, datastore.SchedulePatch{Phases: &phases})
	if err != nil {
		return fmt.Errorf("failed to add phase: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w: %s", datastore.ErrUnknownSchedule, sch.ID)
	}
	ctx.Printf("Added phase %s (%s to %s) to %s\n", c.Name, c.Start, c.End, sch.Name)
	return nil
}
