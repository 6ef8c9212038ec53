package tasks

import (
	"fmt"

	"github.com/Will-L07/scheduler/internal/cli"
)

type ToggleCmd struct {
	TaskRef `embed:""`
}

func (c *ToggleCmd) Run(ctx *cli.Context) error {
	task, _, err := c.resolve(ctx)
	if err != nil {
		return err
	}
	if !ctx.Store.ToggleEntryComplete(task.ScheduleID, task.Entry.ID, task.CompletionKey) {
		return fmt.Errorf("failed to toggle %s", describe(task))
	}

	state := "done"
	if task.Completed {
		state = "not done"
	}
	if task.Recurring() {
		ctx.Printf("✓ %s marked %s for %s\n", describe(task), state, task.CompletionKey)
	} else {
		ctx.Printf("✓ %s marked %s\n", describe(task), state)
	}
	return nil
}
