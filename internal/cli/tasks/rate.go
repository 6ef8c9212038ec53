package tasks

import (
	"fmt"

	"github.com/Will-L07/scheduler/internal/cli"
	"github.com/Will-L07/scheduler/internal/models"
)

type RateCmd struct {
	Level   string `arg:"" enum:"red,amber,green,none" help:"Confidence: red, amber, green, or none to clear."`
	TaskRef `embed:""`
}

func (c *RateCmd) Run(ctx *cli.Context) error {
	level := c.Level
	if level == "none" {
		level = ""
	}
	conf, err := models.ParseConfidence(level)
	if err != nil {
		return err
	}

	task, _, err := c.resolve(ctx)
	if err != nil {
		return err
	}
	if !ctx.Store.SetEntryConfidence(task.ScheduleID, task.Entry.ID, conf, task.CompletionKey) {
		return fmt.Errorf("failed to rate %s", describe(task))
	}
	ctx.Printf("✓ %s rated %s\n", describe(task), c.Level)
	return nil
}
