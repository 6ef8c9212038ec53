package stats

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Will-L07/scheduler/internal/cli"
	"github.com/Will-L07/scheduler/internal/models"
	"github.com/Will-L07/scheduler/internal/progress"
)

const barWidth = 20

func bar(p models.Progress) string {
	filled := p.Percent * barWidth / 100
	return "[" + strings.Repeat("#", filled) + strings.Repeat(".", barWidth-filled) + "]"
}

func printJSON(ctx *cli.Context, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	ctx.Println(string(data))
	return nil
}

type ProgressCmd struct {
	Schedule string `arg:"" optional:"" help:"Limit to one schedule (id or name)."`
	JSON     bool   `help:"Print progress as JSON."`
}

type progressReport struct {
	Overall    models.Progress            `json:"overall"`
	Schedules  map[string]models.Progress `json:"schedules"`
	BySubject  []progress.SubjectProgress `json:"bySubject"`
	StreakDays int                        `json:"streakDays"`
}

func (c *ProgressCmd) Run(ctx *cli.Context) error {
	schedules := ctx.Store.Schedules()
	if c.Schedule != "" {
		sch, err := ctx.FindSchedule(c.Schedule)
		if err != nil {
			return err
		}
		schedules = []models.Schedule{sch}
	}
	today := ctx.Today()

	report := progressReport{
		Overall:    progress.Overall(schedules, today),
		Schedules:  make(map[string]models.Progress, len(schedules)),
		BySubject:  progress.BySubject(schedules, today),
		StreakDays: progress.Streak(schedules, today),
	}
	for _, sch := range schedules {
		report.Schedules[sch.ID] = progress.ForSchedule(sch, today)
	}
	if c.JSON {
		return printJSON(ctx, report)
	}

	ctx.Printf("Overall   %s %3d%%  (%d of %d)\n", bar(report.Overall), report.Overall.Percent, report.Overall.Completed, report.Overall.Total)
	ctx.Printf("Streak    %d day(s)\n", report.StreakDays)

	ctx.Println("\nSchedules:")
	for _, sch := range schedules {
		p := report.Schedules[sch.ID]
		ctx.Printf("  %s %-24s %s %3d%%\n", cli.Swatch(sch.Color), sch.Name, bar(p), p.Percent)
	}

	if len(report.BySubject) > 0 {
		ctx.Println("\nBy subject:")
		for _, s := range report.BySubject {
			ctx.Printf("  %-26s %s %3d%%  (%d of %d)\n", s.Subject, bar(s.Progress), s.Percent, s.Completed, s.Total)
		}
	}
	return nil
}

type StreakCmd struct{}

func (c *StreakCmd) Run(ctx *cli.Context) error {
	n := progress.Streak(ctx.Store.Schedules(), ctx.Today())
	switch n {
	case 0:
		ctx.Println("No current streak. Complete a task today to start one.")
	case 1:
		ctx.Println("1 day streak")
	default:
		ctx.Printf("%d day streak\n", n)
	}
	return nil
}
