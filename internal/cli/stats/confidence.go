package stats

import (
	"github.com/Will-L07/scheduler/internal/cli"
	"github.com/Will-L07/scheduler/internal/progress"
)

type ConfidenceCmd struct {
	JSON bool `help:"Print the analysis as JSON."`
}

func (c *ConfidenceCmd) Run(ctx *cli.Context) error {
	groups := progress.ConfidenceAnalysis(ctx.Store.Schedules())
	if c.JSON {
		if groups == nil {
			groups = []progress.GroupAnalysis{}
		}
		return printJSON(ctx, groups)
	}
	if len(groups) == 0 {
		ctx.Println("No rated topics yet. Use 'scheduler rate' after a session.")
		return nil
	}

	for _, g := range groups {
		ctx.Printf("%s (%s)\n", g.Group, g.ScheduleName)
		ctx.Printf("  red %d  amber %d  green %d\n", g.Red, g.Amber, g.Green)
		ctx.Printf("  %s\n", g.Feedback)
		for _, t := range g.Topics {
			if t.Confidence == "" {
				continue
			}
			ctx.Printf("    %-30s %-5s %s\n", t.Topic, t.Confidence, t.RatedOn)
		}
		ctx.Println()
	}
	return nil
}

type WeakCmd struct {
	Days int  `short:"d" help:"Look-back window in days." default:"14"`
	JSON bool `help:"Print weak areas as JSON."`
}

func (c *WeakCmd) Run(ctx *cli.Context) error {
	areas := progress.WeakAreas(ctx.Store.Schedules(), ctx.Today(), c.Days)
	if c.JSON {
		if areas == nil {
			areas = []progress.WeakArea{}
		}
		return printJSON(ctx, areas)
	}
	if len(areas) == 0 {
		ctx.Printf("No red or amber topics in the last %d days.\n", c.Days)
		return nil
	}

	ctx.Printf("Topics to revisit (last %d days):\n", c.Days)
	for _, a := range areas {
		ctx.Printf("  %s %-5s %s - %s  (%s, %s)\n", cli.Swatch(a.SubjectColor), a.Confidence, a.Subject, a.Topic, a.ScheduleName, a.RatedOn)
	}
	return nil
}
