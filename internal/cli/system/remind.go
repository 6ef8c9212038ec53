package system

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/Will-L07/scheduler/internal/cli"
	"github.com/Will-L07/scheduler/internal/notifier"
	"github.com/Will-L07/scheduler/internal/reminder"
	"github.com/Will-L07/scheduler/internal/resolver"
)

type RemindCmd struct {
	DryRun   bool          `help:"Print due reminders to stdout instead of sending them."`
	Force    bool          `help:"Send even when notifications are disabled in settings."`
	Watch    bool          `help:"Keep running and check periodically."`
	Interval time.Duration `help:"Check interval for --watch. Defaults to notify.interval from the config file."`
	Stdout   bool          `help:"Deliver to stdout instead of the tray companion."`
}

func (c *RemindCmd) Run(ctx *cli.Context) error {
	if c.DryRun {
		due := reminder.Due(ctx.LocalNow(), resolver.TasksForDate(ctx.Store.Schedules(), ctx.Today()), ctx.Store.Exams())
		if !ctx.Store.Settings().NotificationsEnabled {
			ctx.Println("Notifications are disabled in settings.")
		}
		if len(due) == 0 {
			ctx.Println("No reminders due.")
		}
		for _, r := range due {
			ctx.Printf("[DryRun] %s: %s\n", r.Title, r.Body)
		}
		return nil
	}

	var n notifier.Notifier = notifier.NewTray()
	if c.Stdout {
		n = notifier.Writer{W: ctx.Out}
	}
	runner := reminder.NewRunner(ctx.Store, n, ctx.LocalNow)
	force := c.Force || ctx.Config.Notify.Enabled

	if c.Watch {
		interval := c.Interval
		if interval <= 0 {
			interval = ctx.Config.Notify.Interval
		}
		sigCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		ctx.Printf("Checking reminders every %s. Press Ctrl+C to stop.\n", interval)
		return runner.Watch(sigCtx, interval, force)
	}

	sent, err := runner.Check(context.Background(), force)
	for _, r := range sent {
		ctx.Printf("✓ Sent: %s\n", r.Title)
	}
	if err != nil {
		return fmt.Errorf("some reminders failed: %w", err)
	}
	return nil
}
