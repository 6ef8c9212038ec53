package system

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/huh"

	"github.com/Will-L07/scheduler/internal/cli"
	"github.com/Will-L07/scheduler/internal/constants"
	"github.com/Will-L07/scheduler/internal/seed"
)

type SeedCmd struct{}

func (c *SeedCmd) Run(ctx *cli.Context) error {
	seeded, err := seed.Run(ctx.Store)
	if err != nil {
		return err
	}
	if seeded {
		ctx.Println("Added the example revision and hiking schedules.")
	} else {
		ctx.Println("Example schedules were already added. Recurring entries checked.")
	}
	return nil
}

type ResetCmd struct {
	Yes bool `short:"y" help:"Skip the confirmation prompt."`
}

func (c *ResetCmd) Run(ctx *cli.Context) error {
	if !c.Yes {
		confirm := false
		err := huh.NewConfirm().
			Title("Delete all schedules, notes and settings?").
			Description("A backup is taken first for file-based storage.").
			Affirmative("Delete").
			Negative("Cancel").
			Value(&confirm).
			Run()
		if err != nil && !errors.Is(err, huh.ErrUserAborted) {
			return fmt.Errorf("failed to confirm reset: %w", err)
		}
		if !confirm {
			ctx.Println("Cancelled.")
			return nil
		}
	}

	ctx.PerformAutomaticBackup()
	if err := ctx.Store.Reset(); err != nil {
		return fmt.Errorf("reset incomplete: %w", err)
	}
	ctx.Printf("All data removed. The example schedules are added again the next time %s starts.\n", constants.AppName)
	return nil
}

type ExportCmd struct {
	File string `arg:"" optional:"" help:"Write to FILE instead of standard output."`
}

func (c *ExportCmd) Run(ctx *cli.Context) error {
	data, err := ctx.Store.Export()
	if err != nil {
		return err
	}
	if c.File == "" {
		ctx.Println(string(data))
		return nil
	}
	if dir := filepath.Dir(c.File); dir != "." {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return fmt.Errorf("failed to create export directory: %w", err)
		}
	}
	if err := os.WriteFile(c.File, data, 0600); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	ctx.Printf("✓ Exported to %s\n", c.File)
	return nil
}

type ImportCmd struct {
	File string `arg:"" type:"existingfile" help:"Export file to import."`
}

func (c *ImportCmd) Run(ctx *cli.Context) error {
	data, err := os.ReadFile(c.File)
	if err != nil {
		return fmt.Errorf("failed to read import file: %w", err)
	}

	ctx.PerformAutomaticBackup()
	res, err := ctx.Store.Import(data)
	if err != nil {
		return err
	}
	ctx.Printf("✓ Imported %s\n", c.File)
	ctx.Printf("  Schedules: %d replaced, %d added\n", res.SchedulesReplaced, res.SchedulesAdded)
	ctx.Printf("  Notes:     %d added\n", res.NotesAdded)
	if res.SettingsReplaced {
		ctx.Println("  Settings:  replaced")
	}
	return nil
}
