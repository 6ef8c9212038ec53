package system

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Will-L07/scheduler/internal/cli"
	"github.com/Will-L07/scheduler/internal/constants"
	"github.com/Will-L07/scheduler/internal/seed"
	"github.com/Will-L07/scheduler/internal/storage"
)

type InitCmd struct {
	Force  bool   `help:"Force reset by deleting the existing data file before initialization."`
	Source string `help:"Storage location (path or connection string) to copy records from."`
	NoSeed bool   `help:"Do not add the bundled example schedules."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	path := ctx.Provider.GetConfigPath()
	if c.Force {
		if c.Source != "" {
			absPath, err := filepath.Abs(path)
			if err == nil {
				path = absPath
			}
			if absSource, err := filepath.Abs(c.Source); err == nil && absSource == path {
				return fmt.Errorf("cannot use --force when source and destination are the same: %s", path)
			}
		}
		if _, err := os.Stat(path); err == nil {
			if err := ctx.Provider.Close(); err != nil {
				return fmt.Errorf("failed to close existing storage: %w", err)
			}
			if err := os.Remove(path); err != nil {
				return fmt.Errorf("failed to delete existing storage: %w", err)
			}
			ctx.Printf("Deleted existing storage at: %s\n", path)
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("failed to access existing storage: %w", err)
		}
	}

	if err := ctx.Provider.Init(); err != nil {
		return err
	}
	ctx.Printf("Initialized %s storage at: %s\n", constants.AppName, ctx.Provider.GetConfigPath())

	if c.Source != "" {
		ctx.Printf("Copying records from: %s\n", c.Source)
		n, err := copyRecords(ctx.Provider, c.Source)
		if err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		ctx.Printf("Copied %d record(s).\n", n)
	}

	if err := ctx.Store.Load(); err != nil {
		return err
	}
	if c.NoSeed {
		if !ctx.Store.Seeded() {
			ctx.Store.MarkSeeded()
		}
		return ctx.Store.Flush()
	}
	seeded, err := seed.Run(ctx.Store)
	if err != nil {
		return err
	}
	if seeded {
		ctx.Println("Added the example revision and hiking schedules.")
	}
	return ctx.Store.Flush()
}

// copyRecords copies every key from the provider at source into dst.
// Each value must be a JSON document.
func copyRecords(dst storage.Provider, source string) (int, error) {
	src, err := cli.OpenProvider(source)
	if err != nil {
		return 0, err
	}
	if err := src.Load(); err != nil {
		return 0, fmt.Errorf("failed to load source storage: %w", err)
	}
	defer src.Close()

	keys, err := src.Keys()
	if err != nil {
		return 0, fmt.Errorf("failed to list source records: %w", err)
	}
	n := 0
	for _, key := range keys {
		value, err := src.Get(key)
		if errors.Is(err, storage.ErrNotFound) {
			continue
		}
		if err != nil {
			return n, fmt.Errorf("failed to read %s: %w", key, err)
		}
		if !json.Valid(value) {
			return n, fmt.Errorf("record %s is not valid JSON", key)
		}
		if err := dst.Set(key, value); err != nil {
			return n, fmt.Errorf("failed to write %s: %w", key, err)
		}
		n++
	}
	return n, nil
}
