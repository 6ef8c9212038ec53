package system

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Will-L07/scheduler/internal/cli"
	"github.com/Will-L07/scheduler/internal/storage"
)

type DebugCmd struct {
	DBPath       *DebugDBPathCmd       `cmd:"" help:"Show storage location."`
	Keys         *DebugKeysCmd         `cmd:"" help:"List stored record keys."`
	DumpRecord   *DebugDumpRecordCmd   `cmd:"" help:"Dump a raw stored record."`
	DumpSchedule *DebugDumpScheduleCmd `cmd:"" help:"Dump schedule data as JSON."`
	DumpEntry    *DebugDumpEntryCmd    `cmd:"" help:"Dump entry data as JSON."`
	DumpNote     *DebugDumpNoteCmd     `cmd:"" help:"Dump note data as JSON."`
	DumpSettings *DebugDumpSettingsCmd `cmd:"" help:"Dump settings data as JSON."`
}

func printJSON(ctx *cli.Context, v any) error {
	jsonBytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	ctx.Println(string(jsonBytes))
	return nil
}

type DebugDBPathCmd struct{}

func (cmd *DebugDBPathCmd) Run(ctx *cli.Context) error {
	return printJSON(ctx, map[string]string{
		"path": ctx.Provider.GetConfigPath(),
	})
}

type DebugKeysCmd struct{}

func (cmd *DebugKeysCmd) Run(ctx *cli.Context) error {
	keys, err := ctx.Provider.Keys()
	if err != nil {
		return fmt.Errorf("failed to list keys: %w", err)
	}
	if keys == nil {
		keys = []string{}
	}
	return printJSON(ctx, keys)
}

type DebugDumpRecordCmd struct {
	Key string `arg:"" help:"Record key (schedules, notes, settings, seeded, notified)."`
}

func (cmd *DebugDumpRecordCmd) Run(ctx *cli.Context) error {
	data, err := ctx.Provider.Get(cmd.Key)
	if errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("record not found: %s", cmd.Key)
	}
	if err != nil {
		return fmt.Errorf("failed to read record: %w", err)
	}

	var out bytes.Buffer
	if err := json.Indent(&out, data, "", "  "); err != nil {
		return fmt.Errorf("record %s is not valid JSON: %w", cmd.Key, err)
	}
	ctx.Println(out.String())
	return nil
}

type DebugDumpScheduleCmd struct {
	ID string `arg:"" help:"ID or name of the schedule to dump."`
}

func (cmd *DebugDumpScheduleCmd) Run(ctx *cli.Context) error {
	sch, err := ctx.FindSchedule(cmd.ID)
	if err != nil {
		return err
	}
	return printJSON(ctx, sch)
}

type DebugDumpEntryCmd struct {
	Schedule string `arg:"" help:"ID or name of the schedule."`
	Entry    string `arg:"" help:"ID of the entry to dump."`
}

func (cmd *DebugDumpEntryCmd) Run(ctx *cli.Context) error {
	sch, err := ctx.FindSchedule(cmd.Schedule)
	if err != nil {
		return err
	}
	e, ok := ctx.Store.Entry(sch.ID, cmd.Entry)
	if !ok {
		return fmt.Errorf("entry not found: %s", cmd.Entry)
	}
	return printJSON(ctx, e)
}

type DebugDumpNoteCmd struct {
	ID string `arg:"" help:"ID of the note to dump."`
}

func (cmd *DebugDumpNoteCmd) Run(ctx *cli.Context) error {
	n, ok := ctx.Store.Note(cmd.ID)
	if !ok {
		return fmt.Errorf("note not found: %s", cmd.ID)
	}
	return printJSON(ctx, n)
}

type DebugDumpSettingsCmd struct{}

func (cmd *DebugDumpSettingsCmd) Run(ctx *cli.Context) error {
	return printJSON(ctx, ctx.Store.Settings())
}
