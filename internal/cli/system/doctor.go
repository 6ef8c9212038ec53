package system

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Will-L07/scheduler/internal/backup"
	"github.com/Will-L07/scheduler/internal/cli"
	"github.com/Will-L07/scheduler/internal/constants"
	"github.com/Will-L07/scheduler/internal/datastore"
	"github.com/Will-L07/scheduler/internal/keyring"
	"github.com/Will-L07/scheduler/internal/utils"
)

type DoctorCmd struct{}

type check struct {
	name     string
	fn       func(*cli.Context) error
	warnOnly bool
}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	ctx.Println("Running diagnostics...")
	ctx.Println()

	checks := []check{
		{name: "Schema version", fn: checkSchemaVersion},
		{name: "Migrations complete", fn: checkMigrationsComplete},
		{name: "Schedule integrity", fn: checkSchedules},
		{name: "Unreadable records", fn: checkUnreadableRecords, warnOnly: true},
		{name: "Note links", fn: checkNoteLinks, warnOnly: true},
		{name: "Backups present", fn: checkBackupsPresent, warnOnly: true},
		{name: "Clock/timezone", fn: checkClockTimezone},
		{name: "Keyring", fn: checkKeyring, warnOnly: true},
	}

	hasError := false
	for _, c := range checks {
		err := c.fn(ctx)
		switch {
		case err == nil:
			ctx.Printf("✓ %s: OK\n", c.name)
		case c.warnOnly:
			ctx.Printf("⚠ %s: WARNING\n", c.name)
			ctx.Printf("   %v\n", err)
		default:
			ctx.Printf("❌ %s: FAIL\n", c.name)
			ctx.Printf("   Error: %v\n", err)
			hasError = true
		}
	}

	ctx.Println()
	if hasError {
		ctx.Println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}
	ctx.Println("All diagnostics passed!")
	return nil
}

func schemaVersions(ctx *cli.Context) (current, latest int, ok bool, err error) {
	store, isSQL := ctx.Provider.(migratable)
	if !isSQL {
		return 0, 0, false, nil
	}
	runner, err := store.Runner()
	if err != nil {
		return 0, 0, true, err
	}
	if current, err = runner.GetCurrentVersion(); err != nil {
		return 0, 0, true, fmt.Errorf("failed to get current schema version: %w", err)
	}
	if latest, err = runner.GetLatestVersion(); err != nil {
		return 0, 0, true, fmt.Errorf("failed to get latest schema version: %w", err)
	}
	return current, latest, true, nil
}

func checkSchemaVersion(ctx *cli.Context) error {
	current, latest, ok, err := schemaVersions(ctx)
	if !ok || err != nil {
		return err
	}
	if current > latest {
		return fmt.Errorf("database schema version (%d) is newer than supported version (%d)", current, latest)
	}
	return nil
}

func checkMigrationsComplete(ctx *cli.Context) error {
	current, latest, ok, err := schemaVersions(ctx)
	if !ok || err != nil {
		return err
	}
	if current < latest {
		return fmt.Errorf("migrations incomplete: current version %d, latest version %d (run '%s migrate')", current, latest, constants.AppName)
	}
	return nil
}

// checkSchedules looks for duplicate ids and dates that would never resolve.
func checkSchedules(ctx *cli.Context) error {
	var errs []error
	seen := map[string]bool{}
	for _, sch := range ctx.Store.Schedules() {
		if seen[sch.ID] {
			errs = append(errs, fmt.Errorf("duplicate schedule id %s", sch.ID))
		}
		seen[sch.ID] = true

		for _, p := range sch.Phases {
			if !utils.ValidateDateFormat(p.StartDate) || !utils.ValidateDateFormat(p.EndDate) {
				errs = append(errs, fmt.Errorf("%s: phase %q has an invalid date range", sch.ID, p.Name))
			}
		}
		for _, ex := range sch.Exams {
			if !utils.ValidateDateFormat(ex.Date) {
				errs = append(errs, fmt.Errorf("%s: exam %q has an invalid date %q", sch.ID, ex.Name, ex.Date))
			}
		}
		entryIDs := map[string]bool{}
		for i := range sch.Entries {
			e := sch.Entries[i]
			if entryIDs[e.ID] {
				errs = append(errs, fmt.Errorf("%s: duplicate entry id %s", sch.ID, e.ID))
			}
			entryIDs[e.ID] = true
			if err := e.Validate(); err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", sch.ID, err))
			}
			if r, ok := e.Recurring(); ok && len(sch.Phases) == 0 {
				errs = append(errs, fmt.Errorf("%s: recurring entry %s (%s) has no phase to run in", sch.ID, e.ID, r.DayOfWeek))
			}
		}
	}
	return errors.Join(errs...)
}

// checkUnreadableRecords reports copies kept aside after a record failed to decode.
func checkUnreadableRecords(ctx *cli.Context) error {
	keys, err := ctx.Provider.Keys()
	if err != nil {
		return err
	}
	var found []string
	for _, k := range keys {
		if strings.HasSuffix(k, datastore.UnreadableSuffix) {
			found = append(found, k)
		}
	}
	if len(found) > 0 {
		return fmt.Errorf("unreadable data was set aside in %s; inspect with '%s debug' before removing", strings.Join(found, ", "), constants.AppName)
	}
	return nil
}

func checkNoteLinks(ctx *cli.Context) error {
	broken := 0
	for _, n := range ctx.Store.Notes() {
		if n.LinkedSchedule == "" {
			continue
		}
		_, entry, ok := ctx.Store.ResolveLink(n)
		if !ok || (n.LinkedEntry != "" && entry == nil) {
			broken++
		}
	}
	if broken > 0 {
		return fmt.Errorf("%d note(s) link to a schedule or entry that no longer exists", broken)
	}
	return nil
}

func checkBackupsPresent(ctx *cli.Context) error {
	path := ctx.Provider.GetConfigPath()
	if !backup.Supported(path) {
		return fmt.Errorf("automatic backups are not available for this storage backend")
	}
	backups, err := backup.NewManager(path).ListBackups()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	if len(backups) == 0 {
		return fmt.Errorf("no backups found - consider creating one with '%s backup create'", constants.AppName)
	}
	return nil
}

func checkClockTimezone(ctx *cli.Context) error {
	now := ctx.Now()
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}
	if !utils.ValidateTimezone(ctx.Config.Timezone) {
		return fmt.Errorf("unknown timezone %q", ctx.Config.Timezone)
	}
	return nil
}

func checkKeyring(ctx *cli.Context) error {
	if !keyring.IsAvailable() {
		return fmt.Errorf("OS keyring is not available; sync credentials must come from the config file")
	}
	return nil
}
