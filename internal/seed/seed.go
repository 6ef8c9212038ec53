// Package seed loads the bundled revision timetable and hiking plan on first
// run, and upgrades legacy recurring entries on later runs.
package seed

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Will-L07/scheduler/internal/constants"
	"github.com/Will-L07/scheduler/internal/datastore"
	"github.com/Will-L07/scheduler/internal/logger"
	"github.com/Will-L07/scheduler/internal/models"
	"github.com/Will-L07/scheduler/internal/storage"
)

//go:embed data/*.json
var dataFS embed.FS

var files = []string{"data/revision.json", "data/hiking.json"}

// Schedules decodes the bundled schedules.
func Schedules() ([]models.Schedule, error) {
	out := make([]models.Schedule, 0, len(files))
	for _, name := range files {
		raw, err := dataFS.ReadFile(name)
		if err != nil {
			return nil, fmt.Errorf("failed to read seed file %s: %w", name, err)
		}
		var sch models.Schedule
		if err := json.Unmarshal(raw, &sch); err != nil {
			return nil, fmt.Errorf("failed to decode seed file %s: %w", name, err)
		}
		out = append(out, sch)
	}
	return out, nil
}

// Run adds the bundled schedules when the store has never been seeded. On a
// seeded store it upgrades recurring entries that were saved without a
// completion set. It reports whether seed data was added.
func Run(store *datastore.Store) (bool, error) {
	if store.Seeded() {
		return false, migrateRecurring(store)
	}

	schedules, err := Schedules()
	if err != nil {
		return false, err
	}
	for _, sch := range schedules {
		if _, exists := store.Schedule(sch.ID); exists {
			continue
		}
		if _, err := store.AddSchedule(sch); err != nil {
			return false, fmt.Errorf("failed to add seed schedule %s: %w", sch.ID, err)
		}
	}
	store.MarkSeeded()
	logger.Info("Seed data loaded", "schedules", len(schedules))
	return true, nil
}

type rawSchedule struct {
	ID      string                       `json:"id"`
	Entries []map[string]json.RawMessage `json:"entries"`
}

// migrateRecurring inspects the persisted record, since decoding already
// fills in missing fields in memory. Affected schedules are rewritten.
func migrateRecurring(store *datastore.Store) error {
	raw, err := store.Provider().Get(constants.KeySchedules)
	if errors.Is(err, storage.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read schedules: %w", err)
	}

	var docs []rawSchedule
	if err := json.Unmarshal(raw, &docs); err != nil {
		logger.Warn("Skipping recurring entry migration", "error", err)
		return nil
	}

	migrated := 0
	for _, doc := range docs {
		if !needsMigration(doc) {
			continue
		}
		sch, ok := store.Schedule(doc.ID)
		if !ok {
			continue
		}
		for i := range sch.Entries {
			if r, ok := sch.Entries[i].Recurring(); ok {
				r.Normalize()
			}
		}
		if _, _, err := store.UpdateSchedule(sch.ID, datastore.SchedulePatch{Entries: &sch.Entries}); err != nil {
			return fmt.Errorf("failed to migrate schedule %s: %w", sch.ID, err)
		}
		migrated++
	}
	if migrated > 0 {
		logger.Info("Migrated recurring entries to per-date tracking", "schedules", migrated)
	}
	return nil
}

func needsMigration(doc rawSchedule) bool {
	for _, e := range doc.Entries {
		day, ok := e["dayOfWeek"]
		if !ok || string(day) == "null" || string(day) == `""` {
			continue
		}
		if dates, ok := e["completedDates"]; !ok || string(dates) == "null" {
			return true
		}
	}
	return false
}
