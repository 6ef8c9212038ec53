package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/Will-L07/scheduler/internal/backup"
	"github.com/Will-L07/scheduler/internal/config"
	"github.com/Will-L07/scheduler/internal/datastore"
	"github.com/Will-L07/scheduler/internal/logger"
	"github.com/Will-L07/scheduler/internal/models"
	"github.com/Will-L07/scheduler/internal/storage"
	"github.com/Will-L07/scheduler/internal/storage/postgres"
	"github.com/Will-L07/scheduler/internal/storage/sqlite"
	"github.com/Will-L07/scheduler/internal/utils"
)

// Context is bound into every command's Run method.
type Context struct {
	Provider storage.Provider
	Store    *datastore.Store
	Config   config.Config
	Now      func() time.Time
	Out      io.Writer
}

// OpenProvider picks the key-value backend for a storage location:
// PostgreSQL for connection strings, a JSON file for *.json paths and
// SQLite otherwise. Connection strings carrying a password are rejected.
func OpenProvider(location string) (storage.Provider, error) {
	if postgres.IsConnString(location) || strings.Contains(location, "host=") {
		if _, err := postgres.ValidateConnString(location); err != nil {
			if errors.Is(err, postgres.ErrEmbeddedCredentials) {
				return nil, fmt.Errorf("%w: use PGPASSWORD or .pgpass instead", err)
			}
			return nil, err
		}
		return postgres.New(location), nil
	}
	path, err := config.ExpandHome(location)
	if err != nil {
		return nil, err
	}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return storage.NewJSONStore(path), nil
	}
	return sqlite.NewStore(path), nil
}

// NewContext wires a store over provider. The store is not loaded.
func NewContext(provider storage.Provider, cfg config.Config) *Context {
	return &Context{
		Provider: provider,
		Store:    datastore.New(provider),
		Config:   cfg,
		Now:      time.Now,
		Out:      os.Stdout,
	}
}

func (c *Context) Printf(format string, args ...any) {
	fmt.Fprintf(c.Out, format, args...)
}

func (c *Context) Println(args ...any) {
	fmt.Fprintln(c.Out, args...)
}

// LocalNow returns the clock reading in the configured timezone.
func (c *Context) LocalNow() time.Time {
	now := c.Now()
	if loc, err := utils.LoadLocation(c.Config.Timezone); err == nil {
		now = now.In(loc)
	}
	return now
}

// Today returns the current calendar date in the configured timezone.
func (c *Context) Today() time.Time {
	return utils.DateOf(c.LocalNow())
}

// ParseDay accepts YYYY-MM-DD, "today", "tomorrow", "yesterday" or an empty
// string meaning today.
func (c *Context) ParseDay(s string) (time.Time, error) {
	today := c.Today()
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "today":
		return today, nil
	case "tomorrow":
		return today.AddDate(0, 0, 1), nil
	case "yesterday":
		return today.AddDate(0, 0, -1), nil
	}
	return utils.ParseDate(s)
}

// PerformAutomaticBackup backs up file-based storage and only logs failures.
func (c *Context) PerformAutomaticBackup() {
	path := c.Provider.GetConfigPath()
	if !backup.Supported(path) {
		return
	}
	mgr := backup.NewManager(path)
	if _, err := mgr.CreateBackup(); err != nil {
		logger.Warn("Automatic backup failed", "error", err)
	}
}

// Swatch renders a coloured bullet for a schedule's hex colour.
func Swatch(color string) string {
	if color == "" {
		return "●"
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render("●")
}

// FindSchedule resolves a schedule by exact id, then by case-insensitive name.
func (c *Context) FindSchedule(ref string) (models.Schedule, error) {
	if sch, ok := c.Store.Schedule(ref); ok {
		return sch, nil
	}
	var match *models.Schedule
	for _, sch := range c.Store.Schedules() {
		if strings.EqualFold(sch.Name, ref) {
			if match != nil {
				return models.Schedule{}, fmt.Errorf("schedule name %q is ambiguous, use the id", ref)
			}
			s := sch
			match = &s
		}
	}
	if match == nil {
		return models.Schedule{}, fmt.Errorf("%w: %s", datastore.ErrUnknownSchedule, ref)
	}
	return *match, nil
}

func Checkbox(done bool) string {
	if done {
		return "[x]"
	}
	return "[ ]"
}
