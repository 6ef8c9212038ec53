package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/Will-L07/scheduler/internal/cli"
	"github.com/Will-L07/scheduler/internal/cli/backups"
	"github.com/Will-L07/scheduler/internal/cli/cloud"
	"github.com/Will-L07/scheduler/internal/cli/notes"
	"github.com/Will-L07/scheduler/internal/cli/schedules"
	"github.com/Will-L07/scheduler/internal/cli/settings"
	"github.com/Will-L07/scheduler/internal/cli/stats"
	"github.com/Will-L07/scheduler/internal/cli/system"
	"github.com/Will-L07/scheduler/internal/cli/tasks"
	"github.com/Will-L07/scheduler/internal/config"
	"github.com/Will-L07/scheduler/internal/constants"
	"github.com/Will-L07/scheduler/internal/errors"
	"github.com/Will-L07/scheduler/internal/logger"
	"github.com/Will-L07/scheduler/internal/seed"
)

var CLI struct {
	Version kong.VersionFlag
	Config  string `help:"Config file path." type:"path" default:"${config_file}" env:"SCHEDULER_CONFIG"`
	Storage string `help:"Storage location: a SQLite or JSON file path, or a PostgreSQL connection string without a password. Overrides the config file." env:"SCHEDULER_STORAGE"`
	Debug   bool   `help:"Log debug output to stderr." env:"SCHEDULER_DEBUG"`

	Init    system.InitCmd    `cmd:"" help:"Initialize scheduler storage."`
	Migrate system.MigrateCmd `cmd:"" help:"Run database migrations."`
	Doctor  system.DoctorCmd  `cmd:"" help:"Run health checks and diagnostics."`
	Tui     system.TuiCmd     `cmd:"" help:"Launch the interactive TUI." default:"1"`
	Seed    system.SeedCmd    `cmd:"" help:"Add the bundled example schedules."`
	Reset   system.ResetCmd   `cmd:"" help:"Delete all schedules, notes and settings."`
	Export  system.ExportCmd  `cmd:"" help:"Export all data as JSON."`
	Import  system.ImportCmd  `cmd:"" help:"Import data from a JSON export."`
	Remind  system.RemindCmd  `cmd:"" help:"Send due study reminders."`

	DebugCmd system.DebugCmd `cmd:"" name:"debug" help:"Debug commands for troubleshooting."`

	Today  tasks.TodayCmd  `cmd:"" help:"List the tasks for a day."`
	Toggle tasks.ToggleCmd `cmd:"" help:"Mark a task done or not done."`
	Note   tasks.NoteCmd   `cmd:"" help:"Set or clear a task note."`
	Rate   tasks.RateCmd   `cmd:"" help:"Rate confidence in a task's topic."`

	Schedule struct {
		Add    schedules.ScheduleAddCmd    `cmd:"" help:"Create a schedule."`
		List   schedules.ScheduleListCmd   `cmd:"" help:"List schedules." default:"1"`
		Show   schedules.ScheduleShowCmd   `cmd:"" help:"Show a schedule's phases, exams and entries."`
		Delete schedules.ScheduleDeleteCmd `cmd:"" help:"Delete a schedule."`
	} `cmd:"" help:"Manage schedules."`
	Entry struct {
		Add    schedules.EntryAddCmd    `cmd:"" help:"Add a dated or weekly entry to a schedule."`
		Delete schedules.EntryDeleteCmd `cmd:"" help:"Delete an entry."`
	} `cmd:"" help:"Manage schedule entries."`
	Phase struct {
		Add schedules.PhaseAddCmd `cmd:"" help:"Add a phase to a schedule."`
	} `cmd:"" help:"Manage schedule phases."`
	Exam struct {
		Add schedules.ExamAddCmd `cmd:"" help:"Add an exam to a schedule."`
	} `cmd:"" help:"Manage exams."`
	Exams schedules.ExamsCmd `cmd:"" help:"List exam countdowns."`

	Progress   stats.ProgressCmd   `cmd:"" help:"Show completion progress."`
	Streak     stats.StreakCmd     `cmd:"" help:"Show the current study streak."`
	Confidence stats.ConfidenceCmd `cmd:"" help:"Show red/amber/green counts per subject."`
	Weak       stats.WeakCmd       `cmd:"" help:"List recent weak topics."`

	Notes struct {
		Add    notes.NoteAddCmd    `cmd:"" help:"Add a note."`
		List   notes.NoteListCmd   `cmd:"" help:"List and search notes." default:"1"`
		Edit   notes.NoteEditCmd   `cmd:"" help:"Edit a note."`
		Delete notes.NoteDeleteCmd `cmd:"" help:"Delete a note."`
	} `cmd:"" help:"Manage free-form notes."`

	Settings settings.SettingsCmd `cmd:"" help:"Manage application settings."`

	Backup struct {
		Create  backups.BackupCreateCmd  `cmd:"" help:"Create a manual backup." default:"1"`
		List    backups.BackupListCmd    `cmd:"" help:"List available backups."`
		Restore backups.BackupRestoreCmd `cmd:"" help:"Restore from a backup."`
	} `cmd:"" help:"Manage local data backups."`

	Keyring struct {
		Set    system.KeyringSetCmd    `cmd:"" help:"Store the sync remote connection string in the OS keyring."`
		Get    system.KeyringGetCmd    `cmd:"" help:"Show the stored connection string with the password masked."`
		Delete system.KeyringDeleteCmd `cmd:"" help:"Remove the stored connection string."`
		Status system.KeyringStatusCmd `cmd:"" help:"Show keyring availability and stored credentials." default:"1"`
	} `cmd:"" help:"Manage credentials in the OS keyring."`

	Sync struct {
		Login  cloud.LoginCmd  `cmd:"" help:"Sign in to cloud sync."`
		Logout cloud.LogoutCmd `cmd:"" help:"Sign out of cloud sync. Local data is kept."`
		Now    cloud.NowCmd    `cmd:"" help:"Merge the remote copy and push local changes."`
		Status cloud.StatusCmd `cmd:"" help:"Show sync account and remote state." default:"1"`
		Watch  cloud.WatchCmd  `cmd:"" help:"Stay connected and sync changes as they happen."`
	} `cmd:"" help:"Sync schedules between devices."`
}

func main() {
	config.LoadEnv(".env")

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	kctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Revision and training schedule tracker"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.BindTo(runCtx, (*context.Context)(nil)),
		kong.Vars{
			"version":     constants.Version,
			"config_file": constants.DefaultConfigFile,
		},
	)

	cfg, err := config.Load(CLI.Config)
	if err != nil {
		errors.Fatal(err)
	}
	if CLI.Storage != "" {
		cfg.Storage = CLI.Storage
	}
	if CLI.Debug {
		cfg.Debug = true
	}

	configDir, err := config.Dir()
	if err != nil {
		errors.Fatal(err)
	}
	if err := logger.Init(logger.Config{Debug: cfg.Debug, ConfigDir: configDir, Level: cfg.LogLevel}); err != nil {
		errors.Fatal(err)
	}

	provider, err := cli.OpenProvider(cfg.Storage)
	if err != nil {
		errors.Fatal(err)
	}
	defer provider.Close()

	appCtx := cli.NewContext(provider, cfg)

	// init handles its own loading
	if kctx.Command() != "init" {
		if err := provider.Load(); err != nil {
			errors.Fatal(err)
		}
		if err := appCtx.Store.Load(); err != nil {
			errors.Fatal(err)
		}
		if _, err := seed.Run(appCtx.Store); err != nil {
			logger.Warn("Failed to load example schedules", "error", err)
		}
	}

	err = kctx.Run(appCtx)
	if flushErr := appCtx.Store.Flush(); flushErr != nil {
		logger.Error("Failed to save changes", "error", flushErr)
		if err == nil {
			err = flushErr
		}
	}
	if err != nil {
		provider.Close()
		errors.Fatal(err)
	}
}
