package constants

import "time"

const (
	AppName            = "scheduler"
	DefaultKeyringUser = "sync-connection"
	KeyringUserIDKey   = "sync-user-id"
	DefaultConfigDir   = "~/.config/scheduler"
	DefaultConfigPath  = "~/.config/scheduler/scheduler.db"
	DefaultConfigFile  = "~/.config/scheduler/config.yaml"
	Version            = "v1.2.0"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// TimeFormat is the standard time format used throughout the application (HH:MM)
	TimeFormat = "15:04"

	// Storage keys for the four logical records
	KeySchedules = "schedules"
	KeyNotes     = "notes"
	KeySettings  = "settings"
	KeySeeded    = "seeded"
	KeyNotified  = "notified"

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "scheduler-"

	// Notify constants
	NotifierLockfileName   = "scheduler-tray.lock"
	NotificationDurationMs = 5000
	TrayAppIdentifier      = "com.will-l07.scheduler"
	TrayExecutablePrefix   = "scheduler-tray"

	// Sync constants
	DefaultSyncDebounce = time.Second
	RemoteChannel       = "scheduler_sync"

	// StreakLookbackDays caps the backward walk of the streak computation.
	StreakLookbackDays = 365

	// WeakAreaWindowDays is the default look-back for weak-area topics.
	WeakAreaWindowDays = 14

	// Fallbacks used when creating entries by hand
	DefaultSubject  = "General"
	DefaultDuration = "-"
	OtherSubject    = "Other"
)
