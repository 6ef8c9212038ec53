package constants

const (
	// Setting names accepted by the settings command
	SettingTheme                = "theme"
	SettingNotificationsEnabled = "notifications_enabled"
	SettingReminderMinutes      = "reminder_minutes"

	// Default Settings Values
	DefaultTheme                = "light"
	DefaultNotificationsEnabled = false
	DefaultReminderMinutes      = 30
	DefaultTimezone             = "Local" // Use system local timezone by default

	// Reminder windows (hour of day, local time)
	MorningReminderHour = 8
	EveningReminderHour = 17
)
