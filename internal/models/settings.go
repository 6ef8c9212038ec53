package models

// Settings holds user preferences. Stored and synced as a single record.
type Settings struct {
	Theme                string `json:"theme"`                // "light" or "dark"
	NotificationsEnabled bool   `json:"notificationsEnabled"` // whether desktop reminders are sent
	ReminderMinutes      int    `json:"reminderMinutes"`      // lead time for reminders in minutes
}
