package models

import (
	"fmt"
	"strconv"

	"github.com/Will-L07/scheduler/internal/constants"
)

// DefaultSettings returns the settings used when none have been stored.
func DefaultSettings() Settings {
	return Settings{
		Theme:                constants.DefaultTheme,
		NotificationsEnabled: constants.DefaultNotificationsEnabled,
		ReminderMinutes:      constants.DefaultReminderMinutes,
	}
}

// ApplyDefaultSettings fills in values missing from a stored record.
func ApplyDefaultSettings(settings *Settings) {
	if settings.Theme == "" {
		settings.Theme = constants.DefaultTheme
	}
	if settings.ReminderMinutes == 0 {
		settings.ReminderMinutes = constants.DefaultReminderMinutes
	}
}

// SetSetting updates a single setting from its string form.
func SetSetting(settings *Settings, key, value string) error {
	switch key {
	case constants.SettingTheme:
		if value != "light" && value != "dark" {
			return fmt.Errorf("theme must be light or dark, got %q", value)
		}
		settings.Theme = value
	case constants.SettingNotificationsEnabled:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("parsing %s: %w", key, err)
		}
		settings.NotificationsEnabled = b
	case constants.SettingReminderMinutes:
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("parsing %s: %w", key, err)
		}
		if n < 0 {
			return fmt.Errorf("%s must be non-negative", key)
		}
		settings.ReminderMinutes = n
	default:
		return fmt.Errorf("unknown setting %q", key)
	}
	return nil
}

// SettingsToMap converts a Settings struct to a map of key-value pairs.
func SettingsToMap(settings Settings) map[string]string {
	return map[string]string{
		constants.SettingTheme:                settings.Theme,
		constants.SettingNotificationsEnabled: strconv.FormatBool(settings.NotificationsEnabled),
		constants.SettingReminderMinutes:      strconv.Itoa(settings.ReminderMinutes),
	}
}
