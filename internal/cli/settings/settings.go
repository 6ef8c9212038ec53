package settings

import (
	"fmt"
	"sort"

	"github.com/Will-L07/scheduler/internal/cli"
	"github.com/Will-L07/scheduler/internal/constants"
	"github.com/Will-L07/scheduler/internal/models"
)

type SettingsCmd struct {
	List bool `help:"List current settings."`

	Key   string `arg:"" optional:"" help:"Setting to change (theme, notifications_enabled, reminder_minutes)."`
	Value string `arg:"" optional:"" help:"New value for KEY."`

	Theme                *string `help:"Colour theme (light|dark)."`
	NotificationsEnabled *bool   `help:"Enable or disable reminders."`
	ReminderMinutes      *int    `help:"Lead time for reminders in minutes."`
}

func (c *SettingsCmd) Run(ctx *cli.Context) error {
	settings := ctx.Store.Settings()

	if c.List {
		values := models.SettingsToMap(settings)
		keys := make([]string, 0, len(values))
		for k := range values {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		ctx.Println("Current Settings:")
		for _, k := range keys {
			ctx.Printf("  %-22s %s\n", k+":", values[k])
		}
		return nil
	}

	if c.Key == "" && c.Theme == nil && c.NotificationsEnabled == nil && c.ReminderMinutes == nil {
		ctx.Println("No changes specified. Use --list to view settings or flags to update them.")
		return nil
	}

	if c.Key != "" {
		if c.Value == "" {
			return fmt.Errorf("missing value for %s", c.Key)
		}
		if err := models.SetSetting(&settings, c.Key, c.Value); err != nil {
			return err
		}
	}
	if c.Theme != nil {
		if err := models.SetSetting(&settings, constants.SettingTheme, *c.Theme); err != nil {
			return err
		}
	}
	if c.NotificationsEnabled != nil {
		settings.NotificationsEnabled = *c.NotificationsEnabled
	}
	if c.ReminderMinutes != nil {
		if *c.ReminderMinutes < 0 {
			return fmt.Errorf("%s must be non-negative", constants.SettingReminderMinutes)
		}
		settings.ReminderMinutes = *c.ReminderMinutes
	}

	ctx.Store.SaveSettings(settings)
	ctx.Println("Settings updated successfully.")
	return nil
}
