package settings

import (
	"bytes"
	"strings"
	"testing"

	"github.com/Will-L07/scheduler/internal/cli"
	"github.com/Will-L07/scheduler/internal/config"
	"github.com/Will-L07/scheduler/internal/storage"
)

func setupContext(t *testing.T) (*cli.Context, *bytes.Buffer) {
	t.Helper()
	ctx := cli.NewContext(storage.NewMemoryStore(), config.Default())
	var out bytes.Buffer
	ctx.Out = &out
	if err := ctx.Store.Load(); err != nil {
		t.Fatal(err)
	}
	return ctx, &out
}

func TestSettingsCmd_List(t *testing.T) {
	ctx, out := setupContext(t)

	if err := (&SettingsCmd{List: true}).Run(ctx); err != nil {
		t.Fatalf("settings list failed: %v", err)
	}
	got := out.String()
	for _, want := range []string{"theme:", "light", "reminder_minutes:", "30", "notifications_enabled:", "false"} {
		if !strings.Contains(got, want) {
			t.Errorf("list output missing %q:\n%s", want, got)
		}
	}
}

func TestSettingsCmd_Flags(t *testing.T) {
	ctx, _ := setupContext(t)

	theme := "dark"
	enabled := true
	minutes := 45
	cmd := &SettingsCmd{Theme: &theme, NotificationsEnabled: &enabled, ReminderMinutes: &minutes}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("settings update failed: %v", err)
	}

	s := ctx.Store.Settings()
	if s.Theme != "dark" || !s.NotificationsEnabled || s.ReminderMinutes != 45 {
		t.Errorf("unexpected settings %+v", s)
	}
}

func TestSettingsCmd_KeyValue(t *testing.T) {
	ctx, _ := setupContext(t)

	if err := (&SettingsCmd{Key: "reminder_minutes", Value: "10"}).Run(ctx); err != nil {
		t.Fatalf("settings update failed: %v", err)
	}
	if got := ctx.Store.Settings().ReminderMinutes; got != 10 {
		t.Errorf("expected 10, got %d", got)
	}
}

func TestSettingsCmd_Errors(t *testing.T) {
	negative := -5
	tests := []struct {
		name string
		cmd  SettingsCmd
	}{
		{"unknown key", SettingsCmd{Key: "colour", Value: "blue"}},
		{"missing value", SettingsCmd{Key: "theme"}},
		{"bad bool", SettingsCmd{Key: "notifications_enabled", Value: "maybe"}},
		{"negative minutes", SettingsCmd{ReminderMinutes: &negative}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, _ := setupContext(t)
			if err := tt.cmd.Run(ctx); err == nil {
				t.Error("expected an error")
			}
			if s := ctx.Store.Settings(); s.ReminderMinutes != 30 || s.Theme != "light" {
				t.Errorf("settings changed on error: %+v", s)
			}
		})
	}
}

func TestSettingsCmd_NoChanges(t *testing.T) {
	ctx, out := setupContext(t)
	if err := (&SettingsCmd{}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "No changes specified") {
		t.Errorf("unexpected output %q", out.String())
	}
}
