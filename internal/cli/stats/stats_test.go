package stats

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/Will-L07/scheduler/internal/cli"
	"github.com/Will-L07/scheduler/internal/config"
	"github.com/Will-L07/scheduler/internal/models"
	"github.com/Will-L07/scheduler/internal/progress"
	"github.com/Will-L07/scheduler/internal/storage"
)

// Wednesday; the only entry is due on Mondays.
var wednesday = time.Date(2026, 2, 18, 10, 0, 0, 0, time.UTC)

func setupContext(t *testing.T) (*cli.Context, *bytes.Buffer) {
	t.Helper()
	ctx := cli.NewContext(storage.NewMemoryStore(), config.Default())
	ctx.Config.Timezone = "UTC"
	ctx.Now = func() time.Time { return wednesday }
	var out bytes.Buffer
	ctx.Out = &out
	if err := ctx.Store.Load(); err != nil {
		t.Fatal(err)
	}

	_, err := ctx.Store.AddSchedule(models.Schedule{
		ID:          "hike-2026",
		Name:        "Hiking",
		Type:        models.ScheduleTypeTraining,
		Phases:      []models.Phase{{Name: "Base", StartDate: "2026-02-01", EndDate: "2026-03-31"}},
		Entries:     []models.Entry{models.NewRecurringEntry("hike-1", time.Monday, "Endurance", "Hill Walk", "90m")},
		TopicGroups: map[string][]string{"Endurance": {"Hill Walk"}},
	})
	if err != nil {
		t.Fatal(err)
	}
	if !ctx.Store.ToggleEntryComplete("hike-2026", "hike-1", "2026-02-16") {
		t.Fatal("toggle failed")
	}
	if !ctx.Store.SetEntryConfidence("hike-2026", "hike-1", models.ConfidenceRed, "2026-02-16") {
		t.Fatal("rating failed")
	}
	return ctx, &out
}

func TestProgressCmdJSON(t *testing.T) {
	ctx, out := setupContext(t)

	if err := (&ProgressCmd{JSON: true}).Run(ctx); err != nil {
		t.Fatalf("progress failed: %v", err)
	}
	var report progressReport
	if err := json.Unmarshal(out.Bytes(), &report); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, out.String())
	}
	if report.Overall.Completed != 1 {
		t.Errorf("expected one completion, got %+v", report.Overall)
	}
	if report.StreakDays != 1 {
		t.Errorf("expected a one-day streak, got %d", report.StreakDays)
	}
	if _, ok := report.Schedules["hike-2026"]; !ok {
		t.Error("expected per-schedule progress")
	}
}

func TestProgressCmdUnknownSchedule(t *testing.T) {
	ctx, _ := setupContext(t)
	if err := (&ProgressCmd{Schedule: "missing"}).Run(ctx); err == nil {
		t.Error("expected an error for an unknown schedule")
	}
}

func TestStreakCmd(t *testing.T) {
	ctx, out := setupContext(t)
	if err := (&StreakCmd{}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(out.String()) != "1 day streak" {
		t.Errorf("unexpected output %q", out.String())
	}
}

func TestConfidenceCmd(t *testing.T) {
	ctx, out := setupContext(t)
	if err := (&ConfidenceCmd{}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	got := out.String()
	for _, want := range []string{"Endurance (Hiking)", "red 1  amber 0  green 0", progress.FeedbackNeedsWork} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}

func TestWeakCmd(t *testing.T) {
	tests := []struct {
		name string
		days int
		want string
	}{
		{"inside window", 14, "Endurance - Hill Walk"},
		{"outside window", 1, "No red or amber topics in the last 1 days."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, out := setupContext(t)
			if err := (&WeakCmd{Days: tt.days}).Run(ctx); err != nil {
				t.Fatal(err)
			}
			if !strings.Contains(out.String(), tt.want) {
				t.Errorf("expected %q in:\n%s", tt.want, out.String())
			}
		})
	}
}

func TestBar(t *testing.T) {
	if got := bar(models.NewProgress(4, 2)); got != "[##########..........]" {
		t.Errorf("unexpected bar %q", got)
	}
}
