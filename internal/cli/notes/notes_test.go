package notes

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/Will-L07/scheduler/internal/cli"
	"github.com/Will-L07/scheduler/internal/config"
	"github.com/Will-L07/scheduler/internal/models"
	"github.com/Will-L07/scheduler/internal/storage"
)

func setupContext(t *testing.T) (*cli.Context, *bytes.Buffer) {
	t.Helper()
	ctx := cli.NewContext(storage.NewMemoryStore(), config.Default())
	ctx.Now = func() time.Time { return time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC) }
	var out bytes.Buffer
	ctx.Out = &out
	if err := ctx.Store.Load(); err != nil {
		t.Fatal(err)
	}
	_, err := ctx.Store.AddSchedule(models.Schedule{
		ID:      "rev-2026",
		Name:    "Revision",
		Entries: []models.Entry{models.NewDatedEntry("rev-1", "2026-03-02", "Maths", "Vectors", "1h")},
	})
	if err != nil {
		t.Fatal(err)
	}
	return ctx, &out
}

func TestNoteAddAndList(t *testing.T) {
	ctx, out := setupContext(t)

	add := &NoteAddCmd{Title: "Vectors recap", Content: "dot product vs cross product", Category: "Maths", Schedule: "Revision", Entry: "rev-1"}
	if err := add.Validate(); err != nil {
		t.Fatal(err)
	}
	if err := add.Run(ctx); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	notes := ctx.Store.Notes()
	if len(notes) != 1 || notes[0].LinkedSchedule != "rev-2026" || notes[0].LinkedEntry != "rev-1" {
		t.Fatalf("unexpected notes %+v", notes)
	}

	out.Reset()
	if err := (&NoteListCmd{Search: "CROSS", Full: true}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	got := out.String()
	for _, want := range []string{"[Maths] Vectors recap", "-> Revision: Maths - Vectors", "dot product vs cross product"} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}

func TestNoteListFilters(t *testing.T) {
	ctx, out := setupContext(t)
	ctx.Store.AddNote(models.Note{Title: "Boots", Category: "Hiking", Content: "waterproof"})
	ctx.Store.AddNote(models.Note{Title: "Integrals", Category: "Maths", Content: "by parts"})

	if err := (&NoteListCmd{Category: "Hiking"}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "Boots") || strings.Contains(out.String(), "Integrals") {
		t.Errorf("category filter failed:\n%s", out.String())
	}

	out.Reset()
	if err := (&NoteListCmd{Category: "Physics"}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "Categories: Maths, Hiking") {
		t.Errorf("expected categories hint:\n%s", out.String())
	}
}

func TestNoteAddValidate(t *testing.T) {
	tests := []struct {
		name string
		cmd  NoteAddCmd
	}{
		{"blank title", NoteAddCmd{Title: " "}},
		{"entry without schedule", NoteAddCmd{Title: "x", Entry: "rev-1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cmd.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestNoteAddUnknownEntry(t *testing.T) {
	ctx, _ := setupContext(t)
	cmd := &NoteAddCmd{Title: "x", Content: "y", Schedule: "rev-2026", Entry: "missing"}
	if err := cmd.Run(ctx); err == nil {
		t.Error("expected error for an unknown entry")
	}
}

func TestNoteEditAndDelete(t *testing.T) {
	ctx, _ := setupContext(t)
	n := ctx.Store.AddNote(models.Note{Title: "Draft", Category: "General"})

	title := "Final"
	if err := (&NoteEditCmd{ID: n.ID, Title: &title}).Run(ctx); err != nil {
		t.Fatalf("edit failed: %v", err)
	}
	got, _ := ctx.Store.Note(n.ID)
	if got.Title != "Final" || got.Category != "General" {
		t.Errorf("unexpected note after edit %+v", got)
	}

	if err := (&NoteEditCmd{ID: n.ID}).Run(ctx); err == nil {
		t.Error("expected error when nothing changes")
	}

	if err := (&NoteDeleteCmd{ID: n.ID}).Run(ctx); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, ok := ctx.Store.Note(n.ID); ok {
		t.Error("expected note to be deleted")
	}
	if err := (&NoteDeleteCmd{ID: n.ID}).Run(ctx); err == nil {
		t.Error("expected error deleting a missing note")
	}
}

func TestDescribeLinkAfterScheduleRemoved(t *testing.T) {
	ctx, _ := setupContext(t)
	n := ctx.Store.AddNote(models.Note{Title: "Orphan", LinkedSchedule: "rev-2026", LinkedEntry: "rev-1"})
	ctx.Store.DeleteSchedule("rev-2026")

	if got := describeLink(ctx, n); got != "(linked schedule removed)" {
		t.Errorf("unexpected link description %q", got)
	}
}
