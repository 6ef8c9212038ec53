package notes

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/Will-L07/scheduler/internal/cli"
	"github.com/Will-L07/scheduler/internal/datastore"
	"github.com/Will-L07/scheduler/internal/models"
)

type NoteAddCmd struct {
	Title    string `arg:"" help:"Note title."`
	Content  string `short:"m" help:"Note body. Opens an editor prompt when omitted."`
	Category string `short:"c" help:"Category used for filtering." default:"General"`
	Schedule string `help:"Link the note to a schedule (id or name)."`
	Entry    string `help:"Link the note to an entry of --schedule."`
}

func (c *NoteAddCmd) Validate() error {
	if strings.TrimSpace(c.Title) == "" {
		return fmt.Errorf("note title is required")
	}
	if c.Entry != "" && c.Schedule == "" {
		return fmt.Errorf("--entry requires --schedule")
	}
	return nil
}

func (c *NoteAddCmd) Run(ctx *cli.Context) error {
	note := models.Note{
		Title:    strings.TrimSpace(c.Title),
		Category: c.Category,
		Content:  c.Content,
	}

	if c.Schedule != "" {
		sch, err := ctx.FindSchedule(c.Schedule)
		if err != nil {
			return err
		}
		note.LinkedSchedule = sch.ID
		if c.Entry != "" {
			if sch.EntryIndex(c.Entry) < 0 {
				return fmt.Errorf("entry %s not found in schedule %s", c.Entry, sch.ID)
			}
			note.LinkedEntry = c.Entry
		}
	}

	if note.Content == "" {
		err := huh.NewText().
			Title(fmt.Sprintf("Note: %s", note.Title)).
			Value(&note.Content).
			Run()
		if errors.Is(err, huh.ErrUserAborted) {
			ctx.Println("Cancelled.")
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read note: %w", err)
		}
	}

	added := ctx.Store.AddNote(note)
	ctx.Printf("Added note: %s (ID: %s)\n", added.Title, added.ID)
	return nil
}

type NoteListCmd struct {
	Category string `short:"c" help:"Only show notes in this category."`
	Search   string `short:"s" help:"Case-insensitive text to look for in titles and bodies."`
	Full     bool   `help:"Print note bodies."`
}

func (c *NoteListCmd) Run(ctx *cli.Context) error {
	notes := ctx.Store.SearchNotes(c.Category, c.Search)
	if len(notes) == 0 {
		if cats := ctx.Store.NoteCategories(); len(cats) > 0 && c.Category != "" {
			ctx.Printf("No notes found. Categories: %s\n", strings.Join(cats, ", "))
		} else {
			ctx.Println("No notes found.")
		}
		return nil
	}

	for _, n := range notes {
		ctx.Printf("%s  [%s] %s  (ID: %s)\n", n.CreatedAt.Format("2006-01-02"), n.Category, n.Title, n.ID)
		if link := describeLink(ctx, n); link != "" {
			ctx.Printf("    -> %s\n", link)
		}
		if c.Full && n.Content != "" {
			for _, line := range strings.Split(n.Content, "\n") {
				ctx.Printf("    %s\n", line)
			}
		}
	}
	return nil
}

func describeLink(ctx *cli.Context, n models.Note) string {
	if n.LinkedSchedule == "" {
		return ""
	}
	sch, entry, ok := ctx.Store.ResolveLink(n)
	if !ok {
		return "(linked schedule removed)"
	}
	if entry == nil {
		if n.LinkedEntry != "" {
			return sch.Name + " (linked entry removed)"
		}
		return sch.Name
	}
	return fmt.Sprintf("%s: %s - %s", sch.Name, entry.Subject, entry.Topic)
}

type NoteEditCmd struct {
	ID       string  `arg:"" help:"Note id."`
	Title    *string `help:"New title."`
	Content  *string `short:"m" help:"New body."`
	Category *string `short:"c" help:"New category."`
}

func (c *NoteEditCmd) Run(ctx *cli.Context) error {
	if c.Title == nil && c.Content == nil && c.Category == nil {
		return fmt.Errorf("nothing to change: pass --title, --content or --category")
	}
	n, ok := ctx.Store.UpdateNote(c.ID, datastore.NotePatch{
		Title:    c.Title,
		Content:  c.Content,
		Category: c.Category,
	})
	if !ok {
		return fmt.Errorf("note %s not found", c.ID)
	}
	ctx.Printf("Updated note: %s (ID: %s)\n", n.Title, n.ID)
	return nil
}

type NoteDeleteCmd struct {
	ID string `arg:"" help:"Note id."`
}

func (c *NoteDeleteCmd) Run(ctx *cli.Context) error {
	n, ok := ctx.Store.Note(c.ID)
	if !ok {
		return fmt.Errorf("note %s not found", c.ID)
	}
	ctx.Store.DeleteNote(c.ID)
	ctx.Printf("Deleted note: %s (ID: %s)\n", n.Title, c.ID)
	return nil
}
