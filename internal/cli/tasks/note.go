package tasks

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"

	"github.com/Will-L07/scheduler/internal/cli"
)

type NoteCmd struct {
	TaskRef `embed:""`
	Text    string `short:"m" help:"Note text. Opens an editor prompt when omitted."`
	Clear   bool   `help:"Remove the note."`
}

func (c *NoteCmd) Run(ctx *cli.Context) error {
	task, _, err := c.resolve(ctx)
	if err != nil {
		return err
	}

	text := c.Text
	switch {
	case c.Clear:
		text = ""
	case text == "":
		text = task.Notes
		err := huh.NewText().
			Title(fmt.Sprintf("Note for %s", describe(task))).
			Value(&text).
			Run()
		if errors.Is(err, huh.ErrUserAborted) {
			ctx.Println("Cancelled.")
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read note: %w", err)
		}
	}

	if !ctx.Store.SetEntryNote(task.ScheduleID, task.Entry.ID, text, task.CompletionKey) {
		return fmt.Errorf("failed to save note for %s", describe(task))
	}
	if text == "" {
		ctx.Printf("✓ Note cleared for %s\n", describe(task))
	} else {
		ctx.Printf("✓ Note saved for %s\n", describe(task))
	}
	return nil
}
