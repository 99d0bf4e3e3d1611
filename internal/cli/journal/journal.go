package journal

import (
	"context"
	"fmt"
	"strings"

	"github.com/julianstephens/sadhana/internal/cli"
	"github.com/julianstephens/sadhana/internal/models"
)

type JournalCmd struct {
	Add    JournalAddCmd    `cmd:"" help:"Write a gratitude note."`
	List   JournalListCmd   `cmd:"" help:"List gratitude notes in the order they were written." default:"1"`
	Delete JournalDeleteCmd `cmd:"" help:"Delete a note by its timestamp."`
}

type JournalAddCmd struct {
	Note []string `arg:"" help:"The note text."`
	At   string   `help:"When: YYYY-MM-DD, \"YYYY-MM-DD HH:MM\" or ISO-8601. Defaults to now."`
}

func (c *JournalAddCmd) Run(ctx *cli.Context) error {
	date, err := ctx.Timestamp(c.At)
	if err != nil {
		return err
	}
	note := models.GratitudeNote{Note: strings.TrimSpace(strings.Join(c.Note, " ")), Date: date}
	if res := ctx.Validator.GratitudeNote(note); res.HasProblems() {
		return res.Err()
	}

	if err := ctx.Lock(); err != nil {
		return err
	}
	defer ctx.Unlock()

	if err := ctx.Store.SaveGratitudeNote(context.Background(), note); err != nil {
		return fmt.Errorf("failed to save note: %w", err)
	}
	ctx.Println(cli.Success("Saved note at " + ctx.FormatDate(date)))
	return nil
}

type JournalListCmd struct {
	Limit int  `help:"Show at most this many notes." default:"20"`
	JSON  bool `help:"Print raw records as JSON."`
}

func (c *JournalListCmd) Run(ctx *cli.Context) error {
	notes := cli.Limit(ctx.Store.GratitudeNotes(context.Background()), c.Limit)
	if c.JSON {
		return ctx.PrintJSON(notes)
	}
	if len(notes) == 0 {
		ctx.Println("The journal is empty.")
		return nil
	}

	for _, n := range notes {
		ctx.Println(cli.HeaderStyle.Render(ctx.FormatDate(n.Date)) + " " + cli.MutedStyle.Render(ctx.Relative(n.Date)))
		ctx.Printf("  %s\n", n.Note)
		ctx.Println(cli.MutedStyle.Render("  " + n.Date))
	}
	return nil
}

type JournalDeleteCmd struct {
	Date string `arg:"" help:"Stored timestamp of the note to delete, exactly as listed."`
}

func (c *JournalDeleteCmd) Run(ctx *cli.Context) error {
	if err := ctx.Lock(); err != nil {
		return err
	}
	defer ctx.Unlock()

	bg := context.Background()
	before := len(ctx.Store.GratitudeNotes(bg))
	if err := ctx.Store.DeleteGratitudeNote(bg, c.Date); err != nil {
		return fmt.Errorf("failed to delete note: %w", err)
	}
	if removed := before - len(ctx.Store.GratitudeNotes(bg)); removed == 0 {
		ctx.Println(cli.Warning("No note found at " + c.Date))
		return nil
	}
	ctx.Println(cli.Success("Deleted note at " + c.Date))
	return nil
}
