package japa

import (
	"context"
	"fmt"

	"github.com/julianstephens/sadhana/internal/cli"
	"github.com/julianstephens/sadhana/internal/models"
)

// JapaCmd groups the japa subcommands.
type JapaCmd struct {
	Add    JapaAddCmd    `cmd:"" help:"Record a japa session."`
	List   JapaListCmd   `cmd:"" help:"List japa sessions, most recent first." default:"1"`
	Delete JapaDeleteCmd `cmd:"" help:"Delete a japa session by its timestamp."`
}

type JapaAddCmd struct {
	Malas int    `arg:"" help:"Number of malas completed (108 repetitions each)."`
	At    string `help:"When the session happened: YYYY-MM-DD, \"YYYY-MM-DD HH:MM\" or ISO-8601. Defaults to now."`
}

func (c *JapaAddCmd) Run(ctx *cli.Context) error {
	date, err := ctx.Timestamp(c.At)
	if err != nil {
		return err
	}
	session := models.JapaSession{Malas: c.Malas, Date: date}
	if res := ctx.Validator.JapaSession(session); res.HasProblems() {
		return res.Err()
	}

	if err := ctx.Lock(); err != nil {
		return err
	}
	defer ctx.Unlock()

	if err := ctx.Store.SaveJapaSession(context.Background(), session); err != nil {
		return fmt.Errorf("failed to save japa session: %w", err)
	}
	ctx.Println(cli.Success(fmt.Sprintf("Recorded %d malas (%d repetitions) at %s", c.Malas, c.Malas*108, ctx.FormatDate(date))))
	return nil
}

type JapaListCmd struct {
	Limit int  `help:"Show at most this many sessions." default:"20"`
	JSON  bool `help:"Print raw records as JSON."`
}

func (c *JapaListCmd) Run(ctx *cli.Context) error {
	history := cli.Limit(ctx.Store.JapaHistory(context.Background()), c.Limit)
	if c.JSON {
		return ctx.PrintJSON(history)
	}
	if len(history) == 0 {
		ctx.Println("No japa sessions recorded yet.")
		return nil
	}

	ctx.Println(cli.HeaderStyle.Render(fmt.Sprintf("%-18s %6s  %s", "WHEN", "MALAS", "DATE (stored)")))
	for _, s := range history {
		ctx.Printf("%-18s %6d  %s\n", ctx.FormatDate(s.Date), s.Malas, cli.MutedStyle.Render(s.Date))
	}
	return nil
}

type JapaDeleteCmd struct {
	Date string `arg:"" help:"Stored timestamp of the session to delete, exactly as listed."`
}

func (c *JapaDeleteCmd) Run(ctx *cli.Context) error {
	if err := ctx.Lock(); err != nil {
		return err
	}
	defer ctx.Unlock()

	bg := context.Background()
	before := len(ctx.Store.JapaHistory(bg))
	if err := ctx.Store.DeleteJapaSession(bg, c.Date); err != nil {
		return fmt.Errorf("failed to delete japa session: %w", err)
	}
	removed := before - len(ctx.Store.JapaHistory(bg))
	if removed == 0 {
		ctx.Println(cli.Warning("No session found at " + c.Date))
		return nil
	}
	ctx.Println(cli.Success(fmt.Sprintf("Deleted %d session(s) at %s", removed, c.Date)))
	return nil
}
