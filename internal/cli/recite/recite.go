package recite

import (
	"context"
	"fmt"

	"github.com/julianstephens/sadhana/internal/cli"
	"github.com/julianstephens/sadhana/internal/models"
)

type ReciteCmd struct {
	Log    ReciteLogCmd    `cmd:"" help:"Log recitations of a stotra."`
	List   ReciteListCmd   `cmd:"" help:"List the recitation log, most recent first." default:"1"`
	Delete ReciteDeleteCmd `cmd:"" help:"Delete a log entry by its timestamp."`
}

type ReciteLogCmd struct {
	Stotra string `required:"" short:"s" help:"Stotra id from 'sadhana library'."`
	Title  string `help:"Title to record. Required when the id is not in the library."`
	Count  int    `short:"n" default:"1" help:"Number of recitations."`
	At     string `help:"When: YYYY-MM-DD, \"YYYY-MM-DD HH:MM\" or ISO-8601. Defaults to now."`
}

func (c *ReciteLogCmd) Run(ctx *cli.Context) error {
	title, err := ctx.Catalog.Title(c.Stotra, c.Title)
	if err != nil {
		return err
	}
	date, err := ctx.Timestamp(c.At)
	if err != nil {
		return err
	}
	entry := models.RecitationLog{StotraID: c.Stotra, StotraTitle: title, Count: c.Count, Date: date}
	if res := ctx.Validator.RecitationLog(entry); res.HasProblems() {
		return res.Err()
	}

	if err := ctx.Lock(); err != nil {
		return err
	}
	defer ctx.Unlock()

	bg := context.Background()
	if err := ctx.Store.SaveRecitation(bg, entry); err != nil {
		return fmt.Errorf("failed to save recitation: %w", err)
	}

	total := entry.Count
	for _, l := range ctx.Store.RecitationLog(bg) {
		if l.StotraID == entry.StotraID && l.Day() == entry.Day() {
			total = l.Count
			break
		}
	}
	ctx.Println(cli.Success(fmt.Sprintf("Logged %d × %s (%d on %s)", c.Count, title, total, entry.Day())))
	return nil
}

type ReciteListCmd struct {
	Limit int  `help:"Show at most this many entries." default:"20"`
	JSON  bool `help:"Print raw records as JSON."`
}

func (c *ReciteListCmd) Run(ctx *cli.Context) error {
	logs := cli.Limit(ctx.Store.RecitationLog(context.Background()), c.Limit)
	if c.JSON {
		return ctx.PrintJSON(logs)
	}
	if len(logs) == 0 {
		ctx.Println("No recitations logged yet.")
		return nil
	}

	ctx.Println(cli.HeaderStyle.Render(fmt.Sprintf("%-18s %5s  %s", "WHEN", "COUNT", "STOTRA")))
	for _, l := range logs {
		ctx.Printf("%-18s %5d  %s %s\n", ctx.FormatDate(l.Date), l.Count, l.StotraTitle,
			cli.MutedStyle.Render("["+l.StotraID+"] "+l.Date))
	}
	return nil
}

type ReciteDeleteCmd struct {
	Date string `arg:"" help:"Stored timestamp of the entry to delete, exactly as listed."`
}

func (c *ReciteDeleteCmd) Run(ctx *cli.Context) error {
	if err := ctx.Lock(); err != nil {
		return err
	}
	defer ctx.Unlock()

	bg := context.Background()
	before := len(ctx.Store.RecitationLog(bg))
	if err := ctx.Store.DeleteRecitation(bg, c.Date); err != nil {
		return fmt.Errorf("failed to delete recitation: %w", err)
	}
	if removed := before - len(ctx.Store.RecitationLog(bg)); removed == 0 {
		ctx.Println(cli.Warning("No entry found at " + c.Date))
		return nil
	}
	ctx.Println(cli.Success("Deleted entry at " + c.Date))
	return nil
}

// LibraryCmd lists the stotras recitations can refer to.
type LibraryCmd struct {
	JSON bool `help:"Print the catalog as JSON."`
}

func (c *LibraryCmd) Run(ctx *cli.Context) error {
	stotras := ctx.Catalog.All()
	if c.JSON {
		return ctx.PrintJSON(stotras)
	}
	ctx.Println(cli.TitleStyle.Render("Library"))
	for _, s := range stotras {
		ctx.Printf("  %3s  %s\n", s.ID, s.Title)
	}
	return nil
}
