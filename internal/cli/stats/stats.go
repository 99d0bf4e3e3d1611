package stats

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/sadhana/internal/cli"
	"github.com/julianstephens/sadhana/internal/constants"
	"github.com/julianstephens/sadhana/internal/insights"
	"github.com/julianstephens/sadhana/internal/models"
)

const barWidth = 24

var (
	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Padding(0, 1)
	barStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
)

type InsightsCmd struct {
	Top  int  `help:"Number of stotras in the lifetime ranking. Defaults to insights.top_n from the config."`
	JSON bool `help:"Print the summary as JSON."`
}

func (c *InsightsCmd) Run(ctx *cli.Context) error {
	if c.Top < 0 {
		return fmt.Errorf("--top must not be negative")
	}
	bg := context.Background()
	now := ctx.Today()
	summary := insights.Summarize(now,
		ctx.Store.JapaHistory(bg),
		ctx.Store.RecitationLog(bg),
		ctx.Store.GratitudeNotes(bg),
		ctx.Store.Goals(bg),
		ctx.TopN(c.Top),
	)
	if c.JSON {
		return ctx.PrintJSON(summary)
	}

	ctx.Println(cli.TitleStyle.Render("Sādhana insights") + " " + cli.MutedStyle.Render(now.Format("Mon 2 Jan 2006")))
	ctx.Println()

	streak := fmt.Sprintf("%d day", summary.Streak)
	if summary.Streak != 1 {
		streak += "s"
	}
	overview := strings.Join([]string{
		fmt.Sprintf("Streak           %s", streak),
		fmt.Sprintf("Practice days    %d of the last 7", summary.WeeklyPracticeDays),
		fmt.Sprintf("Malas this week  %d (%d sessions)", summary.WeeklyMalas, summary.WeeklySessions),
		fmt.Sprintf("Malas lifetime   %d", summary.LifetimeMalas),
		fmt.Sprintf("Recitations      %d lifetime", summary.LifetimeRecitations),
		fmt.Sprintf("Gratitude notes  %d this week, %d lifetime", summary.WeeklyGratitude, summary.LifetimeGratitude),
	}, "\n")
	ctx.Println(boxStyle.Render(overview))
	ctx.Println()

	ctx.Println(cli.HeaderStyle.Render("Malas, last 7 days"))
	ctx.Printf("%s", dailyChart(summary.DailyMalas, now))

	ctx.Println(cli.HeaderStyle.Render("Recitations this week"))
	printTally(ctx, summary.WeeklyRecitations)

	ctx.Println(cli.HeaderStyle.Render("Most recited"))
	printTally(ctx, summary.TopStotras)

	ctx.Println(cli.HeaderStyle.Render("Goals"))
	for _, t := range []models.GoalType{models.GoalSpiritual, models.GoalMaterial} {
		st := summary.Goals[t]
		ctx.Printf("  %-10s %d/%d completed\n", t, st.Completed, st.Total)
	}
	return nil
}

// dailyChart renders one bar per day, oldest first, scaled to the busiest day.
func dailyChart(series [constants.DailySeriesLen]int, now time.Time) string {
	peak := 0
	for _, n := range series {
		peak = max(peak, n)
	}

	var b strings.Builder
	for i, n := range series {
		day := now.AddDate(0, 0, i-(constants.DailySeriesLen-1))
		width := 0
		if peak > 0 {
			width = n * barWidth / peak
		}
		if n > 0 && width == 0 {
			width = 1
		}
		fmt.Fprintf(&b, "  %s %s %d\n", day.Format("Mon"), barStyle.Render(strings.Repeat("█", width)), n)
	}
	return b.String()
}

func printTally(ctx *cli.Context, rows []insights.TitleCount) {
	if len(rows) == 0 {
		ctx.Println(cli.MutedStyle.Render("  nothing yet"))
		return
	}
	for _, r := range rows {
		ctx.Printf("  %5d  %s\n", r.Count, r.Title)
	}
}
