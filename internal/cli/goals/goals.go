package goals

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/julianstephens/sadhana/internal/cli"
	"github.com/julianstephens/sadhana/internal/models"
)

type GoalCmd struct {
	Add    GoalAddCmd    `cmd:"" help:"State a new goal."`
	List   GoalListCmd   `cmd:"" help:"List goals, most recent first." default:"1"`
	Done   GoalDoneCmd   `cmd:"" help:"Mark a goal as completed."`
	Reopen GoalReopenCmd `cmd:"" help:"Mark a completed goal as open again."`
	Delete GoalDeleteCmd `cmd:"" help:"Delete a goal."`
}

type GoalAddCmd struct {
	Title []string `arg:"" help:"What you intend to do."`
	Type  string   `short:"t" default:"spiritual" enum:"spiritual,material" help:"Goal type (spiritual, material)."`
	ID    string   `help:"Goal id. A random id is generated when omitted."`
}

func (c *GoalAddCmd) Run(ctx *cli.Context) error {
	goalType, err := models.ParseGoalType(c.Type)
	if err != nil {
		return err
	}
	id := c.ID
	if id == "" {
		id = uuid.NewString()
	}
	goal := models.Goal{ID: id, Type: goalType, Title: strings.TrimSpace(strings.Join(c.Title, " "))}
	if res := ctx.Validator.Goal(goal); res.HasProblems() {
		return res.Err()
	}

	if err := ctx.Lock(); err != nil {
		return err
	}
	defer ctx.Unlock()

	if err := ctx.Store.SaveGoal(context.Background(), goal); err != nil {
		return fmt.Errorf("failed to save goal: %w", err)
	}
	ctx.Println(cli.Success(fmt.Sprintf("Added %s goal %q", goal.Type, goal.Title)))
	ctx.Println(cli.MutedStyle.Render("  id: " + goal.ID))
	return nil
}

type GoalListCmd struct {
	Type string `short:"t" help:"Only show goals of this type (spiritual, material)."`
	Open bool   `help:"Hide completed goals."`
	JSON bool   `help:"Print raw records as JSON."`
}

func (c *GoalListCmd) Run(ctx *cli.Context) error {
	var goals []models.Goal
	for _, g := range ctx.Store.Goals(context.Background()) {
		if c.Type != "" && string(g.Type) != c.Type {
			continue
		}
		if c.Open && g.IsCompleted {
			continue
		}
		goals = append(goals, g)
	}
	if c.JSON {
		if goals == nil {
			goals = []models.Goal{}
		}
		return ctx.PrintJSON(goals)
	}
	if len(goals) == 0 {
		ctx.Println("No goals found.")
		return nil
	}

	for _, g := range goals {
		mark := "[ ]"
		title := g.Title
		if g.IsCompleted {
			mark = cli.SuccessStyle.Render("[x]")
			title = cli.MutedStyle.Render(title)
		}
		ctx.Printf("%s %-9s %s %s\n", mark, g.Type, title, cli.MutedStyle.Render(g.ID))
	}
	return nil
}

type GoalDoneCmd struct {
	ID string `arg:"" help:"Goal id."`
}

func (c *GoalDoneCmd) Run(ctx *cli.Context) error {
	return setStatus(ctx, c.ID, true)
}

type GoalReopenCmd struct {
	ID string `arg:"" help:"Goal id."`
}

func (c *GoalReopenCmd) Run(ctx *cli.Context) error {
	return setStatus(ctx, c.ID, false)
}

func find(ctx *cli.Context, id string) (models.Goal, bool) {
	for _, g := range ctx.Store.Goals(context.Background()) {
		if g.ID == id {
			return g, true
		}
	}
	return models.Goal{}, false
}

func setStatus(ctx *cli.Context, id string, completed bool) error {
	if err := ctx.Lock(); err != nil {
		return err
	}
	defer ctx.Unlock()

	goal, ok := find(ctx, id)
	if !ok {
		return fmt.Errorf("no goal with id %q", id)
	}
	if err := ctx.Store.UpdateGoalStatus(context.Background(), id, completed); err != nil {
		return fmt.Errorf("failed to update goal: %w", err)
	}
	if completed {
		ctx.Println(cli.Success(fmt.Sprintf("Completed %q", goal.Title)))
	} else {
		ctx.Println(cli.Success(fmt.Sprintf("Reopened %q", goal.Title)))
	}
	return nil
}

type GoalDeleteCmd struct {
	ID  string `arg:"" help:"Goal id."`
	Yes bool   `short:"y" help:"Skip the confirmation prompt."`
}

func (c *GoalDeleteCmd) Run(ctx *cli.Context) error {
	if err := ctx.Lock(); err != nil {
		return err
	}
	defer ctx.Unlock()

	goal, ok := find(ctx, c.ID)
	if !ok {
		ctx.Println(cli.Warning(fmt.Sprintf("No goal with id %q", c.ID)))
		return nil
	}
	ok, err := ctx.ConfirmUnless(c.Yes, fmt.Sprintf("Delete goal %q?", goal.Title), "This cannot be undone.")
	if err != nil {
		return err
	}
	if !ok {
		ctx.Println("Cancelled.")
		return nil
	}
	if err := ctx.Store.DeleteGoal(context.Background(), c.ID); err != nil {
		return fmt.Errorf("failed to delete goal: %w", err)
	}
	ctx.Println(cli.Success(fmt.Sprintf("Deleted %q", goal.Title)))
	return nil
}
