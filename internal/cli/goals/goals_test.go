package goals

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/julianstephens/sadhana/internal/cli/clitest"
	"github.com/julianstephens/sadhana/internal/models"
)

func addGoal(t *testing.T, env *clitest.Env, id, goalType, title string) {
	t.Helper()
	cmd := &GoalAddCmd{ID: id, Type: goalType, Title: strings.Fields(title)}
	if err := cmd.Run(env.Ctx); err != nil {
		t.Fatalf("failed to add goal: %v", err)
	}
}

func TestGoalAdd(t *testing.T) {
	env := clitest.New(t)

	if err := (&GoalAddCmd{Type: "spiritual", Title: []string{"Read", "the", "Gita"}}).Run(env.Ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	goals := env.Ctx.Store.Goals(context.Background())
	if len(goals) != 1 {
		t.Fatalf("expected 1 goal, got %d", len(goals))
	}
	g := goals[0]
	if g.Title != "Read the Gita" || g.Type != models.GoalSpiritual || g.IsCompleted {
		t.Errorf("unexpected goal %+v", g)
	}
	if _, err := uuid.Parse(g.ID); err != nil {
		t.Errorf("generated id %q is not a uuid: %v", g.ID, err)
	}
}

func TestGoalAddRejectsInvalid(t *testing.T) {
	env := clitest.New(t)

	if err := (&GoalAddCmd{Type: "weekly", Title: []string{"x"}}).Run(env.Ctx); err == nil {
		t.Error("expected an error for an unknown type")
	}
	if err := (&GoalAddCmd{Type: "material", Title: []string{" "}}).Run(env.Ctx); err == nil {
		t.Error("expected an error for an empty title")
	}
}

func TestGoalListFilters(t *testing.T) {
	env := clitest.New(t)
	addGoal(t, env, "g1", "spiritual", "Daily japa")
	addGoal(t, env, "g2", "material", "Fix the roof")
	if err := (&GoalDoneCmd{ID: "g1"}).Run(env.Ctx); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		cmd     GoalListCmd
		want    []string
		notWant []string
	}{
		{"all", GoalListCmd{}, []string{"Daily japa", "Fix the roof"}, nil},
		{"material only", GoalListCmd{Type: "material"}, []string{"Fix the roof"}, []string{"Daily japa"}},
		{"open only", GoalListCmd{Open: true}, []string{"Fix the roof"}, []string{"Daily japa"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env.Out.Reset()
			if err := tt.cmd.Run(env.Ctx); err != nil {
				t.Fatal(err)
			}
			out := env.Out.String()
			for _, s := range tt.want {
				if !strings.Contains(out, s) {
					t.Errorf("output missing %q: %q", s, out)
				}
			}
			for _, s := range tt.notWant {
				if strings.Contains(out, s) {
					t.Errorf("output should not contain %q: %q", s, out)
				}
			}
		})
	}
}

func TestGoalDoneAndReopen(t *testing.T) {
	env := clitest.New(t)
	addGoal(t, env, "g1", "spiritual", "Fast on ekadashi")

	if err := (&GoalDoneCmd{ID: "g1"}).Run(env.Ctx); err != nil {
		t.Fatal(err)
	}
	if g := env.Ctx.Store.Goals(context.Background())[0]; !g.IsCompleted {
		t.Error("goal should be completed")
	}

	if err := (&GoalReopenCmd{ID: "g1"}).Run(env.Ctx); err != nil {
		t.Fatal(err)
	}
	if g := env.Ctx.Store.Goals(context.Background())[0]; g.IsCompleted {
		t.Error("goal should be open again")
	}

	if err := (&GoalDoneCmd{ID: "missing"}).Run(env.Ctx); err == nil {
		t.Error("expected an error for an unknown id")
	}
}

func TestGoalDelete(t *testing.T) {
	env := clitest.New(t)
	addGoal(t, env, "g1", "material", "Plant tulsi")

	env.Answer = false
	if err := (&GoalDeleteCmd{ID: "g1"}).Run(env.Ctx); err != nil {
		t.Fatal(err)
	}
	if len(env.Prompts) != 1 {
		t.Fatalf("expected one prompt, got %v", env.Prompts)
	}
	if n := len(env.Ctx.Store.Goals(context.Background())); n != 1 {
		t.Fatalf("declined delete should keep the goal, got %d", n)
	}

	if err := (&GoalDeleteCmd{ID: "g1", Yes: true}).Run(env.Ctx); err != nil {
		t.Fatal(err)
	}
	if len(env.Prompts) != 1 {
		t.Errorf("--yes should skip the prompt, got %v", env.Prompts)
	}
	if n := len(env.Ctx.Store.Goals(context.Background())); n != 0 {
		t.Errorf("expected goal to be deleted, %d left", n)
	}
}
