package practice

import (
	"context"

	"github.com/julianstephens/sadhana/internal/constants"
	"github.com/julianstephens/sadhana/internal/models"
)

// Goals returns every goal, most recently added first.
func (s *Store) Goals(ctx context.Context) []models.Goal {
	return getAll[models.Goal](ctx, s, constants.KeyGoalsList)
}

func (s *Store) SaveGoal(ctx context.Context, goal models.Goal) error {
	return mutate(ctx, s, constants.KeyGoalsList, func(goals []element[models.Goal]) ([]element[models.Goal], bool) {
		return prepend(goals, goal), true
	})
}

// UpdateGoalStatus sets isCompleted on the goal with the given id. Unknown
// ids are ignored.
func (s *Store) UpdateGoalStatus(ctx context.Context, id string, isCompleted bool) error {
	return mutate(ctx, s, constants.KeyGoalsList, func(goals []element[models.Goal]) ([]element[models.Goal], bool) {
		for i := range goals {
			if goals[i].ok && goals[i].rec.ID == id {
				goals[i].rec.IsCompleted = isCompleted
				goals[i].setField("isCompleted", isCompleted)
				return goals, true
			}
		}
		return goals, false
	})
}

func (s *Store) DeleteGoal(ctx context.Context, id string) error {
	return mutate(ctx, s, constants.KeyGoalsList, func(goals []element[models.Goal]) ([]element[models.Goal], bool) {
		return removeWhere(goals, func(g models.Goal) bool { return g.ID == id })
	})
}
