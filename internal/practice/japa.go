package practice

import (
	"context"

	"github.com/julianstephens/sadhana/internal/constants"
	"github.com/julianstephens/sadhana/internal/models"
)

// JapaHistory returns every session, most recent first.
func (s *Store) JapaHistory(ctx context.Context) []models.JapaSession {
	return getAll[models.JapaSession](ctx, s, constants.KeyJapaHistory)
}

// SaveJapaSession prepends the session. A session whose date equals an
// existing one is stored as a second entry.
func (s *Store) SaveJapaSession(ctx context.Context, session models.JapaSession) error {
	return mutate(ctx, s, constants.KeyJapaHistory, func(history []element[models.JapaSession]) ([]element[models.JapaSession], bool) {
		return prepend(history, session), true
	})
}

// DeleteJapaSession removes sessions whose date is exactly date.
func (s *Store) DeleteJapaSession(ctx context.Context, date string) error {
	return mutate(ctx, s, constants.KeyJapaHistory, func(history []element[models.JapaSession]) ([]element[models.JapaSession], bool) {
		return removeWhere(history, func(js models.JapaSession) bool { return js.Date == date })
	})
}
