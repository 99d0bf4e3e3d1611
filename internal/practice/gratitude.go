package practice

import (
	"context"

	"github.com/julianstephens/sadhana/internal/constants"
	"github.com/julianstephens/sadhana/internal/models"
)

// GratitudeNotes returns every note, most recent first.
func (s *Store) GratitudeNotes(ctx context.Context) []models.GratitudeNote {
	return getAll[models.GratitudeNote](ctx, s, constants.KeyGratitudeNotes)
}

// SaveGratitudeNote always adds a new entry at the front; several notes may
// share a calendar day.
func (s *Store) SaveGratitudeNote(ctx context.Context, note models.GratitudeNote) error {
	return mutate(ctx, s, constants.KeyGratitudeNotes, func(notes []element[models.GratitudeNote]) ([]element[models.GratitudeNote], bool) {
		return prepend(notes, note), true
	})
}

func (s *Store) DeleteGratitudeNote(ctx context.Context, date string) error {
	return mutate(ctx, s, constants.KeyGratitudeNotes, func(notes []element[models.GratitudeNote]) ([]element[models.GratitudeNote], bool) {
		return removeWhere(notes, func(n models.GratitudeNote) bool { return n.Date == date })
	})
}
