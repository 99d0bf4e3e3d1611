package practice

import (
	"context"

	"github.com/julianstephens/sadhana/internal/constants"
	"github.com/julianstephens/sadhana/internal/models"
)

// RecitationLog returns every log entry, most recent first.
func (s *Store) RecitationLog(ctx context.Context) []models.RecitationLog {
	return getAll[models.RecitationLog](ctx, s, constants.KeyRecitationLog)
}

// SaveRecitation records recitations of one stotra. If an entry for the same
// stotra already exists on the log's calendar day its count is increased in
// place; otherwise the log is prepended.
func (s *Store) SaveRecitation(ctx context.Context, log models.RecitationLog) error {
	day := log.Day()
	return mutate(ctx, s, constants.KeyRecitationLog, func(logs []element[models.RecitationLog]) ([]element[models.RecitationLog], bool) {
		for i := range logs {
			if logs[i].ok && logs[i].rec.StotraID == log.StotraID && logs[i].rec.Day() == day {
				logs[i].rec.Count += log.Count
				logs[i].setField("count", logs[i].rec.Count)
				return logs, true
			}
		}
		return prepend(logs, log), true
	})
}

// DeleteRecitation removes log entries whose date is exactly date.
func (s *Store) DeleteRecitation(ctx context.Context, date string) error {
	return mutate(ctx, s, constants.KeyRecitationLog, func(logs []element[models.RecitationLog]) ([]element[models.RecitationLog], bool) {
		return removeWhere(logs, func(l models.RecitationLog) bool { return l.Date == date })
	})
}
