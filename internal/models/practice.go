package models

import (
	"strings"
	"time"

	"github.com/julianstephens/sadhana/internal/constants"
)

// JapaSession is one finalized counting session.
// Date is the record's identity within japa_history.
type JapaSession struct {
	Malas int    `json:"malas"`
	Date  string `json:"date"`
}

// RecitationLog counts recitations of one stotra on one calendar day.
// StotraTitle is a denormalized copy, not a catalog lookup.
type RecitationLog struct {
	StotraID    string `json:"stotraId"`
	StotraTitle string `json:"stotraTitle"`
	Count       int    `json:"count"`
	Date        string `json:"date"`
}

// GratitudeNote is a free-text journal entry.
type GratitudeNote struct {
	Note string `json:"note"`
	Date string `json:"date"`
}

// Day returns the calendar day of the session's timestamp.
func (s JapaSession) Day() string { return DayKey(s.Date) }

// Day returns the calendar day of the log's timestamp.
func (l RecitationLog) Day() string { return DayKey(l.Date) }

// Day returns the calendar day of the note's timestamp.
func (n GratitudeNote) Day() string { return DayKey(n.Date) }

// DayKey returns the ISO calendar-date prefix of an ISO-8601 timestamp,
// i.e. everything before the "T". The timestamp's own offset is trusted
// as-is; no timezone conversion happens here.
func DayKey(timestamp string) string {
	if i := strings.IndexByte(timestamp, 'T'); i >= 0 {
		return timestamp[:i]
	}
	return timestamp
}

// Timestamp formats t the way record dates are stored (UTC, millisecond precision).
func Timestamp(t time.Time) string {
	return t.UTC().Format(constants.TimestampFormat)
}

// TimestampIn formats t with loc's offset, so the date prefix is the
// calendar day in loc.
func TimestampIn(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(constants.TimestampFormat)
}

// ParseTimestamp parses a stored record date.
func ParseTimestamp(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}

// Time parses the session's timestamp.
func (s JapaSession) Time() (time.Time, error) { return ParseTimestamp(s.Date) }

// Time parses the log's timestamp.
func (l RecitationLog) Time() (time.Time, error) { return ParseTimestamp(l.Date) }

// Time parses the note's timestamp.
func (n GratitudeNote) Time() (time.Time, error) { return ParseTimestamp(n.Date) }
