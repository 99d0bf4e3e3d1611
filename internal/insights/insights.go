// Package insights computes practice statistics from collections that have
// already been loaded. Nothing here touches storage, and no function mutates
// its input.
package insights

import (
	"slices"
	"time"

	"github.com/julianstephens/sadhana/internal/constants"
	"github.com/julianstephens/sadhana/internal/models"
)

// Dated is satisfied by every record kind that carries a timestamp.
type Dated interface {
	Day() string
	Time() (time.Time, error)
}

// Weekly returns the records dated at or after now minus seven days.
// Records whose date does not parse are left out.
func Weekly[T Dated](now time.Time, records []T) []T {
	cutoff := now.Add(-constants.WeeklyWindow)
	out := make([]T, 0, len(records))
	for _, r := range records {
		t, err := r.Time()
		if err != nil {
			continue
		}
		if !t.Before(cutoff) {
			out = append(out, r)
		}
	}
	return out
}

// SumMalas totals the malas across sessions.
func SumMalas(sessions []models.JapaSession) int {
	total := 0
	for _, s := range sessions {
		total += s.Malas
	}
	return total
}

// SumRecitations totals the count across recitation logs.
func SumRecitations(logs []models.RecitationLog) int {
	total := 0
	for _, l := range logs {
		total += l.Count
	}
	return total
}

// TitleCount is one row of a per-title tally.
type TitleCount struct {
	Title string `json:"title"`
	Count int    `json:"count"`
}

// TallyByTitle sums counts per stotraTitle. Rows are in order of first appearance.
func TallyByTitle(logs []models.RecitationLog) []TitleCount {
	index := make(map[string]int)
	var out []TitleCount
	for _, l := range logs {
		i, ok := index[l.StotraTitle]
		if !ok {
			i = len(out)
			index[l.StotraTitle] = i
			out = append(out, TitleCount{Title: l.StotraTitle})
		}
		out[i].Count += l.Count
	}
	return out
}

// TopN returns the n titles with the highest totals. Ties keep the order in
// which the titles were first seen.
func TopN(logs []models.RecitationLog, n int) []TitleCount {
	tally := TallyByTitle(logs)
	slices.SortStableFunc(tally, func(a, b TitleCount) int { return b.Count - a.Count })
	if n >= 0 && n < len(tally) {
		tally = tally[:n]
	}
	return tally
}

// DailySeries buckets malas into the seven calendar days ending today, oldest
// first: index 0 is six days ago and index 6 is today. Days are taken in
// now's location. Sessions outside the window are ignored.
func DailySeries(now time.Time, sessions []models.JapaSession) [constants.DailySeriesLen]int {
	var series [constants.DailySeriesLen]int
	loc := now.Location()
	today := civilDay(now)

	for _, s := range sessions {
		t, err := s.Time()
		if err != nil {
			continue
		}
		daysAgo := int(today.Sub(civilDay(t.In(loc))).Hours() / 24)
		if daysAgo < 0 || daysAgo >= constants.DailySeriesLen {
			continue
		}
		series[constants.DailySeriesLen-1-daysAgo] += s.Malas
	}
	return series
}

// civilDay maps t's calendar date onto UTC midnight so day differences are
// exact across DST changes.
func civilDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaySet collects the calendar days (ISO date prefix of each record's date).
func DaySet[T Dated](records []T) map[string]struct{} {
	set := make(map[string]struct{}, len(records))
	for _, r := range records {
		set[r.Day()] = struct{}{}
	}
	return set
}

// Union merges day sets into a new set.
func Union(sets ...map[string]struct{}) map[string]struct{} {
	out := make(map[string]struct{})
	for _, s := range sets {
		for day := range s {
			out[day] = struct{}{}
		}
	}
	return out
}

// Streak counts consecutive days present in days, walking back from today
// (now's calendar date in now's location). It is 0 when today is absent.
func Streak(days map[string]struct{}, now time.Time) int {
	y, m, d := now.Date()
	// Noon keeps AddDate clear of DST gaps at midnight.
	cursor := time.Date(y, m, d, 12, 0, 0, 0, now.Location())

	streak := 0
	for {
		if _, ok := days[cursor.Format(constants.DateFormat)]; !ok {
			return streak
		}
		streak++
		cursor = cursor.AddDate(0, 0, -1)
	}
}

// PracticeDayCount is the number of distinct days in the last week with
// either a japa session or a recitation.
func PracticeDayCount(now time.Time, sessions []models.JapaSession, logs []models.RecitationLog) int {
	return len(Union(DaySet(Weekly(now, sessions)), DaySet(Weekly(now, logs))))
}
