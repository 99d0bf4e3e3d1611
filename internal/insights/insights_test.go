package insights

import (
	"reflect"
	"slices"
	"testing"
	"time"

	"github.com/julianstephens/sadhana/internal/models"
)

var refNow = time.Date(2024, 3, 10, 15, 0, 0, 0, time.UTC)

func stamp(t time.Time) string { return models.Timestamp(t) }

func daysAgo(n int) time.Time { return refNow.AddDate(0, 0, -n) }

func session(malas int, t time.Time) models.JapaSession {
	return models.JapaSession{Malas: malas, Date: stamp(t)}
}

func recitation(id, title string, count int, t time.Time) models.RecitationLog {
	return models.RecitationLog{StotraID: id, StotraTitle: title, Count: count, Date: stamp(t)}
}

func TestWeeklySum(t *testing.T) {
	history := []models.JapaSession{
		session(2, daysAgo(0)),
		session(3, daysAgo(2)),
		session(5, daysAgo(6)),
		session(100, daysAgo(10)),
	}

	if got := SumMalas(Weekly(refNow, history)); got != 10 {
		t.Errorf("weekly sum = %d, want 10", got)
	}
	if got := SumMalas(history); got != 110 {
		t.Errorf("lifetime sum = %d, want 110", got)
	}
}

func TestWeekly_CutoffIsInclusiveInstant(t *testing.T) {
	cutoff := refNow.Add(-7 * 24 * time.Hour)
	history := []models.JapaSession{
		session(1, cutoff),
		session(1, cutoff.Add(-time.Millisecond)),
		{Malas: 1, Date: "not a date"},
	}

	got := Weekly(refNow, history)
	if len(got) != 1 || got[0].Date != stamp(cutoff) {
		t.Errorf("expected only the session exactly at the cutoff, got %+v", got)
	}
}

func TestTopN_StableTieBreak(t *testing.T) {
	tests := []struct {
		name string
		logs []models.RecitationLog
		want []string
	}{
		{
			name: "B seen before C",
			logs: []models.RecitationLog{
				recitation("a", "A", 5, refNow),
				recitation("b", "B", 9, refNow),
				recitation("c", "C", 4, refNow),
				recitation("d", "D", 1, refNow),
				recitation("c", "C", 5, refNow),
			},
			want: []string{"B", "C"},
		},
		{
			name: "C seen before B",
			logs: []models.RecitationLog{
				recitation("c", "C", 9, refNow),
				recitation("a", "A", 5, refNow),
				recitation("b", "B", 9, refNow),
				recitation("d", "D", 1, refNow),
			},
			want: []string{"C", "B"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			top := TopN(tt.logs, 2)
			var titles []string
			for _, tc := range top {
				titles = append(titles, tc.Title)
				if tc.Count != 9 {
					t.Errorf("%s count = %d, want 9", tc.Title, tc.Count)
				}
			}
			if !slices.Equal(titles, tt.want) {
				t.Errorf("top 2 = %v, want %v", titles, tt.want)
			}
		})
	}
}

func TestTopN_Bounds(t *testing.T) {
	logs := []models.RecitationLog{recitation("a", "A", 1, refNow)}
	if got := TopN(logs, 5); len(got) != 1 {
		t.Errorf("expected 1 row when fewer titles than n, got %d", len(got))
	}
	if got := TopN(logs, 0); len(got) != 0 {
		t.Errorf("expected no rows for n=0, got %d", len(got))
	}
	if got := TopN(nil, 5); len(got) != 0 {
		t.Errorf("expected no rows for empty input, got %d", len(got))
	}
}

func TestTallyByTitle(t *testing.T) {
	logs := []models.RecitationLog{
		recitation("1", "Hanuman Chalisa", 3, refNow),
		recitation("2", "Kāla Bhairava Aṣṭakam", 1, refNow),
		recitation("1", "Hanuman Chalisa", 8, daysAgo(1)),
	}
	want := []TitleCount{{"Hanuman Chalisa", 11}, {"Kāla Bhairava Aṣṭakam", 1}}
	if got := TallyByTitle(logs); !reflect.DeepEqual(got, want) {
		t.Errorf("TallyByTitle = %+v, want %+v", got, want)
	}
}

func TestStreak(t *testing.T) {
	tests := []struct {
		name string
		days []int
		want int
	}{
		{name: "three consecutive days", days: []int{0, 1, 2}, want: 3},
		{name: "gap yesterday", days: []int{0, 2}, want: 1},
		{name: "nothing today", days: []int{1, 2, 3}, want: 0},
		{name: "empty", days: nil, want: 0},
		{name: "older gap ignored", days: []int{0, 1, 3, 4}, want: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var history []models.JapaSession
			for _, d := range tt.days {
				history = append(history, session(1, daysAgo(d)))
			}
			if got := Streak(DaySet(history), refNow); got != tt.want {
				t.Errorf("Streak() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestStreak_AcrossMonthBoundary(t *testing.T) {
	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	days := map[string]struct{}{"2024-03-01": {}, "2024-02-29": {}, "2024-02-28": {}}
	if got := Streak(days, now); got != 3 {
		t.Errorf("Streak() = %d, want 3", got)
	}
}

func TestStreak_UsesClockLocationForToday(t *testing.T) {
	ist := time.FixedZone("IST", 5*3600+1800)
	// 01:00 on the 11th in IST is still the 10th in UTC.
	now := time.Date(2024, 3, 11, 1, 0, 0, 0, ist)
	days := map[string]struct{}{"2024-03-10": {}}

	if got := Streak(days, now); got != 0 {
		t.Errorf("Streak() in IST = %d, want 0", got)
	}
	if got := Streak(days, now.UTC()); got != 1 {
		t.Errorf("Streak() in UTC = %d, want 1", got)
	}
}

func TestDailySeries(t *testing.T) {
	history := []models.JapaSession{
		session(4, refNow),
		session(1, refNow.Add(-time.Hour)),
		session(2, daysAgo(1)),
		session(7, daysAgo(6)),
		session(50, daysAgo(7)),
		session(9, refNow.AddDate(0, 0, 1)),
	}

	got := DailySeries(refNow, history)
	want := [7]int{7, 0, 0, 0, 0, 2, 5}
	if got != want {
		t.Errorf("DailySeries = %v, want %v", got, want)
	}
}

func TestDailySeries_MidnightInClockLocation(t *testing.T) {
	est := time.FixedZone("EST", -5*3600)
	now := time.Date(2024, 3, 10, 10, 0, 0, 0, est)
	// 03:00Z on the 10th is 22:00 on the 9th in EST: yesterday's bucket.
	history := []models.JapaSession{{Malas: 3, Date: "2024-03-10T03:00:00.000Z"}}

	got := DailySeries(now, history)
	if got[5] != 3 || got[6] != 0 {
		t.Errorf("DailySeries = %v, expected the session in index 5", got)
	}
}

func TestPracticeDayCount(t *testing.T) {
	history := []models.JapaSession{
		session(1, daysAgo(0)),
		session(1, daysAgo(1)),
		session(1, daysAgo(20)),
	}
	logs := []models.RecitationLog{
		recitation("1", "A", 1, daysAgo(1)),
		recitation("1", "A", 1, daysAgo(3)),
	}
	if got := PracticeDayCount(refNow, history, logs); got != 3 {
		t.Errorf("PracticeDayCount = %d, want 3", got)
	}
}

func TestAggregationDoesNotMutateInput(t *testing.T) {
	logs := []models.RecitationLog{
		recitation("a", "A", 1, refNow),
		recitation("b", "B", 9, daysAgo(2)),
		recitation("c", "C", 5, daysAgo(9)),
	}
	original := slices.Clone(logs)

	first := TopN(logs, 2)
	second := TopN(logs, 2)
	_ = Weekly(refNow, logs)

	if !reflect.DeepEqual(logs, original) {
		t.Errorf("input mutated: %+v", logs)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("TopN not idempotent: %+v vs %+v", first, second)
	}
}

func TestSummarize(t *testing.T) {
	history := []models.JapaSession{
		session(2, daysAgo(0)),
		session(3, daysAgo(1)),
		session(100, daysAgo(10)),
	}
	logs := []models.RecitationLog{
		recitation("3", "Hanuman Chalisa", 11, daysAgo(2)),
		recitation("1", "Kāla Bhairava Aṣṭakam", 3, daysAgo(30)),
	}
	notes := []models.GratitudeNote{
		{Note: "n1", Date: stamp(daysAgo(0))},
		{Note: "n2", Date: stamp(daysAgo(12))},
	}
	goals := []models.Goal{
		{ID: "1", Type: models.GoalSpiritual, IsCompleted: true},
		{ID: "2", Type: models.GoalSpiritual},
		{ID: "3", Type: models.GoalMaterial},
	}

	s := Summarize(refNow, history, logs, notes, goals, 5)

	if s.WeeklyMalas != 5 || s.LifetimeMalas != 105 || s.WeeklySessions != 2 {
		t.Errorf("japa stats: %+v", s)
	}
	if s.LifetimeRecitations != 14 || len(s.WeeklyRecitations) != 1 || len(s.TopStotras) != 2 {
		t.Errorf("recitation stats: %+v", s)
	}
	if s.Streak != 3 {
		t.Errorf("streak = %d, want 3 (japa today and yesterday, recitation two days ago)", s.Streak)
	}
	if s.WeeklyPracticeDays != 3 {
		t.Errorf("weekly practice days = %d, want 3", s.WeeklyPracticeDays)
	}
	if s.DailyMalas[6] != 2 || s.DailyMalas[5] != 3 {
		t.Errorf("daily malas = %v", s.DailyMalas)
	}
	if got := s.Goals[models.GoalSpiritual]; got.Total != 2 || got.Completed != 1 {
		t.Errorf("spiritual goals = %+v", got)
	}
	if got := s.Goals[models.GoalMaterial]; got.Total != 1 || got.Completed != 0 {
		t.Errorf("material goals = %+v", got)
	}
	if s.WeeklyGratitude != 1 || s.LifetimeGratitude != 2 {
		t.Errorf("gratitude stats: %+v", s)
	}
}

func TestSummarize_EmptyCollections(t *testing.T) {
	s := Summarize(refNow, nil, nil, nil, nil, 5)
	if s.TopStotras == nil || s.WeeklyRecitations == nil {
		t.Error("expected empty, non-nil tallies for JSON output")
	}
	if s.Streak != 0 || s.WeeklyMalas != 0 {
		t.Errorf("unexpected stats: %+v", s)
	}
}
