package insights

import (
	"time"

	"github.com/julianstephens/sadhana/internal/constants"
	"github.com/julianstephens/sadhana/internal/models"
)

// GoalStats counts goals of one type.
type GoalStats struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
}

// Summary is the full insights view.
type Summary struct {
	GeneratedAt time.Time `json:"generatedAt"`

	WeeklyMalas    int `json:"weeklyMalas"`
	LifetimeMalas  int `json:"lifetimeMalas"`
	WeeklySessions int `json:"weeklySessions"`

	WeeklyRecitations   []TitleCount `json:"weeklyRecitations"`
	TopStotras          []TitleCount `json:"topStotras"`
	LifetimeRecitations int          `json:"lifetimeRecitations"`

	DailyMalas [constants.DailySeriesLen]int `json:"dailyMalas"`

	Streak             int `json:"streak"`
	WeeklyPracticeDays int `json:"weeklyPracticeDays"`

	Goals             map[models.GoalType]GoalStats `json:"goals"`
	WeeklyGratitude   int                           `json:"weeklyGratitude"`
	LifetimeGratitude int                           `json:"lifetimeGratitude"`
}

// Summarize computes every statistic shown on the insights screen.
// Streaks count both japa and recitation days across all history.
// A negative topN means no limit.
func Summarize(now time.Time, history []models.JapaSession, logs []models.RecitationLog,
	notes []models.GratitudeNote, goals []models.Goal, topN int) Summary {
	weeklyJapa := Weekly(now, history)
	weeklyLogs := Weekly(now, logs)

	weeklyTally := TallyByTitle(weeklyLogs)
	if weeklyTally == nil {
		weeklyTally = []TitleCount{}
	}
	top := TopN(logs, topN)
	if top == nil {
		top = []TitleCount{}
	}

	goalStats := map[models.GoalType]GoalStats{
		models.GoalSpiritual: {},
		models.GoalMaterial:  {},
	}
	for _, g := range goals {
		st := goalStats[g.Type]
		st.Total++
		if g.IsCompleted {
			st.Completed++
		}
		goalStats[g.Type] = st
	}

	return Summary{
		GeneratedAt:         now,
		WeeklyMalas:         SumMalas(weeklyJapa),
		LifetimeMalas:       SumMalas(history),
		WeeklySessions:      len(weeklyJapa),
		WeeklyRecitations:   weeklyTally,
		TopStotras:          top,
		LifetimeRecitations: SumRecitations(logs),
		DailyMalas:          DailySeries(now, weeklyJapa),
		Streak:              Streak(Union(DaySet(history), DaySet(logs)), now),
		WeeklyPracticeDays:  PracticeDayCount(now, history, logs),
		Goals:               goalStats,
		WeeklyGratitude:     len(Weekly(now, notes)),
		LifetimeGratitude:   len(notes),
	}
}
