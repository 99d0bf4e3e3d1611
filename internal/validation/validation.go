// Package validation checks practice records before callers hand them to the
// store. The store itself accepts whatever it is given.
package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/julianstephens/sadhana/internal/models"
)

// ErrInvalidRecord wraps every error returned by Result.Err.
var ErrInvalidRecord = errors.New("invalid record")

// ProblemType classifies a validation problem
type ProblemType string

const (
	ProblemNonPositiveCount   ProblemType = "non_positive_count"
	ProblemInvalidDate        ProblemType = "invalid_date"
	ProblemMissingField       ProblemType = "missing_field"
	ProblemInvalidGoalType    ProblemType = "invalid_goal_type"
	ProblemDuplicateIdentity  ProblemType = "duplicate_identity"
	ProblemUnmergedRecitation ProblemType = "unmerged_recitation"
)

// Problem is one thing wrong with a record or collection.
type Problem struct {
	Type        ProblemType `json:"type"`
	Field       string      `json:"field"`
	Description string      `json:"description"`
}

// Result collects problems found by a Validator.
type Result struct {
	Problems []Problem
}

func (r *Result) add(t ProblemType, field, format string, args ...any) {
	r.Problems = append(r.Problems, Problem{Type: t, Field: field, Description: fmt.Sprintf(format, args...)})
}

// HasProblems returns true if anything was found
func (r *Result) HasProblems() bool {
	return len(r.Problems) > 0
}

// FormatReport returns a human-readable list of problems
func (r *Result) FormatReport() string {
	if !r.HasProblems() {
		return "No problems detected."
	}
	var b strings.Builder
	b.WriteString("Problems detected:\n")
	for _, p := range r.Problems {
		fmt.Fprintf(&b, "- %s\n", p.Description)
	}
	return b.String()
}

// Err returns nil for a clean result, otherwise an ErrInvalidRecord listing each problem.
func (r *Result) Err() error {
	if !r.HasProblems() {
		return nil
	}
	msgs := make([]string, len(r.Problems))
	for i, p := range r.Problems {
		msgs[i] = p.Description
	}
	return fmt.Errorf("%w: %s", ErrInvalidRecord, strings.Join(msgs, "; "))
}

// Validator checks records and collections.
type Validator struct{}

func New() *Validator {
	return &Validator{}
}

func (v *Validator) checkDate(r *Result, date string) {
	if date == "" {
		r.add(ProblemMissingField, "date", "date is required")
		return
	}
	if _, err := models.ParseTimestamp(date); err != nil {
		r.add(ProblemInvalidDate, "date", "date %q is not an ISO-8601 timestamp", date)
	}
}

func (v *Validator) JapaSession(s models.JapaSession) Result {
	var r Result
	if s.Malas <= 0 {
		r.add(ProblemNonPositiveCount, "malas", "malas must be positive, got %d", s.Malas)
	}
	v.checkDate(&r, s.Date)
	return r
}

func (v *Validator) RecitationLog(l models.RecitationLog) Result {
	var r Result
	if strings.TrimSpace(l.StotraID) == "" {
		r.add(ProblemMissingField, "stotraId", "stotraId is required")
	}
	if strings.TrimSpace(l.StotraTitle) == "" {
		r.add(ProblemMissingField, "stotraTitle", "stotraTitle is required")
	}
	if l.Count <= 0 {
		r.add(ProblemNonPositiveCount, "count", "count must be positive, got %d", l.Count)
	}
	v.checkDate(&r, l.Date)
	return r
}

func (v *Validator) GratitudeNote(n models.GratitudeNote) Result {
	var r Result
	if strings.TrimSpace(n.Note) == "" {
		r.add(ProblemMissingField, "note", "note must not be empty")
	}
	v.checkDate(&r, n.Date)
	return r
}

func (v *Validator) Goal(g models.Goal) Result {
	var r Result
	if strings.TrimSpace(g.ID) == "" {
		r.add(ProblemMissingField, "id", "goal id is required")
	}
	if strings.TrimSpace(g.Title) == "" {
		r.add(ProblemMissingField, "title", "goal title is required")
	}
	if !g.Type.Valid() {
		r.add(ProblemInvalidGoalType, "type", "goal type %q must be %q or %q", g.Type, models.GoalSpiritual, models.GoalMaterial)
	}
	return r
}

// Collections looks for identity collisions the store tolerates but callers
// should not produce: repeated timestamps, repeated goal ids, and recitation
// entries that should have been merged into one per stotra and day.
func (v *Validator) Collections(history []models.JapaSession, logs []models.RecitationLog,
	notes []models.GratitudeNote, goals []models.Goal) Result {
	var r Result

	seen := map[string]int{}
	for _, s := range history {
		seen[s.Date]++
	}
	for date, n := range seen {
		if n > 1 {
			r.add(ProblemDuplicateIdentity, "japa_history", "%d japa sessions share timestamp %s", n, date)
		}
	}

	type stotraDay struct{ id, day string }
	perDay := map[stotraDay]int{}
	for _, l := range logs {
		perDay[stotraDay{l.StotraID, l.Day()}]++
	}
	for k, n := range perDay {
		if n > 1 {
			r.add(ProblemUnmergedRecitation, "recitation_log", "stotra %s has %d entries on %s", k.id, n, k.day)
		}
	}

	noteDates := map[string]int{}
	for _, n := range notes {
		noteDates[n.Date]++
	}
	for date, n := range noteDates {
		if n > 1 {
			r.add(ProblemDuplicateIdentity, "gratitude_notes", "%d gratitude notes share timestamp %s", n, date)
		}
	}

	ids := map[string]int{}
	for _, g := range goals {
		ids[g.ID]++
	}
	for id, n := range ids {
		if n > 1 {
			r.add(ProblemDuplicateIdentity, "goals_list", "%d goals share id %q", n, id)
		}
	}

	return r
}
