package models

import "fmt"

// GoalType tags a goal as spiritual or material.
type GoalType string

const (
	GoalSpiritual GoalType = "spiritual"
	GoalMaterial  GoalType = "material"
)

// Valid reports whether t is one of the known goal types.
func (t GoalType) Valid() bool {
	return t == GoalSpiritual || t == GoalMaterial
}

// ParseGoalType converts user input into a GoalType.
func ParseGoalType(s string) (GoalType, error) {
	t := GoalType(s)
	if !t.Valid() {
		return "", fmt.Errorf("invalid goal type %q (want %q or %q)", s, GoalSpiritual, GoalMaterial)
	}
	return t, nil
}

// Goal is a saṅkalpa: a stated intention that can be marked complete.
type Goal struct {
	ID          string   `json:"id"`
	Type        GoalType `json:"type"`
	Title       string   `json:"title"`
	IsCompleted bool     `json:"isCompleted"`
}
