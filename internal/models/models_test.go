package models

import (
	"encoding/json"
	"testing"
	"time"
)

func TestDayKey(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"2024-03-10T23:59:59.000Z", "2024-03-10"},
		{"2024-03-10T00:30:00+05:30", "2024-03-10"},
		{"2024-03-10", "2024-03-10"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := DayKey(tt.in); got != tt.want {
			t.Errorf("DayKey(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTimestamp(t *testing.T) {
	loc := time.FixedZone("IST", 5*3600+1800)
	ts := time.Date(2024, 3, 11, 1, 0, 0, 123_000_000, loc)

	got := Timestamp(ts)
	if got != "2024-03-10T19:30:00.123Z" {
		t.Errorf("Timestamp() = %q", got)
	}

	parsed, err := ParseTimestamp(got)
	if err != nil {
		t.Fatalf("failed to parse timestamp: %v", err)
	}
	if !parsed.Equal(ts) {
		t.Errorf("round trip mismatch: %v != %v", parsed, ts)
	}
}

func TestRecordFieldNames(t *testing.T) {
	data, err := json.Marshal(RecitationLog{StotraID: "1", StotraTitle: "Hanuman Chalisa", Count: 3, Date: "d"})
	if err != nil {
		t.Fatalf("failed to marshal: %v", err)
	}
	want := `{"stotraId":"1","stotraTitle":"Hanuman Chalisa","count":3,"date":"d"}`
	if string(data) != want {
		t.Errorf("got %s, want %s", data, want)
	}

	data, err = json.Marshal(Goal{ID: "g1", Type: GoalMaterial, Title: "Save", IsCompleted: true})
	if err != nil {
		t.Fatalf("failed to marshal: %v", err)
	}
	want = `{"id":"g1","type":"material","title":"Save","isCompleted":true}`
	if string(data) != want {
		t.Errorf("got %s, want %s", data, want)
	}
}

func TestParseGoalType(t *testing.T) {
	if _, err := ParseGoalType("spiritual"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if _, err := ParseGoalType("Spiritual"); err == nil {
		t.Error("expected error for wrong case")
	}
}
