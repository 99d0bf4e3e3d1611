package utils

import (
	"fmt"
	"time"

	"github.com/julianstephens/sadhana/internal/constants"
)

// LoadLocation resolves a configured timezone. Empty and "UTC" give UTC,
// "Local" gives the system zone, anything else is an IANA name.
func LoadLocation(timezone string) (*time.Location, error) {
	switch timezone {
	case "", "UTC":
		return time.UTC, nil
	case "Local":
		return time.Local, nil
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", timezone, err)
	}
	return loc, nil
}

// NowInTimezone returns the current time in the specified timezone.
func NowInTimezone(timezone string) (time.Time, error) {
	loc, err := LoadLocation(timezone)
	if err != nil {
		return time.Time{}, err
	}
	return time.Now().In(loc), nil
}

// ValidateTimezone checks if the timezone name is valid.
func ValidateTimezone(timezone string) bool {
	_, err := LoadLocation(timezone)
	return err == nil
}

// ParseWhen reads a user-supplied moment. It accepts a full ISO-8601
// timestamp, "YYYY-MM-DD HH:MM" or a bare "YYYY-MM-DD" (taken as noon);
// the latter two are interpreted in loc.
func ParseWhen(input string, loc *time.Location) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, input); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation(constants.DateFormat+" 15:04", input, loc); err == nil {
		return t, nil
	}
	if d, err := time.ParseInLocation(constants.DateFormat, input, loc); err == nil {
		return time.Date(d.Year(), d.Month(), d.Day(), 12, 0, 0, 0, loc), nil
	}
	return time.Time{}, fmt.Errorf("cannot parse %q: use YYYY-MM-DD, \"YYYY-MM-DD HH:MM\" or an ISO-8601 timestamp", input)
}
