package domain

import (
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

// TimePoint is an immutable calendar day in UTC. The zero value equals Past.
type TimePoint struct {
	day time.Time
}

var (
	// Past and Future bound open-ended ranges.
	Past   = TimePoint{day: time.Date(1, time.January, 1, 0, 0, 0, 0, time.UTC)}
	Future = TimePoint{day: time.Date(9999, time.December, 31, 0, 0, 0, 0, time.UTC)}
)

// Now is replaceable in tests.
var Now = time.Now

// NewTimePoint returns the given calendar day.
func NewTimePoint(year int, month time.Month, day int) TimePoint {
	return TimePoint{day: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// TimePointOf truncates t to its calendar day in t's own location.
func TimePointOf(t time.Time) TimePoint {
	return NewTimePoint(t.Year(), t.Month(), t.Day())
}

// Today returns the current calendar day according to Now.
func Today() TimePoint {
	return TimePointOf(Now())
}

// ParseTimePoint parses a YYYY-MM-DD date.
func ParseTimePoint(s string) (TimePoint, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return TimePoint{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return TimePoint{day: t.UTC()}, nil
}

// Time returns midnight UTC of the day.
func (tp TimePoint) Time() time.Time { return tp.day }

// Before reports whether tp is an earlier day than other.
func (tp TimePoint) Before(other TimePoint) bool { return tp.day.Before(other.day) }

// After reports whether tp is a later day than other.
func (tp TimePoint) After(other TimePoint) bool { return tp.day.After(other.day) }

// Equal reports whether both are the same day.
func (tp TimePoint) Equal(other TimePoint) bool { return tp.day.Equal(other.day) }

// Compare returns -1, 0 or +1.
func (tp TimePoint) Compare(other TimePoint) int {
	return tp.day.Compare(other.day)
}

// AddDays returns the day n days later.
func (tp TimePoint) AddDays(n int) TimePoint {
	return TimePoint{day: tp.day.AddDate(0, 0, n)}
}

// MinusDays returns the day n days earlier.
func (tp TimePoint) MinusDays(n int) TimePoint {
	return tp.AddDays(-n)
}

// String formats the day as YYYY-MM-DD.
func (tp TimePoint) String() string {
	return tp.day.Format(dateLayout)
}

// MarshalText implements encoding.TextMarshaler.
func (tp TimePoint) MarshalText() ([]byte, error) {
	return []byte(tp.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (tp *TimePoint) UnmarshalText(text []byte) error {
	parsed, err := ParseTimePoint(string(text))
	if err != nil {
		return err
	}
	*tp = parsed
	return nil
}
