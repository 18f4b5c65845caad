// Package timecalc implements the shift-time arithmetic shared by the
// performance and production objective computations. All interval math is
// done on naive (zone-less) datetimes; only the final conversion to epoch
// seconds involves a timezone.
package timecalc

import (
	"encoding/json"
	"fmt"
	"time"
)

// TimeOfDay is a wall-clock time of day with no date and no zone
type TimeOfDay struct {
	secs int // seconds since midnight, 0..86399
}

// ParseTimeOfDay parses "HH:MM:SS"
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	var h, m, sec int
	if _, err := fmt.Sscanf(s, "%d:%d:%d", &h, &m, &sec); err != nil {
		return TimeOfDay{}, fmt.Errorf("parsing time %q: %w", s, err)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 || sec < 0 || sec > 59 {
		return TimeOfDay{}, fmt.Errorf("parsing time %q: out of range", s)
	}
	return TimeOfDay{secs: h*3600 + m*60 + sec}, nil
}

// MustTimeOfDay parses "HH:MM:SS" and panics on error; fixture helper
func MustTimeOfDay(s string) TimeOfDay {
	t, err := ParseTimeOfDay(s)
	if err != nil {
		panic(err)
	}
	return t
}

// Seconds returns seconds since midnight
func (t TimeOfDay) Seconds() int { return t.secs }

// Compare orders two times of day
func (t TimeOfDay) Compare(o TimeOfDay) int {
	switch {
	case t.secs < o.secs:
		return -1
	case t.secs > o.secs:
		return 1
	default:
		return 0
	}
}

// At anchors the time of day on the calendar date of d, in d's location
func (t TimeOfDay) At(d time.Time) time.Time {
	y, m, day := d.Date()
	return time.Date(y, m, day, 0, 0, t.secs, 0, d.Location())
}

// String renders "HH:MM:SS"
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", t.secs/3600, t.secs/60%60, t.secs%60)
}

// MarshalText implements encoding.TextMarshaler
func (t TimeOfDay) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler
func (t *TimeOfDay) UnmarshalText(b []byte) error {
	v, err := ParseTimeOfDay(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// Span is a daily window between two times of day. When Start > End the
// window wraps past midnight into the next day
type Span struct {
	Start TimeOfDay
	End   TimeOfDay
}

// WrapsMidnight reports whether the span crosses midnight
func (s Span) WrapsMidnight() bool { return s.Start.Compare(s.End) > 0 }

// UnmarshalJSON accepts the upstream pair form ["HH:MM:SS","HH:MM:SS"]
func (s *Span) UnmarshalJSON(b []byte) error {
	var pair [2]TimeOfDay
	if err := json.Unmarshal(b, &pair); err != nil {
		return err
	}
	s.Start, s.End = pair[0], pair[1]
	return nil
}

// MarshalJSON renders the pair form
func (s Span) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]TimeOfDay{s.Start, s.End})
}

// Interval is a materialized naive datetime range with Start < End
type Interval struct {
	Start time.Time
	End   time.Time
}

// Duration returns the interval length
func (iv Interval) Duration() time.Duration { return iv.End.Sub(iv.Start) }

// DateOf truncates a naive datetime to midnight of its calendar date
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// InLocation reinterprets the wall-clock fields of a naive datetime in loc
func InLocation(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), loc)
}
