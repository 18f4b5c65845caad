package timecalc

import (
	"sort"
	"time"
)

// FindShiftBounds locates the bounds of the shift enclosing the current
// instant in loc. starts must be non-empty, chronologically ordered, and
// together cover the entire day; the function panics on an empty slice
// (guarded upstream by common configuration validation).
//
// The start is today at the last start time not exceeding the current time
// of day, or yesterday at the final start time when the current time is
// before the first. The end is the next start time, rolling into tomorrow
// after the final shift
func FindShiftBounds(loc *time.Location, starts []TimeOfDay) (time.Time, time.Time) {
	if len(starts) == 0 {
		panic("FindShiftBounds: empty shift start times")
	}

	now := UTCNow().In(loc)
	nowSecs := now.Hour()*3600 + now.Minute()*60 + now.Second()
	today := DateOf(now)

	idx := -1
	for i := len(starts) - 1; i >= 0; i-- {
		if nowSecs >= starts[i].Seconds() {
			idx = i
			break
		}
	}

	if idx < 0 {
		// before the first shift of the day: we are in yesterday's last shift
		start := starts[len(starts)-1].At(today.AddDate(0, 0, -1))
		end := starts[0].At(today)
		return start, end
	}

	start := starts[idx].At(today)
	var end time.Time
	if idx+1 < len(starts) {
		end = starts[idx+1].At(today)
	} else {
		end = starts[0].At(today.AddDate(0, 0, 1))
	}
	return start, end
}

// ApplyTimeSpans projects the daily spans onto every calendar date covered
// by the envelope and clips the result to it. Wrapping spans contribute the
// previous-day candidate on the first date only, plus the into-next-day
// candidate on every date. The returned intervals are sorted by start,
// strictly positive, and truncated to the envelope bounds
func ApplyTimeSpans(envStart, envEnd time.Time, spans []Span) []Interval {
	if !envEnd.After(envStart) {
		return nil
	}

	var materialized []Interval
	lastDate := DateOf(envEnd)
	first := true
	for date := DateOf(envStart); !date.After(lastDate); date = date.AddDate(0, 0, 1) {
		for _, sp := range spans {
			if sp.WrapsMidnight() {
				if first {
					materialized = append(materialized, Interval{
						Start: sp.Start.At(date.AddDate(0, 0, -1)),
						End:   sp.End.At(date),
					})
				}
				materialized = append(materialized, Interval{
					Start: sp.Start.At(date),
					End:   sp.End.At(date.AddDate(0, 0, 1)),
				})
			} else {
				materialized = append(materialized, Interval{
					Start: sp.Start.At(date),
					End:   sp.End.At(date),
				})
			}
		}
		first = false
	}

	sort.Slice(materialized, func(i, j int) bool {
		return materialized[i].Start.Before(materialized[j].Start)
	})

	out := make([]Interval, 0, len(materialized))
	for _, iv := range materialized {
		lo, hi := iv.Start, iv.End
		if lo.Before(envStart) {
			lo = envStart
		}
		if hi.After(envEnd) {
			hi = envEnd
		}
		if hi.After(lo) {
			out = append(out, Interval{Start: lo, End: hi})
		}
	}
	return out
}
