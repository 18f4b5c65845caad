package influxdb

import "time"

// timelineRow is one CSV row of the timeline query result
type timelineRow struct {
	Time  time.Time `csv:"_time"`
	Color *uint8    `csv:"color"`
}

// TimelineSlot says a run with Color starts at Start and lasts until the
// next slot
type TimelineSlot struct {
	Start time.Time
	Color *uint8
}

func colorEqual(a, b *uint8) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// collapseTimeline compresses runs of identical status into their first
// sample while always retaining the terminal sample as the closing slot
// boundary, even when its color matches the last run
func collapseTimeline(rows []timelineRow) []TimelineSlot {
	slots := make([]TimelineSlot, 0, len(rows))
	if len(rows) == 0 {
		return slots
	}

	last := rows[len(rows)-1]
	rest := rows[:len(rows)-1]
	for i, row := range rest {
		if i > 0 && colorEqual(row.Color, rest[i-1].Color) {
			continue
		}
		slots = append(slots, TimelineSlot{Start: row.Time, Color: row.Color})
	}
	slots = append(slots, TimelineSlot{Start: last.Time, Color: last.Color})
	return slots
}
