// Package objective builds the monotone production objective step curves.
// A curve describes how many parts should have been produced by each
// instant of a shift or a week, with pause windows punched out and
// non-engaged shifts contributing flat segments.
package objective

import (
	"math"
	"time"

	"lineview/internal/core/timecalc"
)

// Point is one curve sample on the wire
type Point struct {
	Timestamp int64  `json:"t"`
	Value     uint16 `json:"v"`
}

// Data is a full curve: strictly increasing timestamps, non-decreasing values
type Data []Point

type naivePoint struct {
	at    time.Time
	value uint16
}

// NaivePoints accumulates curve samples on naive datetimes before the final
// timezone conversion
type NaivePoints struct {
	points []naivePoint
	rate   float32 // parts per second
}

// NewNaivePoints seeds the curve at (start, 0) with the production rate
// derived from the target cycle time and efficiency
func NewNaivePoints(start time.Time, cycleTime, efficiency float32) *NaivePoints {
	return &NaivePoints{
		points: []naivePoint{{at: start, value: 0}},
		rate:   1.0 / cycleTime * efficiency,
	}
}

// PushShift extends the curve to shiftEnd. A non-engaged shift adds one flat
// sample. An engaged shift interleaves the projected pauses as alternating
// producing/paused segments and accrues floor(seconds * rate) parts on each
// producing one
func (n *NaivePoints) PushShift(shiftEnd time.Time, engaged bool, pauses []timecalc.Span) {
	last := n.points[len(n.points)-1]
	cur, quantity := last.at, last.value

	type interest struct {
		at        time.Time
		producing bool
	}
	var points []interest
	if engaged {
		for _, iv := range timecalc.ApplyTimeSpans(cur, shiftEnd, pauses) {
			points = append(points, interest{at: iv.Start, producing: true}, interest{at: iv.End, producing: false})
		}
	}
	points = append(points, interest{at: shiftEnd, producing: engaged})

	for _, p := range points {
		elapsed := float32(p.at.Sub(cur).Seconds())
		cur = p.at
		if p.producing {
			quantity += uint16(math.Floor(float64(elapsed * n.rate)))
		}
		n.points = append(n.points, naivePoint{at: p.at, value: quantity})
	}
}

// IntoData converts the accumulated naive samples to epoch seconds in loc
func (n *NaivePoints) IntoData(loc *time.Location) Data {
	out := make(Data, 0, len(n.points))
	for _, p := range n.points {
		out = append(out, Point{
			Timestamp: timecalc.InLocation(p.at, loc).Unix(),
			Value:     p.value,
		})
	}
	return out
}
