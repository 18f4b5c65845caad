// Package configapi provides the Configuration API client and its workers
package configapi

import (
	"encoding/json"
	"fmt"
	"time"

	"lineview/internal/core/timecalc"
	"lineview/internal/platform/validate"
)

// Weekday wraps time.Weekday to parse the upstream's full English day names
type Weekday time.Weekday

var weekdayNames = map[string]time.Weekday{
	"Sunday":    time.Sunday,
	"Monday":    time.Monday,
	"Tuesday":   time.Tuesday,
	"Wednesday": time.Wednesday,
	"Thursday":  time.Thursday,
	"Friday":    time.Friday,
	"Saturday":  time.Saturday,
}

// UnmarshalJSON parses "Monday".."Sunday"
func (w *Weekday) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	d, ok := weekdayNames[s]
	if !ok {
		return fmt.Errorf("parsing weekday %q", s)
	}
	*w = Weekday(d)
	return nil
}

// String renders the day name
func (w Weekday) String() string { return time.Weekday(w).String() }

// MondayIndex returns 0 for Monday .. 6 for Sunday
func (w Weekday) MondayIndex() int { return (int(w) + 6) % 7 }

// WeekStart identifies the first shift of the production week
type WeekStart struct {
	Day        Weekday `json:"day"`
	ShiftIndex int     `json:"shiftIndex" validate:"min=0"`
}

// CommonConfig is the line-wide configuration shared by all partners.
// Invariants are enforced on fetch; a violation fails the roundtrip
type CommonConfig struct {
	ShiftStartTimes []timecalc.TimeOfDay `json:"shiftStartTimes" validate:"required,min=1"`
	Pauses          []timecalc.Span      `json:"pauses"`
	WeekStart       WeekStart            `json:"weekStart"`
}

// PartnerConfig is the per-partner configuration, fetched on every request
type PartnerConfig struct {
	TargetCycleTime  float32 `json:"targetCycleTime" validate:"gt=0"`
	TargetEfficiency float32 `json:"targetEfficiency"`
	ShiftEngaged     []bool  `json:"shiftEngaged"`
}

// commonConfigRules enforces the cross-field invariants the tag syntax
// cannot express: sorted shift start times and an in-bounds week start index
func commonConfigRules(sl validate.StructLevel) {
	cfg := sl.Current().Interface().(CommonConfig)
	for i := 1; i < len(cfg.ShiftStartTimes); i++ {
		if cfg.ShiftStartTimes[i-1].Compare(cfg.ShiftStartTimes[i]) > 0 {
			sl.ReportError(cfg.ShiftStartTimes, "shiftStartTimes", "ShiftStartTimes", "sorted", "")
			break
		}
	}
	if cfg.WeekStart.ShiftIndex >= len(cfg.ShiftStartTimes) {
		sl.ReportError(cfg.WeekStart.ShiftIndex, "weekStart.shiftIndex", "ShiftIndex", "shift_index_in_bounds", "")
	}
}
