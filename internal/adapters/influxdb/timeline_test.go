package influxdb

import (
	"testing"
	"time"
)

func u8(v uint8) *uint8 { return &v }

func ts(t *testing.T, s string) time.Time {
	t.Helper()
	v, err := time.Parse(time.RFC3339, s)
	if err != nil {
		t.Fatalf("parse %q: %v", s, err)
	}
	return v
}

func TestCollapseTimelineEmpty(t *testing.T) {
	got := collapseTimeline(nil)
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice, got %v", got)
	}
}

func TestCollapseTimelineSingleRow(t *testing.T) {
	rows := []timelineRow{{Time: ts(t, "1984-12-09T04:30:00Z"), Color: u8(1)}}
	got := collapseTimeline(rows)
	if len(got) != 1 {
		t.Fatalf("slots: %v", got)
	}
	if !got[0].Start.Equal(rows[0].Time) || *got[0].Color != 1 {
		t.Fatalf("slot: %+v", got[0])
	}
}

func TestCollapseTimelineKeepsTerminalSample(t *testing.T) {
	rows := []timelineRow{
		{Time: ts(t, "1984-12-09T04:00:00Z"), Color: u8(1)},
		{Time: ts(t, "1984-12-09T04:05:00Z"), Color: u8(1)},
		{Time: ts(t, "1984-12-09T04:10:00Z"), Color: u8(1)},
		{Time: ts(t, "1984-12-09T04:15:00Z"), Color: u8(0)},
	}
	got := collapseTimeline(rows)
	if len(got) != 2 {
		t.Fatalf("slots: %v", got)
	}
	if !got[0].Start.Equal(rows[0].Time) || *got[0].Color != 1 {
		t.Fatalf("first slot: %+v", got[0])
	}
	if !got[1].Start.Equal(rows[3].Time) || *got[1].Color != 0 {
		t.Fatalf("terminal slot: %+v", got[1])
	}
}

func TestCollapseTimelineDuplicateTailPreserved(t *testing.T) {
	// the last sample survives even when its color matches the run before it
	rows := []timelineRow{
		{Time: ts(t, "1984-12-09T05:30:00Z"), Color: u8(0)},
		{Time: ts(t, "1984-12-09T05:35:00Z"), Color: u8(0)},
		{Time: ts(t, "1984-12-09T05:40:00Z"), Color: u8(0)},
		{Time: ts(t, "1984-12-09T05:45:00Z"), Color: u8(0)},
	}
	got := collapseTimeline(rows)
	if len(got) != 2 {
		t.Fatalf("slots: %v", got)
	}
	if !got[1].Start.Equal(ts(t, "1984-12-09T05:45:00Z")) {
		t.Fatalf("terminal slot: %+v", got[1])
	}
}

func TestCollapseTimelineNilColors(t *testing.T) {
	rows := []timelineRow{
		{Time: ts(t, "1984-12-09T04:30:00Z"), Color: u8(1)},
		{Time: ts(t, "1984-12-09T04:35:00Z"), Color: u8(1)},
		{Time: ts(t, "1984-12-09T05:00:00Z"), Color: nil},
		{Time: ts(t, "1984-12-09T05:15:00Z"), Color: nil},
		{Time: ts(t, "1984-12-09T05:30:00Z"), Color: u8(0)},
		{Time: ts(t, "1984-12-09T05:45:00Z"), Color: u8(0)},
	}
	got := collapseTimeline(rows)
	want := []TimelineSlot{
		{Start: ts(t, "1984-12-09T04:30:00Z"), Color: u8(1)},
		{Start: ts(t, "1984-12-09T05:00:00Z"), Color: nil},
		{Start: ts(t, "1984-12-09T05:30:00Z"), Color: u8(0)},
		{Start: ts(t, "1984-12-09T05:45:00Z"), Color: u8(0)},
	}
	if len(got) != len(want) {
		t.Fatalf("slots: got %d, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if !got[i].Start.Equal(want[i].Start) || !colorEqual(got[i].Color, want[i].Color) {
			t.Fatalf("slot %d: got %+v, want %+v", i, got[i], want[i])
		}
	}
}
