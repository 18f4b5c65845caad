package objective_test

import (
	"context"
	"testing"
	"time"

	"lineview/internal/adapters/configapi"
	coreobj "lineview/internal/core/objective"
	"lineview/internal/core/timecalc"
	objsvc "lineview/internal/services/objective"
	"lineview/internal/platform/testkit"
)

func startTimesFixture() []timecalc.TimeOfDay {
	return []timecalc.TimeOfDay{
		timecalc.MustTimeOfDay("05:30:00"),
		timecalc.MustTimeOfDay("13:30:00"),
		timecalc.MustTimeOfDay("21:30:00"),
	}
}

func pausesFixture() []timecalc.Span {
	return []timecalc.Span{
		{Start: timecalc.MustTimeOfDay("08:00:00"), End: timecalc.MustTimeOfDay("08:20:00")},
		{Start: timecalc.MustTimeOfDay("11:00:00"), End: timecalc.MustTimeOfDay("11:30:00")},
		{Start: timecalc.MustTimeOfDay("16:00:00"), End: timecalc.MustTimeOfDay("16:20:00")},
		{Start: timecalc.MustTimeOfDay("19:00:00"), End: timecalc.MustTimeOfDay("19:30:00")},
		{Start: timecalc.MustTimeOfDay("00:00:00"), End: timecalc.MustTimeOfDay("00:20:00")},
		{Start: timecalc.MustTimeOfDay("03:00:00"), End: timecalc.MustTimeOfDay("03:30:00")},
	}
}

func overrideClock(t *testing.T, s string) {
	t.Helper()
	testkit.Serial(t)
	now, err := time.Parse(time.RFC3339, s)
	if err != nil {
		t.Fatalf("parse clock %q: %v", s, err)
	}
	timecalc.OverrideNow(now)
}

func assertCurve(t *testing.T, got coreobj.Data, want []coreobj.Point) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("points: got %d, want %d\n%v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("point %d: got %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestShiftObjectiveWorker(t *testing.T) {
	t.Run("now in first shift", func(t *testing.T) {
		overrideClock(t, "1984-12-09T07:00:00Z")
		req := objsvc.ShiftObjectiveRequest{
			ShiftStartTimes:  startTimesFixture(),
			Pauses:           pausesFixture(),
			Timezone:         time.UTC,
			TargetCycleTime:  70.0,
			TargetEfficiency: 0.8,
		}
		tx, done := objsvc.Engine{}.HandleShiftObjective()
		defer func() { tx.Close(); <-done }()

		points, err := tx.Roundtrip(context.Background(), req)
		if err != nil {
			t.Fatalf("roundtrip: %v", err)
		}
		assertCurve(t, points, []coreobj.Point{
			{Timestamp: 471418200, Value: 0},
			{Timestamp: 471427200, Value: 102},
			{Timestamp: 471428400, Value: 102},
			{Timestamp: 471438000, Value: 211},
			{Timestamp: 471439800, Value: 211},
			{Timestamp: 471447000, Value: 293},
		})
	})

	t.Run("no pause", func(t *testing.T) {
		overrideClock(t, "1984-12-09T13:29:59Z")
		req := objsvc.ShiftObjectiveRequest{
			ShiftStartTimes:  startTimesFixture(),
			Pauses:           nil,
			Timezone:         time.UTC,
			TargetCycleTime:  1.0,
			TargetEfficiency: 1.0,
		}
		tx, done := objsvc.Engine{}.HandleShiftObjective()
		defer func() { tx.Close(); <-done }()

		points, err := tx.Roundtrip(context.Background(), req)
		if err != nil {
			t.Fatalf("roundtrip: %v", err)
		}
		assertCurve(t, points, []coreobj.Point{
			{Timestamp: 471418200, Value: 0},
			{Timestamp: 471447000, Value: 28800},
		})
	})
}

func TestWeekObjectiveWorker(t *testing.T) {
	weekStart := configapi.WeekStart{
		Day:        configapi.Weekday(time.Tuesday),
		ShiftIndex: 1,
	}

	t.Run("first engagement configuration", func(t *testing.T) {
		overrideClock(t, "2023-09-19T14:00:00Z")
		req := objsvc.WeekObjectiveRequest{
			ShiftStartTimes:  startTimesFixture(),
			ShiftEngaged:     []bool{true, false, true},
			Pauses:           pausesFixture(),
			WeekStart:        weekStart,
			Timezone:         time.UTC,
			TargetCycleTime:  60.0,
			TargetEfficiency: 1.0,
		}
		tx, done := objsvc.Engine{}.HandleWeekObjective()
		defer func() { tx.Close(); <-done }()

		points, err := tx.Roundtrip(context.Background(), req)
		if err != nil {
			t.Fatalf("roundtrip: %v", err)
		}
		assertCurve(t, points, []coreobj.Point{
			{Timestamp: 1695130200, Value: 0},
			{Timestamp: 1695139200, Value: 150},
			{Timestamp: 1695140400, Value: 150},
			{Timestamp: 1695150000, Value: 310},
			{Timestamp: 1695151800, Value: 310},
			{Timestamp: 1695159000, Value: 430},
			{Timestamp: 1695187800, Value: 430},
			{Timestamp: 1695196800, Value: 580},
			{Timestamp: 1695198000, Value: 580},
			{Timestamp: 1695207600, Value: 740},
			{Timestamp: 1695209400, Value: 740},
			{Timestamp: 1695216600, Value: 860},
		})
	})

	t.Run("second engagement configuration", func(t *testing.T) {
		overrideClock(t, "2023-09-19T14:00:00Z")
		req := objsvc.WeekObjectiveRequest{
			ShiftStartTimes:  startTimesFixture(),
			ShiftEngaged:     []bool{false, true, false},
			Pauses:           pausesFixture(),
			WeekStart:        weekStart,
			Timezone:         time.UTC,
			TargetCycleTime:  60.0,
			TargetEfficiency: 1.0,
		}
		tx, done := objsvc.Engine{}.HandleWeekObjective()
		defer func() { tx.Close(); <-done }()

		points, err := tx.Roundtrip(context.Background(), req)
		if err != nil {
			t.Fatalf("roundtrip: %v", err)
		}
		assertCurve(t, points, []coreobj.Point{
			{Timestamp: 1695130200, Value: 0},
			{Timestamp: 1695159000, Value: 0},
			{Timestamp: 1695168000, Value: 150},
			{Timestamp: 1695169200, Value: 150},
			{Timestamp: 1695178800, Value: 310},
			{Timestamp: 1695180600, Value: 310},
			{Timestamp: 1695187800, Value: 430},
			{Timestamp: 1695216600, Value: 430},
		})
	})

	t.Run("today before the configured week start day wraps into the current week", func(t *testing.T) {
		// Monday 2023-09-18 with weekStart=Tuesday: modular distance is 6,
		// not an underflow
		overrideClock(t, "2023-09-18T14:00:00Z")
		req := objsvc.WeekObjectiveRequest{
			ShiftStartTimes:  startTimesFixture(),
			ShiftEngaged:     []bool{true},
			Pauses:           nil,
			WeekStart:        weekStart,
			Timezone:         time.UTC,
			TargetCycleTime:  60.0,
			TargetEfficiency: 1.0,
		}
		tx, done := objsvc.Engine{}.HandleWeekObjective()
		defer func() { tx.Close(); <-done }()

		points, err := tx.Roundtrip(context.Background(), req)
		if err != nil {
			t.Fatalf("roundtrip: %v", err)
		}
		// week start day is the previous Tuesday, 2023-09-12; curve starts
		// at its second shift
		wantOrigin := time.Date(2023, 9, 12, 13, 30, 0, 0, time.UTC).Unix()
		if points[0].Timestamp != wantOrigin {
			t.Fatalf("origin: got %d, want %d", points[0].Timestamp, wantOrigin)
		}
	})
}
