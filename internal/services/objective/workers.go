// Package objective hosts the production objective workers, thin actors
// over the pure curve builder in core/objective
package objective

import (
	"context"
	"time"

	coreobj "lineview/internal/core/objective"
	"lineview/internal/core/timecalc"

	"lineview/internal/adapters/configapi"
	"lineview/internal/platform/logger"
	"lineview/internal/platform/roundtrip"
)

// ShiftObjectiveRequest carries everything needed to draw the current
// shift's objective curve
type ShiftObjectiveRequest struct {
	ShiftStartTimes  []timecalc.TimeOfDay
	Pauses           []timecalc.Span
	Timezone         *time.Location
	TargetCycleTime  float32
	TargetEfficiency float32
}

// ShiftObjectiveChannel is the producer handle for the shift worker
type ShiftObjectiveChannel = roundtrip.Sender[ShiftObjectiveRequest, coreobj.Data]

// WeekObjectiveRequest additionally carries the per-shift engagement
// vector and the configured week start
type WeekObjectiveRequest struct {
	ShiftStartTimes  []timecalc.TimeOfDay
	ShiftEngaged     []bool
	Pauses           []timecalc.Span
	WeekStart        configapi.WeekStart
	Timezone         *time.Location
	TargetCycleTime  float32
	TargetEfficiency float32
}

// WeekObjectiveChannel is the producer handle for the week worker
type WeekObjectiveChannel = roundtrip.Sender[WeekObjectiveRequest, coreobj.Data]

// Engine spawns the objective workers
type Engine struct{}

// HandleShiftObjective spawns the shift objective worker
func (Engine) HandleShiftObjective() (ShiftObjectiveChannel, <-chan struct{}) {
	tx, rx := roundtrip.New[ShiftObjectiveRequest, coreobj.Data]("shift_objective", roundtrip.DefaultCapacity)
	done := make(chan struct{})

	go func() {
		defer close(done)
		defer rx.Close()
		log := logger.Named("shift_objective_worker")
		log.Info().Msg("worker started")

		for {
			env, ok := rx.Recv(context.Background())
			if !ok {
				break
			}
			env.Reply.Send(buildShiftCurve(env.Req))
		}

		log.Info().Msg("worker terminating")
	}()

	return tx, done
}

func buildShiftCurve(req ShiftObjectiveRequest) coreobj.Data {
	start, end := timecalc.FindShiftBounds(req.Timezone, req.ShiftStartTimes)
	startNaive := timecalc.InLocation(start, time.UTC)
	endNaive := timecalc.InLocation(end, time.UTC)

	np := coreobj.NewNaivePoints(startNaive, req.TargetCycleTime, req.TargetEfficiency)
	np.PushShift(endNaive, true, req.Pauses)
	return np.IntoData(req.Timezone)
}

// HandleWeekObjective spawns the week objective worker
func (Engine) HandleWeekObjective() (WeekObjectiveChannel, <-chan struct{}) {
	tx, rx := roundtrip.New[WeekObjectiveRequest, coreobj.Data]("week_objective", roundtrip.DefaultCapacity)
	done := make(chan struct{})

	go func() {
		defer close(done)
		defer rx.Close()
		log := logger.Named("week_objective_worker")
		log.Info().Msg("worker started")

		for {
			env, ok := rx.Recv(context.Background())
			if !ok {
				break
			}
			env.Reply.Send(buildWeekCurve(env.Req))
		}

		log.Info().Msg("worker terminating")
	}()

	return tx, done
}

func buildWeekCurve(req WeekObjectiveRequest) coreobj.Data {
	nowLocal := timecalc.UTCNow().In(req.Timezone)
	today := timecalc.DateOf(timecalc.InLocation(nowLocal, time.UTC))

	// Modular distance back to the week start day, so a today that sits
	// before the configured day still lands in the current week
	back := (mondayIndex(nowLocal.Weekday()) - req.WeekStart.Day.MondayIndex() + 7) % 7
	weekStartDay := today.AddDate(0, 0, -back)

	type boundary struct {
		at      time.Time
		engaged bool
	}
	shifts := req.ShiftStartTimes
	boundaries := make([]boundary, 0, len(req.ShiftEngaged)+1)
	// cycle the shift starts from the configured index; position k of the
	// cycle lands k/len days after the week start day. The first boundary
	// is the curve origin, its engagement flag is never read
	for k := 0; k < len(req.ShiftEngaged)+1; k++ {
		i := req.WeekStart.ShiftIndex + k
		engaged := true
		if k > 0 {
			engaged = req.ShiftEngaged[k-1]
		}
		at := shifts[i%len(shifts)].At(weekStartDay.AddDate(0, 0, i/len(shifts)))
		boundaries = append(boundaries, boundary{at: at, engaged: engaged})
	}

	np := coreobj.NewNaivePoints(boundaries[0].at, req.TargetCycleTime, req.TargetEfficiency)
	for _, b := range boundaries[1:] {
		np.PushShift(b.at, b.engaged, req.Pauses)
	}
	return np.IntoData(req.Timezone)
}

func mondayIndex(d time.Weekday) int { return (int(d) + 6) % 7 }
