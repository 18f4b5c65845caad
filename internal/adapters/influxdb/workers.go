package influxdb

import (
	"context"
	_ "embed"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"lineview/internal/core/timecalc"
	"lineview/internal/platform/logger"
	"lineview/internal/platform/roundtrip"
)

//go:embed timeline.flux
var timelineFlux string

//go:embed performance.flux
var performanceFlux string

// HealthChannel is the producer handle for the health worker; the reply is
// the upstream HTTP status code, 5xx included
type HealthChannel = roundtrip.Sender[struct{}, int]

// TimelineRequest asks for one machine's status timeline
type TimelineRequest struct {
	ID              string
	TargetCycleTime float32
}

// TimelineChannel is the producer handle for the timeline worker
type TimelineChannel = roundtrip.Sender[TimelineRequest, []TimelineSlot]

// PerformanceRequest asks for one machine's current-shift performance ratio
type PerformanceRequest struct {
	ID              string
	ShiftStartTimes []timecalc.TimeOfDay
	Pauses          []timecalc.Span
	Timezone        *time.Location
	TargetCycleTime float32
}

// PerformanceChannel is the producer handle for the performance worker
type PerformanceChannel = roundtrip.Sender[PerformanceRequest, float32]

// performanceRow is one CSV row of the performance query result
type performanceRow struct {
	// Elapsed is the number of elapsed minutes
	Elapsed int64 `csv:"elapsed"`
	// End is the end timestamp
	End time.Time `csv:"end"`
	// GoodParts is the good parts counter
	GoodParts uint16 `csv:"goodParts"`
	// PartRef is the part reference; decoded but reserved
	PartRef string `csv:"partRef"`
}

// HandleHealth spawns the health probe worker
func (c *Client) HandleHealth() (HealthChannel, <-chan struct{}) {
	tx, rx := roundtrip.New[struct{}, int]("influxdb_health", roundtrip.DefaultCapacity)
	done := make(chan struct{})
	healthURL := c.baseURL.ResolveReference(&url.URL{Path: "/health"}).String()

	go func() {
		defer close(done)
		defer rx.Close()
		log := logger.Named("influxdb_health_worker")
		log.Info().Msg("worker started")

		for {
			env, ok := rx.Recv(context.Background())
			if !ok {
				break
			}
			c.serveHealth(env, healthURL, log)
		}

		log.Info().Msg("worker terminating")
	}()

	return tx, done
}

func (c *Client) serveHealth(env roundtrip.Envelope[struct{}, int], healthURL string, log *logger.Logger) {
	defer env.Reply.Drop()
	req, err := http.NewRequestWithContext(env.Ctx, http.MethodGet, healthURL, nil)
	if err != nil {
		log.Error().Err(err).Msg("building health request")
		return
	}
	resp, err := c.http.Do(req)
	if err != nil {
		log.Error().Err(err).Str("roundtrip_id", env.ID).Msg("request sending")
		return
	}
	_ = resp.Body.Close()
	env.Reply.Send(resp.StatusCode)
}

// HandleTimeline spawns the timeline worker
func (c *Client) HandleTimeline() (TimelineChannel, <-chan struct{}) {
	tx, rx := roundtrip.New[TimelineRequest, []TimelineSlot]("timeline", roundtrip.DefaultCapacity)
	done := make(chan struct{})

	go func() {
		defer close(done)
		defer rx.Close()
		log := logger.Named("timeline_worker")
		log.Info().Msg("worker started")

		for {
			env, ok := rx.Recv(context.Background())
			if !ok {
				break
			}
			c.serveTimeline(env, log)
		}

		log.Info().Msg("worker terminating")
	}()

	return tx, done
}

func (c *Client) serveTimeline(env roundtrip.Envelope[TimelineRequest, []TimelineSlot], log *logger.Logger) {
	defer env.Reply.Drop()
	flux := strings.NewReplacer(
		"__idplaceholder__", env.Req.ID,
		"__targetcycletimeplaceholder__", formatCycleTime(env.Req.TargetCycleTime),
	).Replace(timelineFlux)

	rows, err := queryRows[timelineRow](env.Ctx, c, flux)
	if err != nil {
		log.Error().Err(err).Str("roundtrip_id", env.ID).Msg("timeline query failed")
		return
	}
	if env.Ctx.Err() != nil {
		log.Info().Str("roundtrip_id", env.ID).Msg("request was cancelled")
		return
	}
	env.Reply.Send(collapseTimeline(rows))
}

// HandlePerformance spawns the performance worker
func (c *Client) HandlePerformance() (PerformanceChannel, <-chan struct{}) {
	tx, rx := roundtrip.New[PerformanceRequest, float32]("performance", roundtrip.DefaultCapacity)
	done := make(chan struct{})

	go func() {
		defer close(done)
		defer rx.Close()
		log := logger.Named("performance_worker")
		log.Info().Msg("worker started")

		for {
			env, ok := rx.Recv(context.Background())
			if !ok {
				break
			}
			c.servePerformance(env, log)
		}

		log.Info().Msg("worker terminating")
	}()

	return tx, done
}

func (c *Client) servePerformance(env roundtrip.Envelope[PerformanceRequest, float32], log *logger.Logger) {
	defer env.Reply.Drop()
	req := env.Req

	shiftStart, _ := timecalc.FindShiftBounds(req.Timezone, req.ShiftStartTimes)
	flux := strings.NewReplacer(
		"__idplaceholder__", req.ID,
		"__startplaceholder__", shiftStart.Format(time.RFC3339),
	).Replace(performanceFlux)

	rows, err := queryRows[performanceRow](env.Ctx, c, flux)
	if err != nil {
		log.Error().Err(err).Str("roundtrip_id", env.ID).Msg("performance query failed")
		return
	}
	if env.Ctx.Err() != nil {
		log.Info().Str("roundtrip_id", env.ID).Msg("request was cancelled")
		return
	}
	env.Reply.Send(computePerformance(rows, req))
}

// computePerformance aggregates the ratio of done to expected parts over
// the queried rows. Rows without positive elapsed time are ignored; pause
// windows are subtracted from each row's envelope before the expected
// part count is derived from the target cycle time. An empty input yields
// NaN (0 / 0), which is a legitimate "no data" reply
func computePerformance(rows []performanceRow, req PerformanceRequest) float32 {
	var expected float32
	var done int
	for _, row := range rows {
		if row.Elapsed <= 0 {
			continue
		}
		endLocal := timecalc.InLocation(row.End.In(req.Timezone), time.UTC)
		duration := time.Duration(row.Elapsed) * time.Minute
		startLocal := endLocal.Add(-duration)

		var pause time.Duration
		for _, iv := range timecalc.ApplyTimeSpans(startLocal, endLocal, req.Pauses) {
			pause += iv.Duration()
		}

		effectiveSeconds := float32((duration - pause).Seconds())
		expected += effectiveSeconds / req.TargetCycleTime
		done += int(row.GoodParts)
	}
	return float32(done) / expected * 100.0
}

// formatCycleTime renders the shortest decimal form for query substitution
func formatCycleTime(v float32) string {
	return strconv.FormatFloat(float64(v), 'f', -1, 32)
}
