// Package api provides the HTTP API for the application
package api

import (
	"lineview/internal/adapters/configapi"
	"lineview/internal/adapters/influxdb"
	phttp "lineview/internal/platform/net/http"
	objsvc "lineview/internal/services/objective"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Options are the API options: one producer handle per worker
type Options struct {
	Health         influxdb.HealthChannel
	Timeline       influxdb.TimelineChannel
	Performance    influxdb.PerformanceChannel
	CommonConfig   configapi.CommonConfigChannel
	PartnerConfig  configapi.PartnerConfigChannel
	ShiftObjective objsvc.ShiftObjectiveChannel
	WeekObjective  objsvc.WeekObjectiveChannel
	EnableMetrics  bool
}

// Mount mounts the API endpoints onto the given router
func Mount(r phttp.Router, opt Options) {
	h := &handlers{opt: opt}

	r.Get("/health", h.health)
	r.Get("/timeline/{id}", h.timeline)
	r.Get("/performance/{id}", h.performance)
	r.Get("/shift-objective/{id}", h.shiftObjective)
	r.Get("/week-objective/{id}", h.weekObjective)

	if opt.EnableMetrics {
		r.Handle("/metrics", promhttp.Handler())
	}
}
