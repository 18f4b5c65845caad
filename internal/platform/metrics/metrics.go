// Package metrics declares the service's prometheus collectors
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// RoundtripTotal counts worker roundtrips by worker name and outcome (ok, closed, cancelled)
var RoundtripTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "lineview_roundtrip_total",
	Help: "counter of worker roundtrips served by the request dispatch channels",
}, []string{"worker", "outcome"})

// UpstreamRequestSeconds observes upstream HTTP request latency by upstream name
var UpstreamRequestSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name: "lineview_upstream_request_seconds",
	Help: "histogram of upstream HTTP request durations",
}, []string{"upstream"})

// CommonConfigCacheHits counts common configuration cache lookups by result (hit, miss, expired)
var CommonConfigCacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "lineview_common_config_cache_total",
	Help: "counter of common configuration cache lookups",
}, []string{"result"})
