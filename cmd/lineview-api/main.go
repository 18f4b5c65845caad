// lineview-api serves derived views over a production line's telemetry:
// live health, status timeline, shift performance, and production
// objective curves
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lineview/internal/adapters/configapi"
	"lineview/internal/adapters/influxdb"
	"lineview/internal/platform/config"
	"lineview/internal/platform/logger"
	phttp "lineview/internal/platform/net/http"
	"lineview/internal/platform/net/middleware"
	"lineview/internal/services/api"
	objsvc "lineview/internal/services/objective"

	"github.com/go-chi/chi/v5"
)

func main() {
	root := config.New()

	// bring up logging early (reads LOG_*)
	l := logger.Get()

	// one http client shared by both upstreams
	httpClient := &http.Client{Timeout: 10 * time.Second}

	configClient := configapi.NewClient(configapi.Options{
		BaseURL:         root.MustURL("CONFIG_API_URL"),
		CacheExpiration: root.MayDuration("COMMON_CONFIG_CACHE_EXPIRATION", configapi.DefaultCacheExpiration),
	}, httpClient)

	influxCfg := root.Prefix("INFLUXDB_")
	influxClient := influxdb.NewClient(influxdb.Options{
		BaseURL:     influxCfg.MayURL("URL", "http://influxdb:8086"),
		APIToken:    influxCfg.MustString("API_TOKEN"),
		Org:         influxCfg.MustString("ORG"),
		Bucket:      influxCfg.MustString("BUCKET"),
		Measurement: influxCfg.MustString("MEASUREMENT"),
	}, httpClient)

	// spawn one long-lived worker per concern; each owns its own channel so
	// a slow upstream only backpressures its own callers
	commonConfigCh, commonConfigDone := configClient.HandleCommonConfig()
	partnerConfigCh, partnerConfigDone := configClient.HandlePartnerConfig()
	healthCh, healthDone := influxClient.HandleHealth()
	timelineCh, timelineDone := influxClient.HandleTimeline()
	performanceCh, performanceDone := influxClient.HandlePerformance()
	shiftObjectiveCh, shiftObjectiveDone := objsvc.Engine{}.HandleShiftObjective()
	weekObjectiveCh, weekObjectiveDone := objsvc.Engine{}.HandleWeekObjective()

	srv := phttp.NewServer(root, func(m *chi.Mux) {
		m.Use(middleware.Defaults()...)
		m.Use(middleware.AccessLogZerolog(middleware.AccessLogOptions{Slow: time.Second}))
		m.Use(middleware.CORS(middleware.CORSOptions{AllowedOrigins: []string{"*"}}))
	})

	api.Mount(srv.Router(), api.Options{
		Health:         healthCh,
		Timeline:       timelineCh,
		Performance:    performanceCh,
		CommonConfig:   commonConfigCh,
		PartnerConfig:  partnerConfigCh,
		ShiftObjective: shiftObjectiveCh,
		WeekObjective:  weekObjectiveCh,
		EnableMetrics:  root.MayBool("METRICS", true),
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		l.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			l.Error().Err(err).Msg("http shutdown failed")
		}
	}()

	if err := srv.Run(ctx); err != nil {
		l.Error().Err(err).Msg("http server stopped")
	}

	// closing the sender sides terminates the workers; then join them all
	commonConfigCh.Close()
	partnerConfigCh.Close()
	healthCh.Close()
	timelineCh.Close()
	performanceCh.Close()
	shiftObjectiveCh.Close()
	weekObjectiveCh.Close()
	for _, done := range []<-chan struct{}{
		commonConfigDone, partnerConfigDone, healthDone, timelineDone,
		performanceDone, shiftObjectiveDone, weekObjectiveDone,
	} {
		<-done
	}
	l.Info().Msg("bye")
}
