package configapi_test

import (
	"context"
	stderrs "errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"lineview/internal/adapters/configapi"
	perr "lineview/internal/platform/errors"
)

func TestCommonConfigWorkerRoundtrip(t *testing.T) {
	var gets atomic.Int32
	srv := commonServer(t, commonBody, &gets)
	c := newClient(t, srv.URL+"/", time.Minute)

	tx, done := c.HandleCommonConfig()
	defer func() {
		tx.Close()
		<-done
	}()

	for range 3 {
		cfg, err := tx.Roundtrip(context.Background(), struct{}{})
		if err != nil {
			t.Fatalf("roundtrip: %v", err)
		}
		if len(cfg.ShiftStartTimes) != 2 {
			t.Fatalf("config: %+v", cfg)
		}
	}
	if gets.Load() != 1 {
		t.Fatalf("cache should have coalesced GETs, saw %d", gets.Load())
	}
}

func TestCommonConfigWorkerDropsOnFailure(t *testing.T) {
	c := newClient(t, "http://127.0.0.1:1/", time.Minute)
	tx, done := c.HandleCommonConfig()
	defer func() {
		tx.Close()
		<-done
	}()

	_, err := tx.Roundtrip(context.Background(), struct{}{})
	if !stderrs.Is(err, perr.ErrRoundtripClosed) {
		t.Fatalf("expected ErrRoundtripClosed, got %v", err)
	}
}

func TestPartnerConfigWorkerRoundtrip(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/someid" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"targetCycleTime": 60, "targetEfficiency": 0.9, "shiftEngaged": [true]}`))
	}))
	t.Cleanup(srv.Close)
	c := newClient(t, srv.URL+"/", time.Minute)

	tx, done := c.HandlePartnerConfig()
	defer func() {
		tx.Close()
		<-done
	}()

	cfg, err := tx.Roundtrip(context.Background(), configapi.PartnerConfigRequest{ID: "someid"})
	if err != nil {
		t.Fatalf("roundtrip: %v", err)
	}
	if cfg.TargetCycleTime != 60 {
		t.Fatalf("config: %+v", cfg)
	}
}

func TestPartnerConfigWorkerDropsOnNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(http.NotFound))
	t.Cleanup(srv.Close)
	c := newClient(t, srv.URL+"/", time.Minute)

	tx, done := c.HandlePartnerConfig()
	defer func() {
		tx.Close()
		<-done
	}()

	_, err := tx.Roundtrip(context.Background(), configapi.PartnerConfigRequest{ID: "missing"})
	if !stderrs.Is(err, perr.ErrRoundtripClosed) {
		t.Fatalf("expected ErrRoundtripClosed, got %v", err)
	}
}
