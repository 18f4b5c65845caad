package http_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	phttp "lineview/internal/platform/net/http"

	"github.com/go-chi/chi/v5"
)

func TestAdaptChiRoutesAndGroups(t *testing.T) {
	m := chi.NewRouter()
	r := phttp.AdaptChi(m)

	r.Get("/ping", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("pong"))
	})
	r.Route("/sub", func(rr phttp.Router) {
		rr.Get("/leaf", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusAccepted)
		})
	})

	rec := httptest.NewRecorder()
	m.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))
	if rec.Code != http.StatusOK || rec.Body.String() != "pong" {
		t.Fatalf("ping: %d %q", rec.Code, rec.Body.String())
	}

	rec2 := httptest.NewRecorder()
	m.ServeHTTP(rec2, httptest.NewRequest(http.MethodGet, "/sub/leaf", nil))
	if rec2.Code != http.StatusAccepted {
		t.Fatalf("sub leaf: %d", rec2.Code)
	}

	// wrong method is rejected by the router
	rec3 := httptest.NewRecorder()
	m.ServeHTTP(rec3, httptest.NewRequest(http.MethodPost, "/ping", nil))
	if rec3.Code != http.StatusMethodNotAllowed {
		t.Fatalf("method: %d", rec3.Code)
	}
}
