package api

import (
	stdhttp "net/http"
	"time"

	"lineview/internal/adapters/configapi"
	"lineview/internal/adapters/influxdb"
	perr "lineview/internal/platform/errors"
	phttp "lineview/internal/platform/net/http"
	objsvc "lineview/internal/services/objective"

	"github.com/go-chi/chi/v5"
)

type handlers struct{ opt Options }

// clientTimezone parses the mandatory client-timezone header as an IANA
// zone name
func clientTimezone(r *stdhttp.Request) (*time.Location, error) {
	name := r.Header.Get("client-timezone")
	if name == "" {
		return nil, perr.BadRequestf("missing client-timezone header")
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, perr.BadRequestf("invalid client-timezone header")
	}
	return loc, nil
}

func (h *handlers) health(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	status, err := h.opt.Health.Roundtrip(r.Context(), struct{}{})
	if err != nil {
		phttp.RespondError(w, r, err)
		return
	}
	if status == stdhttp.StatusOK {
		phttp.RespondStatus(w, stdhttp.StatusOK)
	} else {
		phttp.RespondStatus(w, stdhttp.StatusInternalServerError)
	}
}

func (h *handlers) timeline(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	id := chi.URLParam(r, "id")

	partner, err := h.opt.PartnerConfig.Roundtrip(r.Context(), configapi.PartnerConfigRequest{ID: id})
	if err != nil {
		phttp.RespondError(w, r, err)
		return
	}
	slots, err := h.opt.Timeline.Roundtrip(r.Context(), influxdb.TimelineRequest{
		ID:              id,
		TargetCycleTime: partner.TargetCycleTime,
	})
	if err != nil {
		phttp.RespondError(w, r, err)
		return
	}

	payload, err := encodeTimeline(slots)
	if err != nil {
		phttp.RespondError(w, r, perr.Wrap(err, perr.ErrorCodeUnknown, "timeline encoding"))
		return
	}
	phttp.RespondMsgpack(w, payload)
}

func (h *handlers) performance(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	id := chi.URLParam(r, "id")
	tz, err := clientTimezone(r)
	if err != nil {
		phttp.RespondError(w, r, err)
		return
	}

	common, err := h.opt.CommonConfig.Roundtrip(r.Context(), struct{}{})
	if err != nil {
		phttp.RespondError(w, r, err)
		return
	}
	partner, err := h.opt.PartnerConfig.Roundtrip(r.Context(), configapi.PartnerConfigRequest{ID: id})
	if err != nil {
		phttp.RespondError(w, r, err)
		return
	}
	ratio, err := h.opt.Performance.Roundtrip(r.Context(), influxdb.PerformanceRequest{
		ID:              id,
		ShiftStartTimes: common.ShiftStartTimes,
		Pauses:          common.Pauses,
		Timezone:        tz,
		TargetCycleTime: partner.TargetCycleTime,
	})
	if err != nil {
		phttp.RespondError(w, r, err)
		return
	}
	phttp.RespondFloat(w, ratio)
}

func (h *handlers) shiftObjective(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	tz, err := clientTimezone(r)
	if err != nil {
		phttp.RespondError(w, r, err)
		return
	}

	common, err := h.opt.CommonConfig.Roundtrip(r.Context(), struct{}{})
	if err != nil {
		phttp.RespondError(w, r, err)
		return
	}
	partner, err := h.opt.PartnerConfig.Roundtrip(r.Context(), configapi.PartnerConfigRequest{ID: chi.URLParam(r, "id")})
	if err != nil {
		phttp.RespondError(w, r, err)
		return
	}
	data, err := h.opt.ShiftObjective.Roundtrip(r.Context(), objsvc.ShiftObjectiveRequest{
		ShiftStartTimes:  common.ShiftStartTimes,
		Pauses:           common.Pauses,
		Timezone:         tz,
		TargetCycleTime:  partner.TargetCycleTime,
		TargetEfficiency: partner.TargetEfficiency,
	})
	if err != nil {
		phttp.RespondError(w, r, err)
		return
	}
	phttp.RespondJSON(w, data)
}

func (h *handlers) weekObjective(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	tz, err := clientTimezone(r)
	if err != nil {
		phttp.RespondError(w, r, err)
		return
	}

	common, err := h.opt.CommonConfig.Roundtrip(r.Context(), struct{}{})
	if err != nil {
		phttp.RespondError(w, r, err)
		return
	}
	partner, err := h.opt.PartnerConfig.Roundtrip(r.Context(), configapi.PartnerConfigRequest{ID: chi.URLParam(r, "id")})
	if err != nil {
		phttp.RespondError(w, r, err)
		return
	}
	data, err := h.opt.WeekObjective.Roundtrip(r.Context(), objsvc.WeekObjectiveRequest{
		ShiftStartTimes:  common.ShiftStartTimes,
		ShiftEngaged:     partner.ShiftEngaged,
		Pauses:           common.Pauses,
		WeekStart:        common.WeekStart,
		Timezone:         tz,
		TargetCycleTime:  partner.TargetCycleTime,
		TargetEfficiency: partner.TargetEfficiency,
	})
	if err != nil {
		phttp.RespondError(w, r, err)
		return
	}
	phttp.RespondJSON(w, data)
}
