// Package http provides helpers for writing the service's byte-level response contracts
package http

import (
	"encoding/json"
	"math"
	stdhttp "net/http"

	perr "lineview/internal/platform/errors"
	"lineview/internal/platform/logger"
)

const internalErrorBody = "internal server error"

// JSON writes v as application/json with the given status
func JSON(w stdhttp.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// RespondJSON writes a 200 application/json body
func RespondJSON(w stdhttp.ResponseWriter, v any) {
	JSON(w, stdhttp.StatusOK, v)
}

// RespondFloat writes a 200 JSON number. Non-finite values encode as null,
// matching the upstream computation's "no data" reply
func RespondFloat(w stdhttp.ResponseWriter, v float32) {
	f := float64(v)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(stdhttp.StatusOK)
		_, _ = w.Write([]byte("null\n"))
		return
	}
	JSON(w, stdhttp.StatusOK, v)
}

// RespondMsgpack writes a 200 application/msgpack body
func RespondMsgpack(w stdhttp.ResponseWriter, payload []byte) {
	w.Header().Set("Content-Type", "application/msgpack")
	w.WriteHeader(stdhttp.StatusOK)
	_, _ = w.Write(payload)
}

// RespondStatus writes a bare status code with no body
func RespondStatus(w stdhttp.ResponseWriter, status int) {
	w.WriteHeader(status)
}

// RespondError maps a project error to its HTTP status and writes a plain text body.
// Internal errors always surface as the literal "internal server error"
func RespondError(w stdhttp.ResponseWriter, r *stdhttp.Request, err error) {
	status := perr.HTTPStatus(err)
	logger.C(r.Context()).Error().Err(err).Int("status", status).Msg("request failed")
	body := internalErrorBody
	if status == stdhttp.StatusBadRequest {
		body = err.Error()
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}
