package errors_test

import (
	stderrs "errors"
	"net/http"
	"testing"

	perr "lineview/internal/platform/errors"
)

func TestNewAndCode(t *testing.T) {
	err := perr.New(perr.ErrorCodeTransport, "upstream unreachable")
	if got := perr.CodeOf(err); got != perr.ErrorCodeTransport {
		t.Fatalf("CodeOf: expected Transport, got %d", got)
	}
	if err.Error() != "upstream unreachable" {
		t.Fatalf("Error(): %q", err.Error())
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := stderrs.New("connection refused")
	err := perr.Wrap(cause, perr.ErrorCodeTransport, "request sending")
	if !stderrs.Is(err, cause) {
		t.Fatalf("wrapped cause lost")
	}
	if perr.Root(err) != cause {
		t.Fatalf("Root: expected original cause")
	}
	if err.Error() != "request sending: connection refused" {
		t.Fatalf("Error(): %q", err.Error())
	}
}

func TestHTTPStatusMapping(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{perr.BadRequestf("missing client-timezone header"), http.StatusBadRequest},
		{perr.ErrRoundtripClosed, http.StatusInternalServerError},
		{perr.URLJoinf("bad id"), http.StatusInternalServerError},
		{perr.Transportf("dial"), http.StatusInternalServerError},
		{perr.BadStatusf("502"), http.StatusInternalServerError},
		{perr.Parsef("csv"), http.StatusInternalServerError},
		{perr.Validationf("unsorted"), http.StatusInternalServerError},
		{stderrs.New("foreign"), http.StatusInternalServerError},
		{nil, http.StatusInternalServerError}, // nil maps through Unknown
	}
	for _, c := range cases {
		if got := perr.HTTPStatus(c.err); got != c.want {
			t.Fatalf("HTTPStatus(%v): expected %d, got %d", c.err, c.want, got)
		}
	}
}

func TestIsCodeAndAs(t *testing.T) {
	err := perr.Validationf("shift start times are not sorted")
	if !perr.IsCode(err, perr.ErrorCodeValidation) {
		t.Fatalf("IsCode Validation expected true")
	}
	e, ok := perr.As(err)
	if !ok || e.Code() != perr.ErrorCodeValidation {
		t.Fatalf("As failed: %v %v", e, ok)
	}
}

func TestWithOp(t *testing.T) {
	err := perr.WithOp(perr.Parsef("bad json"), "common_config")
	e, ok := perr.As(err)
	if !ok || e.Op() != "common_config" {
		t.Fatalf("WithOp: %v %v", e, ok)
	}

	foreign := stderrs.New("foreign")
	if perr.WithOp(foreign, "x") != foreign {
		t.Fatalf("WithOp should pass foreign errors through")
	}
}
