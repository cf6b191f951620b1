package errors

import (
	"context"
	stderrs "errors"
	"fmt"
	"net/http"
	"testing"
)

func TestHTTPStatusCodeMapping(t *testing.T) {
	cases := []struct {
		code ErrorCode
		want int
	}{
		{ErrorCodeNotFound, http.StatusNotFound},
		{ErrorCodeInvalidArgument, http.StatusUnprocessableEntity},
		{ErrorCodeConflict, http.StatusConflict},
		{ErrorCodeEmptySelection, http.StatusConflict},
		{ErrorCodeValidation, http.StatusBadRequest},
		{ErrorCodeJSON, http.StatusBadRequest},
		{ErrorCodeUnauthorized, http.StatusUnauthorized},
		{ErrorCodeForbidden, http.StatusForbidden},
		{ErrorCodeNetwork, http.StatusBadGateway},
		{ErrorCodePartialAggregation, http.StatusBadGateway},
		{ErrorCodeUnavailable, http.StatusServiceUnavailable},
		{ErrorCodePanic, http.StatusInternalServerError},
		{ErrorCodeUnknown, http.StatusInternalServerError},
		{9999, http.StatusInternalServerError}, // default branch
	}
	for _, c := range cases {
		if got := HTTPStatusCode(c.code); got != c.want {
			t.Fatalf("HTTPStatusCode(%v) = %d, want %d", c.code, got, c.want)
		}
	}
}

func TestErrorTypeAndMethods(t *testing.T) {
	// nil *Error should render "<nil>"
	var e *Error
	if e.Error() != "<nil>" {
		t.Fatalf("nil *Error render = %q, want <nil>", e.Error())
	}

	e1 := New(ErrorCodeValidation, "bad range")
	if CodeOf(e1) != ErrorCodeValidation {
		t.Fatalf("CodeOf(New) = %v", CodeOf(e1))
	}
	e2 := Newf(ErrorCodeJSON, "bad json %d", 12)
	if got := e2.Error(); got != "bad json 12" {
		t.Fatalf("Newf().Error = %q", got)
	}

	src := stderrs.New("root")
	e3 := Wrap(src, ErrorCodeNetwork, "upstream failed")
	if u := stderrs.Unwrap(e3); u == nil || u.Error() != "root" {
		t.Fatalf("Wrap did not keep orig")
	}
	e4 := Wrapf(src, ErrorCodeForbidden, "nope %s", "here")
	if want := "nope here: root"; e4.Error() != want {
		t.Fatalf("Wrapf().Error = %q, want %q", e4.Error(), want)
	}
	if got, ok := As(e4); !ok || got.Message() != "nope here" {
		t.Fatalf("Message() should drop the cause, got %+v", got)
	}

	e5 := Wrap(src, ErrorCodeInvalidArgument, "oops")
	e6 := WithField(e5, "date_from")
	e7 := WithOp(e6, "normalize")
	if fe, ok := As(e6); !ok || fe.Field() != "date_from" {
		t.Fatalf("WithField failed")
	}
	if oe, ok := As(e7); !ok || oe.Op() != "normalize" {
		t.Fatalf("WithOp failed")
	}
	if fe0, _ := As(e5); fe0.Field() != "" || fe0.Op() != "" {
		t.Fatalf("copy-on-write mutated original")
	}

	if wf := WireFrom(nil); wf != (Wire{}) {
		t.Fatalf("WireFrom(nil) expected zero, got %+v", wf)
	}
	if wf := WireFrom(src); wf.Code != ErrorCodeUnknown || wf.Message != "root" {
		t.Fatalf("WireFrom(foreign) mismatch: %+v", wf)
	}
	if wf := WireFrom(e4); wf.Code != ErrorCodeForbidden || wf.Message != "nope here" {
		t.Fatalf("WireFrom(ours) mismatch: %+v", wf)
	}

	if st, _ := HTTP(nil); st != http.StatusOK {
		t.Fatalf("HTTP(nil) status = %d", st)
	}

	if !IsCode(NotFoundf("x"), ErrorCodeNotFound) ||
		!IsCode(InvalidArgf("x"), ErrorCodeInvalidArgument) ||
		!IsCode(Validationf("x"), ErrorCodeValidation) ||
		!IsCode(JSONErrf("x"), ErrorCodeJSON) ||
		!IsCode(PanicErrf("x"), ErrorCodePanic) ||
		!IsCode(Unauthorizedf("x"), ErrorCodeUnauthorized) ||
		!IsCode(Forbiddenf("x"), ErrorCodeForbidden) ||
		!IsCode(Conflictf("x"), ErrorCodeConflict) ||
		!IsCode(Networkf("x"), ErrorCodeNetwork) ||
		!IsCode(EmptySelectionf("x"), ErrorCodeEmptySelection) {
		t.Fatalf("sugar helpers code mismatch")
	}

	if WrapIf(nil, ErrorCodeNetwork, "ignored") != nil {
		t.Fatalf("WrapIf(nil) should return nil")
	}

	deep := fmt.Errorf("level2: %w", fmt.Errorf("level1: %w", src))
	if got := Root(deep); got == nil || got.Error() != "root" {
		t.Fatalf("Root() failed, got %v", got)
	}
}

type detailErr struct{ d string }

func (e detailErr) Error() string  { return "status 400" }
func (e detailErr) Detail() string { return e.d }

func TestMessageOr(t *testing.T) {
	if got := MessageOr(nil, "fallback"); got != "" {
		t.Fatalf("MessageOr(nil) = %q", got)
	}
	if got := MessageOr(stderrs.New("dial tcp"), "Failed to load summary"); got != "Failed to load summary" {
		t.Fatalf("MessageOr(no detail) = %q", got)
	}
	wrapped := fmt.Errorf("call: %w", detailErr{d: "from_time must be before to_time"})
	if got := MessageOr(wrapped, "Failed"); got != "from_time must be before to_time" {
		t.Fatalf("MessageOr(detail) = %q", got)
	}
	if got := MessageOr(detailErr{d: "   "}, "Failed"); got != "Failed" {
		t.Fatalf("blank detail should fall back, got %q", got)
	}
}

func TestDisplay(t *testing.T) {
	if Display(nil, ErrorCodeUnknown, "x") != nil {
		t.Fatalf("Display(nil) should be nil")
	}

	d := Display(detailErr{d: "range too wide"}, ErrorCodePartialAggregation, "Failed to load summary")
	if !IsCode(d, ErrorCodePartialAggregation) || WireFrom(d).Message != "range too wide" {
		t.Fatalf("Display(detail) = %+v", WireFrom(d))
	}

	timeout := fmt.Errorf("get: %w", context.DeadlineExceeded)
	n := Display(timeout, ErrorCodePartialAggregation, "Failed to load summary")
	if !IsCode(n, ErrorCodeNetwork) || WireFrom(n).Message != "Failed to load summary" {
		t.Fatalf("Display(timeout) = %+v", WireFrom(n))
	}

	u := Display(Unauthorizedf("session expired"), ErrorCodeUnknown, "Failed")
	if !IsCode(u, ErrorCodeUnauthorized) {
		t.Fatalf("Display should keep unauthorized, got %v", CodeOf(u))
	}
}
