package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	perr "github.com/Frey210/ergoquipt-admin-web/internal/platform/errors"
	pnet "github.com/Frey210/ergoquipt-admin-web/internal/platform/net"
	"github.com/Frey210/ergoquipt-admin-web/internal/platform/net/middleware"
)

type fakeAuthPort struct {
	token string
	err   error
}

func (f fakeAuthPort) Parse(*http.Request) (string, error) { return f.token, f.err }

func writeStub(w http.ResponseWriter, status int, _ any) { w.WriteHeader(status) }

func TestAuth_NilPortPassesThrough(t *testing.T) {
	var nextCalled bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		nextCalled = true
		if pnet.Token(r.Context()) != "" {
			t.Fatalf("no token expected without a port")
		}
	})

	rr := httptest.NewRecorder()
	middleware.Auth(nil, writeStub)(next).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	if !nextCalled {
		t.Fatal("expected next to be called")
	}
}

func TestAuth_StoresToken(t *testing.T) {
	var got string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = pnet.Token(r.Context())
	})

	rr := httptest.NewRecorder()
	mw := middleware.Auth(fakeAuthPort{token: "tok-123"}, writeStub)
	mw(next).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	if got != "tok-123" {
		t.Fatalf("token on context = %q", got)
	}
}

func TestAuth_ErrorShortCircuits(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("next must not run on auth failure")
	})

	rr := httptest.NewRecorder()
	mw := middleware.Auth(fakeAuthPort{err: perr.Unauthorizedf("missing bearer token")}, writeStub)
	mw(next).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", rr.Code)
	}
}
