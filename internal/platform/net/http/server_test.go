package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Frey210/ergoquipt-admin-web/internal/platform/config"

	"github.com/go-chi/chi/v5"
)

func newTestRouter() Router { return AdaptChi(chi.NewRouter()) }

func TestNewServer_AddrAndOptions(t *testing.T) {
	t.Setenv("CONSOLE_API_PORT", ":12345")

	called := false
	srv := NewServer(config.New().Prefix("CONSOLE_"), func(*chi.Mux) { called = true })
	if !called {
		t.Fatalf("expected NewServer option to be called")
	}
	if srv.Addr() != ":12345" {
		t.Fatalf("expected addr :12345, got %q", srv.Addr())
	}
}

func TestServer_RunStopsOnContextCancel(t *testing.T) {
	t.Setenv("CONSOLE_API_PORT", "127.0.0.1:0")
	t.Setenv("CONSOLE_SHUTDOWN_GRACE", "1s")

	srv := NewServer(config.New().Prefix("CONSOLE_"))
	srv.Router().Get("/health", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })

	rec := httptest.NewRecorder()
	srv.Router().Mux().ServeHTTP(rec, httptest.NewRequest("GET", "/health", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("health: %d", rec.Code)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned error: %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatalf("Run did not return after cancel")
	}
}

func TestServer_Run_ReturnsListenError(t *testing.T) {
	t.Setenv("CONSOLE_API_PORT", "127.0.0.1:abc")
	srv := NewServer(config.New().Prefix("CONSOLE_"))
	if err := srv.Run(context.Background()); err == nil {
		t.Fatalf("expected Run to return an error for invalid addr")
	}
}

func TestMountProfiler(t *testing.T) {
	on := newTestRouter()
	MountProfiler(on, "/debug", true)
	rec := httptest.NewRecorder()
	on.Mux().ServeHTTP(rec, httptest.NewRequest("GET", "/debug/pprof/cmdline", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 at /debug/pprof/cmdline, got %d", rec.Code)
	}

	off := newTestRouter()
	MountProfiler(off, "/debug", false)
	rec2 := httptest.NewRecorder()
	off.Mux().ServeHTTP(rec2, httptest.NewRequest("GET", "/debug/pprof/", nil))
	if rec2.Code != http.StatusNotFound {
		t.Fatalf("expected 404 when disabled, got %d", rec2.Code)
	}
}
