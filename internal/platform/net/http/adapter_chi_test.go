package http

import (
	stdhttp "net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
)

func TestAdaptChi_RootGroupRouteAndMux(t *testing.T) {
	t.Parallel()

	r := AdaptChi(chi.NewRouter())

	r.Use(func(next stdhttp.Handler) stdhttp.Handler {
		return stdhttp.HandlerFunc(func(w stdhttp.ResponseWriter, req *stdhttp.Request) {
			w.Header().Set("X-Root", "1")
			next.ServeHTTP(w, req)
		})
	})

	r.Get("/health", func(w stdhttp.ResponseWriter, _ *stdhttp.Request) { _, _ = w.Write([]byte("ok")) })

	r.Group(func(gr Router) {
		gr.Use(func(next stdhttp.Handler) stdhttp.Handler {
			return stdhttp.HandlerFunc(func(w stdhttp.ResponseWriter, req *stdhttp.Request) {
				w.Header().Set("X-Group", "1")
				next.ServeHTTP(w, req)
			})
		})
		gr.Post("/views", func(w stdhttp.ResponseWriter, _ *stdhttp.Request) { w.WriteHeader(stdhttp.StatusCreated) })
	})

	r.Route("/views/{id}", func(sr Router) {
		if sr.Mux() == nil {
			t.Fatalf("route Mux() returned nil")
		}
		sr.Get("/", func(w stdhttp.ResponseWriter, req *stdhttp.Request) { _, _ = w.Write([]byte(URLParam(req, "id"))) })
		sr.Put("/", func(w stdhttp.ResponseWriter, _ *stdhttp.Request) { w.WriteHeader(stdhttp.StatusAccepted) })
		sr.Delete("/", func(w stdhttp.ResponseWriter, _ *stdhttp.Request) { w.WriteHeader(stdhttp.StatusNoContent) })
	})

	do := func(method, path string) *httptest.ResponseRecorder {
		rr := httptest.NewRecorder()
		r.Mux().ServeHTTP(rr, httptest.NewRequest(method, path, nil))
		return rr
	}

	if rr := do("GET", "/health"); rr.Body.String() != "ok" || rr.Header().Get("X-Root") != "1" {
		t.Fatalf("root route: %d %q", rr.Code, rr.Body.String())
	}
	if rr := do("POST", "/views"); rr.Code != stdhttp.StatusCreated || rr.Header().Get("X-Group") != "1" {
		t.Fatalf("group route: %d", rr.Code)
	}
	if rr := do("GET", "/health"); rr.Header().Get("X-Group") != "" {
		t.Fatalf("group middleware leaked to root")
	}
	if rr := do("GET", "/views/abc/"); rr.Body.String() != "abc" {
		t.Fatalf("url param: %q", rr.Body.String())
	}
	if rr := do("PUT", "/views/abc/"); rr.Code != stdhttp.StatusAccepted {
		t.Fatalf("put: %d", rr.Code)
	}
	if rr := do("DELETE", "/views/abc/"); rr.Code != stdhttp.StatusNoContent {
		t.Fatalf("delete: %d", rr.Code)
	}

	r.Handle("/raw", stdhttp.HandlerFunc(func(w stdhttp.ResponseWriter, _ *stdhttp.Request) { w.WriteHeader(stdhttp.StatusTeapot) }))
	if rr := do("GET", "/raw"); rr.Code != stdhttp.StatusTeapot {
		t.Fatalf("handle: %d", rr.Code)
	}
}
