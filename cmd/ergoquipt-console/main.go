// Command ergoquipt-console serves the reporting console API in front of the lab admin API
package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/Frey210/ergoquipt-admin-web/internal/adapters/consoleapi"
	"github.com/Frey210/ergoquipt-admin-web/internal/core/version"
	"github.com/Frey210/ergoquipt-admin-web/internal/platform/config"
	"github.com/Frey210/ergoquipt-admin-web/internal/platform/logger"
	pnet "github.com/Frey210/ergoquipt-admin-web/internal/platform/net"
	phttp "github.com/Frey210/ergoquipt-admin-web/internal/platform/net/http"
	"github.com/Frey210/ergoquipt-admin-web/internal/platform/net/middleware"

	"github.com/Frey210/ergoquipt-admin-web/internal/services/api"

	"github.com/go-chi/chi/v5"
)

func main() {
	// service-scoped config (CONSOLE_*)
	cfg := config.New().Prefix("CONSOLE_")

	// bring up logging early
	opts := logger.FromEnv()
	opts.Service = version.Service
	logger.Init(opts)
	l := logger.Get()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// the caller's bearer token travels on the request context to every upstream call
	upstream, err := consoleapi.NewClient(consoleapi.Options{
		BaseURL:   cfg.MustURL("API_URL").String(),
		UserAgent: version.Service + "/" + version.Info().Version,
		Timeout:   cfg.MayDuration("API_TIMEOUT", 0),
		Tokens:    consoleapi.TokenFunc(pnet.Token),
	})
	if err != nil {
		l.Panic().Err(err).Msg("consoleapi.NewClient failed")
	}

	// http server (reads CONSOLE_API_PORT / CONSOLE_SHUTDOWN_GRACE)
	srv := phttp.NewServer(cfg, func(m *chi.Mux) {
		m.Use(middleware.Heartbeat("/health"))
	})

	api.Mount(srv.Router(), api.Options{
		Context:        ctx,
		Config:         cfg,
		Upstream:       upstream,
		CORSOrigins:    cfg.MayCSV("CORS_ORIGINS", nil),
		RequestTimeout: cfg.MayDuration("REQUEST_TIMEOUT", 0),
		SlowRequest:    cfg.MayDuration("SLOW_REQUEST", 0),
		EnableProfiler: cfg.MayBool("PROFILER", false),
	})

	l.Info().Str("upstream", upstream.BaseURL()).Str("version", version.Info().String()).Msg("console starting")

	// run until SIGINT/SIGTERM
	if err := srv.Run(ctx); err != nil {
		l.Panic().Err(err).Msg("http server stopped")
	}
}
