// Package api provides the HTTP API for the console
package api

import (
	"context"
	"time"

	"github.com/Frey210/ergoquipt-admin-web/internal/adapters/consoleapi"
	"github.com/Frey210/ergoquipt-admin-web/internal/platform/config"
	"github.com/Frey210/ergoquipt-admin-web/internal/platform/logger"
	phttp "github.com/Frey210/ergoquipt-admin-web/internal/platform/net/http"
	"github.com/Frey210/ergoquipt-admin-web/internal/platform/net/middleware"

	"github.com/Frey210/ergoquipt-admin-web/internal/modkit"
	"github.com/Frey210/ergoquipt-admin-web/internal/modkit/httpkit"
	"github.com/Frey210/ergoquipt-admin-web/internal/modkit/module"

	metamod "github.com/Frey210/ergoquipt-admin-web/internal/services/api/meta/module"
	reportingmod "github.com/Frey210/ergoquipt-admin-web/internal/services/reporting/module"
)

// Options are the API options
type Options struct {
	// Context bounds background loops owned by modules (view sweeping)
	Context        context.Context
	Config         config.Conf
	Upstream       *consoleapi.Client
	CORSOrigins    []string
	RequestTimeout time.Duration
	SlowRequest    time.Duration
	EnableProfiler bool
}

// Mount mounts the API service onto the given router and returns the mounted modules
func Mount(r phttp.Router, opt Options) []module.Module {
	if opt.Context == nil {
		opt.Context = context.Background()
	}

	// shared deps for modules
	deps := modkit.Deps{
		Log:      *logger.Named("api"),
		Cfg:      opt.Config,
		Upstream: opt.Upstream,
	}

	mods := []module.Module{
		metamod.New(deps),
		reportingmod.New(deps, reportingmod.Options{}),
	}

	stack := httpkit.CommonStack(httpkit.StackOptions{
		CORS:    middleware.CORSOptions{AllowedOrigins: opt.CORSOrigins},
		Timeout: opt.RequestTimeout,
		Slow:    opt.SlowRequest,
	})

	// versioned API with a common middleware stack
	httpkit.MountAPIV1(r, stack, func(api httpkit.Router) {
		phttp.MountProfiler(r, "/debug", opt.EnableProfiler)

		for _, m := range mods {
			// mount module routes under its Prefix()
			m.MountRoutes(api)
		}
	})

	// background loops start once every route is in place
	for _, m := range mods {
		if run, ok := module.PortsOf[reportingmod.Runner](m); ok {
			logger.Named("api").Debug().Str("module", m.Name()).Msg("starting module runner")
			go run.Run(opt.Context)
		}
	}
	return mods
}
