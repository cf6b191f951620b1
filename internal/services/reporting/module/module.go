// Package module wires report views into the API using modkit
package module

import (
	"net/http"

	modkit "github.com/Frey210/ergoquipt-admin-web/internal/modkit"
	"github.com/Frey210/ergoquipt-admin-web/internal/modkit/httpkit"
	str "github.com/Frey210/ergoquipt-admin-web/internal/platform/strings"
	"github.com/Frey210/ergoquipt-admin-web/internal/services/reporting/domain"
	reportinghttp "github.com/Frey210/ergoquipt-admin-web/internal/services/reporting/http"
	"github.com/Frey210/ergoquipt-admin-web/internal/services/reporting/service"
)

// Module implements the reporting module
type Module struct {
	deps   modkit.Deps
	name   string
	prefix string
	opts   Options

	mws   []func(http.Handler) http.Handler
	ports any

	subrouter func(httpkit.Router) httpkit.Router
	register  func(httpkit.Router)

	api   domain.ReportingAPI
	views *service.Views
}

// New constructs the reporting module; zero override fields keep the configured values
// api defaults to deps.Upstream and every route sits behind bearer auth
func New(deps modkit.Deps, overrides Options, opts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{modkit.WithName("reporting"), modkit.WithPrefix("/reporting")}, opts...)...)
	o := FromConfig(deps.Cfg).merge(overrides)

	var api domain.ReportingAPI
	if deps.Upstream != nil {
		api = deps.Upstream
	}
	if p, ok := b.Ports.(domain.ReportingAPI); ok {
		api = p
	}
	views := service.NewViews(api, service.Options{
		DefaultTZ:     o.DefaultTZ,
		PageLimit:     o.PageLimit,
		SummaryDays:   o.SummaryDays,
		RecordingDays: o.RecordingDays,
		Timeout:       o.Timeout,
		SpoolDir:      o.SpoolDir,
	})

	m := &Module{
		deps:      deps,
		name:      b.Name,
		prefix:    b.Prefix,
		opts:      o,
		mws:       b.Mw,
		subrouter: b.Subrouter,
		api:       api,
		views:     views,
	}
	m.ports = Ports{
		Views:   views,
		Sweeper: sweeper{views: views, interval: o.SweepInterval, idle: o.ViewIdle},
	}

	auth := httpkit.NewPort()
	external := b.Register
	m.register = func(r httpkit.Router) {
		httpkit.Protected(r, auth, func(pr httpkit.Router) {
			reportinghttp.Register(pr, m.views, m.api)
		})
		if external != nil {
			external(r)
		}
	}
	return m
}

// MountRoutes mounts the module routes on the given router
func (m *Module) MountRoutes(r httpkit.Router) {
	r.Route(m.prefix, func(rr httpkit.Router) {
		for _, mw := range m.mws {
			rr.Use(mw)
		}
		if m.subrouter != nil {
			rr = m.subrouter(rr)
		}
		if m.register != nil {
			m.register(rr)
		}
	})
}

// Name returns the module name
func (m *Module) Name() string { return str.MustString(m.name, "module name") }

// Prefix returns the module route prefix
func (m *Module) Prefix() string { return str.MustPrefix(m.prefix) }

// Middlewares returns the module middlewares
func (m *Module) Middlewares() []func(http.Handler) http.Handler { return m.mws }
