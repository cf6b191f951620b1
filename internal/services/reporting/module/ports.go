package module

import (
	"context"
	"time"

	"github.com/Frey210/ergoquipt-admin-web/internal/services/reporting/service"
)

// Ports is what the reporting module exposes to its host
type Ports struct {
	Views   service.Registry
	Sweeper Runner
}

// Runner is a background loop the host starts once routes are mounted
type Runner interface {
	Run(ctx context.Context)
}

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }

type sweeper struct {
	views    *service.Views
	interval time.Duration
	idle     time.Duration
}

// Run drops idle views until ctx is done
func (s sweeper) Run(ctx context.Context) {
	s.views.RunSweeper(ctx, s.interval, s.idle)
}
