// Package modkit provides module wiring and core deps
package modkit

import (
	"github.com/Frey210/ergoquipt-admin-web/internal/adapters/consoleapi"
	"github.com/Frey210/ergoquipt-admin-web/internal/platform/config"
	"github.com/Frey210/ergoquipt-admin-web/internal/platform/logger"
)

// Deps holds core dependencies passed to modules
// this is wiring only and does not introduce new abstractions
type Deps struct {
	Log logger.Logger
	Cfg config.Conf

	// Upstream is the shared client for the ergoquipt admin API
	Upstream *consoleapi.Client
}

// ZeroOK returns true when deps are safe to use with zero values in tests
// consumers should still nil check Upstream
func (d Deps) ZeroOK() bool { return true }
