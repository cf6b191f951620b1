package httpkit

import (
	"net/http"
	"time"

	phttp "github.com/Frey210/ergoquipt-admin-web/internal/platform/net/http"
	"github.com/Frey210/ergoquipt-admin-web/internal/platform/net/middleware"
)

// StackOptions tunes CommonStack
type StackOptions struct {
	CORS    middleware.CORSOptions
	Timeout time.Duration
	Slow    time.Duration
}

// CommonStack returns the baseline middleware slice for the console API
// compose with Auth per scope in the module wiring
func CommonStack(o StackOptions) []func(http.Handler) http.Handler {
	if o.Timeout <= 0 {
		o.Timeout = 60 * time.Second
	}
	mws := middleware.Defaults(o.Timeout)
	return append(mws,
		middleware.AccessLogZerolog(middleware.AccessLogOptions{Slow: o.Slow}),
		middleware.CORS(o.CORS),
		middleware.StripSlashes(),
	)
}

// Auth wires the auth middleware to the platform JSON writer
func Auth(p middleware.AuthPort) func(http.Handler) http.Handler {
	return middleware.Auth(p, phttp.JSON)
}
