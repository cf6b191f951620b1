package httpkit

import (
	"github.com/Frey210/ergoquipt-admin-web/internal/platform/net/middleware"
)

// Protected groups routes under bearer auth
func Protected(r Router, p middleware.AuthPort, fn func(Router)) {
	r.Group(func(gr Router) {
		gr.Use(Auth(p))
		fn(gr)
	})
}
