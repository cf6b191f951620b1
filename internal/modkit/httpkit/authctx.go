package httpkit

import (
	"net/http"

	perrs "github.com/Frey210/ergoquipt-admin-web/internal/platform/errors"
	pnet "github.com/Frey210/ergoquipt-admin-web/internal/platform/net"
)

// Token returns the bearer token the auth middleware stored on the request
func Token(r *http.Request) (string, error) {
	tok := pnet.Token(r.Context())
	if tok == "" {
		return "", perrs.Unauthorizedf("missing bearer token")
	}
	return tok, nil
}

// MustToken returns the bearer token or panics
// only use on routes protected by the auth middleware
func MustToken(r *http.Request) string {
	tok, err := Token(r)
	if err != nil {
		panic(err)
	}
	return tok
}
