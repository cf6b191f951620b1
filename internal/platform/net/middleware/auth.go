package middleware

import (
	"net/http"

	pnet "github.com/Frey210/ergoquipt-admin-web/internal/platform/net"
)

// AuthPort extracts the caller's bearer token from a request
// the console never validates tokens itself; the upstream API does
type AuthPort interface {
	Parse(r *http.Request) (token string, err error)
}

// Auth rejects requests the port cannot parse and stores the token on the context
// so upstream calls made on behalf of the request can forward it
func Auth(p AuthPort, write func(w http.ResponseWriter, status int, body any)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if p == nil {
				next.ServeHTTP(w, r)
				return
			}
			token, err := p.Parse(r)
			if err != nil {
				status, body := pnet.Error(err, pnet.RequestID(r.Context()))
				write(w, status, body)
				return
			}
			next.ServeHTTP(w, r.WithContext(pnet.WithToken(r.Context(), token)))
		})
	}
}
