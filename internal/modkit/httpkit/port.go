package httpkit

import (
	"net/http"
	"strings"

	perrs "github.com/Frey210/ergoquipt-admin-web/internal/platform/errors"
)

// TokenCheck inspects a raw bearer token before it is forwarded upstream
// the console has no signing key so checks stay shallow (length, charset)
type TokenCheck func(token string) error

// Port implements middleware.AuthPort by reading the Authorization header
type Port struct {
	check TokenCheck
}

// NewPort builds a Port that accepts any non-empty bearer token
func NewPort() *Port { return &Port{} }

// NewPortFunc builds a Port with an extra token check
func NewPortFunc(fn TokenCheck) *Port { return &Port{check: fn} }

// Parse extracts the bearer token
// returns unauthorized when the header is missing, malformed, or rejected by the check
func (p *Port) Parse(r *http.Request) (string, error) {
	raw, err := bearer(r.Header.Get("Authorization"))
	if err != nil {
		return "", err
	}
	if p != nil && p.check != nil {
		if err := p.check(raw); err != nil {
			return "", perrs.Unauthorizedf("invalid bearer token")
		}
	}
	return raw, nil
}

func bearer(header string) (string, error) {
	s := strings.TrimSpace(header)
	const prefix = "bearer "
	if len(s) < len(prefix) || !strings.EqualFold(s[:len(prefix)], prefix) {
		return "", perrs.Unauthorizedf("missing bearer token")
	}
	raw := strings.TrimSpace(s[len(prefix):])
	if raw == "" {
		return "", perrs.Unauthorizedf("missing bearer token")
	}
	return raw, nil
}
