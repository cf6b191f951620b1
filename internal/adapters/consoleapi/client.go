// Package consoleapi is a REST client for the ergoquipt admin API
package consoleapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	perr "github.com/Frey210/ergoquipt-admin-web/internal/platform/errors"
	"github.com/Frey210/ergoquipt-admin-web/internal/platform/logger"
)

const (
	defaultTimeout = 30 * time.Second
	defaultUA      = "ergoquipt-console"
	maxJSONBody    = 8 << 20
)

// TokenSource supplies the bearer token for upstream calls
type TokenSource interface {
	Token(ctx context.Context) string
}

// TokenClearer is implemented by token sources that can forget a rejected token
type TokenClearer interface {
	ClearToken(ctx context.Context) error
}

// TokenFunc adapts a function to TokenSource
type TokenFunc func(ctx context.Context) string

// Token implements TokenSource
func (f TokenFunc) Token(ctx context.Context) string { return f(ctx) }

// Options configures the Client
type Options struct {
	BaseURL   string
	UserAgent string

	// Timeout bounds each request including reading the body
	Timeout time.Duration

	// Tokens is optional; requests go out without Authorization when nil
	Tokens TokenSource

	// HTTPClient overrides the transport, mostly for tests
	HTTPClient *http.Client
}

// Client calls the upstream admin API
// it never retries; a failed call is retried by the operator
type Client struct {
	http   *http.Client
	opts   Options
	base   *url.URL
	log    logger.Logger
	now    func() time.Time
	tokens TokenSource
}

// NewClient creates a Client with defaults applied
func NewClient(o Options) (*Client, error) {
	if strings.TrimSpace(o.BaseURL) == "" {
		return nil, perr.InvalidArgf("consoleapi base url is required")
	}
	base, err := url.Parse(strings.TrimRight(o.BaseURL, "/"))
	if err != nil || !base.IsAbs() {
		return nil, perr.InvalidArgf("consoleapi base url %q is not absolute", o.BaseURL)
	}
	if o.UserAgent == "" {
		o.UserAgent = defaultUA
	}
	if o.Timeout <= 0 {
		o.Timeout = defaultTimeout
	}
	hc := o.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: o.Timeout}
	}
	return &Client{
		http:   hc,
		opts:   o,
		base:   base,
		log:    *logger.Named("consoleapi"),
		now:    time.Now,
		tokens: o.Tokens,
	}, nil
}

// WithTokens returns a shallow copy of c that authenticates with ts
func (c *Client) WithTokens(ts TokenSource) *Client {
	cp := *c
	cp.tokens = ts
	return &cp
}

// BaseURL returns the configured upstream root
func (c *Client) BaseURL() string { return c.base.String() }

// Do issues one request and returns the response when the status is 2xx
// path is joined onto the base url and may carry escaped segments
// body may be nil; a non-nil body is sent as JSON
// non-2xx statuses become *StatusError and a 401 clears the token when the source supports it
func (c *Client) Do(ctx context.Context, method, path string, q url.Values, body any) (*http.Response, error) {
	ctx, cancel := context.WithTimeout(ctx, c.opts.Timeout)

	u := c.base.JoinPath(path)
	if len(q) > 0 {
		u.RawQuery = q.Encode()
	}

	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			cancel()
			return nil, perr.Wrapf(err, perr.ErrorCodeJSON, "consoleapi encode body failed")
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), rdr)
	if err != nil {
		cancel()
		return nil, perr.Wrapf(err, perr.ErrorCodeUnknown, "consoleapi new request failed")
	}
	req.Header.Set("User-Agent", c.opts.UserAgent)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tokens != nil {
		if tok := c.tokens.Token(ctx); tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	start := c.now()
	resp, err := c.http.Do(req)
	lat := c.now().Sub(start)
	if err != nil {
		cancel()
		logger.C(ctx).Warn().Err(err).Str("method", method).Str("path", path).Dur("latency", lat).
			Msg("consoleapi transport error")
		return nil, perr.Wrapf(err, perr.ErrorCodeNetwork, "consoleapi %s %s failed", method, path)
	}

	logger.C(ctx).Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("latency", lat).
		Msg("consoleapi http response")

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		resp.Body = &cancelOnClose{ReadCloser: resp.Body, cancel: cancel}
		return resp, nil
	}

	serr := newStatusError(resp)
	cancel()
	if resp.StatusCode == http.StatusUnauthorized {
		c.clearToken(ctx)
	}
	return nil, serr
}

func (c *Client) clearToken(ctx context.Context) {
	tc, ok := c.tokens.(TokenClearer)
	if !ok {
		return
	}
	if err := tc.ClearToken(context.WithoutCancel(ctx)); err != nil {
		c.log.Error().Err(err).Msg("consoleapi clear token failed")
		return
	}
	c.log.Info().Msg("consoleapi token rejected and cleared")
}

// getJSON decodes a 2xx JSON body into out
func (c *Client) getJSON(ctx context.Context, path string, q url.Values, out any) error {
	resp, err := c.Do(ctx, http.MethodGet, path, q, nil)
	if err != nil {
		return err
	}
	defer c.close(resp, path)

	b, err := io.ReadAll(io.LimitReader(resp.Body, maxJSONBody))
	if err != nil {
		return perr.Wrapf(err, perr.ErrorCodeNetwork, "consoleapi read %s failed", path)
	}
	if err := json.Unmarshal(b, out); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeJSON, "consoleapi decode %s failed", path)
	}
	return nil
}

// stream returns the body of a 2xx response for the caller to consume and close
func (c *Client) stream(ctx context.Context, method, path string, q url.Values, body any) (io.ReadCloser, error) {
	resp, err := c.Do(ctx, method, path, q, body)
	if err != nil {
		return nil, err
	}
	return resp.Body, nil
}

func (c *Client) close(resp *http.Response, path string) {
	if cerr := resp.Body.Close(); cerr != nil {
		c.log.Error().Err(cerr).Str("path", path).Msg("consoleapi close body failed")
	}
}

// cancelOnClose releases the per request timeout once the caller is done with the body
type cancelOnClose struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (c *cancelOnClose) Close() error {
	err := c.ReadCloser.Close()
	c.cancel()
	return err
}
