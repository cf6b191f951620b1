package service

import (
	"context"
	"sync"
	"time"

	perr "github.com/Frey210/ergoquipt-admin-web/internal/platform/errors"
	"github.com/Frey210/ergoquipt-admin-web/internal/platform/logger"
	pnet "github.com/Frey210/ergoquipt-admin-web/internal/platform/net"
	"github.com/Frey210/ergoquipt-admin-web/internal/services/reporting/domain"

	"github.com/google/uuid"
)

// Views is the registry of open report pages keyed by a random id
type Views struct {
	api  domain.ReportingAPI
	opts Options

	mu sync.RWMutex
	m  map[string]*View
}

// NewViews panics on a nil api
func NewViews(api domain.ReportingAPI, o Options) *Views {
	if api == nil {
		panic("reporting.Views requires a non nil ReportingAPI")
	}
	return &Views{api: api, opts: o.withDefaults(), m: map[string]*View{}}
}

// API returns the upstream the views read from
func (vs *Views) API() domain.ReportingAPI { return vs.api }

// Create registers a new view owned by the caller token on ctx and mounts it with default facets
func (vs *Views) Create(ctx context.Context) *View {
	v := NewView(uuid.NewString(), vs.api, vs.opts)
	v.owner = ownerKey(pnet.Token(ctx))
	vs.mu.Lock()
	vs.m[v.ID] = v
	vs.mu.Unlock()

	ctx = logger.WithView(ctx, v.ID)
	logger.C(ctx).Info().Msg("report view created")
	v.Mount(ctx)
	return v
}

// Get returns a registered view when the token on ctx is the one that created it
// a view owned by another token is reported as not found
func (vs *Views) Get(ctx context.Context, id string) (*View, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, perr.NotFoundf("view %q not found", id)
	}
	vs.mu.RLock()
	v, ok := vs.m[id]
	vs.mu.RUnlock()
	if !ok || !v.ownedBy(pnet.Token(ctx)) {
		return nil, perr.NotFoundf("view %q not found", id)
	}
	return v, nil
}

// Delete unmounts a view owned by the token on ctx, cancelling its loads and discarding its selections
func (vs *Views) Delete(ctx context.Context, id string) error {
	vs.mu.Lock()
	v, ok := vs.m[id]
	if ok && !v.ownedBy(pnet.Token(ctx)) {
		ok = false
	}
	if ok {
		delete(vs.m, id)
	}
	vs.mu.Unlock()
	if !ok {
		return perr.NotFoundf("view %q not found", id)
	}
	v.Close()
	return nil
}

// Len returns the number of open views
func (vs *Views) Len() int {
	vs.mu.RLock()
	defer vs.mu.RUnlock()
	return len(vs.m)
}

// Sweep deletes views idle for longer than idle and returns how many were removed
func (vs *Views) Sweep(idle time.Duration) int {
	cutoff := vs.opts.Now().Add(-idle)
	vs.mu.Lock()
	var stale []*View
	for id, v := range vs.m {
		if v.LastUsed().Before(cutoff) {
			stale = append(stale, v)
			delete(vs.m, id)
		}
	}
	vs.mu.Unlock()
	for _, v := range stale {
		v.Close()
	}
	return len(stale)
}

// RunSweeper sweeps every interval until ctx is done
func (vs *Views) RunSweeper(ctx context.Context, interval, idle time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := vs.Sweep(idle); n > 0 {
				logger.Named("reporting").Info().Int("removed", n).Int("open", vs.Len()).Msg("idle report views swept")
			}
		}
	}
}
