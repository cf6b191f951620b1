package service

import (
	"context"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	perr "github.com/Frey210/ergoquipt-admin-web/internal/platform/errors"
	"github.com/Frey210/ergoquipt-admin-web/internal/platform/logger"
	"github.com/Frey210/ergoquipt-admin-web/internal/services/reporting/domain"
)

// ListState is what observers of a RecordingList see
type ListState struct {
	Kind    domain.Kind
	Loading bool
	Err     error
	Rows    []domain.RecordingSummary
	Total   int
	Page    domain.Page
	Params  *domain.QueryParams

	// Selected and AllSelected are read together with the rows they refer to
	Selected    []string
	AllSelected bool
}

// RecordingList loads windows of one recording kind and owns that kind's selection
type RecordingList struct {
	kind    domain.Kind
	api     domain.RecordingsAPI
	sel     *Selection
	limit   int
	timeout time.Duration

	gen atomic.Uint64

	mu        sync.Mutex
	cancel    context.CancelFunc
	requested *domain.QueryParams
	page      domain.Page
	state     ListState
}

// NewRecordingList panics on a nil api or selection
func NewRecordingList(kind domain.Kind, api domain.RecordingsAPI, sel *Selection, limit int, timeout time.Duration) *RecordingList {
	if api == nil {
		panic("reporting.RecordingList requires a non nil RecordingsAPI")
	}
	if sel == nil {
		panic("reporting.RecordingList requires a non nil Selection")
	}
	if limit <= 0 {
		limit = 50
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &RecordingList{
		kind:    kind,
		api:     api,
		sel:     sel,
		limit:   limit,
		timeout: timeout,
		state:   ListState{Kind: kind, Page: domain.Page{Limit: limit}},
	}
}

// Kind returns the recording kind this list serves
func (l *RecordingList) Kind() domain.Kind { return l.kind }

// Selection returns the selection bound to this list
func (l *RecordingList) Selection() *Selection { return l.sel }

// Load fetches the window page for p; a new parameter set starts again at offset 0
// the returned error is the committed one; a superseded load returns nil
func (l *RecordingList) Load(ctx context.Context, p *domain.QueryParams, page domain.Page) error {
	if p == nil {
		return perr.Validationf("recording parameters are required")
	}
	if page.Limit <= 0 {
		page.Limit = l.limit
	}
	if page.Offset < 0 {
		page.Offset = 0
	}

	gen := l.gen.Add(1)
	fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), l.timeout)
	defer cancel()

	l.mu.Lock()
	if l.gen.Load() != gen {
		l.mu.Unlock()
		return nil
	}
	if p != l.requested {
		page.Offset = 0
	}
	l.requested, l.page = p, page
	if l.cancel != nil {
		l.cancel()
	}
	l.cancel = cancel
	l.state.Loading = true
	l.state.Err = nil
	l.mu.Unlock()

	res, err := l.api.ListRecordings(fctx, l.kind, p, page)

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.gen.Load() != gen {
		logger.C(ctx).Debug().Str("kind", string(l.kind)).Uint64("generation", gen).Msg("stale recording list dropped")
		return nil
	}
	l.cancel = nil
	l.state.Loading = false
	l.state.Params = p
	l.state.Page = page
	if err != nil {
		l.state.Rows = nil
		l.state.Total = 0
		l.state.Err = perr.Display(err, perr.CodeOf(err), "Failed to load "+l.kind.Label()+" recordings")
		l.sel.Reset(nil)
		logger.C(ctx).Warn().Err(err).Str("kind", string(l.kind)).Msg("recording list load failed")
		return l.state.Err
	}
	l.state.Rows = res.Items
	l.state.Total = res.Total
	l.sel.Reset(res.IDs())
	return nil
}

// Reload repeats the last requested window, a no-op before the first Load
func (l *RecordingList) Reload(ctx context.Context) error {
	l.mu.Lock()
	p, page := l.requested, l.page
	l.mu.Unlock()
	if p == nil {
		return nil
	}
	return l.Load(ctx, p, page)
}

// Snapshot returns the committed state with the selection over its rows
// commits reset the selection under the same lock, so rows and selection always match
func (l *RecordingList) Snapshot() ListState {
	l.mu.Lock()
	defer l.mu.Unlock()
	st := l.state
	st.Rows = slices.Clone(st.Rows)
	st.Selected, st.AllSelected = l.sel.state()
	return st
}

// Stop cancels an in-flight load and discards the selection
func (l *RecordingList) Stop() {
	l.gen.Add(1)
	l.mu.Lock()
	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
	l.state.Loading = false
	l.sel.Reset(nil)
	l.mu.Unlock()
}
