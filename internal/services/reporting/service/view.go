package service

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"sync/atomic"
	"time"

	"github.com/Frey210/ergoquipt-admin-web/internal/core/timerange"
	perr "github.com/Frey210/ergoquipt-admin-web/internal/platform/errors"
	"github.com/Frey210/ergoquipt-admin-web/internal/services/reporting/domain"

	"golang.org/x/sync/errgroup"
)

// Options tunes views and the components they own
type Options struct {
	DefaultTZ     int
	PageLimit     int
	SummaryDays   int
	RecordingDays int
	Timeout       time.Duration
	SpoolDir      string
	Now           func() time.Time
}

func (o Options) withDefaults() Options {
	if !timerange.IsZone(o.DefaultTZ) {
		o.DefaultTZ = timerange.DefaultZone
	}
	if o.PageLimit <= 0 {
		o.PageLimit = 50
	}
	if o.SummaryDays <= 0 {
		o.SummaryDays = 30
	}
	if o.RecordingDays <= 0 {
		o.RecordingDays = 7
	}
	if o.Timeout <= 0 {
		o.Timeout = 30 * time.Second
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

type kindState struct {
	params *ParamsBuilder
	list   *RecordingList
}

// View is the state of one open report page: the summary, one list per kind and an exporter
type View struct {
	ID      string
	Created time.Time

	opts     Options
	lastUsed atomic.Int64

	// owner is the sha256 of the bearer token that created the view
	owner [sha256.Size]byte

	summaryParams *ParamsBuilder
	summary       *Aggregator
	kinds         map[domain.Kind]*kindState
	exporter      *Exporter
}

// NewView wires a view over api
func NewView(id string, api domain.ReportingAPI, o Options) *View {
	o = o.withDefaults()
	v := &View{
		ID:            id,
		Created:       o.Now(),
		opts:          o,
		summaryParams: NewParamsBuilder(o.DefaultTZ),
		summary:       NewAggregator(api, o.Timeout),
		kinds:         make(map[domain.Kind]*kindState, len(domain.Kinds)),
		exporter:      NewExporter(api, o.SpoolDir, o.Timeout),
	}
	for _, k := range domain.Kinds {
		v.kinds[k] = &kindState{
			params: NewParamsBuilder(o.DefaultTZ),
			list:   NewRecordingList(k, api, NewSelection(), o.PageLimit, o.Timeout),
		}
	}
	v.touch()
	return v
}

// DefaultSummaryFacets covers the last SummaryDays days in the default zone
func (v *View) DefaultSummaryFacets() domain.Facets {
	from, to := timerange.DefaultWindow(v.opts.Now(), v.opts.SummaryDays, v.opts.DefaultTZ)
	return domain.Facets{DateFrom: from, DateTo: to, TZOffset: v.opts.DefaultTZ}
}

// DefaultRecordingFacets covers the last RecordingDays days in the default zone
func (v *View) DefaultRecordingFacets() domain.Facets {
	from, to := timerange.DefaultWindow(v.opts.Now(), v.opts.RecordingDays, v.opts.DefaultTZ)
	return domain.Facets{DateFrom: from, DateTo: to, TZOffset: v.opts.DefaultTZ}
}

// Mount loads the summary and every list with default facets
// failures are kept in component state and do not fail the mount
func (v *View) Mount(ctx context.Context) {
	var g errgroup.Group
	g.Go(func() error {
		_, _ = v.ApplySummaryFacets(ctx, v.DefaultSummaryFacets())
		return nil
	})
	for _, k := range domain.Kinds {
		g.Go(func() error {
			_, _ = v.ApplyRecordingFacets(ctx, k, v.DefaultRecordingFacets(), domain.Page{})
			return nil
		})
	}
	_ = g.Wait()
}

// ApplySummaryFacets rebuilds the summary parameters and refetches when they changed
func (v *View) ApplySummaryFacets(ctx context.Context, f domain.Facets) (AggregateState, error) {
	v.touch()
	prev := v.summaryParams.Current()
	p, err := v.summaryParams.Build(f)
	if err != nil {
		return v.summary.Snapshot(), err
	}
	if p == prev {
		return v.summary.Snapshot(), nil
	}
	err = v.summary.Load(ctx, p)
	return v.summary.Snapshot(), err
}

// ReloadSummary refetches with the current parameters
func (v *View) ReloadSummary(ctx context.Context) (AggregateState, error) {
	v.touch()
	p := v.summaryParams.Current()
	if p == nil {
		return v.summary.Snapshot(), perr.Validationf("summary filters have not been applied")
	}
	err := v.summary.Load(ctx, p)
	return v.summary.Snapshot(), err
}

// Summary returns the committed summary state
func (v *View) Summary() AggregateState { return v.summary.Snapshot() }

// SummaryFacets returns the facets behind the current summary parameters
func (v *View) SummaryFacets() domain.Facets { return v.summaryParams.Facets() }

// ApplyRecordingFacets rebuilds the kind's parameters and refetches when they or the window changed
func (v *View) ApplyRecordingFacets(ctx context.Context, kind domain.Kind, f domain.Facets, page domain.Page) (ListState, error) {
	v.touch()
	ks, err := v.kind(kind)
	if err != nil {
		return ListState{Kind: kind}, err
	}
	prev := ks.params.Current()
	p, err := ks.params.Build(f)
	if err != nil {
		return ks.list.Snapshot(), err
	}
	snap := ks.list.Snapshot()
	samePage := page.Offset == snap.Page.Offset && (page.Limit == 0 || page.Limit == snap.Page.Limit)
	if p == prev && snap.Params == p && samePage {
		return snap, nil
	}
	err = ks.list.Load(ctx, p, page)
	return ks.list.Snapshot(), err
}

// TurnPage loads another window with the kind's current parameters
func (v *View) TurnPage(ctx context.Context, kind domain.Kind, page domain.Page) (ListState, error) {
	v.touch()
	ks, err := v.kind(kind)
	if err != nil {
		return ListState{Kind: kind}, err
	}
	p := ks.params.Current()
	if p == nil {
		return ks.list.Snapshot(), perr.Validationf("%s filters have not been applied", kind)
	}
	err = ks.list.Load(ctx, p, page)
	return ks.list.Snapshot(), err
}

// ReloadRecordings repeats the kind's last requested window
func (v *View) ReloadRecordings(ctx context.Context, kind domain.Kind) (ListState, error) {
	v.touch()
	ks, err := v.kind(kind)
	if err != nil {
		return ListState{Kind: kind}, err
	}
	err = ks.list.Reload(ctx)
	return ks.list.Snapshot(), err
}

// Recordings returns the committed list state of kind
func (v *View) Recordings(kind domain.Kind) (ListState, error) {
	v.touch()
	ks, err := v.kind(kind)
	if err != nil {
		return ListState{Kind: kind}, err
	}
	return ks.list.Snapshot(), nil
}

// RecordingFacets returns the facets behind the kind's current parameters
func (v *View) RecordingFacets(kind domain.Kind) (domain.Facets, error) {
	ks, err := v.kind(kind)
	if err != nil {
		return domain.Facets{}, err
	}
	return ks.params.Facets(), nil
}

// Selection returns the kind's selection
func (v *View) Selection(kind domain.Kind) (*Selection, error) {
	v.touch()
	ks, err := v.kind(kind)
	if err != nil {
		return nil, err
	}
	return ks.list.Selection(), nil
}

// ExportOne saves one recording of kind
func (v *View) ExportOne(ctx context.Context, dst domain.Saver, kind domain.Kind, id string, format domain.Format) (domain.Download, error) {
	v.touch()
	if _, err := v.kind(kind); err != nil {
		return domain.Download{}, err
	}
	return v.exporter.ExportOne(ctx, dst, kind, id, format)
}

// ExportSelected saves the kind's selection as one archive
// an empty selection is rejected before any upstream call
func (v *View) ExportSelected(ctx context.Context, dst domain.Saver, kind domain.Kind, format domain.Format) (domain.Download, error) {
	v.touch()
	sel, err := v.Selection(kind)
	if err != nil {
		return domain.Download{}, err
	}
	ids := sel.IDs()
	if len(ids) == 0 {
		return domain.Download{}, perr.EmptySelectionf("select at least one %s recording", kind)
	}
	return v.exporter.ExportBulk(ctx, dst, kind, ids, format)
}

// ExportSummary saves the summary CSV for the current summary parameters
func (v *View) ExportSummary(ctx context.Context, dst domain.Saver) (domain.Download, error) {
	v.touch()
	return v.exporter.ExportSummaryCSV(ctx, dst, v.summaryParams.Current())
}

// DefaultSessionsQuery covers the same days as the default summary window
func (v *View) DefaultSessionsQuery() domain.SessionsQuery {
	f := v.DefaultSummaryFacets()
	return domain.SessionsQuery{StartDate: f.DateFrom, EndDate: f.DateTo}
}

// ExportSessions saves the sessions CSV; empty dates fall back to the default window
func (v *View) ExportSessions(ctx context.Context, dst domain.Saver, q domain.SessionsQuery) (domain.Download, error) {
	v.touch()
	if q.StartDate == "" && q.EndDate == "" {
		d := v.DefaultSessionsQuery()
		q.StartDate, q.EndDate = d.StartDate, d.EndDate
	}
	return v.exporter.ExportSessionsCSV(ctx, dst, q)
}

// ExportErr returns the last export failure, nil after a success
func (v *View) ExportErr() error { return v.exporter.LastErr() }

// Close cancels in-flight loads and discards every selection
func (v *View) Close() {
	v.summary.Stop()
	for _, ks := range v.kinds {
		ks.list.Stop()
	}
}

// LastUsed is the time of the most recent operation on the view
func (v *View) LastUsed() time.Time { return time.Unix(0, v.lastUsed.Load()) }

func ownerKey(token string) [sha256.Size]byte { return sha256.Sum256([]byte(token)) }

func (v *View) ownedBy(token string) bool {
	k := ownerKey(token)
	return subtle.ConstantTimeCompare(v.owner[:], k[:]) == 1
}

func (v *View) touch() { v.lastUsed.Store(v.opts.Now().UnixNano()) }

func (v *View) kind(k domain.Kind) (*kindState, error) {
	ks, ok := v.kinds[k]
	if !ok {
		return nil, perr.WithField(perr.Validationf("unknown recording kind %q", k), "kind")
	}
	return ks, nil
}
