package service

import (
	"context"
	"sync"
	"testing"
	"time"

	perr "github.com/Frey210/ergoquipt-admin-web/internal/platform/errors"
	pnet "github.com/Frey210/ergoquipt-admin-web/internal/platform/net"
	"github.com/Frey210/ergoquipt-admin-web/internal/services/reporting/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func TestViews_CreateMounts(t *testing.T) {
	api := newFakeAPI()
	c := &clock{now: time.Date(2024, 3, 10, 2, 0, 0, 0, time.UTC)}
	vs := NewViews(api, Options{Now: c.Now})

	v := vs.Create(context.Background())
	assert.Equal(t, 1, vs.Len())
	assert.Equal(t, 1, api.count("global"))
	assert.Equal(t, 1, api.count("list:hrv"))
	assert.Equal(t, 1, api.count("list:tympani"))

	sum := v.Summary()
	require.NotNil(t, sum.View)
	f := v.SummaryFacets()
	assert.Equal(t, "2024-02-09", f.DateFrom)
	assert.Equal(t, "2024-03-10", f.DateTo)
	assert.Equal(t, 8, f.TZOffset)

	rf, err := v.RecordingFacets(domain.KindHRV)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-03", rf.DateFrom)

	got, err := vs.Get(context.Background(), v.ID)
	require.NoError(t, err)
	assert.Same(t, v, got)
}

func TestViews_GetDeleteNotFound(t *testing.T) {
	vs := NewViews(newFakeAPI(), Options{})

	_, err := vs.Get(context.Background(), "not-a-uuid")
	assert.True(t, perr.IsCode(err, perr.ErrorCodeNotFound))
	_, err = vs.Get(context.Background(), "7a1e4c44-3f55-4b8e-9d3c-1a2b3c4d5e6f")
	assert.True(t, perr.IsCode(err, perr.ErrorCodeNotFound))

	v := vs.Create(context.Background())
	require.NoError(t, vs.Delete(context.Background(), v.ID))
	assert.Zero(t, vs.Len())
	assert.True(t, perr.IsCode(vs.Delete(context.Background(), v.ID), perr.ErrorCodeNotFound))
}

func TestViews_OwnedByCreatorToken(t *testing.T) {
	vs := NewViews(newFakeAPI(), Options{})
	owner := pnet.WithToken(context.Background(), "owner-token")
	other := pnet.WithToken(context.Background(), "other-token")

	v := vs.Create(owner)
	got, err := vs.Get(owner, v.ID)
	require.NoError(t, err)
	assert.Same(t, v, got)

	_, err = vs.Get(other, v.ID)
	assert.True(t, perr.IsCode(err, perr.ErrorCodeNotFound))
	_, err = vs.Get(context.Background(), v.ID)
	assert.True(t, perr.IsCode(err, perr.ErrorCodeNotFound))

	assert.True(t, perr.IsCode(vs.Delete(other, v.ID), perr.ErrorCodeNotFound))
	assert.Equal(t, 1, vs.Len(), "a foreign delete leaves the view in place")
	require.NoError(t, vs.Delete(owner, v.ID))
	assert.Zero(t, vs.Len())
}

func TestViews_Sweep(t *testing.T) {
	c := &clock{now: time.Date(2024, 3, 10, 2, 0, 0, 0, time.UTC)}
	vs := NewViews(newFakeAPI(), Options{Now: c.Now})

	old := vs.Create(context.Background())
	c.Advance(20 * time.Minute)
	fresh := vs.Create(context.Background())
	c.Advance(15 * time.Minute)

	assert.Equal(t, 1, vs.Sweep(30*time.Minute))
	_, err := vs.Get(context.Background(), old.ID)
	assert.Error(t, err)
	_, err = vs.Get(context.Background(), fresh.ID)
	assert.NoError(t, err)

	// any operation keeps a view alive
	c.Advance(10 * time.Minute)
	_, _ = fresh.ReloadSummary(context.Background())
	c.Advance(25 * time.Minute)
	assert.Zero(t, vs.Sweep(30*time.Minute))
}

func TestView_ApplySummaryFacetsFetchesOnChangeOnly(t *testing.T) {
	api := newFakeAPI()
	v := NewView("v1", api, Options{})

	f := domain.Facets{DateFrom: "2024-01-01", DateTo: "2024-01-31"}
	_, err := v.ApplySummaryFacets(context.Background(), f)
	require.NoError(t, err)
	_, err = v.ApplySummaryFacets(context.Background(), f)
	require.NoError(t, err)
	assert.Equal(t, 1, api.count("global"))

	f.OperatorID = "op-1"
	st, err := v.ApplySummaryFacets(context.Background(), f)
	require.NoError(t, err)
	assert.Equal(t, 2, api.count("global"))
	assert.Equal(t, "op-1", st.View.Params.OperatorID())

	// invalid facets keep the committed summary
	_, err = v.ApplySummaryFacets(context.Background(), domain.Facets{DateFrom: "2024-02-01", DateTo: "2024-01-01"})
	assert.True(t, perr.IsCode(err, perr.ErrorCodeValidation))
	assert.Equal(t, "op-1", v.Summary().View.Params.OperatorID())
	assert.Equal(t, 2, api.count("global"))
}

func TestView_RecordingWindows(t *testing.T) {
	api := newFakeAPI()
	v := NewView("v1", api, Options{PageLimit: 2})
	f := domain.Facets{DateFrom: "2024-01-01"}

	st, err := v.ApplyRecordingFacets(context.Background(), domain.KindTympani, f, domain.Page{})
	require.NoError(t, err)
	assert.Equal(t, domain.Page{Limit: 2}, st.Page)

	_, err = v.ApplyRecordingFacets(context.Background(), domain.KindTympani, f, domain.Page{})
	require.NoError(t, err)
	assert.Equal(t, 1, api.count("list:tympani"))

	st, err = v.TurnPage(context.Background(), domain.KindTympani, domain.Page{Limit: 2, Offset: 2})
	require.NoError(t, err)
	assert.Equal(t, 2, st.Page.Offset)
	assert.Equal(t, 2, api.count("list:tympani"))

	st, err = v.ApplyRecordingFacets(context.Background(), domain.KindTympani, domain.Facets{DateFrom: "2024-01-02"}, domain.Page{Limit: 2, Offset: 2})
	require.NoError(t, err)
	assert.Equal(t, 0, st.Page.Offset, "new filters start at the first page")

	_, err = v.ReloadRecordings(context.Background(), domain.KindTympani)
	require.NoError(t, err)
	assert.Equal(t, 4, api.count("list:tympani"))
	assert.Zero(t, api.count("list:hrv"))
}

func TestView_UnknownKindAndUnappliedFilters(t *testing.T) {
	v := NewView("v1", newFakeAPI(), Options{})

	_, err := v.Recordings(domain.Kind("ecg"))
	assert.True(t, perr.IsCode(err, perr.ErrorCodeValidation))
	_, err = v.Selection(domain.Kind("ecg"))
	assert.Error(t, err)

	_, err = v.TurnPage(context.Background(), domain.KindHRV, domain.Page{Offset: 50})
	assert.True(t, perr.IsCode(err, perr.ErrorCodeValidation))
	_, err = v.ReloadSummary(context.Background())
	assert.True(t, perr.IsCode(err, perr.ErrorCodeValidation))
}

func TestView_ExportSessionsDefaultsToSummaryWindow(t *testing.T) {
	api := newFakeAPI()
	c := &clock{now: time.Date(2024, 3, 10, 2, 0, 0, 0, time.UTC)}
	v := NewView("v1", api, Options{Now: c.Now, SpoolDir: t.TempDir()})
	dst := &memSaver{}

	d, err := v.ExportSessions(context.Background(), dst, domain.SessionsQuery{OperatorID: "op-1"})
	require.NoError(t, err)
	assert.Equal(t, "sessions_2024-02-09_2024-03-10.csv", d.Filename)
	require.Len(t, api.sessions, 1)
	assert.Equal(t, domain.SessionsQuery{StartDate: "2024-02-09", EndDate: "2024-03-10", OperatorID: "op-1"}, api.sessions[0])

	_, err = v.ExportSessions(context.Background(), dst, domain.SessionsQuery{StartDate: "2024-03-01"})
	assert.True(t, perr.IsCode(err, perr.ErrorCodeValidation))
	assert.Equal(t, err, v.ExportErr())
	assert.Len(t, api.sessions, 1)
}
