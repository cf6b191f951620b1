package consoleapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Frey210/ergoquipt-admin-web/internal/core/timerange"
	perr "github.com/Frey210/ergoquipt-admin-web/internal/platform/errors"
	"github.com/Frey210/ergoquipt-admin-web/internal/services/reporting/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memTokens struct {
	tok     atomic.Value
	cleared atomic.Int32
}

func newMemTokens(tok string) *memTokens {
	m := &memTokens{}
	m.tok.Store(tok)
	return m
}

func (m *memTokens) Token(context.Context) string { return m.tok.Load().(string) }

func (m *memTokens) ClearToken(context.Context) error {
	m.cleared.Add(1)
	m.tok.Store("")
	return nil
}

func newClient(t *testing.T, h http.HandlerFunc, ts TokenSource) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := NewClient(Options{BaseURL: srv.URL + "/", Timeout: 2 * time.Second, Tokens: ts})
	require.NoError(t, err)
	return c
}

func weekParams(t *testing.T) *domain.QueryParams {
	t.Helper()
	r, err := timerange.Normalize("2024-01-01", "2024-01-07", 9)
	require.NoError(t, err)
	return domain.NewQueryParams(r, 9, "op-7", domain.GroupWeek, domain.MetricBoth)
}

func TestNewClient_Validates(t *testing.T) {
	_, err := NewClient(Options{})
	assert.True(t, perr.IsCode(err, perr.ErrorCodeInvalidArgument))
	_, err = NewClient(Options{BaseURL: "/relative"})
	assert.Error(t, err)

	c, err := NewClient(Options{BaseURL: "https://lab.example.com/"})
	require.NoError(t, err)
	assert.Equal(t, "https://lab.example.com", c.BaseURL())
}

func TestListRecordings_QueryAndMapping(t *testing.T) {
	var got *http.Request
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = r
		_, _ = io.WriteString(w, `{"items":[{"id":"r1","label":"L1","operator_id":"op-7","operator_name":"Ayu",
			"respondent":{"local_id":3,"name":"Sari","age":24,"gender":"F"},
			"time_start":"2024-01-02T01:00:00Z","time_end":"2024-01-02T01:05:00",
			"count":300,"created_at":"2024-01-02T01:06:00+08:00"}],"total":51}`)
	}, newMemTokens("tok-1"))

	page, err := c.ListRecordings(context.Background(), domain.KindHRV, weekParams(t), domain.Page{Limit: 50, Offset: 50})
	require.NoError(t, err)

	assert.Equal(t, "/api/v2/admin/hrv/recordings", got.URL.Path)
	q := got.URL.Query()
	assert.Equal(t, "2023-12-31T15:00:00.000Z", q.Get("from_time"))
	assert.Equal(t, "2024-01-07T14:59:59.000Z", q.Get("to_time"))
	assert.Equal(t, "op-7", q.Get("operator_id"))
	assert.Equal(t, "50", q.Get("limit"))
	assert.Equal(t, "50", q.Get("offset"))
	assert.Equal(t, "Bearer tok-1", got.Header.Get("Authorization"))

	require.Len(t, page.Items, 1)
	assert.Equal(t, 51, page.Total)
	it := page.Items[0]
	assert.Equal(t, "r1", it.ID)
	assert.Equal(t, 300, it.SampleCount)
	assert.Equal(t, "Sari (#3, F, 24y)", it.Respondent.Descriptor())
	assert.Equal(t, time.Date(2024, 1, 2, 1, 5, 0, 0, time.UTC), it.TimeEnd)
	assert.Equal(t, time.Date(2024, 1, 1, 17, 6, 0, 0, time.UTC), it.CreatedAt)
}

func TestListRecordings_OpenRangeOmitsBounds(t *testing.T) {
	var q map[string][]string
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		q = r.URL.Query()
		_, _ = io.WriteString(w, `{"items":[],"total":0}`)
	}, nil)

	p := domain.NewQueryParams(timerange.Range{}, 8, "", domain.GroupWeek, domain.MetricBoth)
	_, err := c.ListRecordings(context.Background(), domain.KindTympani, p, domain.Page{Limit: 50})
	require.NoError(t, err)
	assert.NotContains(t, q, "from_time")
	assert.NotContains(t, q, "to_time")
	assert.NotContains(t, q, "operator_id")
}

func TestSummaries(t *testing.T) {
	mux := http.NewServeMux()
	var globalQ, operatorsQ map[string][]string
	mux.HandleFunc("/api/v2/admin/summary/global", func(w http.ResponseWriter, r *http.Request) {
		globalQ = r.URL.Query()
		_, _ = io.WriteString(w, `{"range":{"from":"a","to":"b"},"tympani_count":4,"hrv_count":6,"operators_active":2}`)
	})
	mux.HandleFunc("/api/v2/admin/summary/operators", func(w http.ResponseWriter, r *http.Request) {
		operatorsQ = r.URL.Query()
		_, _ = io.WriteString(w, `{"range":{},"items":[{"operator_id":"op-7","operator_name":"Ayu","tympani_count":4,"hrv_count":6}]}`)
	})
	var seriesQ map[string][]string
	mux.HandleFunc("/api/v2/admin/summary/timeseries", func(w http.ResponseWriter, r *http.Request) {
		seriesQ = r.URL.Query()
		_, _ = io.WriteString(w, `{"range":{},"group_by":"week","series":[{"period":"2024-W01","tympani_count":4,"hrv_count":6}]}`)
	})
	c := newClient(t, mux.ServeHTTP, nil)
	p := weekParams(t)
	ctx := context.Background()

	g, err := c.SummaryGlobal(ctx, p)
	require.NoError(t, err)
	assert.Equal(t, domain.GlobalCounts{TympaniCount: 4, HRVCount: 6, OperatorsActive: 2}, g)
	assert.Equal(t, "2023-12-31T15:00:00.000Z", globalQ["from_time"][0])
	assert.Equal(t, "2024-01-07T14:59:59.000Z", globalQ["to_time"][0])
	assert.NotContains(t, globalQ, "operator_id")

	ops, err := c.SummaryByOperator(ctx, p)
	require.NoError(t, err)
	require.Len(t, ops, 1)
	assert.Equal(t, "Ayu", ops[0].OperatorName)
	assert.Equal(t, "op-7", operatorsQ["operator_id"][0])

	s, err := c.SummaryTimeseries(ctx, p)
	require.NoError(t, err)
	assert.Equal(t, domain.GroupWeek, s.GroupBy)
	assert.Equal(t, "2024-W01", s.Points[0].Period)
	assert.Equal(t, "week", seriesQ["group_by"][0])
	assert.Equal(t, "both", seriesQ["metric"][0])
	assert.Equal(t, "op-7", seriesQ["operator_id"][0])
}

func TestDownloads(t *testing.T) {
	var bulk bulkDownloadWire
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v2/admin/tympani/recordings/{id}/download", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, r.PathValue("id")+","+r.URL.Query().Get("format"))
	})
	mux.HandleFunc("POST /api/v2/admin/hrv/recordings/download", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&bulk)
		_, _ = io.WriteString(w, "PK")
	})
	mux.HandleFunc("GET /api/v2/admin/summary/export.csv", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "period,tympani,hrv\n"+r.URL.Query().Get("group_by"))
	})
	var sessionsQ map[string][]string
	mux.HandleFunc("GET /api/v1/admin/export/sessions.csv", func(w http.ResponseWriter, r *http.Request) {
		sessionsQ = r.URL.Query()
		_, _ = io.WriteString(w, "session_id\nS1")
	})
	c := newClient(t, mux.ServeHTTP, nil)
	ctx := context.Background()

	read := func(rc io.ReadCloser, err error) string {
		t.Helper()
		require.NoError(t, err)
		defer func() { _ = rc.Close() }()
		b, err := io.ReadAll(rc)
		require.NoError(t, err)
		return string(b)
	}

	assert.Equal(t, "r 1,json", read(c.DownloadRecording(ctx, domain.KindTympani, "r 1", domain.FormatJSON)))
	assert.Equal(t, "PK", read(c.DownloadRecordingsBulk(ctx, domain.KindHRV, []string{"A", "C"}, domain.FormatCSV)))
	assert.Equal(t, []string{"A", "C"}, bulk.RecordingIDs)
	assert.Equal(t, "csv", bulk.Format)
	assert.Equal(t, "period,tympani,hrv\nweek", read(c.ExportSummaryCSV(ctx, weekParams(t))))

	assert.Equal(t, "session_id\nS1", read(c.ExportSessionsCSV(ctx, domain.SessionsQuery{StartDate: "2024-01-01", EndDate: "2024-01-31", OperatorID: "op-7"})))
	assert.Equal(t, "2024-01-01", sessionsQ["start_date"][0])
	assert.Equal(t, "2024-01-31", sessionsQ["end_date"][0])
	assert.Equal(t, "op-7", sessionsQ["operator_id"][0])
	assert.NotContains(t, sessionsQ, "test_type")

	_, err := c.DownloadRecording(ctx, domain.KindTympani, "", domain.FormatCSV)
	assert.True(t, perr.IsCode(err, perr.ErrorCodeValidation))
}

func TestStatusErrors_DetailAndCodes(t *testing.T) {
	cases := []struct {
		status int
		body   string
		code   perr.ErrorCode
		detail string
	}{
		{http.StatusBadRequest, `{"detail":"from_time must be before to_time"}`, perr.ErrorCodeValidation, "from_time must be before to_time"},
		{http.StatusUnprocessableEntity, `{"detail":[{"loc":["query"],"msg":"bad"}]}`, perr.ErrorCodeValidation, ""},
		{http.StatusNotFound, `{"detail":"Recording not found"}`, perr.ErrorCodeNotFound, "Recording not found"},
		{http.StatusInternalServerError, `oops`, perr.ErrorCodeUnavailable, ""},
		{http.StatusBadGateway, `{"detail":"db down"}`, perr.ErrorCodeUnavailable, "db down"},
		{http.StatusServiceUnavailable, ``, perr.ErrorCodeUnavailable, ""},
	}
	for _, tc := range cases {
		c := newClient(t, func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(tc.status)
			_, _ = io.WriteString(w, tc.body)
		}, nil)
		_, err := c.SummaryGlobal(context.Background(), weekParams(t))
		require.Error(t, err)
		assert.Equal(t, tc.code, perr.CodeOf(err), "status %d", tc.status)
		assert.Equal(t, tc.detail, perr.Detail(err), "status %d", tc.status)
		assert.False(t, perr.IsNetwork(err), "status %d", tc.status)
		var se *StatusError
		require.ErrorAs(t, err, &se)
		assert.Equal(t, tc.status, se.HTTPStatus())
	}
}

func TestUnauthorizedClearsToken(t *testing.T) {
	toks := newMemTokens("expired")
	var auth atomic.Value
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		auth.Store(r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"detail":"Could not validate credentials"}`)
	}, toks)

	_, err := c.ListOperators(context.Background())
	require.Error(t, err)
	assert.True(t, IsUnauthorized(err))
	assert.True(t, perr.IsCode(err, perr.ErrorCodeUnauthorized))
	assert.Equal(t, int32(1), toks.cleared.Load())
	assert.Equal(t, "Bearer expired", auth.Load())

	_, _ = c.ListOperators(context.Background())
	assert.Equal(t, "", auth.Load(), "cleared token must not be sent again")
}

func TestTransportTimeoutIsNetwork(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(func() { close(release); srv.Close() })

	c, err := NewClient(Options{BaseURL: srv.URL, Timeout: 50 * time.Millisecond})
	require.NoError(t, err)
	_, err = c.SummaryGlobal(context.Background(), weekParams(t))
	require.Error(t, err)
	assert.True(t, perr.IsNetwork(err))
	assert.Equal(t, "Failed to load summary", perr.MessageOr(err, "Failed to load summary"))
}

func TestOperatorsAndHealth(t *testing.T) {
	mux := http.NewServeMux()
	var usersQ map[string][]string
	mux.HandleFunc("/api/v1/admin/users", func(w http.ResponseWriter, r *http.Request) {
		usersQ = r.URL.Query()
		_, _ = io.WriteString(w, `[{"id":"u1","username":"ayu","email":"a@lab","full_name":"Ayu P","role":"operator","status":"active"}]`)
	})
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"status":"healthy","db":"ok"}`)
	})
	c := newClient(t, mux.ServeHTTP, TokenFunc(func(context.Context) string { return "t" }))

	ops, err := c.ListOperators(context.Background())
	require.NoError(t, err)
	require.Len(t, ops, 1)
	assert.Equal(t, "Ayu P", ops[0].DisplayName())
	assert.Equal(t, "operator", usersQ["role"][0])
	assert.Equal(t, "100", usersQ["limit"][0])

	h, err := c.Health(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "healthy", h.Status)
	assert.Equal(t, "ok", h.Extra["db"])
}

func TestWithTokens(t *testing.T) {
	var auth string
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		_, _ = io.WriteString(w, `{}`)
	}, nil)

	_, err := c.WithTokens(TokenFunc(func(context.Context) string { return "per-request" })).Health(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer per-request", auth)

	_, err = c.Health(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "", auth)
}
