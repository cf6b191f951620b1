package consoleapi

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/Frey210/ergoquipt-admin-web/internal/core/timerange"
	perr "github.com/Frey210/ergoquipt-admin-web/internal/platform/errors"
	"github.com/Frey210/ergoquipt-admin-web/internal/services/reporting/domain"
)

const (
	adminV2  = "/api/v2/admin"
	usersV1  = "/api/v1/admin/users"
	exportV1 = "/api/v1/admin/export"
)

var _ domain.ReportingAPI = (*Client)(nil)

// windowQuery renders only the time bounds; open ends are omitted
func windowQuery(p *domain.QueryParams) url.Values {
	q := url.Values{}
	if p == nil {
		return q
	}
	if s := timerange.FormatISO(p.Range().From); s != "" {
		q.Set("from_time", s)
	}
	if s := timerange.FormatISO(p.Range().To); s != "" {
		q.Set("to_time", s)
	}
	return q
}

// rangeQuery is windowQuery plus the operator filter when one is set
func rangeQuery(p *domain.QueryParams) url.Values {
	q := windowQuery(p)
	if p == nil {
		return q
	}
	if id := p.OperatorID(); id != "" {
		q.Set("operator_id", id)
	}
	return q
}

func seriesQuery(p *domain.QueryParams) url.Values {
	q := rangeQuery(p)
	if p == nil {
		return q
	}
	if g := p.GroupBy(); g != "" {
		q.Set("group_by", string(g))
	}
	if m := p.Metric(); m != "" {
		q.Set("metric", string(m))
	}
	return q
}

// ListRecordings fetches one window of recordings of kind
func (c *Client) ListRecordings(ctx context.Context, kind domain.Kind, p *domain.QueryParams, page domain.Page) (domain.RecordingPage, error) {
	q := rangeQuery(p)
	if page.Limit > 0 {
		q.Set("limit", strconv.Itoa(page.Limit))
	}
	q.Set("offset", strconv.Itoa(page.Offset))

	var out recordingListWire
	if err := c.getJSON(ctx, adminV2+"/"+string(kind)+"/recordings", q, &out); err != nil {
		return domain.RecordingPage{}, err
	}
	items := make([]domain.RecordingSummary, 0, len(out.Items))
	for _, it := range out.Items {
		items = append(items, it.toDomain())
	}
	return domain.RecordingPage{Items: items, Total: out.Total}, nil
}

// DownloadRecording streams one recording export
func (c *Client) DownloadRecording(ctx context.Context, kind domain.Kind, id string, format domain.Format) (io.ReadCloser, error) {
	if id == "" {
		return nil, perr.WithField(perr.Validationf("recording id is required"), "id")
	}
	q := url.Values{"format": {string(format)}}
	path := adminV2 + "/" + string(kind) + "/recordings/" + url.PathEscape(id) + "/download"
	return c.stream(ctx, http.MethodGet, path, q, nil)
}

// DownloadRecordingsBulk streams a zip archive of several recordings
func (c *Client) DownloadRecordingsBulk(ctx context.Context, kind domain.Kind, ids []string, format domain.Format) (io.ReadCloser, error) {
	body := bulkDownloadWire{RecordingIDs: ids, Format: string(format)}
	return c.stream(ctx, http.MethodPost, adminV2+"/"+string(kind)+"/recordings/download", nil, body)
}

// SummaryGlobal fetches totals across all operators; the operator filter is never sent
func (c *Client) SummaryGlobal(ctx context.Context, p *domain.QueryParams) (domain.GlobalCounts, error) {
	var out globalWire
	if err := c.getJSON(ctx, adminV2+"/summary/global", windowQuery(p), &out); err != nil {
		return domain.GlobalCounts{}, err
	}
	return domain.GlobalCounts{
		TympaniCount:    out.TympaniCount,
		HRVCount:        out.HRVCount,
		OperatorsActive: out.OperatorsActive,
	}, nil
}

// SummaryByOperator fetches per operator totals
func (c *Client) SummaryByOperator(ctx context.Context, p *domain.QueryParams) ([]domain.OperatorCounts, error) {
	var out operatorsWire
	if err := c.getJSON(ctx, adminV2+"/summary/operators", rangeQuery(p), &out); err != nil {
		return nil, err
	}
	if out.Items == nil {
		out.Items = []domain.OperatorCounts{}
	}
	return out.Items, nil
}

// SummaryTimeseries fetches the bucketed series
func (c *Client) SummaryTimeseries(ctx context.Context, p *domain.QueryParams) (domain.Series, error) {
	var out timeseriesWire
	if err := c.getJSON(ctx, adminV2+"/summary/timeseries", seriesQuery(p), &out); err != nil {
		return domain.Series{}, err
	}
	if out.Series == nil {
		out.Series = []domain.SeriesPoint{}
	}
	return domain.Series{GroupBy: domain.GroupBy(out.GroupBy), Points: out.Series}, nil
}

// ExportSummaryCSV streams the summary as CSV
func (c *Client) ExportSummaryCSV(ctx context.Context, p *domain.QueryParams) (io.ReadCloser, error) {
	return c.stream(ctx, http.MethodGet, adminV2+"/summary/export.csv", seriesQuery(p), nil)
}

// ExportSessionsCSV streams one CSV row per session; dates are sent as local days
func (c *Client) ExportSessionsCSV(ctx context.Context, sq domain.SessionsQuery) (io.ReadCloser, error) {
	q := url.Values{"start_date": {sq.StartDate}, "end_date": {sq.EndDate}}
	if sq.OperatorID != "" {
		q.Set("operator_id", sq.OperatorID)
	}
	if sq.TestType != "" {
		q.Set("test_type", string(sq.TestType))
	}
	return c.stream(ctx, http.MethodGet, exportV1+"/sessions.csv", q, nil)
}

// ListOperators fetches the first hundred users with the operator role
func (c *Client) ListOperators(ctx context.Context) ([]domain.Operator, error) {
	q := url.Values{"role": {"operator"}, "page": {"1"}, "limit": {"100"}}
	var out []userWire
	if err := c.getJSON(ctx, usersV1, q, &out); err != nil {
		return nil, err
	}
	ops := make([]domain.Operator, 0, len(out))
	for _, u := range out {
		ops = append(ops, u.toDomain())
	}
	return ops, nil
}

// Health checks the upstream root health endpoint
func (c *Client) Health(ctx context.Context) (domain.Health, error) {
	var raw map[string]any
	if err := c.getJSON(ctx, "/health", nil, &raw); err != nil {
		return domain.Health{}, err
	}
	h := domain.Health{Status: "ok", Extra: raw}
	if s, ok := raw["status"].(string); ok && s != "" {
		h.Status = s
		delete(raw, "status")
	}
	return h, nil
}
