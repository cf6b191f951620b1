package service

import (
	"context"
	"io"
	"strings"
	"sync"

	"github.com/Frey210/ergoquipt-admin-web/internal/services/reporting/domain"
)

// fakeAPI answers with canned data unless a hook is set
type fakeAPI struct {
	mu    sync.Mutex
	calls map[string]int
	bulk  [][]string

	sessions   []domain.SessionsQuery
	sessionsDL func(q domain.SessionsQuery) (io.ReadCloser, error)

	global     func(ctx context.Context, p *domain.QueryParams) (domain.GlobalCounts, error)
	byOperator func(ctx context.Context, p *domain.QueryParams) ([]domain.OperatorCounts, error)
	series     func(ctx context.Context, p *domain.QueryParams) (domain.Series, error)
	list       func(ctx context.Context, kind domain.Kind, p *domain.QueryParams, page domain.Page) (domain.RecordingPage, error)
	download   func(ctx context.Context, kind domain.Kind, id string, f domain.Format) (io.ReadCloser, error)
	bulkDL     func(ctx context.Context, kind domain.Kind, ids []string, f domain.Format) (io.ReadCloser, error)
}

func newFakeAPI() *fakeAPI { return &fakeAPI{calls: map[string]int{}} }

func (f *fakeAPI) hit(name string) {
	f.mu.Lock()
	f.calls[name]++
	f.mu.Unlock()
}

func (f *fakeAPI) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeAPI) total() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		n += c
	}
	return n
}

func (f *fakeAPI) SummaryGlobal(ctx context.Context, p *domain.QueryParams) (domain.GlobalCounts, error) {
	f.hit("global")
	if f.global != nil {
		return f.global(ctx, p)
	}
	return domain.GlobalCounts{TympaniCount: 1, HRVCount: 2, OperatorsActive: 1}, nil
}

func (f *fakeAPI) SummaryByOperator(ctx context.Context, p *domain.QueryParams) ([]domain.OperatorCounts, error) {
	f.hit("operators")
	if f.byOperator != nil {
		return f.byOperator(ctx, p)
	}
	return []domain.OperatorCounts{{OperatorID: "op-1", OperatorName: "Ayu", TympaniCount: 1, HRVCount: 2}}, nil
}

func (f *fakeAPI) SummaryTimeseries(ctx context.Context, p *domain.QueryParams) (domain.Series, error) {
	f.hit("series")
	if f.series != nil {
		return f.series(ctx, p)
	}
	return domain.Series{GroupBy: p.GroupBy(), Points: []domain.SeriesPoint{{Period: "2024-W01", TympaniCount: 1, HRVCount: 2}}}, nil
}

func (f *fakeAPI) ListRecordings(ctx context.Context, kind domain.Kind, p *domain.QueryParams, page domain.Page) (domain.RecordingPage, error) {
	f.hit("list:" + string(kind))
	if f.list != nil {
		return f.list(ctx, kind, p, page)
	}
	return rows("A", "B", "C"), nil
}

func (f *fakeAPI) DownloadRecording(ctx context.Context, kind domain.Kind, id string, format domain.Format) (io.ReadCloser, error) {
	f.hit("download")
	if f.download != nil {
		return f.download(ctx, kind, id, format)
	}
	return io.NopCloser(strings.NewReader(id + "." + string(format))), nil
}

func (f *fakeAPI) DownloadRecordingsBulk(ctx context.Context, kind domain.Kind, ids []string, format domain.Format) (io.ReadCloser, error) {
	f.hit("bulk")
	f.mu.Lock()
	f.bulk = append(f.bulk, append([]string(nil), ids...))
	f.mu.Unlock()
	if f.bulkDL != nil {
		return f.bulkDL(ctx, kind, ids, format)
	}
	return io.NopCloser(strings.NewReader("PK\x03\x04")), nil
}

func (f *fakeAPI) ExportSummaryCSV(_ context.Context, p *domain.QueryParams) (io.ReadCloser, error) {
	f.hit("summary.csv")
	return io.NopCloser(strings.NewReader("period,tympani_count,hrv_count\n")), nil
}

func (f *fakeAPI) ExportSessionsCSV(_ context.Context, q domain.SessionsQuery) (io.ReadCloser, error) {
	f.hit("sessions.csv")
	f.mu.Lock()
	f.sessions = append(f.sessions, q)
	f.mu.Unlock()
	if f.sessionsDL != nil {
		return f.sessionsDL(q)
	}
	return io.NopCloser(strings.NewReader("session_id,operator_id\n")), nil
}

func (f *fakeAPI) ListOperators(context.Context) ([]domain.Operator, error) {
	f.hit("operators.list")
	return []domain.Operator{{ID: "op-1", Username: "ayu"}}, nil
}

func (f *fakeAPI) Health(context.Context) (domain.Health, error) {
	f.hit("health")
	return domain.Health{Status: "ok"}, nil
}

var _ domain.ReportingAPI = (*fakeAPI)(nil)

func rows(ids ...string) domain.RecordingPage {
	out := domain.RecordingPage{Total: len(ids)}
	for _, id := range ids {
		out.Items = append(out.Items, domain.RecordingSummary{ID: id, Label: "label " + id})
	}
	return out
}

// memSaver keeps the last saved payload
type memSaver struct {
	mu    sync.Mutex
	names []string
	data  string
	size  int64
	err   error
}

func (m *memSaver) Save(_ context.Context, name string, size int64, body io.Reader) error {
	if m.err != nil {
		return m.err
	}
	b, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.names = append(m.names, name)
	m.data = string(b)
	m.size = size
	return nil
}
