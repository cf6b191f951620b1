package domain

import (
	"context"
	"io"
)

// SummaryAPI is the upstream aggregation surface
type SummaryAPI interface {
	SummaryGlobal(ctx context.Context, p *QueryParams) (GlobalCounts, error)
	SummaryByOperator(ctx context.Context, p *QueryParams) ([]OperatorCounts, error)
	SummaryTimeseries(ctx context.Context, p *QueryParams) (Series, error)
}

// RecordingsAPI lists recording batches of one kind
type RecordingsAPI interface {
	ListRecordings(ctx context.Context, kind Kind, p *QueryParams, page Page) (RecordingPage, error)
}

// DownloadAPI streams export payloads; callers close the returned body
type DownloadAPI interface {
	DownloadRecording(ctx context.Context, kind Kind, id string, format Format) (io.ReadCloser, error)
	DownloadRecordingsBulk(ctx context.Context, kind Kind, ids []string, format Format) (io.ReadCloser, error)
	ExportSummaryCSV(ctx context.Context, p *QueryParams) (io.ReadCloser, error)
	ExportSessionsCSV(ctx context.Context, q SessionsQuery) (io.ReadCloser, error)
}

// ReportingAPI is everything the reporting service consumes from upstream
type ReportingAPI interface {
	SummaryAPI
	RecordingsAPI
	DownloadAPI
	ListOperators(ctx context.Context) ([]Operator, error)
	Health(ctx context.Context) (Health, error)
}

// Saver is the destination of an export
// size is the payload length in bytes
type Saver interface {
	Save(ctx context.Context, filename string, size int64, body io.Reader) error
}
