package service

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	perr "github.com/Frey210/ergoquipt-admin-web/internal/platform/errors"
	"github.com/Frey210/ergoquipt-admin-web/internal/platform/logger"
	"github.com/Frey210/ergoquipt-admin-web/internal/services/reporting/domain"
)

const (
	msgDownloadOne   = "Failed to download recording"
	msgDownloadBulk  = "Failed to download recordings"
	msgExportSummary = "Failed to export summary"
	msgExportSession = "Failed to export sessions"
)

// Exporter downloads payloads from upstream, spools them and hands them to a Saver
// its failures are kept apart from list and summary state
type Exporter struct {
	api      domain.DownloadAPI
	spoolDir string
	timeout  time.Duration

	mu      sync.Mutex
	lastErr error
}

// NewExporter panics on a nil api; spoolDir "" uses the OS temp dir
func NewExporter(api domain.DownloadAPI, spoolDir string, timeout time.Duration) *Exporter {
	if api == nil {
		panic("reporting.Exporter requires a non nil DownloadAPI")
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Exporter{api: api, spoolDir: spoolDir, timeout: timeout}
}

// ExportOne saves one recording as <kind>_<id>.<format>
func (e *Exporter) ExportOne(ctx context.Context, dst domain.Saver, kind domain.Kind, id string, format domain.Format) (domain.Download, error) {
	name := fmt.Sprintf("%s_%s.%s", kind, id, format)
	return e.run(ctx, dst, name, msgDownloadOne, func(ctx context.Context) (io.ReadCloser, error) {
		return e.api.DownloadRecording(ctx, kind, id, format)
	})
}

// ExportBulk saves the given recordings as one <kind>_bulk.zip
// an empty id list makes no upstream call and reports Skipped
func (e *Exporter) ExportBulk(ctx context.Context, dst domain.Saver, kind domain.Kind, ids []string, format domain.Format) (domain.Download, error) {
	if len(ids) == 0 {
		return domain.Download{Skipped: true}, nil
	}
	name := fmt.Sprintf("%s_bulk.zip", kind)
	return e.run(ctx, dst, name, msgDownloadBulk, func(ctx context.Context) (io.ReadCloser, error) {
		return e.api.DownloadRecordingsBulk(ctx, kind, ids, format)
	})
}

// ExportSummaryCSV saves the summary as summary_<groupBy>.csv
func (e *Exporter) ExportSummaryCSV(ctx context.Context, dst domain.Saver, p *domain.QueryParams) (domain.Download, error) {
	if p == nil {
		return domain.Download{}, e.fail(perr.Validationf("summary parameters are required"))
	}
	name := fmt.Sprintf("summary_%s.csv", p.GroupBy())
	return e.run(ctx, dst, name, msgExportSummary, func(ctx context.Context) (io.ReadCloser, error) {
		return e.api.ExportSummaryCSV(ctx, p)
	})
}

// ExportSessionsCSV saves the per session CSV as sessions_<start>_<end>.csv
func (e *Exporter) ExportSessionsCSV(ctx context.Context, dst domain.Saver, q domain.SessionsQuery) (domain.Download, error) {
	if err := q.Validate(); err != nil {
		return domain.Download{}, e.fail(err)
	}
	return e.run(ctx, dst, q.Filename(), msgExportSession, func(ctx context.Context) (io.ReadCloser, error) {
		return e.api.ExportSessionsCSV(ctx, q)
	})
}

// LastErr returns the displayable error of the most recent export, nil after a success
func (e *Exporter) LastErr() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastErr
}

func (e *Exporter) run(ctx context.Context, dst domain.Saver, name, fallback string, fetch func(context.Context) (io.ReadCloser, error)) (domain.Download, error) {
	if dst == nil {
		return domain.Download{}, e.fail(perr.InvalidArgf("export destination is required"))
	}
	fctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	body, err := fetch(fctx)
	if err != nil {
		return domain.Download{}, e.fail(perr.Display(err, perr.CodeOf(err), fallback))
	}
	b, err := spool(e.spoolDir, body)
	if cerr := body.Close(); cerr != nil {
		logger.C(ctx).Debug().Err(cerr).Msg("export body close failed")
	}
	if err != nil {
		return domain.Download{}, e.fail(perr.Display(err, perr.CodeOf(err), fallback))
	}
	defer func() {
		if rerr := b.release(); rerr != nil {
			logger.C(ctx).Error().Err(rerr).Str("spool", b.path()).Msg("export spool release failed")
		}
	}()

	if err := dst.Save(ctx, name, b.size, b.reader()); err != nil {
		return domain.Download{}, e.fail(perr.Display(err, perr.CodeOf(err), fallback))
	}
	e.fail(nil)
	logger.C(ctx).Info().Str("file", name).Int64("bytes", b.size).Msg("export saved")
	return domain.Download{Filename: name, Bytes: b.size}, nil
}

func (e *Exporter) fail(err error) error {
	e.mu.Lock()
	e.lastErr = err
	e.mu.Unlock()
	return err
}
