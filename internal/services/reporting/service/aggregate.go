package service

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	perr "github.com/Frey210/ergoquipt-admin-web/internal/platform/errors"
	"github.com/Frey210/ergoquipt-admin-web/internal/platform/logger"
	"github.com/Frey210/ergoquipt-admin-web/internal/services/reporting/domain"

	"golang.org/x/sync/errgroup"
)

const msgSummaryFailed = "Failed to load summary"

// AggregateState is what observers of an Aggregator see
type AggregateState struct {
	Loading bool
	Err     error
	View    *domain.AggregateView
}

// Aggregator fetches the three summary slots for one parameter set and commits them together
// the last Load wins; superseded loads are cancelled and never committed
type Aggregator struct {
	api     domain.SummaryAPI
	timeout time.Duration

	gen atomic.Uint64

	mu     sync.Mutex
	cancel context.CancelFunc
	state  AggregateState
}

// NewAggregator panics on a nil api
func NewAggregator(api domain.SummaryAPI, timeout time.Duration) *Aggregator {
	if api == nil {
		panic("reporting.Aggregator requires a non nil SummaryAPI")
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Aggregator{api: api, timeout: timeout}
}

// Load fetches global, per operator and series data for p
// the returned error is the committed one; a superseded load returns nil
func (a *Aggregator) Load(ctx context.Context, p *domain.QueryParams) error {
	if p == nil {
		return perr.Validationf("summary parameters are required")
	}
	gen := a.gen.Add(1)
	fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), a.timeout)
	defer cancel()

	a.mu.Lock()
	if a.gen.Load() != gen {
		a.mu.Unlock()
		return nil
	}
	if a.cancel != nil {
		a.cancel()
	}
	a.cancel = cancel
	a.state.Loading = true
	a.state.Err = nil
	a.mu.Unlock()

	var (
		global domain.GlobalCounts
		byOp   []domain.OperatorCounts
		series domain.Series
	)
	g, gctx := errgroup.WithContext(fctx)
	g.Go(func() error {
		var err error
		global, err = a.api.SummaryGlobal(gctx, p)
		return err
	})
	g.Go(func() error {
		var err error
		byOp, err = a.api.SummaryByOperator(gctx, p)
		return err
	})
	g.Go(func() error {
		var err error
		series, err = a.api.SummaryTimeseries(gctx, p)
		return err
	})
	err := g.Wait()

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.gen.Load() != gen {
		logger.C(ctx).Debug().Uint64("generation", gen).Msg("stale summary result dropped")
		return nil
	}
	a.cancel = nil
	a.state.Loading = false
	if err != nil {
		a.state.View = nil
		a.state.Err = perr.Display(err, perr.ErrorCodePartialAggregation, msgSummaryFailed)
		logger.C(ctx).Warn().Err(err).Msg("summary load failed")
		return a.state.Err
	}
	groupBy := series.GroupBy
	if groupBy == "" {
		groupBy = p.GroupBy()
	}
	a.state.View = &domain.AggregateView{
		Params:     p,
		GroupBy:    groupBy,
		Global:     global,
		ByOperator: byOp,
		Series:     series.Points,
	}
	return nil
}

// Snapshot returns the committed state
func (a *Aggregator) Snapshot() AggregateState {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

// Stop cancels an in-flight load and invalidates its result
func (a *Aggregator) Stop() {
	a.gen.Add(1)
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
	a.state.Loading = false
}
