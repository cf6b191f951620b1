package service

import (
	"sync"

	"github.com/Frey210/ergoquipt-admin-web/internal/core/timerange"
	"github.com/Frey210/ergoquipt-admin-web/internal/services/reporting/domain"
)

// ParamsBuilder derives QueryParams from Facets and memoizes on the facet values
// an unchanged input returns the identical pointer so callers can compare by identity
type ParamsBuilder struct {
	defaultTZ int

	mu   sync.Mutex
	last domain.Facets
	cur  *domain.QueryParams
}

// NewParamsBuilder creates a builder; defaultTZ fills an empty TZOffset
func NewParamsBuilder(defaultTZ int) *ParamsBuilder {
	if !timerange.IsZone(defaultTZ) {
		defaultTZ = timerange.DefaultZone
	}
	return &ParamsBuilder{defaultTZ: defaultTZ}
}

// Build validates f and returns the current parameter set
// failures leave the previous set in place
func (b *ParamsBuilder) Build(f domain.Facets) (*domain.QueryParams, error) {
	f = b.withDefaults(f)

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.cur != nil && f == b.last {
		return b.cur, nil
	}

	if err := f.Validate(); err != nil {
		return nil, err
	}
	r, err := timerange.Normalize(f.DateFrom, f.DateTo, f.TZOffset)
	if err != nil {
		return nil, err
	}
	b.cur = domain.NewQueryParams(r, f.TZOffset, f.OperatorID, f.GroupBy, f.Metric)
	b.last = f
	return b.cur, nil
}

// Current returns the last built set, nil before the first successful Build
func (b *ParamsBuilder) Current() *domain.QueryParams {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.cur
}

// Facets returns the facets behind Current with defaults applied
func (b *ParamsBuilder) Facets() domain.Facets {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.last
}

func (b *ParamsBuilder) withDefaults(f domain.Facets) domain.Facets {
	if f.TZOffset == 0 {
		f.TZOffset = b.defaultTZ
	}
	if f.GroupBy == "" {
		f.GroupBy = domain.GroupWeek
	}
	if f.Metric == "" {
		f.Metric = domain.MetricBoth
	}
	return f
}
