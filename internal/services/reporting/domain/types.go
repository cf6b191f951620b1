// Package domain holds reporting types independent of transport or upstream wire shapes
package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/Frey210/ergoquipt-admin-web/internal/core/timerange"
	perr "github.com/Frey210/ergoquipt-admin-web/internal/platform/errors"
	str "github.com/Frey210/ergoquipt-admin-web/internal/platform/strings"
)

// Kind is a recording modality
type Kind string

const (
	// KindTympani is tympanic temperature
	KindTympani Kind = "tympani"

	// KindHRV is heart rate variability
	KindHRV Kind = "hrv"
)

// Kinds lists every recording kind in display order
var Kinds = []Kind{KindTympani, KindHRV}

// ParseKind validates a path or flag value
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case KindTympani, KindHRV:
		return k, nil
	default:
		return "", perr.WithField(perr.Validationf("kind must be one of [tympani hrv]"), "kind")
	}
}

// Label is the human name used in fallback messages
func (k Kind) Label() string {
	if k == KindHRV {
		return "HRV"
	}
	return "tympani"
}

// Format is an export payload format
type Format string

const (
	// FormatCSV is comma separated values
	FormatCSV Format = "csv"

	// FormatJSON is a JSON document
	FormatJSON Format = "json"
)

// ParseFormat validates an export format, empty means csv
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatCSV, nil
	case FormatCSV, FormatJSON:
		return f, nil
	default:
		return "", perr.WithField(perr.Validationf("format must be one of [csv json]"), "format")
	}
}

// GroupBy is the time bucket of a summary series
type GroupBy string

const (
	// GroupDay buckets by calendar day
	GroupDay GroupBy = "day"

	// GroupWeek buckets by ISO week
	GroupWeek GroupBy = "week"

	// GroupMonth buckets by calendar month
	GroupMonth GroupBy = "month"
)

// Metric selects which kinds a series counts
type Metric string

const (
	// MetricTympani counts tympani batches only
	MetricTympani Metric = "tympani"

	// MetricHRV counts hrv batches only
	MetricHRV Metric = "hrv"

	// MetricBoth counts both kinds
	MetricBoth Metric = "both"
)

// QueryParams is the immutable parameter set derived from Facets
// identity is pointer identity; see service.ParamsBuilder
type QueryParams struct {
	rng        timerange.Range
	tzOffset   int
	operatorID string
	groupBy    GroupBy
	metric     Metric
}

// NewQueryParams builds a parameter set
func NewQueryParams(r timerange.Range, tzOffset int, operatorID string, groupBy GroupBy, metric Metric) *QueryParams {
	return &QueryParams{rng: r, tzOffset: tzOffset, operatorID: operatorID, groupBy: groupBy, metric: metric}
}

// Range returns the UTC range
func (p *QueryParams) Range() timerange.Range { return p.rng }

// TZOffset returns the offset the range was entered in
func (p *QueryParams) TZOffset() int { return p.tzOffset }

// OperatorID returns the operator filter, "" for all operators
func (p *QueryParams) OperatorID() string { return p.operatorID }

// GroupBy returns the series bucket
func (p *QueryParams) GroupBy() GroupBy { return p.groupBy }

// Metric returns the series metric
func (p *QueryParams) Metric() Metric { return p.metric }

// Page is an offset window over a list
type Page struct {
	Limit  int `json:"limit" validate:"omitempty,min=1,max=500" example:"50"`
	Offset int `json:"offset" validate:"omitempty,min=0" example:"0"`
}

// Prev returns the previous window clamped at zero
func (p Page) Prev() Page {
	return Page{Limit: p.Limit, Offset: max(p.Offset-p.Limit, 0)}
}

// Next returns the following window
func (p Page) Next() Page { return Page{Limit: p.Limit, Offset: p.Offset + p.Limit} }

// HasPrev reports whether a previous window exists
func (p Page) HasPrev() bool { return p.Offset > 0 }

// HasNext reports whether rows remain after this window
func (p Page) HasNext(total int) bool { return p.Offset+p.Limit < total }

// Respondent is the subject a recording was taken from
type Respondent struct {
	LocalID   *int     `json:"local_id,omitempty"`
	Name      string   `json:"name"`
	Age       *int     `json:"age,omitempty"`
	Gender    string   `json:"gender,omitempty"`
	Height    *float64 `json:"height,omitempty"`
	Weight    *float64 `json:"weight,omitempty"`
	CreatedAt string   `json:"created_at,omitempty"`
}

// Descriptor renders the respondent as shown in recording lists
func (r Respondent) Descriptor() string {
	name := str.Or(r.Name, "-")
	var parts []string
	if r.LocalID != nil {
		parts = append(parts, fmt.Sprintf("#%d", *r.LocalID))
	}
	if !str.Blank(r.Gender) {
		parts = append(parts, strings.TrimSpace(r.Gender))
	}
	if r.Age != nil {
		parts = append(parts, fmt.Sprintf("%dy", *r.Age))
	}
	if len(parts) == 0 {
		return name
	}
	return name + " (" + strings.Join(parts, ", ") + ")"
}

// RecordingSummary is a read-only projection of one recording batch
type RecordingSummary struct {
	ID           string     `json:"id"`
	Label        string     `json:"label"`
	OperatorID   string     `json:"operator_id"`
	OperatorName string     `json:"operator_name,omitempty"`
	Respondent   Respondent `json:"respondent"`
	TimeStart    time.Time  `json:"time_start"`
	TimeEnd      time.Time  `json:"time_end"`
	SampleCount  int        `json:"count"`
	CreatedAt    time.Time  `json:"created_at"`
}

// RecordingPage is one window of recordings plus the unwindowed total
type RecordingPage struct {
	Items []RecordingSummary
	Total int
}

// IDs returns the item ids in order
func (p RecordingPage) IDs() []string {
	out := make([]string, 0, len(p.Items))
	for _, it := range p.Items {
		out = append(out, it.ID)
	}
	return out
}

// GlobalCounts are totals across all operators
type GlobalCounts struct {
	TympaniCount    int `json:"tympani_count"`
	HRVCount        int `json:"hrv_count"`
	OperatorsActive int `json:"operators_active"`
}

// OperatorCounts are totals for one operator
type OperatorCounts struct {
	OperatorID   string `json:"operator_id"`
	OperatorName string `json:"operator_name"`
	TympaniCount int    `json:"tympani_count"`
	HRVCount     int    `json:"hrv_count"`
}

// SeriesPoint is one time bucket
type SeriesPoint struct {
	Period       string `json:"period"`
	TympaniCount int    `json:"tympani_count"`
	HRVCount     int    `json:"hrv_count"`
}

// Series is a bucketed time series
type Series struct {
	GroupBy GroupBy
	Points  []SeriesPoint
}

// AggregateView is the committed result of one summary fan-out
// all slots were fetched with the same Params
type AggregateView struct {
	Params     *QueryParams     `json:"-"`
	GroupBy    GroupBy          `json:"group_by"`
	Global     GlobalCounts     `json:"global"`
	ByOperator []OperatorCounts `json:"by_operator"`
	Series     []SeriesPoint    `json:"series"`
}

// Operator is an upstream user with the operator role
type Operator struct {
	ID         string `json:"id"`
	Username   string `json:"username"`
	FullName   string `json:"full_name"`
	Email      string `json:"email"`
	University string `json:"university,omitempty"`
	Status     string `json:"status"`
}

// DisplayName prefers the full name
func (o Operator) DisplayName() string {
	if n := strings.TrimSpace(o.FullName); n != "" {
		return n
	}
	return o.Username
}

// Health is the upstream health payload
type Health struct {
	Status string         `json:"status"`
	Extra  map[string]any `json:"extra,omitempty"`
}

// Download describes a finished export
type Download struct {
	Filename string `json:"filename"`
	Bytes    int64  `json:"bytes"`
	Skipped  bool   `json:"skipped,omitempty"`
}
