package http

import (
	"slices"
	"time"

	"github.com/Frey210/ergoquipt-admin-web/internal/core/timerange"
	perr "github.com/Frey210/ergoquipt-admin-web/internal/platform/errors"
	"github.com/Frey210/ergoquipt-admin-web/internal/services/reporting/domain"
	"github.com/Frey210/ergoquipt-admin-web/internal/services/reporting/service"
)

// RangeDTO is the UTC window sent upstream, empty ends are open
type RangeDTO struct {
	From string `json:"from_time,omitempty" example:"2023-12-31T16:00:00.000Z"`
	To   string `json:"to_time,omitempty" example:"2024-01-07T15:59:59.000Z"`
}

// SummaryState is the summary panel of a view
type SummaryState struct {
	Loading   bool                  `json:"loading"`
	Error     string                `json:"error,omitempty"`
	ErrorCode perr.ErrorCode        `json:"error_code,omitempty"`
	Facets    domain.Facets         `json:"facets"`
	Range     RangeDTO              `json:"range"`
	View      *domain.AggregateView `json:"view"`
}

// RowDTO is one recording row with its checkbox state
type RowDTO struct {
	domain.RecordingSummary
	RespondentLabel string `json:"respondent_label"`
	Selected        bool   `json:"selected"`
}

// PageDTO is the window of a recording list
type PageDTO struct {
	Total   int  `json:"total"`
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	HasPrev bool `json:"has_prev"`
	HasNext bool `json:"has_next"`
}

// ListState is one recording list of a view
type ListState struct {
	Kind              domain.Kind    `json:"kind"`
	Loading           bool           `json:"loading"`
	Error             string         `json:"error,omitempty"`
	ErrorCode         perr.ErrorCode `json:"error_code,omitempty"`
	Facets            domain.Facets  `json:"facets"`
	Range             RangeDTO       `json:"range"`
	Items             []RowDTO       `json:"items"`
	Page              PageDTO        `json:"page"`
	Selected          []string       `json:"selected"`
	AllSelected       bool           `json:"all_selected"`
	BulkExportEnabled bool           `json:"bulk_export_enabled"`
}

// ViewState is everything a report page renders
type ViewState struct {
	ID          string                    `json:"id"`
	Created     time.Time                 `json:"created"`
	Summary     SummaryState              `json:"summary"`
	Recordings  map[domain.Kind]ListState `json:"recordings"`
	ExportError string                    `json:"export_error,omitempty"`
}

func rangeOf(p *domain.QueryParams) RangeDTO {
	if p == nil {
		return RangeDTO{}
	}
	r := p.Range()
	return RangeDTO{From: timerange.FormatISO(r.From), To: timerange.FormatISO(r.To)}
}

func summaryState(v *service.View) SummaryState {
	st := v.Summary()
	out := SummaryState{
		Loading: st.Loading,
		Facets:  v.SummaryFacets(),
		View:    st.View,
	}
	if st.View != nil {
		out.Range = rangeOf(st.View.Params)
	}
	out.Error, out.ErrorCode = display(st.Err)
	return out
}

func listState(v *service.View, kind domain.Kind) (ListState, error) {
	st, err := v.Recordings(kind)
	if err != nil {
		return ListState{}, err
	}
	facets, _ := v.RecordingFacets(kind)

	out := ListState{
		Kind:    kind,
		Loading: st.Loading,
		Facets:  facets,
		Range:   rangeOf(st.Params),
		Items:   make([]RowDTO, 0, len(st.Rows)),
		Page: PageDTO{
			Total:   st.Total,
			Limit:   st.Page.Limit,
			Offset:  st.Page.Offset,
			HasPrev: st.Page.HasPrev(),
			HasNext: st.Page.HasNext(st.Total),
		},
		Selected:    st.Selected,
		AllSelected: st.AllSelected,
	}
	if out.Selected == nil {
		out.Selected = []string{}
	}
	for _, row := range st.Rows {
		out.Items = append(out.Items, RowDTO{
			RecordingSummary: row,
			RespondentLabel:  row.Respondent.Descriptor(),
			Selected:         slices.Contains(st.Selected, row.ID),
		})
	}
	out.BulkExportEnabled = len(out.Selected) > 0
	out.Error, out.ErrorCode = display(st.Err)
	return out, nil
}

func viewState(v *service.View) (ViewState, error) {
	out := ViewState{
		ID:         v.ID,
		Created:    v.Created,
		Summary:    summaryState(v),
		Recordings: make(map[domain.Kind]ListState, len(domain.Kinds)),
	}
	for _, k := range domain.Kinds {
		ls, err := listState(v, k)
		if err != nil {
			return ViewState{}, err
		}
		out.Recordings[k] = ls
	}
	out.ExportError, _ = display(v.ExportErr())
	return out, nil
}

func display(err error) (string, perr.ErrorCode) {
	if err == nil {
		return "", 0
	}
	w := perr.WireFrom(err)
	return w.Message, w.Code
}
