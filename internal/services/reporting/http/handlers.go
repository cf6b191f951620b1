// Package http provides http transport for report views
package http

import (
	stdhttp "net/http"

	"github.com/Frey210/ergoquipt-admin-web/internal/core/timerange"
	"github.com/Frey210/ergoquipt-admin-web/internal/modkit/httpkit"
	"github.com/Frey210/ergoquipt-admin-web/internal/platform/logger"
	"github.com/Frey210/ergoquipt-admin-web/internal/services/reporting/domain"
	"github.com/Frey210/ergoquipt-admin-web/internal/services/reporting/service"
)

// Register mounts the report view endpoints on the given router
func Register(r httpkit.Router, views service.Registry, api domain.ReportingAPI) {
	h := &handlers{views: views, api: api}

	// view lifecycle
	httpkit.Post(r, "/views", h.create)
	httpkit.GetJSON(r, "/views/{viewID}", h.get)
	httpkit.Delete(r, "/views/{viewID}", h.remove)

	// summary panel
	httpkit.GetJSON(r, "/views/{viewID}/summary", h.summary)
	httpkit.PutJSON[domain.Facets](r, "/views/{viewID}/summary", h.applySummary)
	httpkit.Post(r, "/views/{viewID}/summary/reload", h.reloadSummary)
	r.Get("/views/{viewID}/summary/export.csv", httpkit.Download(h.exportSummary))

	// recording lists
	httpkit.GetJSON(r, "/views/{viewID}/recordings/{kind}", h.recordings)
	httpkit.PutJSON[domain.RecordingQuery](r, "/views/{viewID}/recordings/{kind}", h.applyRecordings)
	httpkit.PostJSON[domain.Page](r, "/views/{viewID}/recordings/{kind}/page", h.turnPage)
	httpkit.Post(r, "/views/{viewID}/recordings/{kind}/reload", h.reloadRecordings)

	// selection
	httpkit.PostJSON[domain.SelectionToggle](r, "/views/{viewID}/recordings/{kind}/selection/toggle", h.toggle)
	httpkit.PutJSON[domain.SelectionAll](r, "/views/{viewID}/recordings/{kind}/selection", h.selectAll)
	httpkit.Delete(r, "/views/{viewID}/recordings/{kind}/selection", h.clearSelection)

	// exports
	r.Get("/views/{viewID}/recordings/{kind}/{id}/download", httpkit.Download(h.exportOne))
	r.Post("/views/{viewID}/recordings/{kind}/download", httpkit.Download(h.exportSelected))
	r.Get("/views/{viewID}/sessions/export.csv", httpkit.Download(h.exportSessions))

	// lookups
	httpkit.GetJSON(r, "/operators", h.operators)
	httpkit.GetJSON(r, "/zones", h.zones)
	httpkit.GetJSON(r, "/upstream/health", h.health)
}

type handlers struct {
	views service.Registry
	api   domain.ReportingAPI
}

func (h *handlers) view(r *stdhttp.Request) (*service.View, error) {
	return h.views.Get(r.Context(), httpkit.Param(r, "viewID"))
}

func (h *handlers) viewKind(r *stdhttp.Request) (*service.View, domain.Kind, error) {
	v, err := h.view(r)
	if err != nil {
		return nil, "", err
	}
	k, err := domain.ParseKind(httpkit.Param(r, "kind"))
	if err != nil {
		return nil, "", err
	}
	return v, k, nil
}

// committed answers with the component state when the failure was stored there
// and with the error itself when it was rejected before reaching the component
func committed(state any, stored, err error) (any, error) {
	if err != nil && stored == nil {
		return nil, err
	}
	return state, nil
}

// POST /reporting/views
func (h *handlers) create(r *stdhttp.Request) (any, error) {
	v := h.views.Create(r.Context())
	st, err := viewState(v)
	if err != nil {
		return nil, err
	}
	return httpkit.Created(st), nil
}

// GET /reporting/views/{viewID}
func (h *handlers) get(r *stdhttp.Request) (any, error) {
	v, err := h.view(r)
	if err != nil {
		return nil, err
	}
	return viewState(v)
}

// DELETE /reporting/views/{viewID}
func (h *handlers) remove(r *stdhttp.Request) (any, error) {
	if err := h.views.Delete(r.Context(), httpkit.Param(r, "viewID")); err != nil {
		return nil, err
	}
	return nil, nil
}

func (h *handlers) summary(r *stdhttp.Request) (any, error) {
	v, err := h.view(r)
	if err != nil {
		return nil, err
	}
	return summaryState(v), nil
}

func (h *handlers) applySummary(r *stdhttp.Request, f domain.Facets) (any, error) {
	v, err := h.view(r)
	if err != nil {
		return nil, err
	}
	ctx := logger.WithView(r.Context(), v.ID)
	st, err := v.ApplySummaryFacets(ctx, f)
	return committed(summaryState(v), st.Err, err)
}

func (h *handlers) reloadSummary(r *stdhttp.Request) (any, error) {
	v, err := h.view(r)
	if err != nil {
		return nil, err
	}
	ctx := logger.WithView(r.Context(), v.ID)
	st, err := v.ReloadSummary(ctx)
	return committed(summaryState(v), st.Err, err)
}

func (h *handlers) recordings(r *stdhttp.Request) (any, error) {
	v, k, err := h.viewKind(r)
	if err != nil {
		return nil, err
	}
	return listState(v, k)
}

func (h *handlers) applyRecordings(r *stdhttp.Request, q domain.RecordingQuery) (any, error) {
	v, k, err := h.viewKind(r)
	if err != nil {
		return nil, err
	}
	ctx := logger.WithView(r.Context(), v.ID)
	st, err := v.ApplyRecordingFacets(ctx, k, q.Facets, q.Page)
	return h.listOr(v, k, st.Err, err)
}

func (h *handlers) turnPage(r *stdhttp.Request, page domain.Page) (any, error) {
	v, k, err := h.viewKind(r)
	if err != nil {
		return nil, err
	}
	ctx := logger.WithView(r.Context(), v.ID)
	st, err := v.TurnPage(ctx, k, page)
	return h.listOr(v, k, st.Err, err)
}

func (h *handlers) reloadRecordings(r *stdhttp.Request) (any, error) {
	v, k, err := h.viewKind(r)
	if err != nil {
		return nil, err
	}
	ctx := logger.WithView(r.Context(), v.ID)
	st, err := v.ReloadRecordings(ctx, k)
	return h.listOr(v, k, st.Err, err)
}

func (h *handlers) listOr(v *service.View, k domain.Kind, stored, err error) (any, error) {
	if err != nil && stored == nil {
		return nil, err
	}
	return listState(v, k)
}

func (h *handlers) toggle(r *stdhttp.Request, in domain.SelectionToggle) (any, error) {
	v, k, err := h.viewKind(r)
	if err != nil {
		return nil, err
	}
	sel, err := v.Selection(k)
	if err != nil {
		return nil, err
	}
	sel.Toggle(in.ID)
	return listState(v, k)
}

func (h *handlers) selectAll(r *stdhttp.Request, in domain.SelectionAll) (any, error) {
	v, k, err := h.viewKind(r)
	if err != nil {
		return nil, err
	}
	sel, err := v.Selection(k)
	if err != nil {
		return nil, err
	}
	sel.SelectAllVisible(in.IDs, in.Checked)
	return listState(v, k)
}

func (h *handlers) clearSelection(r *stdhttp.Request) (any, error) {
	v, k, err := h.viewKind(r)
	if err != nil {
		return nil, err
	}
	sel, err := v.Selection(k)
	if err != nil {
		return nil, err
	}
	sel.Clear()
	return listState(v, k)
}

// GET /reporting/views/{viewID}/recordings/{kind}/{id}/download?format=csv
func (h *handlers) exportOne(r *stdhttp.Request, dst *httpkit.AttachmentSaver) error {
	v, k, err := h.viewKind(r)
	if err != nil {
		return err
	}
	format, err := domain.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		return err
	}
	ctx := logger.WithView(r.Context(), v.ID)
	_, err = v.ExportOne(ctx, dst, k, httpkit.Param(r, "id"), format)
	return err
}

// POST /reporting/views/{viewID}/recordings/{kind}/download
func (h *handlers) exportSelected(r *stdhttp.Request, dst *httpkit.AttachmentSaver) error {
	v, k, err := h.viewKind(r)
	if err != nil {
		return err
	}
	in, err := httpkit.Bind[domain.ExportRequest](r)
	if err != nil {
		return err
	}
	format, err := domain.ParseFormat(string(in.Format))
	if err != nil {
		return err
	}
	ctx := logger.WithView(r.Context(), v.ID)
	_, err = v.ExportSelected(ctx, dst, k, format)
	return err
}

// GET /reporting/views/{viewID}/summary/export.csv
func (h *handlers) exportSummary(r *stdhttp.Request, dst *httpkit.AttachmentSaver) error {
	v, err := h.view(r)
	if err != nil {
		return err
	}
	ctx := logger.WithView(r.Context(), v.ID)
	_, err = v.ExportSummary(ctx, dst)
	return err
}

// GET /reporting/views/{viewID}/sessions/export.csv?start_date=&end_date=&operator_id=&test_type=
func (h *handlers) exportSessions(r *stdhttp.Request, dst *httpkit.AttachmentSaver) error {
	v, err := h.view(r)
	if err != nil {
		return err
	}
	q := r.URL.Query()
	sq := domain.SessionsQuery{
		StartDate:  q.Get("start_date"),
		EndDate:    q.Get("end_date"),
		OperatorID: q.Get("operator_id"),
		TestType:   domain.Kind(q.Get("test_type")),
	}
	ctx := logger.WithView(r.Context(), v.ID)
	_, err = v.ExportSessions(ctx, dst, sq)
	return err
}

// OperatorOption is one entry of the operator facet
type OperatorOption struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

func (h *handlers) operators(r *stdhttp.Request) (any, error) {
	ops, err := h.api.ListOperators(r.Context())
	if err != nil {
		return nil, err
	}
	out := make([]OperatorOption, 0, len(ops))
	for _, o := range ops {
		out = append(out, OperatorOption{ID: o.ID, Label: o.DisplayName()})
	}
	return httpkit.List(out, len(out), len(out), 0), nil
}

func (h *handlers) zones(_ *stdhttp.Request) (any, error) {
	return timerange.Zones, nil
}

func (h *handlers) health(r *stdhttp.Request) (any, error) {
	return h.api.Health(r.Context())
}
