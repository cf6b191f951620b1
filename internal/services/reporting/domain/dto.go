package domain

// Facets are the user editable filters of a report page
// dates are local calendar days in the TZOffset zone
type Facets struct {
	DateFrom   string  `json:"date_from,omitempty" validate:"omitempty,datetime=2006-01-02" example:"2024-01-01"`
	DateTo     string  `json:"date_to,omitempty" validate:"omitempty,datetime=2006-01-02" example:"2024-01-07"`
	TZOffset   int     `json:"tz_offset,omitempty" validate:"omitempty,tz_zone" example:"8"`
	OperatorID string  `json:"operator_id,omitempty" validate:"omitempty,max=64" example:"op-12"`
	GroupBy    GroupBy `json:"group_by,omitempty" validate:"omitempty,oneof=day week month" example:"week"`
	Metric     Metric  `json:"metric,omitempty" validate:"omitempty,oneof=tympani hrv both" example:"both"`
}

// RecordingQuery is a facet change for a recording list plus the window to show
type RecordingQuery struct {
	Facets
	Page
}

// SelectionToggle flips one id
type SelectionToggle struct {
	ID string `json:"id" validate:"required,max=128" example:"rec-1"`
}

// SelectionAll checks or unchecks the select-all box over the visible rows
type SelectionAll struct {
	IDs     []string `json:"ids" validate:"dive,required"`
	Checked bool     `json:"checked" example:"true"`
}

// SessionsQuery filters the sessions CSV export
// dates are local calendar days and are sent upstream as entered
type SessionsQuery struct {
	StartDate  string `json:"start_date" validate:"required,datetime=2006-01-02" example:"2024-01-01"`
	EndDate    string `json:"end_date" validate:"required,datetime=2006-01-02" example:"2024-01-31"`
	OperatorID string `json:"operator_id,omitempty" validate:"omitempty,max=64" example:"op-12"`
	TestType   Kind   `json:"test_type,omitempty" validate:"omitempty,oneof=tympani hrv" example:"hrv"`
}

// Filename is sessions_<start>_<end>.csv
func (q SessionsQuery) Filename() string {
	return "sessions_" + q.StartDate + "_" + q.EndDate + ".csv"
}

// ExportRequest picks the payload format of an export
type ExportRequest struct {
	Format Format `json:"format,omitempty" validate:"omitempty,oneof=csv json" example:"csv"`
}
