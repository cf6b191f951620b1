package consoleapi

import (
	"github.com/Frey210/ergoquipt-admin-web/internal/services/reporting/domain"
)

// wire shapes of the admin API; timestamps stay strings until mapped

type respondentWire struct {
	LocalID   *int     `json:"local_id"`
	Name      string   `json:"name"`
	Age       *int     `json:"age"`
	Gender    string   `json:"gender"`
	Height    *float64 `json:"height"`
	Weight    *float64 `json:"weight"`
	CreatedAt string   `json:"created_at"`
}

type recordingWire struct {
	ID           string         `json:"id"`
	Label        string         `json:"label"`
	OperatorID   string         `json:"operator_id"`
	OperatorName string         `json:"operator_name"`
	Respondent   respondentWire `json:"respondent"`
	TimeStart    string         `json:"time_start"`
	TimeEnd      string         `json:"time_end"`
	Count        int            `json:"count"`
	CreatedAt    string         `json:"created_at"`
}

type recordingListWire struct {
	Items []recordingWire `json:"items"`
	Total int             `json:"total"`
}

type rangeWire struct {
	From string `json:"from"`
	To   string `json:"to"`
}

type globalWire struct {
	Range           rangeWire `json:"range"`
	TympaniCount    int       `json:"tympani_count"`
	HRVCount        int       `json:"hrv_count"`
	OperatorsActive int       `json:"operators_active"`
}

type operatorsWire struct {
	Range rangeWire               `json:"range"`
	Items []domain.OperatorCounts `json:"items"`
}

type timeseriesWire struct {
	Range   rangeWire            `json:"range"`
	GroupBy string               `json:"group_by"`
	Series  []domain.SeriesPoint `json:"series"`
}

type userWire struct {
	ID             string `json:"id"`
	Username       string `json:"username"`
	Email          string `json:"email"`
	FullName       string `json:"full_name"`
	University     string `json:"university"`
	Role           string `json:"role"`
	Status         string `json:"status"`
	PlatformAccess string `json:"platform_access"`
	CreatedAt      string `json:"created_at"`
}

type bulkDownloadWire struct {
	RecordingIDs []string `json:"recording_ids"`
	Format       string   `json:"format"`
}

func (r recordingWire) toDomain() domain.RecordingSummary {
	return domain.RecordingSummary{
		ID:           r.ID,
		Label:        r.Label,
		OperatorID:   r.OperatorID,
		OperatorName: r.OperatorName,
		Respondent: domain.Respondent{
			LocalID:   r.Respondent.LocalID,
			Name:      r.Respondent.Name,
			Age:       r.Respondent.Age,
			Gender:    r.Respondent.Gender,
			Height:    r.Respondent.Height,
			Weight:    r.Respondent.Weight,
			CreatedAt: r.Respondent.CreatedAt,
		},
		TimeStart:   parseTime(r.TimeStart),
		TimeEnd:     parseTime(r.TimeEnd),
		SampleCount: r.Count,
		CreatedAt:   parseTime(r.CreatedAt),
	}
}

func (u userWire) toDomain() domain.Operator {
	return domain.Operator{
		ID:         u.ID,
		Username:   u.Username,
		FullName:   u.FullName,
		Email:      u.Email,
		University: u.University,
		Status:     u.Status,
	}
}
