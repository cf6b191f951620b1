package domain

import (
	"github.com/Frey210/ergoquipt-admin-web/internal/core/timerange"
	perr "github.com/Frey210/ergoquipt-admin-web/internal/platform/errors"
	"github.com/Frey210/ergoquipt-admin-web/internal/platform/net/http/bind"
)

func init() {
	if err := bind.RegisterValidation("tz_zone", func(fl bind.FieldLevel) bool {
		return timerange.IsZone(int(fl.Field().Int()))
	}, "{0} must be one of the lab timezones (7, 8, 9)"); err != nil {
		panic(err)
	}
}

// Validate checks facet tags and maps the first failure to a validation error
func (f Facets) Validate() error { return bind.Struct(f) }

// Validate checks the tags and that the start day is not after the end day
func (q SessionsQuery) Validate() error {
	if err := bind.Struct(q); err != nil {
		return err
	}
	if q.StartDate > q.EndDate {
		return perr.WithField(perr.Validationf("start_date must not be after end_date"), "start_date")
	}
	return nil
}
