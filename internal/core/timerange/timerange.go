// Package timerange converts local calendar dates entered in a lab timezone into UTC
// instants for upstream queries
package timerange

import (
	"slices"
	"time"

	perr "github.com/Frey210/ergoquipt-admin-web/internal/platform/errors"
)

const (
	// DateLayout is the calendar date format accepted from date pickers
	DateLayout = "2006-01-02"

	// ISOLayout is the instant format the upstream API expects
	ISOLayout = "2006-01-02T15:04:05.000Z"

	// DefaultZone is UTC+8 (WITA)
	DefaultZone = 8

	minOffset = -12
	maxOffset = 14
)

// Zone is a selectable lab timezone
type Zone struct {
	Label  string `json:"label"`
	Offset int    `json:"offset"`
}

// Zones lists the fixed offsets the console offers
var Zones = []Zone{
	{Label: "UTC+7 (WIB)", Offset: 7},
	{Label: "UTC+8 (WITA)", Offset: 8},
	{Label: "UTC+9 (WIT)", Offset: 9},
}

// ZoneOffsets returns the offsets of Zones in order
func ZoneOffsets() []int {
	out := make([]int, 0, len(Zones))
	for _, z := range Zones {
		out = append(out, z.Offset)
	}
	return out
}

// IsZone reports whether offset is one of Zones
func IsZone(offset int) bool { return slices.Contains(ZoneOffsets(), offset) }

// Range is a pair of UTC instants; a zero instant is an open end
type Range struct {
	From time.Time
	To   time.Time
}

// Open reports whether neither bound is set
func (r Range) Open() bool { return r.From.IsZero() && r.To.IsZero() }

// Bounded reports whether both bounds are set
func (r Range) Bounded() bool { return !r.From.IsZero() && !r.To.IsZero() }

// Equal compares bounds as instants
func (r Range) Equal(o Range) bool { return r.From.Equal(o.From) && r.To.Equal(o.To) }

// ToUTC interprets date as a wall clock date at UTC+offsetHours and returns the UTC instant
// for its first second, or its last second when endOfDay is set
// an empty date means no bound and yields the zero time
func ToUTC(date string, offsetHours int, endOfDay bool) (time.Time, error) {
	if offsetHours < minOffset || offsetHours > maxOffset {
		return time.Time{}, perr.Validationf("timezone offset %d out of range [%d, %d]", offsetHours, minOffset, maxOffset)
	}
	if date == "" {
		return time.Time{}, nil
	}
	d, err := time.ParseInLocation(DateLayout, date, time.UTC)
	if err != nil {
		return time.Time{}, perr.Wrapf(err, perr.ErrorCodeValidation, "invalid date %q, want YYYY-MM-DD", date)
	}
	if endOfDay {
		d = d.Add(23*time.Hour + 59*time.Minute + 59*time.Second)
	}
	return d.Add(-time.Duration(offsetHours) * time.Hour), nil
}

// Normalize converts a local date pair into a Range and enforces From <= To
func Normalize(from, to string, offsetHours int) (Range, error) {
	f, err := ToUTC(from, offsetHours, false)
	if err != nil {
		return Range{}, perr.WithField(err, "date_from")
	}
	t, err := ToUTC(to, offsetHours, true)
	if err != nil {
		return Range{}, perr.WithField(err, "date_to")
	}
	r := Range{From: f, To: t}
	if r.Bounded() && r.From.After(r.To) {
		return Range{}, perr.WithField(perr.Validationf("date_from %s is after date_to %s", from, to), "date_from")
	}
	return r, nil
}

// FormatISO renders t in the upstream wire format; the zero time renders ""
func FormatISO(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(ISOLayout)
}

// DefaultWindow returns the local dates for "the last days days" ending today at offsetHours
func DefaultWindow(now time.Time, days, offsetHours int) (from, to string) {
	local := now.UTC().Add(time.Duration(offsetHours) * time.Hour)
	return local.AddDate(0, 0, -days).Format(DateLayout), local.Format(DateLayout)
}
