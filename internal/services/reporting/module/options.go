package module

import (
	"time"

	"github.com/Frey210/ergoquipt-admin-web/internal/core/timerange"
	"github.com/Frey210/ergoquipt-admin-web/internal/platform/config"
)

// Options tune report views and their housekeeping
type Options struct {
	DefaultTZ     int
	PageLimit     int
	SummaryDays   int
	RecordingDays int
	Timeout       time.Duration
	SpoolDir      string
	ViewIdle      time.Duration
	SweepInterval time.Duration
}

// FromConfig reads report settings from a CONSOLE_ scoped config
func FromConfig(cfg config.Conf) Options {
	return Options{
		DefaultTZ:     cfg.MayIntIn("TZ_DEFAULT", timerange.DefaultZone, timerange.ZoneOffsets()...),
		PageLimit:     cfg.MayInt("PAGE_LIMIT", 50),
		SummaryDays:   cfg.MayInt("SUMMARY_DAYS", 30),
		RecordingDays: cfg.MayInt("RECORDING_DAYS", 7),
		Timeout:       cfg.MayDuration("API_TIMEOUT", 30*time.Second),
		SpoolDir:      cfg.MayString("SPOOL_DIR", ""),
		ViewIdle:      cfg.MayDuration("VIEW_IDLE", 30*time.Minute),
		SweepInterval: cfg.MayDuration("VIEW_SWEEP", time.Minute),
	}
}

func (o Options) merge(overrides Options) Options {
	if overrides.DefaultTZ != 0 {
		o.DefaultTZ = overrides.DefaultTZ
	}
	if overrides.PageLimit != 0 {
		o.PageLimit = overrides.PageLimit
	}
	if overrides.SummaryDays != 0 {
		o.SummaryDays = overrides.SummaryDays
	}
	if overrides.RecordingDays != 0 {
		o.RecordingDays = overrides.RecordingDays
	}
	if overrides.Timeout != 0 {
		o.Timeout = overrides.Timeout
	}
	if overrides.SpoolDir != "" {
		o.SpoolDir = overrides.SpoolDir
	}
	if overrides.ViewIdle != 0 {
		o.ViewIdle = overrides.ViewIdle
	}
	if overrides.SweepInterval != 0 {
		o.SweepInterval = overrides.SweepInterval
	}
	return o
}
