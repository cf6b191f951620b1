// Package version provides information about the build version of the console binaries.
package version

import "runtime"

// BuildInfo holds version information about a console build.
type BuildInfo struct {
	Service string `json:"service"`
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
	Go      string `json:"go"`
}

// Info returns the build information for the console service.
// version, commit and date are set at build time, e.g.
// -ldflags "-X 'github.com/Frey210/ergoquipt-admin-web/internal/core/version.version=v0.3.0'"
func Info() BuildInfo { return For(Service) }

// For returns the build information under another binary name (the export CLI)
func For(service string) BuildInfo {
	return BuildInfo{
		Service: service,
		Version: version,
		Commit:  commit,
		Date:    date,
		Go:      runtime.Version(),
	}
}

// String renders a one line banner
func (b BuildInfo) String() string {
	return b.Service + " " + b.Version + " (" + b.Commit + ", " + b.Date + ", " + b.Go + ")"
}

// Service is the name the console API reports about itself
const Service = "ergoquipt-console"

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)
