package main

import (
	"context"
	"fmt"
	"time"

	"github.com/Frey210/ergoquipt-admin-web/internal/adapters/consoleapi"
	"github.com/Frey210/ergoquipt-admin-web/internal/core/timerange"
	"github.com/Frey210/ergoquipt-admin-web/internal/core/version"
	"github.com/Frey210/ergoquipt-admin-web/internal/platform/config"
	perr "github.com/Frey210/ergoquipt-admin-web/internal/platform/errors"
	"github.com/Frey210/ergoquipt-admin-web/internal/platform/logger"
	"github.com/Frey210/ergoquipt-admin-web/internal/platform/session"
	"github.com/Frey210/ergoquipt-admin-web/internal/services/reporting/domain"
	"github.com/Frey210/ergoquipt-admin-web/internal/services/reporting/service"

	"github.com/spf13/cobra"
)

const cliName = "ergoquipt-export"

// app holds the persistent flags shared by every command
type app struct {
	cfg config.Conf

	sessionPath string
	apiURL      string
	timeout     time.Duration

	from     string
	to       string
	tz       int
	operator string

	// now is swapped in tests
	now func() time.Time
}

func newRootCmd() *cobra.Command {
	opts := logger.FromEnv()
	opts.Service = cliName
	logger.Init(opts)

	a := &app{cfg: config.New().Prefix("CONSOLE_"), now: time.Now}

	root := &cobra.Command{
		Use:   cliName,
		Short: "Export ergoquipt recordings and summaries",
		Long: `ergoquipt-export talks to the lab admin API with the token kept in the session file.
Dates are local calendar days in the chosen zone (7 WIB, 8 WITA, 9 WIT).`,
		SilenceUsage: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			if !timerange.IsZone(a.tz) {
				return perr.WithField(perr.Validationf("tz must be one of %v", timerange.ZoneOffsets()), "tz")
			}
			return nil
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.sessionPath, "session", a.cfg.MayString("SESSION_FILE", session.DefaultPath()), "session file holding the token and preferences")
	pf.StringVar(&a.apiURL, "api-url", a.cfg.MayString("API_URL", ""), "lab admin API base URL (CONSOLE_API_URL)")
	pf.DurationVar(&a.timeout, "timeout", a.cfg.MayDuration("API_TIMEOUT", 30*time.Second), "per request timeout")
	pf.StringVar(&a.from, "from", "", "first local day, YYYY-MM-DD (default: window start)")
	pf.StringVar(&a.to, "to", "", "last local day, YYYY-MM-DD (default: today)")
	pf.IntVar(&a.tz, "tz", a.cfg.MayIntIn("TZ_DEFAULT", timerange.DefaultZone, timerange.ZoneOffsets()...), "zone offset in hours")
	pf.StringVar(&a.operator, "operator", "", "restrict to one operator id")

	root.AddCommand(
		newRecordingsCmd(a),
		newExportCmd(a),
		newSummaryCmd(a),
		newTokenCmd(a),
		newPrefsCmd(a),
		newVersionCmd(),
	)
	return root
}

func (a *app) store() (*session.Store, error) {
	return session.Open(a.sessionPath)
}

// client builds an upstream client whose token comes from the session file
// a 401 clears the stored token
func (a *app) client(ctx context.Context) (*consoleapi.Client, *session.Store, error) {
	st, err := a.store()
	if err != nil {
		return nil, nil, err
	}
	if st.Token(ctx) == "" {
		return nil, nil, perr.Unauthorizedf("no token stored; run %s token set <token>", cliName)
	}
	c, err := consoleapi.NewClient(consoleapi.Options{
		BaseURL:   a.apiURL,
		UserAgent: cliName + "/" + version.Info().Version,
		Timeout:   a.timeout,
		Tokens:    st,
	})
	if err != nil {
		return nil, nil, perr.WithField(err, "api-url")
	}
	return c, st, nil
}

// params builds query parameters from the flags; empty dates fall back to the last days days
func (a *app) params(days int, groupBy domain.GroupBy, metric domain.Metric) (*domain.QueryParams, error) {
	f := domain.Facets{DateFrom: a.from, DateTo: a.to, TZOffset: a.tz, OperatorID: a.operator, GroupBy: groupBy, Metric: metric}
	if f.DateFrom == "" && f.DateTo == "" {
		f.DateFrom, f.DateTo = timerange.DefaultWindow(a.now(), days, a.tz)
	}
	return service.NewParamsBuilder(a.tz).Build(f)
}

func (a *app) describe(p *domain.QueryParams) string {
	r := p.Range()
	return fmt.Sprintf("%s .. %s (UTC%+d)", orOpen(timerange.FormatISO(r.From)), orOpen(timerange.FormatISO(r.To)), p.TZOffset())
}

func orOpen(s string) string {
	if s == "" {
		return "open"
	}
	return s
}

// explain turns project errors into a one line hint
func explain(err error) error {
	if err == nil {
		return nil
	}
	if perr.IsCode(err, perr.ErrorCodeUnauthorized) {
		return fmt.Errorf("%s (store a fresh token with %s token set)", perr.WireFrom(err).Message, cliName)
	}
	w := perr.WireFrom(err)
	if w.Field != "" {
		return fmt.Errorf("%s: %s", w.Field, w.Message)
	}
	return err
}
