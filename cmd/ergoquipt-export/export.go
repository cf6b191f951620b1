package main

import (
	"fmt"
	"path/filepath"

	"github.com/Frey210/ergoquipt-admin-web/internal/adapters/download"
	"github.com/Frey210/ergoquipt-admin-web/internal/core/timerange"
	"github.com/Frey210/ergoquipt-admin-web/internal/services/reporting/domain"
	"github.com/Frey210/ergoquipt-admin-web/internal/services/reporting/service"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

type saveFlags struct {
	dir       string
	overwrite bool
	format    string
}

func (f *saveFlags) bind(cmd *cobra.Command, a *app, withFormat bool) {
	cmd.Flags().StringVar(&f.dir, "dir", a.cfg.MayString("DOWNLOAD_DIR", "."), "download directory (CONSOLE_DOWNLOAD_DIR)")
	cmd.Flags().BoolVar(&f.overwrite, "overwrite", false, "replace files that already exist")
	if withFormat {
		cmd.Flags().StringVar(&f.format, "format", "csv", "payload format: csv or json")
	}
}

// saver reports each written file on out
func (f saveFlags) saver(cmd *cobra.Command) (*download.DirSaver, error) {
	s, err := download.NewDirSaver(f.dir, f.overwrite)
	if err != nil {
		return nil, err
	}
	out := cmd.OutOrStdout()
	s.Written = func(path string, size int64) {
		fmt.Fprintf(out, "saved %s (%s)\n", filepath.Clean(path), humanize.Bytes(uint64(size)))
	}
	return s, nil
}

func newExportCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Download recordings to disk",
	}
	cmd.AddCommand(newExportOneCmd(a), newExportBulkCmd(a), newExportSessionsCmd(a))
	return cmd
}

func newExportOneCmd(a *app) *cobra.Command {
	var sf saveFlags
	cmd := &cobra.Command{
		Use:   "one <tympani|hrv> <recording-id>",
		Short: "Download a single recording as <kind>_<id>.<format>",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := domain.ParseKind(args[0])
			if err != nil {
				return explain(err)
			}
			format, err := domain.ParseFormat(sf.format)
			if err != nil {
				return explain(err)
			}
			c, _, err := a.client(cmd.Context())
			if err != nil {
				return explain(err)
			}
			dst, err := sf.saver(cmd)
			if err != nil {
				return explain(err)
			}
			_, err = service.NewExporter(c, "", a.timeout).ExportOne(cmd.Context(), dst, kind, args[1], format)
			return explain(err)
		},
	}
	sf.bind(cmd, a, true)
	return cmd
}

func newExportBulkCmd(a *app) *cobra.Command {
	var (
		sf      saveFlags
		pf      pageFlags
		visible bool
	)
	cmd := &cobra.Command{
		Use:   "bulk <tympani|hrv> [recording-id...]",
		Short: "Download several recordings as one <kind>_bulk.zip",
		Long: `Download the given ids as one archive. With --visible the ids are every row of the
page picked by --limit/--offset and the date flags.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := domain.ParseKind(args[0])
			if err != nil {
				return explain(err)
			}
			format, err := domain.ParseFormat(sf.format)
			if err != nil {
				return explain(err)
			}
			ids := args[1:]
			if visible {
				l, err := a.loadPage(cmd, args[0], pf)
				if err != nil {
					return explain(err)
				}
				sel := service.NewSelection()
				sel.Reset(l.res.IDs())
				sel.SelectAllVisible(l.res.IDs(), true)
				ids = sel.IDs()
			}

			c, _, err := a.client(cmd.Context())
			if err != nil {
				return explain(err)
			}
			dst, err := sf.saver(cmd)
			if err != nil {
				return explain(err)
			}
			d, err := service.NewExporter(c, "", a.timeout).ExportBulk(cmd.Context(), dst, kind, ids, format)
			if err != nil {
				return explain(err)
			}
			if d.Skipped {
				fmt.Fprintf(cmd.OutOrStdout(), "no %s recordings selected, nothing to download\n", kind.Label())
			}
			return nil
		},
	}
	sf.bind(cmd, a, true)
	pf.bind(cmd)
	cmd.Flags().BoolVar(&visible, "visible", false, "export every row of the listed page")
	return cmd
}

func newExportSessionsCmd(a *app) *cobra.Command {
	var (
		sf       saveFlags
		testType string
	)
	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "Download the per session CSV as sessions_<from>_<to>.csv",
		Long: `Download one CSV row per test session between --from and --to (local days, default the
last 30 days), optionally narrowed by --operator and --test-type.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			q := domain.SessionsQuery{StartDate: a.from, EndDate: a.to, OperatorID: a.operator}
			if q.StartDate == "" && q.EndDate == "" {
				q.StartDate, q.EndDate = timerange.DefaultWindow(a.now(), 30, a.tz)
			}
			if testType != "" {
				kind, err := domain.ParseKind(testType)
				if err != nil {
					return explain(err)
				}
				q.TestType = kind
			}
			if err := q.Validate(); err != nil {
				return explain(err)
			}
			c, _, err := a.client(cmd.Context())
			if err != nil {
				return explain(err)
			}
			dst, err := sf.saver(cmd)
			if err != nil {
				return explain(err)
			}
			_, err = service.NewExporter(c, "", a.timeout).ExportSessionsCSV(cmd.Context(), dst, q)
			return explain(err)
		},
	}
	sf.bind(cmd, a, false)
	cmd.Flags().StringVar(&testType, "test-type", "", "restrict to tympani or hrv sessions")
	return cmd
}
