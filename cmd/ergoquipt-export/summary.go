package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/Frey210/ergoquipt-admin-web/internal/services/reporting/domain"
	"github.com/Frey210/ergoquipt-admin-web/internal/services/reporting/service"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

type summaryFlags struct {
	groupBy string
	metric  string
}

func (f *summaryFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.groupBy, "group-by", "week", "series bucket: day, week or month")
	cmd.Flags().StringVar(&f.metric, "metric", "both", "series metric: tympani, hrv or both")
}

func newSummaryCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Aggregate counts over the date range",
	}

	var showFlags summaryFlags
	show := &cobra.Command{
		Use:   "show",
		Short: "Print global, per operator and series counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, _, err := a.client(cmd.Context())
			if err != nil {
				return explain(err)
			}
			p, err := a.params(30, domain.GroupBy(showFlags.groupBy), domain.Metric(showFlags.metric))
			if err != nil {
				return explain(err)
			}
			agg := service.NewAggregator(c, a.timeout)
			if err := agg.Load(cmd.Context(), p); err != nil {
				return explain(err)
			}
			printSummary(cmd.OutOrStdout(), a, agg.Snapshot().View)
			return nil
		},
	}
	showFlags.bind(show)

	var exportFlags summaryFlags
	var sf saveFlags
	export := &cobra.Command{
		Use:   "export",
		Short: "Download the series as summary_<group-by>.csv",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, _, err := a.client(cmd.Context())
			if err != nil {
				return explain(err)
			}
			p, err := a.params(30, domain.GroupBy(exportFlags.groupBy), domain.Metric(exportFlags.metric))
			if err != nil {
				return explain(err)
			}
			dst, err := sf.saver(cmd)
			if err != nil {
				return explain(err)
			}
			_, err = service.NewExporter(c, "", a.timeout).ExportSummaryCSV(cmd.Context(), dst, p)
			return explain(err)
		},
	}
	exportFlags.bind(export)
	sf.bind(export, a, false)

	cmd.AddCommand(show, export)
	return cmd
}

func printSummary(out io.Writer, a *app, v *domain.AggregateView) {
	fmt.Fprintf(out, "Summary %s\n", a.describe(v.Params))
	fmt.Fprintf(out, "tympani %s  hrv %s  active operators %s\n\n",
		humanize.Comma(int64(v.Global.TympaniCount)),
		humanize.Comma(int64(v.Global.HRVCount)),
		humanize.Comma(int64(v.Global.OperatorsActive)))

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "OPERATOR\tTYMPANI\tHRV")
	for _, o := range v.ByOperator {
		name := o.OperatorName
		if name == "" {
			name = o.OperatorID
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", name, humanize.Comma(int64(o.TympaniCount)), humanize.Comma(int64(o.HRVCount)))
	}
	_ = tw.Flush()

	fmt.Fprintf(out, "\nper %s\n", v.GroupBy)
	tw = tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "PERIOD\tTYMPANI\tHRV")
	for _, s := range v.Series {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", s.Period, humanize.Comma(int64(s.TympaniCount)), humanize.Comma(int64(s.HRVCount)))
	}
	_ = tw.Flush()
}
