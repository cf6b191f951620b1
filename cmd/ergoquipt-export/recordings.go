package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	perr "github.com/Frey210/ergoquipt-admin-web/internal/platform/errors"
	str "github.com/Frey210/ergoquipt-admin-web/internal/platform/strings"
	"github.com/Frey210/ergoquipt-admin-web/internal/services/reporting/domain"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

type pageFlags struct {
	limit  int
	offset int
}

func (f *pageFlags) bind(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.limit, "limit", 50, "rows per page")
	cmd.Flags().IntVar(&f.offset, "offset", 0, "rows to skip")
}

func (f pageFlags) page() domain.Page { return domain.Page{Limit: f.limit, Offset: f.offset} }

func newRecordingsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recordings",
		Short: "Browse recordings",
	}

	var pf pageFlags
	list := &cobra.Command{
		Use:       "list <tympani|hrv>",
		Short:     "List one page of recordings",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{string(domain.KindTympani), string(domain.KindHRV)},
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := a.loadPage(cmd, args[0], pf)
			if err != nil {
				return explain(err)
			}
			printRecordings(cmd.OutOrStdout(), a, l)
			return nil
		},
	}
	pf.bind(list)
	cmd.AddCommand(list)
	return cmd
}

// loadPage fetches one window of kind
func (a *app) loadPage(cmd *cobra.Command, kindArg string, pf pageFlags) (listing, error) {
	kind, err := domain.ParseKind(kindArg)
	if err != nil {
		return listing{}, err
	}
	c, _, err := a.client(cmd.Context())
	if err != nil {
		return listing{}, err
	}
	p, err := a.params(7, "", "")
	if err != nil {
		return listing{}, err
	}
	page := pf.page()
	if page.Limit <= 0 {
		page.Limit = 50
	}
	res, err := c.ListRecordings(cmd.Context(), kind, p, page)
	if err != nil {
		return listing{}, perr.Display(err, perr.CodeOf(err), "Failed to load "+kind.Label()+" recordings")
	}
	return listing{kind: kind, params: p, page: page, res: res}, nil
}

type listing struct {
	kind   domain.Kind
	params *domain.QueryParams
	page   domain.Page
	res    domain.RecordingPage
}

func printRecordings(out io.Writer, a *app, l listing) {
	fmt.Fprintf(out, "%s recordings %s\n", l.kind.Label(), a.describe(l.params))
	if len(l.res.Items) == 0 {
		fmt.Fprintf(out, "No %s recordings in range\n", l.kind.Label())
		return
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tLABEL\tRESPONDENT\tOPERATOR\tSAMPLES\tCREATED")
	for _, r := range l.res.Items {
		op := str.Or(r.OperatorName, r.OperatorID)
		created := "-"
		if !r.CreatedAt.IsZero() {
			created = humanize.Time(r.CreatedAt)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", r.ID, r.Label, r.Respondent.Descriptor(), op, humanize.Comma(int64(r.SampleCount)), created)
	}
	_ = tw.Flush()

	first := l.page.Offset + 1
	last := l.page.Offset + len(l.res.Items)
	fmt.Fprintf(out, "%d-%d of %s\n", first, last, humanize.Comma(int64(l.res.Total)))
	if l.page.HasNext(l.res.Total) {
		fmt.Fprintf(out, "next page: --offset %d\n", l.page.Next().Offset)
	}
}
