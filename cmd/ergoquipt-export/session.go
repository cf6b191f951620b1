package main

import (
	"fmt"
	"strings"

	"github.com/Frey210/ergoquipt-admin-web/internal/core/version"

	"github.com/spf13/cobra"
)

func newTokenCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Manage the stored bearer token",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "set <token>",
			Short: "Store the bearer token used for every request",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				st, err := a.store()
				if err != nil {
					return explain(err)
				}
				if err := st.SetToken(strings.TrimSpace(args[0])); err != nil {
					return explain(err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "token stored in %s\n", st.Path())
				return nil
			},
		},
		&cobra.Command{
			Use:   "clear",
			Short: "Forget the stored token",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				st, err := a.store()
				if err != nil {
					return explain(err)
				}
				return explain(st.ClearToken(cmd.Context()))
			},
		},
		&cobra.Command{
			Use:   "show",
			Short: "Print the stored token, masked",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				st, err := a.store()
				if err != nil {
					return explain(err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), mask(st.Token(cmd.Context())))
				return nil
			},
		},
	)
	return cmd
}

func newPrefsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prefs",
		Short: "Show or change display preferences",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, err := a.store()
			if err != nil {
				return explain(err)
			}
			p := st.Prefs()
			fmt.Fprintf(cmd.OutOrStdout(), "theme %s\nlanguage %s\n", p.Theme, p.Language)
			return nil
		},
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "theme <light|dark>",
			Short: "Set the theme",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				st, err := a.store()
				if err != nil {
					return explain(err)
				}
				if err := st.SetTheme(args[0]); err != nil {
					return explain(err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "theme %s\n", st.Prefs().Theme)
				return nil
			},
		},
		&cobra.Command{
			Use:   "lang <id|en>",
			Short: "Set the display language",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				st, err := a.store()
				if err != nil {
					return explain(err)
				}
				if err := st.SetLanguage(args[0]); err != nil {
					return explain(err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "language %s\n", st.Prefs().Language)
				return nil
			},
		},
	)
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.For(cliName).String())
		},
	}
}

func mask(tok string) string {
	switch {
	case tok == "":
		return "(none)"
	case len(tok) <= 8:
		return strings.Repeat("*", len(tok))
	default:
		return tok[:4] + strings.Repeat("*", len(tok)-8) + tok[len(tok)-4:]
	}
}
