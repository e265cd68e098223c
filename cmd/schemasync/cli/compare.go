package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"schemasync/internal/output"
)

func newStatusCmd(a *app) *cobra.Command {
	var failOnDiff bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Summarize whether the database matches the migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			// status is the summary view unless a format was asked for.
			name := a.format
			if !cmd.Flags().Changed("format") {
				name = string(output.FormatSummary)
			}
			f, err := output.NewFormatter(name)
			if err != nil {
				return err
			}
			d, err := a.inspector().Compare(cmd.Context())
			if err != nil {
				return err
			}
			if err := writeTo(cmd.OutOrStdout())(f.FormatDiff(d)); err != nil {
				return err
			}
			if failOnDiff && d.HasDifferences {
				return ErrOutOfSync
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&failOnDiff, "fail-on-diff", false, "exit with status 2 when differences exist")
	return cmd
}

func newDiffCmd(a *app) *cobra.Command {
	var failOnDiff bool

	cmd := &cobra.Command{
		Use:   "diff [table]",
		Short: "Show the differences between the migrations and the database",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := a.formatter()
			if err != nil {
				return err
			}
			insp := a.inspector()

			if len(args) == 1 {
				td, err := insp.TableDiff(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if td == nil {
					return fmt.Errorf("table %q not found in the migrations or the database", args[0])
				}
				if err := writeTo(cmd.OutOrStdout())(f.FormatTableDiff(td)); err != nil {
					return err
				}
				if failOnDiff && td.HasDifferences() {
					return ErrOutOfSync
				}
				return nil
			}

			d, err := insp.Compare(cmd.Context())
			if err != nil {
				return err
			}
			if err := writeTo(cmd.OutOrStdout())(f.FormatDiff(d)); err != nil {
				return err
			}
			if failOnDiff && d.HasDifferences {
				return ErrOutOfSync
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&failOnDiff, "fail-on-diff", false, "exit with status 2 when differences exist")
	return cmd
}
