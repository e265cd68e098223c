package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newTablesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "tables [table]",
		Short: "List the database tables, or describe one",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := a.formatter()
			if err != nil {
				return err
			}
			insp := a.inspector()

			if len(args) == 1 {
				t, err := insp.Table(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if t == nil {
					return fmt.Errorf("table %q not found", args[0])
				}
				return writeTo(cmd.OutOrStdout())(f.FormatTable(t))
			}

			tables, err := insp.Tables(cmd.Context())
			if err != nil {
				return err
			}
			return writeTo(cmd.OutOrStdout())(f.FormatTables(tables))
		},
	}
}

func newMigrationsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "migrations",
		Short: "List the migration files in the order they apply",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := a.formatter()
			if err != nil {
				return err
			}
			files, dir, err := a.inspector().MigrationFiles()
			if err != nil {
				return err
			}
			return writeTo(cmd.OutOrStdout())(f.FormatMigrations(dir, files))
		},
	}
}
