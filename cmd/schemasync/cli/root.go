// Package cli implements the schemasync command tree.
package cli

import (
	"errors"
	"io"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"schemasync/internal/config"
	"schemasync/internal/inspector"
	"schemasync/internal/output"

	_ "schemasync/internal/introspect/mssql"
	_ "schemasync/internal/introspect/mysql"
	_ "schemasync/internal/introspect/postgresql"
	_ "schemasync/internal/introspect/sqlite"
)

// ErrOutOfSync is returned by status and diff with --fail-on-diff when the
// database differs from the migrations.
var ErrOutOfSync = errors.New("database schema is out of sync with the migrations")

// ExitCode maps a command error to the process exit status.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, ErrOutOfSync):
		return 2
	default:
		return 1
	}
}

// Execute creates the root command tree and runs it.
func Execute(version, commit, date string) error {
	return newRootCmd(version, commit, date).Execute()
}

type app struct {
	cfgFile string
	format  string
	verbose bool
	viper   *viper.Viper
	logger  *slog.Logger
}

func newRootCmd(version, commit, date string) *cobra.Command {
	a := &app{viper: config.NewViper()}

	cmd := &cobra.Command{
		Use:   "schemasync",
		Short: "Compare Laravel migrations with the live database schema",
		Long: `schemasync reads the Laravel migrations of a project, rebuilds the schema they
declare and compares it with what the database actually has. It reports missing,
extra and drifted tables, columns, indexes and foreign keys.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			level := slog.LevelWarn
			if a.verbose {
				level = slog.LevelDebug
			}
			a.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (default is ./schemasync.toml or ./schemasync.yaml)")
	flags.StringVarP(&a.format, "format", "f", "human", "output format: human, json or summary")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "log progress to stderr")
	flags.String("dsn", "", "database DSN or URL")
	flags.String("driver", "", "database driver: mysql, mariadb, pgsql, sqlite or sqlsrv")
	flags.String("migrations", "", "migrations directory (default database/migrations)")
	flags.String("actual-snapshot", "", "read the actual schema from a .sql, .json or .toml file instead of a database")
	flags.String("base-path", "", "project root that relative paths resolve against")

	_ = a.viper.BindPFlag("dsn", flags.Lookup("dsn"))
	_ = a.viper.BindPFlag("driver", flags.Lookup("driver"))
	_ = a.viper.BindPFlag("migrations_path", flags.Lookup("migrations"))
	_ = a.viper.BindPFlag("actual_snapshot", flags.Lookup("actual-snapshot"))
	_ = a.viper.BindPFlag("base_path", flags.Lookup("base-path"))

	cmd.AddCommand(newStatusCmd(a))
	cmd.AddCommand(newDiffCmd(a))
	cmd.AddCommand(newTablesCmd(a))
	cmd.AddCommand(newMigrationsCmd(a))
	cmd.AddCommand(newServeCmd(a))
	cmd.AddCommand(newVersionCmd(version, commit, date))

	return cmd
}

func (a *app) loadConfig() (*config.Config, error) {
	return config.NewLoader(a.viper).Load(a.cfgFile)
}

func (a *app) inspector() *inspector.Inspector {
	return inspector.New(a.loadConfig, inspector.WithLogger(a.logger))
}

func (a *app) formatter() (output.Formatter, error) {
	return output.NewFormatter(a.format)
}

// writeTo returns a sink for the (string, error) pairs formatters return.
func writeTo(w io.Writer) func(string, error) error {
	return func(s string, err error) error {
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, s)
		return err
	}
}
