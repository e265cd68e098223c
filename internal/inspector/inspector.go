// Package inspector ties the pieces together: it builds the schema the
// migrations declare, reads the schema the database has, and diffs them.
// Configuration is read again on every call so that edits to the config
// file or .env take effect without a restart.
package inspector

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"time"

	"schemasync/internal/config"
	"schemasync/internal/core"
	"schemasync/internal/diff"
	"schemasync/internal/migration"
)

// ConfigSource supplies the current configuration.
type ConfigSource func() (*config.Config, error)

// Inspector is the entry point used by the CLI and the HTTP API.
type Inspector struct {
	config  ConfigSource
	connect Connector
	logger  *slog.Logger
}

// Option configures an Inspector.
type Option func(*Inspector)

// WithConnector replaces the default connector.
func WithConnector(c Connector) Option {
	return func(i *Inspector) { i.connect = c }
}

// WithLogger sets the logger. A nil logger discards.
func WithLogger(l *slog.Logger) Option {
	return func(i *Inspector) {
		if l != nil {
			i.logger = l
		}
	}
}

func New(cfg ConfigSource, opts ...Option) *Inspector {
	i := &Inspector{
		config:  cfg,
		connect: Connect,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Config returns the configuration as the next operation would see it.
func (i *Inspector) Config() (*config.Config, error) {
	return i.config()
}

// DatabaseSchema reads the actual schema, without the ignored tables.
func (i *Inspector) DatabaseSchema(ctx context.Context) (*core.DatabaseSchema, error) {
	cfg, err := i.config()
	if err != nil {
		return nil, err
	}
	return i.databaseSchema(ctx, cfg)
}

func (i *Inspector) databaseSchema(ctx context.Context, cfg *config.Config) (*core.DatabaseSchema, error) {
	start := time.Now()
	src, err := i.connect(ctx, cfg)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	s, err := src.Introspect(ctx, cfg.IgnoredTables)
	if err != nil {
		return nil, err
	}
	i.logger.Debug("database schema read",
		"driver", cfg.Driver,
		"tables", s.Count(),
		"duration", time.Since(start))
	return s, nil
}

// MigrationSchema builds the schema declared by the migration files.
func (i *Inspector) MigrationSchema() (*core.DatabaseSchema, error) {
	cfg, err := i.config()
	if err != nil {
		return nil, err
	}
	return i.migrationSchema(cfg)
}

func (i *Inspector) migrationSchema(cfg *config.Config) (*core.DatabaseSchema, error) {
	start := time.Now()
	s, err := migration.Parse(cfg.MigrationsDir(), cfg.IgnoredTables)
	if err != nil {
		return nil, err
	}
	i.logger.Debug("migration schema built",
		"path", cfg.MigrationsDir(),
		"tables", s.Count(),
		"duration", time.Since(start))
	return s, nil
}

// MigrationFile is one migration on disk.
type MigrationFile struct {
	File string `json:"file"`
	Path string `json:"path"`
}

// MigrationFiles lists the migration files in authoring order together with
// the directory they were read from.
func (i *Inspector) MigrationFiles() ([]MigrationFile, string, error) {
	cfg, err := i.config()
	if err != nil {
		return nil, "", err
	}
	dir := cfg.MigrationsDir()
	paths, err := migration.Files(dir)
	if err != nil {
		return nil, dir, err
	}

	files := make([]MigrationFile, 0, len(paths))
	for _, p := range paths {
		files = append(files, MigrationFile{File: filepath.Base(p), Path: p})
	}
	return files, dir, nil
}

// Compare diffs the migration schema against the database schema. Either
// side failing aborts the comparison.
func (i *Inspector) Compare(ctx context.Context) (*diff.SchemaDiff, error) {
	cfg, err := i.config()
	if err != nil {
		return nil, err
	}
	expected, err := i.migrationSchema(cfg)
	if err != nil {
		return nil, err
	}
	actual, err := i.databaseSchema(ctx, cfg)
	if err != nil {
		return nil, err
	}

	d := diff.Diff(expected, actual)
	i.logger.Debug("schemas compared", "tables", len(d.Tables), "differences", d.HasDifferences)
	return d, nil
}

// Tables returns the database tables in schema order.
func (i *Inspector) Tables(ctx context.Context) ([]*core.Table, error) {
	s, err := i.DatabaseSchema(ctx)
	if err != nil {
		return nil, err
	}
	return s.Tables, nil
}

// Table returns one database table, or nil when it does not exist or is
// ignored.
func (i *Inspector) Table(ctx context.Context, name string) (*core.Table, error) {
	s, err := i.DatabaseSchema(ctx)
	if err != nil {
		return nil, err
	}
	return s.Table(name), nil
}

// TableDiff returns the diff of one table, or nil when neither side has it.
func (i *Inspector) TableDiff(ctx context.Context, name string) (*diff.TableDiff, error) {
	d, err := i.Compare(ctx)
	if err != nil {
		return nil, err
	}
	return d.Table(name), nil
}
