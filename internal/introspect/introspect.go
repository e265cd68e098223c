// Package introspect reads the actual schema of a live database. Each dialect
// package implements Catalog on top of its metadata tables and registers
// itself in init; Introspector assembles the catalog primitives into a
// core.DatabaseSchema. Catalog query errors are returned as they are, so
// callers see the proximate database error.
package introspect

import (
	"context"
	"fmt"
	"slices"

	"github.com/jmoiron/sqlx"

	"schemasync/internal/core"
)

// Catalog is the per-dialect set of metadata queries.
type Catalog interface {
	TableNames(ctx context.Context) ([]string, error)
	HasTable(ctx context.Context, table string) (bool, error)
	Columns(ctx context.Context, table string) ([]*core.Column, error)
	Indexes(ctx context.Context, table string) ([]*core.Index, error)
	ForeignKeys(ctx context.Context, table string) ([]*core.ForeignKey, error)
	TableMeta(ctx context.Context, table string) (TableMeta, error)
}

// TableMeta holds the table level attributes a dialect can report. Fields the
// dialect has no notion of stay nil.
type TableMeta struct {
	Engine    *string
	Charset   *string
	Collation *string
	Comment   *string
}

// Introspector implements the common introspection contract over a Catalog.
type Introspector struct {
	catalog    Catalog
	connection string
	db         *sqlx.DB
}

// New wraps a catalog. connection is the label reported on the schema.
func New(catalog Catalog, connection string) *Introspector {
	return &Introspector{catalog: catalog, connection: connection}
}

// Introspect reads every table except the ignored ones.
func (i *Introspector) Introspect(ctx context.Context, ignored []string) (*core.DatabaseSchema, error) {
	names, err := i.catalog.TableNames(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}

	s := core.NewDatabaseSchema(i.connection)
	for _, name := range names {
		if slices.Contains(ignored, name) {
			continue
		}
		t, err := i.Table(ctx, name)
		if err != nil {
			return nil, err
		}
		if t != nil {
			s.PutTable(t)
		}
	}
	return s, nil
}

// Table reads one table. A table that does not exist yields nil and no error.
func (i *Introspector) Table(ctx context.Context, name string) (*core.Table, error) {
	ok, err := i.catalog.HasTable(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("check table %s: %w", name, err)
	}
	if !ok {
		return nil, nil
	}

	t := core.NewTable(name)
	if t.Columns, err = i.Columns(ctx, name); err != nil {
		return nil, err
	}
	if t.Indexes, err = i.Indexes(ctx, name); err != nil {
		return nil, err
	}
	if t.ForeignKeys, err = i.ForeignKeys(ctx, name); err != nil {
		return nil, err
	}

	meta, err := i.catalog.TableMeta(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("table %s attributes: %w", name, err)
	}
	t.Engine, t.Charset, t.Collation, t.Comment = meta.Engine, meta.Charset, meta.Collation, meta.Comment
	return t, nil
}

func (i *Introspector) HasTable(ctx context.Context, name string) (bool, error) {
	return i.catalog.HasTable(ctx, name)
}

func (i *Introspector) Columns(ctx context.Context, table string) ([]*core.Column, error) {
	cols, err := i.catalog.Columns(ctx, table)
	if err != nil {
		return nil, fmt.Errorf("table %s columns: %w", table, err)
	}
	return cols, nil
}

func (i *Introspector) Indexes(ctx context.Context, table string) ([]*core.Index, error) {
	idx, err := i.catalog.Indexes(ctx, table)
	if err != nil {
		return nil, fmt.Errorf("table %s indexes: %w", table, err)
	}
	return idx, nil
}

func (i *Introspector) ForeignKeys(ctx context.Context, table string) ([]*core.ForeignKey, error) {
	fks, err := i.catalog.ForeignKeys(ctx, table)
	if err != nil {
		return nil, fmt.Errorf("table %s foreign keys: %w", table, err)
	}
	return fks, nil
}

// Close releases the connection when the introspector was created by Open.
// Borrowed handles are left to their owner.
func (i *Introspector) Close() error {
	if i.db == nil {
		return nil
	}
	return i.db.Close()
}
